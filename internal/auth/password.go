package auth

import "golang.org/x/crypto/bcrypt"

// HashPasswordWithCost hashes a password using bcrypt at the given cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost. Any password
// is accepted, including an empty one.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
