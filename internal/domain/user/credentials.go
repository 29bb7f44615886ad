package user

import (
	"sync"

	"github.com/example/storefront/internal/auth"
)

// SeedPassword is the password of the built-in demo accounts
const SeedPassword = "password123"

type credential struct {
	passwordHash string
	identity     Identity
}

// CredentialTable is the process-wide list of known accounts. Lookups are by
// exact email match.
type CredentialTable struct {
	mu         sync.RWMutex
	byEmail    map[string]credential
	bcryptCost int
}

// NewCredentialTable creates an empty table hashing at the given bcrypt cost
func NewCredentialTable(bcryptCost int) *CredentialTable {
	return &CredentialTable{
		byEmail:    make(map[string]credential),
		bcryptCost: bcryptCost,
	}
}

// NewSeededCredentialTable creates a table holding the demo accounts
func NewSeededCredentialTable(bcryptCost int) (*CredentialTable, error) {
	t := NewCredentialTable(bcryptCost)
	for _, identity := range seedIdentities() {
		if err := t.Add(identity, SeedPassword); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func seedIdentities() []Identity {
	return []Identity{
		{
			ID:         "1",
			Email:      "john@example.com",
			FirstName:  "John",
			LastName:   "Doe",
			Phone:      "+1 (555) 123-4567",
			DateJoined: "2024-01-15",
			Preferences: Preferences{
				Newsletter:         true,
				SMSUpdates:         false,
				PreferredSize:      "L",
				FavoriteCategories: []string{"men's clothing"},
			},
		},
		{
			ID:         "2",
			Email:      "jane@example.com",
			FirstName:  "Jane",
			LastName:   "Smith",
			Phone:      "+1 (555) 987-6543",
			DateJoined: "2024-02-20",
			Preferences: Preferences{
				Newsletter:         false,
				SMSUpdates:         true,
				PreferredSize:      "M",
				FavoriteCategories: []string{"women's clothing"},
			},
		},
	}
}

// Match returns the identity registered under email if password matches
func (t *CredentialTable) Match(email, password string) (Identity, bool) {
	t.mu.RLock()
	cred, ok := t.byEmail[email]
	t.mu.RUnlock()
	if !ok {
		return Identity{}, false
	}
	if !auth.CheckPassword(password, cred.passwordHash) {
		return Identity{}, false
	}
	return cred.identity.clone(), true
}

// Exists reports whether an account uses email
func (t *CredentialTable) Exists(email string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byEmail[email]
	return ok
}

// Add registers identity under its email with a hashed password
func (t *CredentialTable) Add(identity Identity, password string) error {
	hash, err := auth.HashPasswordWithCost(password, t.bcryptCost)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byEmail[identity.Email]; ok {
		return ErrEmailExists
	}
	t.byEmail[identity.Email] = credential{passwordHash: hash, identity: identity.clone()}
	return nil
}

// Len returns the number of accounts
func (t *CredentialTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byEmail)
}
