package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_ValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"8 characters", "password"},
		{"seeded password", "password123"},
		{"with special chars", "p@ssw0rd!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPasswordWithCost(tt.password, bcrypt.MinCost)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, len(hash) >= 60, "bcrypt hash should be at least 60 chars")
			assert.True(t, CheckPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_ShortPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"3 characters", "abc"},
		{"empty", ""},
		{"spaces only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPasswordWithCost(tt.password, bcrypt.MinCost)
			require.NoError(t, err)
			assert.True(t, CheckPassword(tt.password, hash))
			assert.False(t, CheckPassword(tt.password+"x", hash))
		})
	}
}

func TestHashPasswordWithCost_OutOfRangeCostFallsBack(t *testing.T) {
	hash, err := HashPasswordWithCost("password123", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	hash1, err := HashPasswordWithCost("testpassword123", bcrypt.MinCost)
	require.NoError(t, err)
	hash2, err := HashPasswordWithCost("testpassword123", bcrypt.MinCost)
	require.NoError(t, err)

	// bcrypt generates different hashes due to random salt
	assert.NotEqual(t, hash1, hash2)
}

func TestCheckPassword_Mismatches(t *testing.T) {
	hash, err := HashPasswordWithCost("Password123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword("Password123", hash))
	assert.False(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("", hash))
	assert.False(t, CheckPassword("Password123", "invalid-hash"))
	assert.False(t, CheckPassword("Password123", ""))
}
