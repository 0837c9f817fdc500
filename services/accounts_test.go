package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountsService_Register(t *testing.T) {
	db := setupTestDB(t)
	accounts := &AccountsService{DB: db, BcryptCost: bcrypt.MinCost}

	t.Run("stores lowercase username", func(t *testing.T) {
		user, err := accounts.Register("  Alice ", "password123", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, "password123", user.PasswordHash)

		stored, err := accounts.GetUserByID(user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "alice", stored.Username)
	})

	t.Run("duplicate username differing in case", func(t *testing.T) {
		_, err := accounts.Register("ALICE", "password123", "password123")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "already exists")
	})

	tests := []struct {
		name      string
		username  string
		password1 string
		password2 string
		problem   string
	}{
		{"empty username", "", "password123", "password123", "Username is required."},
		{"bad characters", "bob smith", "password123", "password123", "Username may contain only"},
		{"short password", "bob", "short", "short", "at least 8 characters"},
		{"mismatched passwords", "bob", "password123", "password124", "didn't match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.Register(tt.username, tt.password1, tt.password2)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestAccountsService_FindByLogin(t *testing.T) {
	db := setupTestDB(t)
	accounts := &AccountsService{DB: db}
	mustRegister(t, db, "Alice")

	user, err := accounts.FindByLogin("alice", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)

	user, err = accounts.FindByLogin("ALICE", "password123")
	require.NoError(t, err)
	assert.NotNil(t, user)

	user, err = accounts.FindByLogin("alice", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = accounts.FindByLogin("nobody", "password123")
	require.NoError(t, err)
	assert.Nil(t, user)
}
