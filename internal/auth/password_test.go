package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", bcrypt.MinCost)

	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", 99)

	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword("correct-horse-battery", hash))
	assert.ErrorIs(t, CheckPassword("wrong-password-here", hash), ErrInvalidPassword)
}
