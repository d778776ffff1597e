package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "rahasia123", hash)

	assert.True(t, VerifyPassword(hash, "rahasia123"))
	assert.False(t, VerifyPassword(hash, "salah"))
	assert.False(t, VerifyPassword("not-an-encoded-hash", "rahasia123"))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("rahasia123")
	require.NoError(t, err)
	second, err := HashPassword("rahasia123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash gets a fresh salt")
}
