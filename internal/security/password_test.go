package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("hash never equals plaintext and verifies", func(t *testing.T) {
		hash, err := hasher.Hash("pw12345")
		require.NoError(t, err)

		assert.NotEqual(t, "pw12345", hash)
		assert.True(t, hasher.Verify("pw12345", hash))
		assert.False(t, hasher.Verify("wrong", hash))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := hasher.Hash("pw12345")
		require.NoError(t, err)
		second, err := hasher.Hash("pw12345")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("empty hash never verifies", func(t *testing.T) {
		assert.False(t, hasher.Verify("pw12345", ""))
		assert.False(t, hasher.Verify("", ""))
	})

	t.Run("garbage hash never verifies", func(t *testing.T) {
		assert.False(t, hasher.Verify("pw12345", "not-a-bcrypt-hash"))
	})

	t.Run("passwords over 72 bytes hash and verify", func(t *testing.T) {
		long := strings.Repeat("p", 80)
		hash, err := hasher.Hash(long)
		require.NoError(t, err)

		assert.True(t, hasher.Verify(long, hash))
		assert.True(t, hasher.Verify(strings.Repeat("p", 72)+"different", hash))
		assert.False(t, hasher.Verify(strings.Repeat("p", 71), hash))
	})
}

func TestBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	hasher, err := NewBcryptHasher(DefaultBcryptCost)
	require.NoError(t, err)

	hash, err := hasher.Hash("pw12345")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestNewBcryptHasher_RejectsInvalidCost(t *testing.T) {
	t.Parallel()

	_, err := NewBcryptHasher(bcrypt.MinCost - 1)
	require.Error(t, err)

	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
}
