package auth

import (
	"testing"

	"bazaar/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher() *bcryptHasher {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}} // min cost keeps tests fast
	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := testHasher()

	password := "correct-horse-battery-1"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("wrong-password-2", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same-password-1")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_MalformedStoredHash(t *testing.T) {
	hasher := testHasher()

	// A corrupted or legacy hash must fail the check, never panic or error out.
	assert.False(t, hasher.Check("any-password-1", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Check("any-password-1", ""))
}

func TestBcryptHasher_DefaultCostFallback(t *testing.T) {
	// Out-of-range configured cost falls back to the library default.
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 99}}
	hasher := NewBcryptHasher(cfg).(*bcryptHasher)
	assert.Equal(t, 10, hasher.cost) // bcrypt.DefaultCost

	hasher = NewBcryptHasher(&config.Config{}).(*bcryptHasher)
	assert.Equal(t, 10, hasher.cost)
}
