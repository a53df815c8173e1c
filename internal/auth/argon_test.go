package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-real-hash", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSentinelPassword_NeverMatches(t *testing.T) {
	hash, err := SentinelPassword()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	for _, guess := range []string{"", "password", "sentinel"} {
		ok, err := VerifyPassword(hash, guess)
		require.NoError(t, err)
		assert.False(t, ok, "guess %q should not match", guess)
	}
}

func TestGenerateToken_UniqueAndHashable(t *testing.T) {
	first, err := GenerateToken()
	require.NoError(t, err)
	second, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Same token hashes to the same value, different tokens don't.
	assert.Equal(t, HashToken(first), HashToken(first))
	assert.NotEqual(t, HashToken(first), HashToken(second))

	// SHA-256 hex is 64 characters.
	assert.Len(t, HashToken(first), 64)
}
