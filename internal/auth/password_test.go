package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("userOnePass")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, VerifyPassword(hash, "userOnePass"))
	assert.False(t, VerifyPassword(hash, "userTwoPass"))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("samepassword")
	require.NoError(t, err)
	second, err := HashPassword("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same plaintext must produce different digests")
	assert.True(t, VerifyPassword(first, "samepassword"))
	assert.True(t, VerifyPassword(second, "samepassword"))
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	// Malformed digests must read as a plain mismatch, never an error
	assert.False(t, VerifyPassword("", "password"))
	assert.False(t, VerifyPassword("not-a-digest", "password"))
	assert.False(t, VerifyPassword("$argon2id$v=19$m=65536,t=3,p=4$short", "password"))
	assert.False(t, VerifyPassword("$argon2id$v=19$m=65536,t=3,p=4$!!!$!!!", "password"))
}
