package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "hunter22")

	ok, err := VerifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("hunter22")
	require.NoError(t, err)
	b, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "equal passwords must hash differently")
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=2$not-base64!$also-not",
		"$bcrypt$whatever",
	} {
		ok, err := VerifyPassword("hunter22", hash)
		assert.False(t, ok)
		assert.Error(t, err, "hash %q", hash)
	}
}
