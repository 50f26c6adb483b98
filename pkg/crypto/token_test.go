package crypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamtrackr/teamtrackr/pkg/crypto"
)

func TestGenerateResetToken(t *testing.T) {
	token, err := crypto.GenerateResetToken()
	require.NoError(t, err)

	// 20 random bytes hex encoded
	assert.Len(t, token, 40)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	other, err := crypto.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashToken(t *testing.T) {
	hash := crypto.HashToken("some-token")

	// sha256 hex digest
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, crypto.HashToken("some-token"))
	assert.NotEqual(t, hash, crypto.HashToken("other-token"))
	assert.NotEqual(t, "some-token", hash)
}

func TestGenerateRandomBytes(t *testing.T) {
	b, err := crypto.GenerateRandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
}
