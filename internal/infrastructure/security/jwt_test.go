package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsTokenRoundTrip(t *testing.T) {
	const secret = "test-ops-secret"

	token, err := GenerateOpsToken(secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.True(t, IsOpsClaims(claims))
	assert.NotEmpty(t, claims["jti"])
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateOpsToken("right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	const secret = "test-ops-secret"

	token, err := GenerateOpsToken(secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, secret)
	assert.Error(t, err)
}

func TestGenerateULIDIsUniqueAndSortable(t *testing.T) {
	first := GenerateULID()
	second := GenerateULID()

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}

func TestGenerateSecureKeyLength(t *testing.T) {
	key, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.Len(t, key, 64)
}
