package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anamartins/controledoces-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "controle-doces",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "controle-doces", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), 7)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), 7)
	require.NoError(t, err)

	other := cfg
	other.Secret = "another-secret"
	_, err = ParseAccessToken(other, signed)
	assert.Error(t, err)
}

func TestMintAccessTokenRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	_, err := MintAccessToken(cfg, time.Now(), 7)
	assert.Error(t, err)
}
