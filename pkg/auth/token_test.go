package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
)

var testCfg = config.JWTConfig{Secret: "secret", Issuer: "sajavathub", ExpirationMinutes: 30}

func TestMintAndParseRoundTrip(t *testing.T) {
	token, err := MintPrincipalToken(testCfg, time.Now(), " principal-abc ")
	require.NoError(t, err)

	claims, err := ParsePrincipalToken(testCfg, token)
	require.NoError(t, err)
	assert.Equal(t, "principal-abc", claims.Principal)
	assert.Equal(t, "principal-abc", claims.Subject)
	assert.Equal(t, "sajavathub", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejects(t *testing.T) {
	valid, err := MintPrincipalToken(testCfg, time.Now(), "p1")
	require.NoError(t, err)
	expired, err := MintPrincipalToken(testCfg, time.Now().Add(-2*time.Hour), "p1")
	require.NoError(t, err)

	wrongSecret := testCfg
	wrongSecret.Secret = "different"
	_, err = ParsePrincipalToken(wrongSecret, valid)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	wrongIssuer := testCfg
	wrongIssuer.Issuer = "someone-else"
	_, err = ParsePrincipalToken(wrongIssuer, valid)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	_, err = ParsePrincipalToken(testCfg, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "p1", "iss": "sajavathub"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParsePrincipalToken(testCfg, none)
	assert.Error(t, err)
}

func TestParseFallsBackToSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "from-sub",
		Issuer:    "sajavathub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := ParsePrincipalToken(testCfg, raw)
	require.NoError(t, err)
	assert.Equal(t, "from-sub", claims.Principal)
}

func TestMintValidatesInput(t *testing.T) {
	_, err := MintPrincipalToken(testCfg, time.Now(), "  ")
	assert.ErrorIs(t, err, ErrNoPrincipal)

	noSecret := testCfg
	noSecret.Secret = ""
	_, err = MintPrincipalToken(noSecret, time.Now(), "p1")
	assert.ErrorIs(t, err, ErrNoSecret)

	noTTL := testCfg
	noTTL.ExpirationMinutes = 0
	_, err = MintPrincipalToken(noTTL, time.Now(), "p1")
	assert.Error(t, err)
}
