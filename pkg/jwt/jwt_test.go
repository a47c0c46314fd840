package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	token, err := Generate(secret, "user-1", "rentabilidad-api", []string{CapUpload, CapUseAI}, 60)
	require.NoError(t, err)

	claims, err := Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "rentabilidad-api", claims.Issuer)
	assert.True(t, claims.Has(CapUpload))
	assert.True(t, claims.Has(CapUseAI))
	assert.False(t, claims.Has(CapDelete))
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate(secret, "user-1", "", nil, 60)
	require.NoError(t, err)

	_, err = Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate(secret, "user-1", "", nil, -1)
	require.NoError(t, err)

	_, err = Parse(secret, token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_MetodoInesperado(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "user-1",
	})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(secret, s)
	assert.Error(t, err)
}

func TestGenerate_Validaciones(t *testing.T) {
	_, err := Generate("", "user-1", "", nil, 60)
	assert.Error(t, err)
	_, err = Generate(secret, "", "", nil, 60)
	assert.Error(t, err)
	_, err = Parse("", "x")
	assert.Error(t, err)
}
