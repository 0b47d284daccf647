package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(42, "imran@x.com", "buyer", testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "imran@x.com", claims.Email)
	assert.Equal(t, "buyer", claims.Role)
	assert.Equal(t, string(AccessToken), claims.Type)

	claims, err = ValidateToken(pair.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, string(RefreshToken), claims.Type)

	assert.Greater(t, pair.RefreshTokenExpiresAt, pair.AccessTokenExpiresAt)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair(1, "a@x.com", "agent", testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, "another-secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenExpired(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		Email:  "a@x.com",
		Role:   "buyer",
		Type:   string(AccessToken),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-jwt", testSecret)
	require.Error(t, err)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, a, 64) // hex doubles the byte length

	b, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
