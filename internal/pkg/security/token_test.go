package security

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk/app/models"
)

func TestSignAndParse(t *testing.T) {
	signer := NewTokenSigner("test-secret", "newsdesk")

	token, err := signer.Sign(7, "jane", models.RoleEditor)
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, models.RoleEditor, claims.Role)
	assert.Equal(t, "newsdesk", claims.Issuer)
	assert.WithinDuration(t, claims.IssuedAt.Add(TokenLifetime), claims.ExpiresAt.Time, time.Second)

	actor := claims.Actor()
	assert.Equal(t, models.Actor{ID: 7, Username: "jane", Role: models.RoleEditor}, actor)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenSigner("secret-a", "newsdesk").Sign(1, "a", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenSigner("secret-b", "newsdesk").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signer := NewTokenSigner("test-secret", "newsdesk")
	signer.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, err := signer.Sign(1, "old", models.RoleJournalist)
	require.NoError(t, err)

	signer.now = time.Now
	_, err = signer.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsOtherAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Role:   models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "newsdesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenSigner("test-secret", "newsdesk").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	signer := NewTokenSigner("test-secret", "newsdesk")
	token, err := signer.Sign(1, "ghost", models.Role("owner"))
	require.NoError(t, err)

	_, err = signer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignRequiresSecret(t *testing.T) {
	_, err := NewTokenSigner("", "newsdesk").Sign(1, "a", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
