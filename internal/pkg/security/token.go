package security

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/newsdesk/newsdesk/app/models"
)

// TokenLifetime is fixed, tokens are not refreshed.
const TokenLifetime = 24 * time.Hour

var (
	ErrMissingSecret = errors.New("secret is required for token signing")
	ErrInvalidToken  = errors.New("invalid token")
)

type Claims struct {
	UserID   uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the caller identity carried by the claims.
func (c *Claims) Actor() models.Actor {
	return models.Actor{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// TokenSigner issues and verifies HS256 bearer tokens.
type TokenSigner struct {
	Secret   []byte
	Issuer   string
	Lifetime time.Duration

	now func() time.Time
}

func NewTokenSigner(secret, issuer string) *TokenSigner {
	return &TokenSigner{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Lifetime: TokenLifetime,
		now:      time.Now,
	}
}

func (s *TokenSigner) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *TokenSigner) Sign(userID uint, username string, role models.Role) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrMissingSecret
	}
	lifetime := s.Lifetime
	if lifetime <= 0 {
		lifetime = TokenLifetime
	}

	now := s.clock()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Parse verifies signature, algorithm and expiry and returns the claims.
func (s *TokenSigner) Parse(tokenStr string) (*Claims, error) {
	if len(s.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock),
	}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
