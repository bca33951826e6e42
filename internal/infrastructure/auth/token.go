package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// TokenVerifier validates access tokens and extracts the staff identity the
// chat engine binds to connections.
type TokenVerifier struct {
	secret []byte
}

type accessClaims struct {
	Role   string `json:"role"`
	TeamID string `json:"teamId"`
	jwt.RegisteredClaims
}

// NewTokenVerifierFromEnv reads ACCESS_TOKEN_SECRET.
func NewTokenVerifierFromEnv() (*TokenVerifier, error) {
	secret := os.Getenv("ACCESS_TOKEN_SECRET")
	if secret == "" {
		return nil, errors.New("auth: ACCESS_TOKEN_SECRET environment variable is not set")
	}
	return &TokenVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates the token, returning the embedded identity.
func (v *TokenVerifier) Verify(tokenString string) (livechat.StaffIdentity, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return livechat.StaffIdentity{}, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return livechat.StaffIdentity{}, errors.New("auth: invalid token claims")
	}
	return livechat.StaffIdentity{
		UserID: claims.Subject,
		Role:   claims.Role,
		TeamID: claims.TeamID,
	}, nil
}
