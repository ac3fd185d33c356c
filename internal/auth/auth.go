package auth

import (
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator issues and verifies access tokens for a user id.
type TokenGenerator interface {
	GenerateAccessToken(userID int64) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the user id in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken string `json:"token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	Issuer         string
	now            func() time.Time
}

var (
	ErrInvalidCredentials = internal.NewUnauthorizedError("Login failed: Email or password incorrect.", internal.ErrCodeInvalidCredentials)
	ErrInvalidToken       = internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken)
	ErrTokenExpired       = internal.NewUnauthorizedError("token expired", internal.ErrCodeTokenExpired)
	ErrMissingToken       = internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken)
)
