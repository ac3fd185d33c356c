package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/validation"
	"github.com/frahmantamala/task-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

const tokenType = "Bearer"

// Authenticator checks an email and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type Service struct {
	users  Authenticator
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(users Authenticator, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: ttl,
		Issuer:         "task-management",
		now:            time.Now,
	}
}

// Login verifies the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthTokens, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	u, err := s.users.Authenticate(ctx, dto.Email, dto.Password)
	if err != nil {
		if internal.KindOf(err) == internal.ErrorTypeUnauthorized {
			s.logger.Warn("login rejected", "email", dto.Email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login failed", "error", err)
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	return &AuthTokens{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// ValidateAccessToken returns the user id carried by a valid token.
func (s *Service) ValidateAccessToken(tokenString string) (int64, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID int64) (string, time.Time, error) {
	now := j.clock()
	expiresAt := now.Add(j.AccessTokenTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.clock), jwt.WithIssuer(j.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (j *JWTTokenGenerator) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}
