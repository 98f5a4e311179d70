package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Token carries a signed bearer token and its expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService exchanges the shared access code for a bearer token and
// verifies tokens on subsequent requests. This is a single-tenant app; there
// are no user accounts, just one bcrypt-hashed code.
type AuthService interface {
	// ValidateAccessCode checks the submitted code against the configured
	// hash and issues a token. Returns ErrInvalidAccessCode on mismatch.
	ValidateAccessCode(ctx context.Context, code string) (*Token, error)

	// VerifyToken checks a bearer token's signature and expiry.
	// Returns ErrInvalidToken on any failure.
	VerifyToken(ctx context.Context, tokenString string) error
}

type authServiceImpl struct {
	accessCodeHash []byte
	signingKey     []byte
	tokenLifetime  time.Duration
	timeFunc       func() time.Time // Injectable for testing
	clockSkew      time.Duration
	logger         *slog.Logger
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates an AuthService from the auth configuration.
func NewAuthService(cfg config.AuthConfig, logger *slog.Logger) (AuthService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if cfg.AccessCodeHash == "" {
		return nil, fmt.Errorf("access code hash cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		accessCodeHash: []byte(cfg.AccessCodeHash),
		signingKey:     []byte(cfg.JWTSecret),
		tokenLifetime:  time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		timeFunc:       time.Now,
		clockSkew:      2 * time.Minute,
		logger:         logger.With(slog.String("component", "auth_service")),
	}, nil
}

// ValidateAccessCode implements AuthService.ValidateAccessCode
func (s *authServiceImpl) ValidateAccessCode(ctx context.Context, code string) (*Token, error) {
	if err := bcrypt.CompareHashAndPassword(s.accessCodeHash, []byte(code)); err != nil {
		s.logger.Warn("access code rejected")
		return nil, ErrInvalidAccessCode
	}

	now := s.timeFunc()
	expiresAt := now.Add(s.tokenLifetime)
	claims := jwt.RegisteredClaims{
		Subject:   "essay-api",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, &ServiceError{
			Operation: "validate_access_code",
			Message:   "failed to sign token",
			Err:       err,
		}
	}

	s.logger.Info("access code accepted", slog.Time("expires_at", expiresAt))
	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken implements AuthService.VerifyToken
func (s *authServiceImpl) VerifyToken(ctx context.Context, tokenString string) error {
	now := s.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil || !token.Valid {
		s.logger.Debug("token rejected", slog.String("reason", errString(err)))
		return ErrInvalidToken
	}

	return nil
}

func errString(err error) string {
	if err == nil {
		return "invalid"
	}
	return err.Error()
}
