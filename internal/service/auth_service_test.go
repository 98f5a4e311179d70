package service_test

import (
	"context"
	"testing"

	"github.com/inkgrade/essay-api/internal/config"
	"github.com/inkgrade/essay-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newAuthService(t *testing.T, accessCode string) service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := service.NewAuthService(config.AuthConfig{
		AccessCodeHash:       string(hash),
		JWTSecret:            testJWTSecret,
		TokenLifetimeMinutes: 60,
	}, newTestLogger())
	require.NoError(t, err)
	return svc
}

func TestValidateAccessCode(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, "open-sesame")

	token, err := svc.ValidateAccessCode(context.Background(), "open-sesame")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.False(t, token.ExpiresAt.IsZero())

	// The issued token verifies.
	assert.NoError(t, svc.VerifyToken(context.Background(), token.Value))
}

func TestValidateAccessCodeRejectsWrongCode(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, "open-sesame")

	_, err := svc.ValidateAccessCode(context.Background(), "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidAccessCode)

	_, err = svc.ValidateAccessCode(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrInvalidAccessCode)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, "open-sesame")

	assert.ErrorIs(t, svc.VerifyToken(context.Background(), ""), service.ErrInvalidToken)
	assert.ErrorIs(t, svc.VerifyToken(context.Background(), "not.a.token"), service.ErrInvalidToken)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	issuer := newAuthService(t, "open-sesame")
	token, err := issuer.ValidateAccessCode(context.Background(), "open-sesame")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	other, err := service.NewAuthService(config.AuthConfig{
		AccessCodeHash:       string(hash),
		JWTSecret:            "ffffffffffffffffffffffffffffffff",
		TokenLifetimeMinutes: 60,
	}, newTestLogger())
	require.NoError(t, err)

	assert.ErrorIs(t, other.VerifyToken(context.Background(), token.Value), service.ErrInvalidToken)
}

func TestNewAuthServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := service.NewAuthService(config.AuthConfig{
		AccessCodeHash:       "hash",
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	}, nil)
	assert.Error(t, err)

	_, err = service.NewAuthService(config.AuthConfig{
		JWTSecret:            testJWTSecret,
		TokenLifetimeMinutes: 60,
	}, nil)
	assert.Error(t, err)
}
