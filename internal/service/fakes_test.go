package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
)

type fakeLimiter struct {
	limit    int
	failures map[string]int
}

func newFakeLimiter(limit int) *fakeLimiter {
	return &fakeLimiter{limit: limit, failures: make(map[string]int)}
}

func (l *fakeLimiter) Allowed(_ context.Context, email string) (bool, error) {
	return l.failures[email] < l.limit, nil
}

func (l *fakeLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *fakeLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	return nil
}

func testTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(config.AuthConfig{
		JWTSecret:             "service-test-secret",
		Algorithm:             "HS256",
		AccessTokenTTLMinutes: 30,
		RefreshTokenTTLDays:   7,
	})
	require.NoError(t, err)
	return tm
}

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

func claimsFor(id string, role domain.Role) *auth.Claims {
	c := &auth.Claims{Role: role, Kind: domain.TokenKindAccess}
	c.Subject = id
	return c
}
