package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test_secret_key_1234567890",
		Algorithm:             "HS256",
		AccessTokenTTLMinutes: 30,
		RefreshTokenTTLDays:   7,
	}
}

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager_RejectsMisconfiguration(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = ""
	_, err := NewTokenManager(cfg)
	assert.Error(t, err)

	cfg = testAuthConfig()
	cfg.Algorithm = "none"
	_, err = NewTokenManager(cfg)
	assert.Error(t, err)
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := newTestManager(t)

	tests := []struct {
		name    string
		kind    domain.TokenKind
		role    domain.Role
		wantTTL time.Duration
	}{
		{name: "access token for user", kind: domain.TokenKindAccess, role: domain.RoleUser, wantTTL: 30 * time.Minute},
		{name: "access token for admin", kind: domain.TokenKindAccess, role: domain.RoleAdmin, wantTTL: 30 * time.Minute},
		{name: "refresh token", kind: domain.TokenKindRefresh, role: domain.RoleUser, wantTTL: 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, exp, err := tm.Issue("u1", "alice", "alice@example.com", tt.role, tt.kind, nil)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)
			assert.WithinDuration(t, time.Now().Add(tt.wantTTL), exp, 2*time.Second)

			claims, err := tm.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.SubjectID())
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, "alice@example.com", claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.kind, claims.Kind)
		})
	}
}

func TestTokenManager_PayloadShape(t *testing.T) {
	tm := newTestManager(t)

	token, _, err := tm.Issue("u1", "alice", "alice@example.com", domain.RoleUser, domain.TokenKindAccess, nil)
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)
	for _, key := range []string{`"sub":"u1"`, `"username":"alice"`, `"email":"alice@example.com"`, `"role":"user"`, `"exp":`} {
		assert.Contains(t, string(payload), key)
	}
}

func TestTokenManager_TTLOverride(t *testing.T) {
	tm := newTestManager(t)
	ttl := 5 * time.Second

	_, exp, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindRefresh, &ttl)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(ttl), exp, 2*time.Second)
}

func TestTokenManager_ZeroTTLIsExpired(t *testing.T) {
	tm := newTestManager(t)
	zero := time.Duration(0)

	issuedAt := time.Now()
	tm.now = func() time.Time { return issuedAt }
	token, _, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindAccess, &zero)
	require.NoError(t, err)

	tm.now = func() time.Time { return issuedAt.Add(time.Second) }
	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeExpired))
}

func TestTokenManager_ExpiresAfterTTL(t *testing.T) {
	tm := newTestManager(t)
	issuedAt := time.Now()
	tm.now = func() time.Time { return issuedAt }

	token, _, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindAccess, nil)
	require.NoError(t, err)

	tm.now = func() time.Time { return issuedAt.Add(29 * time.Minute) }
	_, err = tm.Verify(token)
	require.NoError(t, err)

	tm.now = func() time.Time { return issuedAt.Add(31 * time.Minute) }
	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeExpired))
}

func TestTokenManager_RejectsInvalidTokens(t *testing.T) {
	tm := newTestManager(t)
	valid, _, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindAccess, nil)
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "different_secret"
	other, err := NewTokenManager(otherCfg)
	require.NoError(t, err)
	forged, _, err := other.Issue("u1", "alice", "a@x.com", domain.RoleAdmin, domain.TokenKindAccess, nil)
	require.NoError(t, err)

	hs512Cfg := testAuthConfig()
	hs512Cfg.Algorithm = "HS512"
	hs512, err := NewTokenManager(hs512Cfg)
	require.NoError(t, err)
	wrongAlg, _, err := hs512.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindAccess, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{name: "empty token", token: "", wantCode: apperrors.CodeUnauthenticated},
		{name: "malformed token", token: "invalid.token.here", wantCode: apperrors.CodeInvalidCredentials},
		{name: "not a jwt", token: "garbage", wantCode: apperrors.CodeInvalidCredentials},
		{name: "wrong secret", token: forged, wantCode: apperrors.CodeInvalidCredentials},
		{name: "wrong algorithm", token: wrongAlg, wantCode: apperrors.CodeInvalidCredentials},
		{name: "tampered suffix", token: valid + "tampered", wantCode: apperrors.CodeInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tm.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestTokenManager_BitFlippedPayloadNeverVerifies(t *testing.T) {
	tm := newTestManager(t)
	token, _, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindAccess, nil)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	for i := range payload {
		flipped := append([]byte(nil), payload...)
		flipped[i] ^= 0x01
		tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(flipped) + "." + parts[2]

		claims, err := tm.Verify(tampered)
		require.Error(t, err, "byte %d", i)
		assert.Nil(t, claims)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials), "byte %d: %v", i, err)
	}
}

func TestTokenManager_MissingExpiryIsExpired(t *testing.T) {
	tm := newTestManager(t)
	claims := &Claims{
		Username:         "alice",
		Role:             domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAuthConfig().JWTSecret))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeExpired))
}

func TestTokenManager_MissingRequiredFields(t *testing.T) {
	tm := newTestManager(t)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		claims *Claims
	}{
		{name: "unknown role", claims: &Claims{Username: "alice", Email: "a@x.com", Role: "root",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: exp}}},
		{name: "missing subject", claims: &Claims{Username: "alice", Email: "a@x.com", Role: domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}},
		{name: "missing username", claims: &Claims{Email: "a@x.com", Role: domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: exp}}},
		{name: "missing email", claims: &Claims{Username: "alice", Role: domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: exp}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte(testAuthConfig().JWTSecret))
			require.NoError(t, err)

			_, err = tm.Verify(token)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials), "got %v", err)
		})
	}
}

func TestTokenManager_VerifyRequest(t *testing.T) {
	tm := newTestManager(t)
	access, _, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindAccess, nil)
	require.NoError(t, err)
	refresh, _, err := tm.Issue("u1", "alice", "a@x.com", domain.RoleUser, domain.TokenKindRefresh, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "valid bearer", header: "Bearer " + access},
		{name: "lowercase scheme", header: "bearer " + access},
		{name: "missing header", header: "", wantCode: apperrors.CodeUnauthenticated},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantCode: apperrors.CodeInvalidCredentials},
		{name: "no token", header: "Bearer", wantCode: apperrors.CodeInvalidCredentials},
		{name: "empty token after scheme", header: "Bearer  ", wantCode: apperrors.CodeInvalidCredentials},
		{name: "refresh token rejected", header: "Bearer " + refresh, wantCode: apperrors.CodeInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tm.VerifyRequest(tt.header)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "u1", claims.SubjectID())
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestTokenManager_IssuePair(t *testing.T) {
	tm := newTestManager(t)
	user := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleAdmin}

	pair, err := tm.IssuePair(user)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	access, err := tm.VerifyKind(pair.AccessToken, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.True(t, access.IsAdmin())

	_, err = tm.VerifyKind(pair.RefreshToken, domain.TokenKindRefresh)
	require.NoError(t, err)
	_, err = tm.VerifyKind(pair.RefreshToken, domain.TokenKindAccess)
	assert.Error(t, err)
}
