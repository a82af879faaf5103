package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Claims describes the JWT payload.
type Claims struct {
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Role     domain.Role      `json:"role"`
	Kind     domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// SubjectID returns the identifier of the user the token was issued to.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == domain.RoleAdmin
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager from validated auth settings.
func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, errors.New("unknown signing method " + cfg.Algorithm)
	}
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		method:     method,
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
		now:        time.Now,
	}, nil
}

// Issue builds and signs a token of the given kind. A non-nil ttl replaces
// the configured default for that kind.
func (tm *TokenManager) Issue(subjectID, username, email string, role domain.Role, kind domain.TokenKind, ttl *time.Duration) (string, time.Time, error) {
	lifetime := tm.accessTTL
	if kind == domain.TokenKindRefresh {
		lifetime = tm.refreshTTL
	}
	if ttl != nil {
		lifetime = *ttl
	}

	now := tm.now()
	expiresAt := now.Add(lifetime)
	claims := &Claims{
		Username: username,
		Email:    email,
		Role:     role,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(tm.method, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// IssuePair mints an access and a refresh token for the user.
func (tm *TokenManager) IssuePair(user *domain.User) (domain.TokenPair, error) {
	access, _, err := tm.Issue(user.ID, user.Username, user.Email, user.Role, domain.TokenKindAccess, nil)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, _, err := tm.Issue(user.ID, user.Username, user.Email, user.Role, domain.TokenKindRefresh, nil)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Verify validates signature and expiry of tokenStr and returns its claims.
// Rejections carry the UNAUTHENTICATED, INVALID_CREDENTIALS or EXPIRED code.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, apperrors.NewUnauthenticated("not authenticated")
	}

	// Expiry is checked below so that a missing exp is reported as EXPIRED
	// rather than being silently accepted.
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != tm.method.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{tm.method.Alg()}))
	if err != nil {
		return nil, apperrors.NewInvalidCredentials("could not validate credentials")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewInvalidCredentials("could not validate credentials")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(tm.now()) {
		return nil, apperrors.NewExpired("token has expired")
	}
	if claims.Subject == "" || claims.Username == "" || claims.Email == "" || !claims.Role.Valid() {
		return nil, apperrors.NewInvalidCredentials("could not validate credentials")
	}
	if claims.Kind == "" {
		claims.Kind = domain.TokenKindAccess
	}
	return claims, nil
}

// VerifyKind verifies tokenStr and additionally requires the given kind.
func (tm *TokenManager) VerifyKind(tokenStr string, kind domain.TokenKind) (*Claims, error) {
	claims, err := tm.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, apperrors.NewInvalidCredentials("could not validate credentials")
	}
	return claims, nil
}

// VerifyRequest extracts a bearer token from an Authorization header value
// and verifies it as an access token.
func (tm *TokenManager) VerifyRequest(authHeader string) (*Claims, error) {
	if strings.TrimSpace(authHeader) == "" {
		return nil, apperrors.NewUnauthenticated("not authenticated")
	}

	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewInvalidCredentials("invalid authorization header")
	}
	return tm.VerifyKind(strings.TrimSpace(parts[1]), domain.TokenKindAccess)
}
