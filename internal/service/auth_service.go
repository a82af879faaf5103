package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const invalidLoginMessage = "Invalid email or password"

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	Allowed(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService coordinates registration, login and token refresh flows.
type AuthService struct {
	users   repository.UserRepository
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenManager
	limiter LoginLimiter
	metrics *observability.Metrics
	logger  *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Hasher   *auth.PasswordHasher
	Tokens   *auth.TokenManager
	Limiter  LoginLimiter
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:   deps.UserRepo,
		hasher:  deps.Hasher,
		tokens:  deps.Tokens,
		limiter: deps.Limiter,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// SignupInput carries a registration request.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Signup registers a new credential. It never returns tokens.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("Incorrect role", map[string]any{"role": input.Role})
	}

	username, err := cleanText("username", input.Username, maxUsernameLen)
	if err != nil {
		return nil, err
	}
	email, err := cleanText("email", input.Email, maxEmailLen)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", map[string]any{"field": "email"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("Username already taken", map[string]any{"field": "username"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a racing signup can pass the pre-checks; the unique index decides
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("Email or username already registered", nil)
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login authenticates by email and password and mints a token pair.
// Unknown email, inactive account and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	email = strings.TrimSpace(email)

	if s.limiter != nil {
		allowed, err := s.limiter.Allowed(ctx, email)
		if err != nil {
			s.logger.Warn("login throttle unavailable", zap.Error(err))
		} else if !allowed {
			return domain.TokenPair{}, apperrors.NewTooManyRequests("Too many failed login attempts, try again later")
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.TokenPair{}, err
	}
	if err != nil || !user.CanAuthenticate() || !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return domain.TokenPair{}, apperrors.NewInvalidCredentials(invalidLoginMessage)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn("login throttle reset failed", zap.Error(err))
		}
	}

	return s.tokens.IssuePair(user)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	s.metrics.RecordLoginFailure()
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login throttle update failed", zap.Error(err))
	}
}

// Refresh redeems a refresh token for a new token pair. The subject must
// still exist and be active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.tokens.VerifyKind(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.TokenPair{}, err
	}
	if err != nil || !user.CanAuthenticate() {
		return domain.TokenPair{}, apperrors.NewInvalidCredentials("Could not validate credentials")
	}
	return s.tokens.IssuePair(user)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, claims *auth.Claims, currentPassword, newPassword string) error {
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		return lookupError(err, "user")
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperrors.NewInvalidCredentials("current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return lookupError(s.users.UpdatePassword(ctx, user.ID, hash), "user")
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
