package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/storage"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Profile is a user together with the posts they own.
type Profile struct {
	User  *domain.User
	Blogs []domain.Blog
}

// UserService manages profiles and account removal.
type UserService struct {
	users  repository.UserRepository
	blogs  repository.BlogRepository
	images storage.ImageStore
	logger *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
	BlogRepo repository.BlogRepository
	Images   storage.ImageStore
	Logger   *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:  deps.UserRepo,
		blogs:  deps.BlogRepo,
		images: deps.Images,
		logger: logger,
	}
}

func (s *UserService) activeUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	if !user.IsActive {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return user, nil
}

func (s *UserService) profile(ctx context.Context, user *domain.User) (*Profile, error) {
	blogs, err := s.blogs.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Blogs: blogs}, nil
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, claims *auth.Claims) (*Profile, error) {
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return nil, err
	}
	user, err := s.activeUser(ctx, claims.SubjectID())
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

// Get returns the profile of an active user.
func (s *UserService) Get(ctx context.Context, id string) (*Profile, error) {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

// UpdateProfile changes the caller's non-identity profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, claims *auth.Claims, update domain.ProfileUpdate) (*domain.User, error) {
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return nil, err
	}
	user, err := s.activeUser(ctx, claims.SubjectID())
	if err != nil {
		return nil, err
	}
	update.Apply(user)
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

// UpdateProfileImage replaces the caller's profile picture and deletes the
// previous hosted image.
func (s *UserService) UpdateProfileImage(ctx context.Context, claims *auth.Claims, img storage.Image) (*domain.User, error) {
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return nil, err
	}
	user, err := s.activeUser(ctx, claims.SubjectID())
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, storage.FolderProfiles, img)
	if err != nil {
		return nil, err
	}
	previous := user.ProfileImage
	user.ProfileImage = &url

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		s.discardImage(ctx, &url)
		return nil, lookupError(err, "user")
	}
	s.discardImage(ctx, previous)
	return user, nil
}

// Delete soft-deletes an account. The account holder or an admin may do so.
func (s *UserService) Delete(ctx context.Context, claims *auth.Claims, id string) error {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Enforce(claims, user.ID, auth.PolicyOwnerOrAdmin, "Not authorized to delete this user"); err != nil {
		return err
	}
	if err := s.users.SoftDelete(ctx, user.ID); err != nil {
		return lookupError(err, "user")
	}
	s.logger.Info("user deactivated", zap.String("user_id", user.ID), zap.String("by", claims.SubjectID()))
	return nil
}

func (s *UserService) discardImage(ctx context.Context, url *string) {
	if url == nil || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, *url); err != nil {
		s.logger.Warn("failed to delete hosted image", zap.String("url", *url), zap.Error(err))
	}
}
