package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/storage"
)

// BlogService coordinates blog post workflows.
type BlogService struct {
	blogs      repository.BlogRepository
	images     storage.ImageStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BlogDependencies bundles collaborators for the blog service.
type BlogDependencies struct {
	BlogRepo   repository.BlogRepository
	Images     storage.ImageStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewBlogService constructs the service.
func NewBlogService(deps BlogDependencies) *BlogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogService{
		blogs:      deps.BlogRepo,
		images:     deps.Images,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// BlogCreateInput describes a new post.
type BlogCreateInput struct {
	Title       string
	Description string
	Image       *storage.Image
}

// BlogUpdateInput describes a partial update; nil fields are unchanged.
type BlogUpdateInput struct {
	Title       *string
	Description *string
	Image       *storage.Image
}

// Create stores a post owned by the caller. An uploaded image is removed
// again when the insert fails.
func (s *BlogService) Create(ctx context.Context, claims *auth.Claims, input BlogCreateInput) (*domain.Blog, error) {
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return nil, err
	}

	title, err := cleanText("title", input.Title, maxTitleLen)
	if err != nil {
		return nil, err
	}
	description, err := cleanText("description", input.Description, 0)
	if err != nil {
		return nil, err
	}

	blog := &domain.Blog{
		Title:       title,
		Description: description,
		UserID:      claims.SubjectID(),
	}

	if input.Image != nil {
		url, err := s.images.Upload(ctx, storage.FolderBlogs, *input.Image)
		if err != nil {
			return nil, err
		}
		blog.ImageURL = &url
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		s.discardImage(ctx, blog.ImageURL)
		return nil, lookupError(err, "user")
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventBlogCreated,
		BlogID:  blog.ID,
		ActorID: claims.SubjectID(),
		Payload: events.BlogCreatedPayload{Title: blog.Title, HasImage: blog.ImageURL != nil},
	})
	return blog, nil
}

// List returns a page of posts, newest first.
func (s *BlogService) List(ctx context.Context, page Page) ([]domain.Blog, error) {
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	return s.blogs.List(ctx, page.Skip, page.Limit)
}

// Get returns a single post.
func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "blog")
	}
	return blog, nil
}

// Update modifies a post. The owner or an admin may update it; a new image
// replaces and deletes the previous one.
func (s *BlogService) Update(ctx context.Context, claims *auth.Claims, id string, input BlogUpdateInput) (*domain.Blog, error) {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Enforce(claims, blog.OwnerID(), auth.PolicyOwnerOrAdmin, "Not authorized to update this blog"); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if blog.Title, err = cleanText("title", *input.Title, maxTitleLen); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if blog.Description, err = cleanText("description", *input.Description, 0); err != nil {
			return nil, err
		}
	}

	var previous *string
	if input.Image != nil {
		url, err := s.images.Upload(ctx, storage.FolderBlogs, *input.Image)
		if err != nil {
			return nil, err
		}
		previous = blog.ImageURL
		blog.ImageURL = &url
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		if input.Image != nil {
			s.discardImage(ctx, blog.ImageURL)
		}
		return nil, lookupError(err, "blog")
	}
	s.discardImage(ctx, previous)
	return blog, nil
}

// Delete removes a post together with its hosted image.
func (s *BlogService) Delete(ctx context.Context, claims *auth.Claims, id string) error {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Enforce(claims, blog.OwnerID(), auth.PolicyOwnerOrAdmin, "Not authorized to delete this blog"); err != nil {
		return err
	}

	if err := s.blogs.Delete(ctx, id); err != nil {
		return lookupError(err, "blog")
	}
	s.discardImage(ctx, blog.ImageURL)

	payload := events.BlogDeletedPayload{OwnerID: blog.UserID, ByAdmin: claims.SubjectID() != blog.UserID}
	if blog.ImageURL != nil {
		payload.ImageURL = *blog.ImageURL
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventBlogDeleted,
		BlogID:  blog.ID,
		ActorID: claims.SubjectID(),
		Payload: payload,
	})
	return nil
}

// ToggleLike likes the post for the caller, or removes an existing like.
func (s *BlogService) ToggleLike(ctx context.Context, claims *auth.Claims, id string) (bool, int, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return false, 0, err
	}
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return false, 0, err
	}

	liked, count, err := s.blogs.ToggleLike(ctx, id, claims.SubjectID())
	if err != nil {
		return false, 0, lookupError(err, "blog")
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventBlogLiked,
		BlogID:  id,
		ActorID: claims.SubjectID(),
		Payload: events.BlogLikedPayload{Liked: liked, LikeCount: count},
	})
	return liked, count, nil
}

func (s *BlogService) discardImage(ctx context.Context, url *string) {
	if url == nil || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, *url); err != nil {
		s.logger.Warn("failed to delete hosted image", zap.String("url", *url), zap.Error(err))
	}
}
