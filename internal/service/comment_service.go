package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

const previewLength = 80

// CommentService coordinates comment workflows on blog posts.
type CommentService struct {
	blogs      repository.BlogRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	BlogRepo    repository.BlogRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		blogs:      deps.BlogRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

func (s *CommentService) blog(ctx context.Context, blogID string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, lookupError(err, "blog")
	}
	return blog, nil
}

func (s *CommentService) comment(ctx context.Context, blogID, commentID string) (*domain.Comment, error) {
	if _, err := s.blog(ctx, blogID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, blogID, commentID)
	if err != nil {
		return nil, lookupError(err, "comment")
	}
	return comment, nil
}

// Create adds a comment by the caller to an existing post.
func (s *CommentService) Create(ctx context.Context, claims *auth.Claims, blogID, text string) (*domain.Comment, error) {
	blog, err := s.blog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if err := auth.Enforce(claims, "", auth.PolicyAuthenticatedOnly, "authentication required"); err != nil {
		return nil, err
	}

	text, err = cleanText("comment", text, maxCommentLen)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Comment: text,
		BlogID:  blog.ID,
		UserID:  claims.SubjectID(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, lookupError(err, "blog")
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventCommentAdded,
		BlogID:  blog.ID,
		ActorID: claims.SubjectID(),
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			BlogOwnerID: blog.UserID,
			BodyPreview: preview(comment.Comment),
		},
	})
	return comment, nil
}

// List returns a page of comments on a post, oldest first.
func (s *CommentService) List(ctx context.Context, blogID string, page Page) ([]domain.Comment, error) {
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	if _, err := s.blog(ctx, blogID); err != nil {
		return nil, err
	}
	return s.comments.ListByBlog(ctx, blogID, page.Skip, page.Limit)
}

// Update edits a comment. Only its author may edit it.
func (s *CommentService) Update(ctx context.Context, claims *auth.Claims, blogID, commentID, text string) (*domain.Comment, error) {
	comment, err := s.comment(ctx, blogID, commentID)
	if err != nil {
		return nil, err
	}
	if err := auth.Enforce(claims, comment.OwnerID(), auth.PolicyOwnerOnly, "Not authorized to edit this comment"); err != nil {
		return nil, err
	}

	if comment.Comment, err = cleanText("comment", text, maxCommentLen); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, lookupError(err, "comment")
	}
	return comment, nil
}

// Delete removes a comment. Its author or an admin may delete it.
func (s *CommentService) Delete(ctx context.Context, claims *auth.Claims, blogID, commentID string) error {
	comment, err := s.comment(ctx, blogID, commentID)
	if err != nil {
		return err
	}
	if err := auth.Enforce(claims, comment.OwnerID(), auth.PolicyOwnerOrAdmin, "Not authorized to delete this comment"); err != nil {
		return err
	}
	return lookupError(s.comments.Delete(ctx, blogID, commentID), "comment")
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
