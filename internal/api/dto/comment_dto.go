package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRequest payload for creating or editing a comment.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// CommentResponse payload.
type CommentResponse struct {
	ID        string    `json:"id"`
	Comment   string    `json:"comment"`
	BlogID    string    `json:"blog_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Comment:   c.Comment,
		BlogID:    c.BlogID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
