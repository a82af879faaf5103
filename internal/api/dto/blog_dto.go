package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// BlogCreateForm is the multipart form for a new post.
type BlogCreateForm struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
}

// BlogUpdateForm is the multipart form for a partial update.
type BlogUpdateForm struct {
	Title       *string `form:"title" validate:"omitempty,min=1,max=100"`
	Description *string `form:"description" validate:"omitempty,min=1"`
}

// ListQuery captures pagination query parameters.
type ListQuery struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}

// BlogResponse payload.
type BlogResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     *string   `json:"image_url"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `json:"user_id"`
	IsActive     bool      `json:"is_active"`
}

// NewBlogResponse maps a domain blog.
func NewBlogResponse(b *domain.Blog) BlogResponse {
	return BlogResponse{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		ImageURL:     b.ImageURL,
		LikeCount:    b.LikeCount,
		CommentCount: b.CommentCount,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
		UserID:       b.UserID,
		IsActive:     b.IsActive,
	}
}

// BlogListResponse payload.
type BlogListResponse struct {
	Total int            `json:"total"`
	Blogs []BlogResponse `json:"blogs"`
}

// LikeResponse reports the caller's like state after a toggle.
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
