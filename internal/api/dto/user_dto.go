package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// UserResponse is the public projection of a credential. It never carries
// the password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Bio       *string     `json:"bio"`
	Title     *string     `json:"title"`
	CreatedAt time.Time   `json:"created_at"`
	IsActive  bool        `json:"is_active"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Bio:       u.Bio,
		Title:     u.Title,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
	}
}

// ProfileUpdateRequest carries editable profile fields.
type ProfileUpdateRequest struct {
	Bio          *string `json:"bio" validate:"omitempty,max=1000"`
	Title        *string `json:"title" validate:"omitempty,max=30"`
	TwitterURL   *string `json:"twitter_url" validate:"omitempty,url,max=200"`
	InstagramURL *string `json:"instagram_url" validate:"omitempty,url,max=200"`
	LinkedinURL  *string `json:"linkedin_url" validate:"omitempty,url,max=200"`
}

// ToDomain converts the request.
func (r ProfileUpdateRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Bio:          r.Bio,
		Title:        r.Title,
		TwitterURL:   r.TwitterURL,
		InstagramURL: r.InstagramURL,
		LinkedinURL:  r.LinkedinURL,
	}
}

// ProfileBlog is a post listed on a profile.
type ProfileBlog struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     *string   `json:"image_url"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileResponse is a user profile with its posts.
type ProfileResponse struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Bio          *string       `json:"bio"`
	Title        *string       `json:"title"`
	TwitterURL   *string       `json:"twitter_url"`
	InstagramURL *string       `json:"instagram_url"`
	LinkedinURL  *string       `json:"linkedin_url"`
	ProfileImage *string       `json:"profile_image"`
	CreatedAt    time.Time     `json:"created_at"`
	Blogs        []ProfileBlog `json:"blogs"`
}

// NewProfileResponse maps a user and their posts.
func NewProfileResponse(u *domain.User, blogs []domain.Blog) ProfileResponse {
	items := make([]ProfileBlog, 0, len(blogs))
	for _, b := range blogs {
		items = append(items, ProfileBlog{
			ID:           b.ID,
			Title:        b.Title,
			Description:  b.Description,
			ImageURL:     b.ImageURL,
			LikeCount:    b.LikeCount,
			CommentCount: b.CommentCount,
			CreatedAt:    b.CreatedAt,
		})
	}
	return ProfileResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Bio:          u.Bio,
		Title:        u.Title,
		TwitterURL:   u.TwitterURL,
		InstagramURL: u.InstagramURL,
		LinkedinURL:  u.LinkedinURL,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		Blogs:        items,
	}
}
