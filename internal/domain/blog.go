package domain

import "time"

// Blog is a post owned by the user that created it.
type Blog struct {
	ID           string
	Title        string
	Description  string
	ImageURL     *string
	LikeCount    int
	CommentCount int
	UserID       string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerID returns the subject that owns the post.
func (b *Blog) OwnerID() string {
	return b.UserID
}
