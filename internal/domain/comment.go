package domain

import "time"

// Comment is a reply on a blog post, owned by its author.
type Comment struct {
	ID        string
	Comment   string
	BlogID    string
	UserID    string
	UserName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID returns the subject that wrote the comment.
func (c *Comment) OwnerID() string {
	return c.UserID
}
