package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBlogCreated  EventType = "blog_created"
	EventBlogDeleted  EventType = "blog_deleted"
	EventCommentAdded EventType = "comment_added"
	EventBlogLiked    EventType = "blog_liked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BlogID    string      `json:"blog_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BlogCreatedPayload payload.
type BlogCreatedPayload struct {
	Title    string `json:"title"`
	HasImage bool   `json:"has_image"`
}

// BlogDeletedPayload payload.
type BlogDeletedPayload struct {
	OwnerID  string `json:"owner_id"`
	ByAdmin  bool   `json:"by_admin"`
	ImageURL string `json:"image_url,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BlogOwnerID string `json:"blog_owner_id"`
	BodyPreview string `json:"body_preview"`
}

// BlogLikedPayload payload.
type BlogLikedPayload struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
