package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcher_PublishReachesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventBlogCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.BlogID)
		return errors.New("first failed")
	})
	d.Subscribe(EventBlogCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.BlogID)
		return nil
	})
	d.Subscribe(EventBlogDeleted, func(context.Context, Event) error {
		calls = append(calls, "deleted")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBlogCreated, BlogID: "b1"})

	assert.EqualError(t, err, "first failed")
	assert.Equal(t, []string{"first:b1", "second:b1"}, calls)
}

func TestInMemoryDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventBlogLiked}))
}
