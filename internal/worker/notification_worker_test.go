package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/service"
)

func TestNotificationWorker_DeliversQueuedEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(dispatcher, zap.NewNop(), 4)

	var mu sync.Mutex
	var got []string
	w.Subscribe(events.EventBlogCreated, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.BlogID)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	StartNotificationWorker(ctx, w, nil)

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventBlogCreated, BlogID: "b1"}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventBlogCreated, BlogID: "b2"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	w.Wait()
	assert.Equal(t, []string{"b1", "b2"}, got)
}

func TestNotificationWorker_DropsWhenFull(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(dispatcher, zap.NewNop(), 1)

	delivered := 0
	w.Subscribe(events.EventBlogLiked, func(context.Context, events.Event) error {
		delivered++
		return nil
	})

	// Not started: the second publish finds the queue full.
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventBlogLiked}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventBlogLiked}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	StartNotificationWorker(ctx, w, nil)
	w.Wait()

	assert.Equal(t, 1, delivered)
}

func TestNotificationWorker_HandlerErrorsDoNotStopDelivery(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(dispatcher, zap.NewNop(), 0)

	calls := 0
	w.Subscribe(events.EventCommentAdded, func(context.Context, events.Event) error {
		calls++
		return errors.New("smtp down")
	})

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventCommentAdded}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventCommentAdded}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	StartNotificationWorker(ctx, w, nil)
	w.Wait()

	assert.Equal(t, 2, calls)
}

func TestStartNotificationWorker_RegistersNotificationHandlers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(dispatcher, zap.NewNop(), 0)
	notifications := service.NewNotificationService(w, zap.NewNop(), config.NotificationConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	StartNotificationWorker(ctx, w, notifications)

	require.NoError(t, w.Publish(context.Background(), events.Event{
		Type:    events.EventBlogDeleted,
		BlogID:  "b1",
		Payload: events.BlogDeletedPayload{OwnerID: "u1", ByAdmin: true},
	}))

	cancel()
	w.Wait()
}
