package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/service"
)

// DefaultQueueSize bounds the number of events waiting for delivery.
const DefaultQueueSize = 256

// NotificationWorker delivers domain events to their subscribers off the
// request path. It satisfies events.Dispatcher so services can publish to it
// directly; Publish only enqueues.
type NotificationWorker struct {
	next   events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger
	wg     sync.WaitGroup
}

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NewNotificationWorker wraps next with a bounded queue.
func NewNotificationWorker(next events.Dispatcher, logger *zap.Logger, queueSize int) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		next:   next,
		queue:  make(chan queuedEvent, queueSize),
		logger: logger,
	}
}

// StartNotificationWorker registers the notification handlers and starts
// delivering queued events until ctx is cancelled.
func StartNotificationWorker(ctx context.Context, w *NotificationWorker, notificationService *service.NotificationService) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Publish enqueues event. A full queue drops the event with a warning
// instead of blocking the caller.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Subscribe registers handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.next.Subscribe(eventType, handler)
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case item := <-w.queue:
			w.deliver(item)
		}
	}
}

// drain delivers whatever was queued before shutdown.
func (w *NotificationWorker) drain() {
	for {
		select {
		case item := <-w.queue:
			w.deliver(item)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(item queuedEvent) {
	if err := w.next.Publish(item.ctx, item.event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_id", item.event.ID),
			zap.String("event_type", string(item.event.Type)),
			zap.Error(err))
	}
}

var _ events.Dispatcher = (*NotificationWorker)(nil)
