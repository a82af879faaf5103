package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBlogCreated, n.handleBlogCreated)
	n.dispatcher.Subscribe(events.EventBlogDeleted, n.handleBlogDeleted)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventBlogLiked, n.handleBlogLiked)
}

func (n *NotificationService) handleBlogCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("BlogCreated", zap.String("blog_id", event.BlogID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBlogDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("BlogDeleted", zap.String("blog_id", event.BlogID), zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.BlogDeletedPayload); ok && payload.ByAdmin {
		n.sendEmailNotificationStub(ctx, event)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("CommentAdded", zap.String("blog_id", event.BlogID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.CommentAddedPayload); ok && payload.BlogOwnerID != event.ActorID {
		n.sendEmailNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleBlogLiked(ctx context.Context, event events.Event) error {
	n.logger.Debug("BlogLiked", zap.String("blog_id", event.BlogID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("blog_id", event.BlogID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("blog_id", event.BlogID),
		zap.String("event_type", string(event.Type)))
}
