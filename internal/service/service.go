package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Column limits for user supplied text, in characters.
const (
	maxUsernameLen = 30
	maxEmailLen    = 50
	maxTitleLen    = 100
	maxCommentLen  = 2000
)

// Pagination bounds shared by listing endpoints.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page selects a window of a listing.
type Page struct {
	Skip  int
	Limit int
}

// Normalize applies the defaults and rejects out of range values.
func (p Page) Normalize() (Page, error) {
	if p.Skip < 0 {
		return p, apperrors.NewValidationError("skip must be zero or greater", map[string]any{"skip": p.Skip})
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return p, apperrors.NewValidationError("limit must be between 1 and 100", map[string]any{"limit": p.Limit})
	}
	return p, nil
}

// lookupError converts a missing row into NOT_FOUND for resource.
func lookupError(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, repository.ErrMissingReference) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// cleanText trims value and rejects it when blank or longer than maxLen
// characters. A zero maxLen disables the upper bound.
func cleanText(field, value string, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperrors.NewValidationError(field+" must not be blank",
			map[string]any{field: "The field '" + field + "' is required."})
	}
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		return "", apperrors.NewValidationError(field+" is too long",
			map[string]any{field: fmt.Sprintf("The field '%s' must be at most %d characters.", field, maxLen)})
	}
	return v, nil
}
