package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/vitrine/pkg/events"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAdministrator = errors.New("user is not an administrator")
	ErrCategoryInUse    = errors.New("category is used by products")
	ErrUpload           = errors.New("image upload failed")
	ErrRemote           = errors.New("remote service error")
)

// translate maps repository errors onto service sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrRemote, err)
	}
}

func validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func publish(ctx context.Context, l *slog.Logger, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		l.Error("kafka_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
