package event

import (
	"context"
	"time"
)

type EventService interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
	CleanupProcessedEvents(ctx context.Context, retention time.Duration) (int64, error)
}

var _ EventService = (*Service)(nil)
