package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/internal/repository"
	"github.com/medicalife/patient-api/pkg/logger"
)

type Service struct {
	outboxRepo repository.OutboxRepository
	log        *logger.Logger
}

func NewService(outboxRepo repository.OutboxRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		outboxRepo: outboxRepo,
		log:        log.With("event_service"),
	}
}

// Emit records the event in the outbox. Delivery happens in the outbox worker.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &model.OutboxEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Payload:   payloadJSON,
	}

	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	s.log.Debug("event recorded", "event_id", event.ID, "event_type", eventType)
	return nil
}

// CleanupProcessedEvents removes processed events older than retention.
func (s *Service) CleanupProcessedEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	count, err := s.outboxRepo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup events: %w", err)
	}

	s.log.Info("processed events cleaned up", "deleted_count", count, "cutoff", cutoff)
	return count, nil
}
