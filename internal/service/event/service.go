package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
)

// Service writes domain events to the transactional outbox. The worker
// binary drains the outbox and publishes to the broker, so an event
// survives a broker outage and a crashed publish can be retried.
type Service struct {
	outboxRepo repository.OutboxRepository
	logger     zerolog.Logger
}

func NewService(outboxRepo repository.OutboxRepository, logger zerolog.Logger) *Service {
	return &Service{outboxRepo: outboxRepo, logger: logger}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	s.logger.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", eventType).
		Msg("outbox event created")
	return nil
}
