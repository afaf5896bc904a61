package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/messaging"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/metrics"
)

const (
	defaultBatchSize    = 100
	defaultPollInterval = 5 * time.Second
	defaultMaxRetries   = 3
	retryBackoff        = 5 * time.Second
	processedRetention  = 24 * time.Hour
	cleanupInterval     = time.Hour
)

// OutboxProcessor drains pending outbox events and publishes them to
// the broker. Events that keep failing stop being retried after
// maxRetries; they stay in the table as FAILED with the last error for
// manual inspection.
type OutboxProcessor struct {
	repo         repository.OutboxRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	batchSize    int
	pollInterval time.Duration
	maxRetries   int
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, m *metrics.Metrics, logger zerolog.Logger) *OutboxProcessor {
	return &OutboxProcessor{
		repo:         repo,
		broker:       broker,
		metrics:      m,
		logger:       logger,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
		maxRetries:   defaultMaxRetries,
	}
}

// Start blocks, polling for work until the context is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("outbox processor stopping")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error().Err(err).Msg("outbox batch failed")
			}
		case <-cleanup.C:
			cutoff := time.Now().Add(-processedRetention)
			count, err := p.repo.DeleteProcessedBefore(ctx, cutoff)
			if err != nil {
				p.logger.Error().Err(err).Msg("outbox cleanup failed")
				continue
			}
			p.logger.Debug().Int64("deleted", count).Msg("outbox cleanup done")
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.repo.GetPendingEventsWithLock(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		start := time.Now()
		if err := p.processEvent(ctx, event); err != nil {
			p.handleFailure(ctx, event, err)
			continue
		}
		p.metrics.OutboxEventsProcessed.Inc()
		p.metrics.OutboxLatency.Observe(time.Since(start).Seconds())
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	var payload interface{}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	if err := p.broker.Publish(ctx, event.EventType, payload); err != nil {
		return err
	}
	return p.repo.MarkProcessed(ctx, event.ID, time.Now())
}

func (p *OutboxProcessor) handleFailure(ctx context.Context, event *model.OutboxEvent, err error) {
	p.metrics.OutboxEventsFailed.Inc()
	p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()

	retryAt := time.Now().Add(retryBackoff * time.Duration(event.RetryCount+1))
	if event.RetryCount+1 >= p.maxRetries {
		// No more retries; far-future retry_at parks the event.
		retryAt = time.Now().Add(100 * 365 * 24 * time.Hour)
		p.logger.Error().
			Err(err).
			Str("event_id", event.ID.String()).
			Str("event_type", event.EventType).
			Msg("outbox event exhausted retries")
	} else {
		p.logger.Warn().
			Err(err).
			Str("event_id", event.ID.String()).
			Int("retry_count", event.RetryCount+1).
			Msg("outbox event failed, will retry")
	}

	if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error(), retryAt); markErr != nil {
		p.logger.Error().Err(markErr).Str("event_id", event.ID.String()).Msg("failed to record outbox failure")
	}
}
