package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
)

// EventPublisher публикует события об изменениях остановок в Redis Stream.
// Ошибки публикации только логируются: изменение уже сохранено.
type EventPublisher struct {
	streamRepo repository.StreamRepository
	logger     *zap.Logger
}

// NewEventPublisher - streamRepo может быть nil, тогда публикация отключена
func NewEventPublisher(streamRepo repository.StreamRepository, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{
		streamRepo: streamRepo,
		logger:     logger,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, eventType domain.StopEventType, stopID int64, at time.Time) {
	if p == nil || p.streamRepo == nil {
		return
	}

	event := domain.NewStopEvent(eventType, stopID, at)
	if err := p.streamRepo.PublishToStream(ctx, domain.StreamStopEvents, event); err != nil {
		p.logger.Warn("Failed to publish stop event",
			zap.String("type", string(eventType)),
			zap.Int64("stop_id", stopID),
			zap.Error(err))
	}
}
