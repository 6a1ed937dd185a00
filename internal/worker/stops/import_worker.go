package stops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/usecase/dto"
	"github.com/stop-registry/internal/worker"
)

const defaultRetryDelay = 500 * time.Millisecond

// StopImporter - импорт остановок по поисковому запросу
type StopImporter interface {
	ImportStops(ctx context.Context, req dto.ImportStopsRequest) (*dto.ImportStopsResponse, error)
}

// StopImportWorker обрабатывает запросы на импорт из stream:stops:import
type StopImportWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	importer     StopImporter
	consumerName string
	maxRetries   int
	retryDelay   time.Duration
}

// NewStopImportWorker создает новый StopImportWorker
func NewStopImportWorker(
	streamRepo repository.StreamRepository,
	importer StopImporter,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *StopImportWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &StopImportWorker{
		BaseWorker:   worker.NewBaseWorker("stop-import", consumerGroup, logger),
		streamRepo:   streamRepo,
		importer:     importer,
		consumerName: consumerName,
		maxRetries:   maxRetries,
		retryDelay:   defaultRetryDelay,
	}
}

// WithRetryDelay задает начальную паузу между повторами
func (w *StopImportWorker) WithRetryDelay(d time.Duration) *StopImportWorker {
	w.retryDelay = d
	return w
}

// Start запускает воркер и блокируется до остановки
func (w *StopImportWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting StopImportWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamStopImport, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(consumeCtx, domain.StreamStopImport, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				logger.Info("Stream closed")
				return nil
			}
			w.processMessage(ctx, msg)
		}
	}
}

// processMessage импортирует остановки и публикует результат. Сообщение подтверждается всегда.
func (w *StopImportWorker) processMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	defer func() {
		if err := w.streamRepo.AckMessage(ctx, domain.StreamStopImport, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message", zap.Error(err))
		}
	}()

	var event domain.StopImportEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		return
	}

	logger = logger.With(zap.String("request_id", event.RequestID.String()), zap.String("query", event.Query))

	result, err := w.importWithRetry(ctx, event.Query)

	done := domain.StopImportDoneEvent{
		RequestID: event.RequestID,
		Query:     event.Query,
	}
	if err != nil {
		done.Error = errorCode(err)
		logger.Warn("Stop import failed", zap.Error(err))
	} else {
		for _, s := range result.Created {
			done.Created = append(done.Created, s.StopID)
		}
		done.Existing = result.Existing
		logger.Info("Stop import processed",
			zap.Int("created", len(done.Created)),
			zap.Int("existing", len(done.Existing)))
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamStopImported, done); err != nil {
		logger.Error("Failed to publish import result", zap.Error(err))
	}
}

// importWithRetry повторяет импорт только при недоступности провайдера или БД
func (w *StopImportWorker) importWithRetry(ctx context.Context, query string) (*dto.ImportStopsResponse, error) {
	delay := w.retryDelay
	req := dto.ImportStopsRequest{Query: strings.TrimSpace(query)}

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			w.Logger().Debug("Retrying stop import",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-w.StopChan():
				return nil, lastErr
			}
			delay *= 2
		}

		result, err := w.importer.ImportStops(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	appErr, ok := errors.As(err)
	return ok && appErr.StatusCode == http.StatusServiceUnavailable
}

func errorCode(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Code
	}
	return errors.ErrInternalServer.Code
}
