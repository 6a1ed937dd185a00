package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
)

const (
	// DefaultMaxLen - приблизительный предел длины стрима (XADD MAXLEN ~)
	DefaultMaxLen = 10000

	readCount    = 10
	readBlock    = time.Second
	readErrPause = time.Second

	// pendingID - чтение своих неподтвержденных записей, newID - только новые
	pendingID = "0"
	newID     = ">"

	dataField = "data"
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
	maxLen int64
}

// NewStreamRepository - стримы событий и запросов импорта остановок.
// maxLen <= 0 означает DefaultMaxLen.
func NewStreamRepository(client *redis.Client, logger *zap.Logger, maxLen int64) repository.StreamRepository {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &streamRepository{
		client: client,
		logger: logger,
		maxLen: maxLen,
	}
}

// CreateConsumerGroup создает группу с начала стрима, чтобы запросы, опубликованные
// до первого запуска воркера, тоже были обработаны. Существующая группа - не ошибка.
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, pendingID).Err()
	if err == nil {
		r.logger.Info("Consumer group created",
			zap.String("stream", stream),
			zap.String("group", group))
		return nil
	}
	if strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}

	r.logger.Error("Failed to create consumer group",
		zap.String("stream", stream),
		zap.String("group", group),
		zap.Error(err))
	return fmt.Errorf("failed to create consumer group: %w", err)
}

// ConsumeStream сначала отдает записи, которые этот consumer получил, но не подтвердил
// (например, до падения), затем новые. Канал закрывается при отмене ctx.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	msgChan := make(chan domain.StreamMessage, readCount)
	logger := r.logger.With(
		zap.String("stream", stream),
		zap.String("group", group),
		zap.String("consumer", consumer))

	go func() {
		defer close(msgChan)

		cursor := pendingID
		for ctx.Err() == nil {
			replay := cursor != newID
			block := readBlock
			if replay {
				block = -1 // история pending читается без блокировки
			}

			entries, err := r.readGroup(ctx, stream, group, consumer, cursor, block)
			if err != nil {
				if ctx.Err() != nil {
					break
				}
				logger.Error("Failed to read from stream", zap.Error(err))
				sleepCtx(ctx, readErrPause)
				continue
			}

			if replay {
				if len(entries) == 0 {
					cursor = newID
					continue
				}
				logger.Info("Replaying pending messages", zap.Int("count", len(entries)))
				// следующая страница pending начинается после последней записи
				cursor = entries[len(entries)-1].ID
			}

			for _, entry := range entries {
				msg, ok := r.toMessage(ctx, stream, group, entry)
				if !ok {
					continue
				}
				select {
				case msgChan <- msg:
				case <-ctx.Done():
					return
				}
			}
		}

		logger.Info("Stream consumer stopped")
	}()

	return msgChan, nil
}

func (r *streamRepository) readGroup(ctx context.Context, stream, group, consumer, cursor string, block time.Duration) ([]redis.XMessage, error) {
	result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, cursor},
		Count:    readCount,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []redis.XMessage
	for _, s := range result {
		entries = append(entries, s.Messages...)
	}
	return entries, nil
}

// toMessage достает JSON из поля data. Запись без него подтверждается и пропускается,
// иначе она навсегда останется в pending.
func (r *streamRepository) toMessage(ctx context.Context, stream, group string, entry redis.XMessage) (domain.StreamMessage, bool) {
	data, ok := entry.Values[dataField].(string)
	if ok {
		return domain.StreamMessage{ID: entry.ID, Data: data}, true
	}

	r.logger.Warn("Message does not contain data field, acking",
		zap.String("stream", stream),
		zap.String("message_id", entry.ID))
	_ = r.AckMessage(ctx, stream, group, entry.ID)
	return domain.StreamMessage{}, false
}

// AckMessage подтверждает обработку сообщения
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}
	return nil
}

// PublishToStream сериализует data в JSON и добавляет запись с обрезкой стрима до ~maxLen
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{dataField: string(payload)},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
