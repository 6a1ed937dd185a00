package repository

import (
	"context"

	"github.com/stop-registry/internal/domain"
)

// StreamRepository - Redis Streams: события остановок и очередь импорта.
// Сообщение - JSON в поле data записи стрима.
type StreamRepository interface {
	// CreateConsumerGroup создает группу с начала стрима; существующая группа - не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeStream отдает сначала неподтвержденные сообщения consumer'а, затем новые.
	// Канал закрывается после отмены ctx.
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	// AckMessage убирает сообщение из pending группы
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishToStream сериализует data в JSON и добавляет в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
