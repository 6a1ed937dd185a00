package repository

import (
	"context"
	"time"

	"github.com/stop-registry/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу. Промах кеша - (nil, nil).
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetSearchResults получает результаты поиска локаций
	GetSearchResults(ctx context.Context, query string, results int) ([]domain.StopCandidate, error)

	// SetSearchResults сохраняет результаты поиска локаций
	SetSearchResults(ctx context.Context, query string, results int, candidates []domain.StopCandidate, ttl time.Duration) error

	// GetOperatorProfile получает справку о перевозчике
	GetOperatorProfile(ctx context.Context, operator string) (*domain.OperatorProfile, error)

	// SetOperatorProfile сохраняет справку о перевозчике
	SetOperatorProfile(ctx context.Context, profile *domain.OperatorProfile, ttl time.Duration) error
}
