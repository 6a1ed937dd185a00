package cache

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
	searchKeyPrefix  = "search:locations"
	profileKeyPrefix = "operator:profile"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetSearchResults получает результаты поиска локаций. Промах - (nil, nil).
func (r *cacheRepository) GetSearchResults(ctx context.Context, query string, results int) ([]domain.StopCandidate, error) {
	var candidates []domain.StopCandidate
	found, err := r.getJSON(ctx, searchKey(query, results), &candidates)
	if err != nil || !found {
		return nil, err
	}
	return candidates, nil
}

// SetSearchResults сохраняет результаты поиска локаций
func (r *cacheRepository) SetSearchResults(ctx context.Context, query string, results int, candidates []domain.StopCandidate, ttl time.Duration) error {
	return r.setJSON(ctx, searchKey(query, results), candidates, ttl)
}

// GetOperatorProfile получает справку о перевозчике. Промах - (nil, nil).
func (r *cacheRepository) GetOperatorProfile(ctx context.Context, operator string) (*domain.OperatorProfile, error) {
	var profile domain.OperatorProfile
	found, err := r.getJSON(ctx, profileKey(operator), &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

// SetOperatorProfile сохраняет справку о перевозчике
func (r *cacheRepository) SetOperatorProfile(ctx context.Context, profile *domain.OperatorProfile, ttl time.Duration) error {
	return r.setJSON(ctx, profileKey(profile.OperatorName), profile, ttl)
}

func (r *cacheRepository) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		r.logger.Error("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}

// searchKey нормализует запрос: регистр и крайние пробелы не влияют на ответ провайдера
func searchKey(query string, results int) string {
	return fmt.Sprintf("%s:%d:%s", searchKeyPrefix, results, strings.ToLower(strings.TrimSpace(query)))
}

func profileKey(operator string) string {
	return profileKeyPrefix + ":" + operator
}
