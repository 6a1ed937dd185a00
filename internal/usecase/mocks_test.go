package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stop-registry/internal/domain"
)

// MockStopRepository is a mock of StopRepository
type MockStopRepository struct {
	mock.Mock
}

func (m *MockStopRepository) Create(ctx context.Context, stop *domain.Stop) (domain.CreateStatus, error) {
	args := m.Called(ctx, stop)
	return args.Get(0).(domain.CreateStatus), args.Error(1)
}

func (m *MockStopRepository) GetByID(ctx context.Context, id int64) (*domain.Stop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stop), args.Error(1)
}

func (m *MockStopRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStopRepository) Neighbors(ctx context.Context, id int64) (domain.Neighbors, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Neighbors), args.Error(1)
}

func (m *MockStopRepository) ApplyFields(ctx context.Context, id int64, diff domain.StopFieldDiff) (string, error) {
	args := m.Called(ctx, id, diff)
	return args.String(0), args.Error(1)
}

func (m *MockStopRepository) ListNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTransitRepository is a mock of TransitRepository
type MockTransitRepository struct {
	mock.Mock
}

func (m *MockTransitRepository) SearchLocations(ctx context.Context, query string, results int) ([]domain.StopCandidate, error) {
	args := m.Called(ctx, query, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StopCandidate), args.Error(1)
}

func (m *MockTransitRepository) GetDepartures(ctx context.Context, stopID int64, durationMinutes int) ([]domain.Departure, error) {
	args := m.Called(ctx, stopID, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Departure), args.Error(1)
}

// MockTextRepository is a mock of TextGenerationRepository
type MockTextRepository struct {
	mock.Mock
}

func (m *MockTextRepository) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSearchResults(ctx context.Context, query string, results int) ([]domain.StopCandidate, error) {
	args := m.Called(ctx, query, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StopCandidate), args.Error(1)
}

func (m *MockCacheRepository) SetSearchResults(ctx context.Context, query string, results int, candidates []domain.StopCandidate, ttl time.Duration) error {
	args := m.Called(ctx, query, results, candidates, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetOperatorProfile(ctx context.Context, operator string) (*domain.OperatorProfile, error) {
	args := m.Called(ctx, operator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperatorProfile), args.Error(1)
}

func (m *MockCacheRepository) SetOperatorProfile(ctx context.Context, profile *domain.OperatorProfile, ttl time.Duration) error {
	args := m.Called(ctx, profile, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

func ptrString(s string) *string {
	return &s
}

func ptrFloat64(f float64) *float64 {
	return &f
}

func ptrInt64(i int64) *int64 {
	return &i
}
