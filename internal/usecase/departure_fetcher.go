package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
)

// DepartureFetcher выбирает ближайшее отправление с табло провайдера
type DepartureFetcher struct {
	transitRepo repository.TransitRepository
	logger      *zap.Logger
}

// NewDepartureFetcher - создание нового DepartureFetcher
func NewDepartureFetcher(transitRepo repository.TransitRepository, logger *zap.Logger) *DepartureFetcher {
	return &DepartureFetcher{
		transitRepo: transitRepo,
		logger:      logger,
	}
}

// FetchNextDeparture запрашивает табло на windowMinutes вперед.
// Нет подходящего отправления - domain.ErrNoDeparture; ошибки провайдера
// возвращаются как есть (domain.ErrUpstream*).
func (f *DepartureFetcher) FetchNextDeparture(ctx context.Context, stopID int64, windowMinutes int) (*domain.DepartureInfo, error) {
	departures, err := f.transitRepo.GetDepartures(ctx, stopID, windowMinutes)
	if err != nil {
		return nil, fmt.Errorf("fetch departures for %d: %w", stopID, err)
	}

	info, ok := SelectNextDeparture(departures)
	if !ok {
		f.logger.Debug("No departure with platform and direction",
			zap.Int64("stop_id", stopID),
			zap.Int("board_size", len(departures)))
		return nil, domain.ErrNoDeparture
	}

	return &info, nil
}

// SelectNextDeparture возвращает первое в порядке провайдера отправление,
// у которого заданы и платформа, и направление
func SelectNextDeparture(departures []domain.Departure) (domain.DepartureInfo, bool) {
	for _, d := range departures {
		if d.Platform != nil && d.Direction != nil {
			return domain.DepartureInfo{
				Platform:  *d.Platform,
				Direction: *d.Direction,
			}, true
		}
	}
	return domain.DepartureInfo{}, false
}
