package repository

import (
	"context"

	"github.com/stop-registry/internal/domain"
)

// TransitRepository определяет методы провайдера транспортных данных.
// Ошибки: domain.ErrUpstreamBadRequest (HTTP 400), domain.ErrUpstreamNotFound (HTTP 404),
// domain.ErrUpstreamUnavailable (прочие ответы, сетевые ошибки, некорректный JSON).
type TransitRepository interface {
	// SearchLocations ищет локации по названию
	SearchLocations(ctx context.Context, query string, results int) ([]domain.StopCandidate, error)

	// GetDepartures возвращает табло отправлений остановки в порядке провайдера
	GetDepartures(ctx context.Context, stopID int64, durationMinutes int) ([]domain.Departure, error)
}
