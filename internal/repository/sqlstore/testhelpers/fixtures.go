package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
)

// FixtureBaseURL - базовый адрес для self-ссылок в тестовых данных
const FixtureBaseURL = "http://127.0.0.1:5000"

// FixtureTime - момент создания тестовых остановок
var FixtureTime = time.Date(2025, time.March, 8, 12, 0, 40, 0, time.UTC)

// SeedStops сохраняет остановки с указанными id
func SeedStops(t *testing.T, repo repository.StopRepository, ids ...int64) {
	t.Helper()

	for _, id := range ids {
		stop := domain.NewStop(id, "Stop", 52.5, 13.4, FixtureBaseURL, FixtureTime)
		status, err := repo.Create(context.Background(), stop)
		if err != nil {
			t.Fatalf("Failed to seed stop %d: %v", id, err)
		}
		if status != domain.StopCreated {
			t.Fatalf("Stop %d already seeded", id)
		}
	}
}
