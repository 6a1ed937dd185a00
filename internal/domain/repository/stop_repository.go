package repository

import (
	"context"

	"github.com/stop-registry/internal/domain"
)

// StopRepository определяет методы хранилища остановок.
// Все методы возвращают domain.ErrStopNotFound для неизвестного id.
type StopRepository interface {
	// Create сохраняет новую остановку. Повторный id не меняет запись
	// и возвращает domain.StopAlreadyExists.
	Create(ctx context.Context, stop *domain.Stop) (domain.CreateStatus, error)

	// GetByID возвращает остановку по id
	GetByID(ctx context.Context, id int64) (*domain.Stop, error)

	// Delete удаляет остановку
	Delete(ctx context.Context, id int64) error

	// Neighbors возвращает ближайший больший и меньший сохраненные id
	Neighbors(ctx context.Context, id int64) (domain.Neighbors, error)

	// ApplyFields атомарно записывает поля из diff и обновляет last_updated.
	// Возвращает итоговое значение last_updated.
	ApplyFields(ctx context.Context, id int64, diff domain.StopFieldDiff) (string, error)

	// ListNames возвращает непустые имена всех остановок по возрастанию id
	ListNames(ctx context.Context) ([]string, error)
}
