package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
	"go.uber.org/zap"
)

const stopColumns = `id, name, latitude, longitude, last_updated, self_link, next_departure`

type stopRepository struct {
	db     *DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStopRepository создает новый экземпляр stop repository
func NewStopRepository(db *DB, logger *zap.Logger) repository.StopRepository {
	return NewStopRepositoryWithClock(db, logger, time.Now)
}

// NewStopRepositoryWithClock - то же, с явным источником времени для last_updated
func NewStopRepositoryWithClock(db *DB, logger *zap.Logger, now func() time.Time) repository.StopRepository {
	return &stopRepository{
		db:     db,
		logger: logger,
		now:    now,
	}
}

func (r *stopRepository) Create(ctx context.Context, stop *domain.Stop) (domain.CreateStatus, error) {
	query := r.db.Rebind(`
		INSERT INTO stops (` + stopColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)

	res, err := r.db.ExecContext(ctx, query,
		stop.ID,
		stop.Name,
		stop.Latitude,
		stop.Longitude,
		stop.LastUpdated,
		stop.SelfLink,
		stop.NextDeparture,
	)
	if err != nil {
		r.logger.Error("failed to insert stop", zap.Int64("stop_id", stop.ID), zap.Error(err))
		return 0, fmt.Errorf("insert stop: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert stop rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Debug("stop already exists", zap.Int64("stop_id", stop.ID))
		return domain.StopAlreadyExists, nil
	}

	return domain.StopCreated, nil
}

func (r *stopRepository) GetByID(ctx context.Context, id int64) (*domain.Stop, error) {
	query := r.db.Rebind(`SELECT ` + stopColumns + ` FROM stops WHERE id = ?`)

	var stop domain.Stop
	if err := r.db.GetContext(ctx, &stop, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStopNotFound
		}
		return nil, fmt.Errorf("get stop %d: %w", id, err)
	}

	return &stop, nil
}

func (r *stopRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM stops WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete stop %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stop rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrStopNotFound
	}

	return nil
}

// Neighbors не требует, чтобы id был сохранен: результат зависит только от множества id
func (r *stopRepository) Neighbors(ctx context.Context, id int64) (domain.Neighbors, error) {
	query := r.db.Rebind(`
		SELECT
			(SELECT MIN(id) FROM stops WHERE id > ?) AS next_id,
			(SELECT MAX(id) FROM stops WHERE id < ?) AS prev_id
	`)

	var next, prev sql.NullInt64
	if err := r.db.QueryRowxContext(ctx, query, id, id).Scan(&next, &prev); err != nil {
		return domain.Neighbors{}, fmt.Errorf("query neighbors of %d: %w", id, err)
	}

	var result domain.Neighbors
	if next.Valid {
		result.Next = &next.Int64
	}
	if prev.Valid {
		result.Prev = &prev.Int64
	}
	return result, nil
}

// ApplyFields пишет все поля одним UPDATE, поэтому частичная запись невозможна
func (r *stopRepository) ApplyFields(ctx context.Context, id int64, diff domain.StopFieldDiff) (string, error) {
	lastUpdated := domain.FormatTimestamp(r.now())
	if diff.LastUpdated != nil {
		lastUpdated = *diff.LastUpdated
	}

	// имена колонок фиксированы, значения только через параметры
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if diff.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *diff.Name)
	}
	if diff.NextDeparture != nil {
		sets = append(sets, "next_departure = ?")
		args = append(args, *diff.NextDeparture)
	}
	if diff.Latitude != nil {
		sets = append(sets, "latitude = ?")
		args = append(args, *diff.Latitude)
	}
	if diff.Longitude != nil {
		sets = append(sets, "longitude = ?")
		args = append(args, *diff.Longitude)
	}
	sets = append(sets, "last_updated = ?")
	args = append(args, lastUpdated, id)

	query := r.db.Rebind(`UPDATE stops SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update stop", zap.Int64("stop_id", id), zap.Error(err))
		return "", fmt.Errorf("update stop %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("update stop rows affected: %w", err)
	}
	if affected == 0 {
		return "", domain.ErrStopNotFound
	}

	return lastUpdated, nil
}

func (r *stopRepository) ListNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM stops WHERE name IS NOT NULL AND name <> '' ORDER BY id`

	names := make([]string, 0)
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list stop names: %w", err)
	}
	return names, nil
}
