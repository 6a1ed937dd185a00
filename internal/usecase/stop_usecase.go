package usecase

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/pkg/validator"
	"github.com/stop-registry/internal/usecase/dto"
)

// MessageAlreadyExists - ответ импорта, когда все найденные остановки уже сохранены
const MessageAlreadyExists = "This stop is already in the database."

// StopUseCaseConfig - параметры реестра остановок
type StopUseCaseConfig struct {
	// BaseURL - префикс self/next/prev ссылок
	BaseURL         string
	SearchResults   int
	DepartureWindow int
	SearchCacheTTL  time.Duration
}

// StopUseCase - реестр остановок: импорт, чтение с обогащением, обновление, удаление
type StopUseCase struct {
	stopRepo    repository.StopRepository
	transitRepo repository.TransitRepository
	cacheRepo   repository.CacheRepository
	fetcher     *DepartureFetcher
	events      *EventPublisher
	logger      *zap.Logger
	cfg         StopUseCaseConfig
	now         func() time.Time
}

// NewStopUseCase - создание нового StopUseCase. cacheRepo и events могут быть nil.
func NewStopUseCase(
	stopRepo repository.StopRepository,
	transitRepo repository.TransitRepository,
	cacheRepo repository.CacheRepository,
	events *EventPublisher,
	logger *zap.Logger,
	cfg StopUseCaseConfig,
) *StopUseCase {
	return &StopUseCase{
		stopRepo:    stopRepo,
		transitRepo: transitRepo,
		cacheRepo:   cacheRepo,
		fetcher:     NewDepartureFetcher(transitRepo, logger),
		events:      events,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// WithClock подменяет источник времени (тесты)
func (uc *StopUseCase) WithClock(now func() time.Time) *StopUseCase {
	uc.now = now
	return uc
}

// ImportStops ищет остановки у провайдера и сохраняет новые
func (uc *StopUseCase) ImportStops(ctx context.Context, req dto.ImportStopsRequest) (*dto.ImportStopsResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := validator.Validate(req); err != nil {
		return nil, validator.ToAppError(err)
	}

	candidates, err := uc.searchLocations(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(candidates))
	stops := make([]domain.StopCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Type != domain.LocationTypeStop {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		stops = append(stops, c)
	}
	if len(stops) == 0 {
		return nil, errors.ErrTransportNotFound.WithDetails(map[string]interface{}{"query": req.Query})
	}

	resp := &dto.ImportStopsResponse{Created: make([]dto.StopSummary, 0, len(stops))}
	now := uc.now()

	for _, c := range stops {
		stop := domain.NewStop(c.ID, c.Name, c.Latitude, c.Longitude, uc.cfg.BaseURL, now)

		status, err := uc.stopRepo.Create(ctx, stop)
		if err != nil {
			uc.logger.Error("Failed to create stop", zap.Int64("stop_id", c.ID), zap.Error(err))
			return nil, storeError(err)
		}

		if status == domain.StopAlreadyExists {
			resp.Existing = append(resp.Existing, c.ID)
			continue
		}

		resp.Created = append(resp.Created, summaryOf(stop))
		uc.events.Publish(ctx, domain.StopEventCreated, stop.ID, now)
	}

	sort.Slice(resp.Created, func(i, j int) bool { return resp.Created[i].StopID < resp.Created[j].StopID })
	sort.Slice(resp.Existing, func(i, j int) bool { return resp.Existing[i] < resp.Existing[j] })

	if !resp.HasCreated() {
		resp.Message = MessageAlreadyExists
	}

	uc.logger.Info("Stops imported",
		zap.String("query", req.Query),
		zap.Int("created", len(resp.Created)),
		zap.Int("existing", len(resp.Existing)))

	return resp, nil
}

// searchLocations - поиск у провайдера через кеш результатов (если он подключен)
func (uc *StopUseCase) searchLocations(ctx context.Context, query string) ([]domain.StopCandidate, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetSearchResults(ctx, query, uc.cfg.SearchResults)
		if err != nil {
			uc.logger.Warn("Failed to read search cache", zap.String("query", query), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	candidates, err := uc.transitRepo.SearchLocations(ctx, query, uc.cfg.SearchResults)
	if err != nil {
		uc.logUpstreamError("Failed to search locations", err, zap.String("query", query))
		return nil, transitError(err)
	}

	if uc.cacheRepo != nil && len(candidates) > 0 {
		if err := uc.cacheRepo.SetSearchResults(ctx, query, uc.cfg.SearchResults, candidates, uc.cfg.SearchCacheTTL); err != nil {
			uc.logger.Warn("Failed to cache search results", zap.String("query", query), zap.Error(err))
		}
	}

	return candidates, nil
}

// CreateStop сохраняет остановку с id провайдера. Повтор - не ошибка.
func (uc *StopUseCase) CreateStop(ctx context.Context, req dto.CreateStopRequest) (*dto.CreateStopResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Validate(req); err != nil {
		return nil, validator.ToAppError(err)
	}

	now := uc.now()
	stop := domain.NewStop(req.StopID, req.Name, req.Latitude, req.Longitude, uc.cfg.BaseURL, now)

	status, err := uc.stopRepo.Create(ctx, stop)
	if err != nil {
		uc.logger.Error("Failed to create stop", zap.Int64("stop_id", req.StopID), zap.Error(err))
		return nil, storeError(err)
	}

	if status == domain.StopAlreadyExists {
		existing, err := uc.stopRepo.GetByID(ctx, req.StopID)
		if err != nil {
			return nil, storeError(err)
		}
		return &dto.CreateStopResponse{
			Stop:    summaryOf(existing),
			Created: false,
			Message: MessageAlreadyExists,
		}, nil
	}

	uc.events.Publish(ctx, domain.StopEventCreated, stop.ID, now)

	return &dto.CreateStopResponse{
		Stop:    summaryOf(stop),
		Created: true,
	}, nil
}

// GetStop возвращает остановку, обогащенную ближайшим отправлением и ссылками на соседей.
// include ограничивает набор полей ответа; фильтр применяется после сохранения.
func (uc *StopUseCase) GetStop(ctx context.Context, id int64, include string) (*dto.StopView, error) {
	if id <= 0 {
		return nil, errors.ErrInvalidStopID
	}

	if _, err := uc.stopRepo.GetByID(ctx, id); err != nil {
		if !stderrors.Is(err, domain.ErrStopNotFound) {
			uc.logger.Error("Failed to get stop", zap.Int64("stop_id", id), zap.Error(err))
		}
		return nil, storeError(err)
	}

	filter, err := ParseInclude(include)
	if err != nil {
		return nil, err
	}

	departureFound := true
	info, err := uc.fetcher.FetchNextDeparture(ctx, id, uc.cfg.DepartureWindow)
	switch {
	case stderrors.Is(err, domain.ErrNoDeparture):
		// запись не трогаем: next_departure остается прежним
		departureFound = false
	case err != nil:
		uc.logUpstreamError("Failed to fetch departures", err, zap.Int64("stop_id", id))
		return nil, transitError(err)
	default:
		now := uc.now()
		description := info.Describe()
		ts := domain.FormatTimestamp(now)

		if _, err := uc.stopRepo.ApplyFields(ctx, id, domain.StopFieldDiff{
			NextDeparture: &description,
			LastUpdated:   &ts,
		}); err != nil {
			uc.logger.Error("Failed to persist departure", zap.Int64("stop_id", id), zap.Error(err))
			return nil, storeError(err)
		}
		uc.events.Publish(ctx, domain.StopEventDepartureRefreshed, id, now)
	}

	// перечитываем: ответ отражает сохраненное состояние
	stop, err := uc.stopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	neighbors, err := uc.stopRepo.Neighbors(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to compute neighbors", zap.Int64("stop_id", id), zap.Error(err))
		return nil, storeError(err)
	}

	view := uc.buildView(stop, neighbors)
	if !departureFound {
		view.NextDeparture = nil
		view.DepartureStatus = dto.DepartureStatusNotFound
	}

	filter.Apply(view)
	return view, nil
}

// UpdateStop применяет частичное обновление атомарно
func (uc *StopUseCase) UpdateStop(ctx context.Context, id int64, fields map[string]json.RawMessage) (*dto.StopSummary, error) {
	if id <= 0 {
		return nil, errors.ErrInvalidStopID
	}

	stop, err := uc.stopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	now := uc.now()
	diff, err := MergeStopUpdate(fields, now)
	if err != nil {
		uc.logger.Debug("Rejected stop update", zap.Int64("stop_id", id), zap.Error(err))
		return nil, err
	}

	lastUpdated, err := uc.stopRepo.ApplyFields(ctx, id, diff)
	if err != nil {
		if !stderrors.Is(err, domain.ErrStopNotFound) {
			uc.logger.Error("Failed to update stop", zap.Int64("stop_id", id), zap.Error(err))
		}
		return nil, storeError(err)
	}

	uc.events.Publish(ctx, domain.StopEventUpdated, id, now)

	return &dto.StopSummary{
		StopID:      id,
		LastUpdated: lastUpdated,
		Links:       dto.Links{Self: dto.Link{Href: stop.SelfLink}},
	}, nil
}

// DeleteStop удаляет остановку
func (uc *StopUseCase) DeleteStop(ctx context.Context, id int64) (*dto.DeleteStopResponse, error) {
	if id <= 0 {
		return nil, errors.ErrInvalidStopID
	}

	if err := uc.stopRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, domain.ErrStopNotFound) {
			return nil, errors.ErrStopNotFound.WithDetails(map[string]interface{}{"stop_id": id})
		}
		uc.logger.Error("Failed to delete stop", zap.Int64("stop_id", id), zap.Error(err))
		return nil, storeError(err)
	}

	uc.events.Publish(ctx, domain.StopEventDeleted, id, uc.now())

	return &dto.DeleteStopResponse{
		Message: fmt.Sprintf("The stop_id %d was removed from the database.", id),
		StopID:  id,
	}, nil
}

func (uc *StopUseCase) buildView(stop *domain.Stop, neighbors domain.Neighbors) *dto.StopView {
	lastUpdated := stop.LastUpdated
	view := &dto.StopView{
		StopID:        stop.ID,
		LastUpdated:   &lastUpdated,
		Name:          stop.Name,
		Latitude:      stop.Latitude,
		Longitude:     stop.Longitude,
		NextDeparture: stop.NextDeparture,
		Links:         dto.Links{Self: dto.Link{Href: stop.SelfLink}},
	}
	if neighbors.Next != nil {
		view.Links.Next = &dto.Link{Href: domain.StopLink(uc.cfg.BaseURL, *neighbors.Next)}
	}
	if neighbors.Prev != nil {
		view.Links.Prev = &dto.Link{Href: domain.StopLink(uc.cfg.BaseURL, *neighbors.Prev)}
	}
	return view
}

func (uc *StopUseCase) logUpstreamError(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if isCanceled(err) {
		uc.logger.Debug(msg, fields...)
		return
	}
	uc.logger.Warn(msg, fields...)
}

func summaryOf(stop *domain.Stop) dto.StopSummary {
	return dto.StopSummary{
		StopID:      stop.ID,
		LastUpdated: stop.LastUpdated,
		Links:       dto.Links{Self: dto.Link{Href: stop.SelfLink}},
	}
}
