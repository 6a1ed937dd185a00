package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/usecase/dto"
)

const (
	// maxOperators - сколько перевозчиков описывать для одной остановки
	maxOperators = 5

	// guideNotFoundMarker - модель отвечает так, когда маршрут подобрать нельзя
	guideNotFoundMarker = "NOTFOUND"

	operatorPrompt = "Give me some information about transport operator %s in no more than 80 words."

	guidePrompt = "Here are some European stops: %s. Choose any 2 of them, one as start and the other as destination, " +
		"check whether there is a public transport line between them, choose 1 and give a detailed introduction, " +
		"include all information that would be useful for a tourist, like time, price, service, food&drinks, " +
		"air conditioner, pets, toilets, smoking, wifi; you must include at least 1 point of interest for both " +
		"start and destination, introduce each point in 200 words including address, opening time, ticket price, " +
		"food&drinks, recommendation, anecdote. If there is no public transport line between any 2 stops I provide " +
		"or there is any other problem that you cannot complete this task, just answer me " + guideNotFoundMarker + "."
)

// ProfileUseCase - справки о перевозчиках и путеводитель по сохраненным остановкам
type ProfileUseCase struct {
	stopRepo    repository.StopRepository
	transitRepo repository.TransitRepository
	textRepo    repository.TextGenerationRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	window      int
	cacheTTL    time.Duration
}

// NewProfileUseCase - создание нового ProfileUseCase. cacheRepo может быть nil.
func NewProfileUseCase(
	stopRepo repository.StopRepository,
	transitRepo repository.TransitRepository,
	textRepo repository.TextGenerationRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	window int,
	cacheTTL time.Duration,
) *ProfileUseCase {
	return &ProfileUseCase{
		stopRepo:    stopRepo,
		transitRepo: transitRepo,
		textRepo:    textRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		window:      window,
		cacheTTL:    cacheTTL,
	}
}

// GetOperatorProfiles описывает до пяти перевозчиков с табло остановки
func (uc *ProfileUseCase) GetOperatorProfiles(ctx context.Context, id int64) (*dto.OperatorProfilesResponse, error) {
	if id <= 0 {
		return nil, errors.ErrInvalidStopID
	}

	if _, err := uc.stopRepo.GetByID(ctx, id); err != nil {
		if !stderrors.Is(err, domain.ErrStopNotFound) {
			uc.logger.Error("Failed to get stop", zap.Int64("stop_id", id), zap.Error(err))
		}
		return nil, storeError(err)
	}

	departures, err := uc.transitRepo.GetDepartures(ctx, id, uc.window)
	if err != nil {
		uc.logger.Warn("Failed to fetch departures", zap.Int64("stop_id", id), zap.Error(err))
		return nil, transitError(err)
	}
	if len(departures) == 0 {
		return nil, errors.ErrNoDeparture
	}

	operators := CollectOperators(departures, maxOperators)
	if len(operators) == 0 {
		return nil, errors.ErrNoOperator
	}

	profiles := make([]domain.OperatorProfile, 0, len(operators))
	for _, op := range operators {
		profile, err := uc.operatorProfile(ctx, op)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return &dto.OperatorProfilesResponse{
		StopID:   id,
		Profiles: profiles,
	}, nil
}

func (uc *ProfileUseCase) operatorProfile(ctx context.Context, operator string) (*domain.OperatorProfile, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetOperatorProfile(ctx, operator)
		if err != nil {
			uc.logger.Warn("Failed to read profile cache", zap.String("operator", operator), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	text, err := uc.textRepo.GenerateText(ctx, fmt.Sprintf(operatorPrompt, operator))
	if err != nil {
		uc.logger.Warn("Failed to generate operator profile", zap.String("operator", operator), zap.Error(err))
		return nil, generationError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, generationError(domain.ErrGenerationFailed)
	}

	profile := &domain.OperatorProfile{OperatorName: operator, Information: text}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetOperatorProfile(ctx, profile, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache operator profile", zap.String("operator", operator), zap.Error(err))
		}
	}

	return profile, nil
}

// GetGuide генерирует путеводитель по маршруту между двумя сохраненными остановками
func (uc *ProfileUseCase) GetGuide(ctx context.Context) (string, error) {
	names, err := uc.stopRepo.ListNames(ctx)
	if err != nil {
		uc.logger.Error("Failed to list stop names", zap.Error(err))
		return "", storeError(err)
	}
	if len(names) < 2 {
		return "", errors.ErrNotEnoughStops.WithDetails(map[string]interface{}{"stops": len(names)})
	}

	guide, err := uc.textRepo.GenerateText(ctx, fmt.Sprintf(guidePrompt, strings.Join(names, "; ")))
	if err != nil {
		uc.logger.Warn("Failed to generate guide", zap.Error(err))
		return "", generationError(err)
	}

	guide = strings.TrimSpace(guide)
	if guide == "" || strings.Contains(guide, guideNotFoundMarker) {
		return "", errors.ErrGuideNotAvailable
	}

	uc.logger.Info("Guide generated", zap.Int("stops", len(names)), zap.Int("chars", len(guide)))
	return guide, nil
}

// CollectOperators возвращает до limit различных непустых имен перевозчиков в порядке табло
func CollectOperators(departures []domain.Departure, limit int) []string {
	seen := make(map[string]struct{})
	operators := make([]string, 0, limit)

	for _, d := range departures {
		if d.OperatorName == nil || strings.TrimSpace(*d.OperatorName) == "" {
			continue
		}
		name := *d.OperatorName
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		operators = append(operators, name)
		if len(operators) >= limit {
			break
		}
	}

	return operators
}
