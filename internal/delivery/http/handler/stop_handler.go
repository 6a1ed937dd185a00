package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/pkg/utils"
	"github.com/stop-registry/internal/usecase"
	"github.com/stop-registry/internal/usecase/dto"
)

// StopHandler - обработчик реестра остановок
type StopHandler struct {
	stopUC *usecase.StopUseCase
	logger *zap.Logger
}

// NewStopHandler - создание нового StopHandler
func NewStopHandler(stopUC *usecase.StopUseCase, logger *zap.Logger) *StopHandler {
	return &StopHandler{
		stopUC: stopUC,
		logger: logger,
	}
}

// ImportStops godoc
// @Summary Импорт остановок по поисковому запросу
// @Description Ищет остановки у провайдера и сохраняет новые. 201 если создана хотя бы одна, иначе 200.
// @Tags Stops
// @Produce json
// @Param query query string true "Поисковый запрос, например Hamburg Hbf"
// @Success 201 {object} utils.SuccessResponse{data=dto.ImportStopsResponse}
// @Success 200 {object} utils.SuccessResponse{data=dto.ImportStopsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stops [put]
func (h *StopHandler) ImportStops(c *fiber.Ctx) error {
	req := dto.ImportStopsRequest{Query: c.Query("query")}

	result, err := h.stopUC.ImportStops(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	if result.HasCreated() {
		return utils.SendCreated(c, result)
	}
	return utils.SendSuccess(c, result, nil)
}

// CreateStop godoc
// @Summary Создание остановки с id провайдера
// @Tags Stops
// @Accept json
// @Produce json
// @Param request body dto.CreateStopRequest true "Остановка"
// @Success 201 {object} utils.SuccessResponse{data=dto.CreateStopResponse}
// @Success 200 {object} utils.SuccessResponse{data=dto.CreateStopResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stops [post]
func (h *StopHandler) CreateStop(c *fiber.Ctx) error {
	var req dto.CreateStopRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}

	result, err := h.stopUC.CreateStop(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	if result.Created {
		return utils.SendCreated(c, result)
	}
	return utils.SendSuccess(c, result, nil)
}

// GetStop godoc
// @Summary Остановка с ближайшим отправлением
// @Description Обновляет next_departure по табло провайдера, сохраняет и возвращает запись со ссылками на соседей.
// @Tags Stops
// @Produce json
// @Param id path int true "ID остановки"
// @Param include query string false "Поля через запятую: last_updated,name,latitude,longitude,next_departure"
// @Success 200 {object} utils.SuccessResponse{data=dto.StopView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stops/{id} [get]
func (h *StopHandler) GetStop(c *fiber.Ctx) error {
	id, err := parseStopID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	view, err := h.stopUC.GetStop(c.UserContext(), id, c.Query("include"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, view, nil)
}

// UpdateStop godoc
// @Summary Частичное обновление остановки
// @Description Все поля проверяются до записи; при любой ошибке запись не меняется. stop_id и _links запрещены.
// @Tags Stops
// @Accept json
// @Produce json
// @Param id path int true "ID остановки"
// @Param request body object true "Поля: name, next_departure, latitude, longitude, last_updated (YYYY-MM-DD-HH:MM:SS)"
// @Success 200 {object} utils.SuccessResponse{data=dto.StopSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stops/{id} [patch]
func (h *StopHandler) UpdateStop(c *fiber.Ctx) error {
	id, err := parseStopID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil || fields == nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.stopUC.UpdateStop(c.UserContext(), id, fields)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// DeleteStop godoc
// @Summary Удаление остановки
// @Tags Stops
// @Produce json
// @Param id path int true "ID остановки"
// @Success 200 {object} utils.SuccessResponse{data=dto.DeleteStopResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stops/{id} [delete]
func (h *StopHandler) DeleteStop(c *fiber.Ctx) error {
	id, err := parseStopID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.stopUC.DeleteStop(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

func parseStopID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidStopID
	}
	return id, nil
}
