package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stop-registry/internal/pkg/utils"
	"github.com/stop-registry/internal/usecase"
)

// ProfileHandler - справки о перевозчиках и путеводитель
type ProfileHandler struct {
	profileUC *usecase.ProfileUseCase
	logger    *zap.Logger
}

func NewProfileHandler(profileUC *usecase.ProfileUseCase, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUC: profileUC,
		logger:    logger,
	}
}

// GetOperatorProfiles godoc
// @Summary Справки о перевозчиках остановки
// @Description До 5 перевозчиков из табло отправлений, по каждому короткий текст от генеративной модели.
// @Tags Profiles
// @Produce json
// @Param id path int true "ID остановки"
// @Success 200 {object} utils.SuccessResponse{data=dto.OperatorProfilesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/operator-profiles/{id} [get]
func (h *ProfileHandler) GetOperatorProfiles(c *fiber.Ctx) error {
	id, err := parseStopID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.profileUC.GetOperatorProfiles(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetGuide godoc
// @Summary Путеводитель по сохраненным остановкам
// @Tags Profiles
// @Produce plain
// @Success 200 {string} string "Guide.txt"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/guide [get]
func (h *ProfileHandler) GetGuide(c *fiber.Ctx) error {
	guide, err := h.profileUC.GetGuide(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Attachment("Guide.txt")
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(guide)
}
