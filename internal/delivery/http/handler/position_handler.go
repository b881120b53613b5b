package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/location-map/internal/pkg/utils"
	"github.com/location-map/internal/usecase"
	"github.com/location-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// PositionHandler принимает позиции от устройств
type PositionHandler struct {
	positionUC *usecase.PositionUseCase
	logger     *zap.Logger
}

// NewPositionHandler создает новый экземпляр PositionHandler
func NewPositionHandler(positionUC *usecase.PositionUseCase, logger *zap.Logger) *PositionHandler {
	return &PositionHandler{
		positionUC: positionUC,
		logger:     logger,
	}
}

// PublishPosition godoc
// @Summary Publish device position
// @Description Публикует фиксацию позиции в поток устройства, все виды с этим device_id её получат
// @Tags Positions
// @Accept json
// @Produce json
// @Param device_id path string true "ID устройства"
// @Param request body dto.PublishPositionRequest true "Позиция"
// @Success 202 {object} utils.SuccessResponse{data=domain.PositionSample}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/devices/{device_id}/positions [post]
func (h *PositionHandler) PublishPosition(c *fiber.Ctx) error {
	var req dto.PublishPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}

	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	sample, err := h.positionUC.Publish(c.UserContext(), c.Params("device_id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse{Data: sample})
}
