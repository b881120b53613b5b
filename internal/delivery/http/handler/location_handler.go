package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/location-map/internal/pkg/utils"
	"github.com/location-map/internal/usecase"
	"go.uber.org/zap"
)

// LocationHandler отдаёт нормализованные записи таблицы Locations
type LocationHandler struct {
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

// NewLocationHandler создает новый экземпляр LocationHandler
func NewLocationHandler(locationUC *usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

// GetLocations godoc
// @Summary List locations
// @Description Возвращает все локации. При ошибке хранилища список пустой, ошибка только в логе.
// @Tags Locations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.LocationRecord}
// @Router /api/v1/locations [get]
func (h *LocationHandler) GetLocations(c *fiber.Ctx) error {
	h.logger.Debug("Handling list locations request")

	locations := h.locationUC.FetchLocations(c.UserContext())

	return utils.SendSuccess(c, locations, &utils.Meta{
		Total: len(locations),
	})
}
