package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/location-map/internal/pkg/errors"
	"github.com/location-map/internal/pkg/utils"
	"github.com/location-map/internal/usecase"
	"github.com/location-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// SessionHandler - обработчик сессий карты: сцена, патчи и команды пользователя
type SessionHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

// NewSessionHandler создает новый экземпляр SessionHandler
func NewSessionHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// CreateSession godoc
// @Summary Open map session
// @Description Монтирует вид карты. С device_id вид следит за позицией устройства.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest false "Параметры сессии"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, invalidBody(err))
		}
	}
	if req.DeviceID == "" {
		req.DeviceID = c.Query("device_id")
	}

	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	info, err := h.sessionUC.Create(req.DeviceID)
	if err != nil {
		return utils.SendError(c, err)
	}

	scene, err := h.sessionUC.Scene(info.ID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, dto.SessionResponse{
		ID:       info.ID,
		DeviceID: info.DeviceID,
		Scene:    scene,
	})
}

// GetScene godoc
// @Summary Full scene
// @Description Полная декларативная сцена: вид и маркеры. Сбрасывает базу для патчей.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/scene [get]
func (h *SessionHandler) GetScene(c *fiber.Ctx) error {
	scene, err := h.sessionUC.Scene(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, scene, &utils.Meta{
		Total:   len(scene.Markers),
		Version: scene.Version,
	})
}

// GetPatches godoc
// @Summary Scene patches
// @Description Изменения сцены с прошлого запроса scene или patches
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.PatchesResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/patches [get]
func (h *SessionHandler) GetPatches(c *fiber.Ctx) error {
	patches, version, err := h.sessionUC.Patches(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.PatchesResponse{
		Version: version,
		Patches: patches,
	}, nil)
}

// ClickMarker godoc
// @Summary Click location marker
// @Description Центрирует карту на локации с максимальным зумом
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Param location_id path int true "ID локации"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/{location_id}/click [post]
func (h *SessionHandler) ClickMarker(c *fiber.Ctx) error {
	locationID, err := strconv.ParseInt(c.Params("location_id"), 10, 64)
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"location_id": c.Params("location_id"),
		}))
	}

	vp, err := h.sessionUC.ClickMarker(c.Params("id"), locationID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ViewportResponse{Viewport: vp}, nil)
}

// SetZoom godoc
// @Summary Report user zoom
// @Description Сообщает о ручном изменении зума, режим pan сохраняет его при следующих фиксациях
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SetZoomRequest true "Новый зум"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/zoom [post]
func (h *SessionHandler) SetZoom(c *fiber.Ctx) error {
	var req dto.SetZoomRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}

	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	vp, err := h.sessionUC.SetZoom(c.Params("id"), *req.Zoom)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ViewportResponse{Viewport: vp}, nil)
}

// CloseSession godoc
// @Summary Close map session
// @Description Размонтирует вид: отменяет загрузку и подписку на позицию
// @Tags Sessions
// @Param id path string true "ID сессии"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.sessionUC.Close(c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
