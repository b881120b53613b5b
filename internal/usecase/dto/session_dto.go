package dto

import (
	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/mapview"
)

// CreateSessionRequest - открытие вида карты. DeviceID включает слежение за позицией устройства.
type CreateSessionRequest struct {
	DeviceID string `json:"device_id,omitempty" validate:"omitempty,max=128"`
}

// SetZoomRequest - ручное изменение зума пользователем
type SetZoomRequest struct {
	Zoom *int `json:"zoom" validate:"required,zoom"`
}

// SessionResponse - открытая сессия вместе с начальной сценой
type SessionResponse struct {
	ID       string       `json:"id"`
	DeviceID string       `json:"device_id,omitempty"`
	Scene    domain.Scene `json:"scene"`
}

// PatchesResponse - изменения сцены с момента прошлого запроса
type PatchesResponse struct {
	Version uint64          `json:"version"`
	Patches []mapview.Patch `json:"patches"`
}

// ViewportResponse - вид карты после команды пользователя
type ViewportResponse struct {
	Viewport domain.Viewport `json:"viewport"`
}
