package dto

import "time"

// PublishPositionRequest - фиксация позиции, присланная устройством
type PublishPositionRequest struct {
	Latitude   *float64   `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude  *float64   `json:"longitude" validate:"required,min=-180,max=180"`
	Accuracy   *float64   `json:"accuracy,omitempty" validate:"omitempty,min=0"` // метры
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}
