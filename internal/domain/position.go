package domain

import "time"

// Stream names
const (
	// StreamPositionPrefix - префикс стрима позиций устройства, полное имя stream:position:<device_id>
	StreamPositionPrefix = "stream:position:"
)

// PositionStreamName возвращает имя стрима для устройства
func PositionStreamName(deviceID string) string {
	return StreamPositionPrefix + deviceID
}

// PositionSample - одна фиксация позиции устройства
type PositionSample struct {
	DeviceID   string    `json:"device_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Point возвращает координаты фиксации
func (s PositionSample) Point() Point {
	return Point{Lat: s.Latitude, Lon: s.Longitude}
}

// PositionEvent - элемент подписки на позицию: либо фиксация, либо ошибка
type PositionEvent struct {
	Sample *PositionSample
	Err    error
}

// WatchOptions - параметры подписки, передаваемые источнику позиций
type WatchOptions struct {
	HighAccuracy bool
	// MaximumAge - допустимый возраст закешированной фиксации
	MaximumAge time.Duration
	// Timeout - время ожидания очередной фиксации
	Timeout time.Duration
}

// DefaultWatchOptions: high accuracy, фиксация не старше 1с, таймаут 5с
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		HighAccuracy: true,
		MaximumAge:   time.Second,
		Timeout:      5 * time.Second,
	}
}
