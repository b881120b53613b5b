package domain

// MarkerKind различает маркеры локаций и маркер текущей позиции
type MarkerKind string

const (
	MarkerLocation MarkerKind = "location"
	MarkerLive     MarkerKind = "live"
)

// LiveMarkerID - ключ маркера текущей позиции пользователя
const LiveMarkerID = "live"

// Popup - содержимое всплывающего окна маркера
type Popup struct {
	Title     string   `json:"title"`
	Address   string   `json:"address,omitempty"`
	Link      string   `json:"link"`
	LinkLabel string   `json:"link_label,omitempty"`
	DistanceM *float64 `json:"distance_m,omitempty"`
}

// Marker - декларативное описание маркера на карте
type Marker struct {
	Key        string     `json:"key"`
	Kind       MarkerKind `json:"kind"`
	LocationID int64      `json:"location_id,omitempty"`
	Position   Point      `json:"position"`
	Popup      Popup      `json:"popup"`
}

// Scene - полное декларативное состояние карты для отрисовки
type Scene struct {
	Version  uint64   `json:"version"`
	Viewport Viewport `json:"viewport"`
	Markers  []Marker `json:"markers"`
}
