package domain

import "time"

// LocationsTable - имя отношения в Supabase
const LocationsTable = "Locations"

// LocationColumns - фиксированная проекция колонок, запрашиваемая у хранилища
var LocationColumns = []string{
	"id",
	"Location_Name",
	"Country",
	"Address",
	"URL",
	"Latitude",
	"Longitude",
	"created_at",
}

// LocationRecord представляет точку интереса из таблицы Locations.
// Все поля кроме ID могут отсутствовать в хранилище.
type LocationRecord struct {
	ID        int64      `json:"id" db:"id"`
	Name      *string    `json:"Location_Name" db:"Location_Name"`
	Country   *string    `json:"Country" db:"Country"`
	Address   *string    `json:"Address" db:"Address"`
	URL       *string    `json:"URL" db:"URL"`
	Latitude  *float64   `json:"Latitude" db:"Latitude"`
	Longitude *float64   `json:"Longitude" db:"Longitude"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`

	// Coordinates заполняется при нормализации, см. Normalize
	Coordinates Point `json:"coordinates" db:"-"`
}

// Normalize вычисляет Coordinates, подставляя 0 вместо отсутствующей широты или долготы.
// Запись без координат попадает в (0,0), а не отбрасывается.
func (l *LocationRecord) Normalize() {
	l.Coordinates = Point{
		Lat: valueOrZero(l.Latitude),
		Lon: valueOrZero(l.Longitude),
	}
}

// DisplayName возвращает имя или пустую строку
func (l *LocationRecord) DisplayName() string {
	return stringOrEmpty(l.Name)
}

// DisplayAddress возвращает адрес или пустую строку
func (l *LocationRecord) DisplayAddress() string {
	return stringOrEmpty(l.Address)
}

// Link возвращает внешнюю ссылку или пустую строку
func (l *LocationRecord) Link() string {
	return stringOrEmpty(l.URL)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
