package repository

import (
	"context"

	"github.com/location-map/internal/domain"
)

// LocationRepository определяет чтение таблицы Locations из удалённого хранилища
type LocationRepository interface {
	// ListLocations возвращает все строки фиксированной проекции.
	// nil без ошибки означает, что хранилище вернуло пустой payload.
	ListLocations(ctx context.Context) ([]domain.LocationRecord, error)
}
