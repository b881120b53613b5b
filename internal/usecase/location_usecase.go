package usecase

import (
	"context"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	"go.uber.org/zap"
)

// LocationUseCase - шлюз к таблице Locations.
// Ошибки хранилища не поднимаются наверх: вызывающий получает пустой список.
type LocationUseCase struct {
	locationRepo repository.LocationRepository
	logger       *zap.Logger
}

func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	logger *zap.Logger,
) *LocationUseCase {
	return &LocationUseCase{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// FetchLocations делает ровно один запрос к хранилищу и нормализует координаты.
// При ошибке или пустом payload пишет одну запись в лог и возвращает пустой срез.
func (uc *LocationUseCase) FetchLocations(ctx context.Context) []domain.LocationRecord {
	rows, err := uc.locationRepo.ListLocations(ctx)
	if err != nil {
		uc.logger.Error("Error fetching locations", zap.Error(err))
		return []domain.LocationRecord{}
	}
	if rows == nil {
		uc.logger.Error("No data returned from location store")
		return []domain.LocationRecord{}
	}

	for i := range rows {
		rows[i].Normalize()
	}

	uc.logger.Debug("Locations fetched", zap.Int("count", len(rows)))
	return rows
}
