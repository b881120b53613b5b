package usecase

import (
	"context"
	"time"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	apperrors "github.com/location-map/internal/pkg/errors"
	"github.com/location-map/internal/pkg/utils"
	"github.com/location-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// PositionUseCase принимает позиции устройств и публикует их подписчикам
type PositionUseCase struct {
	publisher repository.PositionPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewPositionUseCase(publisher repository.PositionPublisher, logger *zap.Logger) *PositionUseCase {
	return &PositionUseCase{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Publish проверяет фиксацию и отправляет её в поток позиций устройства
func (uc *PositionUseCase) Publish(ctx context.Context, deviceID string, req dto.PublishPositionRequest) (*domain.PositionSample, error) {
	if uc.publisher == nil {
		return nil, apperrors.ErrTrackingUnavailable
	}
	if deviceID == "" || req.Latitude == nil || req.Longitude == nil {
		return nil, apperrors.ErrInvalidRequest
	}
	if !utils.ValidateCoordinates(*req.Latitude, *req.Longitude) {
		return nil, apperrors.ErrInvalidCoordinates
	}

	sample := domain.PositionSample{
		DeviceID:   deviceID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Accuracy:   req.Accuracy,
		RecordedAt: uc.now().UTC(),
	}
	if req.RecordedAt != nil && !req.RecordedAt.IsZero() {
		sample.RecordedAt = req.RecordedAt.UTC()
	}

	if err := uc.publisher.Publish(ctx, sample); err != nil {
		uc.logger.Error("Failed to publish position",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return nil, apperrors.ErrPositionStreamUnavailable.WithDetails(map[string]interface{}{
			"device_id": deviceID,
		})
	}

	uc.logger.Debug("Position published",
		zap.String("device_id", deviceID),
		zap.Float64("lat", sample.Latitude),
		zap.Float64("lon", sample.Longitude))

	return &sample, nil
}
