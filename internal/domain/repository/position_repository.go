package repository

import (
	"context"

	"github.com/location-map/internal/domain"
)

// PositionSource - подписка на непрерывный поток позиций устройства
type PositionSource interface {
	// Watch начинает подписку. Канал закрывается после отмены ctx;
	// отмена ctx - единственный способ освободить подписку.
	Watch(ctx context.Context, deviceID string, opts domain.WatchOptions) (<-chan domain.PositionEvent, error)
}

// PositionPublisher публикует фиксации устройств
type PositionPublisher interface {
	Publish(ctx context.Context, sample domain.PositionSample) error
}
