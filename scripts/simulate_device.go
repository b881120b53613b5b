//go:build ignore

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/location-map/internal/domain"
	redisRepo "github.com/location-map/internal/repository/redis"
)

// Публикует позиции устройства, идущего по прямой, чтобы проверить слежение на карте:
//
//	go run scripts/simulate_device.go -device phone-1
//	open http://localhost:8080/?device_id=phone-1
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for position streams")
	deviceID := flag.String("device", "test-device", "Device ID")
	lat := flag.Float64("lat", 41.3851, "Start latitude")
	lon := flag.Float64("lon", 2.1734, "Start longitude")
	step := flag.Float64("step", 0.0005, "Degrees moved per fix")
	interval := flag.Duration("interval", 2*time.Second, "Delay between fixes")
	count := flag.Int("count", 30, "Number of fixes, 0 means until interrupted")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	stream := redisRepo.NewPositionStream(client, nil, zap.NewNop())
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for i := 0; *count == 0 || i < *count; i++ {
		sample := domain.PositionSample{
			DeviceID:  *deviceID,
			Latitude:  *lat + float64(i)**step,
			Longitude: *lon + float64(i)**step,
		}
		if err := stream.Publish(ctx, sample); err != nil {
			log.Fatalf("Failed to publish: %v", err)
		}
		log.Printf("Published fix %d: %.6f, %.6f -> %s", i+1, sample.Latitude, sample.Longitude, domain.PositionStreamName(*deviceID))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
