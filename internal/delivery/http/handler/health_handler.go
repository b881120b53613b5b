package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// healthCheckTimeout - предел одной проверки зависимости
const healthCheckTimeout = 2 * time.Second

// HealthChecker - зависимость, умеющая проверить своё соединение
type HealthChecker interface {
	Health(ctx context.Context) error
}

type namedChecker struct {
	name    string
	checker HealthChecker
}

// HealthHandler отвечает на /api/v1/health, опрашивая зарегистрированные зависимости
type HealthHandler struct {
	logger *zap.Logger

	mu       sync.RWMutex
	checkers []namedChecker
}

// NewHealthHandler создает новый экземпляр HealthHandler
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// Register добавляет зависимость в проверку здоровья
func (h *HealthHandler) Register(name string, checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, namedChecker{name: name, checker: checker})
}

// HealthResponse - ответ проверки здоровья
type HealthResponse struct {
	Status string            `json:"status"`
	Time   time.Time         `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @Summary Health check
// @Description Проверяет соединения с Postgres и Redis, если они подключены
// @Tags Health
// @Produce json
// @Success 200 {object} handler.HealthResponse
// @Failure 503 {object} handler.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	h.mu.RLock()
	checkers := append([]namedChecker(nil), h.checkers...)
	h.mu.RUnlock()

	resp := HealthResponse{Status: "healthy", Time: time.Now()}
	status := fiber.StatusOK

	if len(checkers) > 0 {
		resp.Checks = make(map[string]string, len(checkers))
	}
	for _, nc := range checkers {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		err := nc.checker.Health(ctx)
		cancel()

		if err != nil {
			h.logger.Warn("Health check failed",
				zap.String("dependency", nc.name),
				zap.Error(err))
			resp.Checks[nc.name] = err.Error()
			resp.Status = "unhealthy"
			status = fiber.StatusServiceUnavailable
			continue
		}
		resp.Checks[nc.name] = "ok"
	}

	return c.Status(status).JSON(resp)
}
