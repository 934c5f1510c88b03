package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// PingFunc проверяет доступность зависимости
type PingFunc func(ctx context.Context) error

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	db     PingFunc
	cache  PingFunc
	logger *zap.Logger
}

// NewHealthHandler создает новый HealthHandler. cache может быть nil, если корзины хранятся в памяти.
func NewHealthHandler(db, cache PingFunc, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}

// Health возвращает статус приложения
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "ok",
		Database: "ok",
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unavailable"
		h.logger.Warn("health check: database unavailable", zap.Error(err))
	}

	if h.cache != nil {
		response.Cache = "ok"
		if err := h.cache(ctx); err != nil {
			response.Status = "degraded"
			response.Cache = "unavailable"
			h.logger.Warn("health check: cart cache unavailable", zap.Error(err))
		}
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	if err := writeJSON(w, status, response); err != nil {
		h.logger.Error("failed to encode health response", zap.Error(err))
	}
}

// Ready возвращает готовность приложения принимать трафик
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db(ctx); err != nil {
		h.logger.Warn("readiness check failed: database unavailable", zap.Error(err))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck
}
