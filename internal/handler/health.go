package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/middleware"
	"github.com/deppfellow/people-api/internal/server"
)

var errNoDatabase = errors.New("database is not configured")

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes the /status endpoint used by uptime monitors and
// load balancers.
type HealthHandler struct {
	Handler
	db pinger
}

func NewHealthHandler(s *server.Server, db pinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		db:      db,
	}
}

func (h *HealthHandler) ping(ctx context.Context) error {
	if h.db == nil {
		return errNoDatabase
	}
	return h.db.Ping(ctx)
}

func (h *HealthHandler) recordEvent(attrs map[string]any) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}

// CheckHealth pings the database within the configured timeout.
//
// It answers 200 when the database responds and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
	}
	checks := map[string]any{}
	response["checks"] = checks

	// ---------------- Database connectivity check ----------------------------
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	dbStart := time.Now()
	if err := h.ping(ctx); err != nil {
		checks["database"] = map[string]any{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordEvent(map[string]any{
			"check_type":       "database",
			"operation":        "health_check",
			"error_type":       "database_unhealthy",
			"response_time_ms": time.Since(dbStart).Milliseconds(),
			"error_message":    err.Error(),
		})

		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["database"] = map[string]any{
		"status":        "healthy",
		"response_time": time.Since(dbStart).String(),
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
