package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/logging"
	"resume-builder/pkg/models"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.GetGlobalLogger().WithContext(c.Request().Context()).Debug("Health check requested")

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler pings the session store and checks the export workers
func ReadinessHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger().WithContext(c.Request().Context())

		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"api": "ok", "session_store": "ok", "export_workers": "ok"}
		status, code := "ready", http.StatusOK

		if err := d.Store.Ping(ctx); err != nil {
			logger.Warn("Session store ping failed", map[string]interface{}{"error": err.Error()})
			checks["session_store"] = "unavailable"
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		if d.Exports == nil || !d.Exports.IsHealthy() {
			checks["export_workers"] = "stopped"
			status, code = "not_ready", http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}
