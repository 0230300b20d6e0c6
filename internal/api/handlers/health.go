package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/api/middleware"
	"jobportal-web/pkg/models"
	"jobportal-web/pkg/utils"
)

const version = "1.0.0"

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestLogger(c, d).Debug("Health check requested")

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"web": "ok",
			},
		})
	}
}

// ReadinessHandler reports ready once the token store answers. The remote
// API is not probed; pages degrade to notices when it is down.
func ReadinessHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"web": "ok"}
		status, code := "ready", http.StatusOK

		if d.Redis != nil {
			if err := utils.PingRedis(c.Request().Context(), d.Redis, d.Config.Redis.Timeout); err != nil {
				requestLogger(c, d).Warn("Readiness check failed", map[string]interface{}{
					"check": "redis",
					"error": err.Error(),
				})
				checks["redis"] = "unavailable"
				status, code = "not_ready", http.StatusServiceUnavailable
			} else {
				checks["redis"] = "ok"
			}
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "alive",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
		})
	}
}

// StatusResponse extends the health payload with runtime counters
type StatusResponse struct {
	models.HealthResponse
	RequestID   string `json:"request_id"`
	ActiveViews int    `json:"active_views"`
	APIBaseURL  string `json:"api_base_url"`
	TokenStore  string `json:"token_store"`
}

// StatusHandler provides detailed service status
func StatusHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		uptime := time.Since(startTime)
		return c.JSON(http.StatusOK, StatusResponse{
			HealthResponse: models.HealthResponse{
				Status:    "operational",
				Timestamp: time.Now(),
				Version:   version,
				Uptime:    uptime,
				Checks: map[string]string{
					"uptime": utils.FormatDuration(uptime),
				},
			},
			RequestID:   middleware.RequestID(c),
			ActiveViews: d.Portal.Registry().Len(),
			APIBaseURL:  d.API.BaseURL(),
			TokenStore:  d.Config.Session.Store,
		})
	}
}
