package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
)

// RequestLogger writes one access log entry per request through the
// application logger and records request metrics.
func RequestLogger(logger logging.Logger, m *metrics.Collector) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogRoutePath: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			m.ObserveHTTP(v.Method, v.RoutePath, v.Status, v.Latency)

			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": float64(v.Latency) / float64(time.Millisecond),
				"remote_ip":  v.RemoteIP,
				"request_id": RequestID(c),
			}

			switch {
			case v.Error != nil:
				fields["error"] = v.Error.Error()
				logger.Error("Request failed", fields)
			case v.Status >= 500:
				logger.Error("Request completed", fields)
			default:
				logger.Info("Request completed", fields)
			}
			return nil
		},
	})
}
