package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration. Health and metrics
// endpoints are exempt.
func TimeoutConfig(timeout time.Duration, exempt ...string) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: "request timed out",
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			for _, prefix := range exempt {
				if strings.HasPrefix(path, prefix) {
					return true
				}
			}
			return false
		},
	})
}
