package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobportal-web/pkg/models"
	"jobportal-web/pkg/utils"
)

// RequestValidation tags every request with an id and rejects oversized bodies.
// Multipart uploads get the larger limit.
func RequestValidation(maxBody, maxUpload int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" || len(requestID) > 64 {
				requestID = utils.GenerateRequestID()
			}
			c.Set("request_id", requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			req := c.Request()
			if req.Method == http.MethodPost || req.Method == http.MethodPut {
				limit := maxBody
				if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
					limit = maxUpload
				}
				if limit > 0 && req.ContentLength > limit {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}

// RequestID returns the id set by RequestValidation
func RequestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok {
		return id
	}
	return ""
}
