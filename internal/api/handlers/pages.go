package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/api/middleware"
	"jobportal-web/pkg/models"
	"jobportal-web/pkg/utils"
)

// HomeHandler renders the landing page
func HomeHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "home", newPage(c, "Find Your Next Job", nil))
	}
}

// AboutHandler renders the about page
func AboutHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "about", newPage(c, "About", nil))
	}
}

// UnauthorizedHandler is where the guard sends visitors with the wrong role
func UnauthorizedHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusForbidden, "unauthorized", newPage(c, "Unauthorized", nil))
	}
}

// ErrorHandler renders failures as HTML pages, or as the JSON error
// envelope for operational endpoints and JSON clients.
func ErrorHandler(d *Deps) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Something went wrong"

		var he *echo.HTTPError
		var ce *utils.CustomError
		switch {
		case errors.As(err, &ce):
			code = ce.Code
			message = ce.Message
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
		errorType := strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_"))

		requestID := middleware.RequestID(c)
		if code >= http.StatusInternalServerError {
			d.Logger.Error("Request failed", map[string]interface{}{
				"request_id": requestID,
				"path":       c.Request().URL.Path,
				"error":      err.Error(),
			})
		}

		var respErr error
		if wantsJSON(c) {
			respErr = c.JSON(code, models.ErrorResponse{
				Error:     errorType,
				Message:   message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		} else {
			template := "error"
			if code == http.StatusNotFound {
				template = "notfound"
			}
			respErr = c.Render(code, template, newPage(c, http.StatusText(code), message))
		}
		if respErr != nil {
			d.Logger.Error("Failed to write error response", map[string]interface{}{
				"request_id": requestID,
				"error":      respErr.Error(),
			})
		}
	}
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	switch {
	case strings.HasPrefix(path, "/health"), path == "/status", strings.HasSuffix(path, "/state"):
		return true
	case strings.HasSuffix(path, "/search") && c.Request().Method == http.MethodGet:
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
