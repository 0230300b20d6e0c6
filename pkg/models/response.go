package models

import (
	"fmt"
	"time"
)

// FieldError is one entry of the API's "errors" array
type FieldError struct {
	Path    []interface{} `json:"path"` // strings and array indexes
	Message string        `json:"message"`
}

// Field returns the first path element, the form field the error belongs to
func (e FieldError) Field() string {
	if len(e.Path) == 0 {
		return ""
	}
	if s, ok := e.Path[0].(string); ok {
		return s
	}
	return fmt.Sprint(e.Path[0])
}

// APIErrorBody is the error envelope of the portal API
type APIErrorBody struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// MessageResponse is returned by mutations that carry no payload
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
