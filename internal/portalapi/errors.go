package portalapi

import (
	"errors"
	"fmt"
	"net/http"

	"jobportal-web/pkg/models"
)

// ErrorKind classifies a failed portal API call
type ErrorKind string

const (
	KindTransport       ErrorKind = "transport"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindServer          ErrorKind = "server"
)

// APIError is returned by every Client method that fails
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     []models.FieldError
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("portal api %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("portal api %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// FieldMessages returns the first message per field
func (e *APIError) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		field := f.Field()
		if field == "" {
			continue
		}
		if _, seen := out[field]; !seen {
			out[field] = f.Message
		}
	}
	return out
}

func kindForStatus(status int, body *models.APIErrorBody) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthenticated
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case body != nil && len(body.Errors) > 0:
		return KindValidation
	default:
		return KindServer
	}
}

// AsAPIError extracts an *APIError from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func isKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

func IsUnauthenticated(err error) bool { return isKind(err, KindUnauthenticated) }

func IsForbidden(err error) bool { return isKind(err, KindForbidden) }

func IsValidation(err error) bool { return isKind(err, KindValidation) }

func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// MessageOr returns the API's message for err, or fallback
func MessageOr(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" && apiErr.Kind != KindTransport {
		return apiErr.Message
	}
	return fallback
}
