package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobportal-web/internal/api/validation"
	"jobportal-web/internal/portalapi"
)

// Errors carries per-field messages and a general message for a form.
// It wraps the upstream error, if any, so portalapi.IsUnauthenticated and
// friends still work on it.
type Errors struct {
	Fields  map[string]string
	General string
	Cause   error
}

func (e *Errors) Error() string {
	if len(e.Fields) == 0 {
		return e.General
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	if e.General != "" {
		return e.General + " (" + strings.Join(parts, "; ") + ")"
	}
	return strings.Join(parts, "; ")
}

func (e *Errors) Unwrap() error { return e.Cause }

// Get returns the message for field, or ""
func (e *Errors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

// AsErrors extracts *Errors from err
func AsErrors(err error) (*Errors, bool) {
	var fe *Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// messages maps field -> validator tag -> user-facing message
type messages map[string]map[string]string

var validate = validation.New()

// check validates form and translates failures with msgs. It returns nil when form is valid.
func check(form interface{}, msgs messages, general string) *Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Errors{General: err.Error(), Cause: err}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		if msg, ok := msgs[field][fe.Tag()]; ok {
			fields[field] = msg
		} else {
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return &Errors{Fields: fields, General: general}
}

// fromAPI maps an upstream failure onto a form. Field errors whose field is
// in known land on that field; when none do, the server message (or fallback)
// becomes the general error.
func fromAPI(err error, known []string, fallback string) *Errors {
	out := &Errors{Fields: map[string]string{}, Cause: err}

	if apiErr, ok := portalapi.AsAPIError(err); ok {
		for field, msg := range apiErr.FieldMessages() {
			for _, k := range known {
				if k == field {
					out.Fields[field] = msg
					break
				}
			}
		}
	}

	if len(out.Fields) == 0 {
		out.General = portalapi.MessageOr(err, fallback)
	}
	return out
}
