package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/api/middleware"
	"jobportal-web/internal/api/render"
	"jobportal-web/internal/forms"
	"jobportal-web/internal/listing"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/portalapi"
	"jobportal-web/internal/session"
)

// newPage fills the fields every template needs
func newPage(c echo.Context, title string, data interface{}) render.Page {
	p := render.Page{
		Title:     title,
		Notice:    c.QueryParam("message"),
		Error:     c.QueryParam("error"),
		RequestID: middleware.RequestID(c),
		Data:      data,
	}
	if s := middleware.CurrentSession(c); s != nil {
		p.User = s.CurrentUser()
	}
	return p
}

// redirectWith redirects to target carrying a one-shot notice in the query string
func redirectWith(c echo.Context, target, key, message string) error {
	if message != "" {
		sep := "?"
		if u, err := url.Parse(target); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target += sep + key + "=" + url.QueryEscape(message)
	}
	return c.Redirect(http.StatusFound, target)
}

func redirectError(c echo.Context, target, message string) error {
	return redirectWith(c, target, "error", message)
}

func redirectNotice(c echo.Context, target, message string) error {
	return redirectWith(c, target, "message", message)
}

// homeFor is where a signed-in user lands
func homeFor(identity *session.Identity) string {
	if identity != nil && identity.IsAdmin() {
		return "/admin-dashboard"
	}
	return "/user-dashboard"
}

func requestLogger(c echo.Context, d *Deps) logging.Logger {
	return d.Logger.WithField("request_id", middleware.RequestID(c))
}

func sessionOf(c echo.Context) (sid, token string) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return "", ""
	}
	return s.ID(), s.Token()
}

// endSession signs the visitor out everywhere this server keeps state
func endSession(c echo.Context, d *Deps) {
	s := middleware.CurrentSession(c)
	if s != nil {
		if err := s.Logout(c.Request().Context()); err != nil {
			requestLogger(c, d).Warn("Failed to clear session token", map[string]interface{}{
				"error": err.Error(),
			})
		}
		d.Portal.DropSession(s.ID())
	}
	middleware.ClearTokenCookie(c, d.Config)
}

// handleAPIError applies the web policy for upstream failures: expired
// sessions go to login, forbidden calls to /unauthorized, anything else
// back to the page with a notice.
func handleAPIError(c echo.Context, d *Deps, err error, back, fallback string) error {
	switch {
	case portalapi.IsUnauthenticated(err):
		endSession(c, d)
		return redirectError(c, "/login", "Your session has expired. Please log in again.")
	case portalapi.IsForbidden(err):
		return c.Redirect(http.StatusFound, "/unauthorized")
	default:
		requestLogger(c, d).Warn("Portal API call failed", map[string]interface{}{
			"path":  c.Request().URL.Path,
			"error": err.Error(),
		})
		return redirectError(c, back, portalapi.MessageOr(err, fallback))
	}
}

// authRedirect returns the redirect for auth failures, or nil for anything else
func authRedirect(c echo.Context, d *Deps, err error) error {
	if portalapi.IsUnauthenticated(err) || portalapi.IsForbidden(err) {
		return handleAPIError(c, d, err, "/", "")
	}
	return nil
}

type waiter interface {
	Wait(ctx context.Context) error
}

// settle gives an in-flight fetch a short window to finish before the page
// is rendered; slower fetches render as loading.
func settle(c echo.Context, d *Deps, w waiter) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), d.Config.Listing.RenderWait)
	defer cancel()

	if err := w.Wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, listing.ErrClosed) {
		requestLogger(c, d).Debug("Wait for list view ended early", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// pageParam parses ?page=N; ok is false when absent or malformed
func pageParam(c echo.Context) (int, bool) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ViewState is the JSON shape of a list view
type ViewState struct {
	Status          listing.Status `json:"status"`
	SearchTerm      string         `json:"search_term"`
	DebouncedSearch string         `json:"debounced_search"`
	Page            int            `json:"page"`
	PageSize        int            `json:"page_size"`
	Total           int            `json:"total"`
	TotalPages      int            `json:"total_pages"`
	Items           interface{}    `json:"items"`
	Error           string         `json:"error,omitempty"`
}

func viewState[T any](snap listing.Snapshot[T], fallback string) ViewState {
	state := ViewState{
		Status:          snap.Status,
		SearchTerm:      snap.SearchTerm,
		DebouncedSearch: snap.DebouncedSearch,
		Page:            snap.Page,
		PageSize:        snap.PageSize,
		Total:           snap.Total,
		TotalPages:      snap.TotalPages,
		Items:           snap.Items,
	}
	if snap.Err != nil {
		state.Error = portalapi.MessageOr(snap.Err, fallback)
	}
	return state
}

// ListPage is the template data of a searchable list
type ListPage[T any] struct {
	Snapshot  listing.Snapshot[T]
	Notice    string // fetch failure shown above the previous data
	BasePath  string
	SearchURL string
}

func listPage[T any](snap listing.Snapshot[T], basePath, fallback string) ListPage[T] {
	lp := ListPage[T]{Snapshot: snap, BasePath: basePath, SearchURL: basePath + "/search"}
	if snap.Err != nil {
		lp.Notice = portalapi.MessageOr(snap.Err, fallback)
	}
	return lp
}

func formErrors(err error) *forms.Errors {
	if errs, ok := forms.AsErrors(err); ok {
		return errs
	}
	return &forms.Errors{General: err.Error(), Cause: err}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
