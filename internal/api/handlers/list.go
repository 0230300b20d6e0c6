package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/listing"
)

// ListHandlers serves one session-scoped list view: the HTML page, live
// search, JSON state and refresh.
type ListHandlers[T any] struct {
	d        *Deps
	view     func(c echo.Context) *listing.View[T]
	basePath string
	title    string
	template string
	fallback string
	data     func(c echo.Context, lp ListPage[T]) interface{}
}

// Page renders the list. ?page=N moves to page N when it is in range.
func (h *ListHandlers[T]) Page(c echo.Context) error {
	v := h.view(c)
	if p, ok := pageParam(c); ok {
		// page bounds are only known once the first result is in
		settle(c, h.d, v)
		v.GoToPage(p)
	}
	settle(c, h.d, v)

	snap := v.Snapshot()
	if snap.Err != nil {
		if redirect := authRedirect(c, h.d, snap.Err); redirect != nil {
			return redirect
		}
	}

	lp := listPage(snap, h.basePath, h.fallback)
	var data interface{} = lp
	if h.data != nil {
		data = h.data(c, lp)
	}
	return c.Render(http.StatusOK, h.template, newPage(c, h.title, data))
}

// Search handles typing (GET ?q=, debounced) and form submission (POST q, immediate)
func (h *ListHandlers[T]) Search(c echo.Context) error {
	v := h.view(c)

	if c.Request().Method == http.MethodPost {
		v.SubmitSearch(c.FormValue("q"))
		return c.Redirect(http.StatusFound, h.basePath)
	}

	v.SetSearch(c.QueryParam("q"))
	return c.JSON(http.StatusAccepted, viewState(v.Snapshot(), h.fallback))
}

// State returns the view as JSON once any in-flight fetch settles
func (h *ListHandlers[T]) State(c echo.Context) error {
	v := h.view(c)
	settle(c, h.d, v)
	return c.JSON(http.StatusOK, viewState(v.Snapshot(), h.fallback))
}

// Refresh refetches the current page
func (h *ListHandlers[T]) Refresh(c echo.Context) error {
	h.view(c).Refresh()
	return c.Redirect(http.StatusFound, h.basePath)
}
