package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func newGuardedEcho() *echo.Echo {
	e := echo.New()
	e.Use(RouteGuard(GuardConfig{Rules: DefaultRules()}))

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/", ok)
	e.GET("/jobs", ok)
	e.GET("/admin-dashboard", ok)
	e.GET("/admin-dashboard/users", ok)
	e.GET("/admin-dashboardx", ok)
	e.GET("/user-dashboard", ok)
	e.GET("/user-dashboard/appliedJobs", ok)
	return e
}

func TestRouteGuard(t *testing.T) {
	admin := makeToken(`{"id":1,"role":"admin"}`)
	user := makeToken(`{"id":2,"role":"user"}`)

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"public path without token", "/jobs", "", http.StatusOK, ""},
		{"root without token", "/", "", http.StatusOK, ""},
		{"admin without token", "/admin-dashboard", "", http.StatusFound, "/login"},
		{"admin with garbage", "/admin-dashboard", "garbage", http.StatusFound, "/login"},
		{"admin subpath as user", "/admin-dashboard/users", user, http.StatusFound, "/unauthorized"},
		{"admin as admin", "/admin-dashboard", admin, http.StatusOK, ""},
		{"admin subpath as admin", "/admin-dashboard/users", admin, http.StatusOK, ""},
		{"prefix look-alike is public", "/admin-dashboardx", "", http.StatusOK, ""},
		{"user dashboard as user", "/user-dashboard", user, http.StatusOK, ""},
		{"user dashboard as admin", "/user-dashboard/appliedJobs", admin, http.StatusOK, ""},
		{"user dashboard without token", "/user-dashboard", "", http.StatusFound, "/login"},
		{"user dashboard with unknown role", "/user-dashboard", makeToken(`{"id":3,"role":"guest"}`), http.StatusFound, "/unauthorized"},
		{"null payload", "/user-dashboard", makeToken("null"), http.StatusFound, "/login"},
		{"admin with string id", "/admin-dashboard", makeToken(`{"id":"7","role":"admin"}`), http.StatusOK, ""},
		{"user with float id on admin path", "/admin-dashboard", makeToken(`{"id":7.0,"role":"user"}`), http.StatusFound, "/unauthorized"},
	}

	e := newGuardedEcho()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.token})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestRequestValidation(t *testing.T) {
	e := echo.New()
	e.Use(RequestValidation(10, 100))
	e.POST("/", func(c echo.Context) error { return c.String(http.StatusOK, RequestID(c)) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.ContentLength = 50
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=x")
	req.ContentLength = 50
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
