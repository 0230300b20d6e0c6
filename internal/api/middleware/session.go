package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/config"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/session"
	"jobportal-web/pkg/utils"
)

const sessionContextKey = "session"

// Sessions attaches the visitor's initialized auth context to every request,
// issuing a session id cookie on first visit.
func Sessions(cfg *config.Config, store session.TokenStore, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if cookie, err := c.Cookie(cfg.Session.IDCookie); err == nil && utils.IsValidSessionID(cookie.Value) {
				sid = cookie.Value
			}
			if sid == "" {
				sid = utils.GenerateSessionID()
				c.SetCookie(&http.Cookie{
					Name:     cfg.Session.IDCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Session.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			s := session.New(sid, store, logger).WithDefaultTTL(cfg.Session.TokenTTL)
			s.Initialize(c.Request().Context())
			c.Set(sessionContextKey, s)

			return next(c)
		}
	}
}

// CurrentSession returns the auth context attached by Sessions
func CurrentSession(c echo.Context) *session.Session {
	s, _ := c.Get(sessionContextKey).(*session.Session)
	return s
}

// SetTokenCookie mirrors the bearer token into the cookie the route guard reads
func SetTokenCookie(c echo.Context, cfg *config.Config, token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cfg.Session.TokenTTL
	}
	c.SetCookie(&http.Cookie{
		Name:     cfg.Session.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie removes the token mirror
func ClearTokenCookie(c echo.Context, cfg *config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Session.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
