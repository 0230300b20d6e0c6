package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
	"jobportal-web/internal/session"
)

// Rule protects every path equal to Prefix or below Prefix + "/"
type Rule struct {
	Prefix string
	Allow  func(role session.Role) bool
}

func (r Rule) matches(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

// GuardConfig configures RouteGuard
type GuardConfig struct {
	CookieName       string
	LoginPath        string
	UnauthorizedPath string
	Rules            []Rule
	Logger           logging.Logger
	Metrics          *metrics.Collector
}

// AllowRoles allows exactly the listed roles
func AllowRoles(roles ...session.Role) func(session.Role) bool {
	return func(role session.Role) bool {
		for _, r := range roles {
			if r == role {
				return true
			}
		}
		return false
	}
}

// DefaultRules gates the admin dashboard to admins and the user dashboard to any signed-in account
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/admin-dashboard", Allow: AllowRoles(session.RoleAdmin)},
		{Prefix: "/user-dashboard", Allow: AllowRoles(session.RoleUser, session.RoleAdmin)},
	}
}

// RouteGuard redirects requests for protected paths based on the role in the
// token cookie. It only decodes the token; the portal API still authorizes
// every call.
func RouteGuard(cfg GuardConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.UnauthorizedPath == "" {
		cfg.UnauthorizedPath = "/unauthorized"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			var rule *Rule
			for i := range cfg.Rules {
				if cfg.Rules[i].matches(path) {
					rule = &cfg.Rules[i]
					break
				}
			}
			if rule == nil {
				return next(c)
			}

			fields := map[string]interface{}{
				"path":       path,
				"request_id": RequestID(c),
			}

			cookie, err := c.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				cfg.Logger.Info("Route guard: no token, redirecting to login", fields)
				cfg.Metrics.GuardDecision("no_token")
				return c.Redirect(http.StatusFound, cfg.LoginPath)
			}

			claims, ok := session.Decode(cookie.Value)
			if !ok {
				cfg.Logger.Info("Route guard: invalid token, redirecting to login", fields)
				cfg.Metrics.GuardDecision("invalid_token")
				return c.Redirect(http.StatusFound, cfg.LoginPath)
			}

			fields["role"] = string(claims.Role)
			fields["user_id"] = claims.UserID

			if !rule.Allow(claims.Role) {
				cfg.Logger.Info("Route guard: role not allowed", fields)
				cfg.Metrics.GuardDecision("forbidden")
				return c.Redirect(http.StatusFound, cfg.UnauthorizedPath)
			}

			cfg.Logger.Debug("Route guard: allowed", fields)
			cfg.Metrics.GuardDecision("allowed")
			return next(c)
		}
	}
}
