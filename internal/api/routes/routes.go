package routes

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobportal-web/internal/api/handlers"
	"jobportal-web/internal/api/middleware"
	"jobportal-web/internal/api/render"
	"jobportal-web/internal/session"
)

// SetupRoutes configures the renderer, the middleware chain and every page route
func SetupRoutes(e *echo.Echo, d *handlers.Deps, store session.TokenStore) error {
	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.ErrorHandler(d)

	cfg := d.Config

	// Global middleware
	e.Use(middleware.RequestValidation(cfg.Server.MaxBodySize, cfg.Server.MaxUploadSize))
	e.Use(middleware.RequestLogger(d.Logger, d.Metrics))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout, "/health", cfg.Metrics.Path))

	// Operational routes carry no session
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(d))
		health.GET("/ready", handlers.ReadinessHandler(d))
		health.GET("/live", handlers.LivenessHandler(d))
	}
	e.GET("/status", handlers.StatusHandler(d))

	if cfg.Metrics.Enabled && d.Metrics != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	// Pages
	web := e.Group("",
		middleware.Sessions(cfg, store, d.Logger),
		middleware.RouteGuard(middleware.GuardConfig{
			CookieName: cfg.Session.TokenCookie,
			Rules:      middleware.DefaultRules(),
			Logger:     d.Logger,
			Metrics:    d.Metrics,
		}),
	)

	web.GET("/", handlers.HomeHandler(d))
	web.GET("/about", handlers.AboutHandler(d))
	web.GET("/unauthorized", handlers.UnauthorizedHandler(d))

	web.GET("/login", handlers.LoginPageHandler(d))
	web.POST("/login", handlers.LoginHandler(d))
	web.GET("/signup", handlers.SignupPageHandler(d))
	web.POST("/signup", handlers.SignupHandler(d))
	web.GET("/logout", handlers.LogoutHandler(d))
	web.POST("/logout", handlers.LogoutHandler(d))

	jobs := handlers.PublicJobs(d)
	web.GET("/jobs", jobs.Page)
	web.GET("/jobs/search", jobs.Search)
	web.POST("/jobs/search", jobs.Search)
	web.GET("/jobs/state", jobs.State)
	web.POST("/jobs/refresh", jobs.Refresh)
	web.GET("/jobs/apply/:id", handlers.ApplyPageHandler(d))
	web.POST("/jobs/apply/:id", handlers.ApplySubmitHandler(d))

	admin := web.Group("/admin-dashboard")
	{
		adminJobs := handlers.AdminJobs(d)
		admin.GET("", adminJobs.Page)
		admin.GET("/search", adminJobs.Search)
		admin.POST("/search", adminJobs.Search)
		admin.GET("/state", adminJobs.State)
		admin.POST("/refresh", adminJobs.Refresh)

		admin.GET("/jobs/new", handlers.NewJobPageHandler(d))
		admin.POST("/jobs", handlers.SaveJobHandler(d))
		admin.GET("/jobs/:id/edit", handlers.EditJobPageHandler(d))
		admin.POST("/jobs/:id", handlers.SaveJobHandler(d))
		admin.POST("/jobs/:id/delete", handlers.SelectDeleteHandler(d))
		admin.POST("/delete/confirm", handlers.ConfirmDeleteHandler(d))
		admin.POST("/delete/cancel", handlers.CancelDeleteHandler(d))

		users := handlers.AdminUsers(d)
		admin.GET("/users", users.Page)
		admin.GET("/users/search", users.Search)
		admin.POST("/users/search", users.Search)
		admin.GET("/users/state", users.State)
		admin.POST("/users/refresh", users.Refresh)
	}

	user := web.Group("/user-dashboard")
	{
		user.GET("", handlers.UserDashboardHandler(d))
		user.GET("/editProfile", handlers.EditProfilePageHandler(d))
		user.POST("/editProfile", handlers.UpdateProfileHandler(d))
		user.GET("/appliedJobs", handlers.AppliedJobsHandler(d))
	}

	return nil
}
