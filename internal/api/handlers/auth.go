package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/api/middleware"
	"jobportal-web/internal/forms"
	"jobportal-web/internal/session"
	"jobportal-web/pkg/utils"
)

// AuthFormData is the template data of the login and signup pages
type AuthFormData struct {
	Name   string
	Email  string
	Errors *forms.Errors
}

// LoginPageHandler shows the sign-in form; signed-in visitors go home
func LoginPageHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user := middleware.CurrentSession(c).CurrentUser(); user != nil {
			return c.Redirect(http.StatusFound, homeFor(user))
		}
		return c.Render(http.StatusOK, "login", newPage(c, "Login", AuthFormData{}))
	}
}

// LoginHandler signs the visitor in and sends them to their dashboard
func LoginHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		input := forms.LoginInput{
			Email:    c.FormValue("email"),
			Password: c.FormValue("password"),
		}
		data := AuthFormData{Email: input.Email}

		req, errs := input.Validate()
		if errs != nil {
			data.Errors = errs
			return c.Render(http.StatusUnprocessableEntity, "login", newPage(c, "Login", data))
		}

		ctx := c.Request().Context()
		result, err := d.API.SignIn(ctx, req)
		if err != nil {
			requestLogger(c, d).Warn("Sign in rejected", map[string]interface{}{"error": err.Error()})
			data.Errors = forms.LoginError(err)
			return c.Render(http.StatusUnprocessableEntity, "login", newPage(c, "Login", data))
		}

		s := middleware.CurrentSession(c)
		identity, err := s.Login(ctx, result.Token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidToken) {
				requestLogger(c, d).Error("Sign in returned an unreadable token")
				data.Errors = &forms.Errors{General: "Login failed. Please try again.", Cause: err}
				return c.Render(http.StatusBadGateway, "login", newPage(c, "Login", data))
			}
			requestLogger(c, d).Error("Failed to start session", map[string]interface{}{"error": err.Error()})
			return utils.NewInternalServerError("Failed to start session")
		}

		var ttl time.Duration
		if claims, ok := session.Decode(result.Token); ok {
			ttl = claims.ExpiresIn(time.Now())
		}
		middleware.SetTokenCookie(c, d.Config, result.Token, ttl)

		// views created while signed out captured the old token
		d.Portal.DropSession(s.ID())

		return c.Redirect(http.StatusFound, homeFor(identity))
	}
}

// SignupPageHandler shows the registration form
func SignupPageHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "signup", newPage(c, "Sign Up", AuthFormData{}))
	}
}

// SignupHandler registers an account and sends the visitor to log in
func SignupHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		input := forms.SignupInput{
			Name:     c.FormValue("name"),
			Email:    c.FormValue("email"),
			Password: c.FormValue("password"),
		}
		data := AuthFormData{Name: input.Name, Email: input.Email}

		req, errs := input.Validate()
		if errs == nil {
			if _, err := d.API.SignUp(c.Request().Context(), req); err != nil {
				requestLogger(c, d).Warn("Sign up rejected", map[string]interface{}{"error": err.Error()})
				errs = forms.SignupError(err)
			}
		}
		if errs != nil {
			data.Errors = errs
			return c.Render(http.StatusUnprocessableEntity, "signup", newPage(c, "Sign Up", data))
		}

		return redirectNotice(c, "/login", "Signup successful! You can now log in.")
	}
}

// LogoutHandler ends the session and returns to the home page
func LogoutHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		endSession(c, d)
		return c.Redirect(http.StatusFound, "/")
	}
}
