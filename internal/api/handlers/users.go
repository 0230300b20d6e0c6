package handlers

import (
	"github.com/labstack/echo/v4"

	"jobportal-web/internal/listing"
	"jobportal-web/pkg/models"
)

// AdminUsers serves the admin user table, filtered locally
func AdminUsers(d *Deps) *ListHandlers[models.User] {
	return &ListHandlers[models.User]{
		d: d,
		view: func(c echo.Context) *listing.View[models.User] {
			sid, token := sessionOf(c)
			return d.Portal.AdminUsers(sid, token)
		},
		basePath: adminHome + "/users",
		title:    "Users",
		template: "admin_users",
		fallback: "Failed to fetch users",
	}
}
