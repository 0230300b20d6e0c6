package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/api/middleware"
	"jobportal-web/internal/forms"
	"jobportal-web/pkg/models"
)

const userHome = "/user-dashboard"

// UserDashboardHandler renders the signed-in user's landing page
func UserDashboardHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "user_dashboard", newPage(c, "Dashboard", nil))
	}
}

// AppliedJobsData is the template data of the applications page
type AppliedJobsData struct {
	Applications []models.Application
	Notice       string
}

// AppliedJobsHandler lists the user's applications
func AppliedJobsHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, token := sessionOf(c)

		var data AppliedJobsData
		apps, err := d.API.MyApplications(c.Request().Context(), token)
		if err != nil {
			if redirect := authRedirect(c, d, err); redirect != nil {
				return redirect
			}
			data.Notice = "Failed to fetch applications"
		} else {
			data.Applications = apps
		}

		return c.Render(http.StatusOK, "applied_jobs", newPage(c, "Applied Jobs", data))
	}
}

// ProfileData is the template data of the edit-profile page
type ProfileData struct {
	User      *models.User
	Input     forms.ProfileInput
	ResumeURL string
	Errors    *forms.Errors
}

// EditProfilePageHandler shows the profile form for the current user
func EditProfilePageHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := middleware.CurrentSession(c)
		identity := s.CurrentUser()
		if identity == nil {
			return redirectError(c, "/login", "Please log in again.")
		}

		user, err := d.API.GetUser(c.Request().Context(), s.Token(), identity.ID)
		if err != nil {
			return handleAPIError(c, d, err, userHome, "Failed to load profile")
		}

		return c.Render(http.StatusOK, "edit_profile", newPage(c, "Edit Profile", profileData(d, user, forms.ProfileInput{Name: user.Name}, nil)))
	}
}

// UpdateProfileHandler saves the name and an optional resume upload
func UpdateProfileHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := middleware.CurrentSession(c)
		identity := s.CurrentUser()
		if identity == nil {
			return redirectError(c, "/login", "Please log in again.")
		}

		input := forms.ProfileInput{Name: c.FormValue("name")}
		if fh, err := c.FormFile("resume"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return redirectError(c, userHome+"/editProfile", "Could not read the uploaded file")
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return redirectError(c, userHome+"/editProfile", "Could not read the uploaded file")
			}
			input.ResumeFilename = fh.Filename
			input.Resume = data
		} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			return redirectError(c, userHome+"/editProfile", "Could not read the uploaded file")
		}

		update, errs := input.Validate()
		if errs == nil {
			if _, err := d.API.UpdateProfile(c.Request().Context(), s.Token(), identity.ID, update); err != nil {
				if redirect := authRedirect(c, d, err); redirect != nil {
					return redirect
				}
				errs = forms.ProfileError(err)
			}
		}

		if errs != nil {
			input.Resume = nil
			return c.Render(http.StatusUnprocessableEntity, "edit_profile", newPage(c, "Edit Profile", profileData(d, nil, input, errs)))
		}

		requestLogger(c, d).Info("Profile updated", map[string]interface{}{"user_id": identity.ID})
		return redirectNotice(c, userHome+"/editProfile", "Profile updated successfully!")
	}
}

func profileData(d *Deps, user *models.User, input forms.ProfileInput, errs *forms.Errors) ProfileData {
	data := ProfileData{User: user, Input: input, Errors: errs}
	if user != nil && user.Resume != "" {
		data.ResumeURL = d.API.AssetURL(user.Resume)
	}
	return data
}
