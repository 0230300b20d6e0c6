package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/forms"
	"jobportal-web/internal/listing"
	"jobportal-web/pkg/models"
	"jobportal-web/pkg/utils"
)

// PublicJobs serves the public job board
func PublicJobs(d *Deps) *ListHandlers[models.Job] {
	return &ListHandlers[models.Job]{
		d: d,
		view: func(c echo.Context) *listing.View[models.Job] {
			sid, token := sessionOf(c)
			return d.Portal.Jobs(sid, token)
		},
		basePath: "/jobs",
		title:    "Career Opportunities",
		template: "jobs",
		fallback: "Failed to fetch jobs",
	}
}

// ApplyPageData is the template data of the application form
type ApplyPageData struct {
	JobID  int64
	Input  forms.ApplyInput
	Errors *forms.Errors
}

// ApplyPageHandler shows the application form; visitors must be signed in
func ApplyPageHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := idParam(c)
		if !ok {
			return utils.NewNotFoundError("job")
		}
		if _, token := sessionOf(c); token == "" {
			return redirectError(c, "/login", "Please login to apply for jobs")
		}
		return c.Render(http.StatusOK, "apply", newPage(c, "Apply for Job", ApplyPageData{JobID: id}))
	}
}

// ApplySubmitHandler submits an application and lands on the applied-jobs list
func ApplySubmitHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := idParam(c)
		if !ok {
			return utils.NewNotFoundError("job")
		}

		_, token := sessionOf(c)
		if token == "" {
			return redirectError(c, "/login", "Please login to apply for jobs")
		}

		input := forms.ApplyInput{
			JobID:       id,
			ResumeURL:   c.FormValue("resume_url"),
			CoverLetter: c.FormValue("cover_letter"),
		}

		req, errs := input.Validate()
		if errs == nil {
			if err := d.API.Apply(c.Request().Context(), token, req); err != nil {
				if redirect := authRedirect(c, d, err); redirect != nil {
					return redirect
				}
				errs = forms.ApplyError(err)
			}
		}

		if errs != nil {
			return c.Render(http.StatusUnprocessableEntity, "apply", newPage(c, "Apply for Job", ApplyPageData{
				JobID:  id,
				Input:  input,
				Errors: errs,
			}))
		}

		requestLogger(c, d).Info("Application submitted", map[string]interface{}{"job_id": id})
		return redirectNotice(c, "/user-dashboard/appliedJobs", "Application submitted successfully!")
	}
}

// jobFromView finds a job in the session's admin table
func jobFromView(v *listing.View[models.Job], id int64) (models.Job, bool) {
	for _, job := range v.Snapshot().Items {
		if job.ID == id {
			return job, true
		}
	}
	return models.Job{}, false
}
