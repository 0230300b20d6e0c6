package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/deleteflow"
	"jobportal-web/internal/forms"
	"jobportal-web/internal/listing"
	"jobportal-web/pkg/models"
	"jobportal-web/pkg/utils"
)

const adminHome = "/admin-dashboard"

// DeleteState is the confirmation modal of the admin job table
type DeleteState struct {
	Target   *models.Job
	ID       int64
	Deleting bool
}

// Open reports whether the modal is shown
func (s DeleteState) Open() bool { return s.ID > 0 }

// AdminJobsData is the template data of the admin dashboard
type AdminJobsData struct {
	List   ListPage[models.Job]
	Delete DeleteState
}

// AdminJobs serves the admin job table
func AdminJobs(d *Deps) *ListHandlers[models.Job] {
	return &ListHandlers[models.Job]{
		d: d,
		view: func(c echo.Context) *listing.View[models.Job] {
			sid, token := sessionOf(c)
			return d.Portal.AdminJobs(sid, token)
		},
		basePath: adminHome,
		title:    "Admin Dashboard",
		template: "admin_jobs",
		fallback: "Failed to fetch jobs",
		data: func(c echo.Context, lp ListPage[models.Job]) interface{} {
			sid, _ := sessionOf(c)
			flow := d.Portal.AdminDelete(sid)

			data := AdminJobsData{List: lp}
			if id, ok := flow.Target(); ok {
				data.Delete.ID = id
				data.Delete.Deleting = flow.State() == deleteflow.Deleting
				for i := range lp.Snapshot.Items {
					if lp.Snapshot.Items[i].ID == id {
						data.Delete.Target = &lp.Snapshot.Items[i]
						break
					}
				}
			}
			return data
		},
	}
}

// JobFormData is the template data of the create/edit job page
type JobFormData struct {
	Input  forms.JobInput
	Errors *forms.Errors
}

// Action is where the form posts
func (d JobFormData) Action() string {
	if d.Input.Editing() {
		return adminHome + "/jobs/" + formatID(d.Input.ID)
	}
	return adminHome + "/jobs"
}

func jobFormTitle(in forms.JobInput) string {
	if in.Editing() {
		return "Edit Job"
	}
	return "Create Job"
}

// NewJobPageHandler shows an empty job form
func NewJobPageHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "admin_job_form", newPage(c, "Create Job", JobFormData{}))
	}
}

// EditJobPageHandler shows the job form prefilled from the admin table
func EditJobPageHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := idParam(c)
		if !ok {
			return redirectError(c, adminHome, "Job not found")
		}

		sid, token := sessionOf(c)
		v := d.Portal.AdminJobs(sid, token)
		settle(c, d, v)

		job, found := jobFromView(v, id)
		if !found {
			return redirectError(c, adminHome, "Job not found")
		}

		input := forms.JobInputFrom(job)
		return c.Render(http.StatusOK, "admin_job_form", newPage(c, "Edit Job", JobFormData{Input: input}))
	}
}

// SaveJobHandler creates a job, or updates one when the route carries :id
func SaveJobHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var input forms.JobInput
		if err := c.Bind(&input); err != nil {
			return utils.NewBadRequestError("Invalid form submission")
		}
		input.ID = 0
		if c.Param("id") != "" {
			id, ok := idParam(c)
			if !ok {
				return redirectError(c, adminHome, "Job not found")
			}
			input.ID = id
		}

		sid, token := sessionOf(c)
		form := forms.NewJobForm(d.API, func() {
			d.Portal.RefreshAdminJobs(sid)
		}, requestLogger(c, d))

		if err := form.Submit(c.Request().Context(), token, input); err != nil {
			if redirect := authRedirect(c, d, err); redirect != nil {
				return redirect
			}
			return c.Render(http.StatusUnprocessableEntity, "admin_job_form", newPage(c, jobFormTitle(input), JobFormData{
				Input:  input,
				Errors: formErrors(err),
			}))
		}

		if input.Editing() {
			return redirectNotice(c, adminHome, "Job updated successfully!")
		}
		return redirectNotice(c, adminHome, "Job created successfully!")
	}
}

// SelectDeleteHandler picks the job the confirmation modal asks about
func SelectDeleteHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := idParam(c)
		if !ok {
			return redirectError(c, adminHome, "Job not found")
		}

		sid, _ := sessionOf(c)
		if err := d.Portal.AdminDelete(sid).Select(id); err != nil {
			return redirectError(c, adminHome, "A delete is already in progress")
		}
		return c.Redirect(http.StatusFound, adminHome)
	}
}

// ConfirmDeleteHandler deletes the selected job
func ConfirmDeleteHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		sid, token := sessionOf(c)
		err := d.Portal.AdminDelete(sid).Confirm(c.Request().Context(), token)
		switch {
		case err == nil:
			return redirectNotice(c, adminHome, "Job deleted successfully")
		case errors.Is(err, deleteflow.ErrNoTarget):
			return c.Redirect(http.StatusFound, adminHome)
		case errors.Is(err, deleteflow.ErrBusy):
			return redirectError(c, adminHome, "A delete is already in progress")
		}

		if redirect := authRedirect(c, d, err); redirect != nil {
			return redirect
		}
		requestLogger(c, d).Warn("Job delete failed", map[string]interface{}{"error": err.Error()})
		return redirectError(c, adminHome, "Failed to delete job")
	}
}

// CancelDeleteHandler closes the confirmation modal
func CancelDeleteHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		sid, _ := sessionOf(c)
		if err := d.Portal.AdminDelete(sid).Cancel(); err != nil {
			return redirectError(c, adminHome, "A delete is already in progress")
		}
		return c.Redirect(http.StatusFound, adminHome)
	}
}
