package forms

import (
	"context"
	"strconv"
	"strings"

	"jobportal-web/internal/logging"
	"jobportal-web/pkg/models"
)

const (
	jobFailedMessage = "Failed to process job"
	fixErrorsMessage = "Please fix the form errors"
)

var jobFields = []string{"title", "description", "company", "location", "salary_range"}

var jobMessages = messages{
	"title":        {"min": "Title must be at least 3 characters"},
	"description":  {"min": "Description must be at least 5 characters"},
	"company":      {"min": "Company name must be at least 2 characters"},
	"location":     {"min": "Location must be at least 2 characters"},
	"salary_range": {"required": "Salary is required", "salary": "Salary must be a number"},
}

// JobInput is the raw job form as posted by the browser
type JobInput struct {
	ID          int64  `form:"id"`
	Title       string `form:"title" validate:"min=3"`
	Description string `form:"description" validate:"min=5"`
	Company     string `form:"company" validate:"min=2"`
	Location    string `form:"location" validate:"min=2"`
	SalaryRange string `form:"salary_range" validate:"required,salary"`
}

// JobInputFrom prefills the form for editing an existing job
func JobInputFrom(job models.Job) JobInput {
	return JobInput{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Company:     job.Company,
		Location:    job.Location,
		SalaryRange: job.SalaryRange.String(),
	}
}

// Editing reports whether the form targets an existing job
func (in JobInput) Editing() bool { return in.ID > 0 }

// ValidateJob runs the local checks and returns the payload to send
func ValidateJob(in JobInput) (models.JobInput, *Errors) {
	in.SalaryRange = strings.TrimSpace(in.SalaryRange)
	if errs := check(in, jobMessages, fixErrorsMessage); errs != nil {
		return models.JobInput{}, errs
	}

	salary, _ := strconv.ParseFloat(in.SalaryRange, 64)
	return models.JobInput{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		SalaryRange: salary,
		Description: in.Description,
	}, nil
}

// JobAPI is the part of the portal client the job form needs
type JobAPI interface {
	CreateJob(ctx context.Context, token string, in models.JobInput) error
	UpdateJob(ctx context.Context, token string, id int64, in models.JobInput) error
}

// JobForm submits the create/edit job form
type JobForm struct {
	api       JobAPI
	onSuccess func()
	logger    logging.Logger
}

// NewJobForm creates a form; onSuccess (may be nil) runs after every successful save
func NewJobForm(api JobAPI, onSuccess func(), logger logging.Logger) *JobForm {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobForm{api: api, onSuccess: onSuccess, logger: logger}
}

// Submit validates in and creates or updates the job. Invalid input never
// reaches the network. The returned error is always *Errors.
func (f *JobForm) Submit(ctx context.Context, token string, in JobInput) error {
	payload, errs := ValidateJob(in)
	if errs != nil {
		return errs
	}

	if token == "" {
		return &Errors{General: "Authentication required"}
	}

	var err error
	if in.Editing() {
		err = f.api.UpdateJob(ctx, token, in.ID, payload)
	} else {
		err = f.api.CreateJob(ctx, token, payload)
	}
	if err != nil {
		f.logger.Warn("Job save failed", map[string]interface{}{
			"job_id": in.ID,
			"error":  err.Error(),
		})
		return fromAPI(err, jobFields, jobFailedMessage)
	}

	f.logger.Info("Job saved", map[string]interface{}{
		"job_id":  in.ID,
		"updated": in.Editing(),
	})

	if f.onSuccess != nil {
		f.onSuccess()
	}
	return nil
}
