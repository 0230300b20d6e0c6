package portalapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"jobportal-web/pkg/models"
)

// JobQuery selects one page of the job list
type JobQuery struct {
	Search string
	Page   int
	Limit  int
}

// ListJobs fetches one page of job postings. The token may be empty for the public board.
func (c *Client) ListJobs(ctx context.Context, token string, q JobQuery) (*models.JobList, error) {
	req, _ := c.jsonRequest("jobs.list", http.MethodGet, "/jobs/alljobs", token, nil)
	req.query = url.Values{
		"search": {q.Search},
		"page":   {strconv.Itoa(q.Page)},
		"limit":  {strconv.Itoa(q.Limit)},
	}

	var out models.JobList
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateJob posts a new job (admin only)
func (c *Client) CreateJob(ctx context.Context, token string, in models.JobInput) error {
	req, err := c.jsonRequest("jobs.create", http.MethodPost, "/jobs/createjob", token, in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// UpdateJob replaces the fields of an existing job (admin only)
func (c *Client) UpdateJob(ctx context.Context, token string, id int64, in models.JobInput) error {
	req, err := c.jsonRequest("jobs.update", http.MethodPut, fmt.Sprintf("/jobs/updatejob/%d", id), token, in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// DeleteJob removes a job (admin only)
func (c *Client) DeleteJob(ctx context.Context, token string, id int64) error {
	req, _ := c.jsonRequest("jobs.delete", http.MethodDelete, fmt.Sprintf("/jobs/job/%d", id), token, nil)
	return c.do(ctx, req, nil)
}

// Apply submits an application for the signed-in user
func (c *Client) Apply(ctx context.Context, token string, in models.ApplicationRequest) error {
	req, err := c.jsonRequest("job.apply", http.MethodPost, "/job/application", token, in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// MyApplications lists the jobs the signed-in user applied to
func (c *Client) MyApplications(ctx context.Context, token string) ([]models.Application, error) {
	req, _ := c.jsonRequest("job.me", http.MethodGet, "/job/me", token, nil)

	var out []models.Application
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
