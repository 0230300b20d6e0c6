package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Job is a job posting as the portal API returns it
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	SalaryRange FlexFloat `json:"salary_range"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at,omitempty"`
}

// PostedOn returns the date part of CreatedAt
func (j Job) PostedOn() string {
	if len(j.CreatedAt) >= 10 {
		return j.CreatedAt[:10]
	}
	return j.CreatedAt
}

// JobInput is the body of create and update calls
type JobInput struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	SalaryRange float64 `json:"salary_range"`
	Description string  `json:"description"`
}

// JobList is one page of /jobs/alljobs.
//
// The live API spells the count field "totolJobs"; both spellings are accepted.
type JobList struct {
	Jobs        []Job   `json:"jobs"`
	TotalJobs   int     `json:"-"`
	CurrentPage FlexInt `json:"currentPage"`
	Limit       FlexInt `json:"limit"`
}

func (l *JobList) UnmarshalJSON(data []byte) error {
	var raw struct {
		Jobs           []Job    `json:"jobs"`
		TotalJobsCount *FlexInt `json:"totalJobsCount"`
		TotolJobs      *FlexInt `json:"totolJobs"`
		CurrentPage    FlexInt  `json:"currentPage"`
		Limit          FlexInt  `json:"limit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.Jobs = raw.Jobs
	l.CurrentPage = raw.CurrentPage
	l.Limit = raw.Limit
	l.TotalJobs = 0
	switch {
	case raw.TotalJobsCount != nil:
		l.TotalJobs = int(*raw.TotalJobsCount)
	case raw.TotolJobs != nil:
		l.TotalJobs = int(*raw.TotolJobs)
	}
	return nil
}

// FlexInt decodes from a JSON number or a numeric string
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*f = FlexInt(n)
	return nil
}

// FlexFloat decodes from a JSON number or a numeric string; numeric
// database columns often come back quoted.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*f = FlexFloat(n)
	return nil
}

// String formats the value without a trailing ".0" for whole numbers
func (f FlexFloat) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}
