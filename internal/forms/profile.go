package forms

import (
	"strings"

	"jobportal-web/pkg/models"
)

var applyMessages = messages{
	"resume_url":   {"required": "Resume is required"},
	"cover_letter": {"required": "Cover letter is required"},
}

var profileMessages = messages{
	"name": {"required": "Name is required"},
}

// ApplyInput is the job application form
type ApplyInput struct {
	JobID       int64  `form:"-"`
	ResumeURL   string `form:"resume_url" validate:"required"`
	CoverLetter string `form:"cover_letter" validate:"required"`
}

// Validate checks the form and returns the request body
func (in ApplyInput) Validate() (models.ApplicationRequest, *Errors) {
	in.ResumeURL = strings.TrimSpace(in.ResumeURL)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	if errs := check(in, applyMessages, ""); errs != nil {
		return models.ApplicationRequest{}, errs
	}
	return models.ApplicationRequest{
		JobID:       in.JobID,
		ResumeURL:   in.ResumeURL,
		CoverLetter: in.CoverLetter,
	}, nil
}

// ApplyError maps a failed application onto the form
func ApplyError(err error) *Errors {
	return fromAPI(err, []string{"resume_url", "cover_letter"}, "Failed to submit application")
}

// ProfileInput is the edit-profile form. The resume file is optional.
type ProfileInput struct {
	Name           string `form:"name" validate:"required"`
	ResumeFilename string `form:"-"`
	Resume         []byte `form:"-"`
}

// Validate checks the form and returns the multipart payload
func (in ProfileInput) Validate() (models.ProfileUpdate, *Errors) {
	in.Name = strings.TrimSpace(in.Name)
	if errs := check(in, profileMessages, ""); errs != nil {
		return models.ProfileUpdate{}, errs
	}
	return models.ProfileUpdate{
		Name:           in.Name,
		ResumeFilename: in.ResumeFilename,
		Resume:         in.Resume,
	}, nil
}

// ProfileError maps a failed profile update onto the form
func ProfileError(err error) *Errors {
	return fromAPI(err, []string{"name", "resume"}, "Update failed.")
}
