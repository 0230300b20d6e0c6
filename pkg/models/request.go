package models

// SignUpRequest is the body of /auth/signup
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the body of /auth/signin
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ApplicationRequest is the body of /job/application
type ApplicationRequest struct {
	JobID       int64  `json:"job_id"`
	ResumeURL   string `json:"resume_url"`
	CoverLetter string `json:"cover_letter"`
}

// ProfileUpdate is sent as multipart form data to /auth/updateprofile/:id
type ProfileUpdate struct {
	Name           string
	ResumeFilename string
	Resume         []byte
}
