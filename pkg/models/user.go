package models

import "time"

// User is a portal account
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Resume    string     `json:"resume,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// AuthResult is returned by /auth/signin
type AuthResult struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

// Application is an entry of the applicant's applied-jobs list
type Application struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Status   string `json:"status,omitempty"`
}

// DisplayStatus falls back to "Applied" when the API leaves status empty
func (a Application) DisplayStatus() string {
	if a.Status == "" {
		return "Applied"
	}
	return a.Status
}
