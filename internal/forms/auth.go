package forms

import (
	"strings"

	"jobportal-web/pkg/models"
)

var loginMessages = messages{
	"email": {
		"required": "Email is required",
		"email":    "Invalid email address",
	},
	"password": {
		"min": "Password must be at least 6 characters",
		"max": "Password must be less than 32 characters",
	},
}

var signupMessages = messages{
	"name": {
		"min": "Name must be at least 2 characters",
		"max": "Name must be less than 50 characters",
	},
	"email": loginMessages["email"],
	"password": {
		"min":         "Password must be at least 6 characters",
		"max":         "Password must be less than 32 characters",
		"has_upper":   "Password must contain at least one uppercase letter",
		"has_digit":   "Password must contain at least one number",
		"has_special": "Password must contain at least one special character",
	},
}

// LoginInput is the sign-in form
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6,max=32"`
}

// Validate checks the form and returns the request body
func (in LoginInput) Validate() (models.SignInRequest, *Errors) {
	in.Email = strings.TrimSpace(in.Email)
	if errs := check(in, loginMessages, ""); errs != nil {
		return models.SignInRequest{}, errs
	}
	return models.SignInRequest{Email: in.Email, Password: in.Password}, nil
}

// LoginError maps a failed sign-in onto the form
func LoginError(err error) *Errors {
	return fromAPI(err, []string{"email", "password"}, "Invalid credentials")
}

// SignupInput is the registration form
type SignupInput struct {
	Name     string `form:"name" validate:"min=2,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6,max=32,has_upper,has_digit,has_special"`
}

// Validate checks the form and returns the request body
func (in SignupInput) Validate() (models.SignUpRequest, *Errors) {
	in.Email = strings.TrimSpace(in.Email)
	if errs := check(in, signupMessages, ""); errs != nil {
		return models.SignUpRequest{}, errs
	}
	return models.SignUpRequest{Name: in.Name, Email: in.Email, Password: in.Password}, nil
}

// SignupError maps a failed registration onto the form
func SignupError(err error) *Errors {
	return fromAPI(err, []string{"name", "email", "password"}, "Signup failed")
}
