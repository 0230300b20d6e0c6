package portalapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"jobportal-web/pkg/models"
)

// SignUp registers a new account
func (c *Client) SignUp(ctx context.Context, in models.SignUpRequest) (*models.MessageResponse, error) {
	req, err := c.jsonRequest("auth.signup", http.MethodPost, "/auth/signup", "", in)
	if err != nil {
		return nil, err
	}

	var out models.MessageResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges credentials for a bearer token
func (c *Client) SignIn(ctx context.Context, in models.SignInRequest) (*models.AuthResult, error) {
	req, err := c.jsonRequest("auth.signin", http.MethodPost, "/auth/signin", "", in)
	if err != nil {
		return nil, err
	}

	var out models.AuthResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &APIError{Kind: KindServer, StatusCode: http.StatusOK, Message: "sign-in response carried no token"}
	}
	return &out, nil
}

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	req, _ := c.jsonRequest("auth.users", http.MethodGet, "/auth/users", token, nil)

	var out []models.User
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser loads one account
func (c *Client) GetUser(ctx context.Context, token string, id int64) (*models.User, error) {
	req, _ := c.jsonRequest("auth.user", http.MethodGet, fmt.Sprintf("/auth/user/%d", id), token, nil)

	var out models.User
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends the name and an optional resume file as multipart form data
func (c *Client) UpdateProfile(ctx context.Context, token string, id int64, in models.ProfileUpdate) (*models.MessageResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("name", in.Name); err != nil {
		return nil, &APIError{Kind: KindTransport, Message: "failed to encode profile", Err: err}
	}
	if len(in.Resume) > 0 {
		filename := in.ResumeFilename
		if filename == "" {
			filename = "resume.pdf"
		}
		part, err := mw.CreateFormFile("resume", filename)
		if err != nil {
			return nil, &APIError{Kind: KindTransport, Message: "failed to encode resume", Err: err}
		}
		if _, err := part.Write(in.Resume); err != nil {
			return nil, &APIError{Kind: KindTransport, Message: "failed to encode resume", Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &APIError{Kind: KindTransport, Message: "failed to encode profile", Err: err}
	}

	req := request{
		endpoint:    "auth.updateprofile",
		method:      http.MethodPut,
		path:        fmt.Sprintf("/auth/updateprofile/%d", id),
		token:       token,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}

	var out models.MessageResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
