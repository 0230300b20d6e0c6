package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jobportal-web/internal/config"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
	"jobportal-web/pkg/models"
)

const maxErrorBody = 64 << 10

// Client calls the remote job-portal REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     logging.Logger
	metrics    *metrics.Collector
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records every call on the collector
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client from the api config section
func NewClient(cfg *config.Config, logger logging.Logger, opts ...Option) *Client {
	timeout := cfg.API.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.API.RateLimit > 0 {
		limit = rate.Limit(cfg.API.RateLimit)
	}
	burst := cfg.API.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		userAgent:  cfg.API.UserAgent,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string { return c.baseURL }

// AssetURL resolves a file path stored by the API (such as an uploaded
// resume) against the API's origin. Absolute URLs are returned as is.
func (c *Client) AssetURL(path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}

	base, err := url.Parse(c.baseURL)
	if err != nil || base.Host == "" {
		return path
	}
	return base.Scheme + "://" + base.Host + "/" + strings.TrimLeft(path, "/")
}

type request struct {
	endpoint    string // metrics/log label
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func (c *Client) jsonRequest(endpoint, method, path, token string, payload interface{}) (request, error) {
	req := request{endpoint: endpoint, method: method, path: path, token: token}
	if payload == nil {
		return req, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return req, &APIError{Kind: KindTransport, Message: "failed to encode request", Err: err}
	}
	req.body = bytes.NewReader(data)
	req.contentType = "application/json"
	return req, nil
}

// do sends the request and decodes a 2xx body into out (when out is non-nil).
// Every failure is returned as *APIError.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Kind: KindTransport, Message: "rate limit wait aborted", Err: err}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveAPICall(r.endpoint, 0, time.Since(start))
		c.logger.Warn("Portal API request failed", map[string]interface{}{
			"endpoint": r.endpoint,
			"method":   r.method,
			"error":    err.Error(),
		})
		return &APIError{Kind: KindTransport, Message: "could not reach the job portal", Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	c.metrics.ObserveAPICall(r.endpoint, resp.StatusCode, duration)
	c.logger.Debug("Portal API request completed", map[string]interface{}{
		"endpoint":    r.endpoint,
		"method":      r.method,
		"status_code": resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{
			Kind:       KindTransport,
			StatusCode: resp.StatusCode,
			Message:    "unexpected response from the job portal",
			Err:        fmt.Errorf("failed to decode %s response: %w", r.endpoint, err),
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body models.APIErrorBody
	parsed := json.Unmarshal(data, &body) == nil

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if parsed {
		apiErr.Kind = kindForStatus(resp.StatusCode, &body)
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		apiErr.Fields = body.Errors
	} else {
		apiErr.Kind = kindForStatus(resp.StatusCode, nil)
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
