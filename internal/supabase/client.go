// Package supabase is a minimal PostgREST client for Supabase tables.
//
// A Client is built once from the project URL and API key and shared by
// every Table. It holds no mutable state after construction, so it is safe
// for concurrent use.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/employees/internal/apperr"
)

// DefaultTimeout bounds a single PostgREST request when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// restPath is where Supabase exposes PostgREST.
const restPath = "/rest/v1/"

// codeNotSingle is the PostgREST error code for a single-object request
// that matched zero or several rows.
const codeNotSingle = "PGRST116"

// Client talks to the PostgREST endpoint of a Supabase project.
type Client struct {
	baseURL    *url.URL
	key        string
	schema     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithSchema selects a non-default Postgres schema via the profile headers.
func WithSchema(schema string) Option {
	return func(c *Client) { c.schema = strings.TrimSpace(schema) }
}

// NewClient validates the project URL and key and returns a Client.
// A missing URL or key is reported here, at construction.
func NewClient(projectURL, key string, opts ...Option) (*Client, error) {
	projectURL = strings.TrimSpace(projectURL)
	if projectURL == "" {
		return nil, errors.New("supabase: project URL is empty")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("supabase: API key is empty")
	}

	u, err := url.Parse(projectURL)
	if err != nil {
		return nil, fmt.Errorf("supabase: invalid project URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("supabase: project URL must be http(s), got %q", projectURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + restPath

	c := &Client{
		baseURL:    u,
		key:        key,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is the error body PostgREST returns on non-2xx responses.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("supabase: request failed with status %d", e.Status)
}

// request describes one PostgREST call.
type request struct {
	method string
	table  string
	query  url.Values
	body   any
	prefer string
	accept string
}

// do executes req and decodes the response body into out (if non-nil).
// Every failure is returned as an *apperr.Error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	endpoint := *c.baseURL
	endpoint.Path += url.PathEscape(req.table)
	endpoint.RawQuery = req.query.Encode()

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return apperr.Wrap(apperr.Unknown, fmt.Errorf("encode request body: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return apperr.Wrap(apperr.Unknown, err)
	}

	httpReq.Header.Set("apikey", c.key)
	httpReq.Header.Set("Authorization", "Bearer "+c.key)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.accept != "" {
		httpReq.Header.Set("Accept", req.accept)
	} else {
		httpReq.Header.Set("Accept", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}
	if c.schema != "" {
		if req.method == http.MethodGet || req.method == http.MethodHead {
			httpReq.Header.Set("Accept-Profile", c.schema)
		} else {
			httpReq.Header.Set("Content-Profile", c.schema)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperr.Wrap(apperr.Transport, err)
	}
	defer resp.Body.Close()

	slog.Debug("postgrest request",
		"method", req.method,
		"table", req.table,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.Transport, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Wrap(apperr.Transport, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// decodeAPIError turns a non-2xx PostgREST response into a classified error.
func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("supabase: request failed with status %d", status)
		}
	}

	kind := apperr.Transport
	if apiErr.Code == codeNotSingle {
		kind = apperr.NotFound
	}
	return &apperr.Error{Kind: kind, Message: apiErr.Message, Err: apiErr}
}
