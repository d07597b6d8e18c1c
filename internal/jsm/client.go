// Package jsm is the HTTP transport for the incident-management API:
// authenticated JSON requests plus envelope extraction for the alert
// list and detail endpoints.
package jsm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsdeck/opsdeck/internal/alerts"
	"github.com/opsdeck/opsdeck/internal/logger"
)

const requestTimeout = 20 * time.Second

// ErrInvalidResponseShape is returned when a detail response envelope
// is unrecognizable. The detail fetch cannot silently degrade; the user
// explicitly asked to view one alert.
var ErrInvalidResponseShape = errors.New("invalid alert response format")

// APIError is a transport-level failure: connectivity, HTTP status, or
// payload decoding.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s failed with %d: %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Options configures the API client.
type Options struct {
	// BaseURL is the API root, e.g.
	// https://api.atlassian.com/jsm/ops/api/<cloud-id>.
	BaseURL string

	// Email and APIToken enable basic auth. Ignored when BearerToken
	// is set.
	Email    string
	APIToken string

	// BearerToken enables bearer auth and takes precedence.
	BearerToken string

	// PageSize is the list fetch size.
	PageSize int

	// LogHTTPBody enables logging of error response bodies. Off by
	// default since bodies may echo alert content.
	LogHTTPBody bool
}

// Client performs authenticated calls against the alert API.
type Client struct {
	http        *http.Client
	baseURL     string
	email       string
	apiToken    string
	bearerToken string
	pageSize    int
	logHTTPBody bool
}

// NewClient creates an API client from the given options.
func NewClient(opts Options) *Client {
	authMode := "basic"
	if opts.BearerToken != "" {
		authMode = "bearer"
	}
	logger.Info("initialized API client",
		"base_url", opts.BaseURL,
		"auth_mode", authMode,
		"page_size", opts.PageSize)

	return &Client{
		http:        &http.Client{Timeout: requestTimeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		email:       opts.Email,
		apiToken:    opts.APIToken,
		bearerToken: opts.BearerToken,
		pageSize:    opts.PageSize,
		logHTTPBody: opts.LogHTTPBody,
	}
}

// ListOpenAlerts fetches one page of alerts, normalizes each candidate,
// and returns the open ones sorted newest first. Entries without an id
// and entries that are closed or resolved are dropped.
func (c *Client) ListOpenAlerts(ctx context.Context) ([]alerts.Alert, error) {
	query := url.Values{"size": {strconv.Itoa(c.pageSize)}}
	envelope, err := c.requestJSON(ctx, http.MethodGet, "/v1/alerts", query, nil)
	if err != nil {
		return nil, err
	}

	candidates := ExtractList(envelope)
	open := make([]alerts.Alert, 0, len(candidates))
	for _, raw := range candidates {
		alert := alerts.Normalize(raw)
		logger.Debug("normalized alert",
			"id", alert.ID,
			"priority", alert.Priority,
			"status", alert.Status,
			"acked_by", alert.AckedBy,
			"tags", alert.TagsDisplay(),
			"message", truncate(alert.Message, 250))
		if alert.ID != "" && alert.IsOpen() {
			open = append(open, alert)
		}
	}

	alerts.SortForDisplay(open)
	return open, nil
}

// GetAlert fetches the full detail record for one alert.
func (c *Client) GetAlert(ctx context.Context, id string) (alerts.Alert, error) {
	envelope, err := c.requestJSON(ctx, http.MethodGet, "/v1/alerts/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return alerts.Alert{}, err
	}

	raw := ExtractSingle(envelope)
	if raw == nil {
		logger.Error("invalid alert detail response", "alert_id", id)
		return alerts.Alert{}, ErrInvalidResponseShape
	}
	return alerts.Normalize(raw), nil
}

// AcknowledgeAlert acknowledges the alert on the remote side.
func (c *Client) AcknowledgeAlert(ctx context.Context, id string) error {
	path := "/v1/alerts/" + url.PathEscape(id) + "/acknowledge"
	_, err := c.requestJSON(ctx, http.MethodPost, path, nil, map[string]any{})
	return err
}

// CloseAlert closes the alert on the remote side.
func (c *Client) CloseAlert(ctx context.Context, id string) error {
	path := "/v1/alerts/" + url.PathEscape(id) + "/close"
	_, err := c.requestJSON(ctx, http.MethodPost, path, nil, map[string]any{})
	return err
}

// requestJSON performs one authenticated request and decodes the JSON
// object response. Every failure mode maps to *APIError.
func (c *Client) requestJSON(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	requestID := uuid.NewString()
	start := time.Now()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Method: method, Path: path, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	} else {
		req.SetBasicAuth(c.email, c.apiToken)
	}

	logger.Debug("API request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"params", redactParams(query))

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("API transport error",
			"request_id", requestID,
			"method", method,
			"path", path,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, &APIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}

	durationMS := time.Since(start).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody := "<hidden>"
		if c.logHTTPBody {
			errorBody = truncate(strings.TrimSpace(string(raw)), 500)
		}
		logger.Error("API HTTP error",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", durationMS,
			"body", errorBody)
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: errorBody}
	}

	logger.Info("API response",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", durationMS)

	// Action endpoints may return an empty body on success.
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.Error("API non-object response",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", resp.StatusCode)
		return nil, &APIError{
			Method: method,
			Path:   path,
			Err:    fmt.Errorf("decoding response: %w", err),
		}
	}
	return data, nil
}

// redactParams hides token- and password-bearing query values from the
// request log.
func redactParams(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	redacted := url.Values{}
	for key, values := range query {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "token") || strings.Contains(lower, "password") {
			redacted.Set(key, "<redacted>")
			continue
		}
		redacted[key] = values
	}
	return redacted.Encode()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...<truncated>"
}
