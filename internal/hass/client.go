package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pr8x/hadeck/internal/climate"
	"github.com/pr8x/hadeck/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed
	// read requests. Service calls are never retried: re-sending a command
	// the server may already have applied is worse than reporting failure.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second
)

// Client is an HTTP client for the Home Assistant REST API.
//
// It doubles as the command service for the climate control core: the
// SetTemperature and SetHVACMode methods satisfy climate.Commander.
type Client struct {
	// BaseURL is the server base URL (e.g. "http://homeassistant.local:8123")
	BaseURL string

	// Token is a long-lived access token sent as a bearer credential
	Token string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for read requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration
}

var _ climate.Commander = (*Client)(nil)

// NewClient creates a new Home Assistant API client.
// baseURL: server base URL (e.g. "http://192.168.1.10:8123")
// token: long-lived access token
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Token:         token,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior for read requests
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping performs a simple health check against the API root.
// Returns nil if the server is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	var result struct {
		Message string `json:"message"`
	}
	return c.getJSON(ctx, "/api/", &result)
}

// States retrieves the current state of every entity on the server.
func (c *Client) States(ctx context.Context) ([]Entity, error) {
	var entities []Entity
	if err := c.getJSONWithRetry(ctx, "/api/states", &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// ClimateStates retrieves the current state of every climate entity.
func (c *Client) ClimateStates(ctx context.Context) ([]Entity, error) {
	all, err := c.States(ctx)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(all))
	for _, e := range all {
		if e.IsClimate() {
			entities = append(entities, e)
		}
	}
	return entities, nil
}

// State retrieves the current state of a single entity.
func (c *Client) State(ctx context.Context, entityID string) (*Entity, error) {
	var entity Entity
	if err := c.getJSONWithRetry(ctx, "/api/states/"+entityID, &entity); err != nil {
		if IsNotFound(err) {
			return nil, NewNotFoundError(entityID)
		}
		return nil, err
	}
	return &entity, nil
}

// CallService invokes a Home Assistant service with the given payload.
// Service calls are performed exactly once; failures are returned, not
// retried.
func (c *Client) CallService(ctx context.Context, domain, service string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return NewParseError("failed to encode service payload", err)
	}

	path := fmt.Sprintf("/api/services/%s/%s", domain, service)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return NewNetworkError("failed to create service request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return nil
}

// SetTemperature sends a climate.set_temperature service call for the entity.
func (c *Client) SetTemperature(ctx context.Context, entityID string, temperature float64) error {
	logging.LogServiceCall("climate", "set_temperature", entityID)
	return c.CallService(ctx, "climate", "set_temperature", map[string]any{
		"entity_id":   entityID,
		"temperature": temperature,
	})
}

// SetHVACMode sends a climate.set_hvac_mode service call for the entity.
func (c *Client) SetHVACMode(ctx context.Context, entityID string, mode string) error {
	logging.LogServiceCall("climate", "set_hvac_mode", entityID)
	return c.CallService(ctx, "climate", "set_hvac_mode", map[string]any{
		"entity_id": entityID,
		"hvac_mode": mode,
	})
}

// getJSONWithRetry performs a GET with retries and exponential backoff for
// retryable failures.
func (c *Client) getJSONWithRetry(ctx context.Context, path string, out any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(currentDelay):
			case <-ctx.Done():
				return NewNetworkError("request cancelled", ctx.Err())
			}

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.getJSON(ctx, path, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// getJSON performs a single GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return NewNetworkError("failed to create GET request", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}

// doRequest attaches the bearer token and executes the request.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("request failed", err)
	}
	return resp, nil
}

// checkStatus maps HTTP status codes onto the error taxonomy.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewAuthError("access token rejected")
	case resp.StatusCode == http.StatusNotFound:
		return &APIError{
			Type:       ErrTypeNotFound,
			Message:    "resource not found",
			StatusCode: http.StatusNotFound,
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}
