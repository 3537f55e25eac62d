// Package api is the REST gateway for zhook webhook subscriptions ("hooks").
// Every call issues an authenticated JSON request; by default exactly one
// request per call, with opt-in retries for transient failures.
package api

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

	"github.com/codeGROOVE-dev/retry"
)

const (
	// DefaultBaseURL is the production hook management endpoint.
	DefaultBaseURL = "https://api.zhook.dev/v1"

	// clientHeader identifies this client library to the service.
	clientHeader = "zhook-client-go/1.0"

	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1MB response limit
)

// Options configures the gateway client.
type Options struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// HTTPClient overrides the default 10s-timeout client.
	HTTPClient *http.Client
	// Logger for request diagnostics; defaults to discarding via slog default.
	Logger *slog.Logger
	// MaxAttempts is the total number of attempts per call, including the
	// first. Values below 1 mean 1: a single request, no retries. Retries
	// apply only to network failures and 5xx responses.
	MaxAttempts int
}

// Client issues authenticated requests to the hook management API.
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	baseURL     string
	credential  string
	maxAttempts int
}

// NewClient creates a hook API client. The credential is sent as a bearer
// token on every request.
func NewClient(credential string, opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		httpClient:  httpClient,
		logger:      logger,
		baseURL:     strings.TrimRight(base, "/"),
		credential:  credential,
		maxAttempts: attempts,
	}
}

// CreateHook registers a new webhook subscription.
func (c *Client) CreateHook(ctx context.Context, config HookConfig) (*Hook, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var hook Hook
	if err := c.do(ctx, http.MethodPost, "/hooks", config, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// Hooks lists all hooks registered for the credential.
func (c *Client) Hooks(ctx context.Context) ([]Hook, error) {
	var hooks []Hook
	if err := c.do(ctx, http.MethodGet, "/hooks", nil, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// Hook fetches a single hook by ID.
func (c *Client) Hook(ctx context.Context, id string) (*Hook, error) {
	if id == "" {
		return nil, errors.New("hook id is required")
	}
	var hook Hook
	if err := c.do(ctx, http.MethodGet, "/hooks/"+url.PathEscape(id), nil, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// UpdateHook applies a partial update to an existing hook.
func (c *Client) UpdateHook(ctx context.Context, id string, update HookUpdate) (*Hook, error) {
	if id == "" {
		return nil, errors.New("hook id is required")
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	var hook Hook
	if err := c.do(ctx, http.MethodPatch, "/hooks/"+url.PathEscape(id), update, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// DeleteHook removes a hook. A successful delete returns no body.
func (c *Client) DeleteHook(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("hook id is required")
	}
	return c.do(ctx, http.MethodDelete, "/hooks/"+url.PathEscape(id), nil, nil)
}

// do runs one API call. Network failures and 5xx responses are retried up to
// maxAttempts with backoff and jitter; everything else resolves on the first
// response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	// finalErr carries the mapped error from the most recent attempt so the
	// caller never has to unwrap the retry library's aggregate error.
	var finalErr error
	err := retry.Do(
		func() error {
			var reader io.Reader = http.NoBody
			if encoded != nil {
				reader = bytes.NewReader(encoded)
			}
			req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
			if err != nil {
				finalErr = fmt.Errorf("build request: %w", err)
				return retry.Unrecoverable(finalErr)
			}
			req.Header.Set("Authorization", "Bearer "+c.credential)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-Zhook-Client", clientHeader)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				finalErr = &NetworkError{Cause: err}
				c.logger.Warn("hook API request failed", "method", method, "path", path, "error", err)
				return err // retry when attempts remain
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					c.logger.Debug("close response body", "error", err)
				}
			}()

			raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				finalErr = &NetworkError{Cause: err}
				return err
			}

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				reqErr := &RequestError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
				finalErr = reqErr
				if resp.StatusCode >= 500 {
					c.logger.Warn("hook API server error", "status", resp.StatusCode, "path", path)
					return reqErr // retry when attempts remain
				}
				return retry.Unrecoverable(reqErr)
			}

			finalErr = nil
			if out == nil {
				return nil
			}
			if len(bytes.TrimSpace(raw)) == 0 {
				return nil // empty 2xx body leaves out at its zero value
			}
			if err := json.Unmarshal(raw, out); err != nil {
				finalErr = ErrInvalidResponse
				return retry.Unrecoverable(ErrInvalidResponse)
			}
			return nil
		},
		retry.Attempts(uint(c.maxAttempts)), //nolint:gosec // bounded small positive value
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		if finalErr != nil {
			return finalErr
		}
		return &NetworkError{Cause: err} // context cancellation mid-backoff
	}
	return nil
}

// errorMessage extracts a human-readable message from an error response body,
// falling back to the raw text and then the HTTP status phrase.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}
