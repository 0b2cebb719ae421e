// Package fetch is the remote feed HTTP client.
//
// Each call is a single attempt bounded by a fixed timeout. Failures are
// classified so the caller can decide how to log them; a failed work item
// stays eligible on the next run
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each feed request
const DefaultTimeout = time.Second * 30

// ErrTimeout is returned when the request exceeds the client timeout
var ErrTimeout = errors.New("feed request timed out")

// StatusError is returned for non-2xx feed responses
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid status code received: %d", e.Code)
}

// Client fetches feed documents over HTTP
type Client struct {
	client *http.Client
}

// NewClient creates a new feed client with the given per-request timeout.
// A non-positive timeout falls back to the default
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a single GET for the given URL and returns the raw body
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, url)
		}

		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }

	return errors.As(err, &netErr) && netErr.Timeout()
}
