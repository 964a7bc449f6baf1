package billapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the utility bill lookup endpoint.
const DefaultEndpoint = "https://api.desco.utility.garlicgingar.com/bill_desco.php"

// DefaultTimeout bounds a single lookup request.
const DefaultTimeout = 15 * time.Second

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Client is a minimal billing API client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the given options.
func New(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// NewWithEndpoint creates a client with a custom endpoint.
// Intended for tests and local stubs.
func NewWithEndpoint(endpoint string) *Client {
	return New(Options{Endpoint: endpoint})
}

// Endpoint returns the URL bills are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bill endpoint returned status %s", e.Status)
}

func (c *Client) postJSON(ctx context.Context, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build bill request: %w", err)
	}
	req.Header.Set("Content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call bill endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d", resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Status: status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode bill response: %w", err)
	}
	return nil
}
