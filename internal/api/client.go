package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ecocollect/internal/metrics"

	"golang.org/x/time/rate"
)

// Client is the typed REST client every service talks through. It owns
// the base URL, the bearer-token transport and the error taxonomy; the
// per-domain endpoints live with their domain packages.
type Client struct {
	baseURL        string
	http           *http.Client
	onUnauthorized func()
	Metrics        *metrics.RequestMetrics
}

type Option func(*Client)

// WithUnauthorizedHook registers the forced-logout callback fired on
// any 401 response.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		Metrics: &metrics.RequestMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}

	// Bearer runs first so the logging layer sees the request id it set.
	transport := http.RoundTripper(http.DefaultTransport)
	transport = &loggingTransport{base: transport, metrics: c.Metrics}
	transport = &limitTransport{base: transport, limiter: rate.NewLimiter(rate.Limit(20), 40)}
	transport = &bearerTransport{base: transport, tokens: tokens}

	c.http = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	return c
}

// Do performs one JSON round trip. A nil body sends no payload; a nil
// out discards the response body. Failures come back either as
// ErrConnectivity (no response at all) or as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			Status:  resp.StatusCode,
			Message: decodeErrorMessage(resp.Body),
		}
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// decodeErrorMessage pulls a human-readable message out of an error
// body. The backend answers either {"error": ...} or {"message": ...};
// anything else falls back to the raw body.
func decodeErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
