// Package httpjson is the small JSON-over-HTTP client shared by the LLM and
// embedding providers.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxResponseBytes = 4 << 20
	maxErrorBody     = 256
)

// StatusError is a non-2xx reply. Body is truncated: providers sometimes echo
// the prompt, which may hold candidate answers.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Body)
}

type Client struct {
	service string
	http    *http.Client
	headers map[string]string
}

// New returns a client that labels its errors with service.
func New(service string, timeout time.Duration) *Client {
	return &Client{
		service: service,
		http:    &http.Client{Timeout: timeout},
		headers: map[string]string{},
	}
}

// WithBearer adds an Authorization header to every request. An empty token
// is ignored.
func (c *Client) WithBearer(token string) *Client {
	if token != "" {
		c.headers["Authorization"] = "Bearer " + token
	}
	return c
}

// Post sends in as JSON and decodes the reply into out.
func (c *Client) Post(ctx context.Context, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", c.service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.service, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.service, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return &StatusError{Service: c.service, Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}
