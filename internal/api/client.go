// Package api is the HTTP client for the /api/todos endpoints.
//
// Every call is a single round trip: no retries and no timeout beyond what
// the caller's context carries. Failures come back as *HTTPError,
// *TransportError or *DecodeError so callers can tell them apart with errors.As.
package api

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

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
)

const (
	todosPath    = "/api/todos"
	evaluatePath = "/api/todos/evaluate"

	// maxErrorBody caps how much of a failed response ends up in HTTPError.Body.
	maxErrorBody = 512
)

// Client talks to a todo server.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing. Nil is ignored.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the full collection.
func (c *Client) List(ctx context.Context) (model.ItemResponse, error) {
	var out model.ItemResponse
	resp, err := c.do(ctx, http.MethodGet, todosPath, nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.ItemResponse{}, &DecodeError{Path: todosPath, Err: err}
	}
	return out, nil
}

// Create sends a new item. The server assigns the id; the response body is ignored.
func (c *Client) Create(ctx context.Context, item model.Item) error {
	return c.send(ctx, http.MethodPost, todosPath, item)
}

// Update replaces the server state of item.ID.
func (c *Client) Update(ctx context.Context, item model.Item) error {
	if !item.Persisted() {
		return ErrMissingID
	}
	return c.send(ctx, http.MethodPut, itemPath(item.ID), item)
}

// Delete removes item.ID.
func (c *Client) Delete(ctx context.Context, item model.Item) error {
	if !item.Persisted() {
		return ErrMissingID
	}
	return c.send(ctx, http.MethodDelete, itemPath(item.ID), nil)
}

// EvaluateRaw posts a draft item to the feedback endpoint and returns the
// response untouched. Only transport failures are reported; the caller
// checks the status and must close the body.
func (c *Client) EvaluateRaw(ctx context.Context, item model.Item) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, evaluatePath, item)
}

// Evaluate posts a draft item and decodes the feedback message.
func (c *Client) Evaluate(ctx context.Context, item model.Item) (model.Feedback, error) {
	var out model.Feedback
	resp, err := c.EvaluateRaw(ctx, item)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Feedback{}, &DecodeError{Path: evaluatePath, Err: err}
	}
	return out, nil
}

// send performs a request whose successful response body is discarded.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", path, err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{
		Method:     resp.Request.Method,
		Path:       resp.Request.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
}

func itemPath(id string) string {
	return todosPath + "/" + url.PathEscape(id)
}
