// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package client provides a Go client library for the LawIA REST API.
//
// The LawIA API owns clients, legal cases, documents, the lookup tables used
// by case forms, the LLM question endpoint and the administrative database
// actions. This package gives typed access to every one of those endpoints.
//
// # Getting Started
//
// Create a client pointing to the API server:
//
//	c := client.New("http://localhost:3000")
//
// The client provides access to different API resources through sub-clients:
//
//	// List all cases
//	cases, err := c.Cases.List(ctx)
//
//	// Fetch a client by id
//	cl, err := c.Clients.Get(ctx, 12)
//
//	// Load dropdown sources for the case form
//	status, err := c.Lookups.Status(ctx)
//
//	// Ask a question about a stored document
//	answer, err := c.Assistant.Ask(ctx, client.Question{Model: "llama3", FileName: "peticao.pdf", Question: "..."})
//
// # Configuration Options
//
// The client can be configured with functional options:
//
//	c := client.New("http://localhost:3000",
//	    client.WithTimeout(60 * time.Second),
//	    client.WithHTTPClient(customHTTPClient),
//	)
//
// # Error Handling
//
// Failures are reported with three error types:
//
//   - *TransportError: the request never produced a response
//   - *APIError: the server answered with a non-2xx status
//   - *LogicalError: the server answered 2xx but the body carried {"error": "..."}
//
// A 404 response matches [ErrNotFound]:
//
//	doc, err := c.Documents.Get(ctx, 7)
//	if errors.Is(err, client.ErrNotFound) {
//	    // render "not found"
//	}
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and timeouts.
package client

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
)

// Client is a LawIA API client.
//
// The Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL     string
	userAgent   string
	reportsPath string
	healthPath  string
	httpClient  *http.Client

	// Clients provides CRUD access to clients (/api/clientes).
	Clients *ClientsClient

	// Cases provides CRUD access to legal cases (/api/casos).
	Cases *CasesClient

	// Documents provides CRUD access and downloads for documents (/api/documentos).
	Documents *DocumentsClient

	// Lookups provides the dropdown collections used by the case form.
	Lookups *LookupClient

	// Assistant provides access to the LLM endpoint (/api/ollama).
	Assistant *AssistantClient

	// Admin provides the database lifecycle actions.
	Admin *AdminClient

	// Reports provides the aggregated report datasets.
	Reports *ReportClient

	// Health provides the backend health probe.
	Health *HealthClient
}

// Option configures a [Client].
type Option func(*Client)

// New creates a new LawIA API client with the given base URL and options.
//
// Any trailing slash on baseURL is removed. By default the client uses a
// 30-second HTTP timeout.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   DefaultUserAgent,
		reportsPath: DefaultReportsPath,
		healthPath:  DefaultHealthPath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Clients = &ClientsClient{c: c}
	c.Cases = &CasesClient{c: c}
	c.Documents = &DocumentsClient{c: c, path: "/api/documentos"}
	c.Lookups = &LookupClient{c: c}
	c.Assistant = &AssistantClient{c: c}
	c.Admin = &AdminClient{c: c}
	c.Reports = &ReportClient{c: c, path: c.reportsPath}
	c.Health = &HealthClient{c: c, path: c.healthPath}

	return c
}

// WithHTTPClient sets a custom HTTP client for making requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout for all requests.
//
// The LLM endpoint can take minutes on CPU-only hosts; raise this when the
// assistant page is in use.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithReportsPath overrides the path of the reports endpoint.
func WithReportsPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.reportsPath = path
		}
	}
}

// WithHealthPath overrides the path of the health endpoint.
func WithHealthPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.healthPath = path
		}
	}
}

// BaseURL returns the base URL of the API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request to the given path.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, withQuery(path, query), nil)
}

// send performs a body-less request; query-string endpoints use it for writes.
func (c *Client) send(ctx context.Context, method, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, method, withQuery(path, query), nil)
}

// sendJSON performs a request with a JSON body.
func (c *Client) sendJSON(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(data))
}

// do performs an HTTP request and parses the response.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	resp, err := c.raw(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parseResponse(resp)
}

// raw performs an HTTP request and returns the unread response.
// Only transport failures are reported; the caller owns the body.
func (c *Client) raw(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	return resp, nil
}

// parseResponse reads an API response and classifies failures.
//
// Non-2xx statuses become *APIError. A 2xx JSON object carrying a non-empty
// "error" string becomes *LogicalError. Anything else is returned raw.
func parseResponse(resp *http.Response) (json.RawMessage, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: resp.Request.Method, Path: resp.Request.URL.Path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	if msg, ok := embeddedError(respBody); ok {
		return nil, &LogicalError{Message: msg}
	}

	return respBody, nil
}

// embeddedError extracts {"error": "..."} from a JSON object body.
func embeddedError(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Error) == 0 {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(env.Error, &msg); err == nil {
		return msg, msg != ""
	}
	if string(env.Error) == "null" {
		return "", false
	}
	return string(env.Error), true
}

// isEmptyRecord reports whether a single-record body carries no record.
func isEmptyRecord(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

// createdID reads the identifier of a new record from a create response,
// trying key and then "id". Zero means the API did not report one.
func createdID(body []byte, key string) int {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return 0
	}
	for _, k := range []string{key, "id"} {
		var id int
		if raw, ok := fields[k]; ok && json.Unmarshal(raw, &id) == nil && id > 0 {
			return id
		}
	}
	return 0
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func idQuery(id int) url.Values {
	return url.Values{"id": {fmt.Sprint(id)}}
}
