package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

// Client provides common HTTP functionality for integration clients.
//
// Every call is a single attempt. Creating a ticket is not idempotent and a
// failed draft generation has a local fallback, so nothing here retries.
type Client struct {
	client      *http.Client
	baseURL     string
	serviceName string

	// beforeRequest is called before each request (for auth headers, etc.)
	beforeRequest func(req *http.Request)
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client        *http.Client
	BaseURL       string
	ServiceName   string
	BeforeRequest func(req *http.Request)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:   cfg.ServiceName,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}

	return c
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request executes one HTTP request with a JSON body. Transport failures
// are returned as *TransportError.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.beforeRequest != nil {
		c.beforeRequest(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Service: c.serviceName, Err: err}
	}
	return resp, nil
}

// Get performs a GET request and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	resp, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, path, result)
}

// Post performs a POST request and decodes the response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	resp, err := c.Request(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, path, result)
}

// handleResponse checks status and decodes the response body.
func (c *Client) handleResponse(resp *http.Response, path string, result any) error {
	if resp.StatusCode >= 400 {
		return c.parseError(resp, path)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &DecodeError{Service: c.serviceName, Err: err}
	}

	return nil
}

// parseError parses an error response into an APIError.
func (c *Client) parseError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{
		Service:    c.serviceName,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		RequestID:  resp.Header.Get("X-Request-Id"),
		Body:       string(body),
	}

	// Services disagree on the shape: {"message": ...}, {"error": "..."}
	// and {"error": {"message": ...}} are all common.
	var errResp struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		apiErr.Message = errResp.Message
		if apiErr.Message == "" && len(errResp.Error) > 0 {
			var s string
			var obj struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(errResp.Error, &s) == nil {
				apiErr.Message = s
			} else if json.Unmarshal(errResp.Error, &obj) == nil {
				apiErr.Message = obj.Message
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
