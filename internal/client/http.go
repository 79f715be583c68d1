package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/folio/internal/model"
)

// HTTPClient implements PortfolioClient using the folio HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements PortfolioClient.
var _ PortfolioClient = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://127.0.0.1:5000"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// Resolve looks up code with GET /{code}. The code is lower-cased before the
// request; the service treats codes case-insensitively. Every call goes to
// the service, nothing is cached.
func (c *HTTPClient) Resolve(ctx context.Context, code string) (*Resolution, error) {
	code = model.NormalizeCode(code)
	if code == "" {
		return nil, ErrNotFound
	}

	var res Resolution
	err := c.doJSON(ctx, http.MethodGet, "/"+url.PathEscape(code), nil, &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, &TransportError{Code: code, Err: err}
	}
	if res.Portfolio == nil {
		return nil, &TransportError{Code: code, Err: errors.New("response has no portfolio data")}
	}
	return &res, nil
}

// --- Admin ---

func (c *HTTPClient) PutPortfolio(ctx context.Context, code string, req *PutPortfolioRequest) (*model.PortfolioRecord, error) {
	var rec model.PortfolioRecord
	if err := c.doJSON(ctx, http.MethodPut, "/v1/portfolios/"+url.PathEscape(model.NormalizeCode(code)), req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) DeletePortfolio(ctx context.Context, code string) error {
	err := c.doJSON(ctx, http.MethodDelete, "/v1/portfolios/"+url.PathEscape(model.NormalizeCode(code)), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func (c *HTTPClient) ListPortfolios(ctx context.Context) (*ListPortfoliosResponse, error) {
	var resp ListPortfoliosResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/portfolios", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health returns the service status string ("ok" when healthy).
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
