// Package upstream is the typed HTTP client for the NeuroHub MES API. Every
// piece of dashboard data the gateway serves originates here; the query
// cache decides when these calls actually happen.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/golang-jwt/jwt/v4"
)

// Client is the transport surface services fetch through. Tests substitute
// a fake; production uses HTTPClient.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// HTTPClient calls the MES REST API with service-to-service JWT auth.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	logger    *logging.ChanneledLogger
	serviceID string
	jwtSecret string
	tokenTTL  time.Duration

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewHTTPClient builds the production client from the central config.
func NewHTTPClient(logger *logging.ChanneledLogger) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(config.UpstreamBaseURL, "/"),
		client:    &http.Client{Timeout: config.UpstreamTimeout},
		logger:    logger,
		serviceID: config.UpstreamServiceID,
		jwtSecret: config.UpstreamJWTSecret,
		tokenTTL:  config.UpstreamTokenTTL,
	}
}

// Get performs a GET request and decodes the JSON response into out.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body and decodes the response
// into out. Either side may be nil.
func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.jwtSecret != "" {
		token, err := c.serviceToken()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.LogUpstreamCall(method, path, 0, time.Since(start), err)
		return &FetchError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.LogUpstreamCall(method, path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode == http.StatusNotImplemented {
		return &UnimplementedError{Feature: fmt.Sprintf("%s %s", method, path)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// serviceToken returns a signed service JWT, reusing the current one until
// shortly before it expires so a token never dies mid-request.
func (c *HTTPClient) serviceToken() (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	now := time.Now()
	expiry := now.Add(c.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  c.serviceID,
		"type": "service",
		"iat":  now.Unix(),
		"exp":  expiry.Unix(),
	})

	signed, err := token.SignedString([]byte(c.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	c.token = signed
	c.tokenExpiry = expiry.Add(-30 * time.Second)
	return signed, nil
}

// readErrorMessage pulls a human-readable message out of an MES error
// payload. MES responses carry one of a few conventional fields; anything
// else degrades to a raw snippet.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, field := range []string{"message", "error", "detail"} {
			if text, ok := envelope[field].(string); ok && text != "" {
				return text
			}
		}
	}

	snippet := strings.TrimSpace(string(raw))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}
