package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/config"
	"github.com/dadikeladdu/storefront/pkg/errors"
)

// TokenSource supplies the bearer credential for outbound requests. It is
// read on every call so a refreshed session takes effect immediately.
type TokenSource interface {
	Token() string
}

// Client talks to the external storefront backend. The cart and orders
// APIs are addressed through separate base URLs because they have not
// always lived on the same host.
type Client struct {
	cartBaseURL   string
	ordersBaseURL string
	tokens        TokenSource
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient creates a new storefront backend client
func NewClient(cfg config.BackendConfig, tokens TokenSource, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cartBaseURL:   strings.TrimSuffix(cfg.CartBaseURL, "/"),
		ordersBaseURL: strings.TrimSuffix(cfg.OrdersBaseURL, "/"),
		tokens:        tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// errorEnvelope is the backend's error body shape
type errorEnvelope struct {
	Message string `json:"message"`
}

// do executes one request against the backend. A JSON body is attached for
// any non-nil payload, including DELETE (the remove endpoint takes its
// arguments in the request body). On 2xx the body is decoded into out when
// out is non-nil; on anything else the backend's {message} is surfaced as
// an APIError.
func (c *Client) do(ctx context.Context, method, url string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &errors.APIError{StatusCode: resp.StatusCode}
		var envelope errorEnvelope
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
