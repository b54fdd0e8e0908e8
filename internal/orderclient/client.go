package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/config"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// maxErrorBody bounds how much of a failed response is kept for logging
const maxErrorBody = 4096

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the order-creation endpoint
func NewClient(cfg config.OrdersAPIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orders API error: status %d, body: %s", e.StatusCode, e.Body)
}

// CreateOrder sends a single POST /orders. It never retries; the
// idempotency key lets the server collapse repeated attempts.
func (c *Client) CreateOrder(ctx context.Context, idempotencyKey string, input CreateOrderInput) (*CreateOrderResponse, error) {
	url := c.baseURL + "/orders"

	jsonData, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// the order was acknowledged; a broken body does not undo that
		c.logger.Warn("Failed to read orders API response", zap.Error(err))
		return &CreateOrderResponse{}, nil
	}

	var created CreateOrderResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			c.logger.Warn("Orders API returned a non-JSON acknowledgement", zap.Error(err))
		}
	}

	return &created, nil
}
