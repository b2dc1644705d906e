// Package backend is the storefront's HTTP client for the commerce backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the backend answers 404
var ErrNotFound = errors.New("backend: not found")

const maxErrorBody = 512

// StatusError is a non-2xx answer other than 404
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Client calls the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client; timeout bounds every call
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     util.GetLogger(),
	}
}

type addToCartRequest struct {
	Quantity int `json:"quantity"`
}

// GetProduct fetches a product with its variants
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	path := "/api/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get_product", http.MethodGet, path, "", nil, &product); err != nil {
		return nil, err
	}
	if product.Variants == nil {
		product.Variants = []models.Variant{}
	}
	return &product, nil
}

// AddToCart adds quantity units of a product to the token owner's persistent cart
func (c *Client) AddToCart(ctx context.Context, token string, productID int64, quantity int) error {
	path := "/api/cart/addtocart/" + strconv.FormatInt(productID, 10)
	return c.do(ctx, "add_to_cart", http.MethodPost, path, token, addToCartRequest{Quantity: quantity}, nil)
}

// GetAdminOrder fetches one order from the admin endpoint
func (c *Client) GetAdminOrder(ctx context.Context, token string, id int64) (*models.Order, error) {
	var order models.Order
	path := "/api/admin/orders/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get_admin_order", http.MethodGet, path, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out interface{}) error {
	ctx, span := util.StartSpan(ctx, "BackendClient."+op)
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.BackendRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("backend %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	util.BackendRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, resp.Status)
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	c.logger.Debug("Backend call completed",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return nil
}
