package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb          *redis.Client
	productTTL   time.Duration
	guestCartTTL time.Duration
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int, productTTL, guestCartTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithRedis(rdb, productTTL, guestCartTTL), nil
}

// NewWithRedis wraps an existing go-redis client
func NewWithRedis(rdb *redis.Client, productTTL, guestCartTTL time.Duration) *Client {
	return &Client{rdb: rdb, productTTL: productTTL, guestCartTTL: guestCartTTL}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct returns the cached product record; ok is false on a miss
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, bool, error) {
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached product %d: %w", id, err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false, fmt.Errorf("decode cached product %d: %w", id, err)
	}
	return &product, true, nil
}

// SetProduct caches a product record for the configured TTL
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product %d: %w", product.ID, err)
	}
	return c.rdb.Set(ctx, productKey(product.ID), data, c.productTTL).Err()
}

// EvictProduct drops a cached product record
func (c *Client) EvictProduct(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}

func guestCartKey(sessionID string) string {
	return "guest_cart:" + sessionID
}

// GetGuestCart returns the guest cart of a session; a missing cart is empty
func (c *Client) GetGuestCart(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	data, err := c.rdb.Get(ctx, guestCartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest cart %s: %w", sessionID, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode guest cart %s: %w", sessionID, err)
	}
	return items, nil
}

// SetGuestCart stores the guest cart of a session and renews its TTL
func (c *Client) SetGuestCart(ctx context.Context, sessionID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode guest cart %s: %w", sessionID, err)
	}
	return c.rdb.Set(ctx, guestCartKey(sessionID), data, c.guestCartTTL).Err()
}
