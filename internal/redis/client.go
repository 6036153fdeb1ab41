package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront/internal/models"
	"time"

	"github.com/go-redis/redis/v8"
)

const maxCartRetries = 10

// ErrCartContention is returned when a cart kept changing under a mutation
// for every retry.
var ErrCartContention = errors.New("cart is being modified concurrently")

type Client struct {
	rdb     *redis.Client
	cartTTL time.Duration
}

// CartStore persists session carts.
type CartStore interface {
	Items(ctx context.Context, sessionID string) ([]models.CartItem, error)
	// Mutate applies fn to the session's items atomically. Returning a nil or
	// empty slice drops the cart.
	Mutate(ctx context.Context, sessionID string, fn func(items []models.CartItem) ([]models.CartItem, error)) ([]models.CartItem, error)
	Clear(ctx context.Context, sessionID string) error
}

func Initialize(redisURL string, cartTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, cartTTL: cartTTL}, nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (c *Client) Items(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	val, err := c.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []models.CartItem{}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return decodeCart(val)
}

func (c *Client) Mutate(ctx context.Context, sessionID string, fn func(items []models.CartItem) ([]models.CartItem, error)) ([]models.CartItem, error) {
	key := cartKey(sessionID)
	var result []models.CartItem

	txf := func(tx *redis.Tx) error {
		items := []models.CartItem{}
		val, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == redis.Nil:
		case err != nil:
			return fmt.Errorf("failed to get cart: %w", err)
		default:
			if items, err = decodeCart(val); err != nil {
				return err
			}
		}

		updated, err := fn(items)
		if err != nil {
			return err
		}

		var payload []byte
		if len(updated) > 0 {
			if payload, err = json.Marshal(updated); err != nil {
				return fmt.Errorf("failed to marshal cart: %w", err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if payload == nil {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, c.cartTTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = updated
		return nil
	}

	for i := 0; i < maxCartRetries; i++ {
		err := c.rdb.Watch(ctx, txf, key)
		if err == nil {
			if result == nil {
				result = []models.CartItem{}
			}
			return result, nil
		}
		if err != redis.TxFailedErr {
			return nil, err
		}
	}
	return nil, ErrCartContention
}

func (c *Client) Clear(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, cartKey(sessionID)).Err()
}

func decodeCart(val []byte) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := json.Unmarshal(val, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return items, nil
}

// Ping reports whether Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
