package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookshelf/internal/api/models"
)

// ErrCacheMiss is returned when the requested book is not in the cache.
var ErrCacheMiss = errors.New("book not in cache")

// BookCache keeps serialized book records in Redis so that catalog detail
// reads don't always hit Postgres. A nil client puts the cache in no-op
// mode, which keeps the service usable without a Redis instance.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache connects to Redis at redisURL. An empty URL returns a
// disabled cache rather than an error.
func NewBookCache(redisURL, password string, ttl time.Duration) (*BookCache, error) {
	if redisURL == "" {
		return &BookCache{ttl: ttl}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &BookCache{client: rdb, ttl: ttl}, nil
}

// Enabled reports whether a Redis client is attached.
func (c *BookCache) Enabled() bool {
	return c != nil && c.client != nil
}

func bookKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

func (c *BookCache) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	if !c.Enabled() {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var book models.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		// stale or corrupt payload, treat as a miss
		c.client.Del(ctx, bookKey(id))
		return nil, ErrCacheMiss
	}
	return &book, nil
}

func (c *BookCache) SetBook(ctx context.Context, book *models.Book) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookKey(book.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached record for a book. Called after any mutation
// that touches the book row, including aggregate rating recomputation.
func (c *BookCache) Invalidate(ctx context.Context, id int64) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, bookKey(id)).Err()
}

// Close releases the underlying Redis connection.
func (c *BookCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
