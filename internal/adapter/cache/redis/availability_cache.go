package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/platform/logger"
)

type Config struct {
	Host string
	Port string
}

// AvailabilityCache mirrors seat counts into one hash per movie so lobby
// screens can read them without touching the catalog file.
type AvailabilityCache struct {
	client goredis.Cmdable
	prefix string
}

func NewAvailabilityCache(client goredis.Cmdable, prefix string) *AvailabilityCache {
	if prefix == "" {
		prefix = "showings"
	}
	return &AvailabilityCache{client: client, prefix: prefix}
}

func Connect(ctx context.Context, cfg Config) (*goredis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logger.WithFields("addr", addr).Info("Connecting to Redis")

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return client, nil
}

func (c *AvailabilityCache) Key(movieCode string) string {
	return fmt.Sprintf("%s:%s", c.prefix, movieCode)
}

func Field(date string, showtime domain.Showtime) string {
	return date + "|" + string(showtime)
}

func (c *AvailabilityCache) Publish(ctx context.Context, showing domain.Showing) error {
	key := c.Key(showing.Key.MovieCode)
	field := Field(showing.Key.Date, showing.Key.Showtime)

	if err := c.client.HSet(ctx, key, field, showing.Available).Err(); err != nil {
		return fmt.Errorf("failed to mirror %s: %w", showing.Key, err)
	}

	return nil
}
