package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/movie_cashier/internal/adapter/cache/redis"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

var key = domain.ShowingKey{MovieCode: "M1", Date: "2025-01-01", Showtime: domain.ShowtimeMorning}

func TestPublish_WritesHashField(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	cache := redis.NewAvailabilityCache(db, "showings")

	mockRedis.ExpectHSet("showings:M1", "2025-01-01|Morning", 3).SetVal(1)

	err := cache.Publish(context.Background(), domain.Showing{Key: key, Available: 3})

	assert.NoError(t, err)
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPublish_Error(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	cache := redis.NewAvailabilityCache(db, "")

	mockRedis.ExpectHSet("showings:M1", "2025-01-01|Morning", 7).SetErr(errors.New("connection refused"))

	err := cache.Publish(context.Background(), domain.Showing{Key: key, Available: 7})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
