package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// integrationOptions points at the redis used by integration tests, DB 1 by default.
func integrationOptions() Options {
	_ = godotenv.Load("../../../.env")
	return Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	}
}

func TestOptions_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Options{Host: "localhost", Port: "6379"}.Addr())
	assert.Equal(t, "[::1]:6380", Options{Host: "::1", Port: "6380"}.Addr())
}

func TestRedisClient_Integration(t *testing.T) {
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, integrationOptions())
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	t.Run("Set and Get Value", func(t *testing.T) {
		key := "onedo:test:cache"

		require.NoError(t, rdb.Set(ctx, key, "hello", time.Minute).Err())

		val, err := rdb.Get(ctx, key).Result()
		assert.NoError(t, err)
		assert.Equal(t, "hello", val)

		rdb.Del(ctx, key)
		_, err = rdb.Get(ctx, key).Result()
		assert.ErrorIs(t, err, redis.Nil)
	})
}

func TestRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), Options{Host: "127.0.0.1", Port: "1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
