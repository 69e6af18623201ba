package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("Unreachable address fails", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		client, err := NewRedisClient(ctx, "127.0.0.1:1")

		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("Connects to a running server", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping container test in short mode")
		}
		testcontainers.SkipIfProviderIsNotHealthy(t)

		ctx := context.Background()
		container, err := tcredis.Run(ctx, "redis:7-alpine")
		testcontainers.CleanupContainer(t, container)
		require.NoError(t, err)

		endpoint, err := container.Endpoint(ctx, "")
		require.NoError(t, err)

		client, err := NewRedisClient(ctx, endpoint)
		require.NoError(t, err)
		defer client.Close()
		assert.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	})
}
