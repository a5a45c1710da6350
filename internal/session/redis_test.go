package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/unifind/internal/model"
)

// Runs only when UNIFIND_TEST_REDIS_ADDR points at a disposable Redis.
func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("UNIFIND_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("UNIFIND_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewRedis(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	storage := NewRedisStorage(client, NewSealer([32]byte{5}), time.Minute)
	id := uuid.NewString()

	_, ok, err := storage.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Save(ctx, id, Record{Credential: "tok", Profile: &model.User{ID: "u1"}}))

	rec, ok, err := storage.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok", rec.Credential)
	assert.Equal(t, "u1", rec.Profile.ID)

	ttl, err := client.TTL(ctx, redisPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, storage.Clear(ctx, id))
	_, ok, err = storage.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}
