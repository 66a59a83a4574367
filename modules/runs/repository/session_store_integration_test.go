package repository

import (
	"context"
	"testing"
	"time"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	redisplatform "github.com/andreypavlenko/postingguard/internal/platform/redis"
	"github.com/andreypavlenko/postingguard/modules/runs/model"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Exercises the real Redis TTL behavior (key eviction, not just the
// clock-side expiry check) against a disposable container. Run with -short
// to skip when Docker is unavailable.
func TestSessionStoreIntegration_KeyIsEvictedAfterTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := &redisplatform.Client{Client: goredis.NewClient(opts)}
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client, 500*time.Millisecond, clock.System{})

	session := &model.ActiveApplySession{
		UserID: "user-1", TaskID: "task-1", RunID: "run-1",
		JobURL: "https://ats.example.com/apply/1",
	}
	require.NoError(t, store.SetActiveSession(ctx, session))

	got, err := store.GetActiveSession(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "run-1", got.RunID)

	time.Sleep(700 * time.Millisecond)

	got, err = store.GetActiveSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreIntegration_SetReplacesThePriorSessionAtomically(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := &redisplatform.Client{Client: goredis.NewClient(opts)}
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client, time.Hour, clock.System{})

	first := &model.ActiveApplySession{UserID: "user-1", TaskID: "task-1", RunID: "run-1", JobURL: "https://x.com/1"}
	require.NoError(t, store.SetActiveSession(ctx, first))

	second := &model.ActiveApplySession{UserID: "user-1", TaskID: "task-2", RunID: "run-2", JobURL: "https://x.com/2"}
	require.NoError(t, store.SetActiveSession(ctx, second))

	got, err := store.GetActiveSession(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, "task-2", got.TaskID)
}
