package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/apply/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// These tests exercise the real transactional behavior of the task store
// (atomic task+event writes, the compare-and-swap transition, queue
// ordering) against a disposable Postgres container. Run with -short to
// skip them when Docker is unavailable.

func startTaskPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("postingguard"),
		tcpostgres.WithUsername("postingguard"),
		tcpostgres.WithPassword("postingguard"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	sort.Strings(paths)
	for _, p := range paths {
		sql, err := os.ReadFile(p)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, string(sql))
		require.NoError(t, err, "apply %s", p)
	}

	return pool
}

func seedUserAndJob(t *testing.T, pool *pgxpool.Pool) (userID, jobID string) {
	t.Helper()
	ctx := context.Background()

	userID = uuid.New().String()
	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, locale) VALUES ($1, $2, 'Integration User', 'x', 'en')`,
		userID, userID+"@example.com",
	)
	require.NoError(t, err)

	jobID = uuid.New().String()
	_, err = pool.Exec(ctx,
		`INSERT INTO jobs (job_id, url, platform, raw_record) VALUES ($1, $2, 'linkedin', '{}')`,
		jobID, "https://example.com/jobs/"+jobID,
	)
	require.NoError(t, err)

	return userID, jobID
}

func queuedTask(userID, jobID string, priority int, createdAt time.Time) *model.Task {
	return &model.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		JobID:     jobID,
		Status:    model.StatusQueued,
		Priority:  priority,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTaskRepositoryIntegration_CreateWritesTaskAndInitialEventAtomically(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	pool := startTaskPostgres(t)
	userID, jobID := seedUserAndJob(t, pool)
	repo := NewTaskRepository(pool, clock.System{})
	ctx := context.Background()

	task := queuedTask(userID, jobID, 900, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusQueued, got.Status)

	events, err := repo.ListEvents(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.Status("none"), events[0].FromStatus)
	assert.Equal(t, model.StatusQueued, events[0].ToStatus)
	assert.Equal(t, got.Status, events[0].ToStatus)
}

func TestTaskRepositoryIntegration_HappyPathAccumulatesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	pool := startTaskPostgres(t)
	userID, jobID := seedUserAndJob(t, pool)
	repo := NewTaskRepository(pool, clock.System{})
	ctx := context.Background()

	task := queuedTask(userID, jobID, 900, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, task))

	updated, err := repo.Transition(ctx, task.ID, model.StatusInProgress, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AttemptCount)

	_, err = repo.Transition(ctx, task.ID, model.StatusNeedsUser, nil, nil)
	require.NoError(t, err)

	updated, err = repo.Transition(ctx, task.ID, model.StatusSuccess, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, updated.Status)

	events, err := repo.ListEvents(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, model.StatusSuccess, events[3].ToStatus)
	assert.Equal(t, updated.Status, events[3].ToStatus)
}

func TestTaskRepositoryIntegration_RetryLoopIncrementsAttemptCount(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	pool := startTaskPostgres(t)
	userID, jobID := seedUserAndJob(t, pool)
	repo := NewTaskRepository(pool, clock.System{})
	ctx := context.Background()

	task := queuedTask(userID, jobID, 500, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, task))

	_, err := repo.Transition(ctx, task.ID, model.StatusInProgress, nil, nil)
	require.NoError(t, err)

	reason := "network"
	failed, err := repo.Transition(ctx, task.ID, model.StatusFailed, &reason, nil)
	require.NoError(t, err)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "network", *failed.LastError)

	_, err = repo.Transition(ctx, task.ID, model.StatusQueued, nil, nil)
	require.NoError(t, err)

	updated, err := repo.Transition(ctx, task.ID, model.StatusInProgress, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.AttemptCount)

	events, err := repo.ListEvents(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestTaskRepositoryIntegration_IllegalTransitionLeavesNoTrace(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	pool := startTaskPostgres(t)
	userID, jobID := seedUserAndJob(t, pool)
	repo := NewTaskRepository(pool, clock.System{})
	ctx := context.Background()

	task := queuedTask(userID, jobID, 500, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, task))

	_, err := repo.Transition(ctx, task.ID, model.StatusSuccess, nil, nil)
	require.ErrorIs(t, err, model.ErrInvalidTransition)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, got.Status)

	events, err := repo.ListEvents(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestTaskRepositoryIntegration_ListOrdersByPriorityThenFIFO(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	pool := startTaskPostgres(t)
	userID, jobID := seedUserAndJob(t, pool)
	repo := NewTaskRepository(pool, clock.System{})
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	high := queuedTask(userID, jobID, 900, base)
	earlierTied := queuedTask(userID, jobID, 500, base.Add(time.Second))
	laterTied := queuedTask(userID, jobID, 500, base.Add(2*time.Second))

	// Ties are broken FIFO, so insert the winner of the tie second to prove
	// ordering comes from created_at, not insertion accidents.
	require.NoError(t, repo.Create(ctx, laterTied))
	require.NoError(t, repo.Create(ctx, high))
	require.NoError(t, repo.Create(ctx, earlierTied))

	status := model.StatusQueued
	tasks, err := repo.ListByUser(ctx, userID, model.ListQuery{Status: &status, Limit: 10})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, high.ID, tasks[0].ID)
	assert.Equal(t, earlierTied.ID, tasks[1].ID)
	assert.Equal(t, laterTied.ID, tasks[2].ID)

	total, err := repo.CountByUser(ctx, userID, &status)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
