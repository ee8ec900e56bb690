package queue_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/microblog/internal/queue"
)

func setupQueue(t *testing.T, reg *queue.Registry) *queue.Queue {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return queue.New(rdb, "test", reg)
}

func TestEnqueueAndFetch(t *testing.T) {
	q := setupQueue(t, queue.KnownJobs("export_posts"))
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "export_posts", "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	job, err := q.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, "export_posts", job.Name)
	assert.Equal(t, []string{"user-1"}, job.Args)
}

func TestEnqueueRejectsUnknownJob(t *testing.T) {
	q := setupQueue(t, queue.KnownJobs("export_posts"))

	_, err := q.Enqueue(context.Background(), "no_such_job")
	assert.Error(t, err)
}

func TestFetchMissingJob(t *testing.T) {
	q := setupQueue(t, nil)

	_, err := q.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, queue.ErrJobNotFound)
}

func TestProgressMetadata(t *testing.T) {
	q := setupQueue(t, queue.KnownJobs("export_posts"))
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "export_posts")
	require.NoError(t, err)

	// до первой публикации прогресс 0
	progress, err := q.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, progress)

	require.NoError(t, q.SetProgress(ctx, id, 42))

	progress, err = q.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 42, progress)
}

func TestProgressMissingJob(t *testing.T) {
	q := setupQueue(t, nil)

	_, err := q.Progress(context.Background(), "evicted")
	assert.ErrorIs(t, err, queue.ErrJobNotFound)
}

func TestWorkerRunOnce(t *testing.T) {
	reg := queue.NewRegistry()
	q := setupQueue(t, reg)
	ctx := context.Background()

	executed := make([]string, 0, 1)
	reg.Register("record_args", func(ctx context.Context, job *queue.Job) error {
		executed = append(executed, job.Args...)
		return nil
	})

	_, err := q.Enqueue(ctx, "record_args", "a", "b")
	require.NoError(t, err)

	w := queue.NewWorker(q, reg)

	ran, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"a", "b"}, executed)

	// очередь пуста
	ran, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestWorkerRunOnceReportsRedisErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	reg := queue.NewRegistry()
	q := queue.New(rdb, "test", reg)
	w := queue.NewWorker(q, reg)

	// обрыв соединения — это ошибка, а не пустая очередь
	mr.Close()

	_, err := w.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestWorkerSurvivesPanic(t *testing.T) {
	reg := queue.NewRegistry()
	q := setupQueue(t, reg)
	ctx := context.Background()

	reg.Register("panics", func(ctx context.Context, job *queue.Job) error {
		panic("boom")
	})
	reg.Register("works", func(ctx context.Context, job *queue.Job) error {
		return nil
	})

	_, err := q.Enqueue(ctx, "panics")
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "works")
	require.NoError(t, err)

	w := queue.NewWorker(q, reg)

	// паника первой задачи не мешает выполнить вторую
	ran, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}
