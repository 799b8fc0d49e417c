package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

func createTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_TryLockContention(t *testing.T) {
	s, mr := createTestRedisStore(t)
	ctx := context.Background()

	release, ok, err := s.TryLock(ctx, "ingest", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists(lockKey("ingest")))
	assert.Equal(t, time.Minute, mr.TTL(lockKey("ingest")))

	_, ok, err = s.TryLock(ctx, "ingest", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	release()
	assert.False(t, mr.Exists(lockKey("ingest")))
	release()

	_, ok, err = s.TryLock(ctx, "ingest", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "lock is free after release")
}

func TestRedisStore_ReleaseKeepsForeignLock(t *testing.T) {
	s, mr := createTestRedisStore(t)
	ctx := context.Background()

	releaseFirst, ok, err := s.TryLock(ctx, "ingest", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// the first holder overran its ttl and someone else took the lock
	mr.FastForward(2 * time.Second)
	_, ok, err = s.TryLock(ctx, "ingest", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	token, err := mr.Get(lockKey("ingest"))
	require.NoError(t, err)

	releaseFirst()

	got, err := mr.Get(lockKey("ingest"))
	require.NoError(t, err, "stale release must not delete the new holder's lock")
	assert.Equal(t, token, got)
}

func TestRedisStore_LocksAreNamed(t *testing.T) {
	s, _ := createTestRedisStore(t)
	ctx := context.Background()

	_, ok, err := s.TryLock(ctx, "ingest", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = s.TryLock(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_LastRunEmpty(t *testing.T) {
	s, _ := createTestRedisStore(t)

	_, ok, err := s.LastRun(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_RecordRunRoundTrip(t *testing.T) {
	s, mr := createTestRedisStore(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	run := model.IngestRun{
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Candidates: 30,
		Inserted:   4,
		Failed:     1,
		Error:      "partial",
	}

	require.NoError(t, s.RecordRun(ctx, run))
	assert.Equal(t, 24*time.Hour, mr.TTL(lastRunKey()))

	got, ok, err := s.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, run, got)
}

func TestRedisStore_UnreachableIsStorageError(t *testing.T) {
	s, mr := createTestRedisStore(t)
	mr.Close()

	_, _, err := s.TryLock(context.Background(), "ingest", time.Minute)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "acquire lock", se.Op)

	_, _, err = s.LastRun(context.Background())
	assert.ErrorAs(t, err, &se)
}
