package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

// RedisStore keeps cross-replica coordination state: the ingest cycle lock
// and the outcome of the most recent ingest run.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func lockKey(name string) string {
	return fmt.Sprintf("scraper:lock:%s", name)
}

func lastRunKey() string {
	return "scraper:ingest:last"
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock acquires the named lock for at most ttl. ok is false when another
// holder owns it. release is safe to call more than once.
func (s *RedisStore) TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error) {
	token := uuid.NewString()
	ok, err = s.rdb.SetNX(ctx, lockKey(name), token, ttl).Result()
	if err != nil {
		return nil, false, wrap("acquire lock", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, s.rdb, []string{lockKey(name)}, token).Err()
	}, true, nil
}

// RecordRun stores the latest ingest outcome for 24h.
func (s *RedisStore) RecordRun(ctx context.Context, run model.IngestRun) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return wrap("record run", s.rdb.Set(ctx, lastRunKey(), b, 24*time.Hour).Err())
}

// LastRun returns the most recently recorded ingest run, if any.
func (s *RedisStore) LastRun(ctx context.Context) (model.IngestRun, bool, error) {
	var run model.IngestRun
	b, err := s.rdb.Get(ctx, lastRunKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return run, false, nil
	}
	if err != nil {
		return run, false, wrap("last run", err)
	}
	if err := json.Unmarshal(b, &run); err != nil {
		return run, false, err
	}
	return run, true, nil
}
