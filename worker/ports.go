package worker

import (
	"context"
	"time"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

// Worker is a long-running periodic task. Start blocks until ctx is done.
type Worker interface {
	Start(ctx context.Context) error
}

// Fetcher retrieves one listing page and returns its candidates.
type Fetcher interface {
	FetchAndParse(ctx context.Context) ([]model.Candidate, error)
}

// StoryWriter is the insert side of the record store.
type StoryWriter interface {
	InsertIfAbsent(ctx context.Context, c model.Candidate) (bool, error)
}

// StoryLister is the windowed read side of the record store.
type StoryLister interface {
	ListSince(ctx context.Context, d time.Duration) ([]model.Story, error)
}

// Fanout pushes one payload to every live subscriber.
type Fanout interface {
	Broadcast(ctx context.Context, payload []byte) (delivered, failed int)
	Len() int
}

// Locker guards a named critical section, possibly across processes.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// RunRecorder persists ingest outcomes for health reporting.
type RunRecorder interface {
	RecordRun(ctx context.Context, run model.IngestRun) error
}
