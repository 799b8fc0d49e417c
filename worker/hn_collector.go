package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aniketraj30/hackernews-scraper/internal/hackernews"
	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

const ingestLockName = "ingest"

// IngestCollector periodically scrapes the listing page and stores new
// stories. Cycles never overlap: ticks that arrive while a cycle runs are
// dropped by the ticker, and a cycle whose lock is held elsewhere is
// skipped.
type IngestCollector struct {
	Source   Fetcher
	Store    StoryWriter
	Lock     Locker      // defaults to an in-process lock
	Recorder RunRecorder // optional
	Interval time.Duration
	// Timeout bounds one whole cycle; it also serves as the lock TTL.
	Timeout  time.Duration

	mu   sync.Mutex
	last *model.IngestRun
}

func (w *IngestCollector) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 5 * time.Minute
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *IngestCollector) runOnce(ctx context.Context) {
	run, err := w.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrCycleBusy):
		slog.Info("ingest: previous cycle still running, skipping tick")
	case err != nil:
		slog.Error("ingest: cycle failed", "error", err)
	default:
		slog.Info("ingest: cycle completed", "candidates", run.Candidates, "inserted", run.Inserted, "failed", run.Failed,
			"duration", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
}

// ErrCycleBusy is returned by RunOnce when another cycle holds the lock.
var ErrCycleBusy = errors.New("ingest: cycle already running")

// RunOnce performs one fetch → parse → insert cycle. A fetch failure ends
// the cycle with zero inserts and is returned; per-story storage failures
// are logged, counted and never abort the batch.
func (w *IngestCollector) RunOnce(ctx context.Context) (model.IngestRun, error) {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	release, ok, err := w.locker().TryLock(ctx, ingestLockName, timeout)
	if err != nil {
		// Coordination is unavailable; a duplicate scrape is harmless
		// because inserts are idempotent.
		slog.Warn("ingest: lock unavailable, running unguarded", "error", err)
		release = func() {}
	} else if !ok {
		return model.IngestRun{}, ErrCycleBusy
	}
	defer release()

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := model.IngestRun{StartedAt: time.Now().UTC()}
	items, err := w.Source.FetchAndParse(cctx)
	if err != nil {
		run.FinishedAt = time.Now().UTC()
		run.Error = err.Error()
		w.record(ctx, run)
		return run, err
	}
	run.Candidates = len(items)
	for _, it := range items {
		inserted, err := w.Store.InsertIfAbsent(cctx, it)
		if err != nil {
			run.Failed++
			slog.Error("ingest: store error", "title", it.Title, "error", err)
			continue
		}
		if inserted {
			run.Inserted++
		}
	}
	run.FinishedAt = time.Now().UTC()
	slog.Info("ingest: scraped stories", "count", run.Candidates)
	w.record(ctx, run)
	return run, nil
}

func (w *IngestCollector) locker() Locker {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Lock == nil {
		w.Lock = NewLocalLocker()
	}
	return w.Lock
}

func (w *IngestCollector) record(ctx context.Context, run model.IngestRun) {
	w.mu.Lock()
	w.last = &run
	w.mu.Unlock()
	if w.Recorder == nil {
		return
	}
	if err := w.Recorder.RecordRun(ctx, run); err != nil {
		slog.Warn("ingest: record run failed", "error", err)
	}
}

// LastRun returns the outcome of the most recent cycle in this process.
func (w *IngestCollector) LastRun(_ context.Context) (model.IngestRun, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return model.IngestRun{}, false, nil
	}
	return *w.last, true, nil
}

var _ Fetcher = (*hackernews.Client)(nil)
