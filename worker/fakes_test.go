package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

type fakeFetcher struct {
	items []model.Candidate
	err   error
	calls int
}

func (f *fakeFetcher) FetchAndParse(context.Context) ([]model.Candidate, error) {
	f.calls++
	return f.items, f.err
}

// fakeWriter dedups by title and fails for titles listed in failOn.
type fakeWriter struct {
	mu     sync.Mutex
	failOn map[string]bool
	rows   map[string]model.Candidate
	order  []string
}

func newFakeWriter(failOn ...string) *fakeWriter {
	w := &fakeWriter{failOn: map[string]bool{}, rows: map[string]model.Candidate{}}
	for _, t := range failOn {
		w.failOn[t] = true
	}
	return w
}

func (w *fakeWriter) InsertIfAbsent(_ context.Context, c model.Candidate) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failOn[c.Title] {
		return false, errors.New("connection reset")
	}
	if _, ok := w.rows[c.Title]; ok {
		return false, nil
	}
	w.rows[c.Title] = c
	w.order = append(w.order, c.Title)
	return true, nil
}

type fakeLister struct {
	stories []model.Story
	err     error
	windows []time.Duration
}

func (f *fakeLister) ListSince(_ context.Context, d time.Duration) ([]model.Story, error) {
	f.windows = append(f.windows, d)
	return f.stories, f.err
}

type fakeFanout struct {
	payloads [][]byte
	subs     int
}

func (f *fakeFanout) Broadcast(_ context.Context, p []byte) (int, int) {
	f.payloads = append(f.payloads, p)
	return f.subs, 0
}

func (f *fakeFanout) Len() int { return f.subs }

type fakeRecorder struct {
	runs []model.IngestRun
}

func (r *fakeRecorder) RecordRun(_ context.Context, run model.IngestRun) error {
	r.runs = append(r.runs, run)
	return nil
}
