package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Broadcaster periodically pushes recently stored stories to every
// subscriber. Nothing is sent when the window is empty.
type Broadcaster struct {
	Store    StoryLister
	Hub      Fanout
	Interval time.Duration
	Window   time.Duration
}

func (w *Broadcaster) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := w.RunOnce(ctx); err != nil {
				slog.Error("broadcast: cycle failed", "error", err)
			}
		}
	}
}

// RunOnce queries the trailing window and, if it is non-empty, sends one
// JSON array to all subscribers. It returns the number of stories sent.
func (w *Broadcaster) RunOnce(ctx context.Context) (int, error) {
	window := w.Window
	if window <= 0 {
		window = time.Minute
	}
	stories, err := w.Store.ListSince(ctx, window)
	if err != nil {
		return 0, err
	}
	if len(stories) == 0 {
		return 0, nil
	}
	payload, err := json.Marshal(stories)
	if err != nil {
		return 0, err
	}
	delivered, failed := w.Hub.Broadcast(ctx, payload)
	slog.Info("broadcast: pushed stories", "stories", len(stories), "delivered", delivered, "failed", failed)
	return len(stories), nil
}
