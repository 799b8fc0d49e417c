package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker in its own goroutine and blocks until ctx is
// cancelled and all workers have returned. A worker that fails early does
// not stop its siblings; the first such error is returned after shutdown.
func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs <- fmt.Errorf("worker %T panicked: %v", w, r)
				}
			}()
			if err := w.Start(ctx); err != nil {
				slog.Error("manager: worker stopped", "worker", fmt.Sprintf("%T", w), "error", err)
				errs <- err
			}
		}(w)
	}
	// Wait for context cancellation then wait for workers to exit.
	<-ctx.Done()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
