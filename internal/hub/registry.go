// Package hub tracks live push subscribers and fans payloads out to them.
package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Subscriber is one live push channel. Implementations must be comparable
// (pointer types) since the handle itself is the identity.
type Subscriber interface {
	ID() string
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// DeliveryError reports a failed push to one subscriber.
type DeliveryError struct {
	Subscriber string
	Err        error
}

func (e *DeliveryError) Error() string {
	return "hub: deliver to " + e.Subscriber + ": " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ErrClosed is returned by Send on a subscriber that has already closed.
var ErrClosed = errors.New("hub: subscriber closed")

// Registry is the set of connected subscribers. All methods are safe for
// concurrent use; ForEach iterates a snapshot so Add/Remove may run while an
// iteration is in progress.
type Registry struct {
	mu   sync.RWMutex
	subs map[Subscriber]struct{}
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[Subscriber]struct{})}
}

// Add registers s.
func (r *Registry) Add(s Subscriber) {
	r.mu.Lock()
	r.subs[s] = struct{}{}
	r.mu.Unlock()
}

// Remove unregisters s and reports whether it was present.
func (r *Registry) Remove(s Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[s]; !ok {
		return false
	}
	delete(r.subs, s)
	return true
}

// Len returns the number of registered subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *Registry) snapshot() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Subscriber, 0, len(r.subs))
	for s := range r.subs {
		out = append(out, s)
	}
	return out
}

// ForEach calls fn for every subscriber registered when the call began.
// A subscriber for which fn fails is removed and closed; iteration always
// continues. It returns how many calls succeeded and failed.
func (r *Registry) ForEach(fn func(Subscriber) error) (ok, failed int) {
	for _, s := range r.snapshot() {
		if err := fn(s); err != nil {
			failed++
			derr := &DeliveryError{Subscriber: s.ID(), Err: err}
			slog.Warn("hub: dropping subscriber", "id", s.ID(), "error", derr)
			r.Remove(s)
			_ = s.Close()
			continue
		}
		ok++
	}
	return ok, failed
}

// Broadcast sends the identical payload to every subscriber.
func (r *Registry) Broadcast(ctx context.Context, payload []byte) (delivered, failed int) {
	return r.ForEach(func(s Subscriber) error {
		return s.Send(ctx, payload)
	})
}

// CloseAll closes and removes every subscriber.
func (r *Registry) CloseAll() {
	for _, s := range r.snapshot() {
		r.Remove(s)
		_ = s.Close()
	}
}
