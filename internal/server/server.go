// Package server exposes the push channel and small read endpoints over
// HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/aniketraj30/hackernews-scraper/internal/hub"
	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

// StoryReader is the windowed read side of the record store.
type StoryReader interface {
	CountSince(ctx context.Context, d time.Duration) (int, error)
	ListSince(ctx context.Context, d time.Duration) ([]model.Story, error)
}

// RunSource reports the most recent ingest run.
type RunSource interface {
	LastRun(ctx context.Context) (model.IngestRun, bool, error)
}

// Options tune the server; zero values get defaults in New.
type Options struct {
	HandshakeWindow time.Duration // window counted in the on-message reply
	DefaultWindow   time.Duration // default ?since for /stories
	WriteTimeout    time.Duration // per-message websocket write deadline
	QueryTimeout    time.Duration
}

type Server struct {
	router   *mux.Router
	stories  StoryReader
	registry *hub.Registry
	runs     RunSource
	upgrader websocket.Upgrader
	opts     Options
}

// New builds the server. runs may be nil.
func New(stories StoryReader, registry *hub.Registry, runs RunSource, opts Options) *Server {
	if opts.HandshakeWindow <= 0 {
		opts.HandshakeWindow = 5 * time.Minute
	}
	if opts.DefaultWindow <= 0 {
		opts.DefaultWindow = time.Minute
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	s := &Server{
		router:   mux.NewRouter(),
		stories:  stories,
		registry: registry,
		runs:     runs,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and closes every open subscriber.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		s.registry.CloseAll()
	}()
	err := httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		slog.Error("server: listen failed", "addr", addr, "error", err)
	}
	return err
}
