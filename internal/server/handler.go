package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aniketraj30/hackernews-scraper/internal/hub"
	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

const maxInboundMessage = 64 << 10

// handleWS upgrades to a websocket subscriber. Every inbound message,
// whatever its content, is answered with the recent story count.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		slog.Warn("ws: upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	ws.SetReadLimit(maxInboundMessage)
	conn := hub.NewConn(ws, s.opts.WriteTimeout)
	s.registry.Add(conn)
	slog.Info("ws: subscriber connected", "id", conn.ID(), "remote", r.RemoteAddr, "subscribers", s.registry.Len())

	defer func() {
		s.registry.Remove(conn)
		_ = conn.Close()
		slog.Info("ws: subscriber disconnected", "id", conn.ID(), "subscribers", s.registry.Len())
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
		s.replyCount(conn)
	}
}

func (s *Server) replyCount(conn *hub.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.QueryTimeout)
	defer cancel()

	n, err := s.stories.CountSince(ctx, s.opts.HandshakeWindow)
	if err != nil {
		slog.Error("ws: count stories failed", "id", conn.ID(), "error", err)
		return
	}
	b, err := json.Marshal(countNotice(s.opts.HandshakeWindow, n))
	if err != nil {
		return
	}
	if err := conn.Send(ctx, b); err != nil {
		slog.Warn("ws: reply failed", "id", conn.ID(), "error", &hub.DeliveryError{Subscriber: conn.ID(), Err: err})
	}
}

// countNotice renders e.g. "Stories in last 5 minutes: 12".
func countNotice(window time.Duration, n int) model.Notice {
	return model.Notice{Message: fmt.Sprintf("Stories in last %s: %d", humanWindow(window), n)}
}

func humanWindow(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	default:
		return plural(int64(d/time.Second), "second")
	}
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	window := s.opts.DefaultWindow
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			http.Error(w, "invalid since duration", http.StatusBadRequest)
			return
		}
		window = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.QueryTimeout)
	defer cancel()

	items, err := s.stories.ListSince(ctx, window)
	if err != nil {
		slog.Error("server: list stories failed", "error", err)
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []model.Story{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":      "ok",
		"subscribers": s.registry.Len(),
	}
	if s.runs != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.opts.QueryTimeout)
		defer cancel()
		if run, ok, err := s.runs.LastRun(ctx); err != nil {
			slog.Warn("server: last run lookup failed", "error", err)
		} else if ok {
			resp["last_ingest"] = run
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
