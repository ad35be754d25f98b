// Package scoreboard serves a cached copy of the relay leaderboard over HTTP.
package scoreboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"tether/internal/leaderboard"
)

// Source loads the ranked table. *leaderboard.Service satisfies it.
type Source interface {
	Fetch(ctx context.Context) ([]leaderboard.Entry, error)
}

// Mirror keeps the latest successful fetch from a Source.
type Mirror struct {
	src      Source
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time

	mu      sync.RWMutex
	entries []leaderboard.Entry
	updated time.Time
	lastErr error
}

// NewMirror returns a mirror refreshed every interval.
func NewMirror(src Source, interval time.Duration, logger *log.Logger) *Mirror {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Mirror{
		src:      src,
		interval: interval,
		timeout:  interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh fetches the table once. A failed fetch keeps the previous table.
func (m *Mirror) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	entries, err := m.src.Fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = err
	if err != nil {
		return err
	}
	m.entries = entries
	m.updated = m.now().UTC()
	return nil
}

// Run refreshes immediately and then on every tick until ctx is done.
func (m *Mirror) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		if err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
			m.logger.Printf("scoreboard: refresh: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Snapshot returns the cached table and when it was fetched.
func (m *Mirror) Snapshot() ([]leaderboard.Entry, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries, m.updated
}

// RegisterRoutes mounts the mirror's endpoints on r.
func (m *Mirror) RegisterRoutes(r chi.Router) {
	r.Get("/scores", m.scores)
	r.Get("/healthz", m.health)
}

type scoresResponse struct {
	Updated *time.Time          `json:"updated,omitempty"`
	Entries []leaderboard.Entry `json:"entries"`
}

func (m *Mirror) scores(w http.ResponseWriter, r *http.Request) {
	entries, updated := m.Snapshot()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if n < len(entries) {
			entries = entries[:n]
		}
	}
	resp := scoresResponse{Entries: entries}
	if resp.Entries == nil {
		resp.Entries = []leaderboard.Entry{}
	}
	if !updated.IsZero() {
		resp.Updated = &updated
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

// health is unavailable until the first successful fetch.
func (m *Mirror) health(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	resp := healthResponse{Status: "ok", Entries: len(m.entries)}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	ready := !m.updated.IsZero()
	m.mu.RUnlock()

	code := http.StatusOK
	if !ready {
		resp.Status = "starting"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
