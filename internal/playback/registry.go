package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymcoach/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry holds the open playback sessions of the HTTP API, keyed by a
// random session ID. Every Open starts from the initial state.
type Registry struct {
	duration int
	interval time.Duration
	idleTTL  time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	planID string
	driver *Driver
}

// NewRegistry creates a registry whose sessions count down duration ticks of
// the given interval per exercise. Sessions idle for longer than idleTTL are
// closed by Sweep.
func NewRegistry(duration int, interval, idleTTL time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		duration: duration,
		interval: interval,
		idleTTL:  idleTTL,
		log:      log,
		sessions: make(map[string]*entry),
	}
}

// Open creates a fresh session for plan and returns its ID.
func (r *Registry) Open(plan models.Plan) (string, *Driver, error) {
	s, err := NewSession(plan, r.duration)
	if err != nil {
		return "", nil, err
	}
	d := NewDriver(s, r.interval)
	id := uuid.NewString()

	r.mu.Lock()
	r.sessions[id] = &entry{planID: plan.ID, driver: d}
	r.mu.Unlock()

	r.log.Debug("playback session opened", "session", id, "plan", plan.ID)
	return id, d, nil
}

// Get returns the driver of an open session.
func (r *Registry) Get(id string) (*Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.driver, nil
}

// Close tears down one session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.driver.Close()
	r.log.Debug("playback session closed", "session", id, "plan", e.planID)
	return nil
}

// CloseAll tears down every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range all {
		e.driver.Close()
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions that are paused and idle since before now-idleTTL.
// Returns the number closed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*entry
	for id, e := range r.sessions {
		if e.driver.State().Running {
			continue
		}
		if e.driver.LastActivity().Before(cutoff) {
			stale = append(stale, e)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		e.driver.Close()
	}
	if len(stale) > 0 {
		r.log.Info("closed idle playback sessions", "count", len(stale))
	}
	return len(stale)
}

// Run sweeps idle sessions every interval until ctx is done, then closes all.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
