package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/folio/internal/client"
	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/idgen"
)

// Entry is a listing row for one live session.
type Entry struct {
	ID       string    `json:"id"`
	Code     string    `json:"code,omitempty"`
	Section  string    `json:"section"`
	Created  time.Time `json:"created"`
	LastSeen time.Time `json:"last_seen"`
	IdleSecs float64   `json:"idle_secs"`
	Actions  int64     `json:"actions"`
}

// ReaperConfig configures the background idle-session reaper.
type ReaperConfig struct {
	// IdleTTL is how long a session may go untouched before it is dropped.
	// Default: 30 minutes.
	IdleTTL time.Duration

	// SweepInterval is how often the reaper scans for idle sessions.
	// Default: 60 seconds.
	SweepInterval time.Duration

	// OnExpire is called for each dropped session, outside the lock.
	OnExpire func(id string)
}

// Registry owns every live session.
type Registry struct {
	resolver client.Resolver
	pub      events.Publisher

	mu       sync.RWMutex
	sessions map[string]*Session

	reaperStop chan struct{}
	reaperDone chan struct{}
}

// NewRegistry returns an empty registry whose sessions resolve codes with r
// and publish walkthrough events to pub. pub may be nil.
func NewRegistry(r client.Resolver, pub events.Publisher) *Registry {
	return &Registry{
		resolver: r,
		pub:      pub,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session on the gate screen.
func (r *Registry) Create() (*Session, error) {
	id, err := idgen.SessionID()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	now := time.Now()
	s := &Session{
		ID:       id,
		gate:     gate.New(r.resolver),
		pub:      r.pub,
		created:  now,
		lastSeen: now,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. created reports which happened.
func (r *Registry) GetOrCreate(id string) (s *Session, created bool, err error) {
	if id != "" {
		if s, ok := r.Get(id); ok {
			return s, false, nil
		}
	}
	s, err = r.Create()
	return s, err == nil, err
}

// Delete drops a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns a snapshot of all sessions, most recently active first.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	now := time.Now()
	entries := make([]Entry, 0, len(all))
	for _, s := range all {
		s.mu.Lock()
		section := "gate"
		if s.ctrl != nil {
			section = s.ctrl.Section().Slug()
		}
		entries = append(entries, Entry{
			ID:       s.ID,
			Code:     s.code,
			Section:  section,
			Created:  s.created,
			LastSeen: s.lastSeen,
			IdleSecs: now.Sub(s.lastSeen).Seconds(),
			Actions:  s.actions,
		})
		s.mu.Unlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries
}

// StartReaper launches a background goroutine that periodically drops idle
// sessions. Call Stop() to shut it down.
func (r *Registry) StartReaper(cfg *ReaperConfig) {
	if cfg == nil {
		cfg = &ReaperConfig{}
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 60 * time.Second
	}

	r.reaperStop = make(chan struct{})
	r.reaperDone = make(chan struct{})

	go r.reapLoop(cfg)
	slog.Info("session: reaper started",
		"idle_ttl", cfg.IdleTTL,
		"sweep_interval", cfg.SweepInterval)
}

// Stop shuts down the reaper goroutine.
func (r *Registry) Stop() {
	if r.reaperStop != nil {
		close(r.reaperStop)
		<-r.reaperDone
		r.reaperStop = nil
		r.reaperDone = nil
	}
}

func (r *Registry) reapLoop(cfg *ReaperConfig) {
	defer close(r.reaperDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.reaperStop:
			return
		case <-ticker.C:
			r.sweep(cfg, time.Now())
		}
	}
}

func (r *Registry) sweep(cfg *ReaperConfig, now time.Time) {
	var expired []string

	r.mu.Lock()
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > cfg.IdleTTL {
			delete(r.sessions, id)
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		slog.Debug("session: reaped idle session", "session", id, "ttl", cfg.IdleTTL)
		if cfg.OnExpire != nil {
			cfg.OnExpire(id)
		}
	}
}
