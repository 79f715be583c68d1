// Package session holds per-viewer state: one access gate and, once a code
// resolves, one walkthrough controller over the resolved document.
//
// Sessions live in a Registry keyed by an unguessable ID. Actions on a
// session are serialized; sessions share nothing with each other. A
// background reaper drops sessions that have been idle longer than a TTL.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

// ErrNoWalkthrough is returned by Apply before a code has resolved.
var ErrNoWalkthrough = errors.New("session: no portfolio open")

// Session is one viewer's gate and walkthrough.
type Session struct {
	ID string

	gate *gate.Gate
	pub  events.Publisher

	mu       sync.Mutex
	ctrl     *walkthrough.Controller
	code     string
	created  time.Time
	lastSeen time.Time
	actions  int64
}

// View is a consistent snapshot for rendering. Screen is nil while the
// gate is showing.
type View struct {
	SessionID string
	Gate      gate.State
	Screen    *walkthrough.Screen
}

// Submit validates and resolves code. On success any previous walkthrough
// is replaced by a fresh one positioned on the intro screen; on failure the
// session stays on the gate.
func (s *Session) Submit(ctx context.Context, code string) error {
	res, err := s.gate.Submit(ctx, code)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err != nil {
		if !errors.Is(err, gate.ErrBusy) {
			s.ctrl = nil
		}
		return err
	}

	s.code = res.Code
	s.ctrl = walkthrough.New(res.Portfolio, walkthrough.OnTransition(s.publishTransition))
	return nil
}

// Open resolves a deep-linked code. It is the same as Submit.
func (s *Session) Open(ctx context.Context, code string) error {
	return s.Submit(ctx, code)
}

// Apply performs a walkthrough action.
func (s *Session) Apply(a walkthrough.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.ctrl == nil {
		return ErrNoWalkthrough
	}
	return s.ctrl.Apply(a)
}

// Reset discards the walkthrough and returns to an empty gate.
func (s *Session) Reset() error {
	if err := s.gate.Reset(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.ctrl = nil
	s.code = ""
	return nil
}

// View returns the current snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{SessionID: s.ID, Gate: s.gate.State()}
	if s.ctrl != nil {
		scr := s.ctrl.Screen()
		v.Screen = &scr
	}
	return v
}

// Code returns the code of the open walkthrough, or "".
func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

func (s *Session) touchLocked() {
	s.lastSeen = time.Now()
	s.actions++
}

// publishTransition runs under s.mu from inside Controller.Apply.
func (s *Session) publishTransition(tr walkthrough.Transition) {
	if s.pub == nil {
		return
	}
	ctx := context.Background()
	ev := events.WalkthroughSection{
		SessionID: s.ID,
		Code:      s.code,
		Section:   tr.To.Section.Slug(),
		ItemIndex: tr.To.ItemIndex,
		Action:    tr.Action.String(),
	}
	if err := s.pub.Publish(ctx, events.TopicWalkthroughSection, ev); err != nil {
		slog.Warn("session: publish section event", "session", s.ID, "err", err)
	}

	if tr.To.Section != walkthrough.SectionEnd || tr.From.Section == walkthrough.SectionEnd {
		return
	}
	var visited []string
	for _, sec := range walkthrough.Sections {
		if s.ctrl != nil && s.ctrl.Visited(sec) {
			visited = append(visited, sec.Slug())
		}
	}
	done := events.WalkthroughCompleted{SessionID: s.ID, Code: s.code, Visited: visited}
	if err := s.pub.Publish(ctx, events.TopicWalkthroughCompleted, done); err != nil {
		slog.Warn("session: publish completed event", "session", s.ID, "err", err)
	}
}
