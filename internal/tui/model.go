// Package tui is a terminal front end for the walkthrough. It drives the
// same session (gate plus controller) as the web viewer.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/session"
	"github.com/alfredjeanlab/folio/internal/ui"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

// rejectedNotice is shown when a key maps to an action the current screen
// does not allow.
const rejectedNotice = "Not available on this screen."

// resolvedMsg carries the outcome of a gate submission back into the
// update loop.
type resolvedMsg struct {
	err error
}

// Model is the bubbletea model for one terminal session.
type Model struct {
	ctx   context.Context
	sess  *session.Session
	keys  KeyMap
	theme ui.Theme
	input textinput.Model

	submitting bool
	notice     string
	width      int
	quitting   bool
}

// New returns a model on the gate screen. When code is non-empty it is
// submitted as soon as the program starts, like a deep link.
func New(ctx context.Context, sess *session.Session, code string) Model {
	in := textinput.New()
	in.Placeholder = walkthrough.CodePlaceholder
	in.Prompt = "> "
	in.Width = 24
	in.SetValue(code)
	in.Focus()
	return Model{
		ctx:   ctx,
		sess:  sess,
		keys:  DefaultKeyMap,
		theme: ui.DefaultTheme(),
		input: in,
	}
}

func (m Model) Init() tea.Cmd {
	if m.input.Value() != "" {
		return func() tea.Msg { return startMsg{} }
	}
	return textinput.Blink
}

// startMsg submits a code given on the command line.
type startMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case startMsg:
		return m.submit()

	case resolvedMsg:
		m.submitting = false
		if msg.err == nil {
			m.input.Blur()
			m.input.SetValue("")
		} else {
			m.input.Focus()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.notice = ""
		if m.sess.View().Screen == nil {
			return m.updateGate(msg)
		}
		return m.updateWalkthrough(msg)
	}
	return m, nil
}

func (m Model) updateGate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.submit()
	case msg.Type == tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a resolution unless one is already running. The gate
// itself also refuses overlapping submissions.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	sess, ctx, code := m.sess, m.ctx, m.input.Value()
	return m, func() tea.Msg {
		return resolvedMsg{err: sess.Submit(ctx, code)}
	}
}

func (m Model) updateWalkthrough(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var a walkthrough.Action
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reset):
		if err := m.sess.Reset(); err == nil {
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.sess.View().Screen.Section == walkthrough.SectionIntro {
			a = walkthrough.Proceed()
		} else {
			a = walkthrough.Advance()
		}
	case key.Matches(msg, m.keys.Next):
		a = walkthrough.Advance()
	case key.Matches(msg, m.keys.Experience):
		a = walkthrough.Select(walkthrough.SectionExperience)
	case key.Matches(msg, m.keys.Projects):
		a = walkthrough.Select(walkthrough.SectionProjects)
	case key.Matches(msg, m.keys.Education):
		a = walkthrough.Select(walkthrough.SectionEducation)
	case key.Matches(msg, m.keys.Menu):
		a = walkthrough.Return()
	default:
		return m, nil
	}
	if err := m.sess.Apply(a); errors.Is(err, walkthrough.ErrInvalidTransition) {
		m.notice = rejectedNotice
	}
	return m, nil
}

// Submitting reports whether a resolution is in flight.
func (m Model) Submitting() bool { return m.submitting }

// GateStatus returns the status of the session's gate.
func (m Model) GateStatus() gate.Status { return m.sess.View().Gate.Status }
