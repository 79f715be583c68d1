package walkthrough

import (
	"fmt"

	"github.com/alfredjeanlab/folio/internal/model"
)

// State is the position of a walkthrough. ItemIndex is only meaningful in
// paginated sections and is zero everywhere else.
type State struct {
	Section   Section
	ItemIndex int
}

// Transition describes an applied action, reported to the OnTransition hook.
type Transition struct {
	Action Action
	From   State
	To     State
}

// Option configures a Controller.
type Option func(*Controller)

// OnTransition registers fn to be called after every state change. Page
// steps and section changes are reported; rejected actions and no-op
// advances at the last item are not.
func OnTransition(fn func(Transition)) Option {
	return func(c *Controller) { c.onTransition = fn }
}

// StartAt positions a new controller on s instead of the intro screen.
func StartAt(s Section) Option {
	return func(c *Controller) {
		if s.IsValid() {
			c.section = s
		}
	}
}

// Controller is the walkthrough state machine for one resolved portfolio.
// It is not safe for concurrent use; callers serialize actions per session.
type Controller struct {
	doc        *model.Portfolio
	section    Section
	experience *Pager[model.Experience]
	projects   *Pager[model.Project]
	visited    [numSections]bool

	onTransition func(Transition)
}

// New returns a controller for doc positioned on the intro screen.
func New(doc *model.Portfolio, opts ...Option) *Controller {
	if doc == nil {
		doc = &model.Portfolio{}
	}
	c := &Controller{
		doc:        doc,
		section:    SectionIntro,
		experience: NewPager(doc.Experience),
		projects:   NewPager(doc.Project),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.visited[c.section] = true
	return c
}

// Portfolio returns the document being walked through.
func (c *Controller) Portfolio() *model.Portfolio { return c.doc }

// Section returns the current section.
func (c *Controller) Section() Section { return c.section }

// State returns the current section and item index.
func (c *Controller) State() State {
	st := State{Section: c.section}
	if p := c.pager(c.section); p != nil {
		st.ItemIndex = p.Index()
	}
	return st
}

// Visited reports whether s has been shown at least once.
func (c *Controller) Visited(s Section) bool {
	return s.IsValid() && c.visited[s]
}

// Completed reports whether the End screen has been reached.
func (c *Controller) Completed() bool { return c.visited[SectionEnd] }

// CanAdvance reports whether "Next >" does anything on the current screen.
func (c *Controller) CanAdvance() bool {
	if _, ok := next(c.section, Advance()); !ok {
		return false
	}
	if p := c.pager(c.section); p != nil {
		return p.CanNext()
	}
	return true
}

// Can reports whether a is permitted by the transition table from the
// current section.
func (c *Controller) Can(a Action) bool {
	_, ok := next(c.section, a)
	return ok
}

// Apply performs a. It returns an error wrapping ErrInvalidTransition when
// the table has no row for the action; state is unchanged in that case.
// Advancing a paginated section past its last item is a no-op and returns nil.
func (c *Controller) Apply(a Action) error {
	to, ok := next(c.section, a)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, c.section)
	}

	from := c.State()
	if to == c.section {
		// Page step within a paginated section.
		p := c.pager(c.section)
		if p == nil || !p.Next() {
			return nil
		}
	} else {
		c.leave(c.section)
		c.section = to
		c.enter(to)
	}

	if c.onTransition != nil {
		c.onTransition(Transition{Action: a, From: from, To: c.State()})
	}
	return nil
}

// Proceed applies the "Proceed >" action.
func (c *Controller) Proceed() error { return c.Apply(Proceed()) }

// Select opens hub section s.
func (c *Controller) Select(s Section) error { return c.Apply(Select(s)) }

// Advance applies "Next >".
func (c *Controller) Advance() error { return c.Apply(Advance()) }

// Return applies "Return to Main Menu".
func (c *Controller) Return() error { return c.Apply(Return()) }

func (c *Controller) enter(s Section) {
	c.visited[s] = true
	if p := c.pager(s); p != nil {
		p.Reset()
	}
}

// leave discards the item index of a paginated section.
func (c *Controller) leave(s Section) {
	if p := c.pager(s); p != nil {
		p.Reset()
	}
}

// pagination is the capability set the controller needs from a Pager,
// independent of the item type.
type pagination interface {
	Len() int
	Index() int
	CanNext() bool
	Next() bool
	Reset()
}

func (c *Controller) pager(s Section) pagination {
	switch s {
	case SectionExperience:
		return c.experience
	case SectionProjects:
		return c.projects
	default:
		return nil
	}
}
