package walkthrough

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action is not permitted from the
// current section. The controller state is left unchanged.
var ErrInvalidTransition = errors.New("invalid walkthrough transition")

// ActionKind enumerates the user actions the walkthrough reacts to.
type ActionKind int

const (
	// ActionProceed leaves the intro screen ("Proceed >").
	ActionProceed ActionKind = iota
	// ActionSelect opens a hub section from the Main Menu.
	ActionSelect
	// ActionAdvance is "Next >": page forward, or step along the closing chain.
	ActionAdvance
	// ActionReturn is "Return to Main Menu".
	ActionReturn
)

// String returns the action name.
func (k ActionKind) String() string {
	switch k {
	case ActionProceed:
		return "proceed"
	case ActionSelect:
		return "select"
	case ActionAdvance:
		return "advance"
	case ActionReturn:
		return "return"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a single user action. Target is only meaningful for ActionSelect.
type Action struct {
	Kind   ActionKind
	Target Section
}

// Proceed returns the "Proceed >" action.
func Proceed() Action { return Action{Kind: ActionProceed} }

// Select returns the action opening hub section s.
func Select(s Section) Action { return Action{Kind: ActionSelect, Target: s} }

// Advance returns the "Next >" action.
func Advance() Action { return Action{Kind: ActionAdvance} }

// Return returns the "Return to Main Menu" action.
func Return() Action { return Action{Kind: ActionReturn} }

// String formats the action for logs and errors.
func (a Action) String() string {
	if a.Kind == ActionSelect {
		return "select(" + a.Target.Slug() + ")"
	}
	return a.Kind.String()
}

// edge is one row of the transition table. For ActionSelect the row is
// keyed by the target as well; for the other actions target must be zero.
type edge struct {
	from   Section
	action ActionKind
	target Section
	to     Section
}

// transitions is the complete set of legal moves. A paginated section that
// advances to itself is a page step handled by the controller.
var transitions = []edge{
	{from: SectionIntro, action: ActionProceed, to: SectionMainMenu},

	{from: SectionMainMenu, action: ActionSelect, target: SectionExperience, to: SectionExperience},
	{from: SectionMainMenu, action: ActionSelect, target: SectionProjects, to: SectionProjects},
	{from: SectionMainMenu, action: ActionSelect, target: SectionEducation, to: SectionEducation},
	{from: SectionMainMenu, action: ActionAdvance, to: SectionCertifications},

	{from: SectionExperience, action: ActionAdvance, to: SectionExperience},
	{from: SectionExperience, action: ActionReturn, to: SectionMainMenu},
	{from: SectionProjects, action: ActionAdvance, to: SectionProjects},
	{from: SectionProjects, action: ActionReturn, to: SectionMainMenu},
	{from: SectionEducation, action: ActionReturn, to: SectionMainMenu},

	{from: SectionCertifications, action: ActionAdvance, to: SectionEnd},
}

type edgeKey struct {
	from   Section
	action ActionKind
	target Section
}

var transitionIndex = func() map[edgeKey]Section {
	m := make(map[edgeKey]Section, len(transitions))
	for _, e := range transitions {
		k := edgeKey{from: e.from, action: e.action, target: e.target}
		if _, dup := m[k]; dup {
			panic(fmt.Sprintf("walkthrough: duplicate transition %v", k))
		}
		m[k] = e.to
	}
	return m
}()

// next looks up the destination of a from s. Targets are ignored for
// everything except ActionSelect.
func next(s Section, a Action) (Section, bool) {
	k := edgeKey{from: s, action: a.Kind}
	if a.Kind == ActionSelect {
		k.target = a.Target
	}
	to, ok := transitionIndex[k]
	return to, ok
}

// Allowed returns the actions permitted from s by the table, in table order.
// It does not consider pagination limits; see Controller.CanAdvance.
func Allowed(s Section) []Action {
	var out []Action
	for _, e := range transitions {
		if e.from != s {
			continue
		}
		a := Action{Kind: e.action}
		if e.action == ActionSelect {
			a.Target = e.target
		}
		out = append(out, a)
	}
	return out
}
