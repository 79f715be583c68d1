// Package gate implements the access-code screen: it validates a code,
// resolves it through a client.Resolver and reports one of three
// user-facing failures.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alfredjeanlab/folio/internal/client"
	"github.com/alfredjeanlab/folio/internal/model"
)

// ErrBusy is returned when a submission is made while another is in
// flight. The second submission is dropped, not queued.
var ErrBusy = errors.New("gate: submission already in progress")

// Status is the phase of the gate.
type Status int

const (
	Idle Status = iota
	Submitting
	Failed
	Resolved
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Failed:
		return "error"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrorKind classifies a failed submission.
type ErrorKind int

const (
	// InvalidFormat is detected locally; the resolver is never called.
	InvalidFormat ErrorKind = iota + 1
	// NotFound means the service has no portfolio for the code.
	NotFound
	// Unavailable covers transport failures and unexpected service errors.
	Unavailable
)

// User-facing messages, one per ErrorKind.
const (
	MessageInvalidFormat = "Code must be exactly 6 alphanumeric characters."
	MessageNotFound      = "Access code not found."
	MessageUnavailable   = "Portfolio service is unavailable. Please try again."
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid_format"
	case NotFound:
		return "not_found"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Message returns the text shown under the code input.
func (k ErrorKind) Message() string {
	switch k {
	case InvalidFormat:
		return MessageInvalidFormat
	case NotFound:
		return MessageNotFound
	default:
		return MessageUnavailable
	}
}

// Error is a failed submission. It is returned from Submit and kept as the
// gate's state until the next submission.
type Error struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Message() + " (" + e.Err.Error() + ")"
	}
	return e.Kind.Message()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or 0 when err is not a gate error.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// State is a snapshot of the gate.
type State struct {
	Status Status
	// Code is the last submitted code, trimmed, as typed.
	Code string
	// Err is set when Status is Failed.
	Err *Error
	// Resolution is set when Status is Resolved.
	Resolution *client.Resolution
}

// Gate guards a walkthrough behind an access code. It is safe for
// concurrent use; at most one resolution is in flight at a time.
type Gate struct {
	resolver client.Resolver

	mu    sync.Mutex
	state State
}

// New returns an idle gate that resolves codes with r.
func New(r client.Resolver) *Gate {
	return &Gate{resolver: r}
}

// State returns the current snapshot.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Submit validates and resolves code. Surrounding whitespace is ignored.
// A malformed code fails with InvalidFormat without calling the resolver.
// While a submission is in flight further calls return ErrBusy and leave
// the state untouched.
func (g *Gate) Submit(ctx context.Context, code string) (*client.Resolution, error) {
	code = strings.TrimSpace(code)

	g.mu.Lock()
	if g.state.Status == Submitting {
		g.mu.Unlock()
		return nil, ErrBusy
	}
	if err := model.ValidateCode(code); err != nil {
		ge := &Error{Kind: InvalidFormat, Code: code, Err: err}
		g.state = State{Status: Failed, Code: code, Err: ge}
		g.mu.Unlock()
		return nil, ge
	}
	g.state = State{Status: Submitting, Code: code}
	g.mu.Unlock()

	res, err := g.resolver.Resolve(ctx, code)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		ge := classify(code, err)
		g.state = State{Status: Failed, Code: code, Err: ge}
		return nil, ge
	}
	g.state = State{Status: Resolved, Code: code, Resolution: res}
	return res, nil
}

// Open resolves a code taken from a deep link. It behaves exactly like
// Submit.
func (g *Gate) Open(ctx context.Context, code string) (*client.Resolution, error) {
	return g.Submit(ctx, code)
}

// Reset returns the gate to Idle, discarding any resolution. A reset during
// a submission is refused with ErrBusy.
func (g *Gate) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Status == Submitting {
		return ErrBusy
	}
	g.state = State{}
	return nil
}

func classify(code string, err error) *Error {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return &Error{Kind: NotFound, Code: code, Err: err}
	default:
		return &Error{Kind: Unavailable, Code: code, Err: err}
	}
}
