// Package tuioerr defines the single kind-tagged error type shared across
// the TUIO 2.0 processing packages, mirroring the component-scoped error
// wrapping style used throughout the sensor packages this module is built
// from (see internal/lidar/network for the precedent).
package tuioerr

import "fmt"

// Kind classifies a TUIO error for callers that want to branch on failure
// class without string-matching the message (errors.Is against an *Error
// carrying one of the kinds below).
type Kind int

const (
	// KindParse covers malformed OSC argument vectors or type strings.
	KindParse Kind = iota
	// KindEnvelope covers a bundle missing its frame or alive envelope.
	KindEnvelope
	// KindGraphTopology covers an association/skeleton graph that violates
	// its required shape (not linear, not a trunk-tree, no unique origin).
	KindGraphTopology
	// KindLTAUnsupported covers a strict-mode rejection of a linked-tree
	// association message.
	KindLTAUnsupported
	// KindNet covers socket bind/recv/send failures.
	KindNet
	// KindConfig covers invalid runtime configuration.
	KindConfig
	// KindAutoconf covers a primitive that could not be placed because no
	// connected pivot exists.
	KindAutoconf
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindEnvelope:
		return "envelope"
	case KindGraphTopology:
		return "graph-topology"
	case KindLTAUnsupported:
		return "lta-unsupported"
	case KindNet:
		return "net"
	case KindConfig:
		return "config"
	case KindAutoconf:
		return "autoconf"
	default:
		return "unknown"
	}
}

// Error is the shared error type. Component is the package reporting the
// failure (e.g. "osc", "multiplex", "autoconfig") so log lines and
// errors.Is-based branching can both work off the same value.
type Error struct {
	Kind      Kind
	Component string
	Reason    string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Component, e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, tuioerr.New(tuioerr.KindParse, "", "")) style
// checks: a target *Error matches any wrapped *Error of the same Kind,
// whatever its Component and Reason. A bare Kind is not an error and
// cannot be a target.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an *Error with no underlying cause.
func New(kind Kind, component, reason string) *Error {
	return &Error{Kind: kind, Component: component, Reason: reason}
}

// Wrap constructs an *Error around an underlying cause.
func Wrap(kind Kind, component, reason string, err error) *Error {
	return &Error{Kind: kind, Component: component, Reason: reason, Err: err}
}
