// Package bundle implements the bundle handle and bundle stack (§4.4): the
// ordered, owning container a Client produces one per complete OSC bundle
// and passes down an adaptor chain.
package bundle

import (
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

// Handle is an ordered, owning container of message clones. Appending
// stores a clone so later mutation of the caller's message cannot alias
// the handle's contents.
type Handle struct {
	messages []model.Message
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Append clones msg and adds it to the end of the handle, O(1) amortized.
func (h *Handle) Append(msg model.Message) {
	h.messages = append(h.messages, msg.Clone())
}

// Len returns the number of messages in the handle.
func (h *Handle) Len() int { return len(h.messages) }

// At returns the message at position i.
func (h *Handle) At(i int) model.Message { return h.messages[i] }

// Messages returns the handle's underlying message slice. Callers must not
// mutate the returned slice's elements in place; clone first.
func (h *Handle) Messages() []model.Message { return h.messages }

// Clone deep-clones every message into a new handle.
func (h *Handle) Clone() *Handle {
	clone := &Handle{messages: make([]model.Message, len(h.messages))}
	for i, m := range h.messages {
		clone.messages[i] = m.Clone()
	}
	return clone
}

// Frame returns the handle's frame envelope, if present.
func (h *Handle) Frame() (*model.Frame, bool) {
	for _, m := range h.messages {
		if f, ok := m.(*model.Frame); ok {
			return f, true
		}
	}
	return nil, false
}

// Alive returns the handle's alive envelope, if present.
func (h *Handle) Alive() (*model.Alive, bool) {
	for _, m := range h.messages {
		if a, ok := m.(*model.Alive); ok {
			return a, true
		}
	}
	return nil, false
}

// GetMessageOfType does an O(n) runtime-type search and returns every
// message in h assignable to T. Go methods cannot be generic, so this is a
// package-level function rather than a Handle method.
func GetMessageOfType[T model.Message](h *Handle) []T {
	var out []T
	for _, m := range h.messages {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
