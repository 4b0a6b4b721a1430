package transport

import "github.com/banshee-data/velocity.report/internal/tuio/bundle"

// Listener receives each complete bundle handle as a Client decodes it
// (§4.5). Callbacks run on the caller's goroutine, same as Load.
type Listener interface {
	OnBundle(h *bundle.Handle)
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(h *bundle.Handle)

func (f ListenerFunc) OnBundle(h *bundle.Handle) { f(h) }

// Broadcaster fans a bundle handle out to listeners in registration order.
// Client embeds one to satisfy its side of §4.5. Adaptors embed one too:
// registering an adaptor as a Client's listener, while the adaptor itself
// exposes AddListener, makes the adaptor a client to its own downstream
// listeners, chaining into a pipeline.
type Broadcaster struct {
	listeners []Listener
}

// AddListener appends l to the notification order.
func (b *Broadcaster) AddListener(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Notify calls OnBundle on every registered listener, in registration
// order, on the caller's goroutine.
func (b *Broadcaster) Notify(h *bundle.Handle) {
	for _, l := range b.listeners {
		l.OnBundle(h)
	}
}
