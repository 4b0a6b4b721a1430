// Package recognize implements the two recognition collectors of §4.10: a
// unistroke collector that recognizes one contact's path in isolation, and
// a multistroke collector that clusters several concurrent contacts into
// one gesture by proximity and flushes on inactivity.
package recognize

import (
	"sort"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
)

// Point is one sample of a stroke: a 2D position stamped with the bundle's
// frame time.
type Point struct {
	Time model.Timetag
	Pos  model.Point2D
}

// Stroke is an ordered, increasing-timetag sequence of points (§4.10
// ordering guarantee).
type Stroke []Point

// Matcher scores a set of strokes against a recognizer's trained gesture
// set (§4.10: "a matcher interface that exposes recognize(strokes) ->
// ordered_scores").
type Matcher interface {
	Name() string
	Recognize(strokes []Stroke) []float64
}

func insertSorted(s Stroke, p Point) Stroke {
	i := sort.Search(len(s), func(i int) bool { return !s[i].Time.Before(p.Time) })
	s = append(s, Point{})
	copy(s[i+1:], s[i:])
	s[i] = p
	return s
}

// strokeKey identifies one in-progress stroke by the user manipulating it
// and the contact's session id.
type strokeKey struct {
	user    model.UserID
	session model.SessionID
}

// Unistroke collects one contact's stroke in isolation and recognizes it
// once the contact disappears from the alive set.
type Unistroke struct {
	transport.Broadcaster

	matcher Matcher
	buffers map[strokeKey]Stroke
	alive   map[model.SessionID]struct{}
}

// NewUnistroke constructs a unistroke collector driven by matcher.
func NewUnistroke(matcher Matcher) *Unistroke {
	return &Unistroke{
		matcher: matcher,
		buffers: make(map[strokeKey]Stroke),
		alive:   make(map[model.SessionID]struct{}),
	}
}

// OnBundle implements transport.Listener.
func (u *Unistroke) OnBundle(h *bundle.Handle) {
	u.Notify(u.Process(h))
}

// Process appends samples to in-progress strokes, recognizes and emits
// gesture_identification for any contact that dropped out of this bundle's
// alive delta, and forwards every original message unchanged (§4.10).
func (u *Unistroke) Process(h *bundle.Handle) *bundle.Handle {
	var frameTime model.Timetag
	if frame, ok := h.Frame(); ok {
		frameTime = frame.Time
	}

	out := bundle.NewHandle()
	for i := 0; i < h.Len(); i++ {
		msg := h.At(i)
		out.Append(msg)

		switch m := msg.(type) {
		case *model.Pointer:
			key := strokeKey{user: m.Tu.UserID(), session: m.Session}
			u.buffers[key] = insertSorted(u.buffers[key], Point{Time: frameTime, Pos: m.Position2D()})
		case *model.Alive:
			u.flushDropped(m.Set(), out)
		}
	}
	return out
}

func (u *Unistroke) flushDropped(newAlive map[model.SessionID]struct{}, out *bundle.Handle) {
	for session := range u.alive {
		if _, stillAlive := newAlive[session]; stillAlive {
			continue
		}
		for key, stroke := range u.buffers {
			if key.session != session {
				continue
			}
			scores := u.matcher.Recognize([]Stroke{stroke})
			out.Append(&model.GestureIdentification{
				User:       key.user,
				SessionIDs: []model.SessionID{session},
				Recognizer: u.matcher.Name(),
				Scores:     scores,
			})
			delete(u.buffers, key)
		}
	}
	u.alive = newAlive
}

// sessionStroke is one session's contribution to a multistroke component.
type sessionStroke struct {
	session model.SessionID
	points  Stroke
}

// component is a cluster of concurrently-tracked strokes belonging to one
// user, close enough together to plausibly be one gesture.
type component struct {
	strokes     []*sessionStroke
	bySession   map[model.SessionID]*sessionStroke
	lastUpdated model.Timetag
}

func newComponent() *component {
	return &component{bySession: make(map[model.SessionID]*sessionStroke)}
}

func (c *component) nearAnyStroke(pt model.Point2D, radius2 float64) bool {
	for _, s := range c.strokes {
		if len(s.points) == 0 {
			continue
		}
		last := s.points[len(s.points)-1].Pos
		if last.DistanceSquared(pt) <= radius2 {
			return true
		}
	}
	return false
}

func (c *component) attach(session model.SessionID, p Point) {
	s, ok := c.bySession[session]
	if !ok {
		s = &sessionStroke{session: session}
		c.bySession[session] = s
		c.strokes = append(c.strokes, s)
	}
	s.points = insertSorted(s.points, p)
}

// Multistroke clusters several concurrent contacts per user into
// components by spatial proximity, and recognizes each component once it
// has gone quiet for timeout (§4.10).
type Multistroke struct {
	transport.Broadcaster

	matcher Matcher
	radius2 float64
	timeout float64 // seconds

	byUser map[model.UserID][]*component
}

// NewMultistroke constructs a multistroke collector with the given
// clustering radius (distance units) and inactivity timeout (seconds).
func NewMultistroke(matcher Matcher, radius, timeout float64) *Multistroke {
	return &Multistroke{
		matcher: matcher,
		radius2: radius * radius,
		timeout: timeout,
		byUser:  make(map[model.UserID][]*component),
	}
}

// OnBundle implements transport.Listener.
func (m *Multistroke) OnBundle(h *bundle.Handle) {
	m.Notify(m.Process(h))
}

// Process attaches incoming pointer samples to the nearest component (or
// seeds a new one), flushes any component that has gone quiet for
// m.timeout, and forwards every original message unchanged (§4.10).
func (m *Multistroke) Process(h *bundle.Handle) *bundle.Handle {
	var frameTime model.Timetag
	if frame, ok := h.Frame(); ok {
		frameTime = frame.Time
	}

	out := bundle.NewHandle()
	for i := 0; i < h.Len(); i++ {
		msg := h.At(i)
		out.Append(msg)
		if p, ok := msg.(*model.Pointer); ok {
			m.attach(p.Tu.UserID(), p.Session, Point{Time: frameTime, Pos: p.Position2D()})
		}
	}
	m.flushExpired(frameTime, out)
	return out
}

func (m *Multistroke) attach(user model.UserID, session model.SessionID, p Point) {
	comps := m.byUser[user]
	for _, c := range comps {
		if c.nearAnyStroke(p.Pos, m.radius2) {
			c.attach(session, p)
			c.lastUpdated = p.Time
			return
		}
	}
	c := newComponent()
	c.attach(session, p)
	c.lastUpdated = p.Time
	m.byUser[user] = append(comps, c)
}

func (m *Multistroke) flushExpired(now model.Timetag, out *bundle.Handle) {
	for user, comps := range m.byUser {
		var kept []*component
		for _, c := range comps {
			if now.Sub(c.lastUpdated) <= m.timeout {
				kept = append(kept, c)
				continue
			}
			strokes := make([]Stroke, len(c.strokes))
			sessionIDs := make([]model.SessionID, len(c.strokes))
			for i, s := range c.strokes {
				strokes[i] = s.points
				sessionIDs[i] = s.session
			}
			scores := m.matcher.Recognize(strokes)
			out.Append(&model.GestureIdentification{
				User:       user,
				SessionIDs: sessionIDs,
				Recognizer: m.matcher.Name(),
				Scores:     scores,
			})
		}
		if len(kept) == 0 {
			delete(m.byUser, user)
		} else {
			m.byUser[user] = kept
		}
	}
}
