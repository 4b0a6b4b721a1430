package model

import (
	"fmt"
	"strings"
)

const (
	PathConvexHull   = "/tuio2/cvh"
	PathOuterContour = "/tuio2/ocg"
	PathInnerContour = "/tuio2/icg"
	PathSkeleton2D   = "/tuio2/skg"
	PathSkeleton3D   = "/tuio2/s3d"
	PathSkeletonVol  = "/tuio2/svg"
	PathArea         = "/tuio2/are"
	PathRaw          = "/tuio2/raw"
)

// ConvexHull carries the convex hull of a contact as an ordered point list.
type ConvexHull struct {
	Session SessionID
	Points  []Point2D
}

func (c *ConvexHull) Clone() Message {
	return &ConvexHull{Session: c.Session, Points: append([]Point2D(nil), c.Points...)}
}

func (c *ConvexHull) String() string {
	return fmt.Sprintf("%s[sid=%d points=%v]", PathConvexHull, c.Session, c.Points)
}
func (c *ConvexHull) OutputMode() OutputMode  { return OutputModeBoth }
func (c *ConvexHull) SessionID() SessionID     { return c.Session }
func (c *ConvexHull) SetSessionID(id SessionID) { c.Session = id }

// contourMessage is the shared shape of outer/inner contour messages: a
// list of closed point rings.
type contourMessage struct {
	Session SessionID
	Rings   [][]Point2D
}

func cloneRings(rings [][]Point2D) [][]Point2D {
	out := make([][]Point2D, len(rings))
	for i, r := range rings {
		out[i] = append([]Point2D(nil), r...)
	}
	return out
}

func ringsString(path string, sid SessionID, rings [][]Point2D) string {
	parts := make([]string, len(rings))
	for i, r := range rings {
		parts[i] = fmt.Sprintf("%v", r)
	}
	return fmt.Sprintf("%s[sid=%d rings=[%s]]", path, sid, strings.Join(parts, ";"))
}

// OuterContour carries the outer contour(s) of a contact, list-of-lists.
type OuterContour struct{ contourMessage }

// NewOuterContour constructs an OuterContour from a session id and rings.
func NewOuterContour(sid SessionID, rings [][]Point2D) *OuterContour {
	return &OuterContour{contourMessage{Session: sid, Rings: rings}}
}

func (o *OuterContour) Clone() Message {
	return &OuterContour{contourMessage{Session: o.Session, Rings: cloneRings(o.Rings)}}
}
func (o *OuterContour) String() string        { return ringsString(PathOuterContour, o.Session, o.Rings) }
func (o *OuterContour) OutputMode() OutputMode { return OutputModeBoth }
func (o *OuterContour) SessionID() SessionID     { return o.Session }
func (o *OuterContour) SetSessionID(id SessionID) { o.Session = id }

// InnerContour carries the inner contour(s) (holes) of a contact.
type InnerContour struct{ contourMessage }

// NewInnerContour constructs an InnerContour from a session id and rings.
func NewInnerContour(sid SessionID, rings [][]Point2D) *InnerContour {
	return &InnerContour{contourMessage{Session: sid, Rings: rings}}
}

func (o *InnerContour) Clone() Message {
	return &InnerContour{contourMessage{Session: o.Session, Rings: cloneRings(o.Rings)}}
}
func (o *InnerContour) String() string        { return ringsString(PathInnerContour, o.Session, o.Rings) }
func (o *InnerContour) OutputMode() OutputMode { return OutputModeBoth }
func (o *InnerContour) SessionID() SessionID     { return o.Session }
func (o *InnerContour) SetSessionID(id SessionID) { o.Session = id }

// SkeletonNode is one node of a skeleton trunk-tree graph: a 2D or 3D point.
type SkeletonNode struct {
	Pos2D    Point2D
	Pos3D    Point3D
	Is3D     bool
	Rollback int // > 0: a rollback-only entry backing out this many levels (position not encoded); 0 = descend to this node
}

// Skeleton carries the trunk-tree backbone of a contact (§4.3 graph
// substrate backs the reconstructed tree; on the wire it is a flat
// descend/rollback sequence).
type Skeleton struct {
	Mode    OutputMode
	Session SessionID
	Nodes   []SkeletonNode
}

func (s *Skeleton) Clone() Message {
	return &Skeleton{Mode: s.Mode, Session: s.Session, Nodes: append([]SkeletonNode(nil), s.Nodes...)}
}

func (s *Skeleton) String() string {
	path := PathSkeleton2D
	if s.Mode == OutputMode3D {
		path = PathSkeleton3D
	}
	return fmt.Sprintf("%s[sid=%d nodes=%d]", path, s.Session, len(s.Nodes))
}
func (s *Skeleton) OutputMode() OutputMode  { return s.Mode }
func (s *Skeleton) SessionID() SessionID     { return s.Session }
func (s *Skeleton) SetSessionID(id SessionID) { s.Session = id }

// SkeletonVolume carries a per-node radius alongside a Skeleton's nodes.
type SkeletonVolume struct {
	Session SessionID
	Radii   []float64
}

func (s *SkeletonVolume) Clone() Message {
	return &SkeletonVolume{Session: s.Session, Radii: append([]float64(nil), s.Radii...)}
}
func (s *SkeletonVolume) String() string {
	return fmt.Sprintf("%s[sid=%d radii=%v]", PathSkeletonVol, s.Session, s.Radii)
}
func (s *SkeletonVolume) OutputMode() OutputMode  { return OutputModeBoth }
func (s *SkeletonVolume) SessionID() SessionID     { return s.Session }
func (s *SkeletonVolume) SetSessionID(id SessionID) { s.Session = id }

// AreaSpan is one contiguous run within a channel/row of an Area message.
type AreaSpan struct {
	Channel    int32
	Start, End float64
}

// Area carries a span map describing a contact's extent per channel.
type Area struct {
	Session SessionID
	Spans   []AreaSpan
}

func (a *Area) Clone() Message {
	return &Area{Session: a.Session, Spans: append([]AreaSpan(nil), a.Spans...)}
}
func (a *Area) String() string { return fmt.Sprintf("%s[sid=%d spans=%v]", PathArea, a.Session, a.Spans) }
func (a *Area) OutputMode() OutputMode  { return OutputModeBoth }
func (a *Area) SessionID() SessionID     { return a.Session }
func (a *Area) SetSessionID(id SessionID) { a.Session = id }

// Raw carries opaque sensor-specific bytes that no other message models.
type Raw struct {
	Session SessionID
	Bytes   []byte
}

func (r *Raw) Clone() Message {
	return &Raw{Session: r.Session, Bytes: append([]byte(nil), r.Bytes...)}
}
func (r *Raw) String() string { return fmt.Sprintf("%s[sid=%d %dB]", PathRaw, r.Session, len(r.Bytes)) }
func (r *Raw) OutputMode() OutputMode  { return OutputModeBoth }
func (r *Raw) SessionID() SessionID     { return r.Session }
func (r *Raw) SetSessionID(id SessionID) { r.Session = id }
