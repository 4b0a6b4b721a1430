package model

import (
	"fmt"
	"sort"
	"strings"
)

const (
	PathSensorProperties = "/tuio2/dsp"
	PathViewport         = "/tuio2/dvp"
	PathGroupMember      = "/tuio2/dtg"
	PathNeighbour        = "/tuio2/dtn"
	PathGesture          = "/tuio2/ges"
)

// SetupMode describes how a dTUIO primitive's world position was or should
// be determined (§4.7).
type SetupMode int

const (
	// SetupIntact means the primitive's position is authoritative and must
	// never be overwritten by autoconfiguration.
	SetupIntact SetupMode = iota
	// SetupTranslateOnce means the primitive accepts one autoconfiguration
	// placement and then is treated as configured.
	SetupTranslateOnce
	// SetupTranslateContinuous means the primitive is re-placed on every
	// commit.
	SetupTranslateContinuous
)

// SensorProperties (/tuio2/dsp) describes a sensor's coordinate setup mode
// and purpose (§3.1).
type SensorProperties struct {
	Sensor  UUID
	Setup   SetupMode
	Purpose string
}

func (s *SensorProperties) Clone() Message { c := *s; return &c }
func (s *SensorProperties) String() string {
	return fmt.Sprintf("%s[uuid=%s setup=%d purpose=%q]", PathSensorProperties, s.Sensor, s.Setup, s.Purpose)
}
func (s *SensorProperties) OutputMode() OutputMode { return OutputModeBoth }

// ViewportState tracks whether a group's computed viewport is still
// waiting on unresolved children (§4.7 group viewport computation).
type ViewportState int

const (
	ViewportAwaits ViewportState = iota
	ViewportComputed
)

// Viewport (/tuio2/dvp) describes an axis-aligned, oriented 3D region used
// for clipping and remap by the viewport projector (§4.9) and for group
// bounding viewports in autoconfiguration (§4.7).
type Viewport struct {
	ID                      UUID
	Center                  Point3D
	Angle                   Angle3D
	Width, Height, Depth    float64
	State                   ViewportState
}

func (v *Viewport) Clone() Message { c := *v; return &c }
func (v *Viewport) String() string {
	return fmt.Sprintf("%s[id=%s center=%v angle=%v dims=%.1fx%.1fx%.1f]",
		PathViewport, v.ID, v.Center, v.Angle, v.Width, v.Height, v.Depth)
}
func (v *Viewport) OutputMode() OutputMode { return OutputModeBoth }

// HalfExtents returns the viewport's half-width/height/depth point, the
// "center maps here" anchor used by the viewport projector's translation
// step (§4.9).
func (v *Viewport) HalfExtents() Point3D {
	return Point3D{X: v.Width / 2, Y: v.Height / 2, Z: v.Depth / 2}
}

// Contains reports whether p lies within the viewport's axis-aligned box,
// assuming p is already expressed in the viewport's local frame.
func (v *Viewport) Contains(p Point3D) bool {
	return p.X >= 0 && p.X <= v.Width &&
		p.Y >= 0 && p.Y <= v.Height &&
		(v.Depth == 0 || (p.Z >= 0 && p.Z <= v.Depth))
}

// GroupMember (/tuio2/dtg) associates a sensor/group uuid with the group
// uuid that contains it (§3.1, §4.7).
type GroupMember struct {
	Group  UUID
	Member UUID
}

func (g *GroupMember) Clone() Message { c := *g; return &c }
func (g *GroupMember) String() string {
	return fmt.Sprintf("%s[group=%s member=%s]", PathGroupMember, g.Group, g.Member)
}
func (g *GroupMember) OutputMode() OutputMode { return OutputModeBoth }

// Neighbour (/tuio2/dtn) describes a directed spherical offset from one
// sensor to another (§3.1, §4.7).
type Neighbour struct {
	From, To         UUID
	Azimuth, Altitude float64
	Distance          float64
}

func (n *Neighbour) Clone() Message { c := *n; return &c }
func (n *Neighbour) String() string {
	return fmt.Sprintf("%s[from=%s to=%s az=%.4f alt=%.4f dist=%.2f]", PathNeighbour, n.From, n.To, n.Azimuth, n.Altitude, n.Distance)
}
func (n *Neighbour) OutputMode() OutputMode { return OutputModeBoth }

// GestureIdentification (/tuio2/ges) carries a recognizer's ordered score
// list for a set of contact session ids belonging to one user (§3.1,
// §4.10).
type GestureIdentification struct {
	User       UserID
	SessionIDs []SessionID
	Recognizer string
	Scores     []float64
}

func (g *GestureIdentification) Clone() Message {
	return &GestureIdentification{
		User:       g.User,
		SessionIDs: append([]SessionID(nil), g.SessionIDs...),
		Recognizer: g.Recognizer,
		Scores:     append([]float64(nil), g.Scores...),
	}
}
func (g *GestureIdentification) String() string {
	ids := append([]SessionID(nil), g.SessionIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	idParts := make([]string, len(ids))
	for i, id := range ids {
		idParts[i] = fmt.Sprintf("%d", id)
	}
	scoreParts := make([]string, len(g.Scores))
	for i, s := range g.Scores {
		scoreParts[i] = fmt.Sprintf("%.3f", s)
	}
	return fmt.Sprintf("%s[user=%d sids=[%s] recognizer=%q scores=[%s]]",
		PathGesture, g.User, strings.Join(idParts, ","), g.Recognizer, strings.Join(scoreParts, ","))
}
func (g *GestureIdentification) OutputMode() OutputMode { return OutputModeBoth }
