// Package autoconfig implements the autoconfiguration adaptor (§4.7): it
// places sensors and groups in a shared world frame from neighbour
// observations, elects a pivot per connected sub-topology, and applies the
// resulting drift compensation and translation to every positional helper
// as bundles pass through.
package autoconfig

import (
	"fmt"
	"math"
	"os"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
)

// Role is a bitmask of the roles a primitive plays.
type Role int

const (
	RoleSensor Role = 1 << iota
	RoleGroup
	RolePivot
)

// Primitive is any uuid-bearing entity tracked by the adaptor: a sensor, a
// group, or a pivot (§4.7 glossary).
type Primitive struct {
	ID         model.UUID
	Roles      Role
	Setup      model.SetupMode
	Configured bool
	Position   model.Point3D
	// CorrectionAzimuth/Altitude hold this primitive's drift-compensation
	// angles (§9 coordinate compensation): the angular offset applied
	// between a reading in the primitive's local frame and the shared
	// world frame, derived from its configured neighbours at commit time.
	CorrectionAzimuth, CorrectionAltitude float64

	Viewport      *model.Viewport
	ViewportState model.ViewportState

	order int
}

type edgeKey struct{ from, to model.UUID }

type neighbourEdge struct {
	azimuth, altitude, distance float64
}

// Adaptor is a Listener/Broadcaster pipeline stage implementing §4.7.
type Adaptor struct {
	transport.Broadcaster

	primitives map[model.UUID]*Primitive
	order      []model.UUID

	neighbours    map[edgeKey]neighbourEdge
	outNeighbours map[model.UUID][]model.UUID
	inNeighbours  map[model.UUID][]model.UUID

	groupMembers map[model.UUID][]model.UUID
	memberGroup  map[model.UUID]model.UUID

	updateRequired bool
}

// New constructs an empty autoconfiguration adaptor.
func New() *Adaptor {
	return &Adaptor{
		primitives:    make(map[model.UUID]*Primitive),
		neighbours:    make(map[edgeKey]neighbourEdge),
		outNeighbours: make(map[model.UUID][]model.UUID),
		inNeighbours:  make(map[model.UUID][]model.UUID),
		groupMembers:  make(map[model.UUID][]model.UUID),
		memberGroup:   make(map[model.UUID]model.UUID),
	}
}

// Position returns id's last-computed global position, if it has been
// placed.
func (a *Adaptor) Position(id model.UUID) (model.Point3D, bool) {
	p, ok := a.primitives[id]
	if !ok || !p.Configured {
		return model.Point3D{}, false
	}
	return p.Position, true
}

func (a *Adaptor) getOrCreate(id model.UUID) *Primitive {
	p, ok := a.primitives[id]
	if ok {
		return p
	}
	p = &Primitive{ID: id, order: len(a.order)}
	a.primitives[id] = p
	a.order = append(a.order, id)
	return p
}

// OnBundle implements transport.Listener.
func (a *Adaptor) OnBundle(h *bundle.Handle) {
	a.Notify(a.Process(h))
}

// Process scans registrations, commits a placement if anything changed,
// and applies per-sensor drift compensation/translation to the bundle's
// positional helpers (§4.7).
func (a *Adaptor) Process(h *bundle.Handle) *bundle.Handle {
	var sensor model.UUID = model.NilUUID
	haveSensor := false

	for i := 0; i < h.Len(); i++ {
		switch msg := h.At(i).(type) {
		case *model.SensorProperties:
			sensor = msg.Sensor
			haveSensor = true
			a.registerSensor(msg)
		case *model.Viewport:
			a.registerViewport(msg)
		case *model.GroupMember:
			a.registerGroupMember(msg)
		case *model.Neighbour:
			a.registerNeighbour(msg)
		}
	}

	computed := a.commit()

	out := bundle.NewHandle()
	for i := 0; i < h.Len(); i++ {
		out.Append(h.At(i))
	}
	for _, vp := range computed {
		out.Append(vp)
	}

	if !haveSensor {
		// Bundle from an unknown/unannounced sensor: forward untouched.
		return out
	}
	p, ok := a.primitives[sensor]
	if !ok || !p.Configured {
		fmt.Fprintf(os.Stderr, "autoconfig: sensor %s not placed, forwarding uncompensated\n", sensor)
		return out
	}

	for i := 0; i < out.Len(); i++ {
		a.applyCompensation(out.At(i), p)
	}
	return out
}

func (a *Adaptor) registerSensor(sp *model.SensorProperties) {
	p := a.getOrCreate(sp.Sensor)
	if p.Roles&RoleSensor == 0 {
		p.Roles |= RoleSensor
		a.updateRequired = true
	}
	if p.Setup != sp.Setup {
		p.Setup = sp.Setup
		a.updateRequired = true
	}
	if sp.Setup == model.SetupIntact && !p.Configured {
		p.Configured = true
		a.updateRequired = true
	}
}

func (a *Adaptor) registerViewport(v *model.Viewport) {
	p := a.getOrCreate(v.ID)
	if p.Viewport == nil || *p.Viewport != *v {
		clone := *v
		p.Viewport = &clone
		a.updateRequired = true
	}
}

func (a *Adaptor) registerGroupMember(g *model.GroupMember) {
	group := a.getOrCreate(g.Group)
	a.getOrCreate(g.Member)
	if group.Roles&RoleGroup == 0 {
		group.Roles |= RoleGroup
		a.updateRequired = true
	}
	for _, m := range a.groupMembers[g.Group] {
		if m == g.Member {
			return
		}
	}
	a.groupMembers[g.Group] = append(a.groupMembers[g.Group], g.Member)
	a.memberGroup[g.Member] = g.Group
	a.updateRequired = true
}

func (a *Adaptor) registerNeighbour(n *model.Neighbour) {
	a.getOrCreate(n.From)
	a.getOrCreate(n.To)
	key := edgeKey{from: n.From, to: n.To}
	edge := neighbourEdge{azimuth: n.Azimuth, altitude: n.Altitude, distance: n.Distance}
	if existing, ok := a.neighbours[key]; ok && existing == edge {
		return
	}
	if _, ok := a.neighbours[key]; !ok {
		a.outNeighbours[n.From] = append(a.outNeighbours[n.From], n.To)
		a.inNeighbours[n.To] = append(a.inNeighbours[n.To], n.From)
	}
	a.neighbours[key] = edge
	a.updateRequired = true
}

// DestroyPrimitive removes every neighbour edge touching id in either
// direction (§9: the redesigned, non-inverted delete condition).
func (a *Adaptor) DestroyPrimitive(id model.UUID) {
	for key := range a.neighbours {
		if key.from == id || key.to == id {
			delete(a.neighbours, key)
		}
	}
	delete(a.outNeighbours, id)
	delete(a.inNeighbours, id)
	for other, tos := range a.outNeighbours {
		a.outNeighbours[other] = removeUUID(tos, id)
	}
	for other, froms := range a.inNeighbours {
		a.inNeighbours[other] = removeUUID(froms, id)
	}
	delete(a.primitives, id)
	a.updateRequired = true
}

func removeUUID(list []model.UUID, id model.UUID) []model.UUID {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (a *Adaptor) refCount(id model.UUID) int {
	return len(a.outNeighbours[id]) + len(a.inNeighbours[id])
}

func (a *Adaptor) neighboursOf(id model.UUID) []model.UUID {
	var out []model.UUID
	out = append(out, a.outNeighbours[id]...)
	out = append(out, a.inNeighbours[id]...)
	return out
}

// commit runs the full fixed-point placement described in §4.7 and returns
// any newly computed group viewport messages to splice into the bundle.
func (a *Adaptor) commit() []*model.Viewport {
	if !a.updateRequired {
		return nil
	}
	a.updateRequired = false

	for _, id := range a.order {
		p := a.primitives[id]
		protected := p.Setup == model.SetupIntact || (p.Setup == model.SetupTranslateOnce && p.Configured)
		if protected {
			continue
		}
		p.Configured = false
		p.Position = model.Point3D{}
		p.CorrectionAzimuth, p.CorrectionAltitude = 0, 0
	}

	for {
		pivot := a.electPivot()
		if pivot == model.NilUUID {
			break
		}
		if !a.bfsFromPivot(pivot) {
			break
		}
	}

	return a.computeGroupViewports()
}

func (a *Adaptor) electPivot() model.UUID {
	classes := []func(*Primitive) bool{
		func(p *Primitive) bool { return p.Configured && p.Setup == model.SetupIntact },
		func(p *Primitive) bool { return p.Configured && p.Setup == model.SetupTranslateContinuous },
		func(p *Primitive) bool { return p.Configured && p.Setup == model.SetupTranslateOnce },
		func(p *Primitive) bool { return !p.Configured && p.Setup == model.SetupTranslateContinuous },
		func(p *Primitive) bool { return !p.Configured && p.Setup == model.SetupTranslateOnce },
	}
	for _, match := range classes {
		best := model.NilUUID
		bestCount := -1
		for _, id := range a.order {
			p := a.primitives[id]
			if p.Roles&RoleSensor == 0 || !match(p) {
				continue
			}
			c := a.refCount(id)
			if c > bestCount {
				bestCount = c
				best = id
			}
		}
		if best != model.NilUUID {
			return best
		}
	}
	return model.NilUUID
}

// bfsFromPivot places every primitive reachable from pivot, per §4.7's BFS
// placement step. Returns whether any location changed.
func (a *Adaptor) bfsFromPivot(pivot model.UUID) bool {
	changed := false
	visited := map[model.UUID]bool{pivot: true}
	queue := []model.UUID{pivot}

	if p := a.primitives[pivot]; !p.Configured {
		p.Configured = true
		changed = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node := a.primitives[id]

		if node.Setup != model.SetupIntact {
			if pos, az, alt, ok := a.computeLocation(id); ok {
				rounded := model.Point3D{X: math.Round(pos.X), Y: math.Round(pos.Y), Z: math.Round(pos.Z)}
				if rounded != node.Position || az != node.CorrectionAzimuth || alt != node.CorrectionAltitude {
					changed = true
				}
				node.Position = rounded
				node.CorrectionAzimuth = az
				node.CorrectionAltitude = alt
			}
		}
		if !node.Configured {
			node.Configured = true
			changed = true
		}

		for _, nb := range a.neighboursOf(id) {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return changed
}

// computeLocation averages the spherical offsets from id's already-
// configured neighbours (§4.7 step 2): offsets from neighbours pointing at
// id are added as-is; offsets id points at other neighbours are negated.
func (a *Adaptor) computeLocation(id model.UUID) (pos model.Point3D, azimuth, altitude float64, ok bool) {
	var sumPos model.Point3D
	var sumAz, sumAlt float64
	n := 0

	for _, from := range a.inNeighbours[id] {
		neighbour := a.primitives[from]
		if !neighbour.Configured {
			continue
		}
		edge := a.neighbours[edgeKey{from: from, to: id}]
		offset := model.SphericalToCartesian(edge.azimuth, edge.altitude, edge.distance)
		sumPos = sumPos.Add(neighbour.Position.Add(offset))
		sumAz += edge.azimuth
		sumAlt += edge.altitude
		n++
	}
	for _, to := range a.outNeighbours[id] {
		neighbour := a.primitives[to]
		if !neighbour.Configured {
			continue
		}
		edge := a.neighbours[edgeKey{from: id, to: to}]
		offset := model.SphericalToCartesian(edge.azimuth, edge.altitude, edge.distance)
		sumPos = sumPos.Add(neighbour.Position.Sub(offset))
		sumAz += edge.azimuth + math.Pi
		sumAlt += -edge.altitude
		n++
	}
	if n == 0 {
		return model.Point3D{}, 0, 0, false
	}
	inv := 1 / float64(n)
	return sumPos.Scale(inv), sumAz * inv, sumAlt * inv, true
}

// computeGroupViewports resolves every AWAITS group viewport whose members
// are all placed, repeating until no further group resolves (§4.7's group
// viewport computation, which can itself cascade through nested groups).
func (a *Adaptor) computeGroupViewports() []*model.Viewport {
	var out []*model.Viewport
	for {
		progressed := false
		for _, id := range a.order {
			p := a.primitives[id]
			if p.Roles&RoleGroup == 0 || p.ViewportState != model.ViewportAwaits {
				continue
			}
			vp, ok := a.boundingViewport(id)
			if !ok {
				continue
			}
			p.Viewport = vp
			p.ViewportState = model.ViewportComputed
			out = append(out, vp)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

func (a *Adaptor) boundingViewport(group model.UUID) (*model.Viewport, bool) {
	g := a.primitives[group]
	var boxes []model.Viewport
	if g.Viewport != nil {
		boxes = append(boxes, *g.Viewport)
	}
	for _, member := range a.groupMembers[group] {
		m := a.primitives[member]
		if m.Roles&RoleGroup != 0 {
			if m.ViewportState != model.ViewportComputed || m.Viewport == nil {
				return nil, false
			}
			boxes = append(boxes, *m.Viewport)
			continue
		}
		if !m.Configured || m.Viewport == nil {
			return nil, false
		}
		world := *m.Viewport
		world.Center = world.Center.Add(m.Position)
		boxes = append(boxes, world)
	}
	if len(boxes) == 0 {
		return nil, false
	}

	min := model.Point3D{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := model.Point3D{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, b := range boxes {
		half := b.HalfExtents()
		lo := b.Center.Sub(half)
		hi := b.Center.Add(half)
		min = model.Point3D{X: minf(min.X, lo.X), Y: minf(min.Y, lo.Y), Z: minf(min.Z, lo.Z)}
		max = model.Point3D{X: maxf(max.X, hi.X), Y: maxf(max.Y, hi.Y), Z: maxf(max.Z, hi.Z)}
	}
	center := min.Add(max).Scale(0.5)
	extents := max.Sub(min)
	return &model.Viewport{
		ID:     group,
		Center: center,
		Width:  extents.X,
		Height: extents.Y,
		Depth:  extents.Z,
		State:  model.ViewportComputed,
	}, true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// applyCompensation applies p's drift compensation to every positional
// helper in msg (Cartesian->spherical->add correction->Cartesian, then
// translate by p's global position), and drift-compensates (without
// translating) every velocity helper, per §4.7/§9.
func (a *Adaptor) applyCompensation(msg model.Message, p *Primitive) {
	if pos3, ok := msg.(model.Positioned3D); ok {
		pos3.SetPosition3D(compensate(pos3.Position3D(), p, true))
	} else if pos2, ok := msg.(model.Positioned2D); ok {
		p2 := pos2.Position2D()
		p3 := compensate(model.Point3D{X: p2.X, Y: p2.Y}, p, true)
		pos2.SetPosition2D(model.Point2D{X: p3.X, Y: p3.Y})
	}
	if vel3, ok := msg.(model.Velocitied3D); ok {
		v := vel3.Velocity3()
		cv := compensate(model.Point3D{X: v.X, Y: v.Y, Z: v.Z}, p, false)
		vel3.SetVelocity3(model.Velocity3D{X: cv.X, Y: cv.Y, Z: cv.Z})
	}
}

// compensate decomposes pt to spherical, adds p's correction angles,
// recomposes, then (if translate) adds p's global position.
func compensate(pt model.Point3D, p *Primitive, translate bool) model.Point3D {
	az, alt, dist := model.CartesianToSpherical(pt)
	if dist == 0 {
		if translate {
			return p.Position
		}
		return pt
	}
	rotated := model.SphericalToCartesian(az+p.CorrectionAzimuth, alt+p.CorrectionAltitude, dist)
	if translate {
		return rotated.Add(p.Position)
	}
	return rotated
}
