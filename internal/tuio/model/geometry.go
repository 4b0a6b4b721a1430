package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point2D is a 2D Cartesian position, comparable and lexicographically
// ordered (x then y), per §3.
type Point2D struct {
	X, Y float64
}

func (p Point2D) Add(o Point2D) Point2D   { return Point2D{p.X + o.X, p.Y + o.Y} }
func (p Point2D) Sub(o Point2D) Point2D   { return Point2D{p.X - o.X, p.Y - o.Y} }
func (p Point2D) Scale(f float64) Point2D { return Point2D{p.X * f, p.Y * f} }

// Less implements the lexicographic ordering required by §3.
func (p Point2D) Less(o Point2D) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// DistanceSquared returns the squared Euclidean distance to o, used by the
// multistroke collector's radius check (§4.10) to avoid a sqrt on the hot
// path.
func (p Point2D) DistanceSquared(o Point2D) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

// Point3D is a 3D Cartesian position, comparable and lexicographically
// ordered (x, then y, then z).
type Point3D struct {
	X, Y, Z float64
}

func (p Point3D) Add(o Point3D) Point3D   { return Point3D{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Point3D) Sub(o Point3D) Point3D   { return Point3D{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }
func (p Point3D) Scale(f float64) Point3D { return Point3D{p.X * f, p.Y * f, p.Z * f} }

func (p Point3D) Less(o Point3D) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Z < o.Z
}

func (p Point3D) DistanceSquared(o Point3D) float64 {
	d := p.Vec().Sub(o.Vec())
	return r3.Dot(d, d)
}

// Vec converts to a gonum r3.Vec for the vector arithmetic in
// DistanceSquared.
func (p Point3D) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// FromVec builds a Point3D back from a gonum r3.Vec.
func FromVec(v r3.Vec) Point3D { return Point3D{X: v.X, Y: v.Y, Z: v.Z} }

// Velocity2D is a 2D movement velocity.
type Velocity2D struct {
	X, Y float64
}

// HasVelocity reports whether any component is nonzero.
func (v Velocity2D) HasVelocity() bool { return v.X != 0 || v.Y != 0 }

// Overall returns sqrt(sum of squares), the scalar speed.
func (v Velocity2D) Overall() float64 { return math.Hypot(v.X, v.Y) }

// Velocity3D is a 3D movement velocity.
type Velocity3D struct {
	X, Y, Z float64
}

func (v Velocity3D) HasVelocity() bool { return v.X != 0 || v.Y != 0 || v.Z != 0 }
func (v Velocity3D) Overall() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Angle2D is a single yaw angle, in radians.
type Angle2D struct {
	Yaw float64
}

// Angle3D is a yaw/pitch/roll triple, in radians.
type Angle3D struct {
	Yaw, Pitch, Roll float64
}

// RotationVelocity2D is the scalar rotation velocity of a 2D helper.
type RotationVelocity2D struct {
	Velocity float64
}

// RotationVelocity3D is the yaw/pitch/roll rotation velocity of a 3D helper.
type RotationVelocity3D struct {
	Yaw, Pitch, Roll float64
}

// OutputMode controls which OSC path(s) a dual-mode message serializes to.
type OutputMode int

const (
	OutputMode2D OutputMode = iota
	OutputMode3D
	OutputModeBoth
)

// RescaleVelocityAxis3D decomposes v into (direction, magnitude), multiplies
// the named axis component by factor and recomposes the magnitude — the
// §4.1 rule that scaling a message's position must also rescale velocity
// and the movement acceleration that was derived from it.
//
// axis selects which component of v is scaled; the other components are
// passed through unchanged. Returns the new velocity and the ratio of new
// to old overall magnitude (1 when the prior magnitude was zero), which
// callers multiply into the stored movement acceleration.
func RescaleVelocityAxis3D(v Velocity3D, axis int, factor float64) (Velocity3D, float64) {
	before := v.Overall()
	switch axis {
	case 0:
		v.X *= factor
	case 1:
		v.Y *= factor
	case 2:
		v.Z *= factor
	}
	after := v.Overall()
	if before == 0 {
		return v, 1
	}
	return v, after / before
}

// RescaleVelocityAxis2D is the 2D analogue of RescaleVelocityAxis3D.
func RescaleVelocityAxis2D(v Velocity2D, axis int, factor float64) (Velocity2D, float64) {
	before := v.Overall()
	switch axis {
	case 0:
		v.X *= factor
	case 1:
		v.Y *= factor
	}
	after := v.Overall()
	if before == 0 {
		return v, 1
	}
	return v, after / before
}

// RotatePointAroundCenter2D rotates p around center by angle radians in the
// XY plane, per §4.1 rotation semantics for contacts.
func RotatePointAroundCenter2D(p, center Point2D, angle float64) Point2D {
	rel := p.Sub(center)
	sin, cos := math.Sincos(angle)
	rotated := Point2D{
		X: rel.X*cos - rel.Y*sin,
		Y: rel.X*sin + rel.Y*cos,
	}
	return rotated.Add(center)
}

// RotatePointAroundCenterYaw3D rotates p around center by yaw radians about
// the Z axis (the common case for planar contacts carried in 3D messages).
func RotatePointAroundCenterYaw3D(p, center Point3D, yaw float64) Point3D {
	sin, cos := math.Sincos(yaw)
	rel := p.Sub(center)
	rotated := Point3D{
		X: rel.X*cos - rel.Y*sin,
		Y: rel.X*sin + rel.Y*cos,
		Z: rel.Z,
	}
	return rotated.Add(center)
}

// RotatePointPitch3D rotates p around center by pitch radians about the Y axis.
func RotatePointPitch3D(p, center Point3D, pitch float64) Point3D {
	sin, cos := math.Sincos(pitch)
	rel := p.Sub(center)
	rotated := Point3D{
		X: rel.X*cos + rel.Z*sin,
		Y: rel.Y,
		Z: -rel.X*sin + rel.Z*cos,
	}
	return rotated.Add(center)
}

// RotatePointRoll3D rotates p around center by roll radians about the X axis.
func RotatePointRoll3D(p, center Point3D, roll float64) Point3D {
	sin, cos := math.Sincos(roll)
	rel := p.Sub(center)
	rotated := Point3D{
		X: rel.X,
		Y: rel.Y*cos - rel.Z*sin,
		Z: rel.Y*sin + rel.Z*cos,
	}
	return rotated.Add(center)
}

// CartesianToSpherical converts an offset vector to (azimuth, altitude,
// distance), matching the sensor_topology::neighbour encoding (§3) and the
// drift-compensation math of §4.7. Azimuth and altitude are radians,
// azimuth measured in the XY plane from the X axis, altitude from the XY
// plane towards +Z.
func CartesianToSpherical(offset Point3D) (azimuth, altitude, distance float64) {
	distance = math.Sqrt(offset.X*offset.X + offset.Y*offset.Y + offset.Z*offset.Z)
	if distance == 0 {
		return 0, 0, 0
	}
	azimuth = math.Atan2(offset.Y, offset.X)
	altitude = math.Asin(offset.Z / distance)
	return azimuth, altitude, distance
}

// SphericalToCartesian is the inverse of CartesianToSpherical.
func SphericalToCartesian(azimuth, altitude, distance float64) Point3D {
	horiz := distance * math.Cos(altitude)
	return Point3D{
		X: horiz * math.Cos(azimuth),
		Y: horiz * math.Sin(azimuth),
		Z: distance * math.Sin(altitude),
	}
}
