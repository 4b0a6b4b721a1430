package model

import "fmt"

const (
	PathPointer2D = "/tuio2/ptr"
	PathPointer3D = "/tuio2/p3d"
	PathToken2D   = "/tuio2/tok"
	PathToken3D   = "/tuio2/t3d"
	PathBounds2D  = "/tuio2/bnd"
	PathBounds3D  = "/tuio2/b3d"
)

// Pointer is the TUIO 2.0 pointer contact message (/tuio2/ptr, /tuio2/p3d),
// grounded on original_source/tuio/libkerat/kerat/tuio_message_pointer.hpp.
// A Pointer is always stored with a 3D position; 2D mode simply keeps Z at
// zero and serializes only the 2D path.
type Pointer struct {
	Mode      OutputMode
	Session   SessionID
	Tu        TuID
	Component ComponentID
	Pos       Point3D
	Width     float64
	Pressure  float64
	Vel       Velocity3D
	Accel     float64 // movement acceleration
}

func (p *Pointer) Clone() Message { c := *p; return &c }

func (p *Pointer) String() string {
	path := PathPointer2D
	if p.Mode == OutputMode3D {
		path = PathPointer3D
	}
	return fmt.Sprintf("%s[sid=%d tu=%d cid=%d pos=%v width=%.3f pressure=%.3f vel=%v accel=%.3f]",
		path, p.Session, p.Tu, p.Component, p.Pos, p.Width, p.Pressure, p.Vel, p.Accel)
}

func (p *Pointer) OutputMode() OutputMode { return p.Mode }

func (p *Pointer) SessionID() SessionID        { return p.Session }
func (p *Pointer) SetSessionID(id SessionID)    { p.Session = id }
func (p *Pointer) TuID() TuID                   { return p.Tu }
func (p *Pointer) SetTuID(id TuID)               { p.Tu = id }
func (p *Pointer) ComponentID() ComponentID     { return p.Component }
func (p *Pointer) SetComponentID(c ComponentID) { p.Component = c }

func (p *Pointer) Position3D() Point3D     { return p.Pos }
func (p *Pointer) SetPosition3D(pt Point3D) { p.Pos = pt }
func (p *Pointer) Position2D() Point2D     { return Point2D{X: p.Pos.X, Y: p.Pos.Y} }
func (p *Pointer) SetPosition2D(pt Point2D) { p.Pos.X, p.Pos.Y = pt.X, pt.Y }

func (p *Pointer) Velocity3() Velocity3D      { return p.Vel }
func (p *Pointer) SetVelocity3(v Velocity3D)  { p.Vel = v }

func (p *Pointer) MoveX(dx float64) { p.Pos.X += dx }
func (p *Pointer) MoveY(dy float64) { p.Pos.Y += dy }
func (p *Pointer) MoveZ(dz float64) { p.Pos.Z += dz }

// ScaleX scales the X position and, per §4.1, rescales the X velocity
// component and recomposes the movement acceleration from the new overall
// velocity magnitude.
func (p *Pointer) ScaleX(factor float64) {
	p.Pos.X *= factor
	v, ratio := RescaleVelocityAxis3D(p.Vel, 0, factor)
	p.Vel = v
	p.Accel *= ratio
}

func (p *Pointer) ScaleY(factor float64) {
	p.Pos.Y *= factor
	v, ratio := RescaleVelocityAxis3D(p.Vel, 1, factor)
	p.Vel = v
	p.Accel *= ratio
}

func (p *Pointer) ScaleZ(factor float64) {
	p.Pos.Z *= factor
	v, ratio := RescaleVelocityAxis3D(p.Vel, 2, factor)
	p.Vel = v
	p.Accel *= ratio
}

func (p *Pointer) RotateYaw(angle float64, center Point3D) {
	p.Pos = RotatePointAroundCenterYaw3D(p.Pos, center, angle)
}
func (p *Pointer) RotatePitch(angle float64, center Point3D) {
	p.Pos = RotatePointPitch3D(p.Pos, center, angle)
}
func (p *Pointer) RotateRoll(angle float64, center Point3D) {
	p.Pos = RotatePointRoll3D(p.Pos, center, angle)
}

// Token is the TUIO 2.0 token contact message (/tuio2/tok, /tuio2/t3d):
// a tangible with an orientation but no pressure/width.
type Token struct {
	Mode      OutputMode
	Session   SessionID
	Tu        TuID
	Component ComponentID
	Pos       Point3D
	Angle     Angle3D
	Vel       Velocity3D
	RotVel    RotationVelocity3D
	Accel     float64
	RotAccel  float64
}

func (t *Token) Clone() Message { c := *t; return &c }

func (t *Token) String() string {
	path := PathToken2D
	if t.Mode == OutputMode3D {
		path = PathToken3D
	}
	return fmt.Sprintf("%s[sid=%d tu=%d cid=%d pos=%v angle=%v vel=%v rotvel=%v accel=%.3f rotaccel=%.3f]",
		path, t.Session, t.Tu, t.Component, t.Pos, t.Angle, t.Vel, t.RotVel, t.Accel, t.RotAccel)
}

func (t *Token) OutputMode() OutputMode { return t.Mode }

func (t *Token) SessionID() SessionID        { return t.Session }
func (t *Token) SetSessionID(id SessionID)    { t.Session = id }
func (t *Token) TuID() TuID                   { return t.Tu }
func (t *Token) SetTuID(id TuID)               { t.Tu = id }
func (t *Token) ComponentID() ComponentID     { return t.Component }
func (t *Token) SetComponentID(c ComponentID) { t.Component = c }

func (t *Token) Position3D() Point3D     { return t.Pos }
func (t *Token) SetPosition3D(pt Point3D) { t.Pos = pt }
func (t *Token) Position2D() Point2D     { return Point2D{X: t.Pos.X, Y: t.Pos.Y} }
func (t *Token) SetPosition2D(pt Point2D) { t.Pos.X, t.Pos.Y = pt.X, pt.Y }

func (t *Token) Velocity3() Velocity3D     { return t.Vel }
func (t *Token) SetVelocity3(v Velocity3D) { t.Vel = v }

func (t *Token) MoveX(dx float64) { t.Pos.X += dx }
func (t *Token) MoveY(dy float64) { t.Pos.Y += dy }
func (t *Token) MoveZ(dz float64) { t.Pos.Z += dz }

func (t *Token) ScaleX(factor float64) {
	t.Pos.X *= factor
	v, ratio := RescaleVelocityAxis3D(t.Vel, 0, factor)
	t.Vel = v
	t.Accel *= ratio
}
func (t *Token) ScaleY(factor float64) {
	t.Pos.Y *= factor
	v, ratio := RescaleVelocityAxis3D(t.Vel, 1, factor)
	t.Vel = v
	t.Accel *= ratio
}
func (t *Token) ScaleZ(factor float64) {
	t.Pos.Z *= factor
	v, ratio := RescaleVelocityAxis3D(t.Vel, 2, factor)
	t.Vel = v
	t.Accel *= ratio
}

func (t *Token) RotateYaw(angle float64, center Point3D) {
	t.Pos = RotatePointAroundCenterYaw3D(t.Pos, center, angle)
	t.Angle.Yaw += angle
}
func (t *Token) RotatePitch(angle float64, center Point3D) {
	t.Pos = RotatePointPitch3D(t.Pos, center, angle)
	t.Angle.Pitch += angle
}
func (t *Token) RotateRoll(angle float64, center Point3D) {
	t.Pos = RotatePointRoll3D(t.Pos, center, angle)
	t.Angle.Roll += angle
}

// Bounds is the TUIO 2.0 bounds contact message (/tuio2/bnd, /tuio2/b3d):
// an oriented bounded region (width/height[/depth], area/volume).
type Bounds struct {
	Mode     OutputMode
	Session  SessionID
	Pos      Point3D
	Angle    Angle3D
	Width    float64
	Height   float64
	Depth    float64
	AreaVol  float64 // area for 2D, volume for 3D
	Vel      Velocity3D
	RotVel   RotationVelocity3D
	Accel    float64
	RotAccel float64
}

func (b *Bounds) Clone() Message { c := *b; return &c }

func (b *Bounds) String() string {
	if b.Mode == OutputMode3D {
		return fmt.Sprintf("%s[sid=%d pos=%v angle=%v w=%.3f h=%.3f d=%.3f vol=%.3f vel=%v rotvel=%v accel=%.3f rotaccel=%.3f]",
			PathBounds3D, b.Session, b.Pos, b.Angle, b.Width, b.Height, b.Depth, b.AreaVol, b.Vel, b.RotVel, b.Accel, b.RotAccel)
	}
	return fmt.Sprintf("%s[sid=%d pos=%v angle=%.3f w=%.3f h=%.3f area=%.3f vel=%v rotvel=%.3f accel=%.3f rotaccel=%.3f]",
		PathBounds2D, b.Session, b.Pos, b.Angle.Yaw, b.Width, b.Height, b.AreaVol, b.Vel, b.RotVel.Yaw, b.Accel, b.RotAccel)
}

func (b *Bounds) OutputMode() OutputMode { return b.Mode }

func (b *Bounds) SessionID() SessionID     { return b.Session }
func (b *Bounds) SetSessionID(id SessionID) { b.Session = id }

func (b *Bounds) Position3D() Point3D     { return b.Pos }
func (b *Bounds) SetPosition3D(pt Point3D) { b.Pos = pt }
func (b *Bounds) Position2D() Point2D     { return Point2D{X: b.Pos.X, Y: b.Pos.Y} }
func (b *Bounds) SetPosition2D(pt Point2D) { b.Pos.X, b.Pos.Y = pt.X, pt.Y }

func (b *Bounds) Velocity3() Velocity3D     { return b.Vel }
func (b *Bounds) SetVelocity3(v Velocity3D) { b.Vel = v }

func (b *Bounds) MoveX(dx float64) { b.Pos.X += dx }
func (b *Bounds) MoveY(dy float64) { b.Pos.Y += dy }
func (b *Bounds) MoveZ(dz float64) { b.Pos.Z += dz }

// ScaleX scales the X position, width and, for area/volume, rescales the
// area/volume measure by factor; velocity/acceleration recomposition
// follows §4.1.
func (b *Bounds) ScaleX(factor float64) {
	b.Pos.X *= factor
	b.Width *= factor
	b.AreaVol *= factor
	v, ratio := RescaleVelocityAxis3D(b.Vel, 0, factor)
	b.Vel = v
	b.Accel *= ratio
}
func (b *Bounds) ScaleY(factor float64) {
	b.Pos.Y *= factor
	b.Height *= factor
	b.AreaVol *= factor
	v, ratio := RescaleVelocityAxis3D(b.Vel, 1, factor)
	b.Vel = v
	b.Accel *= ratio
}
func (b *Bounds) ScaleZ(factor float64) {
	b.Pos.Z *= factor
	b.Depth *= factor
	v, ratio := RescaleVelocityAxis3D(b.Vel, 2, factor)
	b.Vel = v
	b.Accel *= ratio
}

func (b *Bounds) RotateYaw(angle float64, center Point3D) {
	b.Pos = RotatePointAroundCenterYaw3D(b.Pos, center, angle)
	b.Angle.Yaw += angle
}
func (b *Bounds) RotatePitch(angle float64, center Point3D) {
	b.Pos = RotatePointPitch3D(b.Pos, center, angle)
	b.Angle.Pitch += angle
}
func (b *Bounds) RotateRoll(angle float64, center Point3D) {
	b.Pos = RotatePointRoll3D(b.Pos, center, angle)
	b.Angle.Roll += angle
}
