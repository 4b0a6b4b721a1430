package model

// Message is implemented by every TUIO 2.0 message variant. Paths,
// per-variant field layout and the textual printer format are documented
// per-variant; see §3 and §6 of the specification this package implements.
type Message interface {
	// Clone returns a freshly owned deep copy.
	Clone() Message
	// String returns the canonical textual form: path(s) first, then
	// fields, lists bracketed. This format is an external contract —
	// logs and tests rely on it being stable.
	String() string
	// OutputMode reports which OSC path(s) this message emits to.
	OutputMode() OutputMode
}

// SessionCarrier is implemented by every message that carries a session id.
type SessionCarrier interface {
	SessionID() SessionID
	SetSessionID(SessionID)
}

// TypeUserCarrier is implemented by contact messages carrying a (type,
// user) pair.
type TypeUserCarrier interface {
	TuID() TuID
	SetTuID(TuID)
}

// ComponentCarrier is implemented by contact messages with a component id.
type ComponentCarrier interface {
	ComponentID() ComponentID
	SetComponentID(ComponentID)
}

// Positioned2D is implemented by messages carrying a 2D position.
type Positioned2D interface {
	Position2D() Point2D
	SetPosition2D(Point2D)
}

// Positioned3D is implemented by messages carrying a 3D position.
type Positioned3D interface {
	Position3D() Point3D
	SetPosition3D(Point3D)
}

// Velocitied2D is implemented by messages carrying a 2D velocity.
type Velocitied2D interface {
	Velocity() Velocity2D
	SetVelocity(Velocity2D)
}

// Velocitied3D is implemented by messages carrying a 3D velocity.
type Velocitied3D interface {
	Velocity3() Velocity3D
	SetVelocity3(Velocity3D)
}

// Movable2D is implemented by messages whose position can be translated.
type Movable2D interface {
	MoveX(dx float64)
	MoveY(dy float64)
}

// Movable3D is implemented by messages whose 3D position can be translated.
type Movable3D interface {
	Movable2D
	MoveZ(dz float64)
}

// ScalableIndependent scales a helper's axes independently, rescaling
// velocity and acceleration as described in §4.1.
type ScalableIndependent interface {
	ScaleX(factor float64)
	ScaleY(factor float64)
}

// ScalableIndependent3D adds the Z axis.
type ScalableIndependent3D interface {
	ScalableIndependent
	ScaleZ(factor float64)
}

// RotatableCS2D rotates a helper around an arbitrary center point.
type RotatableCS2D interface {
	RotateBy(angle float64, center Point2D)
}

// RotatableCS3D rotates a helper around an arbitrary center point about any
// of the three axes.
type RotatableCS3D interface {
	RotateYaw(angle float64, center Point3D)
	RotatePitch(angle float64, center Point3D)
	RotateRoll(angle float64, center Point3D)
}
