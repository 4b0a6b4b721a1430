// Package model provides the typed representation of TUIO 2.0 messages and
// their geometric mix-in helpers, grounded on the wire field layout
// documented in original_source/tuio/libkerat/kerat/tuio_message_*.hpp.
package model

import "github.com/google/uuid"

// SessionID identifies a contact for the lifetime of a touch/token/bound.
type SessionID uint32

// UserID identifies the user manipulating a contact.
type UserID uint32

// TypeID identifies the contact's semantic type (finger, token class, ...).
type TypeID uint32

// ComponentID identifies one of several components belonging to a contact.
type ComponentID uint32

// FrameID identifies a bundle's frame envelope, monotonically increasing
// per source.
type FrameID uint32

// InstanceID distinguishes multiple emitters sharing a source IP.
type InstanceID uint32

// TuID packs (type_id, user_id) with user in the upper 16 bits, per §3.
type TuID uint32

// PackTuID packs a type id and user id into a single wire value.
func PackTuID(typeID TypeID, userID UserID) TuID {
	return TuID(uint32(userID)<<16 | (uint32(typeID) & 0xffff))
}

// TypeID unpacks the type id component.
func (t TuID) TypeID() TypeID { return TypeID(uint32(t) & 0xffff) }

// UserID unpacks the user id component.
func (t TuID) UserID() UserID { return UserID(uint32(t) >> 16) }

// Dimensions packs (width, height) with height in the upper 16 bits.
type Dimensions uint32

// PackDimensions packs a width/height pair into a single wire value.
func PackDimensions(width, height uint32) Dimensions {
	return Dimensions(height<<16 | (width & 0xffff))
}

// Width unpacks the width component.
func (d Dimensions) Width() uint32 { return uint32(d) & 0xffff }

// Height unpacks the height component.
func (d Dimensions) Height() uint32 { return uint32(d) >> 16 }

// LinkPorts packs (input_port, output_port) with output in the upper 16 bits.
type LinkPorts uint32

// PackLinkPorts packs an input/output port pair into a single wire value.
func PackLinkPorts(input, output uint16) LinkPorts {
	return LinkPorts(uint32(output)<<16 | uint32(input))
}

// InputPort unpacks the input port component.
func (p LinkPorts) InputPort() uint16 { return uint16(uint32(p) & 0xffff) }

// OutputPort unpacks the output port component.
func (p LinkPorts) OutputPort() uint16 { return uint16(uint32(p) >> 16) }

// Timetag is an OSC timetag: seconds since 1900-01-01 plus a fractional
// part, ordered lexicographically by (Seconds, Fraction).
type Timetag struct {
	Seconds  uint32
	Fraction uint32
}

// Immediate is the special timetag meaning "now", per the OSC spec.
var Immediate = Timetag{Seconds: 0, Fraction: 1}

// Before reports whether t sorts strictly before other.
func (t Timetag) Before(other Timetag) bool {
	if t.Seconds != other.Seconds {
		return t.Seconds < other.Seconds
	}
	return t.Fraction < other.Fraction
}

// Sub returns the (possibly negative) difference t - other, in seconds.
func (t Timetag) Sub(other Timetag) float64 {
	ts := float64(t.Seconds) + float64(t.Fraction)/4294967296.0
	os := float64(other.Seconds) + float64(other.Fraction)/4294967296.0
	return ts - os
}

// UUID is the 128-bit topology identity used by dTUIO extensions. The
// all-zero value denotes the empty/wildcard uuid.
type UUID = uuid.UUID

// NilUUID is the empty/wildcard uuid.
var NilUUID = uuid.Nil
