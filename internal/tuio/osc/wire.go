// Package osc implements the wire-level OSC 1.0 argument and bundle
// encoding used to carry TUIO 2.0 messages (§4.2, §6), plus the
// convertor registry that translates between OSC argument vectors and the
// typed model.Message variants.
//
// No third-party OSC library appears anywhere in the retrieval pack (see
// DESIGN.md): the wire codec is exactly the "12% of the core" §2 assigns
// it, so it is implemented directly against encoding/binary rather than
// reaching for an external dependency that does not exist in the corpus.
package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Msg is one OSC message: a path, a type-tag string (without the leading
// ','), and the decoded argument vector.
type Msg struct {
	Path string
	Tags string
	Args []interface{}
}

// Bundle is an OSC bundle: a timetag plus an ordered list of messages.
// TUIO 2.0 bundles never nest bundles within bundles, so Bundle carries a
// flat message list rather than the general OSC element union.
type Bundle struct {
	Seconds  uint32
	Fraction uint32
	Messages []Msg
}

func padLen(n int) int {
	if rem := n % 4; rem != 0 {
		return n + (4 - rem)
	}
	return n
}

func writePaddedString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}

func readPaddedString(data []byte, offset int) (string, int, error) {
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return "", 0, fmt.Errorf("osc: unterminated string")
	}
	s := string(data[offset:end])
	next := padLen(end + 1)
	if next > len(data) {
		return "", 0, fmt.Errorf("osc: truncated string padding")
	}
	return s, next, nil
}

// EncodeMessage serializes a single OSC message to wire bytes.
func EncodeMessage(m Msg) ([]byte, error) {
	var buf bytes.Buffer
	writePaddedString(&buf, m.Path)
	writePaddedString(&buf, ","+m.Tags)

	for i, tag := range m.Tags {
		if i >= len(m.Args) {
			return nil, fmt.Errorf("osc: arg count %d shorter than tag string %q", len(m.Args), m.Tags)
		}
		arg := m.Args[i]
		switch tag {
		case 'i':
			v, ok := arg.(int32)
			if !ok {
				return nil, fmt.Errorf("osc: arg %d expected int32 for tag 'i'", i)
			}
			if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
				return nil, err
			}
		case 'f':
			v, ok := arg.(float32)
			if !ok {
				return nil, fmt.Errorf("osc: arg %d expected float32 for tag 'f'", i)
			}
			if err := binary.Write(&buf, binary.BigEndian, math.Float32bits(v)); err != nil {
				return nil, err
			}
		case 's':
			v, ok := arg.(string)
			if !ok {
				return nil, fmt.Errorf("osc: arg %d expected string for tag 's'", i)
			}
			writePaddedString(&buf, v)
		case 'b':
			v, ok := arg.([]byte)
			if !ok {
				return nil, fmt.Errorf("osc: arg %d expected []byte for tag 'b'", i)
			}
			if err := binary.Write(&buf, binary.BigEndian, int32(len(v))); err != nil {
				return nil, err
			}
			buf.Write(v)
			for buf.Len()%4 != 0 {
				buf.WriteByte(0)
			}
		case 't':
			v, ok := arg.([2]uint32)
			if !ok {
				return nil, fmt.Errorf("osc: arg %d expected [2]uint32 for tag 't'", i)
			}
			if err := binary.Write(&buf, binary.BigEndian, v[0]); err != nil {
				return nil, err
			}
			if err := binary.Write(&buf, binary.BigEndian, v[1]); err != nil {
				return nil, err
			}
		case 'T', 'F':
			// boolean markers carry no argument bytes on the wire.
		default:
			return nil, fmt.Errorf("osc: unsupported type tag %q", tag)
		}
	}
	return buf.Bytes(), nil
}

// DecodeMessage parses a single OSC message from wire bytes.
func DecodeMessage(data []byte) (Msg, error) {
	path, offset, err := readPaddedString(data, 0)
	if err != nil {
		return Msg{}, fmt.Errorf("osc: reading path: %w", err)
	}
	tagsField, offset, err := readPaddedString(data, offset)
	if err != nil {
		return Msg{}, fmt.Errorf("osc: reading type tags: %w", err)
	}
	if len(tagsField) == 0 || tagsField[0] != ',' {
		return Msg{}, fmt.Errorf("osc: type tag string must start with ','")
	}
	tags := tagsField[1:]

	args := make([]interface{}, 0, len(tags))
	for _, tag := range tags {
		switch tag {
		case 'i':
			if offset+4 > len(data) {
				return Msg{}, fmt.Errorf("osc: truncated int32 argument")
			}
			args = append(args, int32(binary.BigEndian.Uint32(data[offset:offset+4])))
			offset += 4
		case 'f':
			if offset+4 > len(data) {
				return Msg{}, fmt.Errorf("osc: truncated float32 argument")
			}
			bits := binary.BigEndian.Uint32(data[offset : offset+4])
			args = append(args, math.Float32frombits(bits))
			offset += 4
		case 's':
			s, next, err := readPaddedString(data, offset)
			if err != nil {
				return Msg{}, fmt.Errorf("osc: reading string argument: %w", err)
			}
			args = append(args, s)
			offset = next
		case 'b':
			if offset+4 > len(data) {
				return Msg{}, fmt.Errorf("osc: truncated blob length")
			}
			n := int(int32(binary.BigEndian.Uint32(data[offset : offset+4])))
			offset += 4
			if n < 0 || offset+n > len(data) {
				return Msg{}, fmt.Errorf("osc: truncated blob body")
			}
			blob := append([]byte(nil), data[offset:offset+n]...)
			offset = padLen(offset + n)
			args = append(args, blob)
		case 't':
			if offset+8 > len(data) {
				return Msg{}, fmt.Errorf("osc: truncated timetag")
			}
			sec := binary.BigEndian.Uint32(data[offset : offset+4])
			frac := binary.BigEndian.Uint32(data[offset+4 : offset+8])
			args = append(args, [2]uint32{sec, frac})
			offset += 8
		case 'T':
			args = append(args, true)
		case 'F':
			args = append(args, false)
		default:
			return Msg{}, fmt.Errorf("osc: unsupported type tag %q", tag)
		}
	}
	return Msg{Path: path, Tags: tags, Args: args}, nil
}

// EncodeBundle serializes a Bundle to wire bytes, each element prefixed
// with its byte-length as required by the OSC bundle format.
func EncodeBundle(b Bundle) ([]byte, error) {
	var buf bytes.Buffer
	writePaddedString(&buf, "#bundle")
	if err := binary.Write(&buf, binary.BigEndian, b.Seconds); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, b.Fraction); err != nil {
		return nil, err
	}
	for _, m := range b.Messages {
		encoded, err := EncodeMessage(m)
		if err != nil {
			return nil, fmt.Errorf("osc: encoding %s: %w", m.Path, err)
		}
		if err := binary.Write(&buf, binary.BigEndian, int32(len(encoded))); err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	return buf.Bytes(), nil
}

// DecodeBundle parses a Bundle from wire bytes.
func DecodeBundle(data []byte) (Bundle, error) {
	marker, offset, err := readPaddedString(data, 0)
	if err != nil {
		return Bundle{}, fmt.Errorf("osc: reading bundle marker: %w", err)
	}
	if marker != "#bundle" {
		return Bundle{}, fmt.Errorf("osc: not a bundle (marker %q)", marker)
	}
	if offset+8 > len(data) {
		return Bundle{}, fmt.Errorf("osc: truncated bundle timetag")
	}
	b := Bundle{
		Seconds:  binary.BigEndian.Uint32(data[offset : offset+4]),
		Fraction: binary.BigEndian.Uint32(data[offset+4 : offset+8]),
	}
	offset += 8
	for offset < len(data) {
		if offset+4 > len(data) {
			return Bundle{}, fmt.Errorf("osc: truncated element length")
		}
		elemLen := int(int32(binary.BigEndian.Uint32(data[offset : offset+4])))
		offset += 4
		if elemLen < 0 || offset+elemLen > len(data) {
			return Bundle{}, fmt.Errorf("osc: truncated bundle element")
		}
		msg, err := DecodeMessage(data[offset : offset+elemLen])
		if err != nil {
			return Bundle{}, fmt.Errorf("osc: decoding element: %w", err)
		}
		b.Messages = append(b.Messages, msg)
		offset += elemLen
	}
	return b, nil
}
