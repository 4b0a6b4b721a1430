package osc

import (
	"fmt"
	"net"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/tuioerr"
)

// Convertor decodes one OSC message's type tags and arguments into zero or
// more TUIO messages (§4.2). A convertor returning more than one message
// is how a single wire message can stand for more than one logical
// message (not used by the default registry, but kept for extensibility
// the way the original library's convertor interface allows it).
type Convertor func(tags string, args []interface{}) ([]model.Message, error)

// LTAMode resolves the ambiguity in the linked-tree association wire
// encoding (§4.2).
type LTAMode int

const (
	// LTAStrict rejects LTA messages on parse and emits nothing on encode.
	LTAStrict LTAMode = iota
	// LTALenient requires/produces a leading boolean marker per child node
	// disambiguating "descend" (true) from "rollback" (false).
	LTALenient
)

// Codec owns the path -> Convertor registry and accept-unknown policy
// (§4.2). The zero value is not usable; construct with NewCodec.
type Codec struct {
	convertors    map[string]Convertor
	acceptUnknown bool
	ltaMode       LTAMode
}

// NewCodec constructs a Codec with the default TUIO 2.0 message registry.
// acceptUnknown controls whether unregistered paths are preserved as
// model.Opaque or dropped. ltaMode selects the linked-tree ambiguity
// resolution (§4.2).
func NewCodec(acceptUnknown bool, ltaMode LTAMode) *Codec {
	c := &Codec{
		convertors:    make(map[string]Convertor),
		acceptUnknown: acceptUnknown,
		ltaMode:       ltaMode,
	}
	c.registerEnvelope()
	c.registerContacts()
	c.registerSignal()
	c.registerGeometry()
	c.registerAssociations()
	c.registerDTUIO()
	return c
}

// Register installs or overrides the convertor for path.
func (c *Codec) Register(path string, conv Convertor) {
	c.convertors[path] = conv
}

// Decode converts one OSC wire message into zero or more TUIO messages.
// Returns a *tuioerr.Error with KindParse when the path is registered but
// the arguments don't match any accepted schema, or nil, nil (no error,
// no messages) when the path is unregistered and accept-unknown is off.
func (c *Codec) Decode(m Msg) ([]model.Message, error) {
	conv, ok := c.convertors[m.Path]
	if !ok {
		if !c.acceptUnknown {
			return nil, nil
		}
		return []model.Message{&model.Opaque{Path: m.Path, Tags: m.Tags, Args: append([]interface{}(nil), m.Args...)}}, nil
	}
	out, err := conv(m.Tags, m.Args)
	if err != nil {
		return nil, tuioerr.Wrap(tuioerr.KindParse, "osc", fmt.Sprintf("decoding %s", m.Path), err)
	}
	return out, nil
}

// DecodeBundle decodes every message in an OSC bundle, in order, skipping
// (and silently dropping) unparseable ones so one bad message does not
// abort the whole bundle (§7 propagation policy: parse errors are
// recovered locally). Call Decode per message to see each message's error.
func (c *Codec) DecodeBundle(b Bundle) []model.Message {
	var out []model.Message
	for _, m := range b.Messages {
		msgs, err := c.Decode(m)
		if err != nil {
			continue
		}
		out = append(out, msgs...)
	}
	return out
}

// Imprint appends the OSC wire representation of msg to the destination
// bundle's message slice, honoring msg.OutputMode() for dual-path
// messages (§4.1, §4.2).
func (c *Codec) Imprint(msgs *[]Msg, msg model.Message) error {
	switch m := msg.(type) {
	case *model.Frame:
		imprintFrame(msgs, m)
	case *model.Alive:
		imprintAlive(msgs, m)
	case *model.Pointer:
		imprintPointer(msgs, m)
	case *model.Token:
		imprintToken(msgs, m)
	case *model.Bounds:
		imprintBounds(msgs, m)
	case *model.Control:
		imprintControl(msgs, m)
	case *model.Data:
		imprintData(msgs, m)
	case *model.Signal:
		imprintSignal(msgs, m)
	case *model.ConvexHull:
		imprintConvexHull(msgs, m)
	case *model.OuterContour:
		imprintOuterContour(msgs, m)
	case *model.InnerContour:
		imprintInnerContour(msgs, m)
	case *model.Skeleton:
		imprintSkeleton(msgs, m)
	case *model.SkeletonVolume:
		imprintSkeletonVolume(msgs, m)
	case *model.Area:
		imprintArea(msgs, m)
	case *model.Raw:
		imprintRaw(msgs, m)
	case *model.AliveAssociations:
		imprintAliveAssociations(msgs, m)
	case *model.ContainerAssociation:
		imprintContainerAssociation(msgs, m)
	case *model.LinkAssociation:
		imprintLinkAssociation(msgs, m)
	case *model.LinkedListAssociation:
		imprintLinkedListAssociation(msgs, m)
	case *model.LinkedTreeAssociation:
		return c.imprintLinkedTreeAssociation(msgs, m)
	case *model.SensorProperties:
		imprintSensorProperties(msgs, m)
	case *model.Viewport:
		imprintViewport(msgs, m)
	case *model.GroupMember:
		imprintGroupMember(msgs, m)
	case *model.Neighbour:
		imprintNeighbour(msgs, m)
	case *model.GestureIdentification:
		imprintGesture(msgs, m)
	case *model.Opaque:
		*msgs = append(*msgs, Msg{Path: m.Path, Tags: m.Tags, Args: append([]interface{}(nil), m.Args...)})
	default:
		return fmt.Errorf("osc: no imprint for message type %T", msg)
	}
	return nil
}

func ft(sec, frac uint32) [2]uint32 { return [2]uint32{sec, frac} }

func (c *Codec) registerEnvelope() {
	c.Register(model.PathFrame, func(tags string, args []interface{}) ([]model.Message, error) {
		if tags != "itsiii" {
			return nil, fmt.Errorf("frame: expected tags 'itsiii', got %q", tags)
		}
		id, _ := args[0].(int32)
		tt, ok := args[1].([2]uint32)
		if !ok {
			return nil, fmt.Errorf("frame: arg 1 not a timetag")
		}
		source, _ := args[2].(string)
		ipPacked, _ := args[3].(int32)
		instance, _ := args[4].(int32)
		dims, _ := args[5].(int32)
		ip := make(net.IP, 4)
		ipv := uint32(ipPacked)
		ip[0], ip[1], ip[2], ip[3] = byte(ipv>>24), byte(ipv>>16), byte(ipv>>8), byte(ipv)
		return []model.Message{&model.Frame{
			ID:         model.FrameID(uint32(id)),
			Time:       model.Timetag{Seconds: tt[0], Fraction: tt[1]},
			Source:     source,
			IP:         ip,
			Instance:   model.InstanceID(uint32(instance)),
			Dimensions: model.Dimensions(uint32(dims)),
		}}, nil
	})

	c.Register(model.PathAlive, func(tags string, args []interface{}) ([]model.Message, error) {
		for _, tag := range tags {
			if tag != 'i' {
				return nil, fmt.Errorf("alive: expected all-int tags, got %q", tags)
			}
		}
		ids := make([]model.SessionID, len(args))
		for i, a := range args {
			v, _ := a.(int32)
			ids[i] = model.SessionID(uint32(v))
		}
		return []model.Message{&model.Alive{SessionIDs: ids}}, nil
	})
}

func imprintFrame(msgs *[]Msg, f *model.Frame) {
	ip := f.IP.To4()
	var packed uint32
	if ip != nil {
		packed = uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
	}
	*msgs = append(*msgs, Msg{
		Path: model.PathFrame,
		Tags: "itsiii",
		Args: []interface{}{
			int32(f.ID), ft(f.Time.Seconds, f.Time.Fraction), f.Source,
			int32(packed), int32(f.Instance), int32(f.Dimensions),
		},
	})
}

func imprintAlive(msgs *[]Msg, a *model.Alive) {
	tags := make([]byte, len(a.SessionIDs))
	args := make([]interface{}, len(a.SessionIDs))
	for i, id := range a.SessionIDs {
		tags[i] = 'i'
		args[i] = int32(id)
	}
	*msgs = append(*msgs, Msg{Path: model.PathAlive, Tags: string(tags), Args: args})
}
