package osc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func asUUID(args []interface{}, i int) (model.UUID, error) {
	b, ok := args[i].([]byte)
	if !ok {
		return model.NilUUID, fmt.Errorf("expected uuid blob at arg %d", i)
	}
	if len(b) == 0 {
		return model.NilUUID, nil
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return model.NilUUID, fmt.Errorf("malformed uuid blob: %w", err)
	}
	return id, nil
}

func uuidBytes(id model.UUID) []byte {
	if id == model.NilUUID {
		return nil
	}
	b, _ := id.MarshalBinary()
	return b
}

func (c *Codec) registerDTUIO() {
	c.Register(model.PathSensorProperties, func(tags string, args []interface{}) ([]model.Message, error) {
		if tags != "bis" {
			return nil, fmt.Errorf("sensor_properties: expected tags 'bis', got %q", tags)
		}
		sensor, err := asUUID(args, 0)
		if err != nil {
			return nil, fmt.Errorf("sensor_properties: %w", err)
		}
		return []model.Message{&model.SensorProperties{
			Sensor:  sensor,
			Setup:   model.SetupMode(asInt(args, 1)),
			Purpose: args[2].(string),
		}}, nil
	})

	c.Register(model.PathViewport, func(tags string, args []interface{}) ([]model.Message, error) {
		if tags != "bfffffffffi" {
			return nil, fmt.Errorf("viewport: expected tags 'bfffffffffi', got %q", tags)
		}
		id, err := asUUID(args, 0)
		if err != nil {
			return nil, fmt.Errorf("viewport: %w", err)
		}
		return []model.Message{&model.Viewport{
			ID:     id,
			Center: model.Point3D{X: asFloat(args, 1), Y: asFloat(args, 2), Z: asFloat(args, 3)},
			Angle:  model.Angle3D{Yaw: asFloat(args, 4), Pitch: asFloat(args, 5), Roll: asFloat(args, 6)},
			Width:  asFloat(args, 7),
			Height: asFloat(args, 8),
			Depth:  asFloat(args, 9),
			State:  model.ViewportState(asInt(args, 10)),
		}}, nil
	})

	c.Register(model.PathGroupMember, func(tags string, args []interface{}) ([]model.Message, error) {
		if tags != "bb" {
			return nil, fmt.Errorf("group_member: expected tags 'bb', got %q", tags)
		}
		group, err := asUUID(args, 0)
		if err != nil {
			return nil, fmt.Errorf("group_member: group: %w", err)
		}
		member, err := asUUID(args, 1)
		if err != nil {
			return nil, fmt.Errorf("group_member: member: %w", err)
		}
		return []model.Message{&model.GroupMember{Group: group, Member: member}}, nil
	})

	c.Register(model.PathNeighbour, func(tags string, args []interface{}) ([]model.Message, error) {
		if tags != "bbfff" {
			return nil, fmt.Errorf("neighbour: expected tags 'bbfff', got %q", tags)
		}
		from, err := asUUID(args, 0)
		if err != nil {
			return nil, fmt.Errorf("neighbour: from: %w", err)
		}
		to, err := asUUID(args, 1)
		if err != nil {
			return nil, fmt.Errorf("neighbour: to: %w", err)
		}
		return []model.Message{&model.Neighbour{
			From: from, To: to,
			Azimuth:  asFloat(args, 2),
			Altitude: asFloat(args, 3),
			Distance: asFloat(args, 4),
		}}, nil
	})

	c.Register(model.PathGesture, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) < 2 || tags[0] != 'i' || tags[1] != 'i' {
			return nil, fmt.Errorf("gesture: malformed header in tags %q", tags)
		}
		i, argIdx := 2, 2
		sidCount := int(asInt(args, 1))
		if i+sidCount > len(tags) {
			return nil, fmt.Errorf("gesture: truncated session id list")
		}
		sids := make([]model.SessionID, sidCount)
		for k := 0; k < sidCount; k++ {
			if tags[i] != 'i' {
				return nil, fmt.Errorf("gesture: expected int session id at tag %d", i)
			}
			sids[k] = model.SessionID(asInt(args, argIdx))
			i++
			argIdx++
		}
		if i >= len(tags) || tags[i] != 's' {
			return nil, fmt.Errorf("gesture: expected recognizer name at tag %d", i)
		}
		recognizer, _ := args[argIdx].(string)
		i++
		argIdx++
		if i >= len(tags) || tags[i] != 'i' {
			return nil, fmt.Errorf("gesture: expected score count at tag %d", i)
		}
		scoreCount := int(asInt(args, argIdx))
		i++
		argIdx++
		if i+scoreCount > len(tags) {
			return nil, fmt.Errorf("gesture: truncated score list")
		}
		scores := make([]float64, scoreCount)
		for k := 0; k < scoreCount; k++ {
			if tags[i] != 'f' {
				return nil, fmt.Errorf("gesture: expected float score at tag %d", i)
			}
			scores[k] = asFloat(args, argIdx)
			i++
			argIdx++
		}
		return []model.Message{&model.GestureIdentification{
			User:       model.UserID(asInt(args, 0)),
			SessionIDs: sids,
			Recognizer: recognizer,
			Scores:     scores,
		}}, nil
	})
}

func imprintSensorProperties(msgs *[]Msg, s *model.SensorProperties) {
	*msgs = append(*msgs, Msg{
		Path: model.PathSensorProperties,
		Tags: "bis",
		Args: []interface{}{uuidBytes(s.Sensor), int32(s.Setup), s.Purpose},
	})
}

func imprintViewport(msgs *[]Msg, v *model.Viewport) {
	*msgs = append(*msgs, Msg{
		Path: model.PathViewport,
		Tags: "bfffffffffi",
		Args: []interface{}{
			uuidBytes(v.ID),
			float32(v.Center.X), float32(v.Center.Y), float32(v.Center.Z),
			float32(v.Angle.Yaw), float32(v.Angle.Pitch), float32(v.Angle.Roll),
			float32(v.Width), float32(v.Height), float32(v.Depth),
			int32(v.State),
		},
	})
}

func imprintGroupMember(msgs *[]Msg, g *model.GroupMember) {
	*msgs = append(*msgs, Msg{
		Path: model.PathGroupMember,
		Tags: "bb",
		Args: []interface{}{uuidBytes(g.Group), uuidBytes(g.Member)},
	})
}

func imprintNeighbour(msgs *[]Msg, n *model.Neighbour) {
	*msgs = append(*msgs, Msg{
		Path: model.PathNeighbour,
		Tags: "bbfff",
		Args: []interface{}{uuidBytes(n.From), uuidBytes(n.To), float32(n.Azimuth), float32(n.Altitude), float32(n.Distance)},
	})
}

func imprintGesture(msgs *[]Msg, g *model.GestureIdentification) {
	var tags strings.Builder
	tags.WriteString("ii")
	args := []interface{}{int32(g.User), int32(len(g.SessionIDs))}
	for _, sid := range g.SessionIDs {
		tags.WriteByte('i')
		args = append(args, int32(sid))
	}
	tags.WriteByte('s')
	args = append(args, g.Recognizer)
	tags.WriteByte('i')
	args = append(args, int32(len(g.Scores)))
	for _, s := range g.Scores {
		tags.WriteByte('f')
		args = append(args, float32(s))
	}
	*msgs = append(*msgs, Msg{Path: model.PathGesture, Tags: tags.String(), Args: args})
}
