package osc

import (
	"fmt"
	"strings"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func (c *Codec) registerGeometry() {
	c.Register(model.PathConvexHull, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) == 0 || tags[0] != 'i' || (len(tags)-1)%2 != 0 {
			return nil, fmt.Errorf("convex_hull: malformed tags %q", tags)
		}
		for _, t := range tags[1:] {
			if t != 'f' {
				return nil, fmt.Errorf("convex_hull: expected float coordinate pairs, got %q", tags)
			}
		}
		n := (len(tags) - 1) / 2
		points := make([]model.Point2D, n)
		for i := 0; i < n; i++ {
			points[i] = model.Point2D{X: asFloat(args, 1+2*i), Y: asFloat(args, 2+2*i)}
		}
		return []model.Message{&model.ConvexHull{Session: model.SessionID(asInt(args, 0)), Points: points}}, nil
	})

	c.Register(model.PathOuterContour, func(tags string, args []interface{}) ([]model.Message, error) {
		rings, err := decodeRings(tags, args)
		if err != nil {
			return nil, fmt.Errorf("outer_contour: %w", err)
		}
		return []model.Message{model.NewOuterContour(model.SessionID(asInt(args, 0)), rings)}, nil
	})

	c.Register(model.PathInnerContour, func(tags string, args []interface{}) ([]model.Message, error) {
		rings, err := decodeRings(tags, args)
		if err != nil {
			return nil, fmt.Errorf("inner_contour: %w", err)
		}
		return []model.Message{model.NewInnerContour(model.SessionID(asInt(args, 0)), rings)}, nil
	})

	c.Register(model.PathSkeleton2D, func(tags string, args []interface{}) ([]model.Message, error) {
		nodes, err := decodeSkeletonNodes(tags, args, false)
		if err != nil {
			return nil, fmt.Errorf("skeleton2d: %w", err)
		}
		return []model.Message{&model.Skeleton{Mode: model.OutputMode2D, Session: model.SessionID(asInt(args, 0)), Nodes: nodes}}, nil
	})

	c.Register(model.PathSkeleton3D, func(tags string, args []interface{}) ([]model.Message, error) {
		nodes, err := decodeSkeletonNodes(tags, args, true)
		if err != nil {
			return nil, fmt.Errorf("skeleton3d: %w", err)
		}
		return []model.Message{&model.Skeleton{Mode: model.OutputMode3D, Session: model.SessionID(asInt(args, 0)), Nodes: nodes}}, nil
	})

	c.Register(model.PathSkeletonVol, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) == 0 || tags[0] != 'i' {
			return nil, fmt.Errorf("skeleton_volume: malformed tags %q", tags)
		}
		for _, t := range tags[1:] {
			if t != 'f' {
				return nil, fmt.Errorf("skeleton_volume: expected float radii, got %q", tags)
			}
		}
		radii := make([]float64, len(args)-1)
		for i := 1; i < len(args); i++ {
			radii[i-1] = asFloat(args, i)
		}
		return []model.Message{&model.SkeletonVolume{Session: model.SessionID(asInt(args, 0)), Radii: radii}}, nil
	})

	c.Register(model.PathArea, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) == 0 || tags[0] != 'i' || (len(tags)-1)%3 != 0 {
			return nil, fmt.Errorf("area: malformed tags %q", tags)
		}
		n := (len(tags) - 1) / 3
		spans := make([]model.AreaSpan, n)
		for i := 0; i < n; i++ {
			base := 1 + 3*i
			spans[i] = model.AreaSpan{Channel: asInt(args, base), Start: asFloat(args, base+1), End: asFloat(args, base+2)}
		}
		return []model.Message{&model.Area{Session: model.SessionID(asInt(args, 0)), Spans: spans}}, nil
	})

	c.Register(model.PathRaw, func(tags string, args []interface{}) ([]model.Message, error) {
		if tags != "ib" {
			return nil, fmt.Errorf("raw: expected tags 'ib', got %q", tags)
		}
		blob, _ := args[1].([]byte)
		return []model.Message{&model.Raw{Session: model.SessionID(asInt(args, 0)), Bytes: blob}}, nil
	})
}

// decodeRings decodes a contour's list-of-lists encoding: a leading
// session id, then per ring a point count (int) followed by that many
// (x, y) float pairs.
func decodeRings(tags string, args []interface{}) ([][]model.Point2D, error) {
	if len(tags) == 0 || tags[0] != 'i' {
		return nil, fmt.Errorf("malformed tags %q", tags)
	}
	var rings [][]model.Point2D
	i, argIdx := 1, 1
	for i < len(tags) {
		if tags[i] != 'i' {
			return nil, fmt.Errorf("expected ring count marker at tag %d, got %q", i, tags)
		}
		count := int(asInt(args, argIdx))
		i++
		argIdx++
		ring := make([]model.Point2D, count)
		for j := 0; j < count; j++ {
			if i+1 >= len(tags) || tags[i] != 'f' || tags[i+1] != 'f' {
				return nil, fmt.Errorf("truncated ring point at tag %d", i)
			}
			ring[j] = model.Point2D{X: asFloat(args, argIdx), Y: asFloat(args, argIdx+1)}
			i += 2
			argIdx += 2
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

func encodeRings(msgs *[]Msg, path string, sid model.SessionID, rings [][]model.Point2D) {
	var tags strings.Builder
	tags.WriteByte('i')
	args := []interface{}{int32(sid)}
	for _, ring := range rings {
		tags.WriteByte('i')
		args = append(args, int32(len(ring)))
		for _, p := range ring {
			tags.WriteString("ff")
			args = append(args, float32(p.X), float32(p.Y))
		}
	}
	*msgs = append(*msgs, Msg{Path: path, Tags: tags.String(), Args: args})
}

// decodeSkeletonNodes decodes a skeleton's descend/rollback sequence: a
// leading session id, then per node a boolean marker — true means
// "descend" and is followed by a position (2 or 3 floats), false means
// "rollback" and is followed by a single rollback count (int).
func decodeSkeletonNodes(tags string, args []interface{}, is3D bool) ([]model.SkeletonNode, error) {
	if len(tags) == 0 || tags[0] != 'i' {
		return nil, fmt.Errorf("malformed tags %q", tags)
	}
	var nodes []model.SkeletonNode
	i, argIdx := 1, 1
	coords := 2
	if is3D {
		coords = 3
	}
	for i < len(tags) {
		switch tags[i] {
		case 'T':
			i++
			argIdx++ // consume the boolean marker's own args slot
			if i+coords > len(tags) {
				return nil, fmt.Errorf("truncated skeleton node position")
			}
			for k := 0; k < coords; k++ {
				if tags[i+k] != 'f' {
					return nil, fmt.Errorf("expected float position component, got %q", tags)
				}
			}
			n := model.SkeletonNode{Is3D: is3D}
			if is3D {
				n.Pos3D = model.Point3D{X: asFloat(args, argIdx), Y: asFloat(args, argIdx+1), Z: asFloat(args, argIdx+2)}
			} else {
				n.Pos2D = model.Point2D{X: asFloat(args, argIdx), Y: asFloat(args, argIdx+1)}
			}
			nodes = append(nodes, n)
			i += coords
			argIdx += coords
		case 'F':
			i++
			argIdx++ // consume the boolean marker's own args slot
			if i >= len(tags) || tags[i] != 'i' {
				return nil, fmt.Errorf("expected rollback count after 'F' marker")
			}
			nodes = append(nodes, model.SkeletonNode{Rollback: int(asInt(args, argIdx))})
			i++
			argIdx++
		default:
			return nil, fmt.Errorf("unexpected skeleton node marker %q", tags[i])
		}
	}
	return nodes, nil
}

func encodeSkeletonNodes(msgs *[]Msg, path string, sid model.SessionID, nodes []model.SkeletonNode, is3D bool) {
	var tags strings.Builder
	tags.WriteByte('i')
	args := []interface{}{int32(sid)}
	for _, n := range nodes {
		if n.Rollback > 0 {
			tags.WriteString("Fi")
			args = append(args, false, int32(n.Rollback))
			continue
		}
		tags.WriteByte('T')
		args = append(args, true)
		if is3D {
			tags.WriteString("fff")
			args = append(args, float32(n.Pos3D.X), float32(n.Pos3D.Y), float32(n.Pos3D.Z))
		} else {
			tags.WriteString("ff")
			args = append(args, float32(n.Pos2D.X), float32(n.Pos2D.Y))
		}
	}
	*msgs = append(*msgs, Msg{Path: path, Tags: tags.String(), Args: args})
}

func imprintConvexHull(msgs *[]Msg, c *model.ConvexHull) {
	tags := "i" + strings.Repeat("ff", len(c.Points))
	args := make([]interface{}, 0, 1+2*len(c.Points))
	args = append(args, int32(c.Session))
	for _, p := range c.Points {
		args = append(args, float32(p.X), float32(p.Y))
	}
	*msgs = append(*msgs, Msg{Path: model.PathConvexHull, Tags: tags, Args: args})
}

func imprintOuterContour(msgs *[]Msg, o *model.OuterContour) {
	encodeRings(msgs, model.PathOuterContour, o.Session, o.Rings)
}

func imprintInnerContour(msgs *[]Msg, in *model.InnerContour) {
	encodeRings(msgs, model.PathInnerContour, in.Session, in.Rings)
}

func imprintSkeleton(msgs *[]Msg, s *model.Skeleton) {
	if s.Mode == model.OutputMode2D || s.Mode == model.OutputModeBoth {
		encodeSkeletonNodes(msgs, model.PathSkeleton2D, s.Session, s.Nodes, false)
	}
	if s.Mode == model.OutputMode3D || s.Mode == model.OutputModeBoth {
		encodeSkeletonNodes(msgs, model.PathSkeleton3D, s.Session, s.Nodes, true)
	}
}

func imprintSkeletonVolume(msgs *[]Msg, s *model.SkeletonVolume) {
	tags := "i" + strings.Repeat("f", len(s.Radii))
	args := make([]interface{}, 0, 1+len(s.Radii))
	args = append(args, int32(s.Session))
	for _, r := range s.Radii {
		args = append(args, float32(r))
	}
	*msgs = append(*msgs, Msg{Path: model.PathSkeletonVol, Tags: tags, Args: args})
}

func imprintArea(msgs *[]Msg, a *model.Area) {
	tags := "i" + strings.Repeat("iff", len(a.Spans))
	args := make([]interface{}, 0, 1+3*len(a.Spans))
	args = append(args, int32(a.Session))
	for _, s := range a.Spans {
		args = append(args, s.Channel, float32(s.Start), float32(s.End))
	}
	*msgs = append(*msgs, Msg{Path: model.PathArea, Tags: tags, Args: args})
}

func imprintRaw(msgs *[]Msg, r *model.Raw) {
	*msgs = append(*msgs, Msg{Path: model.PathRaw, Tags: "ib", Args: []interface{}{int32(r.Session), r.Bytes}})
}
