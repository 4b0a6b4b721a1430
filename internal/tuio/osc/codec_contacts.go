package osc

import (
	"fmt"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

// requireTagsPrefix validates that tags starts with prefix exactly, returning an
// error naming both the expected and actual tag strings. Dual-mode
// messages use this to validate their fixed prefix and then separately
// validate the extended tail, so an unexpected tail rejects the whole
// message without silently truncating it (§4.2).
func requireTagsPrefix(tags, prefix string) error {
	if len(tags) < len(prefix) || tags[:len(prefix)] != prefix {
		return fmt.Errorf("expected tag prefix %q, got %q", prefix, tags)
	}
	return nil
}

func asFloat(args []interface{}, i int) float64 {
	v, _ := args[i].(float32)
	return float64(v)
}

func asInt(args []interface{}, i int) int32 {
	v, _ := args[i].(int32)
	return v
}

func (c *Codec) registerContacts() {
	c.Register(model.PathPointer2D, func(tags string, args []interface{}) ([]model.Message, error) {
		const base = "iiiffff"
		if err := requireTagsPrefix(tags, base); err != nil {
			return nil, fmt.Errorf("pointer2d: %w", err)
		}
		p := &model.Pointer{
			Mode:      model.OutputMode2D,
			Session:   model.SessionID(asInt(args, 0)),
			Tu:        model.TuID(asInt(args, 1)),
			Component: model.ComponentID(asInt(args, 2)),
			Pos:       model.Point3D{X: asFloat(args, 3), Y: asFloat(args, 4)},
			Width:     asFloat(args, 5),
			Pressure:  asFloat(args, 6),
		}
		switch {
		case tags == base:
		case tags == base+"fff":
			p.Vel = model.Velocity3D{X: asFloat(args, 7), Y: asFloat(args, 8)}
			p.Accel = asFloat(args, 9)
		default:
			return nil, fmt.Errorf("pointer2d: unexpected tail in tags %q", tags)
		}
		return []model.Message{p}, nil
	})

	c.Register(model.PathPointer3D, func(tags string, args []interface{}) ([]model.Message, error) {
		const base = "iiifffff"
		if err := requireTagsPrefix(tags, base); err != nil {
			return nil, fmt.Errorf("pointer3d: %w", err)
		}
		p := &model.Pointer{
			Mode:      model.OutputMode3D,
			Session:   model.SessionID(asInt(args, 0)),
			Tu:        model.TuID(asInt(args, 1)),
			Component: model.ComponentID(asInt(args, 2)),
			Pos:       model.Point3D{X: asFloat(args, 3), Y: asFloat(args, 4), Z: asFloat(args, 5)},
			Width:     asFloat(args, 6),
			Pressure:  asFloat(args, 7),
		}
		switch {
		case tags == base:
		case tags == base+"ffff":
			p.Vel = model.Velocity3D{X: asFloat(args, 8), Y: asFloat(args, 9), Z: asFloat(args, 10)}
			p.Accel = asFloat(args, 11)
		default:
			return nil, fmt.Errorf("pointer3d: unexpected tail in tags %q", tags)
		}
		return []model.Message{p}, nil
	})

	c.Register(model.PathToken2D, func(tags string, args []interface{}) ([]model.Message, error) {
		const base = "iiifff"
		if err := requireTagsPrefix(tags, base); err != nil {
			return nil, fmt.Errorf("token2d: %w", err)
		}
		tk := &model.Token{
			Mode:      model.OutputMode2D,
			Session:   model.SessionID(asInt(args, 0)),
			Tu:        model.TuID(asInt(args, 1)),
			Component: model.ComponentID(asInt(args, 2)),
			Pos:       model.Point3D{X: asFloat(args, 3), Y: asFloat(args, 4)},
			Angle:     model.Angle3D{Yaw: asFloat(args, 5)},
		}
		switch {
		case tags == base:
		case tags == base+"fffff":
			tk.Vel = model.Velocity3D{X: asFloat(args, 6), Y: asFloat(args, 7)}
			tk.RotVel = model.RotationVelocity3D{Yaw: asFloat(args, 8)}
			tk.Accel = asFloat(args, 9)
			tk.RotAccel = asFloat(args, 10)
		default:
			return nil, fmt.Errorf("token2d: unexpected tail in tags %q", tags)
		}
		return []model.Message{tk}, nil
	})

	c.Register(model.PathToken3D, func(tags string, args []interface{}) ([]model.Message, error) {
		const base = "iiiffffff"
		if err := requireTagsPrefix(tags, base); err != nil {
			return nil, fmt.Errorf("token3d: %w", err)
		}
		tk := &model.Token{
			Mode:      model.OutputMode3D,
			Session:   model.SessionID(asInt(args, 0)),
			Tu:        model.TuID(asInt(args, 1)),
			Component: model.ComponentID(asInt(args, 2)),
			Pos:       model.Point3D{X: asFloat(args, 3), Y: asFloat(args, 4), Z: asFloat(args, 5)},
			Angle:     model.Angle3D{Yaw: asFloat(args, 6), Pitch: asFloat(args, 7), Roll: asFloat(args, 8)},
		}
		switch {
		case tags == base:
		case tags == base+"ffffffff":
			tk.Vel = model.Velocity3D{X: asFloat(args, 9), Y: asFloat(args, 10), Z: asFloat(args, 11)}
			tk.RotVel = model.RotationVelocity3D{Yaw: asFloat(args, 12), Pitch: asFloat(args, 13), Roll: asFloat(args, 14)}
			tk.Accel = asFloat(args, 15)
			tk.RotAccel = asFloat(args, 16)
		default:
			return nil, fmt.Errorf("token3d: unexpected tail in tags %q", tags)
		}
		return []model.Message{tk}, nil
	})

	c.Register(model.PathBounds2D, func(tags string, args []interface{}) ([]model.Message, error) {
		const base = "iffffff"
		if err := requireTagsPrefix(tags, base); err != nil {
			return nil, fmt.Errorf("bounds2d: %w", err)
		}
		b := &model.Bounds{
			Mode:    model.OutputMode2D,
			Session: model.SessionID(asInt(args, 0)),
			Pos:     model.Point3D{X: asFloat(args, 1), Y: asFloat(args, 2)},
			Angle:   model.Angle3D{Yaw: asFloat(args, 3)},
			Width:   asFloat(args, 4),
			Height:  asFloat(args, 5),
			AreaVol: asFloat(args, 6),
		}
		switch {
		case tags == base:
		case tags == base+"fffff":
			b.Vel = model.Velocity3D{X: asFloat(args, 7), Y: asFloat(args, 8)}
			b.RotVel = model.RotationVelocity3D{Yaw: asFloat(args, 9)}
			b.Accel = asFloat(args, 10)
			b.RotAccel = asFloat(args, 11)
		default:
			return nil, fmt.Errorf("bounds2d: unexpected tail in tags %q", tags)
		}
		return []model.Message{b}, nil
	})

	c.Register(model.PathBounds3D, func(tags string, args []interface{}) ([]model.Message, error) {
		const base = "iffffffffff"
		if err := requireTagsPrefix(tags, base); err != nil {
			return nil, fmt.Errorf("bounds3d: %w", err)
		}
		b := &model.Bounds{
			Mode:    model.OutputMode3D,
			Session: model.SessionID(asInt(args, 0)),
			Pos:     model.Point3D{X: asFloat(args, 1), Y: asFloat(args, 2), Z: asFloat(args, 3)},
			Angle:   model.Angle3D{Yaw: asFloat(args, 4), Pitch: asFloat(args, 5), Roll: asFloat(args, 6)},
			Width:   asFloat(args, 7),
			Height:  asFloat(args, 8),
			Depth:   asFloat(args, 9),
			AreaVol: asFloat(args, 10),
		}
		switch {
		case tags == base:
		case tags == base+"ffffffff":
			b.Vel = model.Velocity3D{X: asFloat(args, 11), Y: asFloat(args, 12), Z: asFloat(args, 13)}
			b.RotVel = model.RotationVelocity3D{Yaw: asFloat(args, 14), Pitch: asFloat(args, 15), Roll: asFloat(args, 16)}
			b.Accel = asFloat(args, 17)
			b.RotAccel = asFloat(args, 18)
		default:
			return nil, fmt.Errorf("bounds3d: unexpected tail in tags %q", tags)
		}
		return []model.Message{b}, nil
	})
}

func imprintPointer(msgs *[]Msg, p *model.Pointer) {
	if p.Mode == model.OutputMode2D || p.Mode == model.OutputModeBoth {
		*msgs = append(*msgs, Msg{
			Path: model.PathPointer2D,
			Tags: "iiifffffff",
			Args: []interface{}{
				int32(p.Session), int32(p.Tu), int32(p.Component),
				float32(p.Pos.X), float32(p.Pos.Y), float32(p.Width), float32(p.Pressure),
				float32(p.Vel.X), float32(p.Vel.Y), float32(p.Accel),
			},
		})
	}
	if p.Mode == model.OutputMode3D || p.Mode == model.OutputModeBoth {
		*msgs = append(*msgs, Msg{
			Path: model.PathPointer3D,
			Tags: "iiifffffffff",
			Args: []interface{}{
				int32(p.Session), int32(p.Tu), int32(p.Component),
				float32(p.Pos.X), float32(p.Pos.Y), float32(p.Pos.Z), float32(p.Width), float32(p.Pressure),
				float32(p.Vel.X), float32(p.Vel.Y), float32(p.Vel.Z), float32(p.Accel),
			},
		})
	}
}

func imprintToken(msgs *[]Msg, tk *model.Token) {
	if tk.Mode == model.OutputMode2D || tk.Mode == model.OutputModeBoth {
		*msgs = append(*msgs, Msg{
			Path: model.PathToken2D,
			Tags: "iiiffffffff",
			Args: []interface{}{
				int32(tk.Session), int32(tk.Tu), int32(tk.Component),
				float32(tk.Pos.X), float32(tk.Pos.Y), float32(tk.Angle.Yaw),
				float32(tk.Vel.X), float32(tk.Vel.Y), float32(tk.RotVel.Yaw), float32(tk.Accel), float32(tk.RotAccel),
			},
		})
	}
	if tk.Mode == model.OutputMode3D || tk.Mode == model.OutputModeBoth {
		*msgs = append(*msgs, Msg{
			Path: model.PathToken3D,
			Tags: "iiiffffffffffffff",
			Args: []interface{}{
				int32(tk.Session), int32(tk.Tu), int32(tk.Component),
				float32(tk.Pos.X), float32(tk.Pos.Y), float32(tk.Pos.Z),
				float32(tk.Angle.Yaw), float32(tk.Angle.Pitch), float32(tk.Angle.Roll),
				float32(tk.Vel.X), float32(tk.Vel.Y), float32(tk.Vel.Z),
				float32(tk.RotVel.Yaw), float32(tk.RotVel.Pitch), float32(tk.RotVel.Roll),
				float32(tk.Accel), float32(tk.RotAccel),
			},
		})
	}
}

func imprintBounds(msgs *[]Msg, b *model.Bounds) {
	if b.Mode == model.OutputMode2D || b.Mode == model.OutputModeBoth {
		*msgs = append(*msgs, Msg{
			Path: model.PathBounds2D,
			Tags: "ifffffffffff",
			Args: []interface{}{
				int32(b.Session), float32(b.Pos.X), float32(b.Pos.Y), float32(b.Angle.Yaw),
				float32(b.Width), float32(b.Height), float32(b.AreaVol),
				float32(b.Vel.X), float32(b.Vel.Y), float32(b.RotVel.Yaw), float32(b.Accel), float32(b.RotAccel),
			},
		})
	}
	if b.Mode == model.OutputMode3D || b.Mode == model.OutputModeBoth {
		*msgs = append(*msgs, Msg{
			Path: model.PathBounds3D,
			Tags: "iffffffffffffffffff",
			Args: []interface{}{
				int32(b.Session), float32(b.Pos.X), float32(b.Pos.Y), float32(b.Pos.Z),
				float32(b.Angle.Yaw), float32(b.Angle.Pitch), float32(b.Angle.Roll),
				float32(b.Width), float32(b.Height), float32(b.Depth), float32(b.AreaVol),
				float32(b.Vel.X), float32(b.Vel.Y), float32(b.Vel.Z),
				float32(b.RotVel.Yaw), float32(b.RotVel.Pitch), float32(b.RotVel.Roll),
				float32(b.Accel), float32(b.RotAccel),
			},
		})
	}
}
