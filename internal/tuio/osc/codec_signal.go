package osc

import (
	"fmt"
	"strings"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func (c *Codec) registerSignal() {
	c.Register(model.PathControl, func(tags string, args []interface{}) ([]model.Message, error) {
		if len(tags) == 0 || tags[0] != 'i' {
			return nil, fmt.Errorf("control: expected leading session id")
		}
		for _, t := range tags[1:] {
			if t != 'f' {
				return nil, fmt.Errorf("control: expected all-float tail, got %q", tags)
			}
		}
		values := make([]float64, len(args)-1)
		for i := 1; i < len(args); i++ {
			values[i-1] = asFloat(args, i)
		}
		return []model.Message{&model.Control{Session: model.SessionID(asInt(args, 0)), Values: values}}, nil
	})

	c.Register(model.PathData, func(tags string, args []interface{}) ([]model.Message, error) {
		switch tags {
		case "iss":
			return []model.Message{&model.Data{
				Session: model.SessionID(asInt(args, 0)),
				MIME:    args[1].(string),
				Text:    args[2].(string),
			}}, nil
		case "isb":
			blob, _ := args[2].([]byte)
			return []model.Message{&model.Data{
				Session: model.SessionID(asInt(args, 0)),
				MIME:    args[1].(string),
				Blob:    blob,
				IsBlob:  true,
			}}, nil
		default:
			return nil, fmt.Errorf("data: unexpected tags %q", tags)
		}
	})

	c.Register(model.PathSignal, func(tags string, args []interface{}) ([]model.Message, error) {
		for _, t := range tags {
			if t != 'i' {
				return nil, fmt.Errorf("signal: expected all-int tags, got %q", tags)
			}
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("signal: missing event id")
		}
		targets := make([]model.SessionID, len(args)-1)
		for i := 1; i < len(args); i++ {
			targets[i-1] = model.SessionID(asInt(args, i))
		}
		return []model.Message{&model.Signal{EventID: model.SessionID(asInt(args, 0)), Targets: targets}}, nil
	})
}

func imprintControl(msgs *[]Msg, ctl *model.Control) {
	tags := "i" + strings.Repeat("f", len(ctl.Values))
	args := make([]interface{}, 0, len(ctl.Values)+1)
	args = append(args, int32(ctl.Session))
	for _, v := range ctl.Values {
		args = append(args, float32(v))
	}
	*msgs = append(*msgs, Msg{Path: model.PathControl, Tags: tags, Args: args})
}

func imprintData(msgs *[]Msg, d *model.Data) {
	if d.IsBlob {
		*msgs = append(*msgs, Msg{Path: model.PathData, Tags: "isb", Args: []interface{}{int32(d.Session), d.MIME, d.Blob}})
		return
	}
	*msgs = append(*msgs, Msg{Path: model.PathData, Tags: "iss", Args: []interface{}{int32(d.Session), d.MIME, d.Text}})
}

func imprintSignal(msgs *[]Msg, s *model.Signal) {
	tags := strings.Repeat("i", len(s.Targets)+1)
	args := make([]interface{}, 0, len(s.Targets)+1)
	args = append(args, int32(s.EventID))
	for _, t := range s.Targets {
		args = append(args, int32(t))
	}
	*msgs = append(*msgs, Msg{Path: model.PathSignal, Tags: tags, Args: args})
}
