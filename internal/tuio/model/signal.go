package model

import (
	"fmt"
	"strings"
)

const (
	PathControl = "/tuio2/ctl"
	PathData    = "/tuio2/dat"
	PathSignal  = "/tuio2/sig"
)

// Control carries an ordered list of free-form control floats for a session.
type Control struct {
	Session SessionID
	Values  []float64
}

func (c *Control) Clone() Message {
	return &Control{Session: c.Session, Values: append([]float64(nil), c.Values...)}
}

func (c *Control) String() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return fmt.Sprintf("%s[sid=%d [%s]]", PathControl, c.Session, strings.Join(parts, ","))
}

func (c *Control) OutputMode() OutputMode { return OutputModeBoth }
func (c *Control) SessionID() SessionID     { return c.Session }
func (c *Control) SetSessionID(id SessionID) { c.Session = id }

// Data carries either a string payload or a binary blob, tagged with a
// MIME type.
type Data struct {
	Session SessionID
	MIME    string
	Text    string
	Blob    []byte
	IsBlob  bool
}

func (d *Data) Clone() Message {
	clone := *d
	clone.Blob = append([]byte(nil), d.Blob...)
	return &clone
}

func (d *Data) String() string {
	if d.IsBlob {
		return fmt.Sprintf("%s[sid=%d mime=%q blob=%dB]", PathData, d.Session, d.MIME, len(d.Blob))
	}
	return fmt.Sprintf("%s[sid=%d mime=%q text=%q]", PathData, d.Session, d.MIME, d.Text)
}

func (d *Data) OutputMode() OutputMode { return OutputModeBoth }
func (d *Data) SessionID() SessionID     { return d.Session }
func (d *Data) SetSessionID(id SessionID) { d.Session = id }

// Signal carries an event id and the set of session ids it targets.
type Signal struct {
	EventID SessionID
	Targets []SessionID
}

func (s *Signal) Clone() Message {
	return &Signal{EventID: s.EventID, Targets: append([]SessionID(nil), s.Targets...)}
}

func (s *Signal) String() string {
	parts := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return fmt.Sprintf("%s[event=%d targets=[%s]]", PathSignal, s.EventID, strings.Join(parts, ","))
}

func (s *Signal) OutputMode() OutputMode { return OutputModeBoth }
