package model

import "fmt"

// Opaque preserves an unrecognized OSC message verbatim when the client is
// in accept-unknown mode (§4.2, §9 tagged-union note).
type Opaque struct {
	Path string
	Tags string
	Args []interface{}
}

func (o *Opaque) Clone() Message {
	return &Opaque{Path: o.Path, Tags: o.Tags, Args: append([]interface{}(nil), o.Args...)}
}
func (o *Opaque) String() string {
	return fmt.Sprintf("%s[tags=%q args=%v]", o.Path, o.Tags, o.Args)
}
func (o *Opaque) OutputMode() OutputMode { return OutputModeBoth }
