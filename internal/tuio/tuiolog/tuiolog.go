// Package tuiolog is the shared three-stream logging facility for every
// internal/tuio package, grounded on internal/lidar/pipeline/debug.go's
// ops/diag/trace split: one stream for actionable failures, one for
// day-to-day state transitions, one for high-frequency per-bundle
// telemetry. All three default to nil (silent) until a caller opts in.
package tuiolog

import (
	"io"
	"log"
)

var (
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the three logging streams shared by every
// internal/tuio package. Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = newLogger("[tuio] ", ops)
	diagLogger = newLogger("[tuio] ", diag)
	traceLogger = newLogger("[tuio] ", trace)
}

// SetLegacyLogger routes all three streams to a single writer. Pass nil to
// disable all logging.
func SetLegacyLogger(w io.Writer) {
	SetLogWriters(w, w, w)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// Ops logs an actionable failure: a dropped datagram, a net error, a
// failed autoconf placement.
func Ops(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

// Diag logs a day-to-day state transition: pivot elections, id
// allocations, sink add/remove.
func Diag(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

// Trace logs high-frequency per-bundle/per-message telemetry.
func Trace(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}
