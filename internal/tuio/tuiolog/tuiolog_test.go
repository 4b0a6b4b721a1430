package tuiolog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSilentByDefault(t *testing.T) {
	SetLogWriters(nil, nil, nil)
	Ops("should not panic %d", 1)
	Diag("should not panic %d", 2)
	Trace("should not panic %d", 3)
}

func TestStreamsRouteIndependently(t *testing.T) {
	var ops, diag, trace bytes.Buffer
	SetLogWriters(&ops, &diag, &trace)
	defer SetLogWriters(nil, nil, nil)

	Ops("ops-message")
	Diag("diag-message")
	Trace("trace-message")

	assert.Contains(t, ops.String(), "ops-message")
	assert.NotContains(t, ops.String(), "diag-message")
	assert.Contains(t, diag.String(), "diag-message")
	assert.Contains(t, trace.String(), "trace-message")
}

func TestSetLegacyLoggerRoutesAllThree(t *testing.T) {
	var buf bytes.Buffer
	SetLegacyLogger(&buf)
	defer SetLogWriters(nil, nil, nil)

	Ops("a")
	Diag("b")
	Trace("c")

	out := buf.String()
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
	assert.Contains(t, out, "c")
}
