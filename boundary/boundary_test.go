package boundary

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGuard(t *testing.T) {
	tests := []struct {
		name   string
		fn     func()
		status Status
		value  any
	}{
		{"returns normally", func() {}, StatusOK, nil},
		{"string panic", func() { panic("boom") }, StatusFault, "boom"},
		{"error panic", func() { panic(errors.New("bad state")) }, StatusFault, errors.New("bad state")},
		{"runtime error", func() {
			var m map[string]int
			m["x"] = 1
		}, StatusFault, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, fault := Guard(tt.fn)
			assert.Equal(t, tt.status, status)
			if tt.status == StatusOK {
				assert.Nil(t, fault)
				return
			}
			require.NotNil(t, fault)
			assert.NotEmpty(t, fault.Stack)
			if tt.value != nil {
				assert.Equal(t, tt.value, fault.Value)
			}
		})
	}
}

func TestGuard_PassesFaultThrough(t *testing.T) {
	inner := &Fault{Value: "row failed", Stack: []byte("original")}
	status, fault := Guard(func() { Rethrow(inner) })
	assert.Equal(t, StatusFault, status)
	assert.Same(t, inner, fault)
}

func TestRethrow_Nil(t *testing.T) {
	assert.NotPanics(t, func() { Rethrow(nil) })
}

func TestFault_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	f := &Fault{Value: cause}
	assert.ErrorIs(t, f, cause)
	assert.Contains(t, f.Error(), "cause")

	assert.Nil(t, (&Fault{Value: 42}).Unwrap())
}

func TestRun_LogsFault(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	assert.Equal(t, StatusOK, Run("quiet", func() {}))
	assert.Equal(t, StatusFault, Run("game.Explode", func() { panic("kaboom") }))

	entries := logs.FilterMessage("entry point faulted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "game.Explode", entries[0].ContextMap()["entry"])
}

func TestAbort_NotContained(t *testing.T) {
	var calls atomic.Int32
	prev := SetAbortHandler(func(reason string) {
		calls.Add(1)
		assert.Equal(t, "unknown type identity", reason)
	})
	defer SetAbortHandler(prev)

	assert.PanicsWithError(t, "module aborted: unknown type identity", func() {
		Guard(func() { Abort("unknown type identity") })
	})
	assert.Equal(t, int32(1), calls.Load())
}

func TestTrap(t *testing.T) {
	reason, aborted := Trap(func() { Abortf("system index %d out of range", 7) })
	assert.True(t, aborted)
	assert.Equal(t, "system index 7 out of range", reason)

	reason, aborted = Trap(func() {})
	assert.False(t, aborted)
	assert.Empty(t, reason)

	assert.Panics(t, func() {
		Trap(func() { panic("not an abort") })
	})
}

func TestSetAbortHandler_NilRestoresDefault(t *testing.T) {
	prev := SetAbortHandler(nil)
	defer SetAbortHandler(prev)

	h := SetAbortHandler(func(string) {})
	assert.NotNil(t, h)
}
