package boundary

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Status is the integer result every host-invoked entry point returns.
type Status int32

const (
	StatusOK    Status = 0
	StatusFault Status = 1
)

// ExitAbort is the process exit code used by the default abort handler.
const ExitAbort = 134

// Fault is a panic captured at the boundary.
type Fault struct {
	Value any
	Stack []byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("module fault: %v", f.Value)
}

// Unwrap exposes the panic value when it was an error.
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// Aborted is raised after the abort handler returns. It is never contained
// by Guard.
type Aborted struct {
	Reason string
}

func (a *Aborted) Error() string {
	return "module aborted: " + a.Reason
}

// Guard runs fn and converts any panic into StatusFault. A fault that was
// already captured further down (and re-raised with Rethrow) is passed through
// unchanged so the original stack survives.
func Guard(fn func()) (status Status, fault *Fault) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if a, ok := r.(*Aborted); ok {
			panic(a)
		}
		f, ok := r.(*Fault)
		if !ok {
			f = &Fault{Value: r, Stack: debug.Stack()}
		}
		status, fault = StatusFault, f
	}()

	fn()
	return StatusOK, nil
}

// Run is Guard for entry points that only report a status. The fault is
// logged before the status crosses back to the host.
func Run(name string, fn func()) Status {
	status, fault := Guard(fn)
	if fault != nil {
		Logger().Error("entry point faulted",
			zap.String("entry", name),
			zap.Any("fault", fault.Value),
			zap.ByteString("stack", fault.Stack))
	}
	return status
}

// Rethrow re-raises a fault inside the module's own call stack.
func Rethrow(f *Fault) {
	if f != nil {
		panic(f)
	}
}

var (
	abortMu      sync.Mutex
	abortHandler = defaultAbort
)

func defaultAbort(reason string) {
	fmt.Fprintf(os.Stderr, "gamebind: fatal host/module mismatch: %s\n", reason)
	os.Exit(ExitAbort)
}

// SetAbortHandler replaces the handler invoked by Abort and returns the
// previous one. Passing nil restores the default, which exits the process.
func SetAbortHandler(h func(reason string)) func(reason string) {
	abortMu.Lock()
	defer abortMu.Unlock()
	prev := abortHandler
	if h == nil {
		h = defaultAbort
	}
	abortHandler = h
	return prev
}

// Abort reports an unrecoverable host/module mismatch. It does not return.
func Abort(reason string, fields ...zap.Field) {
	Logger().Error("abort: "+reason, fields...)

	abortMu.Lock()
	h := abortHandler
	abortMu.Unlock()

	h(reason)
	panic(&Aborted{Reason: reason})
}

// Abortf is Abort with a formatted reason.
func Abortf(format string, args ...any) {
	Abort(fmt.Sprintf(format, args...))
}

// Trap runs fn with a non-exiting abort handler and reports whether fn
// aborted. It swaps the process-wide handler, so concurrent callers of Abort
// outside fn observe the trap too.
func Trap(fn func()) (reason string, aborted bool) {
	prev := SetAbortHandler(func(string) {})
	defer SetAbortHandler(prev)

	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(*Aborted)
			if !ok {
				panic(r)
			}
			reason, aborted = a.Reason, true
		}
	}()

	fn()
	return "", false
}
