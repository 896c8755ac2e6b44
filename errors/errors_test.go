package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseAnalysis,
				Kind:   KindInvalidSignature,
				System: "game.Move",
				Arg:    2,
				Type:   "game.Velocity",
				Detail: "queries must be taken by value",
			},
			contains: []string{"[analysis]", "invalid_signature", "game.Move", "arg 1", "game.Velocity", "by value"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindUnknownType,
			},
			contains: []string{"[load]", "unknown_type"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConfig,
				Kind:   KindInvalidInput,
				Detail: "bad yaml",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[config]", "invalid_input", "bad yaml", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoArgWithoutSystem(t *testing.T) {
	err := &Error{Phase: PhaseAnalysis, Kind: KindNotPlainData, Arg: 3, Type: "game.Noise"}
	if strings.Contains(err.Error(), "arg") {
		t.Errorf("argument index printed without a system: %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseGenerate,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseAnalysis,
		Kind:   KindInvalidSignature,
		System: "game.Move",
	}

	if !err.Is(&Error{Phase: PhaseAnalysis, Kind: KindInvalidSignature}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseLoad, Kind: KindInvalidSignature}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseAnalysis, Kind: KindDuplicate}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseAnalysis, Kind: KindInvalidSignature}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseAnalysis, KindInvalidSignature).
		System("game.Move").
		Arg(0).
		Type("game.Tank").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "pointer", "struct").
		Build()

	if err.Phase != PhaseAnalysis {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseAnalysis)
	}
	if err.Kind != KindInvalidSignature {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidSignature)
	}
	if err.System != "game.Move" || err.Arg != 1 {
		t.Errorf("System/Arg = %q/%d", err.System, err.Arg)
	}
	if err.Type != "game.Tank" {
		t.Errorf("Type = %v, want game.Tank", err.Type)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected pointer, got struct" {
		t.Errorf("Detail = %v", err.Detail)
	}
	if !strings.Contains(err.Error(), "arg 0") {
		t.Errorf("zero-based argument index missing from %q", err.Error())
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidSignature", func(t *testing.T) {
		err := InvalidSignature("game.Move", 1, "unsupported parameter %s", "int")
		if err.Kind != KindInvalidSignature || err.Phase != PhaseAnalysis {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Arg != 2 {
			t.Errorf("Arg = %d, want 2", err.Arg)
		}
	})

	t.Run("InvalidSignature without arg", func(t *testing.T) {
		err := InvalidSignature("game.Move", -1, "must not return values")
		if err.Arg != 0 {
			t.Errorf("Arg = %d, want 0", err.Arg)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		err := UnknownType(PhaseLoad, "game.Ghost")
		if err.Kind != KindUnknownType || err.Type != "game.Ghost" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := Duplicate(PhaseAnalysis, "component", "game.Tank")
		if err.Kind != KindDuplicate {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Detail, "component") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := OutOfRange(PhaseDispatch, "system", 10, 5)
		if err.Kind != KindOutOfRange {
			t.Errorf("Kind = %v", err.Kind)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("VersionMismatch", func(t *testing.T) {
		err := VersionMismatch(PhaseLoad, "1.0.0", "0.1.0")
		if !strings.Contains(err.Error(), "1.0.0") || !strings.Contains(err.Error(), "0.1.0") {
			t.Errorf("message %q lacks versions", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("disk")
		err := Wrap(PhaseConfig, KindInvalidInput, cause, "read config")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep cause reachable")
		}
	})
}
