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
				Phase:  PhaseCall,
				Kind:   KindTypeMismatch,
				GoType: "chan int",
				Detail: "cannot lower",
			},
			contains: []string{"[call]", "type_mismatch", "chan int", "cannot lower"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindInvalidData,
			},
			contains: []string{"[load]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindAllocation,
				Detail: "guest allocator returned null",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[call]", "allocation", "guest allocator returned null", "caused by", "underlying error"},
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

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Load("compile guest", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not match wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := AllocationFailed(PhaseCall, 14)

	if !errors.Is(err, &Error{Phase: PhaseCall, Kind: KindAllocation}) {
		t.Error("Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseHost, Kind: KindAllocation}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseCall, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseHost, KindRegistration).
		GoType("func() string").
		Detail("register %s", "get-greeting").
		Cause(cause).
		Build()

	if err.Phase != PhaseHost || err.Kind != KindRegistration {
		t.Fatalf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if err.Detail != "register get-greeting" {
		t.Fatalf("detail = %q", err.Detail)
	}
	if err.Cause != cause {
		t.Fatal("cause not set")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := NotFound(PhaseCall, "function", "greet").Error(); !strings.Contains(got, `function "greet" not found`) {
		t.Errorf("NotFound message: %q", got)
	}
	if got := OutOfBounds(PhaseCall, 1024, 14).Error(); !strings.Contains(got, "1024") || !strings.Contains(got, "14") {
		t.Errorf("OutOfBounds message: %q", got)
	}
	if got := InvalidUTF8(PhaseCall, []byte{0xff, 0xfe}).Error(); !strings.Contains(got, "fffe") {
		t.Errorf("InvalidUTF8 message: %q", got)
	}

	long := make([]byte, 64)
	for i := range long {
		long[i] = 0xff
	}
	msg := InvalidUTF8(PhaseCall, long).Error()
	if strings.Count(msg, "ff") > 40 {
		t.Errorf("InvalidUTF8 should truncate preview: %q", msg)
	}
}
