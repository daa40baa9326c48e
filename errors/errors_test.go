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
				Phase:  PhaseValidate,
				Kind:   KindValidation,
				Path:   []string{"metadata"},
				Detail: "too many names",
			},
			contains: []string{"[validate]", "validation", "metadata", "too many names"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindMalformedModule,
			},
			contains: []string{"[decode]", "malformed_module"},
		},
		{
			name: "error with offset",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindMalformedModule,
				Offset: 42,
				Detail: "truncated",
			},
			contains: []string{"[decode]", "offset 42", "truncated"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindIO,
				Detail: "write failed",
				Cause:  errors.New("disk full"),
			},
			contains: []string{"[encode]", "io", "write failed", "caused by", "disk full"},
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
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindIO,
		Cause: cause,
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to find the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := AlreadyConsumed(PhaseValidate)

	if !errors.Is(err, &Error{Phase: PhaseValidate, Kind: KindAlreadyConsumed}) {
		t.Error("Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseBuild, Kind: KindAlreadyConsumed}) {
		t.Error("Is should not match a different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseValidate, Kind: KindValidation}) {
		t.Error("Is should not match a different kind")
	}
	if errors.Is(err, errors.New("plain")) {
		t.Error("Is should not match a plain error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("inner")
	err := New(PhaseDecode, KindMalformedModule).
		Path("symbols", "name").
		Offset(17).
		Value(uint32(9)).
		Cause(cause).
		Detail("bad index %d", 9).
		Build()

	if err.Phase != PhaseDecode || err.Kind != KindMalformedModule {
		t.Errorf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if err.Offset != 17 {
		t.Errorf("offset = %d, want 17", err.Offset)
	}
	if err.Detail != "bad index 9" {
		t.Errorf("detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via Unwrap")
	}
	msg := err.Error()
	if !strings.Contains(msg, "symbols.name") {
		t.Errorf("message %q missing path", msg)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		phase    Phase
		kind     Kind
		contains string
	}{
		{"invalid identifier", InvalidIdentifier(PhaseBuild, "empty"), PhaseBuild, KindInvalidIdentifier, "empty"},
		{"already consumed", AlreadyConsumed(PhaseBuild), PhaseBuild, KindAlreadyConsumed, "consumed"},
		{"malformed", Malformed(5, "bad byte %#x", 0xFF), PhaseDecode, KindMalformedModule, "0xff"},
		{"unsupported version", UnsupportedVersion(9, 9), PhaseDecode, KindUnsupportedVersion, "9.9"},
		{"wrong kind", WrongKind(PhaseBrowse, "name", "unknown"), PhaseBrowse, KindWrongKind, "not name"},
		{"out of range", OutOfRange(PhaseBrowse, []string{"metadata"}, 3, 2), PhaseBrowse, KindOutOfRange, "index 3"},
		{"duplicate symbol", DuplicateSymbol("main"), PhaseValidate, KindDuplicateSymbol, `"main"`},
		{"invalid handle", InvalidHandle("module"), PhaseCAPI, KindInvalidHandle, "module handle"},
		{"io", IO(PhaseEncode, errors.New("broken pipe")), PhaseEncode, KindIO, "broken pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase = %s, want %s", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if msg := tt.err.Error(); !strings.Contains(msg, tt.contains) {
				t.Errorf("message %q does not contain %q", msg, tt.contains)
			}
		})
	}
}

func TestInvalidUTF8_TruncatesPreview(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = 0xFF
	}
	err := InvalidUTF8(PhaseBuild, data)
	if len(err.Detail) > 100 {
		t.Errorf("detail should preview at most 32 bytes, got %q", err.Detail)
	}
}

func TestMalformed_OffsetInMessage(t *testing.T) {
	err := Malformed(123, "truncated section")
	if !strings.Contains(err.Error(), "offset 123") {
		t.Errorf("message %q missing offset", err.Error())
	}
}
