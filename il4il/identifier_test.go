package il4il

import (
	stderrors "errors"
	"testing"

	"github.com/il4il/il4il-go/errors"
)

// assertKind fails the test unless err is a structured error of the given
// kind. Shared by the tests in this package.
func assertKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error %v is not a structured error", err)
	}
	if e.Kind != kind {
		t.Fatalf("error kind = %s, want %s (message: %v)", e.Kind, kind, err)
	}
}

func TestNewIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr errors.Kind
	}{
		{"ascii", "my_module", ""},
		{"unicode", "模块", ""},
		{"single byte", "a", ""},
		{"empty", "", errors.KindInvalidIdentifier},
		{"interior null", "a\x00b", errors.KindInvalidIdentifier},
		{"trailing null", "abc\x00", errors.KindInvalidIdentifier},
		{"invalid utf8", "\xFF\xFE", errors.KindInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewIdentifier(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewIdentifier(%q): %v", tt.input, err)
				}
				if id.String() != tt.input {
					t.Errorf("String = %q, want %q", id.String(), tt.input)
				}
				if id.Len() != len(tt.input) {
					t.Errorf("Len = %d, want %d", id.Len(), len(tt.input))
				}
				if id.IsZero() {
					t.Error("valid identifier reported as zero")
				}
				return
			}
			if err == nil {
				t.Fatalf("NewIdentifier(%q) succeeded, want %s", tt.input, tt.wantErr)
			}
			assertKind(t, err, tt.wantErr)
			if !id.IsZero() {
				t.Error("failed construction produced a non-zero identifier")
			}
		})
	}
}

func TestIdentifierFromBytes_Copies(t *testing.T) {
	buf := []byte("name")
	id, err := IdentifierFromBytes(buf)
	if err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'
	if id.String() != "name" {
		t.Errorf("identifier changed with its source buffer: %q", id.String())
	}
}

func TestIdentifierFromUTF16(t *testing.T) {
	tests := []struct {
		name    string
		units   []uint16
		want    string
		wantErr bool
	}{
		{"bmp", []uint16{'h', 'i'}, "hi", false},
		{"surrogate pair", []uint16{0xD83D, 0xDE00}, "\U0001F600", false},
		{"replacement char passes", []uint16{0xFFFD}, "�", false},
		{"unpaired high", []uint16{0xD83D}, "", true},
		{"high then bmp", []uint16{0xD83D, 'a'}, "", true},
		{"lone low", []uint16{0xDE00}, "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := IdentifierFromUTF16(tt.units)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("IdentifierFromUTF16(%v) succeeded", tt.units)
				}
				return
			}
			if err != nil {
				t.Fatalf("IdentifierFromUTF16(%v): %v", tt.units, err)
			}
			if id.String() != tt.want {
				t.Errorf("got %q, want %q", id.String(), tt.want)
			}
		})
	}
}

func TestIdentifier_BytesIsACopy(t *testing.T) {
	id, err := NewIdentifier("abc")
	if err != nil {
		t.Fatal(err)
	}
	b := id.Bytes()
	b[0] = 'X'
	if id.String() != "abc" {
		t.Error("mutating Bytes result changed the identifier")
	}
}
