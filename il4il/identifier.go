package il4il

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/il4il/il4il-go/errors"
)

// Identifier is a validated IL4IL identifier string: valid UTF-8 that is
// never empty and never contains a NUL byte. The NUL restriction keeps
// identifiers convertible to null-terminated strings by downstream
// backends.
//
// Identifier is an immutable value type; the zero value is invalid and is
// only produced alongside a non-nil error.
type Identifier struct {
	s string
}

// NewIdentifier validates a string as an IL4IL identifier.
func NewIdentifier(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, errors.InvalidIdentifier(errors.PhaseBuild, "identifiers cannot be empty")
	}
	if strings.IndexByte(s, 0) >= 0 {
		return Identifier{}, errors.InvalidIdentifier(errors.PhaseBuild, "identifiers cannot contain null bytes")
	}
	if !utf8.ValidString(s) {
		return Identifier{}, errors.InvalidUTF8(errors.PhaseBuild, []byte(s))
	}
	return Identifier{s: s}, nil
}

// IdentifierFromBytes validates a byte sequence as an IL4IL identifier,
// copying its contents.
func IdentifierFromBytes(b []byte) (Identifier, error) {
	return NewIdentifier(string(b))
}

// IdentifierFromUTF16 converts a sequence of UTF-16 code units into an
// identifier. Unpaired surrogates are rejected rather than replaced.
func IdentifierFromUTF16(units []uint16) (Identifier, error) {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return Identifier{}, errors.InvalidIdentifier(errors.PhaseBuild, "unpaired UTF-16 surrogate")
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return Identifier{}, errors.InvalidIdentifier(errors.PhaseBuild, "unpaired UTF-16 surrogate")
		}
	}
	return NewIdentifier(string(utf16.Decode(units)))
}

// String returns the identifier's contents.
func (id Identifier) String() string {
	return id.s
}

// Bytes returns a copy of the identifier's UTF-8 contents.
func (id Identifier) Bytes() []byte {
	return []byte(id.s)
}

// Len returns the length of the identifier in bytes.
func (id Identifier) Len() int {
	return len(id.s)
}

// IsZero reports whether the identifier is the invalid zero value.
func (id Identifier) IsZero() bool {
	return id.s == ""
}
