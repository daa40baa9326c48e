package binary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrVarIntLength is returned when a VarU28 leading byte declares a byte
// length greater than four.
var ErrVarIntLength = errors.New("varint: invalid byte length")

// Reader wraps an io.Reader with position tracking and IL4IL-specific read
// methods. Positions are byte offsets from the start of the stream and are
// carried into every error produced here.
type Reader struct {
	r   io.ByteReader
	pos int
}

// NewReader creates a new Reader wrapping the given io.ByteReader.
func NewReader(r io.ByteReader) *Reader {
	return &Reader{r: r, pos: 0}
}

// NewBytesReader creates a Reader over a byte slice.
func NewBytesReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// SetBase adjusts the position so that offsets reported by a sub-reader
// over a section body line up with offsets in the enclosing stream.
func (r *Reader) SetBase(base int) {
	r.pos = base
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. When the source size is known the
// declared length is checked first, so a corrupt length prefix fails
// before any allocation sized by it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if rem := r.Remaining(); rem >= 0 && n > rem {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, 0, min(n, 4096))
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
	}
	return buf, nil
}

// ReadVarU28 reads a VarU28 variable-length unsigned integer.
//
// The count of leading one bits in the first byte selects the total byte
// length (one to four bytes); the remaining bits of the first byte hold the
// low value bits and later bytes supply higher bits little-endian. A first
// byte with four or more leading ones is malformed.
func (r *Reader) ReadVarU28() (uint32, error) {
	lead, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch leadingOnes(lead) {
	case 0:
		return uint32(lead), nil
	case 1:
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return uint32(lead&0x3F) | uint32(b)<<6, nil
	case 2:
		buf, err := r.ReadBytes(2)
		if err != nil {
			return 0, err
		}
		return uint32(lead&0x1F) | uint32(buf[0])<<5 | uint32(buf[1])<<13, nil
	case 3:
		buf, err := r.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		return uint32(lead&0x0F) | uint32(buf[0])<<4 | uint32(buf[1])<<12 | uint32(buf[2])<<20, nil
	default:
		return 0, r.wrapError(ErrVarIntLength)
	}
}

// ReadLength reads a VarU28 and returns it as an int for use as a count or
// byte length.
func (r *Reader) ReadLength() (int, error) {
	v, err := r.ReadVarU28()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ReadName reads a length-prefixed byte sequence and checks it is UTF-8.
func (r *Reader) ReadName() (string, error) {
	length, err := r.ReadLength()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.wrapError(errors.New("invalid UTF-8 in name"))
	}
	return string(data), nil
}

// Remaining reports the unread byte count when the underlying reader is a
// bytes.Reader, and -1 otherwise.
func (r *Reader) Remaining() int {
	if br, ok := r.r.(*bytes.Reader); ok {
		return br.Len()
	}
	return -1
}

func leadingOnes(b byte) int {
	n := 0
	for mask := byte(0x80); mask != 0 && b&mask != 0; mask >>= 1 {
		n++
	}
	return n
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at offset %d: %w", r.pos, err)
}
