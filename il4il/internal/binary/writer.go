package binary

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxVarU28 is the largest value representable by a VarU28.
const MaxVarU28 = 1<<28 - 1

// ErrVarIntRange is returned when a value does not fit in 28 bits.
var ErrVarIntRange = errors.New("varint: value out of range")

// Writer provides buffered writing utilities for IL4IL binary encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteVarU28 writes a VarU28 variable-length unsigned integer.
// The inverse of Reader.ReadVarU28.
func (w *Writer) WriteVarU28(v uint32) error {
	switch {
	case v <= 0x7F:
		w.buf.WriteByte(byte(v))
	case v <= 0x3FFF:
		w.buf.WriteByte(0x80 | byte(v&0x3F))
		w.buf.WriteByte(byte(v >> 6))
	case v <= 0x1F_FFFF:
		w.buf.WriteByte(0xC0 | byte(v&0x1F))
		w.buf.WriteByte(byte(v >> 5))
		w.buf.WriteByte(byte(v >> 13))
	case v <= MaxVarU28:
		w.buf.WriteByte(0xE0 | byte(v&0x0F))
		w.buf.WriteByte(byte(v >> 4))
		w.buf.WriteByte(byte(v >> 12))
		w.buf.WriteByte(byte(v >> 20))
	default:
		return fmt.Errorf("%w: %d", ErrVarIntRange, v)
	}
	return nil
}

// WriteLength writes a count or byte length as a VarU28.
func (w *Writer) WriteLength(n int) error {
	if n < 0 || n > MaxVarU28 {
		return fmt.Errorf("%w: %d", ErrVarIntRange, n)
	}
	return w.WriteVarU28(uint32(n))
}

// WriteName writes a length-prefixed byte sequence.
func (w *Writer) WriteName(s string) error {
	if err := w.WriteLength(len(s)); err != nil {
		return err
	}
	w.buf.WriteString(s)
	return nil
}
