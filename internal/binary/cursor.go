package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortRead is returned when a read runs past the end of the buffer.
var ErrShortRead = errors.New("short read")

// ErrConsumed is returned when a record consumed a different byte count than its layout declares.
var ErrConsumed = errors.New("consumed byte count mismatch")

// Cursor reads little-endian fields from a byte slice with position tracking.
// Every read names the field it decodes so failures point at the layout.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Position returns the current byte position.
func (c *Cursor) Position() int {
	return c.pos
}

// Len returns the total buffer length.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Seek moves to an absolute position.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return &ParseError{Field: "seek", Position: pos, Err: ErrShortRead}
	}
	c.pos = pos
	return nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8(field string) (uint8, error) {
	buf, err := c.ReadBytes(field, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE(field string) (uint16, error) {
	buf, err := c.ReadBytes(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE(field string) (uint32, error) {
	buf, err := c.ReadBytes(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadBytes returns the next n bytes without copying.
func (c *Cursor) ReadBytes(field string, n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, c.WrapError(field, fmt.Errorf("%w: need %d bytes, have %d", ErrShortRead, n, c.Remaining()))
	}
	buf := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return buf, nil
}

// Skip advances n bytes.
func (c *Cursor) Skip(field string, n int) error {
	_, err := c.ReadBytes(field, n)
	return err
}

// ExpectConsumed asserts that exactly n bytes were read since start.
func (c *Cursor) ExpectConsumed(field string, start, n int) error {
	if got := c.pos - start; got != n {
		return c.WrapError(field, fmt.Errorf("%w: consumed %d, want %d", ErrConsumed, got, n))
	}
	return nil
}

// ParseError represents an error during binary parsing with position information.
type ParseError struct {
	Err      error
	Field    string
	Position int
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s at position %d: %v", e.Field, e.Position, e.Err)
	}
	return fmt.Sprintf("at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError with the current position.
func (c *Cursor) WrapError(field string, err error) error {
	return &ParseError{
		Position: c.pos,
		Field:    field,
		Err:      err,
	}
}
