package yabe

import "encoding/binary"

// Cursor is a moving position over a caller-owned byte region. It is used
// the same way for writing and for reading and never allocates or grows the
// region. A Cursor is not safe for concurrent use.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Pos returns the offset of the cursor from the start of the region.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes between the cursor and the end of the region.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// AtEnd reports whether no byte is left after the cursor.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.buf)
}

// Bytes returns the part of the region already written or consumed.
func (c *Cursor) Bytes() []byte {
	return c.buf[:c.pos]
}

// Unread returns the part of the region after the cursor.
func (c *Cursor) Unread() []byte {
	return c.buf[c.pos:]
}

// Reset moves the cursor back to the start of the region.
func (c *Cursor) Reset() {
	c.pos = 0
}

// Mark returns the current position for a later Rewind.
func (c *Cursor) Mark() int {
	return c.pos
}

// Rewind moves the cursor back to mark. Marks ahead of the cursor or before
// the region start are ignored and Rewind reports false.
func (c *Cursor) Rewind(mark int) bool {
	if mark < 0 || mark > c.pos {
		return false
	}
	c.pos = mark
	return true
}

// WriteData copies as much of p as fits and returns the number of bytes
// copied. It is the only partial write: callers loop until all of p is out.
func (c *Cursor) WriteData(p []byte) int {
	n := copy(c.buf[c.pos:], p)
	c.pos += n
	return n
}

// ReadData copies up to len(p) payload bytes into p and returns the number
// copied. Once p is filled, padding that follows the payload is skipped, so p
// must hold the rest of the payload. Use ReadDataChunk for earlier pieces.
func (c *Cursor) ReadData(p []byte) int {
	n := c.ReadDataChunk(p)
	if n == len(p) {
		c.SkipPadding()
	}
	return n
}

// ReadDataChunk copies up to len(p) payload bytes into p and leaves any
// padding after them in place.
func (c *Cursor) ReadDataChunk(p []byte) int {
	n := copy(p, c.buf[c.pos:])
	c.pos += n
	return n
}

func (c *Cursor) writeTag(tag byte) (int, error) {
	if c.Remaining() < 1 {
		return 0, ErrCapacity
	}
	c.buf[c.pos] = tag
	c.pos++
	return 1, nil
}

func (c *Cursor) writeTag16(tag byte, v uint16) (int, error) {
	if c.Remaining() < 3 {
		return 0, ErrCapacity
	}
	c.buf[c.pos] = tag
	binary.LittleEndian.PutUint16(c.buf[c.pos+1:], v)
	c.pos += 3
	return 3, nil
}

func (c *Cursor) writeTag32(tag byte, v uint32) (int, error) {
	if c.Remaining() < 5 {
		return 0, ErrCapacity
	}
	c.buf[c.pos] = tag
	binary.LittleEndian.PutUint32(c.buf[c.pos+1:], v)
	c.pos += 5
	return 5, nil
}

func (c *Cursor) writeTag64(tag byte, v uint64) (int, error) {
	if c.Remaining() < 9 {
		return 0, ErrCapacity
	}
	c.buf[c.pos] = tag
	binary.LittleEndian.PutUint64(c.buf[c.pos+1:], v)
	c.pos += 9
	return 9, nil
}

// peek returns the first non-padding tag at or after the cursor and the
// number of padding bytes in front of it.
func (c *Cursor) peek() (byte, int, error) {
	lead := 0
	for p := c.pos; p < len(c.buf); p++ {
		if c.buf[p] != tagPad {
			return c.buf[p], lead, nil
		}
		lead++
	}
	return 0, 0, ErrEndOfBuffer
}

// fixed returns the width bytes that follow the tag at offset lead, or
// ErrTruncated when the region is too short.
func (c *Cursor) fixed(lead, width int) ([]byte, error) {
	start := c.pos + lead + 1
	if len(c.buf)-start < width {
		return nil, ErrTruncated
	}
	return c.buf[start : start+width], nil
}

// consume advances past lead padding, the tag and width payload bytes, then
// any trailing padding, returning the total number of bytes moved over.
func (c *Cursor) consume(lead, width int) int {
	start := c.pos
	c.pos += lead + 1 + width
	c.SkipPadding()
	return c.pos - start
}

// PeekTag returns the next tag after any padding without consuming it.
func (c *Cursor) PeekTag() (byte, error) {
	tag, _, err := c.peek()
	return tag, err
}

// PeekKind returns the kind of the next value without consuming it.
func (c *Cursor) PeekKind() (Kind, error) {
	tag, _, err := c.peek()
	if err != nil {
		return 0, err
	}
	return KindOf(tag), nil
}
