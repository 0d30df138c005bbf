package yabe

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Blob is a raw byte payload labelled with a mime type.
type Blob struct {
	Mime string
	Data []byte
}

// LengthSize returns the size of a string or blob length header: 1, 3, 5 or 9.
func LengthSize(n uint64) int {
	switch {
	case n <= maxInlineLen:
		return 1
	case n <= math.MaxUint16:
		return 3
	case n <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

func (c *Cursor) writeLength(n uint64) (int, error) {
	switch LengthSize(n) {
	case 1:
		return c.writeTag(tagStr6 | byte(n))
	case 3:
		return c.writeTag16(tagStr16, uint16(n))
	case 5:
		return c.writeTag32(tagStr32, uint32(n))
	default:
		return c.writeTag64(tagStr64, n)
	}
}

// readLength decodes the length header whose tag sits lead bytes after the
// cursor and returns the length and the width of its fixed field.
func (c *Cursor) readLength(tag byte, lead int) (uint64, int, error) {
	if tag&0xC0 == tagStr6 {
		return uint64(tag & maxInlineLen), 0, nil
	}
	var width int
	switch tag {
	case tagStr16:
		width = 2
	case tagStr32:
		width = 4
	case tagStr64:
		width = 8
	default:
		return 0, 0, ErrMismatch
	}
	b, err := c.fixed(lead, width)
	if err != nil {
		return 0, 0, err
	}
	switch width {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), width, nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), width, nil
	default:
		return binary.LittleEndian.Uint64(b), width, nil
	}
}

// WriteStringLen writes a string header for a payload of n bytes. The payload
// itself follows through WriteData.
func (c *Cursor) WriteStringLen(n uint64) (int, error) {
	return c.writeLength(n)
}

// ReadStringLen reads a string header and returns the payload length. The
// payload itself is read with ReadData. Padding is not skipped here since the
// payload may start with a byte equal to the padding tag.
func (c *Cursor) ReadStringLen() (uint64, int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return 0, 0, err
	}
	n, width, err := c.readLength(tag, lead)
	if err != nil {
		return 0, 0, err
	}
	start := c.pos
	c.pos += lead + 1 + width
	if n == 0 {
		c.SkipPadding()
	}
	return n, c.pos - start, nil
}

// WriteString writes a header and the whole of s, or nothing.
func (c *Cursor) WriteString(s string) (int, error) {
	total := LengthSize(uint64(len(s))) + len(s)
	if c.Remaining() < total {
		return 0, ErrCapacity
	}
	c.writeLength(uint64(len(s)))
	c.pos += copy(c.buf[c.pos:], s)
	return total, nil
}

func (c *Cursor) writeStringBytes(b []byte) (int, error) {
	total := LengthSize(uint64(len(b))) + len(b)
	if c.Remaining() < total {
		return 0, ErrCapacity
	}
	c.writeLength(uint64(len(b)))
	c.pos += copy(c.buf[c.pos:], b)
	return total, nil
}

// ReadStringBytes reads a whole string and returns its payload as a slice of
// the underlying region. The cursor is left unchanged if the payload is cut
// short.
func (c *Cursor) ReadStringBytes() ([]byte, int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return nil, 0, err
	}
	n, width, err := c.readLength(tag, lead)
	if err != nil {
		return nil, 0, err
	}
	start := c.pos + lead + 1 + width
	if n > uint64(len(c.buf)-start) {
		return nil, 0, ErrTruncated
	}
	payload := c.buf[start : start+int(n)]
	return payload, c.consume(lead, width+int(n)), nil
}

// ReadString reads a whole string.
func (c *Cursor) ReadString() (string, int, error) {
	b, n, err := c.ReadStringBytes()
	if err != nil {
		return "", 0, err
	}
	return string(b), n, nil
}

// WriteBlobTag writes the bare blob tag. It must be followed by the mime type
// string and the data string.
func (c *Cursor) WriteBlobTag() (int, error) {
	return c.writeTag(tagBlob)
}

// ReadBlobTag reads the bare blob tag.
func (c *Cursor) ReadBlobTag() (int, error) {
	return c.readTag(tagBlob)
}

// WriteBlob writes a complete blob, or nothing.
func (c *Cursor) WriteBlob(mime string, data []byte) (int, error) {
	total := 1 + LengthSize(uint64(len(mime))) + len(mime) + LengthSize(uint64(len(data))) + len(data)
	if c.Remaining() < total {
		return 0, ErrCapacity
	}
	c.writeTag(tagBlob)
	c.WriteString(mime)
	c.writeStringBytes(data)
	return total, nil
}

// ReadBlobHeader reads the blob tag, the mime type and the data length. The
// mime slice aliases the underlying region; data bytes follow through ReadData.
func (c *Cursor) ReadBlobHeader() ([]byte, uint64, int, error) {
	mark := c.Mark()
	n, err := c.ReadBlobTag()
	if err != nil {
		return nil, 0, 0, err
	}
	mime, m, err := c.ReadStringBytes()
	if err != nil {
		c.Rewind(mark)
		return nil, 0, 0, fmt.Errorf("blob mime type: %w", err)
	}
	n += m
	size, m, err := c.ReadStringLen()
	if err != nil {
		c.Rewind(mark)
		return nil, 0, 0, fmt.Errorf("blob data length: %w", err)
	}
	return mime, size, n + m, nil
}

// ReadBlob reads a whole blob. Mime and Data are copied out of the region.
func (c *Cursor) ReadBlob() (Blob, int, error) {
	mark := c.Mark()
	mime, size, _, err := c.ReadBlobHeader()
	if err != nil {
		return Blob{}, 0, err
	}
	if size > uint64(c.Remaining()) {
		c.Rewind(mark)
		return Blob{}, 0, ErrTruncated
	}
	data := make([]byte, size)
	c.ReadData(data)
	return Blob{Mime: string(mime), Data: data}, c.Pos() - mark, nil
}

// readTag consumes tag and trailing padding if it is the next tag.
func (c *Cursor) readTag(want byte) (int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return 0, err
	}
	if tag != want {
		return 0, ErrMismatch
	}
	return c.consume(lead, 0), nil
}

// payload returns the next n payload bytes as a slice of the region and
// skips the padding after them.
func (c *Cursor) payload(n uint64) ([]byte, error) {
	if n > uint64(c.Remaining()) {
		return nil, ErrTruncated
	}
	b := c.buf[c.pos : c.pos+int(n)]
	c.pos += int(n)
	c.SkipPadding()
	return b, nil
}
