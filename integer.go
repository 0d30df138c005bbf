package yabe

import (
	"encoding/binary"
	"math"
)

// IntSize returns the encoded size of v in bytes: 1, 3, 5 or 9.
func IntSize(v int64) int {
	switch {
	case v >= minInlineInt && v <= maxInlineInt:
		return 1
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return 3
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return 5
	default:
		return 9
	}
}

// WriteInt writes v using the smallest exact form.
func (c *Cursor) WriteInt(v int64) (int, error) {
	switch IntSize(v) {
	case 1:
		return c.writeTag(byte(int8(v)))
	case 3:
		return c.writeTag16(tagInt16, uint16(int16(v)))
	case 5:
		return c.writeTag32(tagInt32, uint32(int32(v)))
	default:
		return c.writeTag64(tagInt64, uint64(v))
	}
}

// ReadInt reads an integer value.
func (c *Cursor) ReadInt() (int64, int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return 0, 0, err
	}
	if int8(tag) >= minInlineInt {
		return int64(int8(tag)), c.consume(lead, 0), nil
	}
	var width int
	switch tag {
	case tagInt16:
		width = 2
	case tagInt32:
		width = 4
	case tagInt64:
		width = 8
	default:
		return 0, 0, ErrMismatch
	}
	b, err := c.fixed(lead, width)
	if err != nil {
		return 0, 0, err
	}
	var v int64
	switch width {
	case 2:
		v = int64(int16(binary.LittleEndian.Uint16(b)))
	case 4:
		v = int64(int32(binary.LittleEndian.Uint32(b)))
	default:
		v = int64(binary.LittleEndian.Uint64(b))
	}
	return v, c.consume(lead, width), nil
}
