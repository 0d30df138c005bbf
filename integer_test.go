package yabe

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestIntSizes(t *testing.T) {
	cases := []struct {
		v    int64
		size int
		tag  byte
	}{
		{0, 1, 0x00},
		{127, 1, 0x7F},
		{-1, 1, 0xFF},
		{-32, 1, 0xE0},
		{-33, 3, tagInt16},
		{128, 3, tagInt16},
		{math.MaxInt16, 3, tagInt16},
		{math.MinInt16, 3, tagInt16},
		{math.MaxInt16 + 1, 5, tagInt32},
		{math.MinInt16 - 1, 5, tagInt32},
		{math.MaxInt32, 5, tagInt32},
		{math.MinInt32, 5, tagInt32},
		{math.MaxInt32 + 1, 9, tagInt64},
		{math.MinInt64, 9, tagInt64},
		{math.MaxInt64, 9, tagInt64},
	}
	for _, tc := range cases {
		if got := IntSize(tc.v); got != tc.size {
			t.Fatalf("IntSize(%d) = %d, want %d", tc.v, got, tc.size)
		}
		buf := make([]byte, 16)
		c := NewCursor(buf)
		n, err := c.WriteInt(tc.v)
		if err != nil {
			t.Fatalf("write %d: %v", tc.v, err)
		}
		if n != tc.size || c.Pos() != tc.size {
			t.Fatalf("write %d: n=%d pos=%d, want %d", tc.v, n, c.Pos(), tc.size)
		}
		if buf[0] != tc.tag {
			t.Fatalf("write %d: tag %#x, want %#x", tc.v, buf[0], tc.tag)
		}
		r := NewCursor(buf[:n])
		got, m, err := r.ReadInt()
		if err != nil {
			t.Fatalf("read %d: %v", tc.v, err)
		}
		if got != tc.v || m != n {
			t.Fatalf("read %d: got %d (%d bytes)", tc.v, got, m)
		}
	}
}

func TestIntWireBytes(t *testing.T) {
	buf := make([]byte, 32)
	c := NewCursor(buf)
	for _, v := range []int64{5, -2, 300, -70000} {
		if _, err := c.WriteInt(v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
	}
	want := []byte{
		0x05,
		0xFE,
		0xC1, 0x2C, 0x01,
		0xC2, 0x90, 0xEE, 0xFE, 0xFF,
	}
	if !bytes.Equal(c.Bytes(), want) {
		t.Fatalf("bytes = % x, want % x", c.Bytes(), want)
	}
}

func TestIntCapacity(t *testing.T) {
	for _, v := range []int64{1, 1000, 1 << 20, 1 << 40} {
		size := IntSize(v)
		buf := make([]byte, size-1)
		c := NewCursor(buf)
		n, err := c.WriteInt(v)
		if !errors.Is(err, ErrCapacity) {
			t.Fatalf("write %d into %d bytes: err=%v", v, size-1, err)
		}
		if n != 0 || c.Pos() != 0 {
			t.Fatalf("failed write moved cursor: n=%d pos=%d", n, c.Pos())
		}
	}
}

func TestReadIntErrors(t *testing.T) {
	c := NewCursor([]byte{tagTrue})
	if _, _, err := c.ReadInt(); !errors.Is(err, ErrMismatch) {
		t.Fatalf("bool read as int: err=%v", err)
	}
	if c.Pos() != 0 {
		t.Fatalf("mismatch moved cursor to %d", c.Pos())
	}

	c = NewCursor([]byte{tagInt32, 0x01, 0x02})
	if _, _, err := c.ReadInt(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short int32: err=%v", err)
	}
	if c.Pos() != 0 {
		t.Fatalf("truncated read moved cursor to %d", c.Pos())
	}

	c = NewCursor(nil)
	if _, _, err := c.ReadInt(); !errors.Is(err, ErrEndOfBuffer) {
		t.Fatalf("empty read: err=%v", err)
	}
}

func TestReadIntSkipsPadding(t *testing.T) {
	c := NewCursor([]byte{tagPad, tagPad, tagInt16, 0x00, 0x01, tagPad, 0x07})
	v, n, err := c.ReadInt()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 256 || n != 6 {
		t.Fatalf("got %d (%d bytes), want 256 (6 bytes)", v, n)
	}
	v, n, err = c.ReadInt()
	if err != nil || v != 7 || n != 1 {
		t.Fatalf("second read: %d %d %v", v, n, err)
	}
	if !c.AtEnd() {
		t.Fatalf("cursor not at end: %d", c.Pos())
	}
}
