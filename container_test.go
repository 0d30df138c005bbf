package yabe

import (
	"bytes"
	"errors"
	"testing"
)

func TestSmallContainerTags(t *testing.T) {
	buf := make([]byte, 16)
	c := NewCursor(buf)
	for n := 0; n <= 6; n++ {
		if _, err := c.WriteSmallArray(n); err != nil {
			t.Fatalf("array %d: %v", n, err)
		}
	}
	want := []byte{0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6}
	if !bytes.Equal(c.Bytes(), want) {
		t.Fatalf("array tags % x", c.Bytes())
	}
	for _, n := range []int{-1, 7} {
		if _, err := c.WriteSmallArray(n); !errors.Is(err, ErrCount) {
			t.Fatalf("array %d: err=%v", n, err)
		}
		if _, err := c.WriteSmallObject(n); !errors.Is(err, ErrCount) {
			t.Fatalf("object %d: err=%v", n, err)
		}
	}

	r := NewCursor(c.Bytes())
	for n := 0; n <= 6; n++ {
		got, size, err := r.ReadArrayStart()
		if err != nil || got != n || size != 1 {
			t.Fatalf("read array %d: got %d size %d err %v", n, got, size, err)
		}
	}
}

func TestArrayStartChoosesForm(t *testing.T) {
	buf := make([]byte, 64)
	c := NewCursor(buf)
	if _, err := c.WriteArrayStart(6); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := range 6 {
		c.WriteInt(int64(i))
	}
	if buf[0] != 0xD6 {
		t.Fatalf("six items: tag %#x", buf[0])
	}
	if c.Pos() != 7 {
		t.Fatalf("six items took %d bytes", c.Pos())
	}

	c = NewCursor(buf)
	if _, err := c.WriteArrayStart(7); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := range 7 {
		c.WriteInt(int64(i))
	}
	if _, err := c.WriteEnd(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if buf[0] != tagArrayStream || buf[8] != tagEnd {
		t.Fatalf("seven items: % x", c.Bytes())
	}

	if _, err := NewCursor(buf).WriteObjectStart(Streamed); err != nil || buf[0] != tagObjectStream {
		t.Fatalf("unknown count object: %#x %v", buf[0], err)
	}
}

func TestStreamedArrayRead(t *testing.T) {
	doc := []byte{tagArrayStream, 0x01, 0x02, tagEnd}
	c := NewCursor(doc)
	count, _, err := c.ReadArrayStart()
	if err != nil || count != Streamed {
		t.Fatalf("start: %d %v", count, err)
	}
	var items []int64
	for {
		tag, err := c.PeekTag()
		if err != nil {
			t.Fatalf("peek: %v", err)
		}
		if tag == tagEnd {
			if _, err := c.ReadEnd(); err != nil {
				t.Fatalf("end: %v", err)
			}
			break
		}
		v, _, err := c.ReadInt()
		if err != nil {
			t.Fatalf("item: %v", err)
		}
		items = append(items, v)
	}
	if len(items) != 2 || items[0] != 1 || items[1] != 2 {
		t.Fatalf("items %v", items)
	}
	if !c.AtEnd() {
		t.Fatalf("cursor at %d", c.Pos())
	}
}

func TestContainerMismatch(t *testing.T) {
	c := NewCursor([]byte{0xD8})
	if _, _, err := c.ReadArrayStart(); !errors.Is(err, ErrMismatch) {
		t.Fatalf("object read as array: err=%v", err)
	}
	count, _, err := c.ReadObjectStart()
	if err != nil || count != 0 {
		t.Fatalf("object: %d %v", count, err)
	}
	c = NewCursor([]byte{tagNull})
	if _, err := c.ReadEnd(); !errors.Is(err, ErrMismatch) {
		t.Fatalf("null read as end: err=%v", err)
	}
}

func TestNullAndBool(t *testing.T) {
	buf := make([]byte, 3)
	c := NewCursor(buf)
	c.WriteNull()
	c.WriteBool(false)
	c.WriteBool(true)
	if !bytes.Equal(buf, []byte{0xC0, 0xC8, 0xC9}) {
		t.Fatalf("bytes % x", buf)
	}
	if _, err := c.WriteNull(); !errors.Is(err, ErrCapacity) {
		t.Fatalf("write past end: err=%v", err)
	}

	r := NewCursor(buf)
	if _, err := r.ReadNull(); err != nil {
		t.Fatalf("null: %v", err)
	}
	if v, _, err := r.ReadBool(); err != nil || v {
		t.Fatalf("false: %v %v", v, err)
	}
	if v, _, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("true: %v %v", v, err)
	}
	if _, _, err := r.ReadBool(); !errors.Is(err, ErrEndOfBuffer) {
		t.Fatalf("read past end: err=%v", err)
	}
}
