package yabe

import (
	"bytes"
	"errors"
	"testing"
)

func TestSignatureRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	c := NewCursor(buf)
	n, err := c.WriteSignature()
	if err != nil || n != SignatureSize {
		t.Fatalf("write: %d %v", n, err)
	}
	c.WritePadding()
	c.WriteInt(1)
	if !bytes.Equal(buf[:5], []byte{'Y', 'A', 'B', 'E', 0}) {
		t.Fatalf("signature % x", buf[:5])
	}

	r := NewCursor(buf)
	version, n, err := r.ReadSignature()
	if err != nil || version != Version {
		t.Fatalf("read: %d %v", version, err)
	}
	if n != 6 || r.Pos() != 6 {
		t.Fatalf("read consumed %d, pos %d; want 6", n, r.Pos())
	}
}

func TestSignatureCapacity(t *testing.T) {
	c := NewCursor(make([]byte, 4))
	if _, err := c.WriteSignature(); !errors.Is(err, ErrCapacity) {
		t.Fatalf("err=%v", err)
	}
	if c.Pos() != 0 {
		t.Fatalf("failed write moved cursor to %d", c.Pos())
	}
}

func TestSignatureFailures(t *testing.T) {
	cases := map[string][]byte{
		"short":       {'Y', 'A', 'B', 'E'},
		"empty":       nil,
		"wrong magic": {'Y', 'A', 'B', 'X', 0},
		"other data":  {0x01, 0x02, 0x03, 0x04, 0x05},
	}
	for name, doc := range cases {
		c := NewCursor(doc)
		_, n, err := c.ReadSignature()
		if !errors.Is(err, ErrSignature) {
			t.Fatalf("%s: err=%v", name, err)
		}
		if n != 0 || c.Pos() != 0 {
			t.Fatalf("%s: n=%d pos=%d", name, n, c.Pos())
		}
	}
}

func TestSignatureVersionMismatch(t *testing.T) {
	doc := []byte{'Y', 'A', 'B', 'E', 3, tagNull}
	c := NewCursor(doc)
	version, n, err := c.ReadSignature()
	if !errors.Is(err, ErrVersion) {
		t.Fatalf("err=%v", err)
	}
	if version != 3 || n != 5 || c.Pos() != 5 {
		t.Fatalf("version %d n %d pos %d", version, n, c.Pos())
	}
	if _, err := c.ReadNull(); err != nil {
		t.Fatalf("best-effort read: %v", err)
	}

	if _, err := Decode(doc); !errors.Is(err, ErrVersion) {
		t.Fatalf("Decode: err=%v", err)
	}
	v, err := DecodeWithOptions(doc, DecodeOptions{AllowVersionMismatch: true})
	if err != nil || v != nil {
		t.Fatalf("DecodeWithOptions: %v %v", v, err)
	}
}
