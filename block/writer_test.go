package block

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	yabe "github.com/yabe-format/yabe-go"
)

func TestWriterBlocksDecodeAsOneArray(t *testing.T) {
	var out bytes.Buffer
	bw, err := NewWriter(&out, 16)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	var want []any
	for i := range 25 {
		if err := bw.Encode(i); err != nil {
			t.Fatalf("encode %d: %v", i, err)
		}
		want = append(want, int64(i))
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if bw.Blocks() != 2 || out.Len() != 32 {
		t.Fatalf("%d blocks, %d bytes", bw.Blocks(), out.Len())
	}
	got, err := yabe.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestWriterPadsPartialBlocks(t *testing.T) {
	var out bytes.Buffer
	bw, err := NewWriter(&out, 12)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	words := []any{"alpha", "beta", "gamma", "delta"}
	for _, w := range words {
		if err := bw.Encode(w); err != nil {
			t.Fatalf("encode %q: %v", w, err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if out.Len()%12 != 0 {
		t.Fatalf("output of %d bytes is not whole blocks", out.Len())
	}
	if !bytes.Contains(out.Bytes(), []byte{0xCC}) {
		t.Fatalf("no padding written: % x", out.Bytes())
	}
	got, err := yabe.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, words) {
		t.Fatalf("got %v", got)
	}
}

func TestWriterRejectsOversizedValue(t *testing.T) {
	var out bytes.Buffer
	bw, err := NewWriter(&out, 16)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	err = bw.Encode(strings.Repeat("x", 40))
	if !errors.Is(err, yabe.ErrCapacity) {
		t.Fatalf("err=%v", err)
	}
	if err := bw.Encode("ok"); err != nil {
		t.Fatalf("encode after failure: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, err := yabe.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, []any{"ok"}) {
		t.Fatalf("got %v", got)
	}
}

func TestWriterLifecycle(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, MinSize-1); err == nil {
		t.Fatalf("block smaller than MinSize accepted")
	}
	var out bytes.Buffer
	bw, err := NewWriter(&out, MinSize)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := bw.Encode(1); err == nil {
		t.Fatalf("write after close accepted")
	}
	got, err := yabe.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, []any{}) {
		t.Fatalf("got %#v", got)
	}
}

func TestWriterCustomValues(t *testing.T) {
	var out bytes.Buffer
	bw, err := NewWriter(&out, 32)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	err = bw.Write(func(c *yabe.Cursor) error {
		if _, err := c.WriteBlobTag(); err != nil {
			return err
		}
		if _, err := c.WriteString("text/plain"); err != nil {
			return err
		}
		if _, err := c.WriteStringLen(3); err != nil {
			return err
		}
		if c.WriteData([]byte("abc")) != 3 {
			return yabe.ErrCapacity
		}
		return nil
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, err := yabe.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []any{yabe.Blob{Mime: "text/plain", Data: []byte("abc")}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}
