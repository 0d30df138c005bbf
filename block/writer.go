// Package block writes YABE streams as a sequence of fixed-size blocks, such
// as disk sectors or datagrams. The space a value cannot use at the end of a
// block is filled with padding, so the concatenated blocks decode as one
// ordinary document: an array holding every value written.
package block

import (
	"errors"
	"fmt"
	"io"

	yabe "github.com/yabe-format/yabe-go"
)

// MinSize is the smallest usable block: the signature plus the array header.
const MinSize = yabe.SignatureSize + 1

// Writer emits values into fixed-size blocks. It is not safe for concurrent use.
type Writer struct {
	w      io.Writer
	buf    []byte
	c      *yabe.Cursor
	blocks int
	closed bool
}

// NewWriter returns a writer emitting blocks of size bytes to w. The first
// block starts with the signature and the header of a streamed array.
func NewWriter(w io.Writer, size int) (*Writer, error) {
	if size < MinSize {
		return nil, fmt.Errorf("block size %d below minimum %d", size, MinSize)
	}
	buf := make([]byte, size)
	bw := &Writer{w: w, buf: buf, c: yabe.NewCursor(buf)}
	if _, err := bw.c.WriteSignature(); err != nil {
		return nil, err
	}
	if _, err := bw.c.WriteArrayStream(); err != nil {
		return nil, err
	}
	return bw, nil
}

// Encode writes v as the next array item.
func (bw *Writer) Encode(v any) error {
	return bw.Write(func(c *yabe.Cursor) error {
		return yabe.Append(c, v)
	})
}

// Write runs fn against the current block. If fn runs out of room, whatever
// it wrote is discarded, the block is padded and flushed, and fn runs again
// on an empty block. A value that does not fit an empty block is an error.
func (bw *Writer) Write(fn func(c *yabe.Cursor) error) error {
	if bw.closed {
		return fmt.Errorf("write to closed block writer")
	}
	mark := bw.c.Mark()
	err := fn(bw.c)
	if err == nil {
		return nil
	}
	bw.c.Rewind(mark)
	if !errors.Is(err, yabe.ErrCapacity) {
		return err
	}
	if mark == 0 {
		return fmt.Errorf("value larger than block size %d: %w", len(bw.buf), err)
	}
	if err := bw.flush(); err != nil {
		return err
	}
	if err := fn(bw.c); err != nil {
		bw.c.Rewind(0)
		if errors.Is(err, yabe.ErrCapacity) {
			return fmt.Errorf("value larger than block size %d: %w", len(bw.buf), err)
		}
		return err
	}
	return nil
}

// Blocks returns the number of blocks flushed so far.
func (bw *Writer) Blocks() int {
	return bw.blocks
}

// Close ends the array and flushes the last block.
func (bw *Writer) Close() error {
	if bw.closed {
		return nil
	}
	if err := bw.Write(func(c *yabe.Cursor) error {
		_, err := c.WriteEnd()
		return err
	}); err != nil {
		return err
	}
	bw.closed = true
	return bw.flush()
}

func (bw *Writer) flush() error {
	bw.c.Pad()
	if _, err := bw.w.Write(bw.buf); err != nil {
		return err
	}
	bw.c.Reset()
	bw.blocks++
	return nil
}
