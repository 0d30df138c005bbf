package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
	yabe "github.com/yabe-format/yabe-go"
)

const previewLen = 32

type inspectCmd struct {
	Input string `arg:"" optional:"" default:"-" help:"YABE input file, - for stdin."`
}

func (i *inspectCmd) Run() error {
	doc, err := readInput(i.Input)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	return inspect(out, doc)
}

// inspect prints one line per tag with its offset, nesting and value.
func inspect(w io.Writer, doc []byte) error {
	c := yabe.NewCursor(doc)
	version, _, err := c.ReadSignature()
	switch {
	case errors.Is(err, yabe.ErrVersion):
		fmt.Fprintf(w, "%08x  signature version %d (unsupported)\n", 0, version)
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "%08x  signature version %d\n", 0, version)
	}

	var tr nestingTracker
	for !c.AtEnd() {
		offset := c.Pos()
		if skipped := c.SkipPadding(); skipped > 0 {
			fmt.Fprintf(w, "%08x  %spadding x%d\n", offset, tr.indent(), skipped)
			continue
		}
		v, _, err := c.ReadValue()
		if err != nil {
			return fmt.Errorf("offset %d: %w", offset, err)
		}
		if v.Kind == yabe.KindEnd {
			tr.end()
		}
		detail, err := describe(c, v)
		if err != nil {
			return fmt.Errorf("offset %d: %w", offset, err)
		}
		fmt.Fprintf(w, "%08x  %s%-7s %s\n", offset, tr.indent(), v.Kind, detail)
		switch v.Kind {
		case yabe.KindArray:
			tr.open(v.Count, 1)
		case yabe.KindObject:
			tr.open(v.Count, 2)
		default:
			tr.item()
		}
	}
	fmt.Fprintf(w, "size %s (%d bytes), xxh3 %016x\n", humanize.Bytes(uint64(len(doc))), len(doc), xxh3.Hash(doc))
	return nil
}

func describe(c *yabe.Cursor, v yabe.Value) (string, error) {
	switch v.Kind {
	case yabe.KindNull, yabe.KindEnd:
		return "", nil
	case yabe.KindBool:
		return strconv.FormatBool(v.Bool), nil
	case yabe.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case yabe.KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case yabe.KindString, yabe.KindBlob:
		if v.Len > uint64(c.Remaining()) {
			return "", fmt.Errorf("%w: payload of %d bytes", yabe.ErrTruncated, v.Len)
		}
		data := make([]byte, v.Len)
		c.ReadData(data)
		if v.Kind == yabe.KindBlob {
			return fmt.Sprintf("%s, %s", strconv.Quote(string(v.Mime)), humanize.Bytes(v.Len)), nil
		}
		if len(data) > previewLen {
			return fmt.Sprintf("%s... (%d bytes)", strconv.Quote(string(data[:previewLen])), len(data)), nil
		}
		return strconv.Quote(string(data)), nil
	case yabe.KindArray, yabe.KindObject:
		if v.Count == yabe.Streamed {
			return "streamed", nil
		}
		return fmt.Sprintf("count %d", v.Count), nil
	default:
		return "", nil
	}
}

// nestingTracker follows container boundaries to indent the listing.
type nestingTracker struct {
	left []int
}

func (t *nestingTracker) indent() string {
	return strings.Repeat("  ", len(t.left))
}

func (t *nestingTracker) open(count, per int) {
	if count == 0 {
		t.item()
		return
	}
	if count == yabe.Streamed {
		t.left = append(t.left, yabe.Streamed)
		return
	}
	t.left = append(t.left, count*per)
}

func (t *nestingTracker) end() {
	if n := len(t.left); n > 0 && t.left[n-1] == yabe.Streamed {
		t.left = t.left[:n-1]
	}
}

// item records one completed value, closing every small container it fills.
func (t *nestingTracker) item() {
	for len(t.left) > 0 {
		top := len(t.left) - 1
		if t.left[top] == yabe.Streamed {
			return
		}
		t.left[top]--
		if t.left[top] > 0 {
			return
		}
		t.left = t.left[:top]
	}
}
