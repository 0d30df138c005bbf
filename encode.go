package yabe

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/delaneyj/toolbelt/bytebufferpool"
)

// OctetStream is the mime type given to plain []byte values.
const OctetStream = "application/octet-stream"

const initialEncodeSize = 256

// encodeDocument runs write against a pooled scratch buffer, doubling the
// buffer and starting over each time write runs out of room.
func encodeDocument(sizeHint int, write func(c *Cursor) error) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	size := max(sizeHint, initialEncodeSize)
	for {
		if cap(buf.B) < size {
			buf.B = make([]byte, size)
		}
		buf.B = buf.B[:cap(buf.B)]
		c := NewCursor(buf.B)
		err := write(c)
		if err == nil {
			return append([]byte{}, c.Bytes()...), nil
		}
		if !errors.Is(err, ErrCapacity) {
			return nil, err
		}
		size = 2 * len(buf.B)
	}
}

// Append writes v as one value at the cursor. Supported types are nil, bool,
// the integer and float kinds, string, []byte, Blob, json.Number, []any and
// map[string]any. On failure nothing is left written.
func Append(c *Cursor, v any) error {
	mark := c.Mark()
	if err := appendAny(c, v, 0); err != nil {
		c.Rewind(mark)
		return err
	}
	return nil
}

func appendAny(c *Cursor, v any, depth int) error {
	var err error
	switch x := v.(type) {
	case nil:
		_, err = c.WriteNull()
	case bool:
		_, err = c.WriteBool(x)
	case int:
		_, err = c.WriteInt(int64(x))
	case int8:
		_, err = c.WriteInt(int64(x))
	case int16:
		_, err = c.WriteInt(int64(x))
	case int32:
		_, err = c.WriteInt(int64(x))
	case int64:
		_, err = c.WriteInt(x)
	case uint:
		err = appendUint(c, uint64(x))
	case uint8:
		_, err = c.WriteInt(int64(x))
	case uint16:
		_, err = c.WriteInt(int64(x))
	case uint32:
		_, err = c.WriteInt(int64(x))
	case uint64:
		err = appendUint(c, x)
	case float32:
		_, err = c.WriteFloat(float64(x))
	case float64:
		_, err = c.WriteFloat(x)
	case json.Number:
		if i, perr := x.Int64(); perr == nil {
			_, err = c.WriteInt(i)
		} else if f, perr := x.Float64(); perr == nil {
			_, err = c.WriteFloat(f)
		} else {
			err = fmt.Errorf("invalid json number: %s", x)
		}
	case string:
		_, err = c.WriteString(x)
	case []byte:
		_, err = c.WriteBlob(OctetStream, x)
	case Blob:
		_, err = c.WriteBlob(x.Mime, x.Data)
	case *Blob:
		if x == nil {
			_, err = c.WriteNull()
		} else {
			_, err = c.WriteBlob(x.Mime, x.Data)
		}
	case []any:
		err = appendArray(c, x, depth)
	case map[string]any:
		err = appendObject(c, x, depth)
	default:
		err = appendViaJSON(c, v, depth)
	}
	return err
}

// appendUint writes values above math.MaxInt64 as floats.
func appendUint(c *Cursor, u uint64) error {
	var err error
	if u > math.MaxInt64 {
		_, err = c.WriteFloat(float64(u))
	} else {
		_, err = c.WriteInt(int64(u))
	}
	return err
}

func appendArray(c *Cursor, items []any, depth int) error {
	if depth >= MaxDepth {
		return fmt.Errorf("nesting deeper than %d", MaxDepth)
	}
	if _, err := c.WriteArrayStart(len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := appendAny(c, item, depth+1); err != nil {
			return err
		}
	}
	if len(items) > maxSmallCount {
		_, err := c.WriteEnd()
		return err
	}
	return nil
}

func appendObject(c *Cursor, obj map[string]any, depth int) error {
	if depth >= MaxDepth {
		return fmt.Errorf("nesting deeper than %d", MaxDepth)
	}
	if _, err := c.WriteObjectStart(len(obj)); err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if key == "" {
			return ErrEmptyKey
		}
		if _, err := c.WriteString(key); err != nil {
			return err
		}
		if err := appendAny(c, obj[key], depth+1); err != nil {
			return err
		}
	}
	if len(obj) > maxSmallCount {
		_, err := c.WriteEnd()
		return err
	}
	return nil
}

// appendViaJSON handles arbitrary Go values by taking them through their
// JSON form first.
func appendViaJSON(c *Cursor, v any, depth int) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tree, err := parseJSON(data, JSONOptions{})
	if err != nil {
		return err
	}
	return appendAny(c, tree, depth)
}
