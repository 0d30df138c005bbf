package yabe

import (
	"errors"
	"fmt"
)

// DecodeOptions controls the tree decoder.
type DecodeOptions struct {
	// Strict rejects empty or duplicate object keys and strings that are
	// not valid UTF-8.
	Strict bool
	// AllowVersionMismatch decodes documents whose signature carries an
	// unknown version instead of failing with ErrVersion.
	AllowVersionMismatch bool
}

// Decode decodes a signed YABE document into a tree of nil, bool, int64,
// float64, string, Blob, []any and map[string]any.
func Decode(b []byte) (any, error) {
	return DecodeWithOptions(b, DecodeOptions{})
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(b []byte, opts DecodeOptions) (any, error) {
	c := NewCursor(b)
	if _, _, err := c.ReadSignature(); err != nil {
		if !errors.Is(err, ErrVersion) || !opts.AllowVersionMismatch {
			return nil, err
		}
	}
	v, err := DecodeValue(c, opts)
	if err != nil {
		return nil, err
	}
	c.SkipPadding()
	if !c.AtEnd() {
		return nil, fmt.Errorf("extra bytes after root value at offset %d", c.Pos())
	}
	return v, nil
}

// DecodeValue decodes the next complete value at the cursor. On failure the
// cursor is left unchanged.
func DecodeValue(c *Cursor, opts DecodeOptions) (any, error) {
	mark := c.Mark()
	v, err := decodeAny(c, opts, 0)
	if err != nil {
		c.Rewind(mark)
		return nil, err
	}
	return v, nil
}

func decodeAny(c *Cursor, opts DecodeOptions, depth int) (any, error) {
	offset := c.Pos()
	v, _, err := c.ReadValue()
	if err != nil {
		return nil, err
	}
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindInt:
		return v.Int, nil
	case KindFloat:
		return v.Float, nil
	case KindString:
		b, err := c.payload(v.Len)
		if err != nil {
			return nil, err
		}
		if opts.Strict {
			if err := checkUTF8(b); err != nil {
				return nil, fmt.Errorf("string at offset %d: %w", offset, err)
			}
		}
		return string(b), nil
	case KindBlob:
		b, err := c.payload(v.Len)
		if err != nil {
			return nil, err
		}
		return Blob{Mime: string(v.Mime), Data: append([]byte{}, b...)}, nil
	case KindArray:
		if depth >= MaxDepth {
			return nil, fmt.Errorf("nesting deeper than %d", MaxDepth)
		}
		return decodeArray(c, v.Count, opts, depth)
	case KindObject:
		if depth >= MaxDepth {
			return nil, fmt.Errorf("nesting deeper than %d", MaxDepth)
		}
		return decodeObject(c, v.Count, opts, depth)
	default:
		return nil, fmt.Errorf("%w: unexpected %s tag at offset %d", ErrMismatch, v.Kind, offset)
	}
}

func decodeArray(c *Cursor, count int, opts DecodeOptions, depth int) ([]any, error) {
	if count != Streamed {
		out := make([]any, 0, count)
		for range count {
			item, err := decodeAny(c, opts, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}
	out := make([]any, 0, maxSmallCount+1)
	for {
		done, err := c.endOfStream()
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		item, err := decodeAny(c, opts, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
}

func decodeObject(c *Cursor, count int, opts DecodeOptions, depth int) (map[string]any, error) {
	var keys *KeyChecker
	if opts.Strict {
		keys = getKeyChecker()
		defer putKeyChecker(keys)
	}
	size := count
	if count == Streamed {
		size = maxSmallCount + 1
	}
	out := make(map[string]any, size)
	for i := 0; count == Streamed || i < count; i++ {
		if count == Streamed {
			done, err := c.endOfStream()
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
		}
		offset := c.Pos()
		key, _, err := c.ReadStringBytes()
		if err != nil {
			return nil, fmt.Errorf("object key at offset %d: %w", offset, err)
		}
		if keys != nil {
			if err := keys.Check(key); err != nil {
				return nil, fmt.Errorf("object key at offset %d: %w", offset, err)
			}
			if err := checkUTF8(key); err != nil {
				return nil, fmt.Errorf("object key at offset %d: %w", offset, err)
			}
		}
		val, err := decodeAny(c, opts, depth+1)
		if err != nil {
			return nil, err
		}
		out[string(key)] = val
	}
	return out, nil
}

// endOfStream consumes an end tag if one is next.
func (c *Cursor) endOfStream() (bool, error) {
	tag, err := c.PeekTag()
	if err != nil {
		return false, err
	}
	if tag != tagEnd {
		return false, nil
	}
	_, err = c.ReadEnd()
	return err == nil, err
}
