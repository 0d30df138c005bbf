package yabe

import "fmt"

// MaxDepth bounds the container nesting walked by Skip and the tree decoder.
const MaxDepth = 1000

// Value is one decoded value header. Strings and blobs carry only their
// payload length; containers carry their count or Streamed.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Len   uint64
	Mime  []byte
	Count int
}

// ReadValue reads the header of whatever value comes next. String and blob
// payload bytes are left in place for ReadData or Skip.
func (c *Cursor) ReadValue() (Value, int, error) {
	kind, err := c.PeekKind()
	if err != nil {
		return Value{}, 0, err
	}
	v := Value{Kind: kind}
	var n int
	switch kind {
	case KindInt:
		v.Int, n, err = c.ReadInt()
	case KindFloat:
		v.Float, n, err = c.ReadFloat()
	case KindNull:
		n, err = c.ReadNull()
	case KindBool:
		v.Bool, n, err = c.ReadBool()
	case KindString:
		v.Len, n, err = c.ReadStringLen()
	case KindBlob:
		v.Mime, v.Len, n, err = c.ReadBlobHeader()
	case KindArray:
		v.Count, n, err = c.ReadArrayStart()
	case KindObject:
		v.Count, n, err = c.ReadObjectStart()
	case KindEnd:
		n, err = c.ReadEnd()
	default:
		return Value{}, 0, fmt.Errorf("unexpected %s tag", kind)
	}
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// WriteValue writes the header described by v, the inverse of ReadValue.
// String and blob payload bytes follow through WriteData.
func (c *Cursor) WriteValue(v Value) (int, error) {
	switch v.Kind {
	case KindInt:
		return c.WriteInt(v.Int)
	case KindFloat:
		return c.WriteFloat(v.Float)
	case KindNull:
		return c.WriteNull()
	case KindBool:
		return c.WriteBool(v.Bool)
	case KindString:
		return c.WriteStringLen(v.Len)
	case KindBlob:
		total := 1 + LengthSize(uint64(len(v.Mime))) + len(v.Mime) + LengthSize(v.Len)
		if c.Remaining() < total {
			return 0, ErrCapacity
		}
		c.writeTag(tagBlob)
		c.writeStringBytes(v.Mime)
		c.writeLength(v.Len)
		return total, nil
	case KindArray:
		return c.WriteArrayStart(v.Count)
	case KindObject:
		return c.WriteObjectStart(v.Count)
	case KindEnd:
		return c.WriteEnd()
	case KindPadding:
		return c.WritePadding()
	default:
		return 0, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// Skip moves past one complete value, including payload bytes and nested
// items. On failure the cursor is left unchanged.
func (c *Cursor) Skip() (int, error) {
	mark := c.Mark()
	if err := c.skip(0); err != nil {
		c.Rewind(mark)
		return 0, err
	}
	return c.Pos() - mark, nil
}

func (c *Cursor) skip(depth int) error {
	v, _, err := c.ReadValue()
	if err != nil {
		return err
	}
	switch v.Kind {
	case KindString, KindBlob:
		if v.Len > uint64(c.Remaining()) {
			return ErrTruncated
		}
		c.pos += int(v.Len)
		c.SkipPadding()
	case KindArray, KindObject:
		if depth >= MaxDepth {
			return fmt.Errorf("nesting deeper than %d", MaxDepth)
		}
		items := 1
		if v.Kind == KindObject {
			items = 2
		}
		if v.Count != Streamed {
			for i := 0; i < v.Count*items; i++ {
				if err := c.skip(depth + 1); err != nil {
					return err
				}
			}
			return nil
		}
		for {
			tag, err := c.PeekTag()
			if err != nil {
				return err
			}
			if tag == tagEnd {
				_, err := c.ReadEnd()
				return err
			}
			for i := 0; i < items; i++ {
				if err := c.skip(depth + 1); err != nil {
					return err
				}
			}
		}
	case KindEnd:
		return fmt.Errorf("%w: end tag outside a streamed container", ErrMismatch)
	}
	return nil
}
