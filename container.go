package yabe

// Streamed is the count reported for arrays and objects written in the
// streamed form. Their items run until an end tag.
const Streamed = -1

// WriteSmallArray writes the header of an array holding n items, 0 <= n <= 6.
func (c *Cursor) WriteSmallArray(n int) (int, error) {
	if n < 0 || n > maxSmallCount {
		return 0, ErrCount
	}
	return c.writeTag(tagSmallArray | byte(n))
}

// WriteArrayStream opens an array closed later by WriteEnd.
func (c *Cursor) WriteArrayStream() (int, error) {
	return c.writeTag(tagArrayStream)
}

// WriteSmallObject writes the header of an object holding n key/value pairs, 0 <= n <= 6.
func (c *Cursor) WriteSmallObject(n int) (int, error) {
	if n < 0 || n > maxSmallCount {
		return 0, ErrCount
	}
	return c.writeTag(tagSmallObject | byte(n))
}

// WriteObjectStream opens an object closed later by WriteEnd.
func (c *Cursor) WriteObjectStream() (int, error) {
	return c.writeTag(tagObjectStream)
}

// WriteEnd closes the innermost streamed array or object.
func (c *Cursor) WriteEnd() (int, error) {
	return c.writeTag(tagEnd)
}

// WriteArrayStart writes the small form when 0 <= n <= 6 and the streamed
// form otherwise. A negative n means the count is not known. The caller must
// close a streamed array with WriteEnd.
func (c *Cursor) WriteArrayStart(n int) (int, error) {
	if n >= 0 && n <= maxSmallCount {
		return c.WriteSmallArray(n)
	}
	return c.WriteArrayStream()
}

// WriteObjectStart is WriteArrayStart for objects.
func (c *Cursor) WriteObjectStart(n int) (int, error) {
	if n >= 0 && n <= maxSmallCount {
		return c.WriteSmallObject(n)
	}
	return c.WriteObjectStream()
}

// ReadArrayStart reads an array header and returns its item count, or
// Streamed when the items run until an end tag.
func (c *Cursor) ReadArrayStart() (int, int, error) {
	return c.readContainer(tagSmallArray, tagArrayStream)
}

// ReadObjectStart reads an object header and returns its pair count, or
// Streamed when the pairs run until an end tag.
func (c *Cursor) ReadObjectStart() (int, int, error) {
	return c.readContainer(tagSmallObject, tagObjectStream)
}

// ReadEnd reads the end tag of a streamed array or object.
func (c *Cursor) ReadEnd() (int, error) {
	return c.readTag(tagEnd)
}

func (c *Cursor) readContainer(small, stream byte) (int, int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case tag == stream:
		return Streamed, c.consume(lead, 0), nil
	case tag&0xF8 == small:
		return int(tag & 0x07), c.consume(lead, 0), nil
	default:
		return 0, 0, ErrMismatch
	}
}
