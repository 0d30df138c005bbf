package yabe

// WriteNull writes a null value.
func (c *Cursor) WriteNull() (int, error) {
	return c.writeTag(tagNull)
}

// ReadNull reads a null value.
func (c *Cursor) ReadNull() (int, error) {
	return c.readTag(tagNull)
}

// WriteBool writes a boolean value.
func (c *Cursor) WriteBool(v bool) (int, error) {
	if v {
		return c.writeTag(tagTrue)
	}
	return c.writeTag(tagFalse)
}

// ReadBool reads a boolean value.
func (c *Cursor) ReadBool() (bool, int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return false, 0, err
	}
	switch tag {
	case tagTrue:
		return true, c.consume(lead, 0), nil
	case tagFalse:
		return false, c.consume(lead, 0), nil
	default:
		return false, 0, ErrMismatch
	}
}
