package yabe

// WritePadding writes a single padding byte.
func (c *Cursor) WritePadding() (int, error) {
	return c.writeTag(tagPad)
}

// Pad fills the rest of the region with padding and returns the number of
// bytes written.
func (c *Cursor) Pad() int {
	n := c.Remaining()
	FillPadding(c.buf[c.pos:])
	c.pos = len(c.buf)
	return n
}

// SkipPadding moves past padding at the cursor and returns the number of
// bytes skipped.
func (c *Cursor) SkipPadding() int {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] == tagPad {
		c.pos++
	}
	return c.pos - start
}

// FillPadding overwrites b with padding. Readers skip the region as if the
// values once stored there were absent.
func FillPadding(b []byte) {
	for i := range b {
		b[i] = tagPad
	}
}
