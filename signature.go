package yabe

import "bytes"

// Magic is the 4-byte prefix of every YABE signature.
var Magic = [4]byte{'Y', 'A', 'B', 'E'}

const (
	// Version is the format version written by this package.
	Version byte = 0

	SignatureSize = len(Magic) + 1

	MediaType     = "application/yabe"
	FileExtension = ".yabe"
)

// WriteSignature writes the magic bytes followed by Version.
func (c *Cursor) WriteSignature() (int, error) {
	if c.Remaining() < SignatureSize {
		return 0, ErrCapacity
	}
	c.pos += copy(c.buf[c.pos:], Magic[:])
	c.buf[c.pos] = Version
	c.pos++
	return SignatureSize, nil
}

// ReadSignature reads a signature and returns its version byte. A short
// buffer or wrong magic returns ErrSignature with the cursor unchanged. An
// unknown version returns ErrVersion with the cursor already past the
// signature, so the caller may go on decoding on a best-effort basis.
func (c *Cursor) ReadSignature() (byte, int, error) {
	if c.Remaining() < SignatureSize || !bytes.Equal(c.buf[c.pos:c.pos+len(Magic)], Magic[:]) {
		return 0, 0, ErrSignature
	}
	version := c.buf[c.pos+len(Magic)]
	start := c.pos
	c.pos += SignatureSize
	c.SkipPadding()
	if version != Version {
		return version, c.pos - start, ErrVersion
	}
	return version, c.pos - start, nil
}
