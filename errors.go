package yabe

import "errors"

var (
	// ErrCapacity reports that a value does not fit in the remaining buffer space.
	ErrCapacity = errors.New("yabe: buffer capacity exceeded")
	// ErrMismatch reports that the value at the cursor is of another kind.
	ErrMismatch = errors.New("yabe: value kind mismatch")
	// ErrTruncated reports that the buffer ends inside a fixed-width field.
	ErrTruncated = errors.New("yabe: truncated value")
	// ErrEndOfBuffer reports that no value is left to read.
	ErrEndOfBuffer = errors.New("yabe: end of buffer")
	// ErrSignature reports a missing or corrupt YABE signature.
	ErrSignature = errors.New("yabe: invalid signature")
	// ErrVersion reports a signature carrying an unknown format version.
	ErrVersion = errors.New("yabe: unsupported version")
	// ErrCount reports a small container count outside 0..6.
	ErrCount = errors.New("yabe: small container count out of range")

	ErrEmptyKey     = errors.New("yabe: empty object key")
	ErrDuplicateKey = errors.New("yabe: duplicate object key")
	ErrInvalidUTF8  = errors.New("yabe: string is not valid utf-8")
)
