package yabe

import (
	"encoding/binary"
	"math"
)

const (
	f64SignBit  uint64 = 1 << 63
	f64ExpMask  uint64 = 0x7FF << 52
	f64MantMask uint64 = 1<<52 - 1
	f64Bias            = 1023

	f16Bias   = 15
	f16Inf    = 0x7C00
	f16NegInf = 0xFC00
	f16NaN    = 0x7D00

	f32Bias = 127

	// bit pattern produced when a half-precision NaN is widened
	f64NaN uint64 = 0x7FF4000000000000
)

// FloatSize returns the encoded size of v in bytes: 1, 3, 5 or 9.
func FloatSize(v float64) int {
	tag, _ := floatForm(math.Float64bits(v))
	switch tag {
	case tagFloat0:
		return 1
	case tagFloat16:
		return 3
	case tagFloat32:
		return 5
	default:
		return 9
	}
}

// floatForm picks the narrowest tag that reproduces bits exactly and returns
// the payload for it, right-aligned.
func floatForm(bits uint64) (byte, uint64) {
	if bits&^f64SignBit == 0 {
		return tagFloat0, 0
	}
	exp := bits & f64ExpMask
	if exp == f64ExpMask {
		switch {
		case bits&f64MantMask != 0:
			return tagFloat16, f16NaN
		case bits&f64SignBit != 0:
			return tagFloat16, f16NegInf
		default:
			return tagFloat16, f16Inf
		}
	}
	e := int(exp>>52) - f64Bias
	if e >= -14 && e <= 15 && bits&(1<<42-1) == 0 {
		h := uint64(e+f16Bias) << 10
		if bits&f64SignBit != 0 {
			h |= 0x8000
		}
		h |= (bits >> 42) & 0x3FF
		return tagFloat16, h
	}
	if e >= -126 && e <= 127 && bits&(1<<29-1) == 0 {
		f := uint64(e+f32Bias) << 23
		if bits&f64SignBit != 0 {
			f |= 0x80000000
		}
		f |= (bits >> 29) & 0x7FFFFF
		return tagFloat32, f
	}
	return tagFloat64, bits
}

// WriteFloat writes v in the smallest form that decodes back to the same bits.
// Both zeros are written as the one-byte zero form.
func (c *Cursor) WriteFloat(v float64) (int, error) {
	tag, payload := floatForm(math.Float64bits(v))
	switch tag {
	case tagFloat0:
		return c.writeTag(tag)
	case tagFloat16:
		return c.writeTag16(tag, uint16(payload))
	case tagFloat32:
		return c.writeTag32(tag, uint32(payload))
	default:
		return c.writeTag64(tag, payload)
	}
}

// ReadFloat reads a float value.
func (c *Cursor) ReadFloat() (float64, int, error) {
	tag, lead, err := c.peek()
	if err != nil {
		return 0, 0, err
	}
	var width int
	switch tag {
	case tagFloat0:
		return 0, c.consume(lead, 0), nil
	case tagFloat16:
		width = 2
	case tagFloat32:
		width = 4
	case tagFloat64:
		width = 8
	default:
		return 0, 0, ErrMismatch
	}
	b, err := c.fixed(lead, width)
	if err != nil {
		return 0, 0, err
	}
	var v float64
	switch width {
	case 2:
		v = halfToFloat64(binary.LittleEndian.Uint16(b))
	case 4:
		v = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		v = math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return v, c.consume(lead, width), nil
}

func halfToFloat64(h uint16) float64 {
	he := h & 0x7C00
	sign := h&0x8000 != 0
	switch he {
	case 0x7C00:
		switch {
		case h&0x3FF != 0:
			return math.Float64frombits(f64NaN)
		case sign:
			return math.Inf(-1)
		default:
			return math.Inf(1)
		}
	case 0:
		v := math.Ldexp(float64(h&0x3FF), -24)
		if sign {
			v = math.Copysign(v, -1)
		}
		return v
	}
	bits := uint64(int(he>>10)-f16Bias+f64Bias) << 52
	if sign {
		bits |= f64SignBit
	}
	bits |= uint64(h&0x3FF) << 42
	return math.Float64frombits(bits)
}
