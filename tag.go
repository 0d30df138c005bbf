package yabe

// Kind identifies the category of value a tag byte introduces.
type Kind uint8

const (
	KindInt Kind = iota
	KindString
	KindNull
	KindBool
	KindFloat
	KindBlob
	KindEnd
	KindPadding
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindInt:     "int",
	KindString:  "string",
	KindNull:    "null",
	KindBool:    "bool",
	KindFloat:   "float",
	KindBlob:    "blob",
	KindEnd:     "end",
	KindPadding: "padding",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

const (
	tagStr6         byte = 0x80 // 10xxxxxx
	tagNull         byte = 0xC0
	tagInt16        byte = 0xC1
	tagInt32        byte = 0xC2
	tagInt64        byte = 0xC3
	tagFloat0       byte = 0xC4
	tagFloat16      byte = 0xC5
	tagFloat32      byte = 0xC6
	tagFloat64      byte = 0xC7
	tagFalse        byte = 0xC8
	tagTrue         byte = 0xC9
	tagBlob         byte = 0xCA
	tagEnd          byte = 0xCB
	tagPad          byte = 0xCC
	tagStr16        byte = 0xCD
	tagStr32        byte = 0xCE
	tagStr64        byte = 0xCF
	tagSmallArray   byte = 0xD0 // 11010xxx
	tagArrayStream  byte = 0xD7
	tagSmallObject  byte = 0xD8 // 11011xxx
	tagObjectStream byte = 0xDF

	maxSmallCount = 6
	maxInlineLen  = 0x3F
	minInlineInt  = -32
	maxInlineInt  = 127
)

// KindOf returns the kind of value introduced by tag. Every byte value maps
// to exactly one kind.
func KindOf(tag byte) Kind {
	switch {
	case int8(tag) >= minInlineInt:
		return KindInt
	case tag&0xC0 == tagStr6:
		return KindString
	case tag&0xF8 == tagSmallArray:
		return KindArray
	case tag&0xF8 == tagSmallObject:
		return KindObject
	}
	switch tag {
	case tagNull:
		return KindNull
	case tagInt16, tagInt32, tagInt64:
		return KindInt
	case tagFloat0, tagFloat16, tagFloat32, tagFloat64:
		return KindFloat
	case tagFalse, tagTrue:
		return KindBool
	case tagBlob:
		return KindBlob
	case tagEnd:
		return KindEnd
	case tagPad:
		return KindPadding
	default:
		return KindString
	}
}

// IsInline reports whether the size or value is embedded in tag itself, with
// no fixed-width field following it.
func IsInline(tag byte) bool {
	switch KindOf(tag) {
	case KindInt:
		return int8(tag) >= minInlineInt
	case KindString:
		return tag&0xC0 == tagStr6
	case KindArray:
		return tag != tagArrayStream
	case KindObject:
		return tag != tagObjectStream
	default:
		return true
	}
}
