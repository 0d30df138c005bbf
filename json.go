package yabe

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/minio/simdjson-go"
	"golang.org/x/text/unicode/norm"
)

// JSONOptions controls FromJSONWithOptions.
type JSONOptions struct {
	// NormalizeNFC rewrites every string and key to Unicode NFC.
	NormalizeNFC bool
}

// FromJSON converts a JSON document into a signed YABE document. Strings of
// the form "b64:<base64>" become octet-stream blobs.
func FromJSON(data []byte) ([]byte, error) {
	return FromJSONWithOptions(data, JSONOptions{})
}

// FromJSONWithOptions is FromJSON with explicit options.
func FromJSONWithOptions(data []byte, opts JSONOptions) ([]byte, error) {
	tree, err := parseJSON(data, opts)
	if err != nil {
		return nil, err
	}
	return Marshal(tree)
}

func parseJSON(data []byte, opts JSONOptions) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("json input is empty")
	}
	if (trimmed[0] != '{' && trimmed[0] != '[') || !simdjson.SupportedCPU() {
		return stdValueFromJSON(trimmed, opts)
	}
	parsed, err := simdjson.Parse(trimmed, nil)
	if err != nil {
		return nil, err
	}
	it := parsed.Iter()
	if it.Advance() != simdjson.TypeRoot {
		return nil, fmt.Errorf("json root not found")
	}
	typ, root, err := it.Root(nil)
	if err != nil {
		return nil, err
	}
	return valueFromJSONIter(typ, root, opts)
}

func stdValueFromJSON(data []byte, opts JSONOptions) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after top-level value")
	}
	return normalizeStdJSON(v, opts)
}

func normalizeStdJSON(v any, opts JSONOptions) (any, error) {
	switch val := v.(type) {
	case nil, bool:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid json number: %s", val)
		}
		return numberFromFloat(f), nil
	case string:
		return stringFromJSON([]byte(val), opts), nil
	case []any:
		for i, item := range val {
			n, err := normalizeStdJSON(item, opts)
			if err != nil {
				return nil, err
			}
			val[i] = n
		}
		return val, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := normalizeStdJSON(item, opts)
			if err != nil {
				return nil, err
			}
			out[keyFromJSON([]byte(k), opts)] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported json type %T", v)
	}
}

// numberFromFloat keeps integral floats as integers.
func numberFromFloat(f float64) any {
	if f >= math.MinInt64 && f < math.MaxInt64 && math.Trunc(f) == f {
		return int64(f)
	}
	return f
}

func stringFromJSON(b []byte, opts JSONOptions) any {
	if len(b) >= 4 && string(b[:4]) == "b64:" {
		if decoded, err := base64.StdEncoding.DecodeString(string(b[4:])); err == nil {
			return Blob{Mime: OctetStream, Data: decoded}
		}
	}
	if opts.NormalizeNFC {
		return norm.NFC.String(string(b))
	}
	return string(b)
}

func keyFromJSON(b []byte, opts JSONOptions) string {
	if opts.NormalizeNFC {
		return norm.NFC.String(string(b))
	}
	return string(b)
}

func valueFromJSONIter(typ simdjson.Type, it *simdjson.Iter, opts JSONOptions) (any, error) {
	switch typ {
	case simdjson.TypeNull:
		return nil, nil
	case simdjson.TypeBool:
		return it.Bool()
	case simdjson.TypeInt:
		return it.Int()
	case simdjson.TypeUint:
		v, err := it.Uint()
		if err != nil {
			return nil, err
		}
		if v > math.MaxInt64 {
			return float64(v), nil
		}
		return int64(v), nil
	case simdjson.TypeFloat:
		v, err := it.Float()
		if err != nil {
			return nil, err
		}
		return numberFromFloat(v), nil
	case simdjson.TypeString:
		b, err := it.StringBytes()
		if err != nil {
			return nil, err
		}
		return stringFromJSON(b, opts), nil
	case simdjson.TypeObject:
		obj, err := it.Object(nil)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any)
		var parseErr error
		err = obj.ForEach(func(key []byte, elem simdjson.Iter) {
			if parseErr != nil {
				return
			}
			val, err := valueFromJSONIter(elem.Type(), &elem, opts)
			if err != nil {
				parseErr = err
				return
			}
			out[keyFromJSON(key, opts)] = val
		}, nil)
		if err != nil {
			return nil, err
		}
		if parseErr != nil {
			return nil, parseErr
		}
		return out, nil
	case simdjson.TypeArray:
		arr, err := it.Array(nil)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0)
		iter := arr.Iter()
		for {
			t := iter.Advance()
			if t == simdjson.TypeNone {
				break
			}
			elem := iter
			val, err := valueFromJSONIter(t, &elem, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported json type: %v", typ)
	}
}

// ToJSON converts a signed YABE document into JSON. Blobs are rendered as
// "b64:<base64>" strings; NaN and infinities, which JSON cannot carry, as null.
func ToJSON(doc []byte) (string, error) {
	var sb strings.Builder
	if err := WriteJSON(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteJSON appends JSON for doc to sb.
func WriteJSON(sb *strings.Builder, doc []byte) error {
	return WriteJSONWithOptions(sb, doc, DecodeOptions{})
}

// WriteJSONWithOptions is WriteJSON with the decoder's strictness and
// version handling.
func WriteJSONWithOptions(sb *strings.Builder, doc []byte, opts DecodeOptions) error {
	c := NewCursor(doc)
	if _, _, err := c.ReadSignature(); err != nil {
		if !errors.Is(err, ErrVersion) || !opts.AllowVersionMismatch {
			return err
		}
	}
	if err := writeJSONValue(sb, c, opts, 0); err != nil {
		return fmt.Errorf("offset %d: %w", c.Pos(), err)
	}
	c.SkipPadding()
	if !c.AtEnd() {
		return fmt.Errorf("extra bytes after root value at offset %d", c.Pos())
	}
	return nil
}

func writeJSONValue(sb *strings.Builder, c *Cursor, opts DecodeOptions, depth int) error {
	v, _, err := c.ReadValue()
	if err != nil {
		return err
	}
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			sb.WriteString("null")
		} else {
			sb.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
		}
	case KindString:
		b, err := c.payload(v.Len)
		if err != nil {
			return err
		}
		if opts.Strict {
			if err := checkUTF8(b); err != nil {
				return err
			}
		}
		writeJSONStringBytes(sb, b)
	case KindBlob:
		b, err := c.payload(v.Len)
		if err != nil {
			return err
		}
		sb.WriteString(`"b64:`)
		sb.WriteString(base64.StdEncoding.EncodeToString(b))
		sb.WriteByte('"')
	case KindArray:
		if depth >= MaxDepth {
			return fmt.Errorf("nesting deeper than %d", MaxDepth)
		}
		return writeJSONArray(sb, c, v.Count, opts, depth)
	case KindObject:
		if depth >= MaxDepth {
			return fmt.Errorf("nesting deeper than %d", MaxDepth)
		}
		return writeJSONObject(sb, c, v.Count, opts, depth)
	default:
		return fmt.Errorf("%w: unexpected %s tag", ErrMismatch, v.Kind)
	}
	return nil
}

func writeJSONArray(sb *strings.Builder, c *Cursor, count int, opts DecodeOptions, depth int) error {
	sb.WriteByte('[')
	for i := 0; count == Streamed || i < count; i++ {
		if count == Streamed {
			done, err := c.endOfStream()
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := writeJSONValue(sb, c, opts, depth+1); err != nil {
			return err
		}
	}
	sb.WriteByte(']')
	return nil
}

func writeJSONObject(sb *strings.Builder, c *Cursor, count int, opts DecodeOptions, depth int) error {
	var keys *KeyChecker
	if opts.Strict {
		keys = getKeyChecker()
		defer putKeyChecker(keys)
	}
	sb.WriteByte('{')
	for i := 0; count == Streamed || i < count; i++ {
		if count == Streamed {
			done, err := c.endOfStream()
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		key, _, err := c.ReadStringBytes()
		if err != nil {
			return fmt.Errorf("object key: %w", err)
		}
		if keys != nil {
			if err := keys.Check(key); err != nil {
				return err
			}
			if err := checkUTF8(key); err != nil {
				return err
			}
		}
		writeJSONStringBytes(sb, key)
		sb.WriteByte(':')
		if err := writeJSONValue(sb, c, opts, depth+1); err != nil {
			return err
		}
	}
	sb.WriteByte('}')
	return nil
}

func writeJSONStringBytes(sb *strings.Builder, b []byte) {
	sb.WriteByte('"')
	for _, c := range b {
		switch c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigit(c >> 4))
				sb.WriteByte(hexDigit(c & 0xF))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
