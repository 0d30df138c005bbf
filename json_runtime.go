package yabe

import (
	stdjson "encoding/json"
	"fmt"
)

// Marshal encodes v as a signed YABE document. Values outside the types
// listed on Append are taken through their JSON form.
func Marshal(v any) ([]byte, error) {
	return encodeDocument(initialEncodeSize, func(c *Cursor) error {
		if _, err := c.WriteSignature(); err != nil {
			return err
		}
		return appendAny(c, v, 0)
	})
}

// Unmarshal decodes a YABE document into a Go value using JSON semantics.
// Blob data lands in []byte fields.
func Unmarshal(doc []byte, out any) error {
	if out == nil {
		return fmt.Errorf("nil target")
	}
	value, err := Decode(doc)
	if err != nil {
		return err
	}
	data, err := stdjson.Marshal(jsonCompatible(value))
	if err != nil {
		return err
	}
	return stdjson.Unmarshal(data, out)
}

// jsonCompatible replaces blobs with their data so encoding/json renders them
// as base64 strings.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case Blob:
		return val.Data
	case []any:
		for i, item := range val {
			val[i] = jsonCompatible(item)
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = jsonCompatible(item)
		}
		return val
	default:
		return v
	}
}
