package patch

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	yabe "github.com/yabe-format/yabe-go"
)

const appendToken = "-"

type opRecord struct {
	op       string
	path     []string
	value    any
	hasValue bool
	from     []string
}

// ApplyPatch applies RFC 6902 JSON Patch semantics to a target document. The
// patch document must hold an array of operation objects.
func ApplyPatch(target, patch []byte) ([]byte, error) {
	patchRoot, err := yabe.Decode(patch)
	if err != nil {
		return nil, err
	}
	ops, ok := patchRoot.([]any)
	if !ok {
		return nil, fmt.Errorf("patch root must be an array")
	}
	doc, err := yabe.Decode(target)
	if err != nil {
		return nil, err
	}
	out, err := Apply(doc, ops)
	if err != nil {
		return nil, err
	}
	return yabe.Marshal(out)
}

// Apply runs ops against doc in order and returns the patched tree. doc may
// be modified in place.
func Apply(doc any, ops []any) (any, error) {
	for i, raw := range ops {
		op, err := parseOperation(raw)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		doc, err = applyOperation(doc, op)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.op, err)
		}
	}
	return doc, nil
}

func parseOperation(raw any) (opRecord, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return opRecord{}, fmt.Errorf("operation must be an object")
	}
	var rec opRecord
	if rec.op, ok = obj["op"].(string); !ok {
		return opRecord{}, fmt.Errorf("operation missing op")
	}
	p, ok := obj["path"].(string)
	if !ok {
		return opRecord{}, fmt.Errorf("operation missing path")
	}
	var err error
	if rec.path, err = parsePointer(p); err != nil {
		return opRecord{}, err
	}
	rec.value, rec.hasValue = obj["value"]
	switch rec.op {
	case "add", "replace", "test":
		if !rec.hasValue {
			return opRecord{}, fmt.Errorf("%s operation missing value", rec.op)
		}
	case "move", "copy":
		from, ok := obj["from"].(string)
		if !ok {
			return opRecord{}, fmt.Errorf("%s operation missing from", rec.op)
		}
		if rec.from, err = parsePointer(from); err != nil {
			return opRecord{}, err
		}
	case "remove":
	default:
		return opRecord{}, fmt.Errorf("unknown op %q", rec.op)
	}
	return rec, nil
}

// parsePointer splits an RFC 6901 pointer into unescaped tokens.
func parsePointer(p string) ([]string, error) {
	if p == "" {
		return nil, nil
	}
	if p[0] != '/' {
		return nil, fmt.Errorf("invalid json pointer %q", p)
	}
	parts := strings.Split(p[1:], "/")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
	}
	return parts, nil
}

func applyOperation(doc any, op opRecord) (any, error) {
	switch op.op {
	case "add":
		return add(doc, op.path, op.value)
	case "remove":
		return remove(doc, op.path)
	case "replace":
		return replace(doc, op.path, op.value)
	case "move":
		if len(op.from) < len(op.path) && slices.Equal(op.from, op.path[:len(op.from)]) {
			return nil, fmt.Errorf("cannot move a value into one of its children")
		}
		v, err := get(doc, op.from)
		if err != nil {
			return nil, err
		}
		doc, err = remove(doc, op.from)
		if err != nil {
			return nil, err
		}
		return add(doc, op.path, v)
	case "copy":
		v, err := get(doc, op.from)
		if err != nil {
			return nil, err
		}
		return add(doc, op.path, deepCopy(v))
	case "test":
		v, err := get(doc, op.path)
		if err != nil {
			return nil, err
		}
		if !deepEqual(v, op.value) {
			return nil, fmt.Errorf("test failed at /%s", strings.Join(op.path, "/"))
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op.op)
	}
}

func get(doc any, path []string) (any, error) {
	cur := doc
	for _, tok := range path {
		switch n := cur.(type) {
		case map[string]any:
			v, ok := n[tok]
			if !ok {
				return nil, fmt.Errorf("path not found: %q", tok)
			}
			cur = v
		case []any:
			i, err := arrayIndex(tok, len(n), false)
			if err != nil {
				return nil, err
			}
			cur = n[i]
		default:
			return nil, fmt.Errorf("cannot index %T with %q", cur, tok)
		}
	}
	return cur, nil
}

// update walks to the parent of the last token of path and replaces it with
// the result of fn, rebuilding every container on the way back up.
func update(node any, path []string, fn func(parent any, tok string) (any, error)) (any, error) {
	if len(path) == 1 {
		return fn(node, path[0])
	}
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[path[0]]
		if !ok {
			return nil, fmt.Errorf("path not found: %q", path[0])
		}
		updated, err := update(child, path[1:], fn)
		if err != nil {
			return nil, err
		}
		n[path[0]] = updated
		return n, nil
	case []any:
		i, err := arrayIndex(path[0], len(n), false)
		if err != nil {
			return nil, err
		}
		updated, err := update(n[i], path[1:], fn)
		if err != nil {
			return nil, err
		}
		n[i] = updated
		return n, nil
	default:
		return nil, fmt.Errorf("cannot index %T with %q", node, path[0])
	}
}

func add(doc any, path []string, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	return update(doc, path, func(parent any, tok string) (any, error) {
		switch n := parent.(type) {
		case map[string]any:
			n[tok] = value
			return n, nil
		case []any:
			i, err := arrayIndex(tok, len(n), true)
			if err != nil {
				return nil, err
			}
			return slices.Insert(n, i, value), nil
		default:
			return nil, fmt.Errorf("cannot add to %T", parent)
		}
	})
}

func remove(doc any, path []string) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("cannot remove the document root")
	}
	return update(doc, path, func(parent any, tok string) (any, error) {
		switch n := parent.(type) {
		case map[string]any:
			if _, ok := n[tok]; !ok {
				return nil, fmt.Errorf("path not found: %q", tok)
			}
			delete(n, tok)
			return n, nil
		case []any:
			i, err := arrayIndex(tok, len(n), false)
			if err != nil {
				return nil, err
			}
			return slices.Delete(n, i, i+1), nil
		default:
			return nil, fmt.Errorf("cannot remove from %T", parent)
		}
	})
}

func replace(doc any, path []string, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	return update(doc, path, func(parent any, tok string) (any, error) {
		switch n := parent.(type) {
		case map[string]any:
			if _, ok := n[tok]; !ok {
				return nil, fmt.Errorf("path not found: %q", tok)
			}
			n[tok] = value
			return n, nil
		case []any:
			i, err := arrayIndex(tok, len(n), false)
			if err != nil {
				return nil, err
			}
			n[i] = value
			return n, nil
		default:
			return nil, fmt.Errorf("cannot replace in %T", parent)
		}
	})
}

func arrayIndex(tok string, length int, insert bool) (int, error) {
	if insert && tok == appendToken {
		return length, nil
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, fmt.Errorf("invalid array index %q", tok)
	}
	i, err := strconv.Atoi(tok)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid array index %q", tok)
	}
	limit := length - 1
	if insert {
		limit = length
	}
	if i > limit {
		return 0, fmt.Errorf("array index %d out of range", i)
	}
	return i, nil
}

func deepCopy(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, item := range n {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = deepCopy(item)
		}
		return out
	case yabe.Blob:
		return yabe.Blob{Mime: n.Mime, Data: slices.Clone(n.Data)}
	default:
		return v
	}
}

// deepEqual compares trees with JSON number semantics, so 1 equals 1.0.
func deepEqual(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !deepEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !deepEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
