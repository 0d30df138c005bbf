package merge

import (
	yabe "github.com/yabe-format/yabe-go"
)

// ApplyMergePatch applies JSON Merge Patch semantics to a target document.
// If the patch is not an object, the patch replaces the target.
func ApplyMergePatch(target, patch []byte) ([]byte, error) {
	patchRoot, err := yabe.Decode(patch)
	if err != nil {
		return nil, err
	}
	patchObj, ok := patchRoot.(map[string]any)
	if !ok {
		return patch, nil
	}
	targetRoot, err := yabe.Decode(target)
	if err != nil {
		return nil, err
	}
	return yabe.Marshal(applyObjectPatch(targetRoot, patchObj))
}

// Apply merges patch into target and returns the result. target is not modified.
func Apply(target, patch any) any {
	patchObj, ok := patch.(map[string]any)
	if !ok {
		return patch
	}
	return applyObjectPatch(target, patchObj)
}

func applyObjectPatch(target any, patch map[string]any) map[string]any {
	base, _ := target.(map[string]any)
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		switch pv := v.(type) {
		case nil:
			delete(out, k)
		case map[string]any:
			out[k] = applyObjectPatch(out[k], pv)
		default:
			out[k] = v
		}
	}
	return out
}
