package yabe

import (
	"fmt"
	"unicode/utf8"

	"github.com/delaneyj/toolbelt"
)

var keyCheckerPool = toolbelt.New(func() *KeyChecker {
	return &KeyChecker{seen: make(map[string]struct{}, 8)}
})

// KeyChecker enforces that the identifiers of one object are non-empty and
// unique. The decoder only runs it in strict mode.
type KeyChecker struct {
	seen map[string]struct{}
}

// NewKeyChecker returns an empty checker.
func NewKeyChecker() *KeyChecker {
	return &KeyChecker{seen: make(map[string]struct{}, 8)}
}

// Check records key and reports whether it is acceptable.
func (k *KeyChecker) Check(key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if _, ok := k.seen[string(key)]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	k.seen[string(key)] = struct{}{}
	return nil
}

// Reset forgets every recorded key.
func (k *KeyChecker) Reset() {
	clear(k.seen)
}

func getKeyChecker() *KeyChecker {
	return keyCheckerPool.Get()
}

func putKeyChecker(k *KeyChecker) {
	if k == nil {
		return
	}
	k.Reset()
	keyCheckerPool.Put(k)
}

func checkUTF8(b []byte) error {
	if !utf8.Valid(b) {
		return ErrInvalidUTF8
	}
	return nil
}
