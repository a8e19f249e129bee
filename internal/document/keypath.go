package document

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter joins key path segments at system boundaries.
const Delimiter = "|"

// ErrAmbiguousKeyPath is returned when a key contains Delimiter.
var ErrAmbiguousKeyPath = errors.New("ambiguous key path")

// KeyPath locates a node from the document root.
type KeyPath []string

// Child returns a new path with key appended. The receiver is never aliased.
func (p KeyPath) Child(key string) KeyPath {
	out := make(KeyPath, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// String joins the path with Delimiter.
func (p KeyPath) String() string {
	return strings.Join(p, Delimiter)
}

// ParseKeyPath splits a joined path produced by KeyPath.String.
func ParseKeyPath(s string) KeyPath {
	if s == "" {
		return nil
	}
	return strings.Split(s, Delimiter)
}

func validateKey(parent KeyPath, key string) error {
	if strings.Contains(key, Delimiter) {
		return fmt.Errorf("%w: key %q under %q contains %q", ErrAmbiguousKeyPath, key, parent.String(), Delimiter)
	}
	return nil
}
