package document

import (
	"errors"
	"fmt"
)

// ErrPathConflict is returned when a result path runs through an existing leaf.
var ErrPathConflict = errors.New("key path conflicts with an existing leaf")

// Reassemble builds a new document holding one OpaqueLeaf per result at its
// path, creating intermediate nodes on demand. Only translated content is
// present in the output.
func Reassemble(results []Result) (*Internal, error) {
	root := New()
	for _, r := range results {
		if len(r.Path) == 0 {
			return nil, fmt.Errorf("reassemble: empty key path")
		}

		current := root
		for i, key := range r.Path[:len(r.Path)-1] {
			next, ok := current.Get(key)
			if !ok {
				created := New()
				current.Set(key, created)
				current = created
				continue
			}
			internal, ok := next.(*Internal)
			if !ok {
				return nil, fmt.Errorf("reassemble %q: %w at %q", r.Path.String(), ErrPathConflict, r.Path[:i+1].String())
			}
			current = internal
		}

		last := r.Path[len(r.Path)-1]
		if existing, ok := current.Get(last); ok {
			if _, isInternal := existing.(*Internal); isInternal {
				return nil, fmt.Errorf("reassemble %q: %w", r.Path.String(), ErrPathConflict)
			}
		}
		current.Set(last, &OpaqueLeaf{Text: r.TranslatedText})
	}
	return root, nil
}
