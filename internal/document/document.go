// Package document models hierarchical translatable content as a tagged tree
// and converts it to and from flat, ordered translation units.
package document

// Node is one of *Internal, *TranslatableLeaf or *OpaqueLeaf.
type Node interface {
	node()
}

// Internal is a node with ordered, uniquely keyed children.
// Insertion order is the traversal order.
type Internal struct {
	keys     []string
	children map[string]Node
}

// TranslatableLeaf carries text that is eligible for translation.
type TranslatableLeaf struct {
	Text string
}

// OpaqueLeaf carries text that must not be sent for translation.
type OpaqueLeaf struct {
	Text string
}

func (*Internal) node()         {}
func (*TranslatableLeaf) node() {}
func (*OpaqueLeaf) node()       {}

// New returns an empty document root.
func New() *Internal {
	return &Internal{children: map[string]Node{}}
}

// Set stores child under key. Replacing an existing key keeps its position.
func (n *Internal) Set(key string, child Node) {
	if n.children == nil {
		n.children = map[string]Node{}
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// Get returns the child stored under key.
func (n *Internal) Get(key string) (Node, bool) {
	child, ok := n.children[key]
	return child, ok
}

// Keys returns the child keys in insertion order.
func (n *Internal) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len returns the number of children.
func (n *Internal) Len() int {
	return len(n.keys)
}

// Leaves returns every leaf text keyed by its joined key path, regardless of
// the leaf's translatable flag.
func Leaves(root *Internal) map[string]string {
	out := map[string]string{}
	var walk func(n *Internal, prefix KeyPath)
	walk = func(n *Internal, prefix KeyPath) {
		for _, key := range n.keys {
			path := prefix.Child(key)
			switch child := n.children[key].(type) {
			case *Internal:
				walk(child, path)
			case *TranslatableLeaf:
				out[path.String()] = child.Text
			case *OpaqueLeaf:
				out[path.String()] = child.Text
			}
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return out
}
