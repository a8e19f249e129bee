package document

// Unit is one translatable text located by its key path.
type Unit struct {
	Path KeyPath
	Text string
}

// Result is the translated text for the Unit at Path.
type Result struct {
	Path           KeyPath
	TranslatedText string
}

// Extract walks root depth-first in insertion order and returns one Unit per
// translatable leaf. Opaque leaves are skipped. A key containing Delimiter
// fails the whole extraction with ErrAmbiguousKeyPath.
func Extract(root *Internal) ([]Unit, error) {
	if root == nil {
		return nil, nil
	}
	var units []Unit
	if err := extractInto(root, nil, &units); err != nil {
		return nil, err
	}
	return units, nil
}

func extractInto(n *Internal, prefix KeyPath, units *[]Unit) error {
	for _, key := range n.keys {
		if err := validateKey(prefix, key); err != nil {
			return err
		}
		path := prefix.Child(key)

		switch child := n.children[key].(type) {
		case *TranslatableLeaf:
			*units = append(*units, Unit{Path: path, Text: child.Text})
		case *Internal:
			if err := extractInto(child, path, units); err != nil {
				return err
			}
		case *OpaqueLeaf:
		}
	}
	return nil
}
