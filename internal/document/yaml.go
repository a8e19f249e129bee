package document

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes the marker shape from YAML with the same rules as
// UnmarshalJSON. Mapping order is preserved.
func (n *Internal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) > 0 {
		value = value.Content[0]
	}
	members, err := yamlMembers(value)
	if err != nil {
		return err
	}
	*n = Internal{children: map[string]Node{}}
	for _, m := range members {
		child, err := decodeYAMLNode(m.value)
		if err != nil {
			return fmt.Errorf("line %d: key %q: %w", m.value.Line, m.key, err)
		}
		if child != nil {
			n.Set(m.key, child)
		}
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (n *Internal) MarshalYAML() (interface{}, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range n.keys {
		var value *yaml.Node
		switch child := n.children[key].(type) {
		case *Internal:
			v, err := child.MarshalYAML()
			if err != nil {
				return nil, err
			}
			value = v.(*yaml.Node)
		case *TranslatableLeaf:
			value = leafYAML(child.Text, true)
		case *OpaqueLeaf:
			value = leafYAML(child.Text, false)
		}
		out.Content = append(out.Content, scalarYAML(key), value)
	}
	return out, nil
}

type yamlMember struct {
	key   string
	value *yaml.Node
}

func yamlMembers(value *yaml.Node) ([]yamlMember, error) {
	switch value.Kind {
	case yaml.MappingNode:
		members := make([]yamlMember, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			members = append(members, yamlMember{key: value.Content[i].Value, value: value.Content[i+1]})
		}
		return members, nil
	case yaml.SequenceNode:
		members := make([]yamlMember, 0, len(value.Content))
		for i, item := range value.Content {
			members = append(members, yamlMember{key: strconv.Itoa(i), value: item})
		}
		return members, nil
	default:
		return nil, fmt.Errorf("line %d: expected mapping or sequence", value.Line)
	}
}

func decodeYAMLNode(value *yaml.Node) (Node, error) {
	if value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}
	if value.Kind == yaml.ScalarNode {
		if value.ShortTag() == "!!null" {
			return nil, nil
		}
		return &OpaqueLeaf{Text: value.Value}, nil
	}

	members, err := yamlMembers(value)
	if err != nil {
		return nil, err
	}

	var (
		text      string
		hasText   bool
		translate bool
	)
	for _, m := range members {
		switch m.key {
		case TextKey:
			if err := m.value.Decode(&text); err != nil {
				return nil, fmt.Errorf("%s must be a string: %w", TextKey, err)
			}
			hasText = true
		case TranslateKey:
			if err := m.value.Decode(&translate); err != nil {
				return nil, fmt.Errorf("%s must be a boolean: %w", TranslateKey, err)
			}
		}
	}
	if hasText {
		if translate {
			return &TranslatableLeaf{Text: text}, nil
		}
		return &OpaqueLeaf{Text: text}, nil
	}

	child := New()
	for _, m := range members {
		grandchild, err := decodeYAMLNode(m.value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", m.key, err)
		}
		if grandchild != nil {
			child.Set(m.key, grandchild)
		}
	}
	return child, nil
}

func scalarYAML(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func leafYAML(text string, translate bool) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, scalarYAML(TextKey), scalarYAML(text))
	if translate {
		n.Content = append(n.Content, scalarYAML(TranslateKey), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	return n
}
