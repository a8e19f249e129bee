package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Marker keys of the wire shape. An object holding TextKey is a leaf; it is
// translatable only when TranslateKey is true.
const (
	TextKey      = "#text"
	TranslateKey = "#translate"
)

type member struct {
	key   string
	value json.RawMessage
}

// UnmarshalJSON decodes the marker shape, keeping object key order.
// Arrays become internal nodes keyed by index. Other scalars become opaque
// leaves; null members are dropped.
func (n *Internal) UnmarshalJSON(data []byte) error {
	members, err := decodeContainer(data)
	if err != nil {
		return err
	}
	*n = Internal{children: map[string]Node{}}
	for _, m := range members {
		child, err := decodeNode(m.value)
		if err != nil {
			return fmt.Errorf("key %q: %w", m.key, err)
		}
		if child != nil {
			n.Set(m.key, child)
		}
	}
	return nil
}

// MarshalJSON encodes leaves as {"#text": ...}, adding "#translate": true for
// translatable leaves.
func (n *Internal) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		var v []byte
		switch child := n.children[key].(type) {
		case *Internal:
			v, err = child.MarshalJSON()
		case *TranslatableLeaf:
			v, err = json.Marshal(map[string]any{TextKey: child.Text, TranslateKey: true})
		case *OpaqueLeaf:
			v, err = json.Marshal(map[string]string{TextKey: child.Text})
		}
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeNode(raw json.RawMessage) (Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '{', '[':
		members, err := decodeContainer(trimmed)
		if err != nil {
			return nil, err
		}
		if leaf, ok, err := leafFromMembers(members); err != nil || ok {
			return leaf, err
		}
		child := New()
		for _, m := range members {
			grandchild, err := decodeNode(m.value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", m.key, err)
			}
			if grandchild != nil {
				child.Set(m.key, grandchild)
			}
		}
		return child, nil
	case 'n':
		return nil, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return &OpaqueLeaf{Text: s}, nil
	default:
		return &OpaqueLeaf{Text: string(trimmed)}, nil
	}
}

// leafFromMembers reports whether an object is a leaf. A translatable leaf
// wins over any sibling members.
func leafFromMembers(members []member) (Node, bool, error) {
	var (
		text      string
		hasText   bool
		translate bool
	)
	for _, m := range members {
		switch m.key {
		case TextKey:
			if err := json.Unmarshal(m.value, &text); err != nil {
				return nil, false, fmt.Errorf("%s must be a string: %w", TextKey, err)
			}
			hasText = true
		case TranslateKey:
			if err := json.Unmarshal(m.value, &translate); err != nil {
				return nil, false, fmt.Errorf("%s must be a boolean: %w", TranslateKey, err)
			}
		}
	}
	if !hasText {
		return nil, false, nil
	}
	if translate {
		return &TranslatableLeaf{Text: text}, true, nil
	}
	return &OpaqueLeaf{Text: text}, true, nil
}

func decodeContainer(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil, fmt.Errorf("expected object or array, got %v", tok)
	}

	var members []member
	for i := 0; dec.More(); i++ {
		key := strconv.Itoa(i)
		if delim == '{' {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok = tok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", tok)
			}
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}
