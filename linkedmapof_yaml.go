package om

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler. The mapping is emitted in
// chronological order, oldest entry first, matching the JSON codec.
// Unlike JSON, YAML mappings take arbitrary key types.
func (m *LinkedMapOf[K, V]) MarshalYAML() (any, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	m.rangeEntryBackward(func(e *EntryOf[K, V]) bool {
		keyNode := &yaml.Node{}
		if err = keyNode.Encode(e.Key); err != nil {
			return false
		}
		valueNode := &yaml.Node{}
		if err = valueNode.Encode(e.Value); err != nil {
			return false
		}
		mapping.Content = append(mapping.Content, keyNode, valueNode)
		return true
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, storing pairs in document
// order so the incoming order becomes the chronological order. Pairs
// merge into the existing contents; duplicate keys keep the last
// value.
func (m *LinkedMapOf[K, V]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("om: cannot unmarshal YAML %s into LinkedMapOf", value.Tag)
	}
	content := value.Content
	for i := 0; i+1 < len(content); i += 2 {
		var key K
		if err := content[i].Decode(&key); err != nil {
			return err
		}
		var val V
		if err := content[i+1].Decode(&val); err != nil {
			return err
		}
		m.Store(key, val)
	}
	return nil
}
