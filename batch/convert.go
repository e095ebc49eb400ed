package batch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToMap converts the batch to a plain map, nested Batches included.
// Leaf payloads are shared, and key order is lost the way maps lose it.
func (b *Batch) ToMap() map[string]any {
	out := make(map[string]any, len(b.keys))
	for _, k := range b.keys {
		if nb, ok := b.values[k].(*Batch); ok {
			out[k] = nb.ToMap()
			continue
		}
		out[k] = b.values[k]
	}
	return out
}

// MarshalJSON renders the batch as a JSON object in key order.
// Payloads marshal under the usual encoding/json rules.
func (b *Batch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(b.values[k])
		if err != nil {
			return nil, fmt.Errorf("batch: marshal %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON is shorthand for json.Marshal on the batch.
func (b *Batch) ToJSON() ([]byte, error) {
	return json.Marshal(b)
}

// FromJSON builds a Batch from a JSON object. Nested objects become
// nested Batches and numbers arrive as float64, the encoding/json
// default. JSON objects carry no order, so keys come out sorted.
func FromJSON(data []byte) (*Batch, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("batch: from json: %w", err)
	}
	return FromMap(m)
}

// MarshalYAML renders the batch as a YAML mapping in key order.
func (b *Batch) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range b.keys {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		val := &yaml.Node{}
		if err := val.Encode(b.values[k]); err != nil {
			return nil, fmt.Errorf("batch: marshal %q: %w", k, err)
		}
		n.Content = append(n.Content, key, val)
	}
	return n, nil
}

// ToYAML is shorthand for yaml.Marshal on the batch.
func (b *Batch) ToYAML() ([]byte, error) {
	return yaml.Marshal(b)
}

// FromYAML builds a Batch from a YAML mapping document, preserving the
// document's key order. Nested mappings become nested Batches.
func FromYAML(data []byte) (*Batch, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("batch: from yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Empty(), nil
	}
	return batchFromNode(doc.Content[0])
}

func batchFromNode(n *yaml.Node) (*Batch, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("batch: from yaml: expected a mapping document, got %s", n.Tag)
	}
	out := Empty()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		v, err := valueFromNode(val)
		if err != nil {
			return nil, err
		}
		if err := out.Set(key.Value, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func valueFromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return batchFromNode(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := valueFromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return valueFromNode(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("batch: from yaml: %w", err)
		}
		return v, nil
	}
}
