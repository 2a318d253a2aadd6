/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huandu/go-clone"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FromJSON decodes a JSON document keeping object key order. Objects and
// arrays become Maps; integral numbers become int64, other numbers float64.
func FromJSON(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return From(v), nil
}

func decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		m := New()
		switch t {
		case '{':
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
		case '[':
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Push(v)
			}
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
		// closing delimiter
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return t, nil
	}
}

// FromYAML decodes a YAML document keeping mapping key order.
func FromYAML(data []byte) (*Map, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	d := &yamlDecoder{budget: yamlBudget(&node)}
	v, err := d.decode(&node)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return New(), nil
	}
	return From(v), nil
}

// ErrYAMLExpansion is returned when aliases expand a document far beyond its
// written size.
var ErrYAMLExpansion = errors.New("decode yaml: document expands too much through aliases")

// yamlBudget allows a document to expand to ten times its node count through
// aliases, with a floor for small documents.
func yamlBudget(n *yaml.Node) int {
	count := 0
	var walk func(*yaml.Node)
	walk = func(n *yaml.Node) {
		count++
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(n)
	return 10*count + 10000
}

type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) decode(n *yaml.Node) (interface{}, error) {
	if d.budget--; d.budget < 0 {
		return nil, ErrYAMLExpansion
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		m := New()
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			m.Push(v)
		}
		return m, nil
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case 0:
		return nil, nil
	default:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// mapping decodes a mapping node. Merge keys ("<<: *base") insert the entries
// of the referenced mappings at their position unless the mapping defines
// them itself; with a sequence of mappings the earlier one wins.
func (d *yamlDecoder) mapping(n *yaml.Node) (*Map, error) {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			explicit[n.Content[i].Value] = true
		}
	}

	m := New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if !isMergeKey(key) {
			v, err := d.decode(value)
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, v)
			continue
		}

		sources := []*yaml.Node{value}
		if resolved := resolveAlias(value); resolved.Kind == yaml.SequenceNode {
			sources = resolved.Content
		}
		for _, src := range sources {
			if resolveAlias(src).Kind != yaml.MappingNode {
				return nil, fmt.Errorf("decode yaml: line %d: merge value must be a mapping", src.Line)
			}
			v, err := d.decode(src)
			if err != nil {
				return nil, err
			}
			v.(*Map).Range(func(k string, val interface{}) bool {
				if !explicit[k] && !m.Has(k) {
					m.Set(k, val)
				}
				return true
			})
		}
	}
	return m, nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// MarshalJSON encodes list-like Maps as arrays and everything else as objects
// in key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	list := m.IsList()
	if list {
		buf.WriteByte('[')
	} else {
		buf.WriteByte('{')
	}
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !list {
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
		}
		vb, err := json.Marshal(m.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	if list {
		buf.WriteByte(']')
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// MarshalYAML keeps key order in YAML output.
func (m *Map) MarshalYAML() (interface{}, error) {
	if m.IsList() {
		return m.Values(), nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		var value yaml.Node
		if err := value.Encode(m.items[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}
	return node, nil
}

// String renders the Map as JSON.
func (m *Map) String() string {
	b, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("collection.Map(%d)", m.Len())
	}
	return string(b)
}

// ToNative converts the Map recursively into plain Go values: list-like Maps
// become []interface{}, the others map[string]interface{}.
func (m *Map) ToNative() interface{} {
	if m.IsList() {
		out := make([]interface{}, 0, len(m.keys))
		for _, k := range m.keys {
			out = append(out, native(m.items[k]))
		}
		return out
	}
	out := make(map[string]interface{}, len(m.keys))
	for _, k := range m.keys {
		out[k] = native(m.items[k])
	}
	return out
}

func native(v interface{}) interface{} {
	if child, ok := v.(*Map); ok {
		return child.ToNative()
	}
	return v
}

// Decode copies the Map into out, typically a pointer to a struct or a slice
// of structs. Field names are matched through their json tags; scalar types
// are converted where possible.
func (m *Map) Decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m.ToNative())
}

// Clone returns a deep copy. Nested Maps are copied entry by entry; every
// other value is deep-copied with go-clone.
func (m *Map) Clone() *Map {
	out := New()
	for _, k := range m.keys {
		switch v := m.items[k].(type) {
		case *Map:
			out.Set(k, v.Clone())
		case nil:
			out.Set(k, nil)
		default:
			out.Set(k, clone.Clone(v))
		}
	}
	return out
}
