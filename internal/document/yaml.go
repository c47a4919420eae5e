package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeNode converts a parsed YAML node into a Value, preserving mapping
// key order. Anchors and aliases are resolved; non-string mapping keys and
// duplicate keys are rejected.
func DecodeNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return DecodeNode(node.Content[0])

	case yaml.AliasNode:
		return DecodeNode(node.Alias)

	case yaml.ScalarNode:
		return decodeScalar(node), nil

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := DecodeNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Array(items...), nil

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
			}
			key := keyNode.Value
			if _, exists := obj.Get(key); exists {
				return Value{}, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
			}
			v, err := DecodeNode(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			obj.Set(key, v)
		}
		return Obj(obj), nil

	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func decodeScalar(node *yaml.Node) Value {
	switch node.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return Bool(b)
		}
		return String(node.Value)
	case "!!int", "!!float":
		return Number(normalizeNumber(node.Value))
	default:
		return String(node.Value)
	}
}

// normalizeNumber converts a YAML numeric literal into a JSON-compatible
// one. YAML permits spellings JSON does not (hex, underscores, a leading
// "+"); those are reparsed and rendered in decimal.
func normalizeNumber(lit string) json.Number {
	if json.Valid([]byte(lit)) {
		return json.Number(lit)
	}
	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return json.Number(strconv.FormatInt(i, 10))
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Number(lit)
}

// EncodeNode converts a Value back into a YAML node suitable for
// serialization, preserving object key order.
func EncodeNode(v Value) *yaml.Node {
	switch v.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}

	case KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", b)}

	case KindNumber:
		n, _ := v.AsNumber()
		tag := "!!int"
		if strings.ContainsAny(n.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.String()}

	case KindString:
		s, _ := v.AsString()
		node := &yaml.Node{}
		node.SetString(s)
		return node

	case KindArray:
		items, _ := v.AsArray()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			node.Content = append(node.Content, EncodeNode(item))
		}
		return node

	case KindObject:
		obj, _ := v.AsObject()
		return encodeObject(obj)

	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func encodeObject(o *Object) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.Keys() {
		keyNode := &yaml.Node{}
		keyNode.SetString(k)
		v, _ := o.Get(k)
		node.Content = append(node.Content, keyNode, EncodeNode(v))
	}
	return node
}

// MarshalYAML implements yaml.Marshaler, emitting keys in insertion order.
func (o *Object) MarshalYAML() (interface{}, error) {
	return encodeObject(o), nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return EncodeNode(v), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := DecodeNode(node)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
