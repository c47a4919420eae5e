package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON implements json.Marshaler, emitting object keys in insertion
// order. The standard library sorts map keys, which would destroy the
// ordering guarantees folded output makes.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Obj(o).MarshalJSON()
}

func appendJSON(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
		return nil

	case KindBool:
		b, _ := v.AsBool()
		buf.WriteString(fmt.Sprintf("%t", b))
		return nil

	case KindNumber:
		n, _ := v.AsNumber()
		buf.WriteString(n.String())
		return nil

	case KindString:
		s, _ := v.AsString()
		encoded, err := json.Marshal(s)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil

	case KindArray:
		items, _ := v.AsArray()
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case KindObject:
		obj, _ := v.AsObject()
		buf.WriteByte('{')
		for i, k := range obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			item, _ := obj.Get(k)
			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	default:
		return fmt.Errorf("unsupported value kind %d", v.Kind())
	}
}
