package document

import "strings"

// Object is a mapping from string keys to Values that remembers insertion
// order. Folded output makes ordering guarantees (declaration-order
// workloads, canonical field placement) that Go's builtin map cannot
// provide, so every mapping in a document tree is an Object.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Len returns the number of keys. A nil Object has length zero.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Get returns the value stored at key and whether the key is present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set stores a value at key. An existing key keeps its position; a new key
// is appended.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// SetFront stores a value at key, placing the key before all others. An
// existing key is moved to the front.
func (o *Object) SetFront(key string, v Value) {
	if _, ok := o.values[key]; ok {
		o.removeKey(key)
	}
	o.keys = append([]string{key}, o.keys...)
	o.values[key] = v
}

// Delete removes a key if present.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	o.removeKey(key)
	delete(o.values, key)
}

func (o *Object) removeKey(key string) {
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy. Cloning nil returns an empty Object.
func (o *Object) Clone() *Object {
	out := NewObject()
	if o == nil {
		return out
	}
	for _, k := range o.keys {
		out.Set(k, o.values[k].Clone())
	}
	return out
}

// Equal reports whether two objects hold equal values for the same key set.
// Key order does not participate in equality.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, k := range o.Keys() {
		ov, ok := other.Get(k)
		if !ok {
			return false
		}
		v, _ := o.Get(k)
		if !v.Equal(ov) {
			return false
		}
	}
	return true
}

// JoinPath appends a key segment to a dotted path. An empty prefix yields
// the key itself.
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// LookupPath resolves a dotted path such as "image.tag" against an object
// tree. Keys containing literal dots cannot be addressed this way.
func LookupPath(o *Object, path string) (Value, bool) {
	segments := strings.Split(path, ".")

	current := o
	for i, seg := range segments {
		v, ok := current.Get(seg)
		if !ok {
			return Value{}, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		current, ok = v.AsObject()
		if !ok {
			return Value{}, false
		}
	}

	return Value{}, false
}
