package schematic

import (
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"sort"
)

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// Undefined marks an absent value. Properties holding Undefined exist on an
// Instance but are omitted from JSON output; inside arrays they encode as null.
var Undefined = UndefinedValue{}

// MarshalJSON encodes Undefined as null, matching array element semantics.
func (UndefinedValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}

// Object is an insertion-ordered property bag: the raw-input counterpart of a
// parsed JSON object. The zero value is not usable; call NewObject.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an Object from alternating key/value arguments. It panics
// when a key is not a string or a value is missing.
func NewObject(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("schematic: NewObject requires key/value pairs")
	}
	o := &Object{values: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("schematic: NewObject key must be a string")
		}
		o.Set(k, kv[i+1])
	}
	return o
}

// Set assigns a value; a new key is appended, an existing key keeps its position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// properties is the read view shared by raw objects and instances.
type properties interface {
	// ownKeys lists enumerable keys in order.
	ownKeys() []string
	// lookup finds any own key, hidden ones included.
	lookup(key string) (any, bool)
}

func (o *Object) ownKeys() []string             { return o.keys }
func (o *Object) lookup(key string) (any, bool) { return o.Get(key) }

// mapProps adapts a plain map; keys are visited in sorted order because Go maps
// carry no insertion order.
type mapProps map[string]any

func (m mapProps) ownKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m mapProps) lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func asProperties(v any) (properties, bool) {
	switch t := v.(type) {
	case *Object:
		return t, t != nil
	case *Instance:
		return t, t != nil
	case map[string]any:
		return mapProps(t), t != nil
	}
	return nil, false
}

// asArray returns v as []any. Typed slices are copied; []byte is not an array.
func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case nil, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// number reports v as a float64 when it is a Go or JSON number.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func isInteger(v any) bool {
	f, ok := number(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	return f == math.Trunc(f)
}

// typeOf classifies v the way a JSON consumer's typeof operator would: null,
// arrays and property bags are all "object".
func typeOf(v any) string {
	switch v.(type) {
	case UndefinedValue:
		return "undefined"
	case nil:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := number(v); ok {
		return "number"
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "function"
	}
	return "object"
}

// isObject reports non-null property bags; arrays are excluded.
func isObject(v any) bool {
	_, ok := asProperties(v)
	return ok
}

// snapshot deep-copies v through JSON semantics so a recorded issue cannot be
// changed by later mutation of the input: hidden and undefined properties are
// dropped, undefined array items and non-finite numbers become null.
func snapshot(v any) any {
	if IsUndefined(v) {
		return v
	}
	if c, ok := cloneJSON(v); ok {
		return c
	}
	return v
}

func cloneJSON(v any) (any, bool) {
	if p, ok := asProperties(v); ok {
		out := NewObject()
		for _, k := range p.ownKeys() {
			item, _ := p.lookup(k)
			if c, ok := cloneJSON(item); ok {
				out.Set(k, c)
			}
		}
		return out, true
	}
	switch t := v.(type) {
	case UndefinedValue:
		return nil, false
	case nil, string, bool, json.Number:
		return t, true
	}
	if f, ok := number(v); ok {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, true
		}
		return v, true
	}
	if arr, ok := asArray(v); ok {
		out := make([]any, len(arr))
		for i, item := range arr {
			if c, ok := cloneJSON(item); ok {
				out[i] = c
			}
		}
		return out, true
	}
	return nil, false
}

// JSONKind names the JSON kind of v: "object", "array", "string", "number",
// "boolean", "null" or "undefined". Other Go values report "unknown".
func JSONKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case UndefinedValue:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := number(v); ok {
		return "number"
	}
	if isObject(v) {
		return "object"
	}
	if _, ok := asArray(v); ok {
		return "array"
	}
	return "unknown"
}
