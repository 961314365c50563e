package schematic

import (
	"slices"
)

// Instance is a materialized value of a registered composite type. Its
// properties are ordered; hidden ones are kept but never enumerated nor
// serialized.
type Instance struct {
	desc   *Descriptor
	keys   []string
	values map[string]any
	hidden map[string]struct{}
}

func newInstance(d *Descriptor) *Instance {
	return &Instance{desc: d, values: map[string]any{}, hidden: map[string]struct{}{}}
}

// Type returns the descriptor the instance was materialized with.
func (i *Instance) Type() *Descriptor { return i.desc }

// Get returns a property value, hidden properties included.
func (i *Instance) Get(key string) (any, bool) {
	v, ok := i.values[key]
	return v, ok
}

// Has reports whether the property exists, hidden or not.
func (i *Instance) Has(key string) bool {
	_, ok := i.values[key]
	return ok
}

// IsHidden reports whether key is a hidden property.
func (i *Instance) IsHidden(key string) bool {
	_, ok := i.hidden[key]
	return ok
}

// Set assigns a property. An existing property keeps its position and
// visibility; a new one is appended as enumerable. No check is made until
// Validate is called.
func (i *Instance) Set(key string, v any) { i.put(key, v) }

// Delete removes a property.
func (i *Instance) Delete(key string) {
	if _, ok := i.values[key]; !ok {
		return
	}
	delete(i.values, key)
	delete(i.hidden, key)
	i.keys = slices.DeleteFunc(i.keys, func(k string) bool { return k == key })
}

// Keys returns the enumerable property names in order.
func (i *Instance) Keys() []string { return i.ownKeys() }

// HiddenKeys returns the hidden property names in order.
func (i *Instance) HiddenKeys() []string {
	var out []string
	for _, k := range i.keys {
		if _, ok := i.hidden[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Validate walks the instance against its schema without modifying it. It
// reports true when the context holds no issues. Without ctx, or with a nil
// one, the first issue is returned as *Error with its path.
func (i *Instance) Validate(ctx ...*Context) (bool, error) {
	var c *Context
	if len(ctx) > 0 {
		c = ctx[0]
	}
	if c == nil {
		c = NewContext()
	}
	c.validating = true
	defer func() { c.validating = false }()
	if err := i.desc.walk(i, i, c); err != nil {
		return false, err
	}
	return len(c.issues) == 0, nil
}

// Clone materializes a new instance of the same type from i. Hidden
// properties are carried over unless ctx forbids hidden assignment.
func (i *Instance) Clone(ctx ...*Context) (*Instance, error) {
	if len(ctx) == 0 {
		c := NewContext()
		c.AllowHiddenPropertyAssignment = true
		ctx = []*Context{c}
	}
	return i.desc.New(i, ctx...)
}

// ToObject converts the enumerable properties into a plain Object, nested
// instances included.
func (i *Instance) ToObject() *Object {
	out := NewObject()
	for _, k := range i.ownKeys() {
		out.Set(k, plain(i.values[k]))
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Instance:
		return t.ToObject()
	case []any:
		out := make([]any, len(t))
		for n, item := range t {
			out[n] = plain(item)
		}
		return out
	}
	return v
}

func (i *Instance) ownKeys() []string {
	out := make([]string, 0, len(i.keys))
	for _, k := range i.keys {
		if _, ok := i.hidden[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func (i *Instance) lookup(key string) (any, bool) { return i.Get(key) }

func (i *Instance) put(key string, v any) {
	if _, ok := i.values[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.values[key] = v
}

// hide declares key as a hidden property, with an Undefined placeholder when absent.
func (i *Instance) hide(key string) {
	if _, ok := i.values[key]; !ok {
		i.put(key, Undefined)
	}
	i.hidden[key] = struct{}{}
}
