package schematic

import (
	"slices"
)

// Descriptor is the registered, frozen form of a type.
type Descriptor struct {
	scope         *Scope
	name          string
	schema        Schema
	fields        map[string]Field // includes AdditionalKey
	keys          []string         // declared order, AdditionalKey excluded
	preserveOrder bool
	validator     func(any) bool
	detector      func(any) string
	conflicting   map[string]struct{}
	keyField      *Field // dictionary entry, fixed at registration
}

// Name returns the registered type name.
func (d *Descriptor) Name() string { return d.name }

// Scope returns the registry the type belongs to.
func (d *Descriptor) Scope() *Scope { return d.scope }

// Schema returns a copy of the frozen schema.
func (d *Descriptor) Schema() Schema {
	s := d.schema
	s.Fields = slices.Clone(s.Fields)
	return s
}

// Keys returns the declared property names, AdditionalKey excluded.
func (d *Descriptor) Keys() []string { return slices.Clone(d.keys) }

// PreservePropertyOrder reports whether instances keep input key order.
func (d *Descriptor) PreservePropertyOrder() bool { return d.preserveOrder }

// IsLeaf reports whether values of the type are checked by a validator rather
// than materialized as instances.
func (d *Descriptor) IsLeaf() bool { return d.validator != nil }

// Match applies the leaf validator. It reports false for composite types.
func (d *Descriptor) Match(v any) bool { return d.validator != nil && d.validator(v) }

// KeyType returns the name of the registered type constraining dictionary keys.
func (d *Descriptor) KeyType() (string, bool) {
	if d.keyField == nil {
		return "", false
	}
	return d.keyField.Name, true
}

// ConflictingKeys returns the reserved names, sorted.
func (d *Descriptor) ConflictingKeys() []string {
	out := make([]string, 0, len(d.conflicting))
	for k := range d.conflicting {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// IsConflicting reports whether key is reserved for the type.
func (d *Descriptor) IsConflicting(key string) bool {
	_, ok := d.conflicting[key]
	return ok
}

// New materializes an instance from input, which may be nil, an *Object, a
// map[string]any or an *Instance.
//
// Without ctx the first issue is returned as *Error with its path. Passing an
// explicit nil context also fails fast but skips path tracking. A collecting
// context records every issue and New returns a nil error; inspect ctx.Err().
func (d *Descriptor) New(input any, ctx ...*Context) (*Instance, error) {
	c := contextArg(ctx)
	if c != nil {
		c.validating = false
	}
	inst, err := d.materialize(input, c)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// NewFromJSON decodes data preserving key order and materializes the result.
func (d *Descriptor) NewFromJSON(data []byte, ctx ...*Context) (*Instance, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return d.New(v, ctx...)
}

// NewFromYAML decodes a YAML document preserving key order and materializes it.
func (d *Descriptor) NewFromYAML(data []byte, ctx ...*Context) (*Instance, error) {
	v, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return d.New(v, ctx...)
}

func contextArg(ctx []*Context) *Context {
	if len(ctx) == 0 {
		return NewContext()
	}
	return ctx[0]
}

func (d *Descriptor) materialize(input any, ctx *Context) (*Instance, error) {
	self := newInstance(d)
	var src properties
	if input != nil && !IsUndefined(input) {
		if p, ok := asProperties(input); ok {
			src = p
		} else if _, err := ctx.report(Issue{Type: d.name, Value: input, Message: KindTypeMismatch}); err != nil {
			return nil, err
		}
	}
	if err := d.walk(self, src, ctx); err != nil {
		return nil, err
	}
	return self, nil
}

// sameType reports whether src is an instance of the type, in which case its
// hidden state is not treated as an assignment attempt.
func (d *Descriptor) sameType(src properties) bool {
	inst, ok := src.(*Instance)
	return ok && inst.desc.scope == d.scope && inst.desc.name == d.name
}
