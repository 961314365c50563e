package schematic

import (
	"iter"

	"github.com/reoring/schematic/internal/typeexpr"
)

// propertyKeys yields the property names visited for src, in visiting order.
// Conflicting names are yielded too; the walk reports and skips them.
func (d *Descriptor) propertyKeys(src properties) iter.Seq[string] {
	return func(yield func(string) bool) {
		if src == nil {
			for _, k := range d.keys {
				if d.fields[k].hidden() && !yield(k) {
					return
				}
			}
			return
		}
		if d.keyField != nil {
			// the dictionary entry consumes every input key
			for _, k := range d.keys {
				if !yield(k) || k == d.keyField.Name {
					return
				}
			}
			return
		}
		if d.preserveOrder {
			seen := make(map[string]struct{}, len(d.keys))
			for _, k := range d.keys {
				if d.fields[k].hidden() {
					seen[k] = struct{}{}
					if !yield(k) {
						return
					}
				}
			}
			for _, k := range src.ownKeys() {
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				if !yield(k) {
					return
				}
			}
			for _, k := range d.keys {
				if _, ok := seen[k]; ok {
					continue
				}
				if !yield(k) {
					return
				}
			}
			return
		}
		for _, k := range d.keys {
			if !yield(k) {
				return
			}
		}
		for _, k := range src.ownKeys() {
			if _, declared := d.fields[k]; declared {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

// walk visits every property of src against the schema. When materializing,
// results are stored on self; when validating, self is src and only checked.
func (d *Descriptor) walk(self *Instance, src properties, ctx *Context) error {
	loading := !ctx.isValidating()
	for key := range d.propertyKeys(src) {
		if d.keyField != nil && key == d.keyField.Name {
			return d.dictionary(self, src, ctx, loading)
		}
		ctx.push(Key(key))
		err := d.property(self, src, key, ctx, loading)
		ctx.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Descriptor) field(key string) (Field, bool) {
	if f, ok := d.fields[key]; ok {
		return f, true
	}
	if f, ok := d.fields[AdditionalKey]; ok {
		return f, true
	}
	return Field{Name: key, Type: "undefined"}, false
}

func (d *Descriptor) property(self *Instance, src properties, key string, ctx *Context, loading bool) error {
	raw, has := any(Undefined), false
	if src != nil {
		if v, ok := src.lookup(key); ok {
			raw, has = v, true
		}
	}
	f, declared := d.field(key)
	if _, bad := d.conflicting[key]; bad {
		typ := "undefined"
		if declared {
			typ = f.expr()
		}
		_, err := ctx.report(Issue{Type: typ, Key: &key, Value: raw, Message: KindConflictingKey})
		return err
	}
	if f.hidden() {
		if loading {
			self.hide(key)
		}
		if loading && has && !ctx.allowHidden() {
			if d.sameType(src) {
				return nil
			}
			_, err := ctx.report(Issue{Type: key, Value: raw, Message: KindHiddenPropertyAssignment})
			return err
		}
	}
	v, err := d.scope.create(d.scope.parse(f), raw, ctx)
	if err != nil {
		return err
	}
	if loading {
		self.put(key, v)
	}
	return nil
}

// dictionary checks the input keys not declared before the entry against the
// key type, then resolves their values with the entry's expression.
func (d *Descriptor) dictionary(self *Instance, src properties, ctx *Context, loading bool) error {
	kf := *d.keyField
	keyType, ok := d.scope.types[kf.Name]
	if !ok || keyType.validator == nil {
		ctx.push(Key(kf.Name))
		defer ctx.pop()
		_, err := ctx.report(Issue{Type: kf.Name, Value: Undefined, Message: KindInvalidKeyType})
		return err
	}
	types := d.scope.parse(kf)
	visited := make(map[string]struct{})
	for _, k := range d.keys {
		if k == kf.Name {
			break
		}
		visited[k] = struct{}{}
	}
	for _, key := range src.ownKeys() {
		if _, ok := visited[key]; ok {
			continue
		}
		ctx.push(Key(key))
		err := d.entry(self, src, key, keyType, types, ctx, loading)
		ctx.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Descriptor) entry(self *Instance, src properties, key string, keyType *Descriptor, types typeexpr.List, ctx *Context, loading bool) error {
	original, _ := src.lookup(key)
	if _, bad := d.conflicting[key]; bad {
		_, err := ctx.report(Issue{Type: keyType.name, Key: &key, Value: original, Message: KindConflictingKey})
		return err
	}
	if !keyType.validator(key) {
		got, err := ctx.report(Issue{Type: keyType.name, Key: &key, Value: original, Message: KindKeyMismatch})
		if err != nil {
			return err
		}
		if !ctx.recovered(original, got) {
			if loading {
				self.put(key, got)
			}
			return nil
		}
	}
	v, err := d.scope.create(types, original, ctx)
	if err != nil {
		return err
	}
	if loading {
		self.put(key, v)
	}
	return nil
}
