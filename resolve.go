package schematic

import (
	"github.com/reoring/schematic/internal/typeexpr"
)

// create resolves value against the alternatives in order; the first match
// wins. When materializing, composite values become new instances and arrays
// are rebuilt; when validating, existing values are checked in place.
func (s *Scope) create(types typeexpr.List, value any, ctx *Context) (any, error) {
	loading := !ctx.isValidating()
	for _, alt := range types {
		switch alt.Kind {
		case typeexpr.KindHidden, typeexpr.KindAny:
			return value, nil
		case typeexpr.KindString, typeexpr.KindNumber, typeexpr.KindBoolean, typeexpr.KindObject:
			if typeOf(value) == alt.Name {
				return value, nil
			}
		case typeexpr.KindNull:
			if value == nil {
				return value, nil
			}
		case typeexpr.KindUndefined:
			if IsUndefined(value) {
				return value, nil
			}
		case typeexpr.KindInteger:
			if isInteger(value) {
				return value, nil
			}
		case typeexpr.KindPattern:
			if str, ok := value.(string); ok && alt.Pattern.MatchString(str) {
				return value, nil
			}
		case typeexpr.KindArray:
			arr, ok := asArray(value)
			if !ok {
				if len(types) > 1 {
					continue
				}
				got, err := ctx.report(Issue{Type: alt.Name, Value: value, Message: KindTypeMismatch})
				if err != nil {
					return nil, err
				}
				if arr, ok = asArray(got); !ok {
					return got, nil
				}
				value = got
			}
			return s.createItems(alt.Items, value, arr, ctx, loading)
		case typeexpr.KindNamed:
			v, matched, err := s.createNamed(alt.Name, value, ctx, loading)
			if err != nil || matched {
				return v, err
			}
		}
	}
	return ctx.report(Issue{Type: types.String(), Value: value, Message: KindTypeMismatch})
}

func (s *Scope) createItems(items typeexpr.List, value any, arr []any, ctx *Context, loading bool) (any, error) {
	var out []any
	if loading {
		out = make([]any, len(arr))
	}
	for i, item := range arr {
		ctx.push(Index(i))
		v, err := s.create(items, item, ctx)
		ctx.pop()
		if err != nil {
			return nil, err
		}
		if loading {
			out[i] = v
		}
	}
	if loading {
		return out, nil
	}
	return value, nil
}

// createNamed resolves a registered type name. matched is false when the
// alternative does not apply and the next one should be tried.
func (s *Scope) createNamed(name string, value any, ctx *Context, loading bool) (any, bool, error) {
	d, ok := s.types[name]
	if !ok {
		v, err := ctx.report(Issue{Type: name, Value: value, Message: KindUnregisteredType})
		return v, true, err
	}
	if d.validator != nil {
		return value, d.validator(value), nil
	}
	if !isObject(value) {
		return nil, false, nil
	}
	if d.detector != nil {
		detected, ok := s.types[d.detector(value)]
		if !ok {
			return nil, false, nil
		}
		d = detected
	}
	if loading {
		inst, err := d.materialize(value, ctx)
		if err != nil {
			return nil, true, err
		}
		return inst, true, nil
	}
	inst, ok := value.(*Instance)
	if !ok {
		_, err := ctx.report(Issue{Type: d.name, Value: value, Message: KindTypeMismatch})
		return value, true, err
	}
	return value, true, inst.desc.walk(inst, inst, ctx)
}
