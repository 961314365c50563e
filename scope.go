package schematic

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/reoring/schematic/internal/typeexpr"
)

// ScopeOpt configures a Scope.
type ScopeOpt struct {
	// NormalizePropertyOrder makes normalized (schema) order the default for
	// types registered in the scope. The zero value preserves input order.
	NormalizePropertyOrder bool
	// ValidateMethodName and KeysMethodName are reserved as conflicting keys;
	// they default to "validate" and "keys".
	ValidateMethodName string
	KeysMethodName     string
	// Methods are names every type of the scope reserves, as domain methods
	// shared by all instances would.
	Methods []string
	// Logger receives registration events. Nil means no logging.
	Logger *zerolog.Logger
}

// baseSurface lists the members of a plain object that a payload must never
// shadow, plus the traversal entry point.
var baseSurface = []string{
	"constructor",
	"__proto__",
	"__defineGetter__",
	"__defineSetter__",
	"__lookupGetter__",
	"__lookupSetter__",
	"hasOwnProperty",
	"isPrototypeOf",
	"propertyIsEnumerable",
	"toString",
	"toLocaleString",
	"valueOf",
	"iterateProperties",
}

// Scope is an isolated type registry together with its parsed-expression cache.
// Registration is not safe for use concurrently with traversals.
type Scope struct {
	preserveOrder bool
	reserved      []string
	types         map[string]*Descriptor
	order         []string
	parsed        map[string]typeexpr.List
	log           zerolog.Logger
}

// NewScope creates an empty registry. When several options are given the last
// one wins.
func NewScope(opts ...ScopeOpt) *Scope {
	var opt ScopeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.ValidateMethodName == "" {
		opt.ValidateMethodName = "validate"
	}
	if opt.KeysMethodName == "" {
		opt.KeysMethodName = "keys"
	}
	log := zerolog.Nop()
	if opt.Logger != nil {
		log = *opt.Logger
	}
	reserved := slices.Clone(baseSurface)
	reserved = append(reserved, opt.KeysMethodName, opt.ValidateMethodName)
	reserved = append(reserved, opt.Methods...)
	return &Scope{
		preserveOrder: !opt.NormalizePropertyOrder,
		reserved:      reserved,
		types:         map[string]*Descriptor{},
		parsed:        map[string]typeexpr.List{},
		log:           log,
	}
}

// PreservePropertyOrder reports the scope-wide default.
func (s *Scope) PreservePropertyOrder() bool { return s.preserveOrder }

// ReservedKeys returns the default conflicting keys of the scope.
func (s *Scope) ReservedKeys() []string { return slices.Clone(s.reserved) }

// Lookup returns the descriptor registered under name.
func (s *Scope) Lookup(name string) (*Descriptor, bool) {
	d, ok := s.types[name]
	return d, ok
}

// Names returns the registered type names in first-registration order.
func (s *Scope) Names() []string { return slices.Clone(s.order) }

// RegisterOption customizes a single registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	preserve    *bool
	conflicting []string
	override    bool
	methods     []string
	ctx         *Context
}

// WithPreservePropertyOrder forces the order policy of the type, overriding
// the scope default and the shared-key heuristic.
func WithPreservePropertyOrder(preserve bool) RegisterOption {
	return func(c *registerConfig) { c.preserve = &preserve }
}

// WithConflictingKeys replaces the computed conflicting-key set.
func WithConflictingKeys(keys ...string) RegisterOption {
	return func(c *registerConfig) {
		c.conflicting = keys
		c.override = true
	}
}

// WithMethods reserves the names of methods the application defines for the type.
func WithMethods(names ...string) RegisterOption {
	return func(c *registerConfig) { c.methods = append(c.methods, names...) }
}

// WithRegisterContext routes registration issues through ctx, so a collecting
// context records conflicting schema keys instead of returning an error.
func WithRegisterContext(ctx *Context) RegisterOption {
	return func(c *registerConfig) { c.ctx = ctx }
}

// Register freezes schema under name. Conflicting schema keys are reported
// (returned as *Error in fail-fast mode) but the type is registered anyway. A
// later registration under the same name replaces the earlier one.
func (s *Scope) Register(name string, schema Schema, opts ...RegisterOption) (*Descriptor, error) {
	var cfg registerConfig
	for _, o := range opts {
		o(&cfg)
	}
	schema = schema.freeze()
	d := &Descriptor{
		scope:     s,
		name:      name,
		schema:    schema,
		fields:    make(map[string]Field, len(schema.Fields)),
		validator: schema.Validator,
		detector:  schema.Detector,
	}
	for _, f := range schema.Fields {
		d.fields[f.Name] = f
		if f.Name != AdditionalKey {
			d.keys = append(d.keys, f.Name)
		}
	}
	if schema.Regex != nil {
		re := schema.Regex
		d.validator = func(v any) bool {
			str, ok := v.(string)
			return ok && re.MatchString(str)
		}
	}

	reserved := cfg.conflicting
	if !cfg.override {
		reserved = append(slices.Clone(s.reserved), cfg.methods...)
	}
	d.conflicting = make(map[string]struct{}, len(reserved))
	for _, k := range reserved {
		d.conflicting[k] = struct{}{}
	}

	for _, k := range d.keys {
		if _, ok := s.types[k]; ok {
			f := d.fields[k]
			d.keyField = &f
			break
		}
	}

	d.preserveOrder = s.preserveOrder
	if cfg.preserve != nil {
		d.preserveOrder = *cfg.preserve
	} else if d.preserveOrder {
		if other, key, ok := s.sharedKey(d); ok {
			d.preserveOrder = false
			s.log.Warn().Str("type", name).Str("other", other).Str("key", key).
				Msg("property order normalized: key shared with another type")
		} else if len(d.keys) > 0 && s.types[d.keys[0]] != nil {
			d.preserveOrder = false
		}
	}

	var err error
	ctx := cfg.ctx
	if ctx == nil {
		ctx = NewContext()
	}
	for _, k := range d.keys {
		if _, ok := d.conflicting[k]; !ok {
			continue
		}
		s.log.Warn().Str("type", name).Str("key", k).Msg("schema key conflicts with reserved name")
		key := k
		if _, rerr := ctx.report(Issue{Type: d.fields[k].expr(), Key: &key, Value: Undefined, Message: KindConflictingKey}); rerr != nil && err == nil {
			err = rerr
		}
	}

	if _, ok := s.types[name]; !ok {
		s.order = append(s.order, name)
	}
	s.types[name] = d
	ev := s.log.Debug().Str("type", name).Strs("keys", d.keys).Bool("preservePropertyOrder", d.preserveOrder)
	if d.keyField != nil {
		ev = ev.Str("keyType", d.keyField.Name)
	}
	ev.Bool("leaf", d.validator != nil).Msg("registered type")
	return d, err
}

// sharedKey finds another registered type whose schema declares one of d's keys.
func (s *Scope) sharedKey(d *Descriptor) (string, string, bool) {
	for _, other := range s.order {
		od := s.types[other]
		if other == d.name || od == nil {
			continue
		}
		for _, k := range d.keys {
			if _, ok := od.fields[k]; ok && k != AdditionalKey {
				return other, k, true
			}
		}
	}
	return "", "", false
}

// parse returns the memoized alternatives for a field's expression.
func (s *Scope) parse(f Field) typeexpr.List {
	key := f.expr()
	if l, ok := s.parsed[key]; ok {
		return l
	}
	var l typeexpr.List
	if f.Pattern != nil {
		l = typeexpr.FromPattern(f.Pattern)
	} else {
		l = typeexpr.Parse(f.Type)
	}
	s.parsed[key] = l
	return l
}

// ParsedExpressions returns a copy of the memoized expression cache keys.
func (s *Scope) ParsedExpressions() []string {
	return slices.Sorted(maps.Keys(s.parsed))
}
