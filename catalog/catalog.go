// Package catalog loads a universe of schematic types from a YAML document.
//
//	preservePropertyOrder: true
//	formats: true            # registers UUID, DateTime and Date
//	types:
//	  - name: Digits
//	    regex: '^[0-9]+$'
//	  - name: Even
//	    validator: 'kind == "number" && int(value) == value && int(value) % 2 == 0'
//	  - name: Shape
//	    detector: 'value.kind == "circle" ? "Circle" : "Square"'
//	  - name: Circle
//	    schema:
//	      kind: string
//	      radius: number
//	      code: /^[A-Z]{3}$/
//
// Schema mappings keep document order. A value written as /.../ is an inline
// regular expression. Validator and detector expressions are expr-lang programs
// evaluated with value (the candidate, objects as maps) and kind (its JSON kind).
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schematic"
	"github.com/reoring/schematic/formats"
)

// File is the document layout.
type File struct {
	PreservePropertyOrder *bool      `yaml:"preservePropertyOrder"`
	ValidateMethodName    string     `yaml:"validateMethodName"`
	KeysMethodName        string     `yaml:"keysMethodName"`
	Methods               []string   `yaml:"methods"`
	Formats               bool       `yaml:"formats"`
	Types                 []TypeSpec `yaml:"types"`
}

// TypeSpec declares one type.
type TypeSpec struct {
	Name                  string    `yaml:"name"`
	Schema                yaml.Node `yaml:"schema"`
	Regex                 string    `yaml:"regex"`
	Validator             string    `yaml:"validator"`
	Detector              string    `yaml:"detector"`
	Methods               []string  `yaml:"methods"`
	ConflictingKeys       []string  `yaml:"conflictingKeys"`
	PreservePropertyOrder *bool     `yaml:"preservePropertyOrder"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &f, nil
}

// ScopeOpt derives scope options from the document header; base supplies the
// fields the document does not set (such as Logger).
func (f *File) ScopeOpt(base schematic.ScopeOpt) schematic.ScopeOpt {
	opt := base
	if f.PreservePropertyOrder != nil {
		opt.NormalizePropertyOrder = !*f.PreservePropertyOrder
	}
	if f.ValidateMethodName != "" {
		opt.ValidateMethodName = f.ValidateMethodName
	}
	if f.KeysMethodName != "" {
		opt.KeysMethodName = f.KeysMethodName
	}
	opt.Methods = append(opt.Methods, f.Methods...)
	return opt
}

// Open parses data and registers its types into a new scope.
func Open(data []byte, base schematic.ScopeOpt, opts ...schematic.RegisterOption) (*schematic.Scope, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	scope := schematic.NewScope(f.ScopeOpt(base))
	if _, err := f.Register(scope, opts...); err != nil {
		return scope, err
	}
	return scope, nil
}

// Load parses data and registers its types into scope. Header settings other
// than formats are ignored; use Open to honor them.
func Load(scope *schematic.Scope, data []byte, opts ...schematic.RegisterOption) ([]*schematic.Descriptor, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return f.Register(scope, opts...)
}

// Register registers every declared type in document order. It stops at the
// first error; the failing type itself is registered when the error is a
// conflicting schema key.
func (f *File) Register(scope *schematic.Scope, opts ...schematic.RegisterOption) ([]*schematic.Descriptor, error) {
	if f.Formats {
		if err := formats.Register(scope); err != nil {
			return nil, fmt.Errorf("catalog: formats: %w", err)
		}
	}
	out := make([]*schematic.Descriptor, 0, len(f.Types))
	for i := range f.Types {
		ts := &f.Types[i]
		if ts.Name == "" {
			return out, fmt.Errorf("catalog: types[%d]: missing name", i)
		}
		schema, err := ts.build()
		if err != nil {
			return out, fmt.Errorf("catalog: type %q: %w", ts.Name, err)
		}
		ropts := append([]schematic.RegisterOption{}, opts...)
		if ts.PreservePropertyOrder != nil {
			ropts = append(ropts, schematic.WithPreservePropertyOrder(*ts.PreservePropertyOrder))
		}
		if len(ts.ConflictingKeys) > 0 {
			ropts = append(ropts, schematic.WithConflictingKeys(ts.ConflictingKeys...))
		}
		if len(ts.Methods) > 0 {
			ropts = append(ropts, schematic.WithMethods(ts.Methods...))
		}
		d, err := scope.Register(ts.Name, schema, ropts...)
		if d != nil {
			out = append(out, d)
		}
		if err != nil {
			return out, fmt.Errorf("catalog: type %q: %w", ts.Name, err)
		}
	}
	return out, nil
}

func (ts *TypeSpec) build() (schematic.Schema, error) {
	var s schematic.Schema
	fields, err := schemaFields(&ts.Schema)
	if err != nil {
		return s, err
	}
	s.Fields = fields
	if ts.Regex != "" {
		re, err := regexp.Compile(ts.Regex)
		if err != nil {
			return s, fmt.Errorf("regex: %w", err)
		}
		s.Regex = re
	}
	if ts.Validator != "" {
		prg, err := expr.Compile(ts.Validator, expr.Env(env{}), expr.AsBool())
		if err != nil {
			return s, fmt.Errorf("validator: %w", err)
		}
		s.Validator = func(v any) bool {
			out, err := expr.Run(prg, newEnv(v))
			b, _ := out.(bool)
			return err == nil && b
		}
	}
	if ts.Detector != "" {
		prg, err := expr.Compile(ts.Detector, expr.Env(env{}))
		if err != nil {
			return s, fmt.Errorf("detector: %w", err)
		}
		s.Detector = detector(prg)
	}
	return s, nil
}

func detector(prg *vm.Program) func(any) string {
	return func(v any) string {
		out, err := expr.Run(prg, newEnv(v))
		if err != nil {
			return ""
		}
		name, _ := out.(string)
		return name
	}
}

func schemaFields(n *yaml.Node) ([]schematic.Field, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: expected a mapping at line %d", n.Line)
	}
	fields := make([]schematic.Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("schema: %q: expected a type expression at line %d", k.Value, v.Line)
		}
		f := schematic.Field{Name: k.Value, Type: v.Value}
		if len(v.Value) > 1 && strings.HasPrefix(v.Value, "/") && strings.HasSuffix(v.Value, "/") {
			re, err := regexp.Compile(v.Value[1 : len(v.Value)-1])
			if err != nil {
				return nil, fmt.Errorf("schema: %q: %w", k.Value, err)
			}
			f = schematic.Field{Name: k.Value, Pattern: re}
		}
		fields = append(fields, f)
	}
	return fields, nil
}
