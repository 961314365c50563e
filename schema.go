package schematic

import (
	"regexp"

	"github.com/reoring/schematic/internal/typeexpr"
)

// Reserved schema keys and markers.
const (
	// AdditionalKey declares the expression applied to undeclared input keys.
	AdditionalKey = "+"
	// Hidden marks a property that is never enumerated nor serialized.
	Hidden = typeexpr.TagHidden
	// Any accepts every value.
	Any = typeexpr.TagAny
)

// Field maps a property name to a type expression. Pattern, when set, replaces
// Type with an inline regular expression that string values must match.
type Field struct {
	Name    string
	Type    string
	Pattern *regexp.Regexp
}

func (f Field) hidden() bool { return f.Pattern == nil && f.Type == Hidden }

func (f Field) expr() string {
	if f.Pattern != nil {
		return typeexpr.PatternKey(f.Pattern)
	}
	return f.Type
}

// Schema declares a type. A schema with Regex or Validator describes a leaf
// type whose values are checked by predicate; Detector makes the type a
// polymorphic dispatcher that names the concrete type for a raw object.
type Schema struct {
	Fields    []Field
	Regex     *regexp.Regexp
	Validator func(v any) bool
	Detector  func(v any) string
}

// Props builds fields from alternating name/expression pairs.
func Props(pairs ...string) []Field {
	if len(pairs)%2 != 0 {
		panic("schematic: Props requires name/expression pairs")
	}
	out := make([]Field, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Field{Name: pairs[i], Type: pairs[i+1]})
	}
	return out
}

// Fields is shorthand for a schema made only of Props(pairs...).
func Fields(pairs ...string) Schema { return Schema{Fields: Props(pairs...)} }

// freeze copies the schema; a repeated name keeps its first position and its
// last expression.
func (s Schema) freeze() Schema {
	out := s
	out.Fields = make([]Field, 0, len(s.Fields))
	pos := make(map[string]int, len(s.Fields))
	for _, f := range s.Fields {
		if i, ok := pos[f.Name]; ok {
			out.Fields[i] = f
			continue
		}
		pos[f.Name] = len(out.Fields)
		out.Fields = append(out.Fields, f)
	}
	return out
}
