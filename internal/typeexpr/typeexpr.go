// Package typeexpr parses schema type expressions such as "string|undefined",
// "ValueObject[]" or "(Label|integer[])|null|Conditions" into alternative lists.
//
// Parsing is purely textual and context free: the same text always yields the same
// List, so callers may memoize results by expression text.
package typeexpr

import (
	"regexp"
	"strings"
)

// Kind classifies a single alternative.
type Kind int

const (
	KindNamed  Kind = iota // registered type name, resolved at match time
	KindAny                // "*"
	KindHidden             // "-"
	KindString
	KindNumber
	KindBoolean
	KindObject
	KindNull
	KindUndefined
	KindInteger
	KindArray   // array marker wrapping Items
	KindPattern // inline regular expression
)

// Tag literals recognized by the parser.
const (
	TagAny       = "*"
	TagHidden    = "-"
	TagString    = "string"
	TagNumber    = "number"
	TagBoolean   = "boolean"
	TagObject    = "object"
	TagNull      = "null"
	TagUndefined = "undefined"
	TagInteger   = "integer"
)

var tags = map[string]Kind{
	TagAny:       KindAny,
	TagHidden:    KindHidden,
	TagString:    KindString,
	TagNumber:    KindNumber,
	TagBoolean:   KindBoolean,
	TagObject:    KindObject,
	TagNull:      KindNull,
	TagUndefined: KindUndefined,
	TagInteger:   KindInteger,
}

// Alt is one parsed branch of a type expression.
type Alt struct {
	Kind    Kind
	Name    string         // tag text or registered type name
	Items   List           // KindArray only
	Pattern *regexp.Regexp // KindPattern only
}

// List is an ordered set of alternatives; the first matching one wins.
type List []Alt

// Parse converts a textual expression into its alternative list.
func Parse(expr string) List {
	expr = strings.TrimSpace(expr)
	if inner, ok := strings.CutSuffix(expr, "[]"); ok {
		return List{{Kind: KindArray, Name: "Array", Items: parseUnion(inner)}}
	}
	return parseUnion(expr)
}

// FromPattern wraps a regular expression as a singleton list.
func FromPattern(re *regexp.Regexp) List {
	return List{{Kind: KindPattern, Name: "/" + re.String() + "/", Pattern: re}}
}

// PatternKey is the memoization key used for an inline pattern.
func PatternKey(re *regexp.Regexp) string { return "/" + re.String() + "/" }

func parseUnion(s string) List {
	var out List
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if inner, ok := unwrapGroup(part); ok {
			out = append(out, Parse(inner)...)
			continue
		}
		if strings.HasSuffix(part, "[]") && part != "[]" {
			out = append(out, Parse(part)...)
			continue
		}
		if k, ok := tags[part]; ok {
			out = append(out, Alt{Kind: k, Name: part})
			continue
		}
		out = append(out, Alt{Kind: KindNamed, Name: part})
	}
	return out
}

// splitTopLevel splits on '|' outside of parentheses. Unbalanced input is split
// naively so that the offending fragment surfaces as an unregistered name.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return strings.Split(s, "|")
	}
	return append(parts, s[start:])
}

// unwrapGroup reports whether s is a single parenthesized group "( ... )".
func unwrapGroup(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", false
			}
		}
	}
	return s[1 : len(s)-1], depth == 0
}

// String renders the list back into expression form.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.String()
	}
	return strings.Join(parts, "|")
}

func (a Alt) String() string {
	if a.Kind == KindArray {
		if len(a.Items) == 1 && a.Items[0].Kind != KindArray {
			return a.Items.String() + "[]"
		}
		return "(" + a.Items.String() + "[])"
	}
	return a.Name
}
