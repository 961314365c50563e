package catalog

import (
	"github.com/reoring/schematic"
)

// env is the expression environment of validators and detectors.
type env struct {
	Value any    `expr:"value"`
	Kind  string `expr:"kind"`
}

func newEnv(v any) env { return env{Value: exprValue(v), Kind: schematic.JSONKind(v)} }

// exprValue converts ordered values into maps and slices expr can index.
func exprValue(v any) any {
	switch t := v.(type) {
	case *schematic.Instance:
		return exprValue(t.ToObject())
	case *schematic.Object:
		m := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			item, _ := t.Get(k)
			m[k] = exprValue(item)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[k] = exprValue(item)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = exprValue(item)
		}
		return out
	case schematic.UndefinedValue:
		return nil
	}
	return v
}
