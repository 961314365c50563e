package schematic_test

import (
	"math"
	"testing"

	"github.com/reoring/schematic"
)

func TestEncodeJSON_NonFiniteAndUndefined(t *testing.T) {
	v := schematic.NewObject(
		"nan", math.NaN(),
		"inf", math.Inf(1),
		"gone", schematic.Undefined,
		"arr", []any{schematic.Undefined, 1.5, nil},
		"typed", []string{"a", "b"},
		"map", map[string]any{"b": 2, "a": 1},
	)
	out, err := schematic.EncodeJSON(v, "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"nan":null,"inf":null,"arr":[null,1.5,null],"typed":["a","b"],"map":{"a":1,"b":2}}`
	if string(out) != want {
		t.Fatalf("unexpected JSON:\n got: %s\nwant: %s", out, want)
	}
}

func TestEncodeJSON_Indent(t *testing.T) {
	out, err := schematic.EncodeJSON(schematic.NewObject("b", 1, "a", []any{true}), "  ")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n  \"b\": 1,\n  \"a\": [\n    true\n  ]\n}"
	if string(out) != want {
		t.Fatalf("unexpected JSON:\n%s", out)
	}
}

func TestEncodeJSON_InstanceGraph(t *testing.T) {
	s := schematic.NewScope()
	if _, err := s.Register("Leaf", schematic.Fields("v", "number|undefined", "secret", schematic.Hidden)); err != nil {
		t.Fatal(err)
	}
	d, err := s.Register("Root", schematic.Fields("leaves", "Leaf[]"))
	if err != nil {
		t.Fatal(err)
	}
	inst, err := d.NewFromJSON([]byte(`{"leaves":[{"v":1},{}]}`))
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	out, err := schematic.EncodeJSON([]any{inst, "tail"}, "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != `[{"leaves":[{"v":1},{}]},"tail"]` {
		t.Fatalf("unexpected JSON %s", out)
	}
}

func TestEncodeJSON_NoHTMLEscaping(t *testing.T) {
	out, err := schematic.EncodeJSON(schematic.NewObject("k<", "a&b", "list", []any{"<tag>"}), "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != `{"k<":"a&b","list":["<tag>"]}` {
		t.Fatalf("unexpected JSON %s", out)
	}

	s := schematic.NewScope()
	d, err := s.Register("Link", schematic.Fields("href", "string"))
	if err != nil {
		t.Fatal(err)
	}
	inst, err := d.NewFromJSON([]byte(`{"href":"/a?b=1&c=<2>"}`))
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if out, _ := inst.MarshalJSON(); string(out) != `{"href":"/a?b=1&c=<2>"}` {
		t.Fatalf("unexpected JSON %s", out)
	}
}
