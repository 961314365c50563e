package schematic_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/schematic"
)

func TestDecodeJSON_KeepsKeyOrder(t *testing.T) {
	v, err := schematic.DecodeJSON([]byte(`{"z":1,"a":{"y":[1,"two",null,true],"b":false}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := v.(*schematic.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", v)
	}
	if got := obj.Keys(); !reflect.DeepEqual(got, []string{"z", "a"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	inner, _ := obj.Get("a")
	y, _ := inner.(*schematic.Object).Get("y")
	if !reflect.DeepEqual(y, []any{1.0, "two", nil, true}) {
		t.Fatalf("unexpected array %#v", y)
	}
}

func TestDecodeJSON_DuplicateKey_LastWins(t *testing.T) {
	v, err := schematic.DecodeJSON([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj := v.(*schematic.Object)
	if got := obj.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	if a, _ := obj.Get("a"); a != 3.0 {
		t.Fatalf("expected last value, got %v", a)
	}
}

func TestDecodeJSON_DuplicateKey_Error(t *testing.T) {
	opt := schematic.DecodeOpt{OnDuplicateKey: schematic.RejectDuplicates}
	_, err := schematic.DecodeJSON([]byte(`{"a":1,"a":2}`), opt)
	var de *schematic.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got: %v", err)
	}
	if de.Code != schematic.CodeDuplicateKey || de.Path != "/a" {
		t.Fatalf("expected duplicate_key at /a, got %s at %s", de.Code, de.Path)
	}
}

func TestDecodeJSON_DuplicateKey_NestedPath(t *testing.T) {
	opt := schematic.DecodeOpt{OnDuplicateKey: schematic.RejectDuplicates}
	_, err := schematic.DecodeJSON([]byte(`[{"a":1,"a":2}]`), opt)
	var de *schematic.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got: %v", err)
	}
	if de.Path != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", de.Path)
	}
}

func TestDecodeJSON_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	data := []byte(`{"a":{"b":{"c":1}}}`)
	if _, err := schematic.DecodeJSON(data, schematic.DecodeOpt{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should be accepted: %v", err)
	}
	_, err := schematic.DecodeJSON(data, schematic.DecodeOpt{MaxDepth: 2})
	var de *schematic.DecodeError
	if !errors.As(err, &de) || de.Code != schematic.CodeMaxDepth {
		t.Fatalf("expected max_depth, got: %v", err)
	}
	if de.Path != "/a/b" {
		t.Fatalf("expected path=/a/b, got: %s", de.Path)
	}
}

func TestDecodeJSON_SyntaxErrors(t *testing.T) {
	for _, in := range []string{``, `{"a":`, `{"a":1} {}`} {
		_, err := schematic.DecodeJSON([]byte(in))
		var de *schematic.DecodeError
		if !errors.As(err, &de) || de.Code != schematic.CodeSyntax {
			t.Fatalf("%q: expected syntax error, got %v", in, err)
		}
	}
}

func TestDecodeJSON_NumberMode(t *testing.T) {
	v, err := schematic.DecodeJSON([]byte(`{"n":12345678901234567890}`), schematic.DecodeOpt{NumberMode: schematic.NumberJSONNumber})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, _ := v.(*schematic.Object).Get("n")
	if n != json.Number("12345678901234567890") {
		t.Fatalf("expected json.Number, got %#v", n)
	}

	s := schematic.NewScope()
	d, _ := s.Register("N", schematic.Fields("n", "integer"))
	if _, err := d.New(v); err != nil {
		t.Fatalf("json.Number should satisfy integer: %v", err)
	}
}

func TestDecodeYAML_KeepsKeyOrder(t *testing.T) {
	doc := "kind: circle\nradius: 2\ntags:\n  - a\n  - b\nmeta:\n  z: true\n  a: ~\n"
	v, err := schematic.DecodeYAML([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj := v.(*schematic.Object)
	if got := obj.Keys(); !reflect.DeepEqual(got, []string{"kind", "radius", "tags", "meta"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	meta, _ := obj.Get("meta")
	if got := meta.(*schematic.Object).Keys(); !reflect.DeepEqual(got, []string{"z", "a"}) {
		t.Fatalf("unexpected nested keys %v", got)
	}

	s := schematic.NewScope()
	d, _ := s.Register("Circle", schematic.Fields("kind", "string", "radius", "integer", "tags", "string[]", "meta", "object"))
	inst, err := d.NewFromYAML([]byte(doc))
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	out, _ := inst.MarshalJSON()
	if string(out) != `{"kind":"circle","radius":2,"tags":["a","b"],"meta":{"z":true,"a":null}}` {
		t.Fatalf("unexpected JSON %s", out)
	}
}

func TestDecodeYAML_Invalid(t *testing.T) {
	_, err := schematic.DecodeYAML([]byte("a: [1, 2"))
	if err == nil || !strings.HasPrefix(err.Error(), "decode: ") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestNewFromJSON_DecodeErrorIsNotAnIssue(t *testing.T) {
	s := schematic.NewScope()
	d, _ := s.Register("T", schematic.Fields("a", "*"))
	_, err := d.NewFromJSON([]byte(`{`))
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := schematic.AsIssues(err); ok {
		t.Fatalf("decode failures are not schema issues: %v", err)
	}
}
