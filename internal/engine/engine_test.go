package engine

import (
	"errors"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

type sink struct {
	keys []string
	vals map[string]any
}

func (o *sink) Set(k string, v any) {
	if o.vals == nil {
		o.vals = map[string]any{}
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// {"b":[1,{"a":null}],"b":true}
func tokens() []Token {
	return []Token{
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "b"},
		{Kind: KindBeginArray},
		{Kind: KindNumber, Number: "1"},
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "a"},
		{Kind: KindNull},
		{Kind: KindEndObject},
		{Kind: KindEndArray},
		{Kind: KindKey, String: "b"},
		{Kind: KindBool, Bool: true},
		{Kind: KindEndObject},
	}
}

func TestDecoder_LastWins(t *testing.T) {
	d := Decoder{NewObject: func() ObjectSink { return &sink{} }}
	v, err := d.Decode(&sliceSource{toks: tokens()})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	o := v.(*sink)
	if len(o.keys) != 1 || o.vals["b"] != true {
		t.Fatalf("unexpected object %+v", o)
	}
}

func TestEnforce_DuplicateAfterNestedContainer(t *testing.T) {
	src := WrapWithEnforcement(&sliceSource{toks: tokens()}, EnforceOptions{OnDuplicate: DupError})
	d := Decoder{NewObject: func() ObjectSink { return &sink{} }}
	_, err := d.Decode(src)
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeDuplicateKey || ie.Path != "/b" {
		t.Fatalf("expected duplicate_key at /b, got %v", err)
	}
}

func TestEnforce_MaxDepthPath(t *testing.T) {
	src := WrapWithEnforcement(&sliceSource{toks: tokens()}, EnforceOptions{MaxDepth: 2})
	d := Decoder{NewObject: func() ObjectSink { return &sink{} }}
	_, err := d.Decode(src)
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeMaxDepth || ie.Path != "/b/1" {
		t.Fatalf("expected max_depth at /b/1, got %v", err)
	}
}

func TestDecoder_TrailingData(t *testing.T) {
	toks := append(tokens(), Token{Kind: KindNull})
	d := Decoder{NewObject: func() ObjectSink { return &sink{} }}
	if _, err := d.Decode(&sliceSource{toks: toks}); err != errTrailingData {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}

func TestEscapePointerToken(t *testing.T) {
	if got := EscapePointerToken("a/b~c"); got != "a~1b~0c" {
		t.Fatalf("unexpected %q", got)
	}
}
