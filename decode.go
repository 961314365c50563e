package schematic

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/schematic/internal/engine"
	gojsonsrc "github.com/reoring/schematic/source/gojson"
)

// DuplicateKeyPolicy selects how repeated object keys are handled while decoding.
type DuplicateKeyPolicy int

const (
	// LastWins keeps the last value at the key's first position, as JSON.parse does.
	LastWins DuplicateKeyPolicy = iota
	// RejectDuplicates fails decoding with a DecodeError.
	RejectDuplicates
)

// NumberMode selects the Go representation of decoded JSON numbers.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // float64 (default)
	NumberJSONNumber                   // json.Number, exact text
)

// DecodeOpt configures DecodeJSON and DecodeReader. When several are given the
// last one wins.
type DecodeOpt struct {
	// MaxDepth limits object/array nesting. 0 means unlimited. Materialization
	// itself does not bound recursion, so untrusted input should set this.
	MaxDepth       int
	OnDuplicateKey DuplicateKeyPolicy
	NumberMode     NumberMode
}

// Decode error codes.
const (
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeMaxDepth     = eng.CodeMaxDepth
	CodeSyntax       = "syntax"
)

// DecodeError reports input that could not be turned into a value.
type DecodeError struct {
	Code    string
	Path    string // JSON Pointer; empty when unknown
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Message
	}
	return fmt.Sprintf("decode: %s at %s", e.Message, e.Path)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeJSON parses data into ordered values: objects become *Object, arrays
// []any, and numbers follow NumberMode.
func DecodeJSON(data []byte, opts ...DecodeOpt) (any, error) {
	return DecodeReader(bytes.NewReader(data), opts...)
}

// DecodeReader is the streaming form of DecodeJSON.
func DecodeReader(r io.Reader, opts ...DecodeOpt) (any, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	src := eng.WrapWithEnforcement(gojsonsrc.NewReader(r), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
	})
	dec := eng.Decoder{
		NewObject: func() eng.ObjectSink { return NewObject() },
		Number:    eng.Float64,
	}
	if opt.NumberMode == NumberJSONNumber {
		dec.Number = eng.JSONNumber
	}
	v, err := dec.Decode(src)
	if err != nil {
		return nil, toDecodeError(err)
	}
	return v, nil
}

func toEngineDup(p DuplicateKeyPolicy) eng.DuplicateStrictness {
	if p == RejectDuplicates {
		return eng.DupError
	}
	return eng.DupIgnore
}

func toDecodeError(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &DecodeError{Code: ie.Code, Path: ie.Path, Message: ie.Message, Err: err}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &DecodeError{Code: CodeSyntax, Message: err.Error(), Err: err}
}

// DecodeYAML parses a single YAML document into ordered values. Mapping keys
// keep document order; scalars decode as yaml.v3 resolves them.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Code: CodeSyntax, Message: err.Error(), Err: err}
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return FromYAMLNode(&doc)
}

// FromYAMLNode converts a yaml.Node tree into ordered values.
func FromYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &DecodeError{Code: CodeSyntax, Message: fmt.Sprintf("line %d: %v", n.Line, err), Err: err}
		}
		return v, nil
	}
}
