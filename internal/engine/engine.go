package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ObjectSink receives object members in input order. Setting an existing key
// replaces its value and keeps its original position.
type ObjectSink interface {
	Set(key string, v any)
}

// NumberConv converts the textual form of a JSON number.
type NumberConv func(string) (any, error)

// Float64 decodes numbers as float64, the default representation.
func Float64(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// JSONNumber keeps numbers as json.Number text.
func JSONNumber(s string) (any, error) { return json.Number(s), nil }

// Decoder builds ordered values from a TokenSource.
type Decoder struct {
	NewObject func() ObjectSink
	Number    NumberConv
}

// Decode reads exactly one value from src.
func (d Decoder) Decode(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	v, err := d.decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err == nil {
			return nil, errTrailingData
		}
		return nil, err
	}
	return v, nil
}

type syntaxError string

func (e syntaxError) Error() string { return string(e) }

const errTrailingData = syntaxError("unexpected data after top-level value")

func (d Decoder) decodeValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.decodeObject(src)
	case KindBeginArray:
		return d.decodeArray(src)
	case KindString:
		return tok.String, nil
	case KindNumber:
		conv := d.Number
		if conv == nil {
			conv = Float64
		}
		return conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (d Decoder) decodeObject(src TokenSource) (any, error) {
	m := d.NewObject()
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		m.Set(tok.String, v)
	}
}

func (d Decoder) decodeArray(src TokenSource) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
