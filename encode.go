package schematic

import (
	"bytes"
	"math"

	json "github.com/goccy/go-json"
)

// MarshalJSON emits the enumerable properties in their current order. Hidden
// and Undefined properties are omitted.
func (i *Instance) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	if err := encodeProps(b, i); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// MarshalJSON emits the keys in insertion order, omitting Undefined values.
func (o *Object) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	if err := encodeProps(b, o); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// EncodeJSON serializes an instance graph or ordered value. A non-empty indent
// pretty-prints the output.
func EncodeJSON(v any, indent string) ([]byte, error) {
	b := &bytes.Buffer{}
	if err := encodeValue(b, v); err != nil {
		return nil, err
	}
	if indent == "" {
		return b.Bytes(), nil
	}
	out := &bytes.Buffer{}
	if err := json.Indent(out, b.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func encodeProps(b *bytes.Buffer, p properties) error {
	b.WriteByte('{')
	first := true
	for _, k := range p.ownKeys() {
		v, _ := p.lookup(k)
		if IsUndefined(v) {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		kb, err := json.MarshalNoEscape(k)
		if err != nil {
			return err
		}
		b.Write(kb)
		b.WriteByte(':')
		if err := encodeValue(b, v); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func encodeValue(b *bytes.Buffer, v any) error {
	if p, ok := asProperties(v); ok {
		return encodeProps(b, p)
	}
	switch t := v.(type) {
	case nil, UndefinedValue:
		b.WriteString("null")
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			b.WriteString("null")
			return nil
		}
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			b.WriteString("null")
			return nil
		}
	case []byte:
	default:
		if arr, ok := asArray(v); ok {
			b.WriteByte('[')
			for n, item := range arr {
				if n > 0 {
					b.WriteByte(',')
				}
				if err := encodeValue(b, item); err != nil {
					return err
				}
			}
			b.WriteByte(']')
			return nil
		}
	}
	out, err := json.MarshalNoEscape(v)
	if err != nil {
		return err
	}
	b.Write(out)
	return nil
}
