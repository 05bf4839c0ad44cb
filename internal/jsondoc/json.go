package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrDecode is returned when a payload cannot be decoded into a document.
var ErrDecode = errors.New("jsondoc: invalid JSON payload")

// Parse decodes a JSON payload into a document, preserving object key order.
func Parse(payload []byte) (*Doc, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// Reject anything after the first value, valid tokens and garbage
	// alike; only clean EOF is acceptable.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrDecode)
	}

	return doc, nil
}

// MustParse is a test/fixture helper that panics on decode failure.
func MustParse(payload string) *Doc {
	doc, err := Parse([]byte(payload))
	if err != nil {
		panic(err)
	}
	return doc
}

// decodeValue reads one JSON value from the decoder.
func decodeValue(dec *json.Decoder) (*Doc, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

// decodeToken builds a document from a token already read from the decoder.
func decodeToken(dec *json.Decoder, tok json.Token) (*Doc, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case bool:
		return NewBool(v), nil
	case json.Number:
		return NewNumber(v), nil
	case string:
		return NewString(v), nil
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// decodeObject reads object members up to the closing brace.
func decodeObject(dec *json.Decoder) (*Doc, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %v, not a string", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
}

// decodeArray reads array elements up to the closing bracket.
func decodeArray(dec *json.Decoder) (*Doc, error) {
	arr := NewArray()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return arr, nil
		}
		value, err := decodeToken(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.Append(value)
	}
}

// MarshalJSON encodes the document, writing object keys in insertion order.
func (d *Doc) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a payload in place, preserving object key order.
func (d *Doc) UnmarshalJSON(payload []byte) error {
	doc, err := Parse(payload)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// String returns the compact JSON encoding of the document.
func (d *Doc) String() string {
	data, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("jsondoc(error: %v)", err)
	}
	return string(data)
}

func (d *Doc) encode(buf *bytes.Buffer) error {
	if d == nil {
		buf.WriteString("null")
		return nil
	}
	switch d.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if d.boolVal {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if d.numVal == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(string(d.numVal))
		}
	case String:
		data, err := json.Marshal(d.strVal)
		if err != nil {
			return err
		}
		buf.Write(data)
	case Array:
		buf.WriteByte('[')
		for i, item := range d.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, key := range d.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyData, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(keyData)
			buf.WriteByte(':')
			if err := d.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsondoc: cannot encode %s document", d.kind)
	}
	return nil
}
