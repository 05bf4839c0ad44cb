package jsondoc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Doc.
type Kind int

// Document variants.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Doc is a JSON document node: an ordered object, an array, or a scalar.
//
// Objects preserve key insertion order for output. Values stored in a Doc
// are owned by it; Set and Append do not copy, but Merge always inserts
// deep copies so merged documents never alias their sources.
//
// Doc is not safe for concurrent mutation. Callers that share a Doc across
// goroutines must provide their own synchronisation.
type Doc struct {
	kind Kind

	boolVal bool
	numVal  json.Number
	strVal  string

	items []*Doc

	keys   []string
	fields map[string]*Doc
}

// NewObject returns an empty object document.
func NewObject() *Doc {
	return &Doc{kind: Object, fields: make(map[string]*Doc)}
}

// NewArray returns an empty array document.
func NewArray() *Doc {
	return &Doc{kind: Array}
}

// NewBool returns a boolean scalar document.
func NewBool(v bool) *Doc {
	return &Doc{kind: Bool, boolVal: v}
}

// NewInt returns a number scalar document holding an integer value.
func NewInt(v int64) *Doc {
	return &Doc{kind: Number, numVal: json.Number(strconv.FormatInt(v, 10))}
}

// NewUint returns a number scalar document holding an unsigned integer value.
func NewUint(v uint64) *Doc {
	return &Doc{kind: Number, numVal: json.Number(strconv.FormatUint(v, 10))}
}

// NewNumber returns a number scalar document from a JSON number literal.
func NewNumber(n json.Number) *Doc {
	return &Doc{kind: Number, numVal: n}
}

// NewString returns a string scalar document.
func NewString(v string) *Doc {
	return &Doc{kind: String, strVal: v}
}

// NewNull returns a null document.
func NewNull() *Doc {
	return &Doc{kind: Null}
}

// Kind returns the variant held by the document.
func (d *Doc) Kind() Kind {
	if d == nil {
		return Null
	}
	return d.kind
}

// IsNull reports whether the document is nil or a JSON null.
func (d *Doc) IsNull() bool {
	return d == nil || d.kind == Null
}

// IsObject reports whether the document is an object.
func (d *Doc) IsObject() bool {
	return d != nil && d.kind == Object
}

// Bool returns the boolean value, or false for non-boolean documents.
func (d *Doc) Bool() bool {
	if d == nil || d.kind != Bool {
		return false
	}
	return d.boolVal
}

// Str returns the string value, or "" for non-string documents.
func (d *Doc) Str() string {
	if d == nil || d.kind != String {
		return ""
	}
	return d.strVal
}

// Number returns the raw JSON number literal, or "" for non-numbers.
func (d *Doc) Number() json.Number {
	if d == nil || d.kind != Number {
		return ""
	}
	return d.numVal
}

// Float returns the number as a float64, or 0 for non-numbers.
func (d *Doc) Float() float64 {
	f, _ := d.Number().Float64()
	return f
}

// Has reports whether an object document contains the given key.
func (d *Doc) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Get returns the value stored under key in an object document.
func (d *Doc) Get(key string) (*Doc, bool) {
	if d == nil || d.kind != Object {
		return nil, false
	}
	v, ok := d.fields[key]
	return v, ok
}

// Set stores value under key in an object document.
//
// A new key is appended to the key order; replacing an existing key keeps
// its original position. Set panics if called on a non-object, which is
// always a programming error.
func (d *Doc) Set(key string, value *Doc) {
	if d.kind != Object {
		panic(fmt.Sprintf("jsondoc: Set on %s document", d.kind))
	}
	if value == nil {
		value = NewNull()
	}
	if _, exists := d.fields[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = value
}

// SetObject stores a new empty object under key and returns it.
func (d *Doc) SetObject(key string) *Doc {
	obj := NewObject()
	d.Set(key, obj)
	return obj
}

// Keys returns the object keys in insertion order.
// The returned slice must not be modified.
func (d *Doc) Keys() []string {
	if d == nil || d.kind != Object {
		return nil
	}
	return d.keys
}

// Len returns the number of entries in an object or array document.
func (d *Doc) Len() int {
	if d == nil {
		return 0
	}
	switch d.kind {
	case Object:
		return len(d.keys)
	case Array:
		return len(d.items)
	default:
		return 0
	}
}

// Append adds a value to an array document.
// Append panics if called on a non-array.
func (d *Doc) Append(value *Doc) {
	if d.kind != Array {
		panic(fmt.Sprintf("jsondoc: Append on %s document", d.kind))
	}
	if value == nil {
		value = NewNull()
	}
	d.items = append(d.items, value)
}

// Items returns the elements of an array document.
// The returned slice must not be modified.
func (d *Doc) Items() []*Doc {
	if d == nil || d.kind != Array {
		return nil
	}
	return d.items
}

// Clone returns a deep copy of the document.
func (d *Doc) Clone() *Doc {
	if d == nil {
		return NewNull()
	}
	out := &Doc{
		kind:    d.kind,
		boolVal: d.boolVal,
		numVal:  d.numVal,
		strVal:  d.strVal,
	}
	switch d.kind {
	case Array:
		if d.items != nil {
			out.items = make([]*Doc, len(d.items))
			for i, item := range d.items {
				out.items[i] = item.Clone()
			}
		}
	case Object:
		out.fields = make(map[string]*Doc, len(d.fields))
		if d.keys != nil {
			out.keys = make([]string, len(d.keys))
			copy(out.keys, d.keys)
		}
		for k, v := range d.fields {
			out.fields[k] = v.Clone()
		}
	}
	return out
}

// Merge combines src into dst in place.
//
// If src is an object and dst is an object, src entries are merged
// key-by-key in source order: an existing destination value is merged
// recursively, a missing key is inserted as a deep copy. Any other
// combination replaces the destination value wholesale, so for scalars and
// arrays the last merge wins, while sibling object properties set by an
// earlier merge survive.
//
// Merge never fails on well-formed documents. Nil arguments are a no-op.
func Merge(dst, src *Doc) {
	if dst == nil || src == nil {
		return
	}
	if src.kind == Object && dst.kind == Object {
		for _, key := range src.keys {
			sv := src.fields[key]
			if dv, ok := dst.fields[key]; ok && dv.kind == Object && sv.kind == Object {
				Merge(dv, sv)
			} else {
				dst.Set(key, sv.Clone())
			}
		}
		return
	}
	*dst = *src.Clone()
}
