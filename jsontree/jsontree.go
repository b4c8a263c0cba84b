// Package jsontree reads and writes arbitrary JSON documents as an ordered
// tree of values. Object keys keep the order in which they appear in the
// file and number literals are kept verbatim, so a document that passes
// through unchanged is written back with the same content.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string content or number literal
	items   []Value
	members []Member
}

// ---------------------------------------------------------------------------
// Constructors and accessors
// ---------------------------------------------------------------------------

// NullValue returns a JSON null.
func NullValue() Value { return Value{} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue returns a JSON number with the given literal text.
func NumberValue(lit string) Value { return Value{kind: Number, s: lit} }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ArrayValue returns a JSON array.
func ArrayValue(items ...Value) Value { return Value{kind: Array, items: items} }

// ObjectValue returns a JSON object with members in the given order.
// Later duplicates replace earlier ones in place.
func ObjectValue(members ...Member) Value {
	v := Value{kind: Object}
	for _, m := range members {
		v.Set(m.Key, m.Value)
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean content.
func (v Value) Bool() bool { return v.b }

// Str returns the string content, or the literal text of a number.
func (v Value) Str() string { return v.s }

// Items returns the elements of an array.
func (v Value) Items() []Value { return v.items }

// Members returns the members of an object in key order.
func (v Value) Members() []Member { return v.members }

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

// Keys returns the object keys in order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the member named key of an object.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Lookup follows a path of object keys.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Set adds or replaces a member of an object. Replacing keeps the key's
// original position. Set turns a non-object value into an object.
func (v *Value) Set(key string, val Value) {
	if v.kind != Object {
		*v = Value{kind: Object}
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Equal reports whether two values are structurally identical, including
// object key order and number literals.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number, String:
		return a.s == b.s
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// CountStrings returns the number of string values reachable through
// objects. Strings inside arrays are not counted.
func CountStrings(v Value) int {
	switch v.kind {
	case String:
		return 1
	case Object:
		n := 0
		for _, m := range v.members {
			n += CountStrings(m.Value)
		}
		return n
	}
	return 0
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ReadFile reads and parses a JSON document.
func ReadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Value{}, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return Value{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// Parse parses a single JSON document.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	t, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch tok := t.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return BoolValue(tok), nil
	case json.Number:
		return NumberValue(tok.String()), nil
	case string:
		return StringValue(tok), nil
	case json.Delim:
		switch tok {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", tok)
	}
	return Value{}, fmt.Errorf("unexpected token %v", t)
}

func parseObject(dec *json.Decoder) (Value, error) {
	v := Value{kind: Object}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := kt.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string key, got %T", kt)
		}
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("key %q: %w", key, err)
		}
		v.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // closing }
		return Value{}, err
	}
	return v, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	v := Value{kind: Array, items: []Value{}}
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("index %d: %w", len(v.items), err)
		}
		v.items = append(v.items, item)
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return Value{}, err
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile writes v to path with 2-space indentation, creating the parent
// directory if needed.
func WriteFile(path string, v Value) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes v with 2-space indentation and a trailing newline.
// Non-ASCII characters and HTML-sensitive characters are written as is.
func Marshal(v Value) ([]byte, error) {
	var b bytes.Buffer
	if err := writeValue(&b, v, 0); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeValue(b *bytes.Buffer, v Value, depth int) error {
	switch v.kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		if !json.Valid([]byte(v.s)) {
			return fmt.Errorf("invalid number literal %q", v.s)
		}
		b.WriteString(v.s)
	case String:
		writeString(b, v.s)
	case Array:
		if len(v.items) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, item := range v.items {
			indent(b, depth+1)
			if err := writeValue(b, item, depth+1); err != nil {
				return err
			}
			if i < len(v.items)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte(']')
	case Object:
		if len(v.members) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		for i, m := range v.members {
			indent(b, depth+1)
			writeString(b, m.Key)
			b.WriteString(": ")
			if err := writeValue(b, m.Value, depth+1); err != nil {
				return err
			}
			if i < len(v.members)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %v", v.kind)
	}
	return nil
}

func indent(b *bytes.Buffer, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}

// writeString writes s as a JSON string literal.
func writeString(b *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	b.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}
