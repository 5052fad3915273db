// Package snbt parses and formats the stringified NBT fragments found in
// player inventories and builds the item tokens embedded in commands.
package snbt

import "strings"

// Kind identifies the type of a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindCompound
	KindList
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindCompound:
		return "compound"
	case KindList:
		return "list"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is one node of an attribute tree.
//
// Text holds the literal for numbers and booleans, and for strings the body
// exactly as written between the quotes (escapes are kept), so formatting a
// parsed value reproduces the input token.
type Value struct {
	Kind      Kind
	Text      string
	Quote     byte
	Fields    []Field
	Items     []Value
	ArrayType byte
}

// Field is a key/value pair of a compound. Compounds keep source order.
type Field struct {
	Key   string
	Value Value
}

// Quoted returns a double-quoted string value.
func Quoted(s string) Value {
	return Value{Kind: KindString, Text: escape(s, '"'), Quote: '"'}
}

// SingleQuoted returns a single-quoted string value. It is used for JSON
// text components, which are full of double quotes.
func SingleQuoted(s string) Value {
	return Value{Kind: KindString, Text: escape(s, '\''), Quote: '\''}
}

// Bare returns an unquoted string value. Falls back to double quotes when s
// contains characters that are not allowed unquoted.
func Bare(s string) Value {
	if s == "" || !isBareString(s) || isNumber(s) || s == "true" || s == "false" {
		return Quoted(s)
	}
	return Value{Kind: KindString, Text: s}
}

// Number returns a numeric literal such as "1b", "0.5f" or "3".
func Number(literal string) Value {
	return Value{Kind: KindNumber, Text: literal}
}

// CompoundOf returns a compound holding fields in order.
func CompoundOf(fields ...Field) Value {
	return Value{Kind: KindCompound, Fields: fields}
}

// ListOf returns a list holding items in order.
func ListOf(items ...Value) Value {
	return Value{Kind: KindList, Items: items}
}

// ArrayOf returns a typed array ('B', 'I' or 'L') holding items in order.
func ArrayOf(arrayType byte, items ...Value) Value {
	return Value{Kind: KindArray, ArrayType: arrayType, Items: items}
}

// Str returns the unescaped content of a string value.
func (v Value) Str() string {
	if v.Kind != KindString || v.Quote == 0 {
		return v.Text
	}
	return unescape(v.Text)
}

// Get returns the first field named key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Without returns a copy of the compound with every field named key removed.
func (v Value) Without(key string) Value {
	out := v
	out.Fields = make([]Field, 0, len(v.Fields))
	for _, f := range v.Fields {
		if f.Key != key {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// String formats the value.
func (v Value) String() string {
	return Format(v)
}

func escape(s string, quote byte) string {
	if !strings.ContainsAny(s, `\`+string(quote)) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == quote {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
