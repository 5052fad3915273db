package snbt

import (
	"fmt"
	"strings"
)

// Item is an item reduced to its identifier and the attribute fields that
// follow it in a command token, e.g. minecraft:stone{Damage:0}.
type Item struct {
	ID     string
	Fields []Field
}

// Reformat converts an item fragment into a command token.
//
//	{id:"minecraft:stone",Count:1b,tag:{Damage:0}} -> minecraft:stone{Damage:0}
//
// It returns ErrAbsent for empty input and ErrMalformed when no item id can
// be found. Reformatting a token again returns the same token.
func Reformat(fragment string) (string, error) {
	item, err := ParseItem(fragment)
	if err != nil {
		return "", err
	}
	return item.Token(), nil
}

// ParseItem parses either an item compound ({id:...,Count:...,tag:{...}})
// or an already formatted token (id or id{...}).
func ParseItem(fragment string) (Item, error) {
	s := strings.TrimSpace(fragment)
	if s == "" {
		return Item{}, ErrAbsent
	}

	if s[0] != '{' {
		return parseToken(s)
	}

	v, err := Parse(s)
	if err != nil {
		return Item{}, err
	}
	return ItemFromCompound(v)
}

// ItemFromCompound extracts the id, drops Count and lifts the fields of a
// tag compound one level up. Only one level is unwrapped: a tag nested
// inside tag stays where it is.
func ItemFromCompound(v Value) (Item, error) {
	if v.Kind != KindCompound {
		return Item{}, fmt.Errorf("%w: expected compound, got %s", ErrMalformed, v.Kind)
	}
	if len(v.Fields) == 0 {
		return Item{}, ErrAbsent
	}

	id, ok := v.Get("id")
	if !ok || id.Kind != KindString || id.Str() == "" {
		return Item{}, fmt.Errorf("%w: no item id", ErrMalformed)
	}

	item := Item{ID: id.Str()}
	for _, f := range v.Fields {
		switch {
		case f.Key == "id", f.Key == "Count":
		case f.Key == "tag" && f.Value.Kind == KindCompound:
			item.Fields = append(item.Fields, f.Value.Fields...)
		default:
			item.Fields = append(item.Fields, f)
		}
	}
	return item, nil
}

func parseToken(s string) (Item, error) {
	id, rest := s, ""
	if i := strings.IndexByte(s, '{'); i >= 0 {
		id, rest = strings.TrimSpace(s[:i]), s[i:]
	}
	if !isItemID(id) {
		return Item{}, fmt.Errorf("%w: invalid item id %q", ErrMalformed, id)
	}

	item := Item{ID: id}
	if rest == "" {
		return item, nil
	}

	v, err := Parse(rest)
	if err != nil {
		return Item{}, err
	}
	if v.Kind != KindCompound {
		return Item{}, fmt.Errorf("%w: expected compound after item id", ErrMalformed)
	}
	item.Fields = v.Fields
	return item, nil
}

func isItemID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBareChar(s[i]) && s[i] != ':' && s[i] != '/' {
			return false
		}
	}
	return true
}

// Token formats the item as id{fields}, or just id when it has no fields.
func (it Item) Token() string {
	if len(it.Fields) == 0 {
		return it.ID
	}
	var b strings.Builder
	b.WriteString(it.ID)
	b.WriteByte('{')
	writeFields(&b, it.Fields)
	b.WriteByte('}')
	return b.String()
}

// Compound returns the item as a one-count stack compound, the form entity
// equipment lists expect: {id:"...",Count:1b,tag:{...}}.
func (it Item) Compound() Value {
	v := CompoundOf(
		Field{Key: "id", Value: Quoted(it.ID)},
		Field{Key: "Count", Value: Number("1b")},
	)
	if len(it.Fields) > 0 {
		v.Fields = append(v.Fields, Field{Key: "tag", Value: CompoundOf(it.Fields...)})
	}
	return v
}

// With returns a copy of the item with an extra field appended.
func (it Item) With(key string, value Value) Item {
	fields := make([]Field, 0, len(it.Fields)+1)
	fields = append(fields, it.Fields...)
	return Item{ID: it.ID, Fields: append(fields, Field{Key: key, Value: value})}
}
