package snbt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{
			name:  "item compound",
			input: `{id:"minecraft:stone",Count:1b,tag:{Damage:0}}`,
			want: CompoundOf(
				Field{Key: "id", Value: Value{Kind: KindString, Text: "minecraft:stone", Quote: '"'}},
				Field{Key: "Count", Value: Number("1b")},
				Field{Key: "tag", Value: CompoundOf(Field{Key: "Damage", Value: Number("0")})},
			),
		},
		{
			name:  "whitespace between tokens",
			input: ` { Slot : 0b , id : "minecraft:apple" } `,
			want: CompoundOf(
				Field{Key: "Slot", Value: Number("0b")},
				Field{Key: "id", Value: Value{Kind: KindString, Text: "minecraft:apple", Quote: '"'}},
			),
		},
		{
			name:  "list of compounds",
			input: `[{id:"minecraft:sharpness",lvl:5s},{id:"minecraft:unbreaking",lvl:3s}]`,
			want: ListOf(
				CompoundOf(
					Field{Key: "id", Value: Value{Kind: KindString, Text: "minecraft:sharpness", Quote: '"'}},
					Field{Key: "lvl", Value: Number("5s")},
				),
				CompoundOf(
					Field{Key: "id", Value: Value{Kind: KindString, Text: "minecraft:unbreaking", Quote: '"'}},
					Field{Key: "lvl", Value: Number("3s")},
				),
			),
		},
		{
			name:  "typed int array",
			input: `[I;1,-2,3]`,
			want: Value{Kind: KindArray, ArrayType: 'I', Items: []Value{
				Number("1"), Number("-2"), Number("3"),
			}},
		},
		{
			name:  "int array with element suffix",
			input: `[I;1I,-2I,3i]`,
			want: Value{Kind: KindArray, ArrayType: 'I', Items: []Value{
				Number("1"), Number("-2"), Number("3"),
			}},
		},
		{
			name:  "empty values read as empty strings",
			input: `{tag:{note:,lore:[,]}}`,
			want: CompoundOf(
				Field{Key: "tag", Value: CompoundOf(
					Field{Key: "note", Value: Quoted("")},
					Field{Key: "lore", Value: ListOf(Quoted(""), Quoted(""))},
				)},
			),
		},
		{
			name:  "single quoted json text",
			input: `{Name:'{"text":"Ghost Navigator"}'}`,
			want: CompoundOf(
				Field{Key: "Name", Value: Value{Kind: KindString, Text: `{"text":"Ghost Navigator"}`, Quote: '\''}},
			),
		},
		{
			name:  "bare strings and booleans",
			input: `{SkullOwner:Notch,Unbreakable:true,Scale:1.5f}`,
			want: CompoundOf(
				Field{Key: "SkullOwner", Value: Value{Kind: KindString, Text: "Notch"}},
				Field{Key: "Unbreakable", Value: Value{Kind: KindBool, Text: "true"}},
				Field{Key: "Scale", Value: Number("1.5f")},
			),
		},
		{
			name:  "quoted key",
			input: `{"odd key":1}`,
			want:  CompoundOf(Field{Key: "odd key", Value: Number("1")}),
		},
		{
			name:  "empty compound",
			input: `{}`,
			want:  CompoundOf(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "unterminated compound", input: `{id:"minecraft:stone"`},
		{name: "unterminated string", input: `{id:"minecraft:stone}`},
		{name: "missing colon", input: `{id "minecraft:stone"}`},
		{name: "trailing garbage", input: `{id:"minecraft:stone"}}`},
		{name: "unterminated list", input: `[1,2`},
		{name: "stray character", input: `{id:@}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) error %v does not match ErrMalformed", tt.input, err)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Errorf("Parse(%q) error %T is not a *SyntaxError", tt.input, err)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		`{id:"minecraft:stone",Count:1b,tag:{Damage:0}}`,
		`{display:{Name:'{"text":"Ghost Navigator"}',Lore:['{"text":"a"}']}}`,
		`{Items:[{Slot:0b,id:"minecraft:dirt",Count:64b}],Lock:""}`,
		`{UUID:[I;1,2,3,4],Bytes:[B;1b,0b],Empty:[]}`,
		`{text:"say \"hi\"",path:'C:\\dir'}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := Parse(input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", input, err)
			}
			if diff := cmp.Diff(input, Format(v)); diff != "" {
				t.Errorf("Format mismatch (-want +got):\n%s", diff)
			}

			again, err := Parse(Format(v))
			if err != nil {
				t.Fatalf("Parse(Format(v)) error: %v", err)
			}
			if diff := cmp.Diff(v, again, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("reparse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValue_Str(t *testing.T) {
	v, err := Parse(`"say \"hi\""`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if diff := cmp.Diff(`say "hi"`, v.Str()); diff != "" {
		t.Errorf("Str mismatch (-want +got):\n%s", diff)
	}
}
