package snbt

import (
	"fmt"
	"regexp"
)

var numberRegex = regexp.MustCompile(`^[-+]?(?:[0-9]+\.?|[0-9]*\.[0-9]+)(?:[eE][-+]?[0-9]+)?[bBsSlLfFdD]?$`)

// Parse parses a single SNBT value. Whitespace between tokens is ignored;
// anything after the value is an error.
func Parse(s string) (Value, error) {
	p := &parser{src: s}
	v, err := p.value()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Value{}, p.errorf("unexpected %q after value", p.peek())
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(ch byte) error {
	p.skipSpace()
	if p.peek() != ch {
		if p.eof() {
			return p.errorf("expected %q, got end of input", ch)
		}
		return p.errorf("expected %q, got %q", ch, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) value() (Value, error) {
	p.skipSpace()
	if p.eof() {
		return Value{}, p.errorf("unexpected end of input")
	}

	switch ch := p.peek(); ch {
	case '{':
		return p.compound()
	case '[':
		return p.list()
	case '"', '\'':
		body, err := p.quoted()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Text: body, Quote: ch}, nil
	default:
		word := p.bare()
		if word == "" {
			// some writers emit an empty string as nothing at all
			if ch == ',' || ch == '}' || ch == ']' {
				return Quoted(""), nil
			}
			return Value{}, p.errorf("unexpected %q", ch)
		}
		return classify(word), nil
	}
}

func (p *parser) compound() (Value, error) {
	if err := p.expect('{'); err != nil {
		return Value{}, err
	}

	v := Value{Kind: KindCompound, Fields: []Field{}}
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return v, nil
	}

	for {
		key, err := p.key()
		if err != nil {
			return Value{}, err
		}
		if err := p.expect(':'); err != nil {
			return Value{}, err
		}
		val, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Fields = append(v.Fields, Field{Key: key, Value: val})

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return v, nil
		default:
			if p.eof() {
				return Value{}, p.errorf("unterminated compound")
			}
			return Value{}, p.errorf("expected ',' or '}', got %q", p.peek())
		}
	}
}

func (p *parser) key() (string, error) {
	p.skipSpace()
	switch p.peek() {
	case '"', '\'':
		body, err := p.quoted()
		if err != nil {
			return "", err
		}
		return unescape(body), nil
	default:
		word := p.bare()
		if word == "" {
			return "", p.errorf("expected key")
		}
		return word, nil
	}
}

func (p *parser) list() (Value, error) {
	if err := p.expect('['); err != nil {
		return Value{}, err
	}

	v := Value{Kind: KindList, Items: []Value{}}
	// typed arrays: [B;...], [I;...], [L;...]
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == ';' {
		switch t := p.src[p.pos]; t {
		case 'B', 'I', 'L':
			v.Kind = KindArray
			v.ArrayType = t
			p.pos += 2
		}
	}

	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return v, nil
	}

	for {
		item, err := p.value()
		if err != nil {
			return Value{}, err
		}
		if v.ArrayType == 'I' {
			item = intElement(item)
		}
		v.Items = append(v.Items, item)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return v, nil
		default:
			if p.eof() {
				return Value{}, p.errorf("unterminated list")
			}
			return Value{}, p.errorf("expected ',' or ']', got %q", p.peek())
		}
	}
}

// quoted consumes a quoted string and returns its raw body.
func (p *parser) quoted() (string, error) {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case quote:
			body := p.src[start+1 : p.pos]
			p.pos++
			return body, nil
		default:
			p.pos++
		}
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

func (p *parser) bare() string {
	start := p.pos
	for !p.eof() && isBareChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func classify(word string) Value {
	switch {
	case word == "true" || word == "false":
		return Value{Kind: KindBool, Text: word}
	case isNumber(word):
		return Value{Kind: KindNumber, Text: word}
	default:
		return Value{Kind: KindString, Text: word}
	}
}

// intElement drops an I suffix from an int array element. The game only
// accepts plain integers there.
func intElement(v Value) Value {
	if v.Kind != KindString || v.Quote != 0 || len(v.Text) < 2 {
		return v
	}
	last := v.Text[len(v.Text)-1]
	if last != 'I' && last != 'i' {
		return v
	}
	if trimmed := v.Text[:len(v.Text)-1]; isNumber(trimmed) {
		return Value{Kind: KindNumber, Text: trimmed}
	}
	return v
}

func isBareChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-' || ch == '.' || ch == '+'
}

func isBareString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isBareChar(s[i]) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	return numberRegex.MatchString(s)
}
