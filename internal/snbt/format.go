package snbt

import "strings"

// Format serializes v in compact form: no whitespace, fields in order,
// strings in the quote style they were parsed or built with.
func Format(v Value) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func write(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindString:
		if v.Quote == 0 {
			b.WriteString(v.Text)
			return
		}
		b.WriteByte(v.Quote)
		b.WriteString(v.Text)
		b.WriteByte(v.Quote)
	case KindNumber, KindBool:
		b.WriteString(v.Text)
	case KindCompound:
		b.WriteByte('{')
		writeFields(b, v.Fields)
		b.WriteByte('}')
	case KindList, KindArray:
		b.WriteByte('[')
		if v.Kind == KindArray {
			b.WriteByte(v.ArrayType)
			b.WriteByte(';')
		}
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			write(b, item)
		}
		b.WriteByte(']')
	}
}

func writeFields(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeKey(b, f.Key)
		b.WriteByte(':')
		write(b, f.Value)
	}
}

func writeKey(b *strings.Builder, key string) {
	if key != "" && isBareString(key) {
		b.WriteString(key)
		return
	}
	b.WriteByte('"')
	b.WriteString(escape(key, '"'))
	b.WriteByte('"')
}
