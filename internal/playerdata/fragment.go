package playerdata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/Tnze/go-mc/nbt"

	"github.com/steviee/mcghosts/internal/snbt"
)

// fragmentOf converts a decoded NBT payload into an attribute tree in the
// literal syntax commands accept. Compound fields keep file order, strings
// are always quoted, and typed array elements carry the suffix their array
// requires (b for bytes, L for longs, none for ints).
func fragmentOf(raw nbt.RawMessage) (snbt.Value, error) {
	switch raw.Type {
	case nbt.TagByte:
		var n int8
		if err := raw.Unmarshal(&n); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Number(strconv.FormatInt(int64(n), 10) + "b"), nil

	case nbt.TagShort:
		var n int16
		if err := raw.Unmarshal(&n); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Number(strconv.FormatInt(int64(n), 10) + "s"), nil

	case nbt.TagInt:
		var n int32
		if err := raw.Unmarshal(&n); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Number(strconv.FormatInt(int64(n), 10)), nil

	case nbt.TagLong:
		var n int64
		if err := raw.Unmarshal(&n); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Number(strconv.FormatInt(n, 10) + "L"), nil

	case nbt.TagFloat:
		var f float32
		if err := raw.Unmarshal(&f); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Number(strconv.FormatFloat(float64(f), 'f', -1, 32) + "f"), nil

	case nbt.TagDouble:
		var f float64
		if err := raw.Unmarshal(&f); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Number(strconv.FormatFloat(f, 'f', -1, 64) + "d"), nil

	case nbt.TagString:
		var s string
		if err := raw.Unmarshal(&s); err != nil {
			return snbt.Value{}, err
		}
		return snbt.Quoted(s), nil

	case nbt.TagByteArray:
		var a []int8
		if err := raw.Unmarshal(&a); err != nil {
			return snbt.Value{}, err
		}
		items := make([]snbt.Value, len(a))
		for i, n := range a {
			items[i] = snbt.Number(strconv.FormatInt(int64(n), 10) + "b")
		}
		return snbt.ArrayOf('B', items...), nil

	case nbt.TagIntArray:
		var a []int32
		if err := raw.Unmarshal(&a); err != nil {
			return snbt.Value{}, err
		}
		items := make([]snbt.Value, len(a))
		for i, n := range a {
			items[i] = snbt.Number(strconv.FormatInt(int64(n), 10))
		}
		return snbt.ArrayOf('I', items...), nil

	case nbt.TagLongArray:
		var a []int64
		if err := raw.Unmarshal(&a); err != nil {
			return snbt.Value{}, err
		}
		items := make([]snbt.Value, len(a))
		for i, n := range a {
			items[i] = snbt.Number(strconv.FormatInt(n, 10) + "L")
		}
		return snbt.ArrayOf('L', items...), nil

	case nbt.TagList:
		var elems []nbt.RawMessage
		if err := raw.Unmarshal(&elems); err != nil {
			return snbt.Value{}, err
		}
		items := make([]snbt.Value, 0, len(elems))
		for _, elem := range elems {
			item, err := fragmentOf(elem)
			if err != nil {
				return snbt.Value{}, err
			}
			items = append(items, item)
		}
		return snbt.ListOf(items...), nil

	case nbt.TagCompound:
		return compoundOf(raw.Data)

	default:
		return snbt.Value{}, fmt.Errorf("unknown tag type %d", raw.Type)
	}
}

// compoundOf walks a compound payload entry by entry so field order
// survives. Each entry payload is framed by nbt.RawMessage.
func compoundOf(data []byte) (snbt.Value, error) {
	r := bytes.NewReader(data)
	v := snbt.CompoundOf()

	for {
		tagType, err := r.ReadByte()
		if err != nil {
			return snbt.Value{}, fmt.Errorf("truncated compound: %w", err)
		}
		if tagType == nbt.TagEnd {
			return v, nil
		}

		var n uint16
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return snbt.Value{}, fmt.Errorf("read field name: %w", err)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return snbt.Value{}, fmt.Errorf("read field name: %w", err)
		}

		var raw nbt.RawMessage
		if err := raw.UnmarshalNBT(tagType, r); err != nil {
			return snbt.Value{}, fmt.Errorf("read field %s: %w", name, err)
		}
		child, err := fragmentOf(raw)
		if err != nil {
			return snbt.Value{}, fmt.Errorf("field %s: %w", name, err)
		}
		v.Fields = append(v.Fields, snbt.Field{Key: string(name), Value: child})
	}
}
