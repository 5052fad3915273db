package playerdata

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"

	"github.com/steviee/mcghosts/internal/snbt"
)

// ErrUnreadable is returned when a file is not a valid NBT compound.
var ErrUnreadable = errors.New("unreadable player file")

// Codec decodes a player file.
type Codec interface {
	Decode(r io.Reader) (*Record, error)
}

// NBTCodec decodes the gzip-compressed NBT format the game writes.
// Uncompressed input is accepted as well.
type NBTCodec struct{}

var gzipMagic = []byte{0x1f, 0x8b}

// Decode implements Codec.
func (NBTCodec) Decode(r io.Reader) (*Record, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		defer func() {
			_ = zr.Close()
		}()
		src = zr
	}

	var root map[string]nbt.RawMessage
	if _, err := nbt.NewDecoder(src).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	return recordFrom(root), nil
}

// recordFrom extracts the fields the compiler needs. Fields with an
// unexpected type are treated as absent.
func recordFrom(root map[string]nbt.RawMessage) *Record {
	rec := &Record{}

	if raw, ok := root["Pos"]; ok {
		var pos []float64
		if err := raw.Unmarshal(&pos); err == nil && len(pos) == 3 {
			copy(rec.Pos[:], pos)
			rec.HasPos = true
		}
	}

	if raw, ok := root["Rotation"]; ok {
		var rot []float32
		if err := raw.Unmarshal(&rot); err == nil && len(rot) > 0 {
			rec.Yaw = rot[0]
		}
	}

	if raw, ok := root["SelectedItemSlot"]; ok {
		var slot int32
		if err := raw.Unmarshal(&slot); err == nil {
			rec.SelectedSlot = int(slot)
		}
	}

	if raw, ok := root["Inventory"]; ok {
		var items []nbt.RawMessage
		if err := raw.Unmarshal(&items); err == nil {
			rec.HasInventory = true
			rec.Inventory = make([]Slot, 0, len(items))
			for _, item := range items {
				var head struct {
					Slot int8 `nbt:"Slot"`
				}
				if err := item.Unmarshal(&head); err != nil {
					continue
				}
				frag, err := fragmentOf(item)
				if err != nil {
					continue
				}
				rec.Inventory = append(rec.Inventory, Slot{
					Index:    int(head.Slot),
					Fragment: snbt.Format(frag),
				})
			}
		}
	}

	return rec
}
