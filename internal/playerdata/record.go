// Package playerdata reads saved player snapshots from a world's playerdata
// directory.
package playerdata

// Armor inventory slots.
const (
	SlotFeet  = 100
	SlotLegs  = 101
	SlotChest = 102
	SlotHead  = 103
)

// Slot is one occupied inventory slot. Fragment is the item compound in
// command SNBT, still carrying its Slot field.
type Slot struct {
	Index    int
	Fragment string
}

// Record is the raw content of one player file.
type Record struct {
	ID   string // player UUID taken from the file name
	Path string

	Pos    [3]float64
	HasPos bool

	Yaw          float32
	SelectedSlot int

	Inventory    []Slot
	HasInventory bool
}

// Item returns the fragment stored in the given slot.
func (r *Record) Item(slot int) (string, bool) {
	for _, s := range r.Inventory {
		if s.Index == slot {
			return s.Fragment, true
		}
	}
	return "", false
}
