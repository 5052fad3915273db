// Package ghost turns player records into the descriptors the datapack is
// generated from.
package ghost

import "github.com/steviee/mcghosts/internal/snbt"

// Armor slot order used by descriptors and equipment lists.
const (
	ArmorFeet = iota
	ArmorLegs
	ArmorChest
	ArmorHead
)

// Descriptor is one compiled ghost.
type Descriptor struct {
	Index int // 1-based, contiguous over compiled records
	ID    string

	X, Y, Z float64
	Yaw     float32

	Name     string
	Degraded bool // Name is the raw id because the lookup failed

	Held  *snbt.Item
	Armor [4]snbt.Item // feet, legs, chest, head
}

// HeldToken returns the held item as a command token, or "" when the hand is
// empty.
func (d *Descriptor) HeldToken() string {
	if d.Held == nil {
		return ""
	}
	return d.Held.Token()
}

// ArmorTokens returns the four armor items as command tokens.
func (d *Descriptor) ArmorTokens() [4]string {
	var out [4]string
	for i, item := range d.Armor {
		out[i] = item.Token()
	}
	return out
}
