package ghost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/steviee/mcghosts/internal/mojang"
	"github.com/steviee/mcghosts/internal/playerdata"
	"github.com/steviee/mcghosts/internal/snbt"
	"github.com/steviee/mcghosts/internal/state"
)

// ErrMissingField is returned for records without a position or inventory.
var ErrMissingField = errors.New("record is missing a required field")

// Resolver maps a player id to a profile. *mojang.Client implements it.
type Resolver interface {
	Resolve(ctx context.Context, id string) *mojang.Profile
}

// Options configures a Compiler.
type Options struct {
	HeadItem     string
	DefaultArmor [3]string // feet, legs, chest
}

// OptionsFromConfig builds Options from the ghosts section of the config.
func OptionsFromConfig(cfg state.GhostsConfig) Options {
	return Options{
		HeadItem: cfg.HeadItem,
		DefaultArmor: [3]string{
			cfg.DefaultArmor.Feet,
			cfg.DefaultArmor.Legs,
			cfg.DefaultArmor.Chest,
		},
	}
}

// Compiler converts records into descriptors.
type Compiler struct {
	resolver Resolver
	head     snbt.Item
	defaults [3]snbt.Item
}

// NewCompiler parses the configured items up front so a bad config fails
// before any record is read.
func NewCompiler(resolver Resolver, opts Options) (*Compiler, error) {
	head, err := snbt.ParseItem(opts.HeadItem)
	if err != nil {
		return nil, fmt.Errorf("invalid head item %q: %w", opts.HeadItem, err)
	}

	c := &Compiler{
		resolver: resolver,
		head:     head,
	}

	for i, token := range opts.DefaultArmor {
		item, err := snbt.ParseItem(token)
		if err != nil {
			return nil, fmt.Errorf("invalid default armor item %q: %w", token, err)
		}
		c.defaults[i] = item
	}

	return c, nil
}

// Compile builds the descriptor for one record. The returned descriptor has
// no index yet.
func (c *Compiler) Compile(ctx context.Context, rec *playerdata.Record) (*Descriptor, error) {
	if !rec.HasPos {
		return nil, fmt.Errorf("%w: Pos", ErrMissingField)
	}
	if !rec.HasInventory {
		return nil, fmt.Errorf("%w: Inventory", ErrMissingField)
	}

	profile := c.resolver.Resolve(ctx, rec.ID)

	d := &Descriptor{
		ID:       rec.ID,
		X:        rec.Pos[0],
		Y:        rec.Pos[1],
		Z:        rec.Pos[2],
		Yaw:      rec.Yaw,
		Name:     profile.Username,
		Degraded: profile.Degraded,
	}
	if d.Name == "" {
		d.Name = rec.ID
	}

	if held, ok := slotItem(rec, rec.SelectedSlot); ok {
		d.Held = &held
	}

	armorSlots := [3]int{playerdata.SlotFeet, playerdata.SlotLegs, playerdata.SlotChest}
	for i, slot := range armorSlots {
		if item, ok := slotItem(rec, slot); ok {
			d.Armor[i] = item
		} else {
			d.Armor[i] = c.defaults[i]
		}
	}
	d.Armor[ArmorHead] = c.head.With("SkullOwner", snbt.Bare(d.Name))

	return d, nil
}

// CompileAll compiles records in order and numbers the results 1..N.
// Records that fail to compile are logged and do not take an index.
func (c *Compiler) CompileAll(ctx context.Context, records []*playerdata.Record) []*Descriptor {
	out := make([]*Descriptor, 0, len(records))

	for _, rec := range records {
		d, err := c.Compile(ctx, rec)
		if err != nil {
			slog.Warn("skipping player record", "id", rec.ID, "path", rec.Path, "error", err)
			continue
		}
		d.Index = len(out) + 1
		out = append(out, d)

		slog.Debug("compiled ghost",
			"index", d.Index,
			"id", d.ID,
			"name", d.Name,
			"degraded", d.Degraded)
	}

	return out
}

// slotItem returns the reformatted item in slot. Empty and malformed slots
// count as absent.
func slotItem(rec *playerdata.Record, slot int) (snbt.Item, bool) {
	fragment, ok := rec.Item(slot)
	if !ok {
		return snbt.Item{}, false
	}

	v, err := snbt.Parse(fragment)
	if err != nil {
		slog.Debug("unparseable inventory item", "id", rec.ID, "slot", slot, "error", err)
		return snbt.Item{}, false
	}

	item, err := snbt.ItemFromCompound(v.Without("Slot"))
	if err != nil {
		if !errors.Is(err, snbt.ErrAbsent) {
			slog.Debug("malformed inventory item", "id", rec.ID, "slot", slot, "error", err)
		}
		return snbt.Item{}, false
	}

	return item, true
}
