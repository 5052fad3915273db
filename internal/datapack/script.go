package datapack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/steviee/mcghosts/internal/ghost"
	"github.com/steviee/mcghosts/internal/snbt"
)

// Generated function names.
const (
	FuncInit           = "init"
	FuncSpawnAll       = "spawn_all"
	FuncSpawnAllActual = "spawn_all_actual"
	FuncDespawnAll     = "despawn_all"
	FuncTeleportGoto   = "teleport_goto"
	FuncTeleportNext   = "teleport_next"
	FuncTeleportPrev   = "teleport_prev"
	FuncOnUse          = "on_use"
	FuncTick           = "tick"
)

// CountHolder is the fake player that stores the number of ghosts.
const CountHolder = "#ghost_count"

// Script is the compiled command set. Each field holds the lines of one
// function, one command per line.
type Script struct {
	Creation []string // summon commands, one per ghost
	Indexing []string // index score per ghost, then the ghost count
	Guard    string
	Cleanup  string

	Navigation Navigation

	Init []string
	Tick []string
}

// Navigation holds the cursor functions. Branches are shared by Advance and
// Retreat through the goto function, so each ghost is emitted once.
type Navigation struct {
	Count    int
	Branches []Branch
	Empty    string // goto body when there are no ghosts
	Advance  []string
	Retreat  []string
	OnUse    []string
}

// Branch teleports to and announces one ghost when the cursor equals Index.
type Branch struct {
	Index    int
	Teleport string
	Announce string
}

// Goto returns the body of the goto function.
func (n Navigation) Goto() []string {
	if n.Count == 0 {
		return []string{n.Empty}
	}
	lines := make([]string, 0, 2*len(n.Branches))
	for _, b := range n.Branches {
		lines = append(lines, b.Teleport, b.Announce)
	}
	return lines
}

// Build compiles descriptors into a Script. Descriptors must carry indices
// 1..N in order.
func Build(descs []*ghost.Descriptor, s Settings) (*Script, error) {
	for i, d := range descs {
		if d.Index != i+1 {
			return nil, fmt.Errorf("descriptor %d has index %d, want %d", i, d.Index, i+1)
		}
	}

	sc := &Script{
		Creation: make([]string, 0, len(descs)),
		Indexing: make([]string, 0, len(descs)+1),
	}

	for _, d := range descs {
		cmd, err := summon(d, s)
		if err != nil {
			return nil, err
		}
		sc.Creation = append(sc.Creation, cmd)
		sc.Indexing = append(sc.Indexing, fmt.Sprintf(
			"scoreboard players set @e[type=%s,tag=%s,limit=1] %s %d",
			s.Entity, ordinalTag(s, d.Index), s.IndexObjective, d.Index))
	}
	sc.Indexing = append(sc.Indexing, fmt.Sprintf(
		"scoreboard players set %s %s %d", CountHolder, s.IndexObjective, len(descs)))

	sc.Guard = fmt.Sprintf("execute unless entity @e[type=%s,tag=%s] run function %s",
		s.Entity, s.Tag, s.function(FuncSpawnAllActual))
	sc.Cleanup = fmt.Sprintf("kill @e[type=%s,tag=%s]", s.Entity, s.Tag)

	nav, err := navigation(descs, s)
	if err != nil {
		return nil, err
	}
	sc.Navigation = nav

	trigger, err := triggerItem(s)
	if err != nil {
		return nil, err
	}

	sc.Init = []string{
		fmt.Sprintf("scoreboard objectives add %s dummy", s.CursorObjective),
		fmt.Sprintf("scoreboard objectives add %s dummy", s.IndexObjective),
		fmt.Sprintf("scoreboard objectives add %s %s", s.UseObjective, s.useCriterion()),
		fmt.Sprintf("scoreboard objectives add %s dummy", s.LastUseObjective),
		fmt.Sprintf("give @p %s 1", trigger.Token()),
	}

	selected := snbt.CompoundOf(snbt.Field{Key: "SelectedItem", Value: trigger.Compound().Without("Count")})
	sc.Tick = []string{
		fmt.Sprintf("execute as @a[nbt=%s] if score @s %s > @s %s run function %s",
			snbt.Format(selected), s.UseObjective, s.LastUseObjective, s.function(FuncOnUse)),
		fmt.Sprintf("execute as @a unless score @s %s = @s %s run scoreboard players operation @s %s = @s %s",
			s.UseObjective, s.LastUseObjective, s.LastUseObjective, s.UseObjective),
	}

	return sc, nil
}

func navigation(descs []*ghost.Descriptor, s Settings) (Navigation, error) {
	n := Navigation{Count: len(descs)}
	callGoto := "function " + s.function(FuncTeleportGoto)

	if n.Count == 0 {
		empty, err := textJSON(textComponent("No ghosts recorded"))
		if err != nil {
			return Navigation{}, err
		}
		n.Empty = "tellraw @s " + empty
		n.Advance = []string{callGoto}
		n.Retreat = []string{callGoto}
	} else {
		for _, d := range descs {
			announce, err := textJSON([]textComponent{"Teleporting to ", textComponent(d.Name)})
			if err != nil {
				return Navigation{}, err
			}
			cond := fmt.Sprintf("execute if score @s %s matches %d run", s.CursorObjective, d.Index)
			n.Branches = append(n.Branches, Branch{
				Index:    d.Index,
				Teleport: fmt.Sprintf("%s tp @s %s", cond, coords(d, s)),
				Announce: fmt.Sprintf("%s tellraw @s %s", cond, announce),
			})
		}

		outOfRange := fmt.Sprintf("execute unless score @s %s matches 1..%d run scoreboard players set @s %s",
			s.CursorObjective, n.Count, s.CursorObjective)
		n.Advance = []string{
			fmt.Sprintf("scoreboard players add @s %s 1", s.CursorObjective),
			outOfRange + " 1",
			callGoto,
		}
		n.Retreat = []string{
			fmt.Sprintf("scoreboard players remove @s %s 1", s.CursorObjective),
			outOfRange + " " + strconv.Itoa(n.Count),
			callGoto,
		}
	}

	n.OnUse = []string{
		"function " + s.function(FuncTeleportNext),
		fmt.Sprintf("scoreboard players operation @s %s = @s %s", s.LastUseObjective, s.UseObjective),
	}

	return n, nil
}

func summon(d *ghost.Descriptor, s Settings) (string, error) {
	name, err := textJSON(textComponent(d.Name))
	if err != nil {
		return "", err
	}

	held := snbt.CompoundOf()
	if d.Held != nil {
		held = d.Held.Compound()
	}

	armor := make([]snbt.Value, len(d.Armor))
	for i, item := range d.Armor {
		armor[i] = item.Compound()
	}

	nbt := snbt.CompoundOf(
		snbt.Field{Key: "NoGravity", Value: snbt.Number("1b")},
		snbt.Field{Key: "Invisible", Value: snbt.Number("1b")},
		snbt.Field{Key: "Invulnerable", Value: snbt.Number("1b")},
		snbt.Field{Key: "Rotation", Value: snbt.ListOf(snbt.Number(fmt.Sprintf("%.1ff", d.Yaw)))},
		snbt.Field{Key: "Tags", Value: snbt.ListOf(snbt.Quoted(s.Tag), snbt.Quoted(ordinalTag(s, d.Index)))},
		snbt.Field{Key: "HandItems", Value: snbt.ListOf(held, snbt.CompoundOf())},
		snbt.Field{Key: "ArmorItems", Value: snbt.ListOf(armor...)},
		snbt.Field{Key: "CustomName", Value: snbt.SingleQuoted(name)},
		snbt.Field{Key: "CustomNameVisible", Value: snbt.Number("1b")},
	)

	return fmt.Sprintf("summon %s %s %s", s.Entity, coords(d, s), snbt.Format(nbt)), nil
}

func triggerItem(s Settings) (snbt.Item, error) {
	name, err := textJSON(textComponent(s.TriggerName))
	if err != nil {
		return snbt.Item{}, err
	}
	display := snbt.CompoundOf(snbt.Field{Key: "Name", Value: snbt.SingleQuoted(name)})
	return snbt.Item{
		ID:     s.triggerItemID(),
		Fields: []snbt.Field{{Key: "display", Value: display}},
	}, nil
}

func ordinalTag(s Settings, index int) string {
	return s.OrdinalPrefix + strconv.Itoa(index)
}

func coords(d *ghost.Descriptor, s Settings) string {
	return fmt.Sprintf("%.3f %.3f %.3f", d.X, d.Y+s.YOffset, d.Z)
}

// textComponent is a plain JSON text component.
type textComponent string

func (t textComponent) MarshalJSON() ([]byte, error) {
	return marshalJSON(struct {
		Text string `json:"text"`
	}{string(t)})
}

func textJSON(v any) (string, error) {
	data, err := marshalJSON(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode text component: %w", err)
	}
	return string(data), nil
}

// marshalJSON encodes without HTML escaping so names like "<3" stay readable
// in chat.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
