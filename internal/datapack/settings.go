// Package datapack generates the function files that summon, index, remove
// and navigate between ghosts.
package datapack

import (
	"strings"

	"github.com/steviee/mcghosts/internal/state"
)

// Settings holds every name and value embedded in the generated commands.
type Settings struct {
	Namespace   string
	PackFormat  int
	Description string

	Entity        string
	Tag           string
	OrdinalPrefix string
	YOffset       float64

	CursorObjective  string
	IndexObjective   string
	UseObjective     string
	LastUseObjective string
	TriggerItem      string
	TriggerName      string
}

// SettingsFromConfig collects Settings from the config.
func SettingsFromConfig(cfg *state.Config) Settings {
	return Settings{
		Namespace:        cfg.Output.Namespace,
		PackFormat:       cfg.Output.PackFormat,
		Description:      cfg.Output.Description,
		Entity:           cfg.Ghosts.Entity,
		Tag:              cfg.Ghosts.Tag,
		OrdinalPrefix:    cfg.Ghosts.OrdinalPrefix,
		YOffset:          cfg.Ghosts.YOffset,
		CursorObjective:  cfg.Navigation.CursorObjective,
		IndexObjective:   cfg.Navigation.IndexObjective,
		UseObjective:     cfg.Navigation.UseObjective,
		LastUseObjective: cfg.Navigation.LastUseObjective,
		TriggerItem:      cfg.Navigation.TriggerItem,
		TriggerName:      cfg.Navigation.TriggerName,
	}
}

// DefaultSettings returns the settings of the default config.
func DefaultSettings() Settings {
	return SettingsFromConfig(state.DefaultConfig())
}

// function returns the namespaced id of a generated function.
func (s Settings) function(name string) string {
	return s.Namespace + ":" + name
}

// triggerItemID returns the trigger item with its namespace.
func (s Settings) triggerItemID() string {
	if strings.Contains(s.TriggerItem, ":") {
		return s.TriggerItem
	}
	return "minecraft:" + s.TriggerItem
}

// useCriterion is the statistic criterion counting uses of the trigger item,
// e.g. minecraft.used:minecraft.carrot_on_a_stick.
func (s Settings) useCriterion() string {
	return "minecraft.used:" + strings.Replace(s.triggerItemID(), ":", ".", 1)
}
