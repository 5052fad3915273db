package state

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the generator configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Ghosts     GhostsConfig     `yaml:"ghosts"`
	Navigation NavigationConfig `yaml:"navigation"`
	Mojang     MojangConfig     `yaml:"mojang"`
}

// InputConfig locates the player records.
type InputConfig struct {
	PlayerdataDir string `yaml:"playerdata_dir"`
}

// OutputConfig describes the generated datapack.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Namespace   string `yaml:"namespace"`
	PackFormat  int    `yaml:"pack_format"`
	Description string `yaml:"description"`
}

// GhostsConfig holds the values embedded in creation commands.
type GhostsConfig struct {
	Entity        string      `yaml:"entity"`
	Tag           string      `yaml:"tag"`
	OrdinalPrefix string      `yaml:"ordinal_prefix"`
	YOffset       float64     `yaml:"y_offset"`
	HeadItem      string      `yaml:"head_item"`
	DefaultArmor  ArmorConfig `yaml:"default_armor"`
}

// ArmorConfig holds the item tokens used when an armor slot is empty.
type ArmorConfig struct {
	Feet  string `yaml:"feet"`
	Legs  string `yaml:"legs"`
	Chest string `yaml:"chest"`
}

// NavigationConfig names the scoreboard objectives and the trigger item.
type NavigationConfig struct {
	CursorObjective  string `yaml:"cursor_objective"`
	IndexObjective   string `yaml:"index_objective"`
	UseObjective     string `yaml:"use_objective"`
	LastUseObjective string `yaml:"last_use_objective"`
	TriggerItem      string `yaml:"trigger_item"`
	TriggerName      string `yaml:"trigger_name"`
}

// MojangConfig holds the identity service settings.
type MojangConfig struct {
	SessionURL   string        `yaml:"session_url"`
	APIURL       string        `yaml:"api_url"`
	Timeout      time.Duration `yaml:"timeout"`
	BatchSize    int           `yaml:"batch_size"`
	BatchDelay   time.Duration `yaml:"batch_delay"`
	BatchBackoff time.Duration `yaml:"batch_backoff"`
	// RateLimit caps session server lookups per minute.
	RateLimit int `yaml:"rate_limit"`
}

// DefaultConfig returns a Config with the values the generator ships with.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			PlayerdataDir: "./playerdata",
		},
		Output: OutputConfig{
			Dir:         "./nostalgia_ghosts",
			Namespace:   "ghosts",
			PackFormat:  15,
			Description: "Nostalgia Ghosts",
		},
		Ghosts: GhostsConfig{
			Entity:        "armor_stand",
			Tag:           "nostalgia_ghost",
			OrdinalPrefix: "ghost_",
			YOffset:       0,
			HeadItem:      "minecraft:player_head",
			DefaultArmor: ArmorConfig{
				Feet:  "minecraft:leather_boots{Damage:0}",
				Legs:  "minecraft:leather_leggings{Damage:0}",
				Chest: "minecraft:leather_chestplate{Damage:0}",
			},
		},
		Navigation: NavigationConfig{
			CursorObjective:  "ghost_cursor",
			IndexObjective:   "ghost_index",
			UseObjective:     "ghost_use",
			LastUseObjective: "ghost_last_use",
			TriggerItem:      "minecraft:carrot_on_a_stick",
			TriggerName:      "Ghost Navigator",
		},
		Mojang: MojangConfig{
			SessionURL:   "https://sessionserver.mojang.com",
			APIURL:       "https://api.mojang.com",
			Timeout:      10 * time.Second,
			BatchSize:    100,
			BatchDelay:   100 * time.Millisecond,
			BatchBackoff: 500 * time.Millisecond,
			RateLimit:    200,
		},
	}
}

// LoadConfig loads the configuration file at path on top of the defaults.
// An empty path or a missing file yields the defaults; the file is never
// created.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ValidateConfig validates the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if cfg.Input.PlayerdataDir == "" {
		return fmt.Errorf("playerdata directory cannot be empty")
	}

	if cfg.Output.Dir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	if err := ValidateNamespace(cfg.Output.Namespace); err != nil {
		return fmt.Errorf("invalid namespace: %w", err)
	}

	if cfg.Output.PackFormat < 1 {
		return fmt.Errorf("pack format must be >= 1, got %d", cfg.Output.PackFormat)
	}

	if err := ValidateResourceID(cfg.Ghosts.Entity); err != nil {
		return fmt.Errorf("invalid ghost entity: %w", err)
	}

	if err := ValidateResourceID(cfg.Ghosts.HeadItem); err != nil {
		return fmt.Errorf("invalid head item: %w", err)
	}

	if err := ValidateResourceID(cfg.Navigation.TriggerItem); err != nil {
		return fmt.Errorf("invalid trigger item: %w", err)
	}

	identifiers := []struct {
		name  string
		value string
	}{
		{"ghost tag", cfg.Ghosts.Tag},
		{"ordinal prefix", cfg.Ghosts.OrdinalPrefix},
		{"cursor objective", cfg.Navigation.CursorObjective},
		{"index objective", cfg.Navigation.IndexObjective},
		{"use objective", cfg.Navigation.UseObjective},
		{"last use objective", cfg.Navigation.LastUseObjective},
	}
	for _, id := range identifiers {
		if err := ValidateIdentifier(id.value); err != nil {
			return fmt.Errorf("invalid %s: %w", id.name, err)
		}
	}

	if cfg.Mojang.SessionURL == "" || cfg.Mojang.APIURL == "" {
		return fmt.Errorf("mojang URLs cannot be empty")
	}

	if cfg.Mojang.BatchSize < 1 || cfg.Mojang.BatchSize > 100 {
		return fmt.Errorf("batch size must be between 1 and 100, got %d", cfg.Mojang.BatchSize)
	}

	if cfg.Mojang.BatchDelay < 0 || cfg.Mojang.BatchBackoff < 0 {
		return fmt.Errorf("batch delays cannot be negative")
	}

	if cfg.Mojang.RateLimit < 1 {
		return fmt.Errorf("rate limit must be at least 1, got %d", cfg.Mojang.RateLimit)
	}

	return nil
}
