package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/mapping"
)

// MappingRecord is the on-disk shape of one button mapping.
type MappingRecord struct {
	ID           string `json:"id"`
	Button       int    `json:"button"`
	KeyCode      int    `json:"key_code"`
	ModifierMask int    `json:"modifier_mask"`
}

type Config struct {
	Enabled          bool            `json:"enabled"`
	SuppressOriginal bool            `json:"suppress_original"`
	ToggleHotkey     string          `json:"toggle_hotkey"`
	RunAtLogin       bool            `json:"run_at_login"`
	LogLevel         string          `json:"log_level"`
	Mappings         []MappingRecord `json:"mappings"`
}

// Default returns the out-of-the-box configuration. It is also the fallback
// when the config file on disk cannot be parsed.
func Default() *Config {
	return &Config{
		Enabled:          true,
		SuppressOriginal: true,
		ToggleHotkey:     "ctrl+alt+b",
		RunAtLogin:       false,
		LogLevel:         "info",
	}
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()
	cfg := Default()

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToMappings decodes the persisted records, treating an invalid record as
// "no mapping": reserved buttons and negative fields are dropped, a missing
// id is assigned.
func (c *Config) ToMappings() []mapping.ButtonMapping {
	out := make([]mapping.ButtonMapping, 0, len(c.Mappings))
	for _, rec := range c.Mappings {
		if rec.Button < event.MinMappable || rec.KeyCode < 0 || rec.ModifierMask < 0 {
			continue
		}
		id := rec.ID
		if id == "" {
			id = mapping.NewID()
		}
		out = append(out, mapping.ButtonMapping{
			ID:        id,
			Button:    rec.Button,
			KeyCode:   rec.KeyCode,
			Modifiers: mapping.Modifiers(rec.ModifierMask),
		})
	}
	return out
}

// SetMappings encodes the store snapshot for persistence.
func (c *Config) SetMappings(ms []mapping.ButtonMapping) {
	recs := make([]MappingRecord, 0, len(ms))
	for _, m := range ms {
		recs = append(recs, MappingRecord{
			ID:           m.ID,
			Button:       m.Button,
			KeyCode:      m.KeyCode,
			ModifierMask: int(m.Modifiers),
		})
	}
	c.Mappings = recs
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "clickchord", "config.json")
}
