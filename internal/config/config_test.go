package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clickchord/clickchord/internal/mapping"
)

func tempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	tempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Enabled || !cfg.SuppressOriginal {
		t.Errorf("defaults = enabled:%v suppress:%v, want both true", cfg.Enabled, cfg.SuppressOriginal)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q, want info", cfg.LogLevel)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Enabled = false
	cfg.SetMappings([]mapping.ButtonMapping{
		{ID: "a1", Button: 4, KeyCode: 40, Modifiers: mapping.ModCommand | mapping.ModShift},
		{ID: "b2", Button: 2, KeyCode: 11, Modifiers: mapping.ModControl},
	})
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Enabled {
		t.Error("enabled flag lost in round trip")
	}
	ms := loaded.ToMappings()
	if len(ms) != 2 {
		t.Fatalf("mappings = %d, want 2", len(ms))
	}
	want := mapping.ButtonMapping{ID: "a1", Button: 4, KeyCode: 40, Modifiers: mapping.ModCommand | mapping.ModShift}
	if ms[0] != want {
		t.Errorf("mapping[0] = %+v, want %+v", ms[0], want)
	}
}

func TestToMappingsDropsInvalidRecords(t *testing.T) {
	cfg := &Config{Mappings: []MappingRecord{
		{ID: "reserved", Button: 1, KeyCode: 40},
		{ID: "negative", Button: 4, KeyCode: -3},
		{Button: 5, KeyCode: 11}, // no id: assigned, kept
		{ID: "ok", Button: 3, KeyCode: 12, ModifierMask: 4},
	}}

	ms := cfg.ToMappings()
	if len(ms) != 2 {
		t.Fatalf("mappings = %d, want 2 (invalid records load as no mapping)", len(ms))
	}
	if ms[0].Button != 5 || ms[0].ID == "" {
		t.Errorf("mapping[0] = %+v, want button 5 with an assigned id", ms[0])
	}
	if ms[1].ID != "ok" || ms[1].Modifiers != mapping.ModShift {
		t.Errorf("mapping[1] = %+v, want id ok with shift", ms[1])
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	tempConfigDir(t)
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load accepted a malformed config file")
	}

	// The caller falls back to Default on a Load error; a corrupt file must
	// still leave the process with a working configuration.
	cfg := Default()
	if !cfg.Enabled || !cfg.SuppressOriginal || cfg.LogLevel != "info" {
		t.Errorf("Default() = %+v, want the out-of-the-box flags", cfg)
	}
	if cfg.ToggleHotkey == "" {
		t.Error("Default() has no toggle hotkey")
	}
}
