package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) error: %v", err)
	}
	def := Default()

	if cfg.World != def.World {
		t.Errorf("World = %+v, expected %+v", cfg.World, def.World)
	}
	if cfg.Player != def.Player {
		t.Errorf("Player = %+v, expected %+v", cfg.Player, def.Player)
	}
	if len(cfg.Maps) != len(def.Maps) {
		t.Fatalf("len(Maps) = %d, expected %d", len(cfg.Maps), len(def.Maps))
	}
	for i := range def.Maps {
		if cfg.Maps[i] != def.Maps[i] {
			t.Errorf("Maps[%d] = %+v, expected %+v", i, cfg.Maps[i], def.Maps[i])
		}
	}
	for i := range def.Bosses {
		if cfg.Bosses[i] != def.Bosses[i] {
			t.Errorf("Bosses[%d] = %+v, expected %+v", i, cfg.Bosses[i], def.Bosses[i])
		}
	}
	for i := range def.Enemies {
		if cfg.Enemies[i] != def.Enemies[i] {
			t.Errorf("Enemies[%d] = %+v, expected %+v", i, cfg.Enemies[i], def.Enemies[i])
		}
	}
	if cfg.PowerUpDuration("shield") != def.PowerUpDuration("shield") {
		t.Errorf("shield duration = %v, expected %v", cfg.PowerUpDuration("shield"), def.PowerUpDuration("shield"))
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strike.yaml")
	doc := "player:\n  lives: 3\ndefault_map: nebula\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Player.Lives != 3 {
		t.Errorf("Player.Lives = %d, expected 3", cfg.Player.Lives)
	}
	if cfg.DefaultMap != "nebula" {
		t.Errorf("DefaultMap = %q, expected nebula", cfg.DefaultMap)
	}
	// Untouched sections keep defaults
	if cfg.Player.Width != 140 {
		t.Errorf("Player.Width = %v, expected 140", cfg.Player.Width)
	}
	if len(cfg.Bosses) != 3 {
		t.Errorf("len(Bosses) = %d, expected 3", len(cfg.Bosses))
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("default_map: nowhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "nowhere") {
		t.Errorf("Load() error = %v, expected unknown default map", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.World.Width = 0 }, false},
		{"no lives", func(c *Config) { c.Player.Lives = 0 }, false},
		{"no maps", func(c *Config) { c.Maps = nil }, false},
		{"no enemies", func(c *Config) { c.Enemies = nil }, false},
		{"only elite bosses", func(c *Config) { c.Bosses = c.Bosses[2:] }, false},
		{"bad pattern", func(c *Config) { c.Enemies[0].Pattern = "spiral" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.valid {
				t.Errorf("Validate() = %v, expected valid=%v", err, tc.valid)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		lives     int
		spaceRate int
	}{
		{DifficultyEasy, 35, 2500},
		{DifficultyNormal, 25, 2000},
		{DifficultyHard, 15, 1600},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := Default()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Player.Lives != tc.lives {
				t.Errorf("Lives = %d, expected %d", cfg.Player.Lives, tc.lives)
			}
			m, _ := cfg.Map("space")
			if m.SpawnRateMS != tc.spaceRate {
				t.Errorf("space SpawnRateMS = %d, expected %d", m.SpawnRateMS, tc.spaceRate)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v, expected normal", p, err)
	}
	if p, err := ParsePreset("hard"); err != nil || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) should fail")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error: %v", err)
	}
	if cfg.DefaultMap != "space" || cfg.Player.Lives != 25 {
		t.Errorf("round trip lost values: map=%q lives=%d", cfg.DefaultMap, cfg.Player.Lives)
	}
}
