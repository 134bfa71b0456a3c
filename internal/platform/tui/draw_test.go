package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func startedEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.New(config.Default(), engine.WithSeed(7))
	if err := eng.StartGame("space", epoch); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	return eng
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, max float64
		expected   string
	}{
		{0, 10, "[..........]"},
		{5, 10, "[#####.....]"},
		{10, 10, "[##########]"},
		{15, 10, "[##########]"},
		{3, 0, "[..........]"},
	}

	for _, tt := range tests {
		if got := bar(tt.value, tt.max, 10); got != tt.expected {
			t.Errorf("bar(%v, %v) = %q, expected %q", tt.value, tt.max, got, tt.expected)
		}
	}
}

func TestDrawSnapshotHUD(t *testing.T) {
	eng := startedEngine(t)
	cfg := eng.Config()
	scr := core.NewScreen(100, 30)

	DrawSnapshot(scr, eng.Snapshot(), &cfg)

	top := scr.Row(0)
	for _, want := range []string{"SCORE 0", "LIVES 25", "ROUND 1", "KILLS 0/", "HP ["} {
		if !strings.Contains(top, want) {
			t.Errorf("top row %q missing %q", top, want)
		}
	}
	if bottom := scr.Row(29); !strings.Contains(bottom, "CHARGE [") {
		t.Errorf("bottom row %q missing charge meter", bottom)
	}
	if !strings.Contains(scr.String(), "^") {
		t.Error("player ship not drawn")
	}
}

func TestDrawSnapshotStaysInPlayfield(t *testing.T) {
	snap := engine.Snapshot{
		Phase:  engine.PhaseInRound,
		Width:  1280,
		Height: 720,
		Enemies: []engine.Enemy{
			// Partly above the world, as spawns are.
			{Kind: 1, Pattern: engine.PatternStraight, Box: core.NewBox(1100, -30, 75, 75), Health: 1, MaxHealth: 1},
		},
	}
	cfg := config.Default()
	scr := core.NewScreen(80, 24)

	DrawSnapshot(scr, snap, &cfg)

	for x := 60; x < 80; x++ {
		if scr.Get(x, 0) == 'V' {
			t.Fatalf("enemy overwrote the HUD row at column %d", x)
		}
	}
	if !strings.ContainsRune(scr.Row(1), 'V') {
		t.Error("visible part of the enemy not drawn")
	}
}

func TestDrawOverlays(t *testing.T) {
	cfg := config.Default()
	base := engine.Snapshot{Width: 1280, Height: 720, Round: 2, Score: 340, BestScore: 900}

	tests := []struct {
		name   string
		mutate func(*engine.Snapshot)
		want   string
	}{
		{"paused", func(s *engine.Snapshot) { s.Phase = engine.PhaseInRound; s.Paused = true }, "PAUSED"},
		{"game over", func(s *engine.Snapshot) { s.Phase = engine.PhaseGameOver }, "GAME OVER"},
		{"round cleared", func(s *engine.Snapshot) { s.Phase = engine.PhaseRoundCleared }, "BOSS DEFEATED!"},
		{"upgrade picker", func(s *engine.Snapshot) {
			s.Phase = engine.PhaseUpgrade
			s.Offer = []engine.UpgradeKind{engine.UpgradeDamage, engine.UpgradeSpread}
			s.Upgrades = engine.UpgradeLevels{engine.UpgradeSpread: 2}
		}, "2) spread"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := base
			tt.mutate(&snap)
			scr := core.NewScreen(80, 24)
			DrawSnapshot(scr, snap, &cfg)
			if !strings.Contains(scr.String(), tt.want) {
				t.Errorf("screen missing %q:\n%s", tt.want, scr.String())
			}
		})
	}
}

func TestDrawUpgradeShowsLevels(t *testing.T) {
	cfg := config.Default()
	snap := engine.Snapshot{
		Phase:    engine.PhaseUpgrade,
		Width:    1280,
		Height:   720,
		Offer:    []engine.UpgradeKind{engine.UpgradeHoming},
		Upgrades: engine.UpgradeLevels{engine.UpgradeHoming: 1},
	}
	scr := core.NewScreen(90, 24)

	DrawSnapshot(scr, snap, &cfg)

	want := fmt.Sprintf("Lv 1/%d", cfg.UpgradeCap("homing"))
	if !strings.Contains(scr.String(), want) {
		t.Errorf("screen missing %q", want)
	}
	if !strings.Contains(scr.String(), engine.UpgradeHoming.Description()) {
		t.Error("screen missing upgrade description")
	}
	if !strings.Contains(scr.String(), "B: Maps") {
		t.Error("upgrade panel should offer the way back to the maps")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	scr := core.NewScreen(20, 2)
	scr.DrawTextColored(0, 0, "HELLO", core.ColorRed)
	scr.DrawText(6, 0, "WORLD")

	out := RenderScreen(scr)
	if !strings.Contains(out, "HELLO") || !strings.Contains(out, "WORLD") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("RenderScreen() has %d newlines, expected 1", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(3600, 60); got != "1m0s" {
		t.Errorf("formatDuration(3600, 60) = %q, expected 1m0s", got)
	}
	if got := formatDuration(90, 0); got != "2s" {
		t.Errorf("formatDuration(90, 0) = %q, expected 2s", got)
	}
}
