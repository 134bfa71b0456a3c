package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/storage"
)

var testRuntime = core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60}

// lockedConfig locks the last default map.
func lockedConfig() config.Config {
	cfg := config.Default()
	cfg.Maps[len(cfg.Maps)-1].Unlocked = false
	return cfg
}

func menuUpdate(t *testing.T, m MenuModel, msg tea.Msg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T, expected MenuModel", next)
	}
	return mm, cmd
}

func TestMenuListsMaps(t *testing.T) {
	cfg := config.Default()
	m := NewMenuModel(engine.New(cfg), testRuntime, "", "nebula")

	if len(m.items) != len(cfg.Maps) {
		t.Fatalf("items = %d, expected %d", len(m.items), len(cfg.Maps))
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected 1 (last map)", m.cursor)
	}
	if m.difficulty != "normal" {
		t.Errorf("difficulty = %q, expected normal", m.difficulty)
	}
	if view := m.View(); !strings.Contains(view, "Deep Space") || !strings.Contains(view, "Nebula") {
		t.Errorf("View() missing map names:\n%s", view)
	}
	if view := m.View(); !strings.Contains(view, "enemy speed x1.2  |  score x1.5") {
		t.Errorf("View() missing nebula tuning:\n%s", view)
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(engine.New(config.Default()), testRuntime, "hard", "")

	m, _ = menuUpdate(t, m, keyMsg("up"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected to stay at 0", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m, _ = menuUpdate(t, m, keyMsg("j"))
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, expected to stop at %d", m.cursor, len(m.items)-1)
	}

	m, cmd := menuUpdate(t, m, keyMsg("enter"))
	if m.Selected() == nil || m.Selected().MapID != "galaxy" || cmd == nil {
		t.Errorf("Selected() = %v, expected galaxy", m.Selected())
	}
}

func TestMenuLockedMap(t *testing.T) {
	m := NewMenuModel(engine.New(lockedConfig()), testRuntime, "", "galaxy")

	m, cmd := menuUpdate(t, m, keyMsg("enter"))
	if m.Selected() != nil || cmd != nil {
		t.Error("a locked map must not be selectable")
	}
	if !strings.Contains(m.View(), "is locked") {
		t.Error("View() should explain the map is locked")
	}

	// The notice clears on the next key.
	m, _ = menuUpdate(t, m, keyMsg("up"))
	if m.notice != "" {
		t.Errorf("notice = %q, expected cleared", m.notice)
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	eng := engine.New(config.Default())

	m, _ := menuUpdate(t, NewMenuModel(eng, testRuntime, "", ""), keyMsg("tab"))
	if !m.WantsScoreboard() {
		t.Error("tab should request the scoreboard")
	}

	m, _ = menuUpdate(t, NewMenuModel(eng, testRuntime, "", ""), keyMsg("q"))
	if !m.IsQuitting() || m.View() != "" {
		t.Error("q should quit")
	}

	m, _ = menuUpdate(t, NewMenuModel(eng, testRuntime, "", ""), tea.WindowSizeMsg{Width: 120, Height: 40})
	if c := m.Config(); c.ScreenW != 120 || c.ScreenH != 40 {
		t.Errorf("Config() = %dx%d, expected 120x40", c.ScreenW, c.ScreenH)
	}
}

func TestMenuShowsBestScores(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	if err := store.SetBestScore("nebula", 4321); err != nil {
		t.Fatalf("SetBestScore() error = %v", err)
	}

	m := NewMenuModel(engine.New(config.Default(), engine.WithStore(store)), testRuntime, "", "")
	if m.items[1].BestScore != 4321 {
		t.Errorf("nebula best = %d, expected 4321", m.items[1].BestScore)
	}
	if !strings.Contains(m.View(), "4321") {
		t.Error("View() should show the best score")
	}
}
