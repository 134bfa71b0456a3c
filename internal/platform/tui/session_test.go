package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/storage"
)

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T, expected SessionModel", next)
	}
	return sm, cmd
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	eng := engine.New(config.Default(), engine.WithSeed(3))
	m := NewSessionModel(eng, nil, SessionOptions{Runtime: testRuntime})

	if !strings.Contains(m.View(), "S T A R") {
		t.Fatal("session should open on the menu")
	}

	m, cmd := sessionUpdate(t, m, keyMsg("enter"))
	if !m.InGame() || cmd == nil {
		t.Fatal("enter should start a run")
	}
	if eng.Phase() != engine.PhaseInRound {
		t.Errorf("engine phase = %v, expected in-round", eng.Phase())
	}

	m, _ = sessionUpdate(t, m, keyMsg("p"))
	m, _ = sessionUpdate(t, m, TickMsg(time.Now()))
	m, _ = sessionUpdate(t, m, keyMsg("b"))
	if m.InGame() {
		t.Fatal("b while paused should return to the menu")
	}
	if m.quitting {
		t.Error("returning to the menu must not end the session")
	}
	if eng.Phase() != engine.PhaseMenu {
		t.Errorf("engine phase = %v, expected menu", eng.Phase())
	}
}

func TestSessionScoreboard(t *testing.T) {
	m := NewSessionModel(engine.New(config.Default()), nil, SessionOptions{Runtime: testRuntime})

	m, _ = sessionUpdate(t, m, keyMsg("tab"))
	if m.screen != screenScoreboard {
		t.Fatalf("screen = %v, expected scoreboard", m.screen)
	}
	if !strings.Contains(m.View(), "HIGH SCORES") {
		t.Error("scoreboard view missing title")
	}

	m, _ = sessionUpdate(t, m, keyMsg("esc"))
	if m.screen != screenMenu || m.quitting {
		t.Error("esc on the scoreboard should return to the menu")
	}

	m, cmd := sessionUpdate(t, m, keyMsg("q"))
	if !m.quitting || cmd == nil || m.View() != "" {
		t.Error("q on the menu should end the session")
	}
}

func TestSessionUsesStoredLastMap(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	if err := store.SetSetting(engine.SettingLastMap, "galaxy"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}

	eng := engine.New(config.Default(), engine.WithStore(store))
	m := NewSessionModel(eng, store, SessionOptions{Runtime: testRuntime})
	if m.menu.cursor != 2 {
		t.Errorf("menu cursor = %d, expected 2 (galaxy)", m.menu.cursor)
	}

	m, _ = sessionUpdate(t, m, keyMsg("enter"))
	if !m.InGame() || eng.Snapshot().MapID != "galaxy" {
		t.Errorf("run map = %q, expected galaxy", eng.Snapshot().MapID)
	}
}
