package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/storage"
)

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Runtime    core.RuntimeConfig
	Difficulty string
	Publisher  Publisher
	Logger     *log.Logger
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenScoreboard
	screenGame
)

// SessionModel runs the whole flow in one program:
// menu -> game -> menu, with the scoreboard reachable from the menu.
type SessionModel struct {
	eng        *engine.Engine
	store      *storage.Store
	opts       SessionOptions
	screen     sessionScreen
	menu       MenuModel
	scoreboard ScoreboardModel
	gameModel  *GameModel
	quitting   bool
}

// NewSessionModel creates a session over an engine in the menu phase.
// store may be nil.
func NewSessionModel(eng *engine.Engine, store *storage.Store, opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := SessionModel{
		eng:   eng,
		store: store,
		opts:  opts,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.eng, m.opts.Runtime, m.opts.Difficulty, m.setting(engine.SettingLastMap))
}

// setting reads a stored setting, empty when unavailable.
func (m SessionModel) setting(key string) string {
	if m.store == nil {
		return ""
	}
	v, _, err := m.store.Setting(key)
	if err != nil {
		m.opts.Logger.Warn("cannot read setting", "key", key, "err", err)
	}
	return v
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.store, m.eng.Config().Maps, m.opts.Runtime.TickRate,
			m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		// The menu's tea.Quit is dropped: the session keeps running.
		gm, err := NewGameModel(m.eng, m.menu.Selected().MapID, GameOptions{
			Runtime:   m.opts.Runtime,
			Bell:      m.setting(engine.SettingBell) == "on",
			Publisher: m.opts.Publisher,
			Logger:    m.opts.Logger,
		})
		if err != nil {
			m.opts.Logger.Warn("cannot start run", "err", err)
			m.menu = m.newMenu()
			return m, nil
		}
		m.gameModel = &gm
		m.screen = screenGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates while the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = board
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		m.screen = screenMenu
		m.gameModel = nil
		// Fresh menu so best scores reflect the finished run.
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScoreboard:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// InGame reports whether a run is on screen.
func (m SessionModel) InGame() bool {
	return m.screen == screenGame
}
