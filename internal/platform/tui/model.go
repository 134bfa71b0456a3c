package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
)

// Publisher receives a snapshot after every simulated tick.
// The spectator hub implements it.
type Publisher interface {
	Publish(snap engine.Snapshot)
}

// GameOptions configures a GameModel.
type GameOptions struct {
	Runtime   core.RuntimeConfig
	Bell      bool // ring the terminal bell on boss arrival and life loss
	Publisher Publisher
	Logger    *log.Logger
	// Clock overrides time.Now for key hold tracking.
	Clock func() time.Time
}

// GameModel drives one engine from the Bubble Tea tick loop.
type GameModel struct {
	eng        *engine.Engine
	cfg        config.Config
	screen     *core.Screen
	runtime    core.RuntimeConfig
	keyMapper  *KeyMapper
	held       heldKeys
	inputFrame core.InputFrame
	publisher  Publisher
	logger     *log.Logger
	clock      func() time.Time
	bell       bool
	ring       bool
	state      engine.GameState
	quitting   bool
	backToMenu bool
}

// NewGameModel starts a run on mapID and wraps it in a model.
func NewGameModel(eng *engine.Engine, mapID string, opts GameOptions) (GameModel, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if err := eng.StartGame(mapID, opts.Clock()); err != nil {
		return GameModel{}, err
	}

	return GameModel{
		eng:        eng,
		cfg:        eng.Config(),
		screen:     core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		runtime:    opts.Runtime,
		keyMapper:  NewKeyMapper(),
		held:       newHeldKeys(),
		inputFrame: core.NewInputFrame(),
		publisher:  opts.Publisher,
		logger:     opts.Logger,
		clock:      opts.Clock,
		bell:       opts.Bell,
		state:      eng.State(),
	}, nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// World coordinates are independent of the terminal, so a resize
		// only changes the projection.
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.eng.ReturnToMenu()
		return m, tea.Quit
	}

	now := m.clock()
	switch action {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight, core.ActionFire:
		m.held.press(action, now)
	case core.ActionCharge, core.ActionPause:
		m.inputFrame.Set(action)
	case core.ActionMenu:
		if canLeaveRun(m.eng.State()) {
			m.eng.ReturnToMenu()
			m.backToMenu = true
			return m, tea.Quit
		}
	case core.ActionRestart, core.ActionConfirm:
		if m.state.GameOver {
			m.restart(now)
		}
	case core.ActionPick1, core.ActionPick2, core.ActionPick3:
		m.pick(action)
	}
	return m, nil
}

// canLeaveRun reports whether the menu key may abandon the run: only when
// the world is not moving under the player.
func canLeaveRun(st engine.GameState) bool {
	return st.GameOver || st.Paused || st.Phase == engine.PhaseUpgrade
}

func (m *GameModel) restart(now time.Time) {
	if err := m.eng.Restart(now); err != nil {
		m.logger.Warn("cannot restart", "err", err)
		return
	}
	m.held.reset()
	m.inputFrame.Clear()
	m.state = m.eng.State()
}

// pick selects an offered upgrade by its 1-based slot.
func (m *GameModel) pick(action core.Action) {
	idx, ok := action.PickIndex()
	if !ok || m.eng.Phase() != engine.PhaseUpgrade {
		return
	}
	offer := m.eng.Offer()
	if idx >= len(offer) {
		return
	}
	if !m.eng.SelectUpgrade(offer[idx]) {
		m.logger.Debug("upgrade rejected", "kind", offer[idx])
	}
}

// handleTick advances the engine to the tick's wall time.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	res := m.eng.Step(now, m.held.input(now, m.inputFrame))
	m.state = res.State
	m.ring = false
	for _, ev := range res.Events {
		switch ev.Type {
		case engine.EventBossSpawned, engine.EventLifeLost, engine.EventGameOver:
			m.ring = m.bell
		}
	}
	m.inputFrame.Clear()

	if m.publisher != nil {
		m.publisher.Publish(m.eng.Snapshot())
	}
	return m, tickCmd(m.runtime.TickRate)
}

// saveScreenshot writes the current frame as plain text.
func (m *GameModel) saveScreenshot() {
	DrawSnapshot(m.screen, m.eng.Snapshot(), &m.cfg)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".strike", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.eng.Snapshot().MapID, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	DrawSnapshot(m.screen, m.eng.Snapshot(), &m.cfg)
	out := RenderScreen(m.screen)
	if m.ring {
		out = "\a" + out
	}
	return out
}

// State returns the scalar game state after the last tick.
func (m GameModel) State() engine.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single run on mapID until the user quits or leaves to the menu.
// It reports whether the user asked for the menu.
func Run(eng *engine.Engine, mapID string, opts GameOptions) (bool, error) {
	model, err := NewGameModel(eng, mapID, opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	gm, ok := final.(GameModel)
	return ok && gm.BackToMenu(), nil
}
