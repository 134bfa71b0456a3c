package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
)

// MenuItem is a selectable map in the menu.
type MenuItem struct {
	MapID       string
	Title       string
	Description string
	BestScore   int
	Locked      bool
	Speed       float64 // enemy speed multiplier
	Score       float64 // score multiplier
}

// MenuModel is the Bubble Tea model for the map picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	difficulty     string
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	notice         string
	quitting       bool
	selected       *MenuItem // Set when user selects a map
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel builds the menu from the engine's maps. The cursor starts
// on lastMap when it is listed.
func NewMenuModel(eng *engine.Engine, cfg core.RuntimeConfig, difficulty, lastMap string) MenuModel {
	maps := eng.Maps()
	items := make([]MenuItem, 0, len(maps))
	cursor := 0
	for i, m := range maps {
		items = append(items, MenuItem{
			MapID:       m.ID,
			Title:       m.Name,
			Description: m.Description,
			BestScore:   m.BestScore,
			Locked:      !m.Unlocked,
			Speed:       m.SpeedMultiplier,
			Score:       m.ScoreMultiplier,
		})
		if m.ID == lastMap {
			cursor = i
		}
	}
	if difficulty == "" {
		difficulty = "normal"
	}

	return MenuModel{
		items:      items,
		cursor:     cursor,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		difficulty: difficulty,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, len(m.items)-1)

	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, len(m.items)-1)

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		if selected.Locked {
			m.notice = selected.Title + " is locked"
			return m, nil
		}
		m.selected = &selected
		return m, tea.Quit // Exit menu to start the run

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	menuLockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("S T A R   S T R I K E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a map  (difficulty: "+m.difficulty+")", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-12s best %6d", cursor, item.Title, item.BestScore)
		switch {
		case item.Locked:
			line = menuLockedStyle.Render(line + "  [locked]")
		case i == m.cursor:
			line = menuActiveStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		cur := m.items[m.cursor]
		b.WriteString("\n")
		b.WriteString(centerText(cur.Description, m.width))
		b.WriteString("\n")
		b.WriteString(centerText(menuHintStyle.Render(
			fmt.Sprintf("enemy speed x%.1f  |  score x%.1f", cur.Speed, cur.Score)), m.width))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(menuNoticeStyle.Render(m.notice), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuHintStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	MapID           string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the map picker in its own program.
func RunMenu(eng *engine.Engine, cfg core.RuntimeConfig, difficulty, lastMap string) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(eng, cfg, difficulty, lastMap), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	res := MenuResult{Config: m.Config(), WantsScoreboard: m.WantsScoreboard()}
	switch sel := m.Selected(); {
	case res.WantsScoreboard:
	case sel != nil:
		res.MapID = sel.MapID
	default:
		res.Quit = true
	}
	return res, nil
}
