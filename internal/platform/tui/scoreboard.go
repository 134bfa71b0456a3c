package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/storage"
)

const (
	boardRunLimit = 50
	// rows taken by title, stats, map strip, detail line, help and borders
	boardChrome = 11
)

// boardView selects which run list the scoreboard shows.
type boardView int

const (
	viewBest   boardView = iota // best runs of the selected map
	viewRecent                  // latest runs over every map
)

// boardKeys are the scoreboard bindings; they double as the help model.
type boardKeys struct {
	Up      key.Binding
	Down    key.Binding
	NextMap key.Binding
	PrevMap key.Binding
	Toggle  key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMap, k.PrevMap, k.Toggle, k.Back}
}

func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

func newBoardKeys() boardKeys {
	bind := func(label, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
	}
	return boardKeys{
		Up:      bind("↑/k", "up", "up", "k"),
		Down:    bind("↓/j", "down", "down", "j"),
		NextMap: bind("tab/→", "next map", "tab", "right", "l"),
		PrevMap: bind("S-tab/←", "prev map", "shift+tab", "left", "h"),
		Toggle:  bind("r", "best/recent", "r"),
		Back:    bind("esc/b", "back", "esc", "b"),
		Quit:    bind("q", "quit", "q", "ctrl+c"),
	}
}

var (
	boardTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardActiveStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Padding(0, 1)
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ScoreboardModel lists recorded runs, either the best per map or the most
// recent over all maps.
type ScoreboardModel struct {
	store    *storage.Store
	maps     []config.MapConfig
	mapIdx   int
	view     boardView
	runs     []storage.RunEntry
	stats    storage.MapStats
	tickRate int

	table table.Model
	help  help.Model
	keys  boardKeys

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel opens the board on the first map. A nil store shows an
// empty board.
func NewScoreboardModel(store *storage.Store, maps []config.MapConfig, tickRate, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:    store,
		maps:     maps,
		tickRate: tickRate,
		help:     help.New(),
		keys:     newBoardKeys(),
		width:    width,
		height:   height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 9},
		{Title: "Round", Width: 6},
		{Title: "Lv", Width: 4},
		{Title: "Kills", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "Date", Width: 13},
	}
	if m.view == viewRecent {
		cols = slices.Insert(cols, 1, table.Column{Title: "Map", Width: 10})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, 3)),
		table.WithStyles(styles),
	)
}

// reload fetches the run list for the current view and refills the table.
func (m *ScoreboardModel) reload() {
	m.runs = nil
	m.stats = storage.MapStats{}
	mapID := m.mapID()
	if m.store != nil {
		var (
			runs []storage.RunEntry
			err  error
		)
		if m.view == viewRecent {
			runs, err = m.store.RecentRuns(boardRunLimit)
		} else if mapID != "" {
			runs, err = m.store.TopRuns(mapID, boardRunLimit)
		}
		if err == nil {
			m.runs = runs
		}
		if mapID != "" {
			if st, err := m.store.MapStats(mapID); err == nil {
				m.stats = st
			}
		}
	}

	rows := make([]table.Row, 0, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Round),
			strconv.Itoa(r.Level),
			strconv.Itoa(r.Kills),
			formatDuration(r.Frames, m.tickRate),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
		if m.view == viewRecent {
			row = slices.Insert(row, 1, m.mapName(r.MapID))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) mapID() string {
	if len(m.maps) == 0 {
		return ""
	}
	return m.maps[m.mapIdx].ID
}

func (m ScoreboardModel) mapName(id string) string {
	for _, mp := range m.maps {
		if mp.ID == id {
			return mp.Name
		}
	}
	return id
}

// shiftMap moves the map selection by delta, wrapping around.
func (m *ScoreboardModel) shiftMap(delta int) {
	if len(m.maps) == 0 {
		return
	}
	m.mapIdx = (m.mapIdx + delta + len(m.maps)) % len(m.maps)
	m.reload()
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMap):
			m.shiftMap(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMap):
			m.shiftMap(-1)
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.table = m.newTable()
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "RECENT RUNS"
	if m.view == viewBest {
		title = "HIGH SCORES"
		if len(m.maps) > 0 {
			title += " - " + m.maps[m.mapIdx].Name
		}
	}

	var b strings.Builder
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(boardDimStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.mapStrip(), m.width))
	b.WriteString("\n\n")

	body := m.table.View()
	if len(m.runs) == 0 {
		body = boardDimStyle.Italic(true).Padding(1, 4).
			Render("No runs recorded yet.\nFinish a run to get on the board.")
	}
	b.WriteString(centerText(boardFrameStyle.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.detailLine(), m.width))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// mapStrip renders the map names as tabs, falling back to "< name >" when
// they do not fit.
func (m ScoreboardModel) mapStrip() string {
	if len(m.maps) == 0 {
		return ""
	}
	tabs := make([]string, len(m.maps))
	for i, mp := range m.maps {
		if i == m.mapIdx {
			tabs[i] = boardActiveStyle.Render(mp.Name)
		} else {
			tabs[i] = boardDimStyle.Render(" " + mp.Name + " ")
		}
	}
	strip := strings.Join(tabs, " ")
	if lipgloss.Width(strip) > m.width-4 {
		strip = fmt.Sprintf("< %s >", m.maps[m.mapIdx].Name)
	}
	return strip
}

// statsLine summarizes every recorded run on the selected map.
func (m ScoreboardModel) statsLine() string {
	st := m.stats
	if st.Runs == 0 {
		return "no runs on this map"
	}
	return fmt.Sprintf("%d runs  |  best %d  |  avg %.0f  |  furthest round %d  |  %d kills",
		st.Runs, st.BestScore, st.AvgScore, st.BestRound, st.TotalKills)
}

// detailLine describes the highlighted run.
func (m ScoreboardModel) detailLine() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return ""
	}
	r := m.runs[i]
	return boardDimStyle.Render(fmt.Sprintf("%s: %d points, reached round %d at level %d, %d kills in %s",
		m.mapName(r.MapID), r.Score, r.Round, r.Level, r.Kills, formatDuration(r.Frames, m.tickRate)))
}

// IsGoingBack reports whether the board was closed with back.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the board in its own program and reports whether the
// user went back to the menu.
func RunScoreboard(store *storage.Store, maps []config.MapConfig, tickRate, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(
		NewScoreboardModel(store, maps, tickRate, width, height),
		tea.WithAltScreen(),
	).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
