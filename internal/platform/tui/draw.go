package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
)

// Playfield rows start below the top HUD line and end above the bottom one.
const (
	hudTop    = 1
	hudBottom = 1
)

// Glyphs for regular enemy kinds, indexed by template kind.
var kindGlyphs = map[int]rune{
	1: 'V',
	2: 'Z',
	3: 'O',
	4: 'W',
	5: 'M',
	6: 'H',
}

// playfield maps world coordinates to screen cells.
type playfield struct {
	scr    *core.Screen
	sx, sy float64
}

func newPlayfield(scr *core.Screen, worldW, worldH float64) playfield {
	rows := max(1, scr.Height()-hudTop-hudBottom)
	return playfield{
		scr: scr,
		sx:  float64(scr.Width()) / worldW,
		sy:  float64(rows) / worldH,
	}
}

// rect converts a world box to a cell rectangle of at least one cell.
func (p playfield) rect(b core.Box) core.Rect {
	x := int(math.Floor(b.X * p.sx))
	y := int(math.Floor(b.Y*p.sy)) + hudTop
	w := max(1, int(math.Round(b.W*p.sx)))
	h := max(1, int(math.Round(b.H*p.sy)))
	return core.NewRect(x, y, w, h)
}

// cell converts a world point to a screen cell.
func (p playfield) cell(v core.Vec2) (int, int) {
	return int(math.Floor(v.X * p.sx)), int(math.Floor(v.Y*p.sy)) + hudTop
}

// set draws inside the playfield only, so nothing overwrites the HUD.
func (p playfield) set(x, y int, r rune, c core.Color) {
	if y < hudTop || y >= p.scr.Height()-hudBottom {
		return
	}
	p.scr.SetColored(x, y, r, c)
}

func (p playfield) fill(r core.Rect, ch rune, c core.Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			p.set(x, y, ch, c)
		}
	}
}

// DrawSnapshot renders one frame of the game onto the screen.
func DrawSnapshot(scr *core.Screen, snap engine.Snapshot, cfg *config.Config) {
	scr.Clear()
	if snap.Width <= 0 || snap.Height <= 0 {
		return
	}
	pf := newPlayfield(scr, snap.Width, snap.Height)

	drawEffects(pf, snap)
	for _, pu := range snap.PowerUpItems {
		drawPowerUp(pf, pu)
	}
	for _, en := range snap.Enemies {
		drawEnemy(pf, en)
	}
	for _, b := range snap.EnemyBullets {
		drawProjectile(pf, b)
	}
	for _, b := range snap.Bullets {
		drawProjectile(pf, b)
	}
	if snap.Player != nil {
		drawPlayer(pf, *snap.Player)
	}

	drawHUD(scr, snap)
	drawOverlay(scr, snap, cfg)
}

func drawPlayer(pf playfield, p engine.Player) {
	r := pf.rect(p.Box)
	c := core.ColorGreen
	if p.Shielded {
		c = core.ColorCyan
		if r.W >= 2 && r.H >= 2 {
			shield := core.NewRect(r.X-1, r.Y-1, r.W+2, r.H+2)
			pf.scr.DrawBox(shield, core.ColorCyan)
		}
	}

	// Nose, wings and body when there is room; a single glyph otherwise.
	if r.W < 3 || r.H < 2 {
		x, y := pf.cell(p.Box.Center())
		pf.set(x, y, 'A', c)
		return
	}
	mid := r.X + r.W/2
	pf.set(mid, r.Y, '^', c)
	for y := r.Y + 1; y < r.Bottom(); y++ {
		pf.set(r.X, y, '/', c)
		pf.set(r.Right()-1, y, '\\', c)
		for x := r.X + 1; x < r.Right()-1; x++ {
			pf.set(x, y, '=', c)
		}
	}
}

func drawEnemy(pf playfield, en engine.Enemy) {
	r := pf.rect(en.Box)
	switch en.Pattern {
	case engine.PatternBoss:
		pf.fill(r, '#', core.ColorRed)
		if r.W >= 2 && r.H >= 2 {
			pf.scr.DrawBox(r, core.ColorOrange)
		}
		name := en.Name
		if len(name) > r.W-2 {
			name = name[:max(0, r.W-2)]
		}
		pf.scr.DrawTextColored(r.X+(r.W-len(name))/2, r.Y+r.H/2, name, core.ColorWhite)
	case engine.PatternAnomaly:
		c := core.ColorMagenta
		if en.Anomaly != nil && en.Anomaly.Phase == engine.AnomalyCharging {
			c = core.ColorRed
		}
		pf.fill(r, '%', c)
	default:
		glyph, ok := kindGlyphs[en.Kind]
		if !ok {
			glyph = 'X'
		}
		c := core.ColorWhite
		if en.Drift != nil && en.Drift.Gun != nil {
			c = core.ColorYellow
		}
		if en.Health < en.MaxHealth {
			c = core.ColorOrange
		}
		pf.fill(r, glyph, c)
	}
}

func drawProjectile(pf playfield, b engine.Projectile) {
	x, y := pf.cell(b.Box.Center())
	switch {
	case b.ChargeShot:
		pf.fill(pf.rect(b.Box), '@', core.ColorOrange)
	case b.Owner == engine.OwnerPlayer && b.Spread && b.Dir.X < -0.01:
		pf.set(x, y, '\\', core.ColorYellow)
	case b.Owner == engine.OwnerPlayer && b.Spread && b.Dir.X > 0.01:
		pf.set(x, y, '/', core.ColorYellow)
	case b.Owner == engine.OwnerPlayer && b.Homing:
		pf.set(x, y, '*', core.ColorCyan)
	case b.Owner == engine.OwnerPlayer:
		pf.set(x, y, '|', core.ColorYellow)
	case b.Special:
		pf.set(x, y, '*', core.ColorMagenta)
	case b.Owner == engine.OwnerBoss:
		pf.set(x, y, 'o', core.ColorOrange)
	default:
		pf.set(x, y, 'o', core.ColorRed)
	}
}

func drawPowerUp(pf playfield, pu engine.PowerUp) {
	x, y := pf.cell(pu.Box.Center())
	c := core.ColorGreen
	switch pu.Type {
	case engine.PowerUpShield:
		c = core.ColorCyan
	case engine.PowerUpExtraDamage:
		c = core.ColorRed
	}
	pf.set(x, y, pu.Type.Glyph(), c)
}

func drawEffects(pf playfield, snap engine.Snapshot) {
	for _, p := range snap.Particles {
		x, y := pf.cell(p.Pos)
		pf.set(x, y, '.', p.Color)
	}
	for _, ex := range snap.Explosions {
		// Eight points on the ring.
		radius := ex.Size / 2
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			pt := core.Vec2{X: ex.Center.X + math.Cos(a)*radius, Y: ex.Center.Y + math.Sin(a)*radius}
			x, y := pf.cell(pt)
			pf.set(x, y, '*', core.ColorOrange)
		}
	}
	for _, h := range snap.Hits {
		if h.Alpha < 0.3 {
			continue
		}
		x, y := pf.cell(h.Box.Center())
		pf.set(x, y, '+', core.ColorMagenta)
	}
}

// drawHUD writes the score line on top and the resource line at the bottom.
func drawHUD(scr *core.Screen, snap engine.Snapshot) {
	top := fmt.Sprintf(" SCORE %d  BEST %d  LIVES %d  ROUND %d  KILLS %d/%d  LV %d",
		snap.Score, snap.BestScore, snap.Lives, snap.Round, snap.Killed, snap.Needed, snap.Level)
	scr.DrawTextColored(0, 0, top, core.ColorWhite)
	if snap.Player != nil {
		hp := fmt.Sprintf("HP %s ", bar(snap.Player.Health, snap.Player.MaxHealth, 10))
		scr.DrawTextColored(scr.Width()-len([]rune(hp)), 0, hp, core.ColorGreen)
	}

	y := scr.Height() - 1
	charge := fmt.Sprintf(" CHARGE %s", bar(snap.Charge.Value, snap.Charge.Max, 10))
	c := core.ColorGray
	if snap.Charge.Ready {
		charge += " READY"
		c = core.ColorYellow
	}
	scr.DrawTextColored(0, y, charge, c)

	x := len([]rune(charge)) + 2
	for _, st := range snap.PowerUps {
		if !st.Active {
			continue
		}
		label := fmt.Sprintf("%c %.1fs", st.Type.Glyph(), st.Remaining.Seconds())
		scr.DrawTextColored(x, y, label, core.ColorCyan)
		x += len(label) + 2
	}

	if snap.BossName != "" {
		boss := fmt.Sprintf("%s %s ", snap.BossName, bar(snap.BossHealth, snap.BossMaxHealth, 20))
		scr.DrawTextColored(scr.Width()-len([]rune(boss)), y, boss, core.ColorRed)
	}
}

// bar renders a fixed-width meter.
func bar(value, maxValue float64, width int) string {
	filled := 0
	if maxValue > 0 {
		filled = int(math.Round(core.ClampF(value/maxValue, 0, 1) * float64(width)))
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func drawOverlay(scr *core.Screen, snap engine.Snapshot, cfg *config.Config) {
	mid := scr.Height() / 2
	switch {
	case snap.Phase == engine.PhaseGameOver:
		drawPanel(scr, []string{
			"GAME OVER",
			"",
			fmt.Sprintf("Score %d   Best %d", snap.Score, snap.BestScore),
			fmt.Sprintf("Round %d   Level %d", snap.Round, snap.Level),
			"",
			"R: Restart  |  B: Maps  |  Q: Quit",
		}, core.ColorRed)
	case snap.Paused:
		drawPanel(scr, []string{
			"PAUSED",
			"",
			"P: Resume  |  B: Maps  |  Q: Quit",
		}, core.ColorYellow)
	case snap.Phase == engine.PhaseUpgrade:
		lines := []string{fmt.Sprintf("ROUND %d CLEARED - CHOOSE AN UPGRADE", snap.Round), ""}
		for i, k := range snap.Offer {
			lines = append(lines, fmt.Sprintf("%d) %-9s Lv %d/%d  %s",
				i+1, k, snap.Upgrades[k], cfg.UpgradeCap(string(k)), k.Description()))
		}
		lines = append(lines, "", "1-3: Pick  |  B: Maps  |  Q: Quit")
		drawPanel(scr, lines, core.ColorCyan)
	case snap.Phase == engine.PhaseRoundCleared:
		scr.DrawTextCentered(mid, "BOSS DEFEATED!", core.ColorYellow)
	case snap.Phase == engine.PhaseBossFight && snap.Frames%60 < 30 && len(snap.Enemies) > 0 && bossEntering(snap):
		scr.DrawTextCentered(mid, "WARNING: "+snap.BossName, core.ColorRed)
	}
}

// bossEntering reports whether any boss is still above the world.
func bossEntering(snap engine.Snapshot) bool {
	for _, en := range snap.Enemies {
		if en.Pattern == engine.PatternBoss && en.Box.Y < 0 {
			return true
		}
	}
	return false
}

// drawPanel draws centered lines inside a box.
func drawPanel(scr *core.Screen, lines []string, c core.Color) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2
	r := core.NewRect((scr.Width()-w)/2, (scr.Height()-h)/2, w, h)
	scr.FillRect(r, ' ', core.ColorDefault)
	scr.DrawBox(r, c)
	for i, l := range lines {
		scr.DrawTextCentered(r.Y+1+i, l, c)
	}
}

// formatDuration renders a run length for tables.
func formatDuration(frames uint64, tickRate int) string {
	if tickRate <= 0 {
		tickRate = 60
	}
	d := time.Duration(frames) * time.Second / time.Duration(tickRate)
	return d.Round(time.Second).String()
}
