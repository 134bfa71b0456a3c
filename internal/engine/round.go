package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
)

// Phase is the round/boss state machine position.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseInRound
	PhaseBossPending
	PhaseBossFight
	PhaseRoundCleared
	PhaseUpgrade
	PhaseGameOver
)

var phaseNames = [...]string{
	PhaseMenu:         "menu",
	PhaseInRound:      "in-round",
	PhaseBossPending:  "boss-pending",
	PhaseBossFight:    "boss-fight",
	PhaseRoundCleared: "round-cleared",
	PhaseUpgrade:      "upgrade",
	PhaseGameOver:     "game-over",
}

func (p Phase) String() string {
	if int(p) >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("engine: unknown phase %q", text)
}

// RoundState tracks progress toward the boss wave.
type RoundState struct {
	Round      int  `json:"round"`
	Killed     int  `json:"killed"`
	Needed     int  `json:"needed"`
	InProgress bool `json:"inProgress"`
	BossActive bool `json:"bossActive"`
	// CurrentBoss is for display only. Gameplay always recounts the live
	// boss-pattern enemies.
	CurrentBoss EntityID `json:"currentBoss,omitempty"`
}

// onRegularKill counts a kill toward the quota and starts the boss wave
// when it is met.
func (e *Engine) onRegularKill(now time.Time) {
	e.round.Killed++
	if e.phase == PhaseInRound && !e.round.BossActive && e.round.Killed >= e.round.Needed {
		e.phase = PhaseBossPending
		e.spawnBosses(now)
	}
}

// liveBosses returns the boss-pattern enemies still alive, in order.
func (e *Engine) liveBosses() []*Enemy {
	var out []*Enemy
	for _, en := range e.enemies {
		if en.IsBoss() && en.Alive() {
			out = append(out, en)
		}
	}
	return out
}

// onBossKilled fires the round-clear transition when the last boss of the
// wave dies.
func (e *Engine) onBossKilled(now time.Time) {
	bosses := e.liveBosses()
	if len(bosses) > 0 {
		e.round.CurrentBoss = bosses[0].ID
		return
	}
	e.bossDefeated(now)
}

func (e *Engine) bossDefeated(now time.Time) {
	if e.phase != PhaseBossFight {
		return
	}
	e.round.BossActive = false
	e.round.InProgress = false
	e.round.CurrentBoss = 0
	e.phase = PhaseRoundCleared

	bonus := e.cfg.Rounds.BossBonus * e.round.Round
	e.addScore(bonus)

	center := core.Vec2{X: e.cfg.World.Width / 2, Y: e.cfg.World.Height / 2}
	colors := []core.Color{core.ColorYellow, core.ColorRed, core.ColorCyan, core.ColorMagenta}
	for i := 0; i < e.cfg.Rounds.CelebrationBursts; i++ {
		e.fx.burst(e.rng, now, center, 1, 4, 6, colors[e.rng.Intn(len(colors))])
	}

	e.emit(Event{Type: EventBossDefeated, Pos: center, Value: bonus})
	e.sched.schedule(deferred{
		Due:    now.Add(config.Millis(e.cfg.Rounds.UpgradeDelayMS)),
		RunID:  e.runID,
		Phase:  PhaseRoundCleared,
		Action: actionShowUpgrades,
	})
	e.log.Info("boss wave defeated", "round", e.round.Round, "bonus", bonus, "score", e.score)
}

// runDeferred fires due transitions whose run and phase guards still hold.
func (e *Engine) runDeferred(now time.Time) {
	for _, d := range e.sched.due(now) {
		if d.RunID != e.runID || d.Phase != e.phase {
			e.log.Debug("dropped stale transition", "action", d.Action, "run", d.RunID, "phase", d.Phase)
			continue
		}
		switch d.Action {
		case actionShowUpgrades:
			e.showUpgrades(now)
		case actionNextRound:
			e.startNextRound(now)
		}
	}
}

func (e *Engine) showUpgrades(now time.Time) {
	e.offer = rollOffer(e.rng, e.cfg, e.upgrades, e.cfg.Upgrades.OfferCount)
	e.picked = false
	if len(e.offer) == 0 {
		e.log.Debug("every upgrade maxed, skipping offer")
		e.startNextRound(now)
		return
	}
	e.phase = PhaseUpgrade
	for _, k := range e.offer {
		e.emit(Event{Type: EventUpgradeOffered, Label: string(k), Value: e.upgrades[k]})
	}
}

// SelectUpgrade applies one of the offered upgrades. It is a no-op
// returning false outside the upgrade phase, for a kind that was not
// offered, or after a pick was already made this round.
func (e *Engine) SelectUpgrade(kind UpgradeKind) bool {
	if e.phase != PhaseUpgrade || e.picked {
		return false
	}
	offered := false
	for _, k := range e.offer {
		if k == kind {
			offered = true
			break
		}
	}
	if !offered || e.upgrades[kind] >= e.cfg.UpgradeCap(string(kind)) {
		e.log.Debug("rejected upgrade pick", "kind", kind, "offer", fmt.Sprint(e.offer))
		return false
	}

	e.upgrades[kind]++
	e.picked = true
	e.applyUpgrades()
	e.emit(Event{Type: EventUpgradeApplied, Label: string(kind), Value: e.upgrades[kind]})
	e.sched.schedule(deferred{
		Due:    e.now.Add(config.Millis(e.cfg.Rounds.NextRoundDelayMS)),
		RunID:  e.runID,
		Phase:  PhaseUpgrade,
		Action: actionNextRound,
	})
	e.log.Info("upgrade applied", "kind", kind, "level", e.upgrades[kind])
	return true
}

// Offer returns the upgrade kinds currently offered.
func (e *Engine) Offer() []UpgradeKind {
	return append([]UpgradeKind(nil), e.offer...)
}

func (e *Engine) startNextRound(now time.Time) {
	r := e.round.Round + 1
	e.round = RoundState{
		Round:      r,
		Needed:     e.cfg.Rounds.EnemiesNeeded(r),
		InProgress: true,
	}
	e.diff = e.cfg.Rounds.Difficulty(e.mapCfg, r)
	e.spawnRate = e.diff.SpawnRate
	e.offer, e.picked = nil, false
	e.applyUpgrades()
	e.phase = PhaseInRound

	e.emit(Event{Type: EventRoundStarted, Value: r})
	e.log.Info("round started", "round", r, "needed", e.round.Needed,
		"spawnRate", e.spawnRate, "speed", e.diff.SpeedMultiplier)
}

func (e *Engine) gameOver() {
	e.phase = PhaseGameOver
	e.paused = false
	e.sched.reset()
	if e.player != nil {
		e.player.Health = 0
	}
	e.emit(Event{Type: EventGameOver, Value: e.score})
	e.log.Info("game over", "map", e.mapCfg.ID, "score", e.score, "round", e.round.Round)
	e.persistRun()
}

func (e *Engine) persistRun() {
	if e.score > e.bestScore {
		e.bestScore = e.score
		if e.store != nil {
			if err := e.store.SetBestScore(e.mapCfg.ID, e.score); err != nil {
				e.log.Warn("cannot save best score", "map", e.mapCfg.ID, "err", err)
			}
		}
	}
	if rec, ok := e.store.(RunRecorder); ok {
		run := RunSummary{
			MapID:  e.mapCfg.ID,
			Score:  e.score,
			Round:  e.round.Round,
			Level:  e.level,
			Kills:  e.kills,
			Frames: e.frames,
		}
		if err := rec.SaveRun(run); err != nil {
			e.log.Warn("cannot save run", "map", e.mapCfg.ID, "err", err)
		}
	}
}
