package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
)

// spawnRegular adds one regular enemy when the spawn interval has elapsed.
// Regular spawning runs only while a round is in progress without a boss.
func (e *Engine) spawnRegular(now time.Time) {
	if e.phase != PhaseInRound || e.round.BossActive || !e.round.InProgress {
		return
	}
	interval := e.cfg.Spawn.Interval(e.spawnRate, e.level)
	if now.Sub(e.lastSpawn) <= interval {
		return
	}
	e.lastSpawn = now

	tmpl := e.cfg.Enemies[e.rng.Intn(len(e.cfg.Enemies))]
	e.enemies = append(e.enemies, e.newRegular(tmpl, now))
}

// newRegular instantiates a template with randomized speed and position,
// scaled by the round multipliers.
func (e *Engine) newRegular(tmpl config.EnemyConfig, now time.Time) *Enemy {
	w := e.cfg.World.Width
	speed := e.rng.Range(tmpl.SpeedMin, tmpl.SpeedSpread) * e.diff.SpeedMultiplier
	x := e.rng.Float64() * math.Max(0, w-tmpl.Size)

	drift := &DriftState{}
	if Pattern(tmpl.Pattern) == PatternZigzag {
		drift.Direction = e.rng.Sign()
	}
	if tmpl.ShootMS > 0 {
		cooldown := config.Millis(tmpl.ShootMS) +
			time.Duration(e.rng.Float64()*float64(config.Millis(tmpl.ShootSpreadMS)))
		drift.Gun = &Gun{Cooldown: cooldown}
	}

	return &Enemy{
		ID:         e.newID(),
		Kind:       tmpl.Kind,
		Name:       tmpl.Name,
		Pattern:    Pattern(tmpl.Pattern),
		Box:        core.NewBox(x, -tmpl.Size, tmpl.Size, tmpl.Size),
		Speed:      speed,
		Health:     tmpl.Health,
		MaxHealth:  tmpl.Health,
		ScoreValue: int(math.Floor(float64(tmpl.Score) * e.diff.ScoreMultiplier)),
		Drift:      drift,
	}
}

// spawnAnomaly rolls for an anomaly every period. The period restarts
// whether or not the roll succeeds.
func (e *Engine) spawnAnomaly(now time.Time) {
	ac := e.cfg.Anomaly
	if now.Sub(e.lastAnomaly) <= config.Millis(ac.PeriodMS) {
		return
	}
	e.lastAnomaly = now
	if !e.rng.Chance(ac.Chance) {
		return
	}
	fromLeft := e.rng.Intn(2) == 0
	e.enemies = append(e.enemies, e.newAnomaly(fromLeft))
}

// newAnomaly places an anomaly just off the left or right edge at a random
// height inside the central band.
func (e *Engine) newAnomaly(fromLeft bool) *Enemy {
	ac := e.cfg.Anomaly
	w, h := e.cfg.World.Width, e.cfg.World.Height
	y := h*(1-ac.Band)/2 + e.rng.Float64()*h*ac.Band

	x, dir := -ac.EntryOffset, 1.0
	if !fromLeft {
		x, dir = w+ac.EntryOffset-ac.Size, -1.0
	}

	en := &Enemy{
		ID:         e.newID(),
		Name:       "anomaly",
		Pattern:    PatternAnomaly,
		Box:        core.NewBox(x, y, ac.Size, ac.Size),
		Speed:      e.rng.Range(ac.SpeedMin, ac.SpeedSpread),
		Health:     ac.Health,
		MaxHealth:  ac.Health,
		ScoreValue: ac.Score,
		Anomaly:    &AnomalyState{Direction: dir, Phase: AnomalyDrifting},
	}
	e.log.Debug("anomaly incoming", "id", en.ID, "fromLeft", fromLeft, "y", int(y))
	return en
}

// spawnBosses creates the boss wave for the current round and enters the
// boss fight.
func (e *Engine) spawnBosses(now time.Time) {
	if e.phase != PhaseBossPending {
		return
	}
	arch := e.pickArchetype()
	n := e.cfg.Rounds.BossCount(e.round.Round)
	health := e.cfg.Rounds.BossHealth(arch.Health, e.round.Round)
	w := e.cfg.World.Width

	var first EntityID
	for i := 0; i < n; i++ {
		x := (w - arch.Size) / 2
		if n > 1 {
			spacing := w / float64(n+1)
			x = core.ClampF(spacing*float64(i+1)-arch.Size/2, 0, math.Max(0, w-arch.Size))
		}
		name := arch.Name
		if n > 1 {
			name = fmt.Sprintf("%s %d", arch.Name, i+1)
		}

		boss := &Enemy{
			ID:         e.newID(),
			Name:       name,
			Pattern:    PatternBoss,
			Box:        core.NewBox(x, -arch.Size-50*float64(i), arch.Size, arch.Size),
			Speed:      arch.Speed,
			Health:     health,
			MaxHealth:  health,
			ScoreValue: int(math.Floor(float64(arch.Score) * e.diff.ScoreMultiplier)),
			Boss: &BossState{
				Archetype:       arch.ID,
				Index:           i,
				Damage:          arch.Damage,
				MovementTimer:   math.Pi * float64(i),
				ShootCooldown:   config.Millis(arch.ShootCooldownMS + 200*i),
				SpecialCooldown: config.Millis(arch.SpecialCooldownMS + 500*i),
				LastShot:        now,
				LastSpecial:     now,
			},
		}
		if first == 0 {
			first = boss.ID
		}
		e.enemies = append(e.enemies, boss)
		e.emit(Event{Type: EventBossSpawned, Enemy: boss.ID, Pos: boss.Box.Center(), Label: name})
	}

	e.round.BossActive = true
	e.round.CurrentBoss = first
	e.phase = PhaseBossFight
	e.log.Info("boss wave", "round", e.round.Round, "archetype", arch.ID, "count", n, "health", health)
}

// pickArchetype chooses uniformly among the normal archetypes, or among the
// elite ones from the elite round on.
func (e *Engine) pickArchetype() config.BossConfig {
	elite := e.round.Round >= e.cfg.Rounds.EliteRound
	var pool []config.BossConfig
	for _, b := range e.cfg.Bosses {
		if b.Elite == elite {
			pool = append(pool, b)
		}
	}
	if len(pool) == 0 {
		// No elite archetype configured; fall back to the normal ones.
		for _, b := range e.cfg.Bosses {
			if !b.Elite {
				pool = append(pool, b)
			}
		}
	}
	return pool[e.rng.Intn(len(pool))]
}

// maybeDrop rolls for a power-up pickup centered on pos.
func (e *Engine) maybeDrop(pos core.Vec2, chance float64) {
	if !e.rng.Chance(chance) {
		return
	}
	pc := e.cfg.PowerUps
	kind := PowerUpType(e.rng.Intn(int(PowerUpCount)))
	e.pickups = append(e.pickups, &PowerUp{
		Type:  kind,
		Box:   core.CenteredBox(pos.X, pos.Y, pc.Size, pc.Size),
		Speed: pc.DriftSpeed,
	})
}
