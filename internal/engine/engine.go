// Package engine is the shooter simulation: a single owned world advanced
// once per frame by Step. It consumes an input snapshot and produces a
// render snapshot plus discrete events; it never draws, plays audio, or
// reads devices.
package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
)

// frameTime is the frame length all per-frame constants are tuned for.
const frameTime = time.Second / 60

// maxFrameScale caps catch-up after a stall so entities cannot tunnel.
const maxFrameScale = 3.0

// Input is the device-agnostic control snapshot for one frame.
// Movement and Fire are levels (held); ChargeFire, Pause and Menu are
// triggers that act once per frame they are set.
type Input struct {
	Up, Down, Left, Right bool
	AnalogX, AnalogY      float64 // each in [-1, 1]
	Fire                  bool
	ChargeFire            bool
	Pause                 bool
	Menu                  bool
}

// GameState is the scalar summary returned with every step.
type GameState struct {
	Phase    Phase
	Paused   bool
	Score    int
	Lives    int
	Round    int
	Level    int
	GameOver bool
}

// StepResult is returned by Step after each frame.
type StepResult struct {
	State  GameState
	Events []Event
}

// MapInfo describes a selectable map with its stored best score.
type MapInfo struct {
	config.MapConfig
	BestScore int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStore sets the persistence collaborator.
func WithStore(s Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithEventSink registers a sink that receives every event as it happens.
func WithEventSink(s EventSink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithSeed fixes the RNG seed. Each StartGame reseeds from it, so two
// engines with the same seed and inputs produce the same runs.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// Engine owns every piece of simulation state.
type Engine struct {
	cfg   *config.Config
	log   *log.Logger
	store Store
	sink  EventSink
	seed  int64
	rng   *SimpleRNG

	phase  Phase
	paused bool
	runID  uint64
	mapCfg config.MapConfig

	player       *Player
	bullets      []*Projectile
	enemyBullets []*Projectile
	enemies      []*Enemy
	pickups      []*PowerUp
	fx           effects
	nextID       EntityID

	timers          PowerUpTimers
	charge          Charge
	invincibleUntil time.Time

	upgrades UpgradeLevels
	stats    Stats
	offer    []UpgradeKind
	picked   bool

	round     RoundState
	diff      config.RoundDifficulty
	spawnRate time.Duration
	score     int
	bestScore int
	kills     int
	lives     int
	level     int

	lastShot    time.Time
	lastSpawn   time.Time
	lastAnomaly time.Time

	// Simulation time stands still while paused: now = wall - pausedFor.
	now       time.Time
	lastWall  time.Time
	pausedFor time.Duration
	frames    uint64

	sched  scheduler
	events []Event
}

// New creates an engine in the menu phase.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:      &cfg,
		log:      log.New(io.Discard),
		phase:    PhaseMenu,
		upgrades: UpgradeLevels{},
		seed:     time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rng = NewSimpleRNG(e.seed)
	e.fx.cfg = cfg.Effects
	e.timers = NewPowerUpTimers(e.cfg)
	return e
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.Config {
	return *e.cfg
}

// Maps lists the configured maps with their best scores.
func (e *Engine) Maps() []MapInfo {
	out := make([]MapInfo, 0, len(e.cfg.Maps))
	for _, m := range e.cfg.Maps {
		out = append(out, MapInfo{MapConfig: m, BestScore: e.loadBest(m.ID)})
	}
	return out
}

// StartGame begins a new run on a map. Any previous run and its pending
// transitions are discarded.
func (e *Engine) StartGame(mapID string, now time.Time) error {
	m, ok := e.cfg.Map(mapID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMap, mapID)
	}
	if !m.Unlocked {
		return fmt.Errorf("%w: %q", ErrMapLocked, mapID)
	}

	e.clearWorld()
	e.runID++
	e.rng = NewSimpleRNG(e.seed)
	e.mapCfg = m
	e.phase = PhaseInRound
	e.paused = false
	e.now, e.lastWall, e.pausedFor, e.frames = now, now, 0, 0

	e.score, e.level, e.kills = 0, 1, 0
	e.lives = e.cfg.Player.Lives
	e.bestScore = e.loadBest(m.ID)

	e.upgrades = UpgradeLevels{}
	e.stats = DeriveStats(e.cfg, e.upgrades)
	e.offer, e.picked = nil, false
	e.timers = NewPowerUpTimers(e.cfg)
	e.charge = Charge{Max: e.cfg.Charge.Max, Cooldown: config.Millis(e.cfg.Charge.CooldownMS)}
	e.invincibleUntil = time.Time{}
	e.lastShot = time.Time{}
	e.lastSpawn, e.lastAnomaly = now, now

	w, h := e.cfg.World.Width, e.cfg.World.Height
	pc := e.cfg.Player
	e.player = &Player{
		Box:       core.NewBox(w/2-pc.Width/2, h-pc.BottomOffset, pc.Width, pc.Height),
		Speed:     e.stats.Speed,
		Health:    e.stats.MaxHealth,
		MaxHealth: e.stats.MaxHealth,
	}
	e.player.Box.Y = core.ClampF(e.player.Box.Y, 0, h-pc.Height)

	e.round = RoundState{Round: 1, Needed: e.cfg.Rounds.EnemiesNeeded(1), InProgress: true}
	e.diff = e.cfg.Rounds.Difficulty(m, 1)
	e.spawnRate = e.diff.SpawnRate

	if e.store != nil {
		if err := e.store.SetSetting(SettingLastMap, m.ID); err != nil {
			e.log.Warn("cannot save last map", "map", m.ID, "err", err)
		}
	}
	e.log.Info("run started", "map", m.ID, "run", e.runID, "lives", e.lives)
	return nil
}

// Restart begins a fresh run on the current map.
func (e *Engine) Restart(now time.Time) error {
	if e.phase == PhaseMenu || e.mapCfg.ID == "" {
		return ErrNotRunning
	}
	return e.StartGame(e.mapCfg.ID, now)
}

// ReturnToMenu abandons the current run. Pending deferred transitions
// belong to the old run id and will never fire.
func (e *Engine) ReturnToMenu() {
	if e.phase == PhaseMenu {
		return
	}
	e.log.Debug("return to menu", "run", e.runID, "score", e.score)
	e.clearWorld()
	e.runID++
	e.phase = PhaseMenu
	e.paused = false
}

func (e *Engine) clearWorld() {
	e.player = nil
	e.bullets = e.bullets[:0]
	e.enemyBullets = e.enemyBullets[:0]
	e.enemies = e.enemies[:0]
	e.pickups = e.pickups[:0]
	e.fx.reset()
	e.sched.reset()
	e.offer = nil
	e.round.CurrentBoss = 0
}

// TogglePause freezes or resumes the simulation while a round is being
// played. It returns the new paused state.
func (e *Engine) TogglePause() bool {
	switch e.phase {
	case PhaseInRound, PhaseBossPending, PhaseBossFight, PhaseRoundCleared:
		e.paused = !e.paused
	}
	return e.paused
}

// Phase returns the current state machine phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// State returns the scalar game state.
func (e *Engine) State() GameState {
	return GameState{
		Phase:    e.phase,
		Paused:   e.paused,
		Score:    e.score,
		Lives:    e.lives,
		Round:    e.round.Round,
		Level:    e.level,
		GameOver: e.phase == PhaseGameOver,
	}
}

// Step advances the world to wall-clock time now using the input snapshot.
// The pipeline order is fixed: triggers, deferred transitions, player,
// player bullets, enemy bullets, regular spawner, anomaly spawner, enemies,
// power-ups and timers, effects, collisions.
func (e *Engine) Step(now time.Time, in Input) StepResult {
	e.events = nil

	if in.Menu {
		e.ReturnToMenu()
		return e.result()
	}
	if in.Pause {
		e.TogglePause()
	}
	if e.phase == PhaseMenu || e.phase == PhaseGameOver {
		e.lastWall = now
		return e.result()
	}

	dt := now.Sub(e.lastWall)
	e.lastWall = now
	if e.paused {
		e.pausedFor += dt
		return e.result()
	}

	sim := now.Add(-e.pausedFor)
	scale := core.ClampF(float64(dt)/float64(frameTime), 0, maxFrameScale)
	e.now = sim
	e.frames++

	e.runDeferred(sim)
	if !e.simulating() {
		return e.result()
	}

	e.refreshShield(sim)
	e.updatePlayer(sim, scale, in)
	e.updatePlayerBullets(scale)
	e.updateEnemyBullets(scale)
	e.spawnRegular(sim)
	e.spawnAnomaly(sim)
	e.updateEnemies(sim, scale)
	e.updatePickups(sim, scale)
	e.fx.update(sim, scale)
	e.resolveCollisions(sim)
	e.refreshShield(sim)

	return e.result()
}

func (e *Engine) result() StepResult {
	return StepResult{State: e.State(), Events: e.events}
}

// simulating reports whether entities move in the current phase.
// The upgrade screen freezes the world.
func (e *Engine) simulating() bool {
	switch e.phase {
	case PhaseInRound, PhaseBossPending, PhaseBossFight, PhaseRoundCleared:
		return true
	default:
		return false
	}
}

func (e *Engine) refreshShield(now time.Time) {
	if e.player != nil {
		e.player.Shielded = e.shielded(now)
	}
}

// shielded is true while the shield power-up or the post-hit invincibility
// window is active.
func (e *Engine) shielded(now time.Time) bool {
	return e.timers.Active(PowerUpShield) || now.Before(e.invincibleUntil)
}

func (e *Engine) newID() EntityID {
	e.nextID++
	return e.nextID
}

func (e *Engine) addScore(n int) {
	e.score += n
	if lvl := e.cfg.Spawn.Level(e.score); lvl > e.level {
		e.level = lvl
		e.spawnRate = e.cfg.Spawn.LevelSpawnRate(e.mapCfg, lvl)
		e.log.Debug("level up", "level", lvl, "spawnRate", e.spawnRate)
	}
}

func (e *Engine) loadBest(mapID string) int {
	if e.store == nil {
		return 0
	}
	best, err := e.store.BestScore(mapID)
	if err != nil {
		e.log.Warn("cannot read best score", "map", mapID, "err", err)
		return 0
	}
	return best
}
