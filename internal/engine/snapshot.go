package engine

import (
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/star-strike/internal/core"
)

// PowerUpStatus is the HUD view of one power-up timer.
type PowerUpStatus struct {
	Type      PowerUpType   `json:"type"`
	Active    bool          `json:"active"`
	Remaining time.Duration `json:"remaining"`
}

// Snapshot is a read-only copy of everything a presentation collaborator
// needs to draw one frame. Mutating it never affects the engine.
type Snapshot struct {
	Phase   Phase   `json:"phase"`
	Paused  bool    `json:"paused"`
	MapID   string  `json:"map"`
	MapName string  `json:"mapName"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`

	Score     int `json:"score"`
	BestScore int `json:"best"`
	Lives     int `json:"lives"`
	Level     int `json:"level"`
	Round     int `json:"round"`
	Killed    int `json:"killed"`
	Needed    int `json:"needed"`

	BossName      string  `json:"bossName,omitempty"`
	BossHealth    float64 `json:"bossHealth,omitempty"`
	BossMaxHealth float64 `json:"bossMaxHealth,omitempty"`

	Charge   Charge          `json:"charge"`
	PowerUps []PowerUpStatus `json:"powerUps"`
	Upgrades UpgradeLevels   `json:"upgrades"`
	Offer    []UpgradeKind   `json:"offer,omitempty"`
	Stats    Stats           `json:"stats"`

	Player       *Player      `json:"player,omitempty"`
	Bullets      []Projectile `json:"bullets"`
	EnemyBullets []Projectile `json:"enemyBullets"`
	Enemies      []Enemy      `json:"enemies"`
	PowerUpItems []PowerUp    `json:"pickups"`
	Particles    []Particle   `json:"particles"`
	Explosions   []Explosion  `json:"explosions"`
	Hits         []HitEffect  `json:"hits"`

	Frames uint64 `json:"frames"`
}

// Snapshot copies the current world. Enemy payloads are copied too, so a
// collaborator holding the snapshot sees a frozen frame.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Phase:     e.phase,
		Paused:    e.paused,
		MapID:     e.mapCfg.ID,
		MapName:   e.mapCfg.Name,
		Width:     e.cfg.World.Width,
		Height:    e.cfg.World.Height,
		Score:     e.score,
		BestScore: max(e.bestScore, e.score),
		Lives:     e.lives,
		Level:     e.level,
		Round:     e.round.Round,
		Killed:    e.round.Killed,
		Needed:    e.round.Needed,
		Charge:    e.charge,
		Upgrades:  make(UpgradeLevels, len(e.upgrades)),
		Offer:     e.Offer(),
		Stats:     e.stats,
		Frames:    e.frames,
	}
	for k, v := range e.upgrades {
		s.Upgrades[k] = v
	}
	for i := PowerUpType(0); i < PowerUpCount; i++ {
		st := e.timers.State(i)
		s.PowerUps = append(s.PowerUps, PowerUpStatus{Type: i, Active: st.Active, Remaining: st.Remaining(e.now)})
	}

	if bosses := e.liveBosses(); len(bosses) > 0 {
		s.BossName = bossTitle(bosses)
		for _, b := range bosses {
			s.BossHealth += math.Max(0, b.Health)
			s.BossMaxHealth += b.MaxHealth
		}
	}

	if e.player != nil {
		p := *e.player
		s.Player = &p
	}
	s.Bullets = copyProjectiles(e.bullets)
	s.EnemyBullets = copyProjectiles(e.enemyBullets)
	s.Enemies = make([]Enemy, 0, len(e.enemies))
	for _, en := range e.enemies {
		s.Enemies = append(s.Enemies, copyEnemy(en))
	}
	s.PowerUpItems = make([]PowerUp, 0, len(e.pickups))
	for _, pu := range e.pickups {
		s.PowerUpItems = append(s.PowerUpItems, *pu)
	}
	s.Particles = append([]Particle(nil), e.fx.particles...)
	s.Explosions = append([]Explosion(nil), e.fx.explosions...)
	s.Hits = append([]HitEffect(nil), e.fx.hits...)
	return s
}

// bossTitle names a single boss directly and a multi-boss wave after its
// archetype.
func bossTitle(bosses []*Enemy) string {
	if len(bosses) == 1 {
		return bosses[0].Name
	}
	name := bosses[0].Name
	if i := strings.LastIndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	return strings.ToUpper(name) + " SQUADRON"
}

func copyProjectiles(in []*Projectile) []Projectile {
	out := make([]Projectile, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}

func copyEnemy(en *Enemy) Enemy {
	c := *en
	if en.Drift != nil {
		d := *en.Drift
		if en.Drift.Gun != nil {
			g := *en.Drift.Gun
			d.Gun = &g
		}
		c.Drift = &d
	}
	if en.Anomaly != nil {
		a := *en.Anomaly
		c.Anomaly = &a
	}
	if en.Boss != nil {
		b := *en.Boss
		c.Boss = &b
	}
	return c
}

// Hash folds the gameplay-relevant parts of the snapshot into one value.
// Two runs with the same seed and inputs have equal hashes frame by frame.
func (s Snapshot) Hash() uint64 {
	h := uint64(17)
	mix := func(v uint64) { h = h*31 + v }
	mixF := func(f float64) { mix(math.Float64bits(f)) }
	mixBox := func(b core.Box) {
		mixF(b.X)
		mixF(b.Y)
		mixF(b.W)
		mixF(b.H)
	}

	mix(uint64(s.Phase))
	mix(uint64(s.Score))
	mix(uint64(s.Lives))
	mix(uint64(s.Round))
	mix(uint64(s.Killed))
	mixF(s.Charge.Value)
	if s.Player != nil {
		mixBox(s.Player.Box)
		mixF(s.Player.Health)
	}
	for _, b := range s.Bullets {
		mixBox(b.Box)
	}
	for _, b := range s.EnemyBullets {
		mixBox(b.Box)
	}
	for _, en := range s.Enemies {
		mix(uint64(en.ID))
		mixBox(en.Box)
		mixF(en.Health)
	}
	for _, pu := range s.PowerUpItems {
		mix(uint64(pu.Type))
		mixBox(pu.Box)
	}
	return h
}
