package engine

import (
	"time"

	"github.com/vovakirdan/star-strike/internal/core"
)

// EntityID identifies an enemy for the lifetime of a run.
// Zero is never assigned and means "none".
type EntityID uint64

// Player is the ship controlled by the input snapshot.
type Player struct {
	Box       core.Box `json:"box"`
	Speed     float64  `json:"speed"`
	Health    float64  `json:"health"`
	MaxHealth float64  `json:"maxHealth"`
	Shielded  bool     `json:"shielded"`
}

// Center returns the center of the ship.
func (p *Player) Center() core.Vec2 {
	return p.Box.Center()
}

// Owner says who fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
	OwnerBoss
)

func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerEnemy:
		return "enemy"
	case OwnerBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Projectile is a bullet fired by the player, a regular enemy or a boss.
type Projectile struct {
	Owner          Owner     `json:"owner"`
	Box            core.Box  `json:"box"`
	Dir            core.Vec2 `json:"dir"`
	Speed          float64   `json:"speed"`
	Damage         float64   `json:"damage"`
	Homing         bool      `json:"homing,omitempty"`
	HomingStrength float64   `json:"homingStrength,omitempty"`
	Target         EntityID  `json:"target,omitempty"`
	ChargeShot     bool      `json:"chargeShot,omitempty"`
	Spread         bool      `json:"spread,omitempty"`
	Special        bool      `json:"special,omitempty"`

	removed bool
}

// Pattern selects an enemy's motion and behavior variant.
type Pattern string

const (
	PatternStraight Pattern = "straight"
	PatternZigzag   Pattern = "zigzag"
	PatternCircular Pattern = "circular"
	PatternAnomaly  Pattern = "anomaly"
	PatternBoss     Pattern = "boss"
)

// Enemy is a tagged union: the shared base plus exactly one payload
// matching Pattern. Drift is set for straight, zigzag and circular.
type Enemy struct {
	ID         EntityID `json:"id"`
	Kind       int      `json:"kind,omitempty"` // regular template kind, 0 otherwise
	Name       string   `json:"name"`
	Pattern    Pattern  `json:"pattern"`
	Box        core.Box `json:"box"`
	Speed      float64  `json:"speed"`
	Health     float64  `json:"health"`
	MaxHealth  float64  `json:"maxHealth"`
	ScoreValue int      `json:"score"`

	Drift   *DriftState   `json:"drift,omitempty"`
	Anomaly *AnomalyState `json:"anomaly,omitempty"`
	Boss    *BossState    `json:"boss,omitempty"`

	removed bool
}

// IsBoss reports whether the enemy belongs to a boss wave.
func (e *Enemy) IsBoss() bool {
	return e.Pattern == PatternBoss
}

// Alive reports whether the enemy still takes part in the simulation.
func (e *Enemy) Alive() bool {
	return !e.removed && e.Health > 0
}

// DriftState is the payload of the regular downward-moving patterns.
type DriftState struct {
	Direction float64 `json:"direction,omitempty"` // zigzag lateral sign
	Angle     float64 `json:"angle,omitempty"`     // circular accumulator
	Gun       *Gun    `json:"gun,omitempty"`
}

// Gun is the per-instance fire timer of shooting regular kinds.
type Gun struct {
	Cooldown time.Duration `json:"cooldown"`
	LastShot time.Time     `json:"-"`
}

// AnomalyPhase is the two-step behavior of the anomaly enemy.
type AnomalyPhase int

const (
	AnomalyDrifting AnomalyPhase = iota
	AnomalyCharging
)

// AnomalyState is the anomaly payload.
type AnomalyState struct {
	Direction float64      `json:"direction"` // +1 enters from the left, -1 from the right
	Phase     AnomalyPhase `json:"phase"`
}

// BossState is the boss payload.
type BossState struct {
	Archetype       string        `json:"archetype"`
	Index           int           `json:"index"`
	Damage          float64       `json:"damage"`
	MovementTimer   float64       `json:"movementTimer"`
	ShootCooldown   time.Duration `json:"shootCooldown"`
	SpecialCooldown time.Duration `json:"specialCooldown"`
	LastShot        time.Time     `json:"-"`
	LastSpecial     time.Time     `json:"-"`
}

// PowerUpType is a timed effect granted by a pickup.
type PowerUpType int

const (
	PowerUpRapidFire PowerUpType = iota
	PowerUpShield
	PowerUpExtraDamage
	PowerUpCount // Sentinel for counting types
)

// String returns the configuration key of the power-up type.
func (p PowerUpType) String() string {
	switch p {
	case PowerUpRapidFire:
		return "rapidFire"
	case PowerUpShield:
		return "shield"
	case PowerUpExtraDamage:
		return "extraDamage"
	default:
		return "unknown"
	}
}

// Glyph returns the display character for a pickup type.
func (p PowerUpType) Glyph() rune {
	switch p {
	case PowerUpRapidFire:
		return 'R'
	case PowerUpShield:
		return 'S'
	case PowerUpExtraDamage:
		return 'D'
	default:
		return '?'
	}
}

// PowerUp is a pickup drifting down the screen.
type PowerUp struct {
	Type     PowerUpType `json:"type"`
	Box      core.Box    `json:"box"`
	Speed    float64     `json:"speed"`
	Rotation float64     `json:"rotation"`

	removed bool
}

// compact drops entries whose removed flag is set, keeping order.
func compact[T any](items []*T, removed func(*T) bool) []*T {
	out := items[:0]
	for _, it := range items {
		if !removed(it) {
			out = append(out, it)
		}
	}
	// Clear the tail so dropped entities can be collected.
	clear(items[len(out):])
	return out
}
