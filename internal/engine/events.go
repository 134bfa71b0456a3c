package engine

import "github.com/vovakirdan/star-strike/internal/core"

// EventType tags a discrete gameplay event for audio and UI collaborators.
type EventType int

const (
	EventShoot EventType = iota
	EventChargeShot
	EventHit
	EventEnemyKilled
	EventPowerUpCollected
	EventBossSpawned
	EventBossDefeated
	EventAnomalySpawned
	EventAnomalyKilled
	EventPlayerDamaged
	EventLifeLost
	EventGameOver
	EventEnemyShoot
	EventBossSpecial
	EventRoundStarted
	EventUpgradeOffered
	EventUpgradeApplied
	EventPowerUpExpired
)

var eventNames = [...]string{
	EventShoot:            "shoot",
	EventChargeShot:       "charge-shot",
	EventHit:              "hit",
	EventEnemyKilled:      "enemy-killed",
	EventPowerUpCollected: "powerup-collected",
	EventBossSpawned:      "boss-spawned",
	EventBossDefeated:     "boss-defeated",
	EventAnomalySpawned:   "anomaly-spawned",
	EventAnomalyKilled:    "anomaly-killed",
	EventPlayerDamaged:    "player-damaged",
	EventLifeLost:         "life-lost",
	EventGameOver:         "game-over",
	EventEnemyShoot:       "enemy-shoot",
	EventBossSpecial:      "boss-special",
	EventRoundStarted:     "round-started",
	EventUpgradeOffered:   "upgrade-offered",
	EventUpgradeApplied:   "upgrade-applied",
	EventPowerUpExpired:   "powerup-expired",
}

func (t EventType) String() string {
	if int(t) >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// MarshalText encodes the event type by name for the spectator feed.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is one discrete thing that happened during a step.
// Fields other than Type are set only when they apply.
type Event struct {
	Type   EventType `json:"type"`
	Pos    core.Vec2 `json:"pos"`
	Enemy  EntityID  `json:"enemy,omitempty"`
	Value  int       `json:"value,omitempty"` // score awarded, round number, lives left
	Amount float64   `json:"amount,omitempty"`
	Label  string    `json:"label,omitempty"` // boss name, power-up or upgrade kind
}

// EventSink receives events as they are emitted. It must not call back
// into the engine.
type EventSink interface {
	OnEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// OnEvent calls f(e).
func (f EventSinkFunc) OnEvent(e Event) {
	f(e)
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
	if e.sink != nil {
		e.sink.OnEvent(ev)
	}
}
