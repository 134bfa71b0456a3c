package engine

import (
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
)

// PowerUpState is the timer record of one power-up type.
type PowerUpState struct {
	Active    bool          `json:"active"`
	ExpiresAt time.Time     `json:"-"`
	Duration  time.Duration `json:"duration"`
}

// Remaining returns the time left on an active effect.
func (s PowerUpState) Remaining(now time.Time) time.Duration {
	if !s.Active {
		return 0
	}
	return max(0, s.ExpiresAt.Sub(now))
}

// PowerUpTimers holds one timer per power-up type.
type PowerUpTimers struct {
	states [PowerUpCount]PowerUpState
}

// NewPowerUpTimers builds inactive timers with durations from the config.
func NewPowerUpTimers(cfg *config.Config) PowerUpTimers {
	var t PowerUpTimers
	for i := range t.states {
		t.states[i].Duration = cfg.PowerUpDuration(PowerUpType(i).String())
	}
	return t
}

// Activate starts or refreshes an effect.
func (t *PowerUpTimers) Activate(kind PowerUpType, now time.Time) {
	s := &t.states[kind]
	s.Active = true
	s.ExpiresAt = now.Add(s.Duration)
}

// Expire deactivates every effect whose expiry is strictly before now and
// returns the expired types.
func (t *PowerUpTimers) Expire(now time.Time) []PowerUpType {
	var expired []PowerUpType
	for i := range t.states {
		s := &t.states[i]
		if s.Active && now.After(s.ExpiresAt) {
			s.Active = false
			s.ExpiresAt = time.Time{}
			expired = append(expired, PowerUpType(i))
		}
	}
	return expired
}

// Active reports whether an effect is running.
func (t *PowerUpTimers) Active(kind PowerUpType) bool {
	return t.states[kind].Active
}

// State returns a copy of the timer for a type.
func (t *PowerUpTimers) State(kind PowerUpType) PowerUpState {
	return t.states[kind]
}

// Charge is the charge-shot resource.
type Charge struct {
	Value    float64       `json:"value"`
	Max      float64       `json:"max"`
	Ready    bool          `json:"ready"`
	Cooldown time.Duration `json:"cooldown"`
	LastUsed time.Time     `json:"-"`
}

// Add accumulates charge, clamped at Max.
// It reports whether this call made the charge ready.
func (c *Charge) Add(amount float64) bool {
	wasReady := c.Ready
	c.Value = min(c.Max, c.Value+amount)
	if c.Value >= c.Max {
		c.Ready = true
	}
	return c.Ready && !wasReady
}

// Fire consumes a full charge if it is ready and off cooldown.
func (c *Charge) Fire(now time.Time) bool {
	if !c.Ready {
		return false
	}
	if !c.LastUsed.IsZero() && now.Sub(c.LastUsed) < c.Cooldown {
		return false
	}
	c.Value = 0
	c.Ready = false
	c.LastUsed = now
	return true
}

// deferredAction is a transition scheduled for later.
type deferredAction int

const (
	actionShowUpgrades deferredAction = iota
	actionNextRound
)

func (a deferredAction) String() string {
	switch a {
	case actionShowUpgrades:
		return "show-upgrades"
	case actionNextRound:
		return "next-round"
	default:
		return "unknown"
	}
}

// deferred is a scheduled transition guarded by the run it belongs to and
// the phase the engine must still be in when it comes due.
type deferred struct {
	Due    time.Time
	RunID  uint64
	Phase  Phase
	Action deferredAction
}

// scheduler keeps deferred transitions in insertion order.
type scheduler struct {
	queue []deferred
}

func (s *scheduler) schedule(d deferred) {
	s.queue = append(s.queue, d)
}

// due removes and returns every entry whose time has come, in order.
func (s *scheduler) due(now time.Time) []deferred {
	var ready []deferred
	rest := s.queue[:0]
	for _, d := range s.queue {
		if !now.Before(d.Due) {
			ready = append(ready, d)
		} else {
			rest = append(rest, d)
		}
	}
	s.queue = rest
	return ready
}

func (s *scheduler) reset() {
	s.queue = s.queue[:0]
}

func (s *scheduler) pending() int {
	return len(s.queue)
}
