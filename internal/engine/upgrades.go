package engine

import (
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
)

// UpgradeKind is a permanent per-run improvement chosen between rounds.
type UpgradeKind string

const (
	UpgradeDamage   UpgradeKind = "damage"
	UpgradeHealth   UpgradeKind = "health"
	UpgradeSpeed    UpgradeKind = "speed"
	UpgradeFirerate UpgradeKind = "firerate"
	UpgradeHoming   UpgradeKind = "homing"
	UpgradeSpread   UpgradeKind = "spread"
)

// UpgradeKinds lists every kind in display order.
var UpgradeKinds = []UpgradeKind{
	UpgradeDamage,
	UpgradeHealth,
	UpgradeSpeed,
	UpgradeFirerate,
	UpgradeHoming,
	UpgradeSpread,
}

// Description is a short human-readable effect summary.
func (k UpgradeKind) Description() string {
	switch k {
	case UpgradeDamage:
		return "+25% bullet damage"
	case UpgradeHealth:
		return "+1 max health"
	case UpgradeSpeed:
		return "+1 ship speed"
	case UpgradeFirerate:
		return "faster shooting"
	case UpgradeHoming:
		return "bullets seek enemies"
	case UpgradeSpread:
		return "+1 bullet per shot"
	default:
		return ""
	}
}

// UpgradeLevels holds the current level of every kind for this run.
type UpgradeLevels map[UpgradeKind]int

// Stats are the player values derived from base config and upgrade levels.
type Stats struct {
	Damage         float64       `json:"damage"`
	MaxHealth      float64       `json:"maxHealth"`
	Speed          float64       `json:"speed"`
	ShootCooldown  time.Duration `json:"shootCooldown"`
	HomingStrength float64       `json:"homingStrength"`
	SpreadExtra    int           `json:"spreadExtra"`
}

// DeriveStats recomputes stats from scratch. It has no side effects, so
// calling it twice with the same levels yields the same result.
func DeriveStats(cfg *config.Config, levels UpgradeLevels) Stats {
	u := cfg.Upgrades
	p := cfg.Player
	cooldown := max(u.MinCooldownMS, p.ShootCooldownMS-levels[UpgradeFirerate]*u.FirerateStepMS)
	return Stats{
		Damage:         p.Damage + float64(levels[UpgradeDamage])*u.DamageStep,
		MaxHealth:      p.Health + float64(levels[UpgradeHealth])*u.HealthStep,
		Speed:          p.Speed + float64(levels[UpgradeSpeed])*u.SpeedStep,
		ShootCooldown:  config.Millis(cooldown),
		HomingStrength: float64(levels[UpgradeHoming]) * u.HomingStep,
		SpreadExtra:    levels[UpgradeSpread],
	}
}

// available returns the kinds still below their cap, in display order.
func available(cfg *config.Config, levels UpgradeLevels) []UpgradeKind {
	var out []UpgradeKind
	for _, k := range UpgradeKinds {
		if levels[k] < cfg.UpgradeCap(string(k)) {
			out = append(out, k)
		}
	}
	return out
}

// rollOffer draws up to n distinct unmaxed kinds.
func rollOffer(rng *SimpleRNG, cfg *config.Config, levels UpgradeLevels, n int) []UpgradeKind {
	pool := available(cfg, levels)
	offer := make([]UpgradeKind, 0, min(n, len(pool)))
	for len(offer) < n && len(pool) > 0 {
		i := rng.Intn(len(pool))
		offer = append(offer, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return offer
}

// applyUpgrades recomputes derived stats and pushes them onto the live
// player. A max-health increase adds the difference to current health.
func (e *Engine) applyUpgrades() {
	old := e.stats.MaxHealth
	e.stats = DeriveStats(e.cfg, e.upgrades)
	if e.player == nil {
		return
	}
	if e.stats.MaxHealth > old {
		e.player.Health += e.stats.MaxHealth - old
	}
	e.player.MaxHealth = e.stats.MaxHealth
	e.player.Health = min(e.player.Health, e.stats.MaxHealth)
	e.player.Speed = e.stats.Speed
}
