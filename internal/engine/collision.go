package engine

import (
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
)

// resolveCollisions applies the four overlap rules in fixed order:
// player bullets against enemies, player against enemies, player against
// pickups, enemy bullets against player. Removed entities are compacted
// after each rule. A game over stops resolution immediately.
func (e *Engine) resolveCollisions(now time.Time) {
	e.hitEnemies(now)
	e.compactEnemies()
	e.bullets = compact(e.bullets, func(b *Projectile) bool { return b.removed })

	if e.player == nil {
		return
	}

	over := e.ramEnemies(now)
	e.compactEnemies()
	if over {
		return
	}

	e.collectPickups(now)
	e.pickups = compact(e.pickups, func(pu *PowerUp) bool { return pu.removed })

	e.takeEnemyFire(now)
	e.enemyBullets = compact(e.enemyBullets, func(b *Projectile) bool { return b.removed })
}

func (e *Engine) compactEnemies() {
	e.enemies = compact(e.enemies, func(en *Enemy) bool { return en.removed })
}

// hitEnemies lets each player bullet damage at most one enemy: the first
// live one it overlaps.
func (e *Engine) hitEnemies(now time.Time) {
	for _, b := range e.bullets {
		if b.removed {
			continue
		}
		for _, en := range e.enemies {
			if !en.Alive() || !b.Box.Intersects(en.Box) {
				continue
			}
			b.removed = true
			if !b.ChargeShot {
				if e.charge.Add(b.Damage * e.cfg.Charge.GainPerDamage) {
					if e.player != nil {
						e.fx.burst(e.rng, now, e.player.Center(), 5, 2, 3, core.ColorYellow)
					}
				}
			}
			en.Health -= b.Damage
			c := en.Box.Center()
			e.fx.burst(e.rng, now, c, 8, 1, 3, core.ColorMagenta)
			e.emit(Event{Type: EventHit, Enemy: en.ID, Pos: c, Amount: b.Damage})
			if en.Health <= 0 {
				e.killEnemy(en, now)
			}
			break
		}
	}
}

// killEnemy awards score and branches on the enemy variant.
func (e *Engine) killEnemy(en *Enemy, now time.Time) {
	en.removed = true
	e.kills++
	e.addScore(en.ScoreValue)
	c := en.Box.Center()
	e.fx.explode(e.rng, now, c)
	e.emit(Event{Type: EventEnemyKilled, Enemy: en.ID, Pos: c, Value: en.ScoreValue, Label: en.Name})

	switch en.Pattern {
	case PatternBoss:
		e.onBossKilled(now)
	case PatternAnomaly:
		e.fx.flash(now, c)
		e.emit(Event{Type: EventAnomalyKilled, Enemy: en.ID, Pos: c, Value: en.ScoreValue})
		e.maybeDrop(c, e.cfg.PowerUps.AnomalyDropChance)
	default:
		e.maybeDrop(c, e.cfg.PowerUps.DropChance)
		e.onRegularKill(now)
	}
}

// ramEnemies handles body contact. Non-boss enemies die on contact without
// awarding score; bosses survive. It reports a game over.
func (e *Engine) ramEnemies(now time.Time) bool {
	p := e.player
	for _, en := range e.enemies {
		if !en.Alive() || !p.Box.Intersects(en.Box) {
			continue
		}
		if !e.shielded(now) {
			dmg := e.cfg.Player.ContactDamage
			if en.IsBoss() {
				dmg = en.Boss.Damage
			}
			if e.damagePlayer(dmg, now) {
				return true
			}
		}
		if !en.IsBoss() {
			en.removed = true
			e.fx.explode(e.rng, now, en.Box.Center())
		}
	}
	return false
}

func (e *Engine) collectPickups(now time.Time) {
	p := e.player
	for _, pu := range e.pickups {
		if pu.removed || !p.Box.Intersects(pu.Box) {
			continue
		}
		e.timers.Activate(pu.Type, now)
		pu.removed = true
		e.emit(Event{Type: EventPowerUpCollected, Pos: pu.Box.Center(), Label: pu.Type.String()})
	}
	e.refreshShield(now)
}

// takeEnemyFire consumes every enemy bullet touching the player, shielded
// or not.
func (e *Engine) takeEnemyFire(now time.Time) {
	p := e.player
	for _, b := range e.enemyBullets {
		if b.removed || !p.Box.Intersects(b.Box) {
			continue
		}
		b.removed = true
		if e.shielded(now) {
			continue
		}
		dmg := b.Damage
		if dmg <= 0 {
			dmg = 1
		}
		if e.damagePlayer(dmg, now) {
			return
		}
	}
}

// damagePlayer applies damage, handles life loss and opens the
// invincibility window. It reports whether the run ended.
func (e *Engine) damagePlayer(dmg float64, now time.Time) bool {
	p := e.player
	p.Health -= dmg
	c := p.Center()
	e.fx.explode(e.rng, now, c)
	e.emit(Event{Type: EventPlayerDamaged, Pos: c, Amount: dmg})

	if p.Health <= 0 {
		e.lives--
		e.emit(Event{Type: EventLifeLost, Pos: c, Value: e.lives})
		if e.lives <= 0 {
			e.lives = 0
			e.gameOver()
			return true
		}
		p.Health = p.MaxHealth
	}

	e.invincibleUntil = now.Add(config.Millis(e.cfg.Player.InvincibilityMS))
	p.Shielded = true
	return false
}
