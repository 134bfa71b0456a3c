package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/star-strike/internal/core"
)

func TestBulletDamagesOneEnemy(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	a := addDrifter(e, 100, 100, 2)
	b := addDrifter(e, 100, 100, 2)
	aimAt(e, a, 1)

	e.events = nil
	e.resolveCollisions(clock.tick())

	if a.Health != 1 || b.Health != 2 {
		t.Errorf("health = %v and %v, expected 1 and 2", a.Health, b.Health)
	}
	if n := countEvents(e.events, EventHit); n != 1 {
		t.Errorf("hit events = %d, expected 1", n)
	}
	if len(e.bullets) != 0 {
		t.Errorf("bullets = %d, expected the bullet to be consumed", len(e.bullets))
	}
}

func TestEachBulletAppliesDamageOnce(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	en := addDrifter(e, 300, 100, 10)
	for i := 0; i < 4; i++ {
		aimAt(e, en, 1)
	}
	e.resolveCollisions(clock.tick())

	if en.Health != 6 {
		t.Errorf("health = %v, expected 6 after four bullets", en.Health)
	}
}

func TestKillAwardsScoreAndRemoves(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	en := addDrifter(e, 100, 100, 1)
	aimAt(e, en, 1)

	e.events = nil
	e.resolveCollisions(clock.tick())

	if len(e.enemies) != 0 {
		t.Errorf("enemies = %d, expected 0", len(e.enemies))
	}
	if e.score != 10 || e.kills != 1 || e.round.Killed != 1 {
		t.Errorf("score/kills/killed = %d/%d/%d, expected 10/1/1", e.score, e.kills, e.round.Killed)
	}
	if n := countEvents(e.events, EventEnemyKilled); n != 1 {
		t.Errorf("kill events = %d, expected 1", n)
	}
}

func TestChargeGainFromHits(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	en := addDrifter(e, 300, 100, 100)
	for i := 0; i < 25; i++ {
		aimAt(e, en, 1)
	}
	now := clock.tick()
	e.resolveCollisions(now)

	if e.charge.Value != e.charge.Max || !e.charge.Ready {
		t.Fatalf("charge = %+v, expected full and ready", e.charge)
	}

	if !e.chargeShoot(now) {
		t.Fatal("chargeShoot() should fire a ready charge")
	}
	if e.charge.Value != 0 || e.charge.Ready {
		t.Errorf("charge after firing = %+v, expected empty", e.charge)
	}

	// The charge shot itself never feeds the meter.
	shot := e.bullets[len(e.bullets)-1]
	shot.Box = core.CenteredBox(en.Box.Center().X, en.Box.Center().Y, shot.Box.W, shot.Box.H)
	e.resolveCollisions(clock.tick())
	if e.charge.Value != 0 {
		t.Errorf("charge = %v after a charge-shot hit, expected 0", e.charge.Value)
	}
	if en.Health != 100-25-15 {
		t.Errorf("health = %v, expected %v", en.Health, 100-25-15)
	}
}

func TestPlayerHitLosesLife(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	p := e.player
	p.Shielded = false
	c := p.Center()
	e.enemyBullets = append(e.enemyBullets, &Projectile{
		Owner:  OwnerEnemy,
		Box:    core.CenteredBox(c.X, c.Y, 48, 48),
		Damage: 1,
	})

	now := clock.tick()
	e.events = nil
	e.resolveCollisions(now)

	if e.lives != 24 {
		t.Errorf("lives = %d, expected 24", e.lives)
	}
	if p.Health != p.MaxHealth {
		t.Errorf("health = %v, expected %v", p.Health, p.MaxHealth)
	}
	if !p.Shielded {
		t.Error("player should be shielded after losing a life")
	}
	if expected := now.Add(2 * time.Second); !e.invincibleUntil.Equal(expected) {
		t.Errorf("invincibleUntil = %v, expected %v", e.invincibleUntil, expected)
	}
	if n := countEvents(e.events, EventLifeLost); n != 1 {
		t.Errorf("life lost events = %d, expected 1", n)
	}
	if len(e.enemyBullets) != 0 {
		t.Error("enemy bullet should be consumed")
	}

	// A second hit inside the window is absorbed but still consumes the bullet.
	e.enemyBullets = append(e.enemyBullets, &Projectile{
		Owner:  OwnerEnemy,
		Box:    core.CenteredBox(c.X, c.Y, 48, 48),
		Damage: 1,
	})
	e.resolveCollisions(now.Add(time.Second))
	if e.lives != 24 || len(e.enemyBullets) != 0 {
		t.Errorf("lives = %d, bullets = %d, expected 24 and 0", e.lives, len(e.enemyBullets))
	}

	e.refreshShield(now.Add(2*time.Second + time.Millisecond))
	if p.Shielded {
		t.Error("invincibility should end after two seconds")
	}
}

func TestEnemyBulletWithoutDamageDealsOne(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.player.MaxHealth, e.player.Health = 5, 5
	c := e.player.Center()
	e.enemyBullets = append(e.enemyBullets, &Projectile{Owner: OwnerEnemy, Box: core.CenteredBox(c.X, c.Y, 10, 10)})

	e.resolveCollisions(clock.tick())
	if e.player.Health != 4 {
		t.Errorf("health = %v, expected 4", e.player.Health)
	}
}

func TestLastLifeEndsRun(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.lives = 1
	c := e.player.Center()
	for i := 0; i < 3; i++ {
		e.enemyBullets = append(e.enemyBullets, &Projectile{
			Owner:  OwnerEnemy,
			Box:    core.CenteredBox(c.X, c.Y, 48, 48),
			Damage: 3,
		})
	}

	e.events = nil
	e.resolveCollisions(clock.tick())

	if e.Phase() != PhaseGameOver {
		t.Fatalf("Phase() = %v, expected game over", e.Phase())
	}
	if e.player.Health != 0 || e.lives != 0 {
		t.Errorf("health/lives = %v/%d, expected 0/0", e.player.Health, e.lives)
	}
	if n := countEvents(e.events, EventGameOver); n != 1 {
		t.Errorf("game over events = %d, expected 1", n)
	}
	if n := countEvents(e.events, EventPlayerDamaged); n != 1 {
		t.Errorf("damage events = %d, expected resolution to stop after game over", n)
	}
}

func TestContactDestroysRegularEnemy(t *testing.T) {
	tests := []struct {
		name      string
		shielded  bool
		livesLost int
	}{
		{"unshielded", false, 1},
		{"shielded", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clock := startEngine(t, quietConfig())
			now := clock.tick()
			if tt.shielded {
				e.timers.Activate(PowerUpShield, now)
			}
			c := e.player.Center()
			addDrifter(e, c.X-30, c.Y-30, 5)

			e.resolveCollisions(now)

			if len(e.enemies) != 0 {
				t.Errorf("enemies = %d, expected contact to destroy the enemy", len(e.enemies))
			}
			if lost := 25 - e.lives; lost != tt.livesLost {
				t.Errorf("lives lost = %d, expected %d", lost, tt.livesLost)
			}
			if e.score != 0 || e.round.Killed != 0 {
				t.Errorf("score/killed = %d/%d, expected contact kills to award nothing", e.score, e.round.Killed)
			}
		})
	}
}

func TestBossSurvivesContact(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.phase = PhaseBossPending
	now := clock.tick()
	e.spawnBosses(now)
	boss := e.liveBosses()[0]
	c := e.player.Center()
	boss.Box = core.CenteredBox(c.X, c.Y, boss.Box.W, boss.Box.H)

	e.resolveCollisions(now)

	if len(e.liveBosses()) != 1 {
		t.Error("boss should survive body contact")
	}
	if e.lives != 24 {
		t.Errorf("lives = %d, expected 24", e.lives)
	}
	if e.player.Health != e.player.MaxHealth {
		t.Errorf("health = %v, expected reset to max", e.player.Health)
	}
}

func TestCollectPowerUp(t *testing.T) {
	tests := []struct {
		kind PowerUpType
	}{
		{PowerUpRapidFire},
		{PowerUpShield},
		{PowerUpExtraDamage},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e, clock := startEngine(t, quietConfig())
			c := e.player.Center()
			e.pickups = append(e.pickups, &PowerUp{Type: tt.kind, Box: core.CenteredBox(c.X, c.Y, 40, 40)})

			now := clock.tick()
			e.events = nil
			e.resolveCollisions(now)

			if !e.timers.Active(tt.kind) {
				t.Errorf("%v should be active", tt.kind)
			}
			if len(e.pickups) != 0 {
				t.Error("pickup should be removed")
			}
			if n := countEvents(e.events, EventPowerUpCollected); n != 1 {
				t.Errorf("collected events = %d, expected 1", n)
			}
			if shielded := e.player.Shielded; shielded != (tt.kind == PowerUpShield) {
				t.Errorf("Shielded = %v", shielded)
			}
		})
	}
}

func TestExtraDamageDoublesBullets(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	now := clock.tick()
	e.timers.Activate(PowerUpExtraDamage, now)
	e.shoot(now)
	if got := e.bullets[0].Damage; got != 2 {
		t.Errorf("bullet damage = %v, expected 2", got)
	}
}

func TestAnomalyKill(t *testing.T) {
	cfg := quietConfig()
	cfg.PowerUps.AnomalyDropChance = 1
	e, clock := startEngine(t, cfg)
	an := e.newAnomaly(true)
	an.Box.Y = 100
	e.enemies = append(e.enemies, an)
	aimAt(e, an, 1)

	e.events = nil
	e.resolveCollisions(clock.tick())

	if n := countEvents(e.events, EventAnomalyKilled); n != 1 {
		t.Errorf("anomaly killed events = %d, expected 1", n)
	}
	if e.score != 500 {
		t.Errorf("score = %d, expected 500", e.score)
	}
	if e.round.Killed != 0 {
		t.Errorf("killed = %d, anomalies should not count toward the quota", e.round.Killed)
	}
	if len(e.pickups) != 1 || len(e.fx.hits) != 1 {
		t.Errorf("pickups/hits = %d/%d, expected 1/1", len(e.pickups), len(e.fx.hits))
	}
}
