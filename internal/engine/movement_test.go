package engine

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/star-strike/internal/core"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpreadUpgradeFan(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.upgrades[UpgradeSpread] = 2
	e.upgrades[UpgradeHoming] = 1
	e.applyUpgrades()

	e.events = nil
	e.Step(clock.tick(), Input{Fire: true})

	if len(e.bullets) != 3 {
		t.Fatalf("bullets = %d, expected 3", len(e.bullets))
	}
	for i, angle := range []float64{-15, 0, 15} {
		b := e.bullets[i]
		expected := core.FromAngle(angle)
		if !approx(b.Dir.X, expected.X) || !approx(b.Dir.Y, expected.Y) {
			t.Errorf("bullet %d dir = %v, expected %v", i, b.Dir, expected)
		}
		if !b.Spread || b.Homing {
			t.Errorf("bullet %d spread/homing = %v/%v, expected true/false", i, b.Spread, b.Homing)
		}
	}
	if ev := e.events[0]; ev.Type != EventShoot || ev.Value != 3 {
		t.Errorf("event = %+v, expected a shoot event for 3 bullets", ev)
	}
}

func TestShootCooldown(t *testing.T) {
	tests := []struct {
		name     string
		rapid    bool
		frames   int
		expected int
	}{
		// 200ms cooldown: shots at frame 1, 14, 27, 40, 53 within 60 frames.
		{"normal", false, 60, 5},
		// 100ms cooldown: every 7th frame.
		{"rapid fire", true, 60, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clock := startEngine(t, quietConfig())
			if tt.rapid {
				e.timers.Activate(PowerUpRapidFire, clock.now)
			}
			shots := 0
			for i := 0; i < tt.frames; i++ {
				res := e.Step(clock.tick(), Input{Fire: true})
				shots += countEvents(res.Events, EventShoot)
			}
			if shots != tt.expected {
				t.Errorf("shots = %d, expected %d", shots, tt.expected)
			}
		})
	}
}

func TestPlayerMovementClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		x, y float64
	}{
		{"left wall", Input{Left: true}, 0, 600},
		{"right wall", Input{Right: true}, 1140, 600},
		{"top wall", Input{Up: true}, 570, 0},
		{"bottom wall", Input{Down: true}, 570, 615},
		{"analog", Input{AnalogX: -1, Right: true}, 0, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clock := startEngine(t, quietConfig())
			for i := 0; i < 800; i++ {
				e.Step(clock.tick(), tt.in)
			}
			if e.player.Box.X != tt.x || e.player.Box.Y != tt.y {
				t.Errorf("player at (%v, %v), expected (%v, %v)", e.player.Box.X, e.player.Box.Y, tt.x, tt.y)
			}
		})
	}
}

func TestAnalogInputIsClampedPerAxis(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	x := e.player.Box.X
	e.Step(clock.tick(), Input{Right: true, AnalogX: 1})
	if got := e.player.Box.X - x; got != e.player.Speed {
		t.Errorf("moved %v, expected one speed unit", got)
	}
}

func TestHomingReacquiresTarget(t *testing.T) {
	e, _ := startEngine(t, quietConfig())
	far := addDrifter(e, 900, 100, 5)
	near := addDrifter(e, 500, 100, 5)
	b := &Projectile{
		Owner:          OwnerPlayer,
		Box:            core.NewBox(520, 400, 28, 28),
		Dir:            up,
		Speed:          8,
		Damage:         1,
		Homing:         true,
		HomingStrength: 0.5,
		Target:         9999,
	}

	e.steer(b)
	if b.Target != near.ID {
		t.Errorf("Target = %d, expected nearest enemy %d", b.Target, near.ID)
	}
	if !approx(b.Dir.Len(), 1) {
		t.Errorf("Dir length = %v, expected unit", b.Dir.Len())
	}

	near.removed = true
	e.steer(b)
	if b.Target != far.ID {
		t.Errorf("Target = %d, expected %d after the first target died", b.Target, far.ID)
	}

	far.removed = true
	dir := b.Dir
	e.steer(b)
	if b.Target != 0 || b.Dir != dir {
		t.Errorf("with no enemies Target = %d, Dir = %v; expected 0 and unchanged", b.Target, b.Dir)
	}
}

func TestNearestEnemyTieKeepsFirst(t *testing.T) {
	e, _ := startEngine(t, quietConfig())
	a := addDrifter(e, 100, 100, 1)
	addDrifter(e, 300, 100, 1)

	pos := core.Vec2{X: 237.5, Y: 137.5}
	if got := e.nearestEnemy(pos); got != a {
		t.Errorf("nearestEnemy() = %d, expected first enemy %d", got.ID, a.ID)
	}
}

func TestAnomalyChargesOnce(t *testing.T) {
	for _, fromLeft := range []bool{true, false} {
		e, clock := startEngine(t, quietConfig())
		an := e.newAnomaly(fromLeft)
		an.Box.Y = 50
		e.enemies = append(e.enemies, an)

		announced := 0
		for i := 0; i < 600 && !an.removed; i++ {
			res := e.Step(clock.tick(), Input{})
			announced += countEvents(res.Events, EventAnomalySpawned)
		}
		if announced != 1 {
			t.Errorf("fromLeft=%v: spawn events = %d, expected 1", fromLeft, announced)
		}
		if an.Anomaly.Phase != AnomalyCharging {
			t.Errorf("fromLeft=%v: phase = %v, expected charging", fromLeft, an.Anomaly.Phase)
		}
	}
}

func TestAnomalyChargesTowardPlayer(t *testing.T) {
	e, _ := startEngine(t, quietConfig())
	an := e.newAnomaly(true)
	an.Box.X, an.Box.Y = 0, 0
	an.Anomaly.Phase = AnomalyCharging
	e.enemies = append(e.enemies, an)

	before := core.Dist(an.Box.Center(), e.player.Center())
	e.updateAnomaly(an, epoch, 1)
	after := core.Dist(an.Box.Center(), e.player.Center())
	if expected := an.Speed * 0.8; !approx(before-after, expected) {
		t.Errorf("closed %v, expected %v", before-after, expected)
	}
}

func TestEnemiesLeaveTheWorld(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	addDrifter(e, 100, 719, 1)
	e.bullets = append(e.bullets, &Projectile{Owner: OwnerPlayer, Box: core.NewBox(100, -30, 28, 28), Dir: up, Speed: 8})
	e.enemyBullets = append(e.enemyBullets, &Projectile{Owner: OwnerEnemy, Box: core.NewBox(100, 718, 48, 48), Dir: core.Vec2{Y: 1}, Speed: 4})

	e.Step(clock.tick(), Input{})
	if len(e.enemies) != 0 || len(e.bullets) != 0 || len(e.enemyBullets) != 0 {
		t.Errorf("enemies/bullets/enemy bullets = %d/%d/%d, expected all removed",
			len(e.enemies), len(e.bullets), len(e.enemyBullets))
	}
}

func TestGunnerAimsAtPlayer(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	en := addDrifter(e, 100, 100, 2)
	en.Drift.Gun = &Gun{Cooldown: time.Second}

	res := e.Step(clock.tick(), Input{})
	if n := countEvents(res.Events, EventEnemyShoot); n != 1 {
		t.Fatalf("enemy shots = %d, expected 1", n)
	}
	b := e.enemyBullets[0]
	if b.Box.Y != en.Box.Bottom() {
		t.Errorf("bullet y = %v, expected the enemy's bottom edge %v", b.Box.Y, en.Box.Bottom())
	}
	to := e.player.Center().Sub(en.Box.Center()).Normalize()
	if !approx(b.Dir.X, to.X) || !approx(b.Dir.Y, to.Y) {
		t.Errorf("bullet dir = %v, expected %v", b.Dir, to)
	}

	// No second shot inside the cooldown.
	for i := 0; i < 30; i++ {
		res = e.Step(clock.tick(), Input{})
		if countEvents(res.Events, EventEnemyShoot) != 0 {
			t.Fatalf("gun fired again after %d frames", i+1)
		}
	}
}

func TestBossAttacks(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.phase = PhaseBossPending
	e.spawnBosses(clock.now)
	boss := e.liveBosses()[0]

	e.bossShoot(boss)
	if len(e.enemyBullets) != 3 {
		t.Fatalf("burst bullets = %d, expected 3", len(e.enemyBullets))
	}
	for i, angle := range []float64{-70, 0, 70} {
		rad := angle * math.Pi / 180
		d := e.enemyBullets[i].Dir
		if !approx(d.X, math.Sin(rad)) || !approx(d.Y, math.Cos(rad)) {
			t.Errorf("burst %d dir = %v, expected %v degrees from down", i, d, angle)
		}
	}

	e.enemyBullets = nil
	e.bossSpecial(boss)
	if len(e.enemyBullets) != 8 {
		t.Fatalf("special bullets = %d, expected 8", len(e.enemyBullets))
	}
	for _, b := range e.enemyBullets {
		if !b.Special || b.Damage != boss.Boss.Damage {
			t.Errorf("special bullet = %+v", b)
		}
	}
}

func TestBossEntersThenHovers(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.phase = PhaseBossPending
	e.spawnBosses(clock.now)
	boss := e.liveBosses()[0]

	for i := 0; i < 600; i++ {
		e.updateBoss(boss, clock.tick(), 1)
	}
	if boss.Box.Y < 40 || boss.Box.Y > 150 {
		t.Errorf("boss y = %v, expected it to hover in the upper band", boss.Box.Y)
	}
	if boss.Box.X < 0 || boss.Box.Right() > e.cfg.World.Width {
		t.Errorf("boss x = %v, expected inside the world", boss.Box.X)
	}
}
