package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
)

var up = core.Vec2{X: 0, Y: -1}

// updatePlayer moves the ship and handles both fire buttons.
// Each axis sums digital input with scaled analog input and is clamped
// to [-1, 1] on its own.
func (e *Engine) updatePlayer(now time.Time, scale float64, in Input) {
	p := e.player
	if p == nil {
		return
	}

	var mx, my float64
	if in.Left {
		mx--
	}
	if in.Right {
		mx++
	}
	if in.Up {
		my--
	}
	if in.Down {
		my++
	}
	gain := e.cfg.Player.AnalogGain
	mx = core.ClampF(mx+core.ClampF(in.AnalogX, -1, 1)*gain, -1, 1)
	my = core.ClampF(my+core.ClampF(in.AnalogY, -1, 1)*gain, -1, 1)

	w, h := e.cfg.World.Width, e.cfg.World.Height
	p.Box.X = core.ClampF(p.Box.X+mx*p.Speed*scale, 0, math.Max(0, w-p.Box.W))
	p.Box.Y = core.ClampF(p.Box.Y+my*p.Speed*scale, 0, math.Max(0, h-p.Box.H))

	if in.Fire {
		e.shoot(now)
	}
	if in.ChargeFire {
		e.chargeShoot(now)
	}
}

// shoot fires a volley when the cooldown has elapsed. Spread replaces the
// single bullet with a fan; homing applies only to the single bullet.
func (e *Engine) shoot(now time.Time) bool {
	p := e.player
	cooldown := e.stats.ShootCooldown
	if e.timers.Active(PowerUpRapidFire) {
		cooldown = config.Millis(e.cfg.Player.RapidFireMS)
	}
	if !e.lastShot.IsZero() && now.Sub(e.lastShot) <= cooldown {
		return false
	}
	e.lastShot = now

	bc := e.cfg.Bullets
	damage := e.stats.Damage
	if e.timers.Active(PowerUpExtraDamage) {
		damage *= e.cfg.PowerUps.DamageMultiplier
	}
	c := p.Center()
	box := core.NewBox(c.X-bc.PlayerSize/2, p.Box.Y, bc.PlayerSize, bc.PlayerSize)

	count := 1 + e.stats.SpreadExtra
	if e.stats.SpreadExtra > 0 {
		n := count
		for i := 0; i < n; i++ {
			angle := (float64(i) - float64(n-1)/2) * bc.SpreadAngle
			e.bullets = append(e.bullets, &Projectile{
				Owner:  OwnerPlayer,
				Box:    box,
				Dir:    core.FromAngle(angle),
				Speed:  bc.PlayerSpeed,
				Damage: damage,
				Spread: true,
			})
		}
	} else {
		b := &Projectile{
			Owner:  OwnerPlayer,
			Box:    box,
			Dir:    up,
			Speed:  bc.PlayerSpeed,
			Damage: damage,
		}
		if e.stats.HomingStrength > 0 {
			b.Homing = true
			b.HomingStrength = e.stats.HomingStrength
		}
		e.bullets = append(e.bullets, b)
	}

	muzzle := core.Vec2{X: c.X, Y: p.Box.Y}
	e.fx.burst(e.rng, now, muzzle, 5, 1, 2, core.ColorYellow)
	e.emit(Event{Type: EventShoot, Pos: muzzle, Value: count})
	return true
}

// chargeShoot releases the charge meter as one heavy shot.
func (e *Engine) chargeShoot(now time.Time) bool {
	if !e.charge.Fire(now) {
		return false
	}
	p := e.player
	cc := e.cfg.Charge
	c := p.Center()
	e.bullets = append(e.bullets, &Projectile{
		Owner:      OwnerPlayer,
		Box:        core.NewBox(c.X-cc.Size/2, p.Box.Y, cc.Size, cc.Size),
		Dir:        up,
		Speed:      cc.Speed,
		Damage:     cc.Damage,
		ChargeShot: true,
	})
	muzzle := core.Vec2{X: c.X, Y: p.Box.Y}
	e.fx.burst(e.rng, now, muzzle, 10, 3, 5, core.ColorRed)
	e.emit(Event{Type: EventChargeShot, Pos: muzzle, Amount: cc.Damage})
	return true
}

// updatePlayerBullets steers homing bullets, moves every bullet and drops
// those that left the world.
func (e *Engine) updatePlayerBullets(scale float64) {
	w, h := e.cfg.World.Width, e.cfg.World.Height
	for _, b := range e.bullets {
		if b.Homing {
			e.steer(b)
		}
		b.Box.X += b.Dir.X * b.Speed * scale
		b.Box.Y += b.Dir.Y * b.Speed * scale
		if b.Box.Outside(w, h, 0) {
			b.removed = true
		}
	}
	e.bullets = compact(e.bullets, func(b *Projectile) bool { return b.removed })
}

// steer turns a homing bullet toward its target, re-acquiring the nearest
// live enemy when the held id no longer resolves to one.
func (e *Engine) steer(b *Projectile) {
	target := e.enemyByID(b.Target)
	if target == nil || !target.Alive() {
		target = e.nearestEnemy(b.Box.Center())
		b.Target = 0
		if target != nil {
			b.Target = target.ID
		}
	}
	if target == nil {
		return
	}
	to := target.Box.Center().Sub(b.Box.Center())
	if to.Len() == 0 {
		return
	}
	if dir := b.Dir.Lerp(to.Normalize(), b.HomingStrength).Normalize(); dir != (core.Vec2{}) {
		b.Dir = dir
	}
}

func (e *Engine) enemyByID(id EntityID) *Enemy {
	if id == 0 {
		return nil
	}
	for _, en := range e.enemies {
		if en.ID == id {
			return en
		}
	}
	return nil
}

// nearestEnemy returns the live enemy whose center is closest to pos.
// Ties keep the first one encountered.
func (e *Engine) nearestEnemy(pos core.Vec2) *Enemy {
	var best *Enemy
	bestDist := math.Inf(1)
	for _, en := range e.enemies {
		if !en.Alive() {
			continue
		}
		if d := core.Dist(pos, en.Box.Center()); d < bestDist {
			best, bestDist = en, d
		}
	}
	return best
}

func (e *Engine) updateEnemyBullets(scale float64) {
	w, h := e.cfg.World.Width, e.cfg.World.Height
	for _, b := range e.enemyBullets {
		b.Box.X += b.Dir.X * b.Speed * scale
		b.Box.Y += b.Dir.Y * b.Speed * scale
		if b.Box.Outside(w, h, 0) {
			b.removed = true
		}
	}
	e.enemyBullets = compact(e.enemyBullets, func(b *Projectile) bool { return b.removed })
}

// updateEnemies advances every enemy by its pattern and fires due guns.
func (e *Engine) updateEnemies(now time.Time, scale float64) {
	for _, en := range e.enemies {
		if en.removed {
			continue
		}
		switch en.Pattern {
		case PatternBoss:
			e.updateBoss(en, now, scale)
		case PatternAnomaly:
			e.updateAnomaly(en, now, scale)
		default:
			e.updateDrifter(en, now, scale)
		}
	}
	e.enemies = compact(e.enemies, func(en *Enemy) bool { return en.removed })
}

func (e *Engine) updateDrifter(en *Enemy, now time.Time, scale float64) {
	d := en.Drift
	if d == nil {
		en.removed = true
		return
	}
	en.Box.Y += en.Speed * scale
	switch en.Pattern {
	case PatternZigzag:
		en.Box.X += math.Sin(en.Box.Y*0.02) * d.Direction * 2 * scale
	case PatternCircular:
		d.Angle += 0.05 * scale
		en.Box.X += math.Sin(d.Angle) * 3 * scale
	}

	h := e.cfg.World.Height
	if g := d.Gun; g != nil && e.player != nil &&
		en.Box.Y > 0 && en.Box.Y < h-e.cfg.Spawn.FireBandBottom &&
		now.Sub(g.LastShot) > g.Cooldown {
		e.enemyShoot(en)
		g.LastShot = now
	}

	if en.Box.Y > h {
		en.removed = true
	}
}

// updateAnomaly drifts in from the side, announces itself once at the
// trigger line, then charges the player.
func (e *Engine) updateAnomaly(en *Enemy, now time.Time, scale float64) {
	a := en.Anomaly
	ac := e.cfg.Anomaly
	w, h := e.cfg.World.Width, e.cfg.World.Height

	if a.Phase == AnomalyDrifting {
		crossed := en.Box.X > -ac.TriggerInset
		if a.Direction < 0 {
			crossed = en.Box.Right() < w+ac.TriggerInset
		}
		if crossed {
			a.Phase = AnomalyCharging
			c := en.Box.Center()
			e.fx.explode(e.rng, now, c)
			e.fx.burst(e.rng, now, c, 15, 3, 5, core.ColorMagenta)
			e.emit(Event{Type: EventAnomalySpawned, Enemy: en.ID, Pos: c})
		}
	}

	switch {
	case a.Phase == AnomalyCharging && e.player != nil:
		to := e.player.Center().Sub(en.Box.Center())
		if to.Len() > 0 {
			step := to.Normalize().Scale(en.Speed * ac.ChargeFactor * scale)
			en.Box.X += step.X
			en.Box.Y += step.Y
		}
	case a.Phase == AnomalyDrifting:
		en.Box.X += en.Speed * a.Direction * scale
	}

	if en.Box.Outside(w, h, ac.DespawnMargin) {
		en.removed = true
	}
}

func (e *Engine) updateBoss(en *Enemy, now time.Time, scale float64) {
	b := en.Boss
	b.MovementTimer += 0.02 * scale
	en.Box.X += math.Sin(b.MovementTimer) * 2 * scale
	if en.Box.Y < e.cfg.Rounds.BossEntryY {
		en.Box.Y += en.Speed * 0.5 * scale
	} else {
		en.Box.Y += math.Sin(b.MovementTimer*0.5) * 0.5 * scale
	}
	en.Box.X = core.ClampF(en.Box.X, 0, math.Max(0, e.cfg.World.Width-en.Box.W))

	if now.Sub(b.LastShot) > b.ShootCooldown {
		e.bossShoot(en)
		b.LastShot = now
	}
	if now.Sub(b.LastSpecial) > b.SpecialCooldown {
		e.bossSpecial(en)
		b.LastSpecial = now
	}
}

// enemyShoot fires one bullet from the enemy's bottom edge at the player.
func (e *Engine) enemyShoot(en *Enemy) {
	bc := e.cfg.Bullets
	c := en.Box.Center()
	dir := e.player.Center().Sub(c).Normalize()
	if dir == (core.Vec2{}) {
		dir = core.Vec2{Y: 1}
	}
	e.enemyBullets = append(e.enemyBullets, &Projectile{
		Owner:  OwnerEnemy,
		Box:    core.NewBox(c.X-bc.EnemySize/2, en.Box.Bottom(), bc.EnemySize, bc.EnemySize),
		Dir:    dir,
		Speed:  bc.EnemySpeed,
		Damage: bc.EnemyDamage,
	})
	e.emit(Event{Type: EventEnemyShoot, Enemy: en.ID, Pos: c})
}

// downward returns the unit vector deg degrees from straight down.
func downward(deg float64) core.Vec2 {
	rad := deg * math.Pi / 180
	return core.Vec2{X: math.Sin(rad), Y: math.Cos(rad)}
}

// bossShoot fires the burst fan. It needs a player to aim at.
func (e *Engine) bossShoot(en *Enemy) {
	if e.player == nil {
		return
	}
	bc := e.cfg.Bullets
	c := en.Box.Center()
	for _, angle := range bc.BurstAngles {
		e.enemyBullets = append(e.enemyBullets, &Projectile{
			Owner:  OwnerBoss,
			Box:    core.NewBox(c.X-bc.BossSize/2, en.Box.Bottom(), bc.BossSize, bc.BossSize),
			Dir:    downward(angle),
			Speed:  bc.BossSpeed,
			Damage: en.Boss.Damage,
		})
	}
	e.emit(Event{Type: EventEnemyShoot, Enemy: en.ID, Pos: c, Label: en.Name})
}

// bossSpecial fires a full ring from the boss center.
func (e *Engine) bossSpecial(en *Enemy) {
	bc := e.cfg.Bullets
	n := bc.SpecialCount
	if n <= 0 {
		return
	}
	c := en.Box.Center()
	step := 360 / float64(n)
	for i := 0; i < n; i++ {
		e.enemyBullets = append(e.enemyBullets, &Projectile{
			Owner:   OwnerBoss,
			Box:     core.NewBox(c.X-bc.BossSize/2, c.Y, bc.BossSize, bc.BossSize),
			Dir:     downward(float64(i) * step),
			Speed:   bc.SpecialSpeed,
			Damage:  en.Boss.Damage,
			Special: true,
		})
	}
	e.emit(Event{Type: EventBossSpecial, Enemy: en.ID, Pos: c, Label: en.Name})
}

// updatePickups drifts power-ups down and expires timed effects.
func (e *Engine) updatePickups(now time.Time, scale float64) {
	h := e.cfg.World.Height
	for _, pu := range e.pickups {
		pu.Box.Y += pu.Speed * scale
		pu.Rotation += e.cfg.PowerUps.RotationStep * scale
		if pu.Box.Y > h {
			pu.removed = true
		}
	}
	e.pickups = compact(e.pickups, func(pu *PowerUp) bool { return pu.removed })

	for _, kind := range e.timers.Expire(now) {
		e.emit(Event{Type: EventPowerUpExpired, Label: kind.String()})
	}
}
