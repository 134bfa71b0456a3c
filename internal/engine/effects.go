package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
)

// Particle is a short-lived cosmetic spark.
type Particle struct {
	Pos   core.Vec2     `json:"pos"`
	Vel   core.Vec2     `json:"vel"`
	Born  time.Time     `json:"-"`
	Life  time.Duration `json:"life"`
	Color core.Color    `json:"color"`
}

// Explosion is a growing ring.
type Explosion struct {
	Center  core.Vec2     `json:"center"`
	Size    float64       `json:"size"`
	MaxSize float64       `json:"maxSize"`
	Born    time.Time     `json:"-"`
	Life    time.Duration `json:"life"`
}

// HitEffect is a fading flash shown when an anomaly dies.
type HitEffect struct {
	Box   core.Box      `json:"box"`
	Alpha float64       `json:"alpha"`
	Born  time.Time     `json:"-"`
	Life  time.Duration `json:"life"`
}

// effects owns every cosmetic record. Nothing in it affects gameplay.
type effects struct {
	cfg        config.EffectsConfig
	particles  []Particle
	explosions []Explosion
	hits       []HitEffect
}

func (f *effects) reset() {
	f.particles = f.particles[:0]
	f.explosions = f.explosions[:0]
	f.hits = f.hits[:0]
}

// burst spawns n particles at pos. Angle is uniform over the circle;
// speed is min + U[0, spread).
func (f *effects) burst(rng *SimpleRNG, now time.Time, pos core.Vec2, n int, speedMin, speedSpread float64, color core.Color) {
	for i := 0; i < n; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := rng.Range(speedMin, speedSpread)
		life := config.Millis(f.cfg.ParticleMinMS) + time.Duration(rng.Float64()*float64(config.Millis(f.cfg.ParticleSpreadMS)))
		f.particles = append(f.particles, Particle{
			Pos:   pos,
			Vel:   core.Vec2{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			Born:  now,
			Life:  life,
			Color: color,
		})
	}
}

func (f *effects) explode(rng *SimpleRNG, now time.Time, pos core.Vec2) {
	f.explosions = append(f.explosions, Explosion{
		Center:  pos,
		MaxSize: f.cfg.ExplosionSize,
		Born:    now,
		Life:    config.Millis(f.cfg.ExplosionMS),
	})
	f.burst(rng, now, pos, 10, 2, 4, core.ColorRed)
}

func (f *effects) flash(now time.Time, pos core.Vec2) {
	size := f.cfg.HitEffectSize
	f.hits = append(f.hits, HitEffect{
		Box:   core.CenteredBox(pos.X, pos.Y, size, size),
		Alpha: 1,
		Born:  now,
		Life:  config.Millis(f.cfg.HitEffectMS),
	})
}

// update integrates particles and ages every record.
func (f *effects) update(now time.Time, scale float64) {
	live := f.particles[:0]
	for _, p := range f.particles {
		if now.Sub(p.Born) > p.Life {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(scale))
		p.Vel.Y += f.cfg.Gravity * scale
		live = append(live, p)
	}
	f.particles = live

	explosions := f.explosions[:0]
	for _, x := range f.explosions {
		age := now.Sub(x.Born)
		if age > x.Life {
			continue
		}
		x.Size = float64(age) / float64(x.Life) * x.MaxSize
		explosions = append(explosions, x)
	}
	f.explosions = explosions

	hits := f.hits[:0]
	for _, h := range f.hits {
		age := now.Sub(h.Born)
		if age > h.Life {
			continue
		}
		h.Alpha = 1 - float64(age)/float64(h.Life)
		hits = append(hits, h)
	}
	f.hits = hits
}
