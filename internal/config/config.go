// Package config provides YAML-based configuration loading and round
// difficulty curves for the shooter.
package config

import "time"

// Config contains every tunable of the simulation.
// Durations are stored as integer milliseconds to keep the YAML readable.
type Config struct {
	World      WorldConfig   `yaml:"world"`
	Player     PlayerConfig  `yaml:"player"`
	Bullets    BulletConfig  `yaml:"bullets"`
	Charge     ChargeConfig  `yaml:"charge"`
	PowerUps   PowerUpConfig `yaml:"powerups"`
	Spawn      SpawnConfig   `yaml:"spawn"`
	Anomaly    AnomalyConfig `yaml:"anomaly"`
	Rounds     RoundConfig   `yaml:"rounds"`
	Upgrades   UpgradeConfig `yaml:"upgrades"`
	Effects    EffectsConfig `yaml:"effects"`
	DefaultMap string        `yaml:"default_map"`
	Maps       []MapConfig   `yaml:"maps"`
	Bosses     []BossConfig  `yaml:"bosses"`
	Enemies    []EnemyConfig `yaml:"enemies"`
}

// WorldConfig is the size of the play field in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the ship and its base stats.
type PlayerConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	BottomOffset    float64 `yaml:"bottom_offset"` // spawn distance from the bottom edge
	Speed           float64 `yaml:"speed"`
	Health          float64 `yaml:"health"`
	Lives           int     `yaml:"lives"`
	Damage          float64 `yaml:"damage"`
	ShootCooldownMS int     `yaml:"shoot_cooldown_ms"`
	RapidFireMS     int     `yaml:"rapid_fire_cooldown_ms"`
	InvincibilityMS int     `yaml:"invincibility_ms"`
	AnalogGain      float64 `yaml:"analog_gain"`
	ContactDamage   float64 `yaml:"contact_damage"`
}

// BulletConfig defines projectile sizes and speeds.
type BulletConfig struct {
	PlayerSize   float64   `yaml:"player_size"`
	PlayerSpeed  float64   `yaml:"player_speed"`
	SpreadAngle  float64   `yaml:"spread_angle"` // degrees between spread bullets
	EnemySize    float64   `yaml:"enemy_size"`
	EnemySpeed   float64   `yaml:"enemy_speed"`
	EnemyDamage  float64   `yaml:"enemy_damage"`
	BossSize     float64   `yaml:"boss_size"`
	BossSpeed    float64   `yaml:"boss_speed"`
	BurstAngles  []float64 `yaml:"burst_angles"` // degrees from straight down
	SpecialCount int       `yaml:"special_count"`
	SpecialSpeed float64   `yaml:"special_speed"`
}

// ChargeConfig defines the charge meter and the charge shot.
type ChargeConfig struct {
	Max           float64 `yaml:"max"`
	GainPerDamage float64 `yaml:"gain_per_damage"`
	CooldownMS    int     `yaml:"cooldown_ms"`
	Size          float64 `yaml:"size"`
	Speed         float64 `yaml:"speed"`
	Damage        float64 `yaml:"damage"`
}

// PowerUpConfig defines pickups and timed effects.
type PowerUpConfig struct {
	Size              float64        `yaml:"size"`
	DriftSpeed        float64        `yaml:"drift_speed"`
	RotationStep      float64        `yaml:"rotation_step"`
	DropChance        float64        `yaml:"drop_chance"`
	AnomalyDropChance float64        `yaml:"anomaly_drop_chance"`
	DamageMultiplier  float64        `yaml:"damage_multiplier"` // extraDamage effect
	DurationsMS       map[string]int `yaml:"durations_ms"`
}

// SpawnConfig defines regular spawning and the score-driven level.
type SpawnConfig struct {
	MinIntervalMS   int     `yaml:"min_interval_ms"`
	LevelPenaltyMS  int     `yaml:"level_penalty_ms"`
	ScorePerLevel   int     `yaml:"score_per_level"`
	LevelRateFloor  int     `yaml:"level_rate_floor_ms"`
	LevelRateStepMS int     `yaml:"level_rate_step_ms"`
	FireBandBottom  float64 `yaml:"fire_band_bottom"` // enemies stop shooting this close to the bottom
}

// AnomalyConfig defines the rare drift-then-charge enemy.
type AnomalyConfig struct {
	PeriodMS      int     `yaml:"period_ms"`
	Chance        float64 `yaml:"chance"`
	Size          float64 `yaml:"size"`
	Health        float64 `yaml:"health"`
	Score         int     `yaml:"score"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedSpread   float64 `yaml:"speed_spread"`
	EntryOffset   float64 `yaml:"entry_offset"`  // how far off-screen it starts
	TriggerInset  float64 `yaml:"trigger_inset"` // distance travelled before charging
	DespawnMargin float64 `yaml:"despawn_margin"`
	ChargeFactor  float64 `yaml:"charge_factor"`
	Band          float64 `yaml:"band"` // central fraction of the height used for entry
}

// RoundConfig defines quotas, boss waves and per-round scaling.
type RoundConfig struct {
	BaseQuota         int     `yaml:"base_quota"`
	QuotaLinear       int     `yaml:"quota_linear"`
	QuotaQuadratic    float64 `yaml:"quota_quadratic"`
	TwoBossRound      int     `yaml:"two_boss_round"`
	EliteRound        int     `yaml:"elite_round"`
	BossHealthGrowth  float64 `yaml:"boss_health_growth"`
	BossBonus         int     `yaml:"boss_bonus"`
	BossEntryY        float64 `yaml:"boss_entry_y"`
	UpgradeDelayMS    int     `yaml:"upgrade_delay_ms"`
	NextRoundDelayMS  int     `yaml:"next_round_delay_ms"`
	SpawnRateFloorMS  int     `yaml:"spawn_rate_floor_ms"`
	SpawnRateStepMS   int     `yaml:"spawn_rate_step_ms"`
	SpeedStep         float64 `yaml:"speed_step"`
	ScoreStep         float64 `yaml:"score_step"`
	CelebrationBursts int     `yaml:"celebration_particles"`
}

// UpgradeConfig defines per-kind caps and per-level increments.
type UpgradeConfig struct {
	OfferCount     int            `yaml:"offer_count"`
	Caps           map[string]int `yaml:"caps"`
	DamageStep     float64        `yaml:"damage_step"`
	HealthStep     float64        `yaml:"health_step"`
	SpeedStep      float64        `yaml:"speed_step"`
	FirerateStepMS int            `yaml:"firerate_step_ms"`
	MinCooldownMS  int            `yaml:"min_cooldown_ms"`
	HomingStep     float64        `yaml:"homing_step"`
}

// EffectsConfig defines cosmetic particle lifetimes.
type EffectsConfig struct {
	ParticleMinMS    int     `yaml:"particle_min_ms"`
	ParticleSpreadMS int     `yaml:"particle_spread_ms"`
	Gravity          float64 `yaml:"gravity"`
	ExplosionMS      int     `yaml:"explosion_ms"`
	ExplosionSize    float64 `yaml:"explosion_size"`
	HitEffectMS      int     `yaml:"hit_effect_ms"`
	HitEffectSize    float64 `yaml:"hit_effect_size"`
	KillParticles    int     `yaml:"kill_particles"`
}

// MapConfig is one selectable map.
type MapConfig struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	SpawnRateMS     int     `yaml:"spawn_rate_ms"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	ScoreMultiplier float64 `yaml:"score_multiplier"`
	Unlocked        bool    `yaml:"unlocked"`
}

// BossConfig is one boss archetype.
type BossConfig struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	Health            float64 `yaml:"health"`
	Size              float64 `yaml:"size"`
	Speed             float64 `yaml:"speed"`
	Damage            float64 `yaml:"damage"`
	ShootCooldownMS   int     `yaml:"shoot_cooldown_ms"`
	SpecialCooldownMS int     `yaml:"special_cooldown_ms"`
	Score             int     `yaml:"score"`
	Elite             bool    `yaml:"elite"` // only from Rounds.EliteRound
}

// EnemyConfig is a regular enemy template.
type EnemyConfig struct {
	Kind          int     `yaml:"kind"`
	Name          string  `yaml:"name"`
	Pattern       string  `yaml:"pattern"` // straight, zigzag or circular
	Health        float64 `yaml:"health"`
	Size          float64 `yaml:"size"`
	Score         int     `yaml:"score"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedSpread   float64 `yaml:"speed_spread"`
	ShootMS       int     `yaml:"shoot_cooldown_ms"` // 0 disables shooting
	ShootSpreadMS int     `yaml:"shoot_spread_ms"`
}

// Millis converts a millisecond setting to a Duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Map returns the map with the given id.
func (c *Config) Map(id string) (MapConfig, bool) {
	for _, m := range c.Maps {
		if m.ID == id {
			return m, true
		}
	}
	return MapConfig{}, false
}

// Boss returns the boss archetype with the given id.
func (c *Config) Boss(id string) (BossConfig, bool) {
	for _, b := range c.Bosses {
		if b.ID == id {
			return b, true
		}
	}
	return BossConfig{}, false
}

// PowerUpDuration returns the effect duration for a power-up type.
func (c *Config) PowerUpDuration(kind string) time.Duration {
	return Millis(c.PowerUps.DurationsMS[kind])
}

// UpgradeCap returns the maximum level for an upgrade kind.
func (c *Config) UpgradeCap(kind string) int {
	return c.Upgrades.Caps[kind]
}
