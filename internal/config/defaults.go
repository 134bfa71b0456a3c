package config

import (
	_ "embed"
)

//go:embed defaults/strike.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hard-coded configuration used when no YAML can be read.
func Default() Config {
	return Config{
		World: WorldConfig{Width: 1280, Height: 720},
		Player: PlayerConfig{
			Width:           140,
			Height:          105,
			BottomOffset:    120,
			Speed:           5,
			Health:          1,
			Lives:           25,
			Damage:          1,
			ShootCooldownMS: 200,
			RapidFireMS:     100,
			InvincibilityMS: 2000,
			AnalogGain:      1.2,
			ContactDamage:   1,
		},
		Bullets: BulletConfig{
			PlayerSize:   28,
			PlayerSpeed:  8,
			SpreadAngle:  15,
			EnemySize:    48,
			EnemySpeed:   4,
			EnemyDamage:  1,
			BossSize:     44,
			BossSpeed:    4,
			BurstAngles:  []float64{-70, 0, 70},
			SpecialCount: 8,
			SpecialSpeed: 3.5,
		},
		Charge: ChargeConfig{
			Max:           10,
			GainPerDamage: 0.5,
			CooldownMS:    3000,
			Size:          64,
			Speed:         5,
			Damage:        15,
		},
		PowerUps: PowerUpConfig{
			Size:              40,
			DriftSpeed:        2,
			RotationStep:      0.1,
			DropChance:        0.15,
			AnomalyDropChance: 0.5,
			DamageMultiplier:  2,
			DurationsMS: map[string]int{
				"rapidFire":   10000,
				"shield":      15000,
				"extraDamage": 12000,
			},
		},
		Spawn: SpawnConfig{
			MinIntervalMS:   200,
			LevelPenaltyMS:  50,
			ScorePerLevel:   500,
			LevelRateFloor:  800,
			LevelRateStepMS: 150,
			FireBandBottom:  100,
		},
		Anomaly: AnomalyConfig{
			PeriodMS:      30000,
			Chance:        0.15,
			Size:          98,
			Health:        1,
			Score:         500,
			SpeedMin:      2,
			SpeedSpread:   1.5,
			EntryOffset:   80,
			TriggerInset:  40,
			DespawnMargin: 200,
			ChargeFactor:  0.8,
			Band:          0.6,
		},
		Rounds: RoundConfig{
			BaseQuota:         25,
			QuotaLinear:       15,
			QuotaQuadratic:    2.5,
			TwoBossRound:      4,
			EliteRound:        7,
			BossHealthGrowth:  0.3,
			BossBonus:         500,
			BossEntryY:        50,
			UpgradeDelayMS:    2000,
			NextRoundDelayMS:  1500,
			SpawnRateFloorMS:  300,
			SpawnRateStepMS:   150,
			SpeedStep:         0.15,
			ScoreStep:         0.25,
			CelebrationBursts: 30,
		},
		Upgrades: UpgradeConfig{
			OfferCount: 3,
			Caps: map[string]int{
				"damage":   5,
				"health":   5,
				"speed":    5,
				"firerate": 5,
				"homing":   3,
				"spread":   3,
			},
			DamageStep:     0.25,
			HealthStep:     1,
			SpeedStep:      1,
			FirerateStepMS: 30,
			MinCooldownMS:  50,
			HomingStep:     0.02,
		},
		Effects: EffectsConfig{
			ParticleMinMS:    300,
			ParticleSpreadMS: 200,
			Gravity:          0.1,
			ExplosionMS:      500,
			ExplosionSize:    100,
			HitEffectMS:      500,
			HitEffectSize:    60,
			KillParticles:    8,
		},
		DefaultMap: "space",
		Maps: []MapConfig{
			{ID: "space", Name: "Deep Space", Description: "The classic battlefield", SpawnRateMS: 2000, SpeedMultiplier: 1.0, ScoreMultiplier: 1.0, Unlocked: true},
			{ID: "nebula", Name: "Nebula", Description: "Faster enemies, richer rewards", SpawnRateMS: 1700, SpeedMultiplier: 1.2, ScoreMultiplier: 1.5, Unlocked: true},
			{ID: "galaxy", Name: "Galaxy Core", Description: "Relentless waves at the core", SpawnRateMS: 1400, SpeedMultiplier: 1.5, ScoreMultiplier: 2.0, Unlocked: true},
		},
		Bosses: []BossConfig{
			{ID: "destroyer", Name: "Destroyer", Health: 120, Size: 184, Speed: 7.5, Damage: 2, ShootCooldownMS: 2500, SpecialCooldownMS: 7000, Score: 1000},
			{ID: "cruiser", Name: "Cruiser", Health: 120, Size: 184, Speed: 7.5, Damage: 3, ShootCooldownMS: 2200, SpecialCooldownMS: 6000, Score: 1200},
			{ID: "mothership", Name: "Mothership", Health: 120, Size: 184, Speed: 7.5, Damage: 4, ShootCooldownMS: 2000, SpecialCooldownMS: 5000, Score: 1500, Elite: true},
		},
		Enemies: []EnemyConfig{
			{Kind: 1, Name: "scout", Pattern: "straight", Health: 1, Size: 75, Score: 10, SpeedMin: 2, SpeedSpread: 2},
			{Kind: 2, Name: "weaver", Pattern: "zigzag", Health: 2, Size: 75, Score: 20, SpeedMin: 1.5, SpeedSpread: 1.5},
			{Kind: 3, Name: "spinner", Pattern: "circular", Health: 3, Size: 80, Score: 30, SpeedMin: 1, SpeedSpread: 1},
			{Kind: 4, Name: "gunner", Pattern: "circular", Health: 2, Size: 80, Score: 50, SpeedMin: 1, SpeedSpread: 1, ShootMS: 1500, ShootSpreadMS: 2000},
			{Kind: 5, Name: "raider", Pattern: "circular", Health: 2, Size: 85, Score: 50, SpeedMin: 1, SpeedSpread: 1, ShootMS: 1500, ShootSpreadMS: 3000},
			{Kind: 6, Name: "warden", Pattern: "circular", Health: 2, Size: 85, Score: 50, SpeedMin: 1, SpeedSpread: 1, ShootMS: 1500, ShootSpreadMS: 4000},
		},
	}
}
