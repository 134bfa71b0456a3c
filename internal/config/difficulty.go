package config

import (
	"fmt"
	"math"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// RoundDifficulty is the set of scalars recomputed at each round start.
type RoundDifficulty struct {
	SpawnRate       time.Duration
	SpeedMultiplier float64
	ScoreMultiplier float64
}

// EnemiesNeeded returns the kill quota for a round.
// Round 1 uses the base quota; later rounds grow super-linearly.
func (r RoundConfig) EnemiesNeeded(round int) int {
	if round <= 1 {
		return r.BaseQuota
	}
	d := float64(round - 1)
	return r.BaseQuota + r.QuotaLinear*round + int(math.Floor(d*d*r.QuotaQuadratic))
}

// Difficulty returns the round scalars layered on top of a map's base values.
// The first round runs at the map's own values.
func (r RoundConfig) Difficulty(m MapConfig, round int) RoundDifficulty {
	if round <= 1 {
		return RoundDifficulty{
			SpawnRate:       Millis(m.SpawnRateMS),
			SpeedMultiplier: m.SpeedMultiplier,
			ScoreMultiplier: m.ScoreMultiplier,
		}
	}
	rate := m.SpawnRateMS - round*r.SpawnRateStepMS
	return RoundDifficulty{
		SpawnRate:       Millis(max(r.SpawnRateFloorMS, rate)),
		SpeedMultiplier: m.SpeedMultiplier + float64(round)*r.SpeedStep,
		ScoreMultiplier: m.ScoreMultiplier + float64(round)*r.ScoreStep,
	}
}

// BossCount returns how many bosses a round's wave contains.
func (r RoundConfig) BossCount(round int) int {
	if round >= r.TwoBossRound {
		return 2
	}
	return 1
}

// BossHealth scales an archetype's base health for a round.
func (r RoundConfig) BossHealth(base float64, round int) float64 {
	return math.Floor(base * (1 + float64(round-1)*r.BossHealthGrowth))
}

// Level returns the score-driven level, starting at 1.
func (s SpawnConfig) Level(score int) int {
	if s.ScorePerLevel <= 0 {
		return 1
	}
	return score/s.ScorePerLevel + 1
}

// LevelSpawnRate is the spawn rate a level-up resets to.
func (s SpawnConfig) LevelSpawnRate(m MapConfig, level int) time.Duration {
	return Millis(max(s.LevelRateFloor, m.SpawnRateMS-(level-1)*s.LevelRateStepMS))
}

// Interval returns the gap between regular spawns at a spawn rate and level.
func (s SpawnConfig) Interval(spawnRate time.Duration, level int) time.Duration {
	interval := spawnRate - time.Duration(level-1)*Millis(s.LevelPenaltyMS)
	return max(Millis(s.MinIntervalMS), interval)
}
