// Package level derives per-level difficulty from the base configuration.
package level

import (
	"math"

	"github.com/tomz197/invaders/internal/config"
)

// Params is the immutable difficulty of one level.
type Params struct {
	Level          int // Level number as played (>= 1)
	EffectiveLevel int // min(Level, cap), used for all scaling

	InvaderVelocity float64 // Initial formation speed
	BombRate        float64 // Bombs per second per front-rank invader
	BombMinVelocity float64
	BombMaxVelocity float64
	RocketFireRate  float64 // Max rockets per second
	ShipSpeed       float64

	Ranks int
	Files int

	// FileSpan is the fractional file count used to space the formation.
	FileSpan float64
}

// InvaderCount returns the number of invaders the level starts with.
func (p Params) InvaderCount() int {
	return p.Ranks * p.Files
}

// Derive computes the parameters for level. Levels below 1 are treated as 1.
// Difficulty grows linearly with the effective level and freezes past the cap.
func Derive(cfg config.Config, lvl int) Params {
	if lvl < 1 {
		lvl = 1
	}
	eff := lvl
	if cfg.LimitLevelIncrease > 0 && eff > cfg.LimitLevelIncrease {
		eff = cfg.LimitLevelIncrease
	}

	mult := float64(eff) * cfg.LevelDifficultyMultiplier
	ranks := float64(cfg.InvaderRanks) + cfg.RankStep*float64(eff)
	files := float64(cfg.InvaderFiles) + cfg.FileStep*float64(eff)

	return Params{
		Level:          lvl,
		EffectiveLevel: eff,

		InvaderVelocity: cfg.InvaderInitialVelocity + cfg.InvaderVelocityScale*mult*cfg.InvaderInitialVelocity,
		BombRate:        cfg.BombRate + mult*cfg.BombRate,
		BombMinVelocity: cfg.BombMinVelocity + mult*cfg.BombMinVelocity,
		BombMaxVelocity: cfg.BombMaxVelocity + mult*cfg.BombMaxVelocity,
		RocketFireRate:  cfg.RocketMaxFireRate + cfg.FireRateStep*float64(eff),
		ShipSpeed:       cfg.ShipSpeed,

		Ranks:    gridCount(ranks),
		Files:    gridCount(files),
		FileSpan: files,
	}
}

// gridCount is the number of integer indices i with 0 <= i < v.
func gridCount(v float64) int {
	n := int(math.Ceil(v - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}
