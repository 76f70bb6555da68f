package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tomz197/invaders/internal/physics"
)

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the base configuration every level's parameters are derived from.
// Velocities are in logical pixels per second, rates are per second.
type Config struct {
	// Bombs
	BombRate        float64 `toml:"bombRate"`
	BombMinVelocity float64 `toml:"bombMinVelocity"`
	BombMaxVelocity float64 `toml:"bombMaxVelocity"`

	// Invader formation
	InvaderInitialVelocity float64 `toml:"invaderInitialVelocity"`
	InvaderAcceleration    float64 `toml:"invaderAcceleration"`
	InvaderDropDistance    float64 `toml:"invaderDropDistance"`
	InvaderRanks           int     `toml:"invaderRanks"`
	InvaderFiles           int     `toml:"invaderFiles"`
	FormationSpread        float64 `toml:"formationSpread"` // Horizontal span shared by all files
	RankSpacing            float64 `toml:"rankSpacing"`

	// Rockets
	RocketVelocity    float64 `toml:"rocketVelocity"`
	RocketMaxFireRate float64 `toml:"rocketMaxFireRate"`

	// Ship
	ShipSpeed    float64 `toml:"shipSpeed"`
	InitialLives int     `toml:"initialLives"`

	// Playfield: GameWidth x GameHeight bounds centered in a Screen sized surface.
	ScreenWidth  float64 `toml:"screenWidth"`
	ScreenHeight float64 `toml:"screenHeight"`
	GameWidth    float64 `toml:"gameWidth"`
	GameHeight   float64 `toml:"gameHeight"`
	FPS          int     `toml:"fps"`

	// Difficulty scaling
	LevelDifficultyMultiplier float64 `toml:"levelDifficultyMultiplier"`
	LimitLevelIncrease        int     `toml:"limitLevelIncrease"`
	InvaderVelocityScale      float64 `toml:"invaderVelocityScale"`
	FireRateStep              float64 `toml:"fireRateStep"`
	RankStep                  float64 `toml:"rankStep"`
	FileStep                  float64 `toml:"fileStep"`

	// Scoring
	PointsPerInvader int `toml:"pointsPerInvader"`
	LevelBonus       int `toml:"levelBonus"` // Awarded as level*LevelBonus on clear

	// Timers, in ticks unless noted
	ExplosionPhases     int     `toml:"explosionPhases"`
	RefreshTicks        int     `toml:"refreshTicks"`
	BlinkInterval       int     `toml:"blinkInterval"`
	RocketFrames        int     `toml:"rocketFrames"`
	RocketFrameInterval int     `toml:"rocketFrameInterval"`
	IntroSeconds        float64 `toml:"introSeconds"`

	// Skins selectable through the preference store.
	SkinCount int `toml:"skinCount"`
}

// Default returns the classic configuration.
func Default() Config {
	return Config{
		BombRate:        0.05,
		BombMinVelocity: 50,
		BombMaxVelocity: 50,

		InvaderInitialVelocity: 25,
		InvaderAcceleration:    5,
		InvaderDropDistance:    20,
		InvaderRanks:           6,
		InvaderFiles:           15,
		FormationSpread:        800,
		RankSpacing:            40,

		RocketVelocity:    120,
		RocketMaxFireRate: 2,

		ShipSpeed:    120,
		InitialLives: 3,

		ScreenWidth:  1200,
		ScreenHeight: 640,
		GameWidth:    1100,
		GameHeight:   530,
		FPS:          50,

		LevelDifficultyMultiplier: 0.2,
		LimitLevelIncrease:        25,
		InvaderVelocityScale:      1.5,
		FireRateStep:              0.4,
		RankStep:                  0.1,
		FileStep:                  0.2,

		PointsPerInvader: 5,
		LevelBonus:       50,

		ExplosionPhases:     5,
		RefreshTicks:        300,
		BlinkInterval:       10,
		RocketFrames:        4,
		RocketFrameInterval: 3,
		IntroSeconds:        3,

		SkinCount: 3,
	}
}

// Load reads a TOML file over the defaults. An empty path returns the defaults.
// The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode applies TOML text over cfg. Unknown keys are rejected.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return nil
}

// TickDuration is the simulated time of one tick in seconds.
func (c Config) TickDuration() float64 {
	return 1 / float64(c.FPS)
}

// Bounds returns the playfield rectangle centered on the screen.
func (c Config) Bounds() physics.Rect {
	return physics.Rect{
		X: c.ScreenWidth/2 - c.GameWidth/2,
		Y: c.ScreenHeight/2 - c.GameHeight/2,
		W: c.GameWidth,
		H: c.GameHeight,
	}
}

// Validate reports every field that would make the simulation misbehave.
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	nonNegative := func(name string, v float64) {
		check(v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v), "%s must be a non-negative number, got %v", name, v)
	}
	nonNegative("bombRate", c.BombRate)
	nonNegative("bombMinVelocity", c.BombMinVelocity)
	nonNegative("bombMaxVelocity", c.BombMaxVelocity)
	nonNegative("invaderInitialVelocity", c.InvaderInitialVelocity)
	nonNegative("invaderAcceleration", c.InvaderAcceleration)
	nonNegative("invaderDropDistance", c.InvaderDropDistance)
	nonNegative("rocketVelocity", c.RocketVelocity)
	nonNegative("shipSpeed", c.ShipSpeed)
	nonNegative("levelDifficultyMultiplier", c.LevelDifficultyMultiplier)
	nonNegative("invaderVelocityScale", c.InvaderVelocityScale)
	nonNegative("fireRateStep", c.FireRateStep)
	nonNegative("rankStep", c.RankStep)
	nonNegative("fileStep", c.FileStep)
	nonNegative("formationSpread", c.FormationSpread)
	nonNegative("rankSpacing", c.RankSpacing)

	check(c.BombMinVelocity <= c.BombMaxVelocity, "bombMinVelocity %v exceeds bombMaxVelocity %v", c.BombMinVelocity, c.BombMaxVelocity)
	check(c.RocketMaxFireRate > 0, "rocketMaxFireRate must be positive, got %v", c.RocketMaxFireRate)
	check(c.FPS > 0, "fps must be positive, got %d", c.FPS)
	check(c.InvaderRanks > 0, "invaderRanks must be positive, got %d", c.InvaderRanks)
	check(c.InvaderFiles > 0, "invaderFiles must be positive, got %d", c.InvaderFiles)
	check(c.InitialLives > 0, "initialLives must be positive, got %d", c.InitialLives)
	check(c.LimitLevelIncrease >= 1, "limitLevelIncrease must be at least 1, got %d", c.LimitLevelIncrease)
	check(c.PointsPerInvader >= 0, "pointsPerInvader must not be negative, got %d", c.PointsPerInvader)
	check(c.LevelBonus >= 0, "levelBonus must not be negative, got %d", c.LevelBonus)

	check(c.GameWidth > 0 && c.GameHeight > 0, "game bounds must be positive, got %vx%v", c.GameWidth, c.GameHeight)
	check(c.ScreenWidth >= c.GameWidth && c.ScreenHeight >= c.GameHeight,
		"screen %vx%v is smaller than game bounds %vx%v", c.ScreenWidth, c.ScreenHeight, c.GameWidth, c.GameHeight)

	check(c.ExplosionPhases > 0, "explosionPhases must be positive, got %d", c.ExplosionPhases)
	check(c.RefreshTicks > 0, "refreshTicks must be positive, got %d", c.RefreshTicks)
	check(c.BlinkInterval > 0, "blinkInterval must be positive, got %d", c.BlinkInterval)
	check(c.RocketFrames > 0, "rocketFrames must be positive, got %d", c.RocketFrames)
	check(c.RocketFrameInterval > 0, "rocketFrameInterval must be positive, got %d", c.RocketFrameInterval)
	check(c.IntroSeconds > 0, "introSeconds must be positive, got %v", c.IntroSeconds)
	check(c.SkinCount > 0, "skinCount must be positive, got %d", c.SkinCount)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
