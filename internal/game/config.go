package game

import (
	"errors"
	"fmt"
	"strconv"

	"tether/pkg/core"
)

// ErrInvalidSettings is wrapped by every Settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the physics tunables supplied by the settings collaborator.
// They are read every tick.
type Settings struct {
	Gravity       float64 `yaml:"gravity" json:"gravity"`
	SpringK       float64 `yaml:"spring_k" json:"rubberK"`
	NaturalLength float64 `yaml:"natural_length" json:"naturalLen"`
	CollisionDamp float64 `yaml:"collision_damp" json:"collisionDamp"`
	Extended      bool    `yaml:"extended" json:"isExperimental"`
}

// DefaultSettings returns the reference tuning for a 120 Hz tick.
func DefaultSettings() Settings {
	return Settings{
		Gravity:       0.022,
		SpringK:       0.0009,
		NaturalLength: 0.25,
		CollisionDamp: 0.7,
	}
}

// Validate reports the first tunable outside its legal range.
func (s Settings) Validate() error {
	switch {
	case !core.IsFinite(s.Gravity) || s.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be finite and positive, got %v", ErrInvalidSettings, s.Gravity)
	case !core.IsFinite(s.SpringK) || s.SpringK <= 0:
		return fmt.Errorf("%w: spring constant must be finite and positive, got %v", ErrInvalidSettings, s.SpringK)
	case !core.IsFinite(s.NaturalLength) || s.NaturalLength < 0:
		return fmt.Errorf("%w: natural length must be finite and non-negative, got %v", ErrInvalidSettings, s.NaturalLength)
	case !core.IsFinite(s.CollisionDamp) || s.CollisionDamp <= 0 || s.CollisionDamp >= 1:
		return fmt.Errorf("%w: collision damping must be in (0,1), got %v", ErrInvalidSettings, s.CollisionDamp)
	}
	return nil
}

// Multipliers are the calibration notches offered for each physics tunable,
// applied to its default value.
var Multipliers = [...]float64{0.25, 0.5, 1, 2, 4}

// DefaultLevel indexes the x1 notch in Multipliers.
const DefaultLevel = 2

// NearestLevel returns the Multipliers index closest to value/def.
func NearestLevel(value, def float64) int {
	if def == 0 {
		return DefaultLevel
	}
	ratio := value / def
	best := 0
	for i, m := range Multipliers {
		if abs(m-ratio) < abs(Multipliers[best]-ratio) {
			best = i
		}
	}
	return best
}

// Reward is the type-specific effect of striking a target.
type Reward struct {
	TimeBonus      float64
	CapacityBonus  float64
	MassGain       float64
	RadiusGain     float64
	Effect         Effect
	EffectDuration float64
}

// Rules are the fixed tuning constants of a ruleset. None are hard invariants;
// they only need to stay self-consistent.
type Rules struct {
	TickRate int

	InitialTime  float64
	TimeBonusCap float64

	DangerThreshold float64
	BreakDwell      float64
	DangerDecay     float64
	CapacityErosion float64
	CapacityFloor   float64
	InitialCapacity float64
	MaxCapacity     float64
	GraceDelay      float64

	ComboDuration float64
	ComboTier     int

	AnchorSmoothing float64
	Drag            float64
	SpinRate        float64
	TargetSpinRate  float64

	BallRadius float64
	BallMass   float64
	BallDrop   float64

	TargetRadius   float64
	InitialTargets int
	SpawnMarginX   float64
	SpawnMarginY   float64
	DriftSpeed     float64

	Rewards [numTargetTypes]Reward
	Spawn   SpawnTable

	FeedbackDuration float64
}

// DefaultRules returns the reference ruleset constants.
func DefaultRules() Rules {
	r := Rules{
		TickRate:         120,
		InitialTime:      60,
		TimeBonusCap:     60,
		DangerThreshold:  1.0,
		BreakDwell:       0.25,
		DangerDecay:      0.12,
		CapacityErosion:  0.02,
		CapacityFloor:    1,
		InitialCapacity:  200,
		MaxCapacity:      400,
		GraceDelay:       4,
		ComboDuration:    5,
		ComboTier:        5,
		AnchorSmoothing:  0.35,
		Drag:             0.994,
		SpinRate:         0.05,
		TargetSpinRate:   0.04,
		BallRadius:       10,
		BallMass:         1,
		BallDrop:         100,
		TargetRadius:     15,
		InitialTargets:   3,
		SpawnMarginX:     50,
		SpawnMarginY:     100,
		DriftSpeed:       2,
		Spawn:            DefaultSpawnTable(),
		FeedbackDuration: 1.5,
	}
	r.Rewards[TargetYellow] = Reward{TimeBonus: 1}
	r.Rewards[TargetGreen] = Reward{TimeBonus: 2, CapacityBonus: 15}
	r.Rewards[TargetRed] = Reward{TimeBonus: 3, MassGain: 0.2, RadiusGain: 2}
	r.Rewards[TargetWhite] = Reward{Effect: EffectChaos, EffectDuration: 8}
	r.Rewards[TargetBlack] = Reward{Effect: EffectGravityInvert, EffectDuration: 6}
	r.Rewards[TargetChest] = Reward{TimeBonus: 10, Effect: EffectImmunity, EffectDuration: 5}
	return r
}

// DT returns the fixed timestep in seconds.
func (r Rules) DT() float64 {
	if r.TickRate <= 0 {
		return 1.0 / 120
	}
	return 1.0 / float64(r.TickRate)
}

// Ticks converts seconds to a whole number of ticks, rounding to nearest.
func (r Rules) Ticks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds*float64(r.TickRate) + 0.5)
}

// Config controls a World.
type Config struct {
	Settings Settings
	Rules    Rules
	Area     Area
	Seed     int64

	// OnEnded is called exactly once, when the run reaches PhaseEnded.
	OnEnded func(Result)
}

// DefaultConfig returns the standard configuration on a 1280x720 area.
func DefaultConfig() Config {
	return Config{
		Settings: DefaultSettings(),
		Rules:    DefaultRules(),
		Area:     NewArea(1280, 720, 0),
		Seed:     1337,
	}
}

const minTickRate = 40

// FromMap populates the config from a string map (flag-style key/value pairs).
// Invalid values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	width, height, hud := c.Area.Width, c.Area.Height, c.Area.HUDReserve
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			height = parsed
		}
	}
	if v, ok := cfg["hud_reserve"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed < height {
			hud = parsed
		}
	}
	c.Area = NewArea(width, height, hud)
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["tick_rate"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= minTickRate {
			c.Rules.TickRate = parsed
		}
	}
	if v, ok := cfg["initial_time"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Rules.InitialTime = parsed
		}
	}

	s := c.Settings
	floats := map[string]*float64{
		"gravity":        &s.Gravity,
		"spring_k":       &s.SpringK,
		"natural_length": &s.NaturalLength,
		"collision_damp": &s.CollisionDamp,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["extended"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			s.Extended = parsed
		}
	}
	if s.Validate() == nil {
		c.Settings = s
	}
	return c
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
