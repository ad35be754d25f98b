package game

import (
	"strconv"

	simcore "tether/internal/core"
)

// Level control keys accepted by SetIntParameter.
const (
	LevelGravity       = "gravity_level"
	LevelSpringK       = "spring_k_level"
	LevelNaturalLength = "natural_length_level"
	LevelCollisionDamp = "collision_damp_level"
)

var levelOptions = func() []string {
	opts := make([]string, len(Multipliers))
	for i, m := range Multipliers {
		opts[i] = "x" + strconv.FormatFloat(m, 'f', -1, 64)
	}
	return opts
}()

func (w *World) Parameters() simcore.ParameterSnapshot {
	s := w.cfg.Settings
	r := w.cfg.Rules
	a := w.cfg.Area
	groups := []simcore.ParameterGroup{
		{
			Name: "Run",
			Params: []simcore.Parameter{
				boolParam("extended", "Extended targets", s.Extended),
				int64Param("seed", "Seed", w.seed),
				intParam("tick_rate", "Tick rate", r.TickRate),
				floatParam("initial_time", "Initial time", r.InitialTime),
			},
		},
		{
			Name: "Area",
			Params: []simcore.Parameter{
				floatParam("w", "Width", a.Width),
				floatParam("h", "Height", a.Height),
				floatParam("hud_reserve", "HUD reserve", a.HUDReserve),
			},
		},
		{
			Name: "Physics",
			Params: []simcore.Parameter{
				floatParam("gravity", "Gravity", s.Gravity),
				floatParam("spring_k", "Spring constant", s.SpringK),
				floatParam("natural_length", "Natural length", s.NaturalLength),
				floatParam("collision_damp", "Collision damping", s.CollisionDamp),
			},
		},
		{
			Name:    "Tether",
			Summary: "Danger accrues above the threshold and breaks the tether after the dwell limit.",
			Params: []simcore.Parameter{
				floatParam("danger_threshold", "Danger threshold", r.DangerThreshold),
				floatParam("break_dwell", "Break dwell", r.BreakDwell),
				floatParam("capacity_max", "Capacity ceiling", r.MaxCapacity),
				floatParam("grace_delay", "Grace delay", r.GraceDelay),
			},
		},
	}
	return simcore.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the calibration notches shown on the tuning panel.
func (w *World) ParameterControls() []simcore.ParameterControl {
	top := len(Multipliers) - 1
	return []simcore.ParameterControl{
		{Key: LevelGravity, Label: "Gravity", Min: 0, Max: top, Options: levelOptions},
		{Key: LevelSpringK, Label: "Spring", Min: 0, Max: top, Options: levelOptions},
		{Key: LevelNaturalLength, Label: "Slack", Min: 0, Max: top, Options: levelOptions},
		{Key: LevelCollisionDamp, Label: "Bounce", Min: 0, Max: top, Options: levelOptions},
	}
}

// Level returns the current notch of a level control.
func (w *World) Level(key string) (int, bool) {
	def := DefaultSettings()
	s := w.cfg.Settings
	switch key {
	case LevelGravity:
		return NearestLevel(s.Gravity, def.Gravity), true
	case LevelSpringK:
		return NearestLevel(s.SpringK, def.SpringK), true
	case LevelNaturalLength:
		return NearestLevel(s.NaturalLength, def.NaturalLength), true
	case LevelCollisionDamp:
		return NearestLevel(s.CollisionDamp, def.CollisionDamp), true
	}
	return 0, false
}

// SetIntParameter moves a level control to the given notch. Levels that would
// produce invalid settings are rejected.
func (w *World) SetIntParameter(key string, value int) bool {
	if value < 0 || value >= len(Multipliers) {
		return false
	}
	m := Multipliers[value]
	def := DefaultSettings()
	s := w.cfg.Settings
	switch key {
	case LevelGravity:
		s.Gravity = def.Gravity * m
	case LevelSpringK:
		s.SpringK = def.SpringK * m
	case LevelNaturalLength:
		s.NaturalLength = def.NaturalLength * m
	case LevelCollisionDamp:
		s.CollisionDamp = def.CollisionDamp * m
	default:
		return false
	}
	return w.SetSettings(s) == nil
}

func intParam(key, label string, value int) simcore.Parameter {
	return simcore.Parameter{
		Key:   key,
		Label: label,
		Type:  simcore.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) simcore.Parameter {
	return simcore.Parameter{
		Key:   key,
		Label: label,
		Type:  simcore.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) simcore.Parameter {
	return simcore.Parameter{
		Key:   key,
		Label: label,
		Type:  simcore.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) simcore.Parameter {
	return simcore.Parameter{
		Key:   key,
		Label: label,
		Type:  simcore.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
