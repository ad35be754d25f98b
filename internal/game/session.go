package game

import (
	"math"

	"tether/pkg/core"
)

// timerEpsilon absorbs float drift when a countdown lands on zero.
const timerEpsilon = 1e-9

// Phase is the run lifecycle state.
type Phase uint8

const (
	PhaseActive Phase = iota
	PhaseBroken
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseBroken:
		return "broken"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason records why a run ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndTimeExpired
	EndTetherBroken
)

func (r EndReason) String() string {
	switch r {
	case EndTimeExpired:
		return "time expired"
	case EndTetherBroken:
		return "tether broken"
	default:
		return "none"
	}
}

// RunStats is the mutable per-run state, exposed to readers by value.
type RunStats struct {
	Score         int64
	Combo         int
	BestCombo     int
	PerfectStreak int
	Hits          int
	ComboTimer    float64
	TimeLeft      float64
	Capacity      float64
	BallMass      float64
	BallRadius    float64
	Stretch       float64
	DangerTime    float64
	Effects       Effects
}

// Result is reported once when a run ends.
type Result struct {
	Score     int64     `msgpack:"score" json:"score"`
	BestCombo int       `msgpack:"best_combo" json:"bestCombo"`
	Hits      int       `msgpack:"hits" json:"hits"`
	Reason    EndReason `msgpack:"reason" json:"reason"`
	Ticks     uint64    `msgpack:"ticks" json:"ticks"`
	Settings  Settings  `msgpack:"settings" json:"settings"`
}

// Session is the sole writer of RunStats and the run phase.
type Session struct {
	rules    *Rules
	settings *Settings
	stats    RunStats
	phase    Phase
	reason   EndReason

	breakTick uint64
	endTick   uint64
	final     Result
	onEnded   func(Result)
}

func newSession(rules *Rules, settings *Settings, onEnded func(Result)) *Session {
	return &Session{
		rules:    rules,
		settings: settings,
		onEnded:  onEnded,
		stats: RunStats{
			TimeLeft:   rules.InitialTime,
			Capacity:   clampCapacity(rules.InitialCapacity, rules),
			BallMass:   rules.BallMass,
			BallRadius: rules.BallRadius,
		},
	}
}

// Stats returns a copy of the current run stats.
func (s *Session) Stats() RunStats { return s.stats }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// BreakTick returns the tick the tether broke at, or 0.
func (s *Session) BreakTick() uint64 { return s.breakTick }

// Result summarises the run. It is frozen once the phase is PhaseEnded.
func (s *Session) Result() Result {
	if s.phase == PhaseEnded {
		return s.final
	}
	return Result{
		Score:     s.stats.Score,
		BestCombo: s.stats.BestCombo,
		Hits:      s.stats.Hits,
		Reason:    s.reason,
		Ticks:     s.endTick,
		Settings:  *s.settings,
	}
}

func (s *Session) setStretch(v float64) {
	if s.phase != PhaseActive || !core.IsFinite(v) {
		v = 0
	}
	s.stats.Stretch = v
}

// applyHit registers a strike on a target of type typ with the given grade.
// It returns the points awarded.
func (s *Session) applyHit(typ TargetType, grade Grade) int64 {
	st := &s.stats
	st.Hits++
	st.Combo++
	if st.Combo > st.BestCombo {
		st.BestCombo = st.Combo
	}
	st.ComboTimer = s.rules.ComboDuration
	if grade == GradePerfect {
		st.PerfectStreak++
	} else {
		st.PerfectStreak = 0
	}

	pts := points(grade.BaseScore(), Multiplier(st.Combo, s.rules.ComboTier))
	st.Score = addSaturating(st.Score, pts)

	if s.phase != PhaseActive || typ >= numTargetTypes {
		return pts
	}
	r := s.rules.Rewards[typ]
	if r.TimeBonus > 0 && st.TimeLeft < s.rules.TimeBonusCap {
		st.TimeLeft += r.TimeBonus
	}
	if r.CapacityBonus > 0 {
		st.Capacity = clampCapacity(st.Capacity+r.CapacityBonus, s.rules)
	}
	if r.MassGain > 0 {
		st.BallMass += r.MassGain
	}
	if r.RadiusGain > 0 {
		st.BallRadius += r.RadiusGain
	}
	if r.EffectDuration > 0 {
		st.Effects.start(r.Effect, r.EffectDuration)
	}
	return pts
}

func (s *Session) accumulateDanger(dt float64) {
	s.stats.DangerTime += dt
	s.stats.Capacity = clampCapacity(s.stats.Capacity-s.rules.CapacityErosion, s.rules)
}

func (s *Session) relieveDanger() {
	s.stats.DangerTime = math.Max(0, s.stats.DangerTime-s.rules.DangerDecay)
}

func (s *Session) breakTether(tick uint64) {
	if s.phase != PhaseActive {
		return
	}
	s.phase = PhaseBroken
	s.breakTick = tick
	s.stats.Stretch = 0
}

func (s *Session) end(reason EndReason, tick uint64) {
	if s.phase == PhaseEnded {
		return
	}
	s.reason = reason
	s.endTick = tick
	s.final = s.Result()
	s.phase = PhaseEnded
	if s.onEnded != nil {
		s.onEnded(s.final)
	}
}

// advance runs the per-tick countdowns for tick.
func (s *Session) advance(tick uint64) {
	if s.phase == PhaseEnded {
		return
	}
	dt := s.rules.DT()
	st := &s.stats
	st.Effects.tick(dt)
	if st.ComboTimer > 0 {
		st.ComboTimer -= dt
		if st.ComboTimer <= timerEpsilon {
			st.ComboTimer = 0
			st.Combo = 0
			st.PerfectStreak = 0
		}
	}
	if s.phase != PhaseActive {
		return
	}
	st.TimeLeft -= dt
	if st.TimeLeft <= timerEpsilon {
		st.TimeLeft = 0
		s.end(EndTimeExpired, tick)
	}
}

func clampCapacity(v float64, r *Rules) float64 {
	return math.Min(math.Max(v, r.CapacityFloor), r.MaxCapacity)
}

func addSaturating(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
