package game

import (
	simcore "tether/internal/core"
	"tether/pkg/core"
)

// Ruleset names registered with the sim registry.
const (
	RulesetClassic  = "classic"
	RulesetExtended = "extended"
)

// World owns every piece of simulation state and advances it one fixed tick
// at a time. Readers only ever see value snapshots.
type World struct {
	cfg  Config
	name string
	seed int64

	rng        *core.RNG
	spawner    *Spawner
	integrator Integrator
	resolver   Resolver
	stress     StressTracker
	session    *Session
	feedback   feedbackLog

	anchor  Anchor
	ball    Ball
	targets []Target
	spin    float64

	input    core.Vec2
	hasInput bool
	started  bool
	chaos    bool
	tick     uint64
}

// Snapshot is a read-only copy of the world after the most recent tick.
type Snapshot struct {
	Tick       uint64
	Started    bool
	Phase      Phase
	Reason     EndReason
	Stats      RunStats
	Prev       Pose
	Cur        Pose
	Ball       Ball
	TargetSpin float64
	Targets    []Target
	Feedback   []Feedback
	Area       Area
}

// Pose interpolates the tether ends between the last two ticks.
func (s Snapshot) Pose(alpha float64) Pose {
	return Blend(s.Prev, s.Cur, alpha)
}

// New returns a world with the default rules on a width x height area.
func New(width, height int) *World {
	cfg := DefaultConfig()
	cfg.Area = NewArea(float64(width), float64(height), 0)
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from cfg. Invalid settings fall
// back to the defaults.
func NewWithConfig(cfg Config) *World {
	if cfg.Rules.TickRate < minTickRate {
		cfg.Rules.TickRate = minTickRate
	}
	if cfg.Settings.Validate() != nil {
		extended := cfg.Settings.Extended
		cfg.Settings = DefaultSettings()
		cfg.Settings.Extended = extended
	}
	if cfg.Area.Width <= 0 || cfg.Area.Height <= 0 {
		cfg.Area = DefaultConfig().Area
	}
	name := RulesetClassic
	if cfg.Settings.Extended {
		name = RulesetExtended
	}
	w := &World{cfg: cfg, name: name}
	w.Reset(0)
	return w
}

// Name returns the ruleset identifier.
func (w *World) Name() string { return w.name }

// Size reports the play area dimensions.
func (w *World) Size() simcore.Size {
	return simcore.Size{W: int(w.cfg.Area.Width), H: int(w.cfg.Area.Height)}
}

// Seed returns the seed the current run was reset with.
func (w *World) Seed() int64 { return w.seed }

// Config returns a copy of the active configuration.
func (w *World) Config() Config { return w.cfg }

// Tick returns the number of ticks simulated in the current run.
func (w *World) Tick() uint64 { return w.tick }

// Phase returns the run lifecycle phase.
func (w *World) Phase() Phase { return w.session.Phase() }

// Started reports whether an input sample has started the run.
func (w *World) Started() bool { return w.started }

// Result returns the run summary. It is final once Phase is PhaseEnded.
func (w *World) Result() Result { return w.session.Result() }

// Settings returns the active physics settings.
func (w *World) Settings() Settings { return w.cfg.Settings }

// SetSettings replaces the physics settings. The new values apply from the
// next tick. The extended flag only takes effect on the next Reset.
func (w *World) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Extended = w.cfg.Settings.Extended
	w.cfg.Settings = s
	return nil
}

// SetOnEnded replaces the completion callback.
func (w *World) SetOnEnded(fn func(Result)) { w.cfg.OnEnded = fn }

// SetInput records the latest pointer sample. Non-finite samples are ignored
// and finite ones are clamped to the area.
func (w *World) SetInput(x, y float64) {
	if !core.IsFinite(x) || !core.IsFinite(y) {
		return
	}
	a := w.cfg.Area
	w.input = core.V(core.Clamp(x, 0, a.Width), core.Clamp(y, 0, a.Height))
	w.hasInput = true
}

// Reset starts a new run using deterministic randomness. A zero seed reuses
// the configured seed.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.seed = effective
	w.rng = core.NewRNG(effective)

	rules, settings, area := &w.cfg.Rules, &w.cfg.Settings, &w.cfg.Area
	w.spawner = newSpawner(w.rng, rules, *area)
	w.integrator = Integrator{settings: settings, rules: rules, area: area}
	w.resolver = Resolver{spawner: w.spawner, settings: settings}
	w.stress = StressTracker{rules: rules}
	w.session = newSession(rules, settings, w.notifyEnded)
	w.feedback = feedbackLog{}

	center := core.V((area.MinX+area.MaxX)/2, area.Floor()/2)
	w.anchor = Anchor{Pos: center, Prev: center}
	ballPos := center.Add(core.V(0, rules.BallDrop))
	w.ball = Ball{Pos: ballPos, Prev: ballPos, Radius: rules.BallRadius, Mass: rules.BallMass}

	w.targets = w.targets[:0]
	for i := 0; i < rules.InitialTargets; i++ {
		w.targets = append(w.targets, w.spawner.Spawn(TargetYellow, false))
	}
	w.spin = 0
	w.input = core.Vec2{}
	w.hasInput = false
	w.started = false
	w.chaos = false
	w.tick = 0
}

// Step advances the run by one fixed tick. It does nothing before the first
// input sample and after the run has ended.
func (w *World) Step() {
	if w.session.Phase() == PhaseEnded {
		return
	}
	if !w.started {
		if !w.hasInput {
			return
		}
		w.begin()
	}
	w.tick++
	s := w.session

	stats := s.Stats()
	stretch := w.integrator.Step(&w.anchor, &w.ball, w.input, tetherState{
		capacity: stats.Capacity,
		broken:   s.Phase() != PhaseActive,
		inverted: stats.Effects.Active(EffectGravityInvert),
	})
	s.setStretch(stretch)
	w.spin += w.cfg.Rules.TargetSpinRate
	driftTargets(w.targets, w.cfg.Area)

	var hits []Hit
	w.targets, hits = w.resolver.Resolve(w.ball, w.targets, s)
	ttl := w.cfg.Rules.Ticks(w.cfg.Rules.FeedbackDuration)
	for _, h := range hits {
		w.feedback.push(h, w.tick, ttl)
	}
	w.syncBall()

	w.stress.Update(s, w.tick)
	s.advance(w.tick)
	w.syncChaos()
	w.feedback.expire(w.tick)
}

// Snapshot copies the current state for rendering.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Tick:       w.tick,
		Started:    w.started,
		Phase:      w.session.Phase(),
		Reason:     w.session.Result().Reason,
		Stats:      w.session.Stats(),
		Prev:       Pose{Anchor: w.anchor.Prev, Ball: w.ball.Prev},
		Cur:        Pose{Anchor: w.anchor.Pos, Ball: w.ball.Pos},
		Ball:       w.ball,
		TargetSpin: w.spin,
		Targets:    append([]Target(nil), w.targets...),
		Feedback:   w.feedback.snapshot(),
		Area:       w.cfg.Area,
	}
}

// begin places the anchor on the first input sample with the ball hanging
// below it.
func (w *World) begin() {
	w.anchor = Anchor{Pos: w.input, Prev: w.input}
	ballPos := w.input.Add(core.V(0, w.cfg.Rules.BallDrop))
	w.ball.Pos, w.ball.Prev, w.ball.Vel = ballPos, ballPos, core.Vec2{}
	containBall(&w.ball, w.cfg.Area, w.cfg.Settings.CollisionDamp)
	w.ball.Prev = w.ball.Pos
	w.started = true
}

func (w *World) syncBall() {
	stats := w.session.Stats()
	if stats.BallRadius == w.ball.Radius && stats.BallMass == w.ball.Mass {
		return
	}
	w.ball.Radius = stats.BallRadius
	w.ball.Mass = stats.BallMass
	containBall(&w.ball, w.cfg.Area, w.cfg.Settings.CollisionDamp)
}

func (w *World) syncChaos() {
	active := w.session.Stats().Effects.Active(EffectChaos)
	switch {
	case active && !w.chaos:
		for i := range w.targets {
			if w.targets[i].Vel == (core.Vec2{}) {
				w.targets[i].Vel = w.spawner.driftVelocity()
			}
		}
	case !active && w.chaos:
		for i := range w.targets {
			if !w.targets[i].Type.Drifts() {
				w.targets[i].Vel = core.Vec2{}
			}
		}
	}
	w.chaos = active
}

func (w *World) notifyEnded(r Result) {
	if w.cfg.OnEnded != nil {
		w.cfg.OnEnded(r)
	}
}

func init() {
	simcore.Register(RulesetClassic, func(cfg map[string]string) simcore.Sim {
		c := FromMap(cfg)
		c.Settings.Extended = false
		return NewWithConfig(c)
	})
	simcore.Register(RulesetExtended, func(cfg map[string]string) simcore.Sim {
		c := FromMap(cfg)
		c.Settings.Extended = true
		return NewWithConfig(c)
	})
}
