package game

// Effect names a timed modifier started by a special target.
type Effect uint8

const (
	EffectChaos Effect = iota
	EffectGravityInvert
	EffectImmunity
	numEffects
)

var effectNames = [numEffects]string{"chaos", "gravity-invert", "immunity"}

func (e Effect) String() string {
	if e >= numEffects {
		return "unknown"
	}
	return effectNames[e]
}

// Effects holds the remaining seconds of every named effect timer.
type Effects [numEffects]float64

// Active reports whether the effect's timer is running.
func (e Effects) Active(k Effect) bool {
	return k < numEffects && e[k] > 0
}

// Remaining returns the seconds left on the effect's timer.
func (e Effects) Remaining(k Effect) float64 {
	if k >= numEffects {
		return 0
	}
	return e[k]
}

// start refreshes the timer, never shortening one already running.
func (e *Effects) start(k Effect, seconds float64) {
	if k < numEffects && seconds > e[k] {
		e[k] = seconds
	}
}

func (e *Effects) tick(dt float64) {
	for i := range e {
		if e[i] <= 0 {
			continue
		}
		e[i] -= dt
		if e[i] <= timerEpsilon {
			e[i] = 0
		}
	}
}
