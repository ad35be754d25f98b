package replay

import (
	"math"

	"tether/internal/game"
)

// Motion returns the scripted pointer position for a tick.
type Motion func(tick uint64, a game.Area) (x, y float64)

// Motions are the scripted anchor paths used by headless runs.
var Motions = map[string]Motion{
	"still":   Still,
	"circle":  Circle,
	"sweep":   Sweep,
	"figure8": Figure8,
	"jerk":    Jerk,
}

// Still holds the pointer at the centre of the active area.
func Still(_ uint64, a game.Area) (float64, float64) {
	return (a.MinX + a.MaxX) / 2, a.Floor() / 2
}

// Circle orbits the centre once every four seconds at 120 ticks per second.
func Circle(tick uint64, a game.Area) (float64, float64) {
	cx, cy := Still(tick, a)
	r := math.Min(a.MaxX-a.MinX, a.Floor()) * 0.3
	t := float64(tick) * 2 * math.Pi / 480
	return cx + r*math.Cos(t), cy + r*math.Sin(t)
}

// Sweep moves side to side across the top third.
func Sweep(tick uint64, a game.Area) (float64, float64) {
	w := a.MaxX - a.MinX
	t := float64(tick) * 2 * math.Pi / 360
	return a.MinX + w/2 + w*0.4*math.Sin(t), a.Floor() / 3
}

// Figure8 traces a lemniscate around the centre.
func Figure8(tick uint64, a game.Area) (float64, float64) {
	cx, cy := Still(tick, a)
	t := float64(tick) * 2 * math.Pi / 600
	return cx + (a.MaxX-a.MinX)*0.35*math.Sin(t), cy + a.Floor()*0.25*math.Sin(2*t)
}

// Jerk snaps between two far points every half second.
func Jerk(tick uint64, a game.Area) (float64, float64) {
	y := a.Floor() / 4
	if (tick/60)%2 == 0 {
		return a.MinX + 20, y
	}
	return a.MaxX - 20, y
}

// Drive runs w to the end of its run with the pointer following m, recording
// into rec when it is non-nil. maxTicks bounds runaway runs; zero means no
// bound.
func Drive(w *game.World, m Motion, rec *Recorder, maxTicks uint64) game.Result {
	area := w.Config().Area
	for w.Phase() != game.PhaseEnded {
		tick := w.Tick()
		if maxTicks > 0 && tick >= maxTicks {
			break
		}
		x, y := m(tick, area)
		w.SetInput(x, y)
		if rec != nil {
			rec.Input(tick, x, y)
		}
		w.Step()
	}
	return w.Result()
}
