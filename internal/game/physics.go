package game

import (
	"math"

	"tether/pkg/core"
)

// Anchor is the player-controlled end of the tether.
type Anchor struct {
	Pos  core.Vec2
	Prev core.Vec2
}

// Ball is the mass on the free end of the tether. Velocity is in pixels per
// tick.
type Ball struct {
	Pos      core.Vec2
	Prev     core.Vec2
	Vel      core.Vec2
	Rotation float64
	Radius   float64
	Mass     float64
}

// tetherState is the session-owned input the integrator reads each tick.
type tetherState struct {
	capacity float64
	broken   bool
	inverted bool
}

// Integrator advances the anchor and ball by one fixed tick.
type Integrator struct {
	settings *Settings
	rules    *Rules
	area     *Area
}

// Step runs one tick of kinematics toward input and returns the stretch ratio
// measured before the ball moved. Stretch is 0 once the tether is broken.
func (in Integrator) Step(a *Anchor, b *Ball, input core.Vec2, st tetherState) float64 {
	a.Prev = a.Pos
	b.Prev = b.Pos

	a.Pos = a.Pos.Add(input.Sub(a.Pos).Scale(in.rules.AnchorSmoothing))

	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	stretch := 0.0
	if !st.broken && st.capacity > 0 {
		stretch = dist / st.capacity
	}

	var acc core.Vec2
	if !st.broken {
		force := in.settings.SpringK * (dist - in.settings.NaturalLength)
		mass := b.Mass
		if mass <= 0 {
			mass = 1
		}
		acc = d.Unit().Scale(-force / mass)
	}
	g := in.settings.Gravity
	if st.inverted {
		g = -g
	}
	acc.Y += g

	b.Vel = b.Vel.Add(acc).Scale(in.rules.Drag)
	b.Rotation = math.Mod(b.Rotation+b.Vel.Len()*in.rules.SpinRate, 2*math.Pi)
	b.Pos = b.Pos.Add(b.Vel)
	containBall(b, *in.area, in.settings.CollisionDamp)
	return stretch
}

// containBall clamps the ball inside the play area and reflects any velocity
// component that points into the wall it touched.
func containBall(b *Ball, area Area, damp float64) {
	minX, maxX := area.MinX+b.Radius, area.MaxX-b.Radius
	minY, maxY := b.Radius, area.Floor()-b.Radius
	if maxX < minX {
		mid := (area.MinX + area.MaxX) / 2
		minX, maxX = mid, mid
	}
	if maxY < minY {
		mid := area.Floor() / 2
		minY, maxY = mid, mid
	}
	if b.Pos.X < minX {
		b.Pos.X = minX
		if b.Vel.X < 0 {
			b.Vel.X *= -damp
		}
	} else if b.Pos.X > maxX {
		b.Pos.X = maxX
		if b.Vel.X > 0 {
			b.Vel.X *= -damp
		}
	}
	if b.Pos.Y < minY {
		b.Pos.Y = minY
		if b.Vel.Y < 0 {
			b.Vel.Y *= -damp
		}
	} else if b.Pos.Y > maxY {
		b.Pos.Y = maxY
		if b.Vel.Y > 0 {
			b.Vel.Y *= -damp
		}
	}
}
