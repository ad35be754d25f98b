package game

import "tether/pkg/core"

// TargetType selects the reward a target grants when struck.
type TargetType uint8

const (
	TargetYellow TargetType = iota
	TargetGreen
	TargetRed
	TargetWhite
	TargetBlack
	TargetChest
	numTargetTypes
)

var targetNames = [numTargetTypes]string{"yellow", "green", "red", "white", "black", "chest"}

func (t TargetType) String() string {
	if t >= numTargetTypes {
		return "unknown"
	}
	return targetNames[t]
}

// Drifts reports whether the type always spawns with a velocity.
func (t TargetType) Drifts() bool {
	return t == TargetWhite || t == TargetBlack
}

// Target is a live collectible.
type Target struct {
	ID      uint64
	Type    TargetType
	Pos     core.Vec2
	PrevPos core.Vec2
	Vel     core.Vec2
	Radius  float64
}

// At returns the drawable position blended from the previous tick.
func (t Target) At(alpha float64) core.Vec2 {
	return t.PrevPos.Lerp(t.Pos, clampAlpha(alpha))
}

// driftTargets moves every target by its velocity and bounces it off the
// play-area edges without energy loss.
func driftTargets(targets []Target, area Area) {
	for i := range targets {
		t := &targets[i]
		t.PrevPos = t.Pos
		if t.Vel == (core.Vec2{}) {
			continue
		}
		t.Pos = t.Pos.Add(t.Vel)
		minX, maxX := area.MinX+t.Radius, area.MaxX-t.Radius
		minY, maxY := t.Radius, area.Floor()-t.Radius
		if t.Pos.X < minX {
			t.Pos.X = minX
			t.Vel.X = -t.Vel.X
		} else if t.Pos.X > maxX {
			t.Pos.X = maxX
			t.Vel.X = -t.Vel.X
		}
		if t.Pos.Y < minY {
			t.Pos.Y = minY
			t.Vel.Y = -t.Vel.Y
		} else if t.Pos.Y > maxY {
			t.Pos.Y = maxY
			t.Vel.Y = -t.Vel.Y
		}
	}
}
