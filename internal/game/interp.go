package game

import "tether/pkg/core"

// Pose is the drawable position of the tether ends at one instant.
type Pose struct {
	Anchor core.Vec2
	Ball   core.Vec2
}

// Blend linearly interpolates from prev to cur. Alpha is clamped to [0, 1).
func Blend(prev, cur Pose, alpha float64) Pose {
	alpha = clampAlpha(alpha)
	return Pose{
		Anchor: prev.Anchor.Lerp(cur.Anchor, alpha),
		Ball:   prev.Ball.Lerp(cur.Ball, alpha),
	}
}

const maxAlpha = 0.999999

func clampAlpha(alpha float64) float64 {
	if !core.IsFinite(alpha) || alpha < 0 {
		return 0
	}
	if alpha >= 1 {
		return maxAlpha
	}
	return alpha
}
