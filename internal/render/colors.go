package render

import (
	"image/color"
	"math"
)

// Tether stroke colors.
var (
	TetherSafe   = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	TetherPeak   = color.RGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff}
	TetherDanger = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
)

var (
	background  = color.RGBA{R: 0x09, G: 0x09, B: 0x0b, A: 0xff}
	wallFill    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x66}
	wallEdge    = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0x33}
	anchorRing  = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	hintColor   = color.RGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}
	patternLine = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x55}
)

// Stretch thresholds for the tether colors.
const (
	peakStretch   = 0.9
	dangerStretch = 1.0
)

// TetherColor picks the stroke color for the current stretch ratio.
func TetherColor(stretch float64) color.RGBA {
	switch {
	case stretch > dangerStretch:
		return TetherDanger
	case stretch > peakStretch:
		return TetherPeak
	default:
		return TetherSafe
	}
}

// TetherWidth thickens the line as it stretches. Non-finite or negative
// stretch draws the base width.
func TetherWidth(stretch float64) float32 {
	if math.IsNaN(stretch) || stretch < 0 {
		stretch = 0
	}
	if stretch > 4 {
		stretch = 4
	}
	return float32(2 + stretch*2)
}

// TensionLabel names the gauge state.
func TensionLabel(stretch float64) string {
	switch {
	case stretch > dangerStretch:
		return "WARNING"
	case stretch >= peakStretch:
		return "PERFECT"
	default:
		return "TENSION"
	}
}

// GaugeFill returns the filled fraction of the tension gauge in [0, 1].
func GaugeFill(stretch float64) float64 {
	if math.IsNaN(stretch) || stretch < 0 {
		return 0
	}
	return math.Min(stretch, 1)
}

// Fade scales c's alpha by the fraction of a feedback label's lifetime left.
func Fade(c color.RGBA, remaining, total uint64) color.RGBA {
	if total == 0 || remaining >= total {
		return c
	}
	f := float64(remaining) / float64(total)
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * f),
	}
}
