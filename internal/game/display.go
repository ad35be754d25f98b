package game

import "image/color"

var targetPalette = [numTargetTypes]color.RGBA{
	TargetYellow: {R: 0xfb, G: 0xbf, B: 0x24, A: 0xff},
	TargetGreen:  {R: 0x34, G: 0xd3, B: 0x99, A: 0xff},
	TargetRed:    {R: 0xf8, G: 0x71, B: 0x71, A: 0xff},
	TargetWhite:  {R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff},
	TargetBlack:  {R: 0x3f, G: 0x3f, B: 0x46, A: 0xff},
	TargetChest:  {R: 0xc0, G: 0x84, B: 0xfc, A: 0xff},
}

var gradePalette = [...]color.RGBA{
	GradeFail:    {R: 0x71, G: 0x71, B: 0x7a, A: 0xff},
	GradeOK:      {R: 0x94, G: 0xa3, B: 0xb8, A: 0xff},
	GradeGood:    {R: 0x60, G: 0xa5, B: 0xfa, A: 0xff},
	GradeGreat:   {R: 0x34, G: 0xd3, B: 0x99, A: 0xff},
	GradePerfect: {R: 0xfa, G: 0xcc, B: 0x15, A: 0xff},
}

// Color returns the fill color used for the target type.
func (t TargetType) Color() color.RGBA {
	if t >= numTargetTypes {
		return color.RGBA{A: 0xff}
	}
	return targetPalette[t]
}

// Color returns the label color used for the grade.
func (g Grade) Color() color.RGBA {
	if int(g) >= len(gradePalette) {
		return color.RGBA{A: 0xff}
	}
	return gradePalette[g]
}
