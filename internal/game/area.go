package game

const (
	wideScreenWidth = 768
	sideWallFrac    = 0.2
)

// Area is the play rectangle in screen pixels. MinX and MaxX bound the active
// play width; the bottom edge sits HUDReserve pixels above Height.
type Area struct {
	Width      float64
	Height     float64
	MinX       float64
	MaxX       float64
	HUDReserve float64
}

// NewArea lays out the play area. Wide screens get side walls that narrow the
// active width to the central 60%.
func NewArea(width, height, hudReserve float64) Area {
	if hudReserve < 0 || hudReserve >= height {
		hudReserve = 0
	}
	wall := 0.0
	if width > wideScreenWidth {
		wall = width * sideWallFrac
	}
	return Area{
		Width:      width,
		Height:     height,
		MinX:       wall,
		MaxX:       width - wall,
		HUDReserve: hudReserve,
	}
}

// Floor returns the y coordinate of the bottom edge.
func (a Area) Floor() float64 {
	return a.Height - a.HUDReserve
}

// Wide reports whether side walls are drawn.
func (a Area) Wide() bool {
	return a.MinX > 0
}
