//go:build ebiten

package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"tether/internal/game"
)

// Scene draws a world snapshot onto the play area.
type Scene struct {
	// FeedbackTTL is the lifetime of hit labels in ticks, used for fading.
	FeedbackTTL uint64
}

// NewScene returns a scene for worlds using rules.
func NewScene(rules game.Rules) *Scene {
	return &Scene{FeedbackTTL: rules.Ticks(rules.FeedbackDuration)}
}

// Draw paints snap interpolated by alpha.
func (s *Scene) Draw(screen *ebiten.Image, snap game.Snapshot, alpha float64) {
	screen.Fill(background)
	s.drawWalls(screen, snap.Area)

	if !snap.Started {
		drawCentered(screen, "MOVE TO INITIALIZE SYSTEM", snap.Area.Width/2, snap.Area.Floor()/2, hintColor)
		return
	}

	pose := snap.Pose(alpha)
	stretch := snap.Stats.Stretch
	col := TetherColor(stretch)
	broken := snap.Phase != game.PhaseActive

	if !broken {
		vector.StrokeLine(screen,
			float32(pose.Anchor.X), float32(pose.Anchor.Y),
			float32(pose.Ball.X), float32(pose.Ball.Y),
			TetherWidth(stretch), col, true)
	}

	ax, ay := float32(pose.Anchor.X), float32(pose.Anchor.Y)
	vector.StrokeCircle(screen, ax, ay, 8, 2, anchorRing, true)
	vector.DrawFilledCircle(screen, ax, ay, 4, col, true)
	vector.DrawFilledCircle(screen, ax, ay, 1.5, color.White, true)

	for _, t := range snap.Targets {
		at := t.At(alpha)
		drawSphere(screen, float32(at.X), float32(at.Y), float32(t.Radius), snap.TargetSpin, t.Type.Color())
	}
	drawSphere(screen, float32(pose.Ball.X), float32(pose.Ball.Y), float32(snap.Ball.Radius), snap.Ball.Rotation, col)

	s.drawFeedback(screen, snap)
}

func (s *Scene) drawWalls(screen *ebiten.Image, a game.Area) {
	if !a.Wide() {
		return
	}
	h := float32(a.Height)
	vector.DrawFilledRect(screen, 0, 0, float32(a.MinX), h, wallFill, false)
	vector.DrawFilledRect(screen, float32(a.MaxX), 0, float32(a.Width-a.MaxX), h, wallFill, false)
	for y := float32(0); y < h; y += 15 {
		end := float32(math.Min(float64(y+10), float64(h)))
		vector.StrokeLine(screen, float32(a.MinX), y, float32(a.MinX), end, 1, wallEdge, false)
		vector.StrokeLine(screen, float32(a.MaxX), y, float32(a.MaxX), end, 1, wallEdge, false)
	}
}

func (s *Scene) drawFeedback(screen *ebiten.Image, snap game.Snapshot) {
	for _, f := range snap.Feedback {
		var left uint64
		if f.ExpiresAt > snap.Tick {
			left = f.ExpiresAt - snap.Tick
		}
		// Labels rise while they fade.
		rise := 0.0
		if s.FeedbackTTL > 0 {
			rise = 30 * (1 - float64(left)/float64(s.FeedbackTTL))
		}
		label := fmt.Sprintf("%s %.0f%%", f.Grade, f.StretchPercent)
		drawCentered(screen, label, f.Pos.X, f.Pos.Y-20-rise, Fade(f.Grade.Color(), left, s.FeedbackTTL))
		if f.Points > 0 {
			drawCentered(screen, fmt.Sprintf("+%d", f.Points), f.Pos.X, f.Pos.Y-6-rise, Fade(f.Target.Color(), left, s.FeedbackTTL))
		}
	}
}

// drawSphere fills a disc and strokes two orthogonal chords rotated by spin.
func drawSphere(screen *ebiten.Image, x, y, r float32, spin float64, c color.RGBA) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(screen, x, y, r, c, true)
	vector.DrawFilledCircle(screen, x-r*0.3, y-r*0.3, r*0.25, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}, true)
	sin, cos := math.Sincos(spin)
	dx, dy := float32(cos)*r*0.8, float32(sin)*r*0.8
	vector.StrokeLine(screen, x-dx, y-dy, x+dx, y+dy, 1, patternLine, true)
	vector.StrokeLine(screen, x+dy, y-dx, x-dy, y+dx, 1, patternLine, true)
}

func drawCentered(screen *ebiten.Image, s string, cx, cy float64, c color.Color) {
	face := basicfont.Face7x13
	b := text.BoundString(face, s)
	x := int(cx) - b.Dx()/2
	y := int(cy) + b.Dy()/2
	text.Draw(screen, s, face, x, y, c)
}
