//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"tether/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// velocityScale stretches the per-tick velocity so the arrow is readable.
const velocityScale = 12

// Overlay draws debugging visuals on top of the scene.
type Overlay struct {
	enabled bool
	showFPS bool
}

// NewOverlay constructs an overlay, initially shown when enabled is set.
func NewOverlay(enabled bool) *Overlay {
	return &Overlay{enabled: enabled, showFPS: enabled}
}

// Enabled reports whether the overlay is visible.
func (o *Overlay) Enabled() bool { return o != nil && o.enabled }

// SetEnabled shows or hides the overlay.
func (o *Overlay) SetEnabled(on bool) {
	if o != nil {
		o.enabled = on
	}
}

// Update toggles the overlay with F3 and the frame counter with F4.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		o.enabled = !o.enabled
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		o.showFPS = !o.showFPS
	}
}

// Draw renders the velocity vector, the capacity rings and the run timers.
func (o *Overlay) Draw(screen *ebiten.Image, snap game.Snapshot, alpha float64) {
	if !o.Enabled() || !snap.Started {
		return
	}
	pose := snap.Pose(alpha)
	st := snap.Stats

	ax, ay := float32(pose.Anchor.X), float32(pose.Anchor.Y)
	if snap.Phase == game.PhaseActive && st.Capacity > 0 {
		vector.StrokeCircle(screen, ax, ay, float32(st.Capacity*0.9), 1, color.RGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0x55}, true)
		vector.StrokeCircle(screen, ax, ay, float32(st.Capacity), 1, color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0x77}, true)
	}

	bx, by := float32(pose.Ball.X), float32(pose.Ball.Y)
	v := snap.Ball.Vel.Scale(velocityScale)
	vector.StrokeLine(screen, bx, by, bx+float32(v.X), by+float32(v.Y), 1.5, color.RGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}, true)

	for _, t := range snap.Targets {
		if t.Vel.Len() > 0 {
			tv := t.Vel.Scale(velocityScale)
			tx, ty := float32(t.Pos.X), float32(t.Pos.Y)
			vector.StrokeLine(screen, tx, ty, tx+float32(tv.X), ty+float32(tv.Y), 1, color.RGBA{R: 0xa1, G: 0xa1, B: 0xaa, A: 0xaa}, true)
		}
	}

	lines := []string{
		fmt.Sprintf("tick %d  phase %s", snap.Tick, snap.Phase),
		fmt.Sprintf("stretch %.3f  dwell %.3f", st.Stretch, st.DangerTime),
		fmt.Sprintf("capacity %.1f  mass %.2f  radius %.1f", st.Capacity, st.BallMass, st.BallRadius),
		fmt.Sprintf("combo %d (%.2fs)  best %d  hits %d", st.Combo, st.ComboTimer, st.BestCombo, st.Hits),
		fmt.Sprintf("chaos %.2f  invert %.2f  immune %.2f",
			st.Effects.Remaining(game.EffectChaos),
			st.Effects.Remaining(game.EffectGravityInvert),
			st.Effects.Remaining(game.EffectImmunity)),
	}
	if o.showFPS {
		lines = append(lines, fmt.Sprintf("fps %.1f  tps %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	face := basicfont.Face7x13
	x := int(snap.Area.MinX) + panelPadding
	y := int(snap.Area.Floor()) - panelPadding - len(lines)*lineSpacing
	for i, line := range lines {
		text.Draw(screen, line, face, x, y+i*lineSpacing, color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff})
	}
}

const lineSpacing = 15
