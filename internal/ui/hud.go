//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"tether/internal/core"
	"tether/internal/game"
	"tether/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

type levelProvider interface {
	Level(key string) (int, bool)
}

// HUD renders the run stats over the play area and, when tuning is enabled,
// the calibration panel.
type HUD struct {
	sim      core.Sim
	notation string
	tuning   bool

	controls []hudControlState
	levels   levelProvider
	setter   core.IntParameterSetter
	panelX   int
	title    string
}

// NewHUD constructs a HUD for the provided simulation.
func NewHUD(sim core.Sim, notation string) *HUD {
	h := &HUD{sim: sim, notation: notation}
	h.title = buildTitle(sim)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
	}
	if levels, ok := sim.(levelProvider); ok {
		h.levels = levels
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.setter = setter
	}
	h.layoutControls()
	return h
}

// SetNotation switches the large-score notation.
func (h *HUD) SetNotation(notation string) {
	if h != nil {
		h.notation = notation
	}
}

// SetTuning shows or hides the calibration panel.
func (h *HUD) SetTuning(on bool) {
	if h != nil {
		h.tuning = on
	}
}

// Update refreshes the control values and handles panel clicks. It reports
// whether a control changed the simulation settings.
func (h *HUD) Update() bool {
	if h == nil || !h.tuning {
		return false
	}
	h.layoutControls()
	h.refreshControlValues()
	return h.handleInput()
}

// Draw paints the stats bar, the tension gauge and the tuning panel.
func (h *HUD) Draw(screen *ebiten.Image, snap game.Snapshot) {
	if h == nil {
		return
	}
	face := basicfont.Face7x13
	a := snap.Area
	st := snap.Stats

	left := int(a.MinX) + panelPadding
	right := int(a.MaxX) - panelPadding
	drawBox(screen, left, panelPadding, "SCORE", FormatScore(st.Score, h.notation), valueColor)

	timeColor := valueColor
	if st.TimeLeft < 10 {
		timeColor = render.TetherDanger
	}
	timeLabel := fmt.Sprintf("%.1f", max(0, st.TimeLeft))
	drawBox(screen, right-boxWidth, panelPadding, "TIME", timeLabel, timeColor)

	if st.Combo > 0 {
		cx := int((a.MinX + a.MaxX) / 2)
		combo := fmt.Sprintf("%d HITS", st.Combo)
		text.Draw(screen, combo, face, cx-text.BoundString(face, combo).Dx()/2, 40, render.TetherSafe)
		if st.PerfectStreak > 0 {
			streak := fmt.Sprintf("PERFECT x%d", st.PerfectStreak)
			text.Draw(screen, streak, face, cx-text.BoundString(face, streak).Dx()/2, 56, render.TetherPeak)
		}
	}

	effects := activeEffects(st.Effects)
	if effects != "" {
		text.Draw(screen, effects, face, left, panelPadding+boxHeight+18, dimColor)
	}

	h.drawGauge(screen, a, st.Stretch)
	if h.tuning {
		h.drawControls(screen)
	}
}

func (h *HUD) drawGauge(screen *ebiten.Image, a game.Area, stretch float64) {
	face := basicfont.Face7x13
	width := float32(a.MaxX-a.MinX) * 0.6
	x := float32((a.MinX+a.MaxX)/2) - width/2
	y := float32(a.Height) - gaugeBottom
	if a.HUDReserve > 0 {
		y = float32(a.Floor() + a.HUDReserve/2)
	}

	label := render.TensionLabel(stretch)
	labelColor := dimColor
	if stretch > 1 {
		labelColor = render.TetherDanger
	}
	text.Draw(screen, label, face, int(x), int(y)-6, labelColor)
	pct := fmt.Sprintf("%d%%", int(render.GaugeFill(stretch)*100+0.5))
	text.Draw(screen, pct, face, int(x+width)-text.BoundString(face, pct).Dx(), int(y)-6, dimColor)

	vector.DrawFilledRect(screen, x, y, width, gaugeHeight, panelColor, false)
	vector.DrawFilledRect(screen, x, y, width*float32(render.GaugeFill(stretch)), gaugeHeight, render.TetherColor(stretch), false)
	mark := x + width*0.9
	vector.StrokeLine(screen, mark, y, mark, y+gaugeHeight, 1, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x66}, false)
	vector.StrokeRect(screen, x, y, width, gaugeHeight, 1, edgeColor, false)
}

func drawBox(screen *ebiten.Image, x, y int, title, value string, valueCol color.Color) {
	face := basicfont.Face7x13
	vector.DrawFilledRect(screen, float32(x), float32(y), boxWidth, boxHeight, panelColor, false)
	vector.StrokeRect(screen, float32(x), float32(y), boxWidth, boxHeight, 1, edgeColor, false)
	text.Draw(screen, title, face, x+8, y+16, dimColor)
	text.Draw(screen, value, face, x+8, y+34, valueCol)
}

func activeEffects(e game.Effects) string {
	var parts []string
	for _, k := range []game.Effect{game.EffectChaos, game.EffectGravityInvert, game.EffectImmunity} {
		if e.Active(k) {
			parts = append(parts, fmt.Sprintf("%s %.1fs", strings.ToUpper(k.String()), e.Remaining(k)))
		}
	}
	return strings.Join(parts, "  ")
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Calibration"
	}
	return fmt.Sprintf("Calibration (%s)", sim.Name())
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		if h.levels == nil {
			continue
		}
		level, ok := h.levels.Level(state.control.Key)
		if !ok {
			continue
		}
		state.level = level
		state.value = state.control.OptionLabel(level)
		state.hasValue = true
	}
}

func (h *HUD) handleInput() bool {
	if len(h.controls) == 0 || h.setter == nil {
		return false
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	px, py := mx-h.panelX, my-panelTop
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, py, state.minusRect) {
			return h.applyAdjustment(state, -1)
		}
		if pointInRect(px, py, state.plusRect) {
			return h.applyAdjustment(state, 1)
		}
	}
	return false
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) bool {
	if !h.canAdjust(state, direction) {
		return false
	}
	target := state.level + direction
	if !h.setter.SetIntParameter(state.control.Key, target) {
		return false
	}
	state.level = target
	state.value = state.control.OptionLabel(target)
	return true
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	if h.setter == nil || !state.hasValue {
		return false
	}
	target := state.level + direction
	return target >= state.control.Min && target <= state.control.Max
}

func (h *HUD) drawControls(screen *ebiten.Image) {
	face := basicfont.Face7x13
	height := controlsTop + len(h.controls)*lineHeight + panelPadding
	x := float32(h.panelX)
	vector.DrawFilledRect(screen, x, float32(panelTop), panelWidth, float32(height), panelColor, false)
	vector.StrokeRect(screen, x, float32(panelTop), panelWidth, float32(height), 1, edgeColor, false)

	ox, oy := h.panelX, panelTop
	text.Draw(screen, h.title, face, ox+panelPadding, oy+panelPadding+headerBaseline, titleColor)
	if len(h.controls) == 0 {
		text.Draw(screen, "No adjustable parameters", face, ox+panelPadding, oy+panelPadding+headerBaseline+infoSpacing, dimColor)
		return
	}
	for i := range h.controls {
		state := &h.controls[i]
		labelY := oy + state.top + labelBaseline
		text.Draw(screen, state.control.Label, face, ox+panelPadding, labelY, valueColor)
		col := valueColor
		if !state.hasValue {
			col = dimColor
		}
		bounds := text.BoundString(face, state.value)
		valueX := ox + state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(screen, state.value, face, valueX, labelY, col)

		drawButton(screen, state.minusRect.Add(image.Pt(ox, oy)), "-", h.canAdjust(state, -1))
		drawButton(screen, state.plusRect.Add(image.Pt(ox, oy)), "+", h.canAdjust(state, 1))
	}
}

func drawButton(screen *ebiten.Image, rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	vector.DrawFilledRect(screen, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bg, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(screen, label, face, x, y, fg)
}

// layoutControls anchors the panel to the right edge below the time box.
// Button rects are relative to the panel.
func (h *HUD) layoutControls() {
	size := h.sim.Size()
	h.panelX = size.W - panelWidth - panelPadding
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(panelWidth-panelPadding-buttonSize, buttonY, panelWidth-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	level    int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

var (
	panelColor = color.RGBA{R: 0x18, G: 0x18, B: 0x1b, A: 0xcc}
	edgeColor  = color.RGBA{R: 0x3f, G: 0x3f, B: 0x46, A: 0xff}
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	valueColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	panelWidth     = 220
	panelTop       = 90
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
	boxWidth       = 150
	boxHeight      = 44
	gaugeHeight    = 12
	gaugeBottom    = 28
)
