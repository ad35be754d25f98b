//go:build !ebiten

package ui

import "tether/internal/core"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.Sim, string) *HUD { return nil }

// SetNotation is a no-op in the headless build.
func (h *HUD) SetNotation(string) {}

// SetTuning is a no-op in the headless build.
func (h *HUD) SetTuning(bool) {}

// Update is a no-op in the headless build.
func (h *HUD) Update() bool { return false }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, any) {}
