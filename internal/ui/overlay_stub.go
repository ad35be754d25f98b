//go:build !ebiten

package ui

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(bool) *Overlay { return &Overlay{} }

// Enabled always reports false in headless builds.
func (o *Overlay) Enabled() bool { return false }

// SetEnabled is a no-op in headless builds.
func (o *Overlay) SetEnabled(bool) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, any, float64) {}
