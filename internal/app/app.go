//go:build ebiten

package app

import (
	"log"
	"time"

	"tether/internal/core"
	"tether/internal/game"
	"tether/internal/render"
	"tether/internal/settings"
	"tether/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a Runner to the ebiten.Game interface. Ebiten calls Update at
// its own rate; the fixed-step clock turns that into simulation ticks.
type Game struct {
	runner  *Runner
	world   *game.World
	clock   *core.FixedStep
	scene   *render.Scene
	hud     *ui.HUD
	overlay *ui.Overlay
	watcher *settings.Watcher
	logger  *log.Logger

	seed  int64
	debug bool
}

// New constructs a Game for the provided world.
func New(w *game.World, opts Options) *Game {
	runner := NewRunner(w, opts.Runner)
	g := &Game{
		runner:  runner,
		watcher: opts.Watcher,
		logger:  runner.logger,
		seed:    opts.Seed,
		debug:   opts.Debug,
		clock:   core.NewFixedStep(w.Config().Rules.TickRate),
	}
	g.bindWorld()
	return g
}

func (g *Game) bindWorld() {
	w := g.runner.World()
	file := g.runner.Settings()
	debug := g.debug || file.Debug
	g.world = w
	g.scene = render.NewScene(w.Config().Rules)
	g.hud = ui.NewHUD(w, file.ScoreNotation)
	g.hud.SetTuning(debug)
	if g.overlay == nil {
		g.overlay = ui.NewOverlay(debug)
	}
	g.clock.SetTPS(w.Config().Rules.TickRate)
	g.clock.Reset()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.pollWatcher()
	g.runner.Poll()
	g.overlay.Update()

	if _, ended := g.runner.Result(); ended {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.restart()
		}
	}
	if g.hud.Update() {
		g.runner.SettingsChanged()
	}

	x, y, ok := g.pointer()
	g.clock.Drain(func() { g.runner.Tick(x, y, ok) })
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.world.Snapshot()
	alpha := g.clock.Alpha()
	g.scene.Draw(screen, snap, alpha)
	g.overlay.Draw(screen, snap, alpha)
	g.hud.Draw(screen, snap)
	if res, ended := g.runner.Result(); ended {
		file := g.runner.Settings()
		ui.DrawGameOver(screen, snap.Area, res, g.runner.Board(), file.ScoreNotation, g.runner.Self())
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	return s.W, s.H
}

func (g *Game) restart() {
	seed := g.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.runner.Restart(seed)
	g.bindWorld()
}

// pointer returns the latest touch or cursor position inside the window.
func (g *Game) pointer() (float64, float64, bool) {
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return float64(x), float64(y), true
	}
	x, y := ebiten.CursorPosition()
	s := g.world.Size()
	if x < 0 || y < 0 || x > s.W || y > s.H {
		return 0, 0, false
	}
	return float64(x), float64(y), true
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case f, ok := <-g.watcher.Updates:
		if !ok {
			g.watcher = nil
			return
		}
		g.runner.ApplySettings(f)
		debug := g.debug || f.Debug
		g.hud.SetNotation(f.ScoreNotation)
		g.hud.SetTuning(debug)
		g.overlay.SetEnabled(debug)
		g.logger.Printf("app: settings reloaded")
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.logger.Printf("app: settings reload: %v", err)
		}
	default:
	}
}
