package app

import (
	"log"

	"tether/internal/game"
	"tether/internal/leaderboard"
	"tether/internal/replay"
	"tether/internal/settings"
	"tether/internal/ui"
)

// RunnerOptions wires the collaborators of a Runner. Every field is optional.
type RunnerOptions struct {
	Settings   settings.File
	Board      *leaderboard.Service
	Fetch      bool
	RecordPath string
	Logger     *log.Logger
}

// Options configures a Game. Seed 0 picks a fresh seed on every restart.
type Options struct {
	Runner  RunnerOptions
	Watcher *settings.Watcher
	Seed    int64
	Debug   bool
}

// Runner owns the world for a play session and reacts when a run ends. It
// never blocks: leaderboard calls report through channels drained by Poll.
type Runner struct {
	world  *game.World
	file   settings.File
	board  *leaderboard.Service
	logger *log.Logger

	recordPath string
	recorder   *replay.Recorder

	state    ui.Board
	fetchCh  <-chan []leaderboard.Entry
	submitCh <-chan error

	ended  bool
	result game.Result
}

// NewRunner applies the settings file to w and starts recording its run.
func NewRunner(w *game.World, opts RunnerOptions) *Runner {
	r := &Runner{
		world:      w,
		file:       opts.Settings,
		board:      opts.Board,
		logger:     opts.Logger,
		recordPath: opts.RecordPath,
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.file.Ruleset == "" {
		r.file = settings.Default()
	}
	r.state.Enabled = opts.Fetch && r.board != nil && r.board.Enabled()
	if err := w.SetSettings(r.file.Game()); err != nil {
		r.logger.Printf("app: settings: %v", err)
	}
	r.attach()
	return r
}

// World returns the current world. Restart may replace it when the ruleset
// changed.
func (r *Runner) World() *game.World { return r.world }

// Settings returns the settings file in effect.
func (r *Runner) Settings() settings.File { return r.file }

// Board returns the leaderboard state for the game-over panel.
func (r *Runner) Board() ui.Board { return r.state }

// Self returns the local player's public key, if any.
func (r *Runner) Self() string {
	if r.board == nil {
		return ""
	}
	return r.board.Self()
}

// Result returns the final result once the run has ended.
func (r *Runner) Result() (game.Result, bool) { return r.result, r.ended }

// Tick hands one input sample to the world and advances it by one tick.
func (r *Runner) Tick(x, y float64, ok bool) {
	if ok {
		if r.recorder != nil {
			r.recorder.Input(r.world.Tick(), x, y)
		}
		r.world.SetInput(x, y)
	}
	r.world.Step()
}

// SettingsChanged records a settings change made directly on the world.
func (r *Runner) SettingsChanged() {
	if r.recorder != nil {
		r.recorder.Settings(r.world.Tick(), r.world.Settings())
	}
}

// ApplySettings takes a reloaded settings file. Physics apply from the next
// tick; a ruleset change waits for Restart.
func (r *Runner) ApplySettings(f settings.File) {
	r.file = f
	if err := r.world.SetSettings(f.Game()); err != nil {
		r.logger.Printf("app: settings: %v", err)
		return
	}
	r.SettingsChanged()
}

// Restart begins a new run. A zero seed reuses the configured one.
func (r *Runner) Restart(seed int64) {
	if r.file.Ruleset != r.world.Name() {
		cfg := r.world.Config()
		cfg.Settings = r.file.Game()
		cfg.OnEnded = nil
		r.world = game.NewWithConfig(cfg)
	}
	r.world.Reset(seed)
	r.attach()
}

// Poll drains finished leaderboard calls without blocking.
func (r *Runner) Poll() {
	select {
	case err, ok := <-r.submitCh:
		r.submitCh = nil
		if ok {
			r.state.Submitted = true
			r.state.SubmitErr = err
		}
		r.fetchCh = r.board.FetchAsync()
	default:
	}
	select {
	case entries, ok := <-r.fetchCh:
		r.fetchCh = nil
		r.state.Loading = false
		if ok {
			r.state.Entries = entries
		}
	default:
	}
}

func (r *Runner) attach() {
	r.world.SetOnEnded(r.finish)
	r.ended = false
	r.result = game.Result{}
	r.state = ui.Board{Enabled: r.state.Enabled}
	r.fetchCh, r.submitCh = nil, nil
	r.recorder = nil
	if r.recordPath != "" {
		r.recorder = replay.NewRecorder(r.world)
	}
}

func (r *Runner) finish(res game.Result) {
	r.ended = true
	r.result = res
	if r.recorder != nil {
		if err := replay.Save(r.recordPath, r.recorder.Finish(res)); err != nil {
			r.logger.Printf("app: %v", err)
		} else {
			r.logger.Printf("app: run saved to %s", r.recordPath)
		}
	}
	if !r.state.Enabled {
		return
	}
	r.state.Loading = true
	if r.board.CanSubmit() {
		r.submitCh = r.board.SubmitAsync(res)
		return
	}
	r.fetchCh = r.board.FetchAsync()
}
