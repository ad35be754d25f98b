// Package replay records the input stream of a run and re-simulates it.
//
// A recording holds everything a World needs to reproduce a run: the seed,
// the ruleset, the area, the settings and every change to the pointer sample
// or the settings keyed by the tick at which it was applied. Recordings are
// stored as msgpack in .trec files.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"tether/internal/game"
	"tether/pkg/core"
)

// Version is the recording format version written by this package.
const Version = 1

// Ext is the conventional file extension for recordings.
const Ext = ".trec"

var (
	// ErrVersion is returned for recordings written by another format version.
	ErrVersion = errors.New("replay: unsupported version")
	// ErrIncomplete is returned when a recording never reaches the end of a run.
	ErrIncomplete = errors.New("replay: run did not end")
	// ErrMismatch is returned when a re-simulated result differs from the
	// recorded one.
	ErrMismatch = errors.New("replay: result mismatch")
)

// Sample is a pointer position applied before stepping Tick.
type Sample struct {
	Tick uint64  `msgpack:"t"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
}

// SettingsChange is a settings update applied before stepping Tick.
type SettingsChange struct {
	Tick     uint64        `msgpack:"t"`
	Settings game.Settings `msgpack:"s"`
}

// Recording is a complete, replayable run.
type Recording struct {
	Version     int              `msgpack:"version"`
	Seed        int64            `msgpack:"seed"`
	Ruleset     string           `msgpack:"ruleset"`
	Width       float64          `msgpack:"width"`
	Height      float64          `msgpack:"height"`
	HUDReserve  float64          `msgpack:"hud_reserve"`
	TickRate    int              `msgpack:"tick_rate"`
	InitialTime float64          `msgpack:"initial_time"`
	Settings    game.Settings    `msgpack:"settings"`
	Samples     []Sample         `msgpack:"samples"`
	Changes     []SettingsChange `msgpack:"changes,omitempty"`
	Result      game.Result      `msgpack:"result"`
}

// Config rebuilds the world configuration the run started with.
func (r Recording) Config() game.Config {
	cfg := game.DefaultConfig()
	cfg.Seed = r.Seed
	cfg.Area = game.NewArea(r.Width, r.Height, r.HUDReserve)
	if r.TickRate > 0 {
		cfg.Rules.TickRate = r.TickRate
	}
	if r.InitialTime > 0 {
		cfg.Rules.InitialTime = r.InitialTime
	}
	cfg.Settings = r.Settings
	cfg.Settings.Extended = r.Ruleset == game.RulesetExtended
	return cfg
}

// Recorder captures the inputs fed to a World.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for the run w is about to play. Call it
// right after Reset.
func NewRecorder(w *game.World) *Recorder {
	cfg := w.Config()
	return &Recorder{rec: Recording{
		Version:     Version,
		Seed:        w.Seed(),
		Ruleset:     w.Name(),
		Width:       cfg.Area.Width,
		Height:      cfg.Area.Height,
		HUDReserve:  cfg.Area.HUDReserve,
		TickRate:    cfg.Rules.TickRate,
		InitialTime: cfg.Rules.InitialTime,
		Settings:    cfg.Settings,
	}}
}

// Input records the pointer sample handed to the world before stepping tick.
// Only changes are stored and a later sample for the same tick replaces the
// earlier one.
func (r *Recorder) Input(tick uint64, x, y float64) {
	if !core.IsFinite(x) || !core.IsFinite(y) {
		return
	}
	s := Sample{Tick: tick, X: x, Y: y}
	if n := len(r.rec.Samples); n > 0 {
		last := &r.rec.Samples[n-1]
		if last.X == x && last.Y == y {
			return
		}
		if last.Tick == tick {
			*last = s
			return
		}
	}
	r.rec.Samples = append(r.rec.Samples, s)
}

// Settings records a settings change applied before stepping tick.
func (r *Recorder) Settings(tick uint64, s game.Settings) {
	c := SettingsChange{Tick: tick, Settings: s}
	if n := len(r.rec.Changes); n > 0 && r.rec.Changes[n-1].Tick == tick {
		r.rec.Changes[n-1] = c
		return
	}
	r.rec.Changes = append(r.rec.Changes, c)
}

// Finish stamps the final result and returns the recording.
func (r *Recorder) Finish(res game.Result) Recording {
	r.rec.Result = res
	out := r.rec
	out.Samples = append([]Sample(nil), r.rec.Samples...)
	out.Changes = append([]SettingsChange(nil), r.rec.Changes...)
	return out
}

// Play re-simulates rec and returns the result of the run.
func Play(rec Recording) (game.Result, error) {
	if rec.Version != Version {
		return game.Result{}, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	w := game.NewWithConfig(rec.Config())
	limit := playLimit(rec)
	samples, changes := rec.Samples, rec.Changes
	applied := false
	for w.Phase() != game.PhaseEnded {
		tick := w.Tick()
		for len(samples) > 0 && samples[0].Tick <= tick {
			w.SetInput(samples[0].X, samples[0].Y)
			samples = samples[1:]
			applied = true
		}
		for len(changes) > 0 && changes[0].Tick <= tick {
			if err := w.SetSettings(changes[0].Settings); err != nil {
				return w.Result(), fmt.Errorf("replay: tick %d: %w", changes[0].Tick, err)
			}
			changes = changes[1:]
		}
		if !w.Started() && !applied && len(samples) == 0 {
			return w.Result(), fmt.Errorf("%w: no input", ErrIncomplete)
		}
		if tick >= limit {
			return w.Result(), fmt.Errorf("%w after %d ticks", ErrIncomplete, tick)
		}
		w.Step()
	}
	return w.Result(), nil
}

// Verify re-simulates rec and checks the result against the recorded one.
func Verify(rec Recording) error {
	got, err := Play(rec)
	if err != nil {
		return err
	}
	if got != rec.Result {
		return fmt.Errorf("%w: recorded score %d, replayed %d", ErrMismatch, rec.Result.Score, got.Score)
	}
	return nil
}

// playLimit bounds the re-simulation. Recordings without a result get an
// hour of ticks.
func playLimit(rec Recording) uint64 {
	if rec.Result.Ticks > 0 {
		return rec.Result.Ticks
	}
	rate := rec.TickRate
	if rate <= 0 {
		rate = game.DefaultRules().TickRate
	}
	return uint64(rate) * 3600
}

// Encode writes rec as msgpack.
func Encode(w io.Writer, rec Recording) error {
	if err := msgpack.NewEncoder(w).Encode(&rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a msgpack recording.
func Decode(r io.Reader) (Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != Version {
		return rec, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return rec, nil
}

// Save writes rec to path, creating parent directories.
func Save(path string, rec Recording) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("replay: save %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: save %s: %w", path, err)
	}
	if err := Encode(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("replay: load %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
