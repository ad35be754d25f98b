//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"tether/internal/app"
	"tether/internal/core"
	"tether/internal/game"
	"tether/internal/leaderboard"
	"tether/internal/settings"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	file, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		log.Printf("%v; using defaults", err)
		file = settings.Default()
	}
	if cfg.Ruleset != "" {
		file.Ruleset = cfg.Ruleset
	}

	factory, ok := core.Sims()[file.Ruleset]
	if !ok {
		log.Fatalf("unknown ruleset %q", file.Ruleset)
	}
	world, ok := factory(cfg.SimConfig()).(*game.World)
	if !ok {
		log.Fatalf("ruleset %q is not playable", file.Ruleset)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	world.Reset(seed)

	relays := cfg.RelayList()
	if len(relays) == 0 {
		relays = file.Leaderboard.Relays
	}
	var board *leaderboard.Service
	if cfg.Leaderboard && len(relays) > 0 {
		board = leaderboard.NewService(leaderboard.Config{
			Relays: relays,
			TopN:   file.Leaderboard.Size,
		}, nil)
	}

	watcher, err := settings.NewWatcher(cfg.SettingsPath)
	if err != nil {
		log.Printf("settings: hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	g := app.New(world, app.Options{
		Runner: app.RunnerOptions{
			Settings:   file,
			Board:      board,
			Fetch:      cfg.Leaderboard,
			RecordPath: cfg.RecordPath,
		},
		Watcher: watcher,
		Seed:    cfg.Seed,
		Debug:   cfg.Debug,
	})
	size := world.Size()

	ebiten.SetWindowTitle("Tether (" + world.Name() + ")")
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(size.W, size.H)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
