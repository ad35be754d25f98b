package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tether/internal/game"
	"tether/internal/replay"
	"tether/internal/sweep"
)

var (
	header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	good   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bad    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 3, "seeds per grid point and motion")
	seed := flag.Int64("seed", 1337, "first seed")
	motions := flag.String("motions", "circle,sweep,figure8", "comma-separated scripted motions")
	ruleset := flag.String("ruleset", game.RulesetExtended, "ruleset: classic or extended")
	maxTicks := flag.Uint64("max-ticks", 120*600, "tick bound per run")
	top := flag.Int("top", 10, "rows to print")
	var overrides kvList
	flag.Var(&overrides, "set", "config override in key=value form (repeatable)")
	flag.Parse()

	base := map[string]string{}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			log.Fatalf("bad override %q, want key=value", kv)
		}
		base[key] = value
	}
	if *ruleset != game.RulesetClassic && *ruleset != game.RulesetExtended {
		log.Fatalf("unknown ruleset %q", *ruleset)
	}

	opts := sweep.Options{
		Base:     base,
		Extended: *ruleset == game.RulesetExtended,
		Motions:  splitList(*motions),
		Seeds:    *seeds,
		BaseSeed: *seed,
		MaxTicks: *maxTicks,
		Workers:  *workers,
	}
	jobs, err := sweep.Jobs(opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(header.Render(fmt.Sprintf("Sweeping %d runs (%d workers, ruleset %s)", len(jobs), *workers, *ruleset)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	start := time.Now()
	summaries, err := sweep.Run(ctx, opts)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(dim.Render(fmt.Sprintf("elapsed %s", time.Since(start).Round(time.Millisecond))))
	fmt.Println()
	fmt.Println(header.Render(fmt.Sprintf("%-4s %-28s %10s %8s %8s %6s", "#", "calibration", "score", "hits", "breaks", "combo")))
	for i, s := range summaries {
		if i >= *top {
			break
		}
		row := fmt.Sprintf("%-4d %-28s %10.0f %8.1f %7.0f%% %6d", i+1, s.Point, s.MeanScore, s.MeanHits, s.BreakRate*100, s.BestCombo)
		fmt.Println(breakStyle(s.BreakRate).Render(row))
	}
}

func breakStyle(rate float64) lipgloss.Style {
	switch {
	case rate == 0:
		return good
	case rate < 0.5:
		return warn
	default:
		return bad
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		for name := range replay.Motions {
			out = append(out, name)
		}
		sort.Strings(out)
	}
	return out
}
