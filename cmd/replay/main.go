package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"tether/internal/replay"
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(14)
	value = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	ok    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	fail  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] run%s...\n", os.Args[0], replay.Ext)
		flag.PrintDefaults()
	}
	quiet := flag.Bool("q", false, "only print the verdict per file")
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := check(path, *quiet); err != nil {
			fmt.Println(fail.Render("FAIL"), path+":", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func check(path string, quiet bool) error {
	rec, err := replay.Load(path)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Println(title.Render(path))
		row("ruleset", rec.Ruleset)
		row("seed", fmt.Sprint(rec.Seed))
		row("area", fmt.Sprintf("%.0fx%.0f (hud %.0f)", rec.Width, rec.Height, rec.HUDReserve))
		row("tick rate", fmt.Sprint(rec.TickRate))
		row("samples", fmt.Sprintf("%d inputs, %d settings changes", len(rec.Samples), len(rec.Changes)))
		row("physics", fmt.Sprintf("g=%g k=%g len=%g damp=%g",
			rec.Settings.Gravity, rec.Settings.SpringK, rec.Settings.NaturalLength, rec.Settings.CollisionDamp))
		row("recorded", fmt.Sprintf("score %d, combo %d, hits %d, %s at tick %d",
			rec.Result.Score, rec.Result.BestCombo, rec.Result.Hits, rec.Result.Reason, rec.Result.Ticks))
	}

	got, err := replay.Play(rec)
	if err != nil {
		return err
	}
	if !quiet {
		row("replayed", fmt.Sprintf("score %d, combo %d, hits %d, %s at tick %d",
			got.Score, got.BestCombo, got.Hits, got.Reason, got.Ticks))
	}
	if got != rec.Result {
		return fmt.Errorf("%w: recorded score %d, replayed %d", replay.ErrMismatch, rec.Result.Score, got.Score)
	}
	fmt.Println(ok.Render("OK"), path)
	return nil
}

func row(k, v string) {
	fmt.Println(label.Render(k) + value.Render(v))
}
