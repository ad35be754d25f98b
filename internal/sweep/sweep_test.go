package sweep

import (
	"context"
	"slices"
	"testing"

	"tether/internal/game"
)

func TestJobsExpandGrid(t *testing.T) {
	jobs, err := Jobs(Options{Motions: []string{"still", "circle"}, Seeds: 3, BaseSeed: 10})
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	levels := len(game.Multipliers)
	if want := levels * levels * 2 * 3; len(jobs) != want {
		t.Fatalf("expected %d jobs, got %d", want, len(jobs))
	}
	first, last := jobs[0], jobs[len(jobs)-1]
	if first.Point != (Point{}) || first.Motion != "still" || first.Seed != 10 {
		t.Fatalf("unexpected first job %+v", first)
	}
	if last.Point != (Point{Gravity: levels - 1, Spring: levels - 1}) || last.Motion != "circle" || last.Seed != 12 {
		t.Fatalf("unexpected last job %+v", last)
	}

	if _, err := Jobs(Options{Motions: []string{"moonwalk"}}); err == nil {
		t.Fatalf("expected an error for an unknown motion")
	}
}

func TestSummarize(t *testing.T) {
	a, b := Point{Gravity: 1}, Point{Spring: 3}
	outcomes := []Outcome{
		{Job: Job{Point: a}, Result: game.Result{Score: 100, Hits: 2, BestCombo: 2, Reason: game.EndTimeExpired}},
		{Job: Job{Point: a}, Result: game.Result{Score: 300, Hits: 4, BestCombo: 5, Reason: game.EndTetherBroken}},
		{Job: Job{Point: b}, Result: game.Result{Score: 200, Hits: 1, BestCombo: 1, Reason: game.EndTimeExpired}},
		{Job: Job{Point: b}, Result: game.Result{Score: 200, Hits: 1, BestCombo: 1, Reason: game.EndTimeExpired}},
	}
	got := Summarize(outcomes)
	if len(got) != 2 {
		t.Fatalf("expected two summaries, got %d", len(got))
	}
	if got[0].Point != b || got[0].BreakRate != 0 || got[0].MeanScore != 200 {
		t.Fatalf("tie should favour fewer breaks, got %+v", got[0])
	}
	if got[1].Runs != 2 || got[1].MeanHits != 3 || got[1].BreakRate != 0.5 || got[1].BestCombo != 5 {
		t.Fatalf("unexpected aggregate %+v", got[1])
	}
}

func TestRunIsDeterministic(t *testing.T) {
	opts := Options{
		Base:     map[string]string{"initial_time": "2", "w": "900", "h": "600"},
		Extended: true,
		Motions:  []string{"jerk"},
		Seeds:    1,
		BaseSeed: 3,
		Workers:  4,
	}
	first, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	levels := len(game.Multipliers)
	if len(first) != levels*levels {
		t.Fatalf("expected one summary per grid point, got %d", len(first))
	}
	opts.Workers = 1
	second, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("worker count changed the outcome")
	}
	for _, s := range first {
		if s.Settings.Gravity != game.DefaultSettings().Gravity*game.Multipliers[s.Point.Gravity] {
			t.Fatalf("gravity level not applied for %s: %v", s.Point, s.Settings.Gravity)
		}
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{Motions: []string{"still"}, Workers: 2}); err == nil {
		t.Fatalf("expected a cancelled sweep to fail")
	}
}
