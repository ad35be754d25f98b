// Package sweep evaluates scripted runs across a grid of physics
// calibrations on a bounded worker pool.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"tether/internal/game"
	"tether/internal/replay"
)

// Point is one cell of the calibration grid, as level indices into
// game.Multipliers.
type Point struct {
	Gravity int
	Spring  int
}

func (p Point) String() string {
	return fmt.Sprintf("gravity x%g spring x%g", game.Multipliers[p.Gravity], game.Multipliers[p.Spring])
}

// Job is a single scripted run.
type Job struct {
	Point  Point
	Motion string
	Seed   int64
}

// Outcome pairs a job with the result of its run.
type Outcome struct {
	Job    Job
	Result game.Result
}

// Summary aggregates every run of one grid point.
type Summary struct {
	Point     Point
	Settings  game.Settings
	Runs      int
	MeanScore float64
	MeanHits  float64
	BreakRate float64
	BestCombo int
}

// Options controls a sweep.
type Options struct {
	// Base is passed to game.FromMap for every run.
	Base     map[string]string
	Extended bool
	Motions  []string
	Seeds    int
	BaseSeed int64
	// MaxTicks bounds each run; zero means no bound.
	MaxTicks uint64
	Workers  int
}

// Jobs expands opts into the full job list in a stable order.
func Jobs(opts Options) ([]Job, error) {
	for _, m := range opts.Motions {
		if _, ok := replay.Motions[m]; !ok {
			return nil, fmt.Errorf("sweep: unknown motion %q", m)
		}
	}
	seeds := opts.Seeds
	if seeds <= 0 {
		seeds = 1
	}
	var jobs []Job
	for g := range game.Multipliers {
		for k := range game.Multipliers {
			for _, m := range opts.Motions {
				for s := 0; s < seeds; s++ {
					jobs = append(jobs, Job{
						Point:  Point{Gravity: g, Spring: k},
						Motion: m,
						Seed:   opts.BaseSeed + int64(s),
					})
				}
			}
		}
	}
	return jobs, nil
}

// Evaluate plays one job from cfg.
func Evaluate(cfg game.Config, job Job, maxTicks uint64) game.Result {
	cfg.Seed = job.Seed
	w := game.NewWithConfig(cfg)
	w.SetIntParameter(game.LevelGravity, job.Point.Gravity)
	w.SetIntParameter(game.LevelSpringK, job.Point.Spring)
	return replay.Drive(w, replay.Motions[job.Motion], nil, maxTicks)
}

// Run evaluates every job on a pool of opts.Workers goroutines and returns the
// per-point summaries, best first.
func Run(ctx context.Context, opts Options) ([]Summary, error) {
	jobs, err := Jobs(opts)
	if err != nil {
		return nil, err
	}
	cfg := game.FromMap(opts.Base)
	cfg.Settings.Extended = opts.Extended

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	outcomes := make([]Outcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = Outcome{Job: job, Result: Evaluate(cfg, job, opts.MaxTicks)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	return Summarize(outcomes), nil
}

// Summarize groups outcomes by grid point. Summaries are ordered by mean
// score, then by fewer breaks.
func Summarize(outcomes []Outcome) []Summary {
	byPoint := make(map[Point]*Summary)
	var order []Point
	for _, o := range outcomes {
		s, ok := byPoint[o.Job.Point]
		if !ok {
			s = &Summary{Point: o.Job.Point, Settings: o.Result.Settings}
			byPoint[o.Job.Point] = s
			order = append(order, o.Job.Point)
		}
		s.Runs++
		s.MeanScore += float64(o.Result.Score)
		s.MeanHits += float64(o.Result.Hits)
		if o.Result.Reason == game.EndTetherBroken {
			s.BreakRate++
		}
		s.BestCombo = max(s.BestCombo, o.Result.BestCombo)
	}

	out := make([]Summary, 0, len(order))
	for _, p := range order {
		s := *byPoint[p]
		n := float64(s.Runs)
		s.MeanScore /= n
		s.MeanHits /= n
		s.BreakRate /= n
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MeanScore != out[j].MeanScore {
			return out[i].MeanScore > out[j].MeanScore
		}
		return out[i].BreakRate < out[j].BreakRate
	})
	return out
}
