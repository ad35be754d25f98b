package game

import "math"

// Grade buckets hit quality by the stretch ratio at impact.
type Grade uint8

const (
	GradeFail Grade = iota
	GradeOK
	GradeGood
	GradeGreat
	GradePerfect
)

var gradeNames = [...]string{"FAIL", "OK", "GOOD", "GREAT", "PERFECT"}

func (g Grade) String() string {
	if int(g) >= len(gradeNames) {
		return "?"
	}
	return gradeNames[g]
}

// BaseScore returns the points a grade is worth before the combo multiplier.
func (g Grade) BaseScore() int64 {
	switch g {
	case GradePerfect:
		return 1000
	case GradeGreat:
		return 500
	case GradeGood:
		return 200
	case GradeOK:
		return 100
	default:
		return 0
	}
}

// GradeFor maps a stretch ratio to a grade. Hits on a broken tether always
// grade OK.
func GradeFor(stretch float64, broken bool) Grade {
	switch {
	case broken:
		return GradeOK
	case stretch >= 0.9:
		return GradePerfect
	case stretch >= 0.7:
		return GradeGreat
	case stretch >= 0.4:
		return GradeGood
	case stretch > 0.05:
		return GradeOK
	default:
		return GradeFail
	}
}

// Multiplier returns 2^floor(combo/tier), saturating at the largest int64
// power of two.
func Multiplier(combo, tier int) int64 {
	if tier <= 0 || combo < tier {
		return 1
	}
	shift := combo / tier
	if shift > 62 {
		shift = 62
	}
	return int64(1) << shift
}

func points(base, mult int64) int64 {
	if base <= 0 || mult <= 0 {
		return 0
	}
	if mult > math.MaxInt64/base {
		return math.MaxInt64
	}
	return base * mult
}

// Hit describes one resolved strike.
type Hit struct {
	Target  Target
	Grade   Grade
	Stretch float64
	Points  int64
}

// Resolver detects ball/target overlaps and replaces struck targets.
type Resolver struct {
	spawner  *Spawner
	settings *Settings
}

// Resolve checks every target in insertion order against ball. Struck targets
// are removed and replacements are appended after the survivors; replacements
// are not checked until the next call.
func (r Resolver) Resolve(ball Ball, targets []Target, s *Session) ([]Target, []Hit) {
	var hits []Hit
	kept := targets[:0]
	var spawned []Target
	for _, t := range targets {
		if ball.Pos.Dist(t.Pos) >= ball.Radius+t.Radius {
			kept = append(kept, t)
			continue
		}
		broken := s.Phase() != PhaseActive
		stretch := s.Stats().Stretch
		grade := GradeFor(stretch, broken)
		pts := s.applyHit(t.Type, grade)
		hits = append(hits, Hit{Target: t, Grade: grade, Stretch: stretch, Points: pts})

		stats := s.Stats()
		spawned = append(spawned, r.spawner.SpawnNext(stats.Combo, r.settings.Extended, stats.Effects.Active(EffectChaos)))
	}
	return append(kept, spawned...), hits
}
