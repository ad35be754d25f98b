package game

import (
	"errors"
	"math"
	"testing"

	"tether/pkg/core"
)

func TestClassicTableOnlyCommonTypes(t *testing.T) {
	table := DefaultSpawnTable()
	rng := core.NewRNG(3)
	counts := map[TargetType]int{}
	const draws = 20000
	for i := 0; i < draws; i++ {
		counts[table.Pick(rng, 50, false)]++
	}
	for typ := range counts {
		if typ != TargetYellow && typ != TargetGreen && typ != TargetRed {
			t.Fatalf("classic ruleset drew %v", typ)
		}
	}
	if frac := float64(counts[TargetYellow]) / draws; frac < 0.77 || frac > 0.83 {
		t.Fatalf("expected roughly 80%% yellow, got %.3f", frac)
	}
}

func TestExtendedTableSpecials(t *testing.T) {
	table := DefaultSpawnTable()
	table.ChestChance = 0
	table.SpecialChance = 1
	rng := core.NewRNG(8)

	for i := 0; i < 200; i++ {
		typ := table.Pick(rng, table.SpecialComboThreshold, true)
		if typ != TargetWhite && typ != TargetBlack {
			t.Fatalf("expected a special at the combo threshold, got %v", typ)
		}
	}
	for i := 0; i < 200; i++ {
		if typ := table.Pick(rng, table.SpecialComboThreshold-1, true); typ.Drifts() {
			t.Fatalf("specials must wait for the combo threshold, got %v", typ)
		}
	}

	table.ChestChance = 1
	if typ := table.Pick(rng, 0, true); typ != TargetChest {
		t.Fatalf("expected chest, got %v", typ)
	}
}

func TestSpawnRespectsMargins(t *testing.T) {
	rules := DefaultRules()
	area := NewArea(1280, 720, 60)
	s := newSpawner(core.NewRNG(11), &rules, area)
	for i := 0; i < 500; i++ {
		tg := s.Spawn(TargetYellow, false)
		if tg.Pos.X < area.MinX+rules.SpawnMarginX || tg.Pos.X >= area.MaxX-rules.SpawnMarginX {
			t.Fatalf("x outside spawn margins: %v", tg.Pos.X)
		}
		if tg.Pos.Y < rules.SpawnMarginY || tg.Pos.Y >= area.Floor()-rules.SpawnMarginY {
			t.Fatalf("y outside spawn margins: %v", tg.Pos.Y)
		}
		if tg.Vel != (core.Vec2{}) {
			t.Fatalf("yellow targets are stationary outside chaos")
		}
		if tg.ID != uint64(i+1) {
			t.Fatalf("expected sequential ids, got %d at %d", tg.ID, i)
		}
	}
}

func TestSpawnDegenerateAreaUsesMidpoint(t *testing.T) {
	rules := DefaultRules()
	s := newSpawner(core.NewRNG(1), &rules, NewArea(60, 150, 0))
	tg := s.Spawn(TargetGreen, false)
	if tg.Pos != core.V(30, 75) {
		t.Fatalf("expected midpoint placement, got %+v", tg.Pos)
	}
}

func TestDriftingTypesAlwaysMove(t *testing.T) {
	rules := DefaultRules()
	s := newSpawner(core.NewRNG(6), &rules, NewArea(640, 480, 0))
	for _, typ := range []TargetType{TargetWhite, TargetBlack} {
		tg := s.Spawn(typ, false)
		speed := tg.Vel.Len()
		if speed <= 0 || speed > rules.DriftSpeed+1e-9 {
			t.Fatalf("%v expected bounded drift, got speed %v", typ, speed)
		}
	}
	if tg := s.Spawn(TargetYellow, true); tg.Vel == (core.Vec2{}) {
		t.Fatal("chaos spawns should drift")
	}
}

func TestDriftBouncesOffEdges(t *testing.T) {
	area := NewArea(640, 480, 0)
	targets := []Target{{Pos: core.V(16, 100), Vel: core.V(-3, 0), Radius: 15}}
	driftTargets(targets, area)
	if targets[0].Pos.X != 15 || targets[0].Vel.X != 3 {
		t.Fatalf("expected bounce off the left wall, got %+v", targets[0])
	}
}

func TestDriftKeepsPreviousPosition(t *testing.T) {
	area := NewArea(640, 480, 0)
	targets := []Target{
		{Pos: core.V(100, 100), PrevPos: core.V(90, 90), Vel: core.V(4, -2), Radius: 15},
		{Pos: core.V(300, 200), PrevPos: core.V(290, 200), Radius: 15},
	}
	driftTargets(targets, area)
	if targets[0].PrevPos != core.V(100, 100) || targets[0].Pos != core.V(104, 98) {
		t.Fatalf("moving target not snapshotted: %+v", targets[0])
	}
	if got := targets[0].At(0.5); got != core.V(102, 99) {
		t.Fatalf("expected the midpoint, got %+v", got)
	}
	if targets[1].PrevPos != targets[1].Pos {
		t.Fatalf("still target should not blend: %+v", targets[1])
	}
	if got := targets[0].At(math.NaN()); got != targets[0].PrevPos {
		t.Fatalf("non-finite alpha should use the previous position, got %+v", got)
	}
}

func TestSpawnStartsWithoutBlend(t *testing.T) {
	rules := DefaultRules()
	s := newSpawner(core.NewRNG(4), &rules, NewArea(1280, 720, 60))
	tg := s.Spawn(TargetWhite, false)
	if tg.PrevPos != tg.Pos {
		t.Fatalf("fresh target should have no previous motion: %+v", tg)
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := DefaultSettings()
	if err := valid.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cases := map[string]func(*Settings){
		"zero gravity":     func(s *Settings) { s.Gravity = 0 },
		"nan spring":       func(s *Settings) { s.SpringK = math.NaN() },
		"negative slack":   func(s *Settings) { s.NaturalLength = -1 },
		"damp of one":      func(s *Settings) { s.CollisionDamp = 1 },
		"infinite gravity": func(s *Settings) { s.Gravity = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":           "1024",
		"h":           "768",
		"hud_reserve": "64",
		"seed":        "77",
		"tick_rate":   "30",
		"gravity":     "0.044",
		"extended":    "true",
	})
	if cfg.Area.Width != 1024 || cfg.Area.Floor() != 704 || !cfg.Area.Wide() {
		t.Fatalf("unexpected area %+v", cfg.Area)
	}
	if cfg.Seed != 77 {
		t.Fatalf("expected seed 77, got %d", cfg.Seed)
	}
	if cfg.Rules.TickRate != 120 {
		t.Fatalf("tick rates below the minimum keep the default, got %d", cfg.Rules.TickRate)
	}
	if cfg.Settings.Gravity != 0.044 || !cfg.Settings.Extended {
		t.Fatalf("unexpected settings %+v", cfg.Settings)
	}

	bad := FromMap(map[string]string{"collision_damp": "2"})
	if bad.Settings != DefaultSettings() {
		t.Fatalf("invalid settings should fall back to defaults, got %+v", bad.Settings)
	}
}

func TestNearestLevel(t *testing.T) {
	def := DefaultSettings().SpringK
	cases := map[float64]int{def: DefaultLevel, def * 0.25: 0, def * 4: 4, def * 1.9: 3, def * 100: 4}
	for value, want := range cases {
		if got := NearestLevel(value, def); got != want {
			t.Fatalf("value %v: expected level %d, got %d", value, want, got)
		}
	}
}
