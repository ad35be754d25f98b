package game

import (
	"math"

	"tether/pkg/core"
)

// Weighted pairs a target type with its relative weight.
type Weighted struct {
	Type   TargetType
	Weight float64
}

// SpawnTable is the discrete distribution consulted for every new target.
// Chest and special rolls only apply to the extended ruleset.
type SpawnTable struct {
	ChestChance           float64
	SpecialComboThreshold int
	SpecialChance         float64
	Common                []Weighted
}

// DefaultSpawnTable returns the reference weights.
func DefaultSpawnTable() SpawnTable {
	return SpawnTable{
		ChestChance:           0.03,
		SpecialComboThreshold: 10,
		SpecialChance:         0.15,
		Common: []Weighted{
			{Type: TargetYellow, Weight: 80},
			{Type: TargetGreen, Weight: 12},
			{Type: TargetRed, Weight: 8},
		},
	}
}

// Pick draws one target type for the given combo.
func (t SpawnTable) Pick(rng *core.RNG, combo int, extended bool) TargetType {
	if extended {
		if t.ChestChance > 0 && rng.Float64() < t.ChestChance {
			return TargetChest
		}
		if combo >= t.SpecialComboThreshold && t.SpecialChance > 0 && rng.Float64() < t.SpecialChance {
			if rng.Bool() {
				return TargetWhite
			}
			return TargetBlack
		}
	}
	return pickWeighted(rng, t.Common)
}

func pickWeighted(rng *core.RNG, table []Weighted) TargetType {
	total := 0.0
	for _, w := range table {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		return TargetYellow
	}
	roll := rng.Float64() * total
	for _, w := range table {
		if w.Weight <= 0 {
			continue
		}
		if roll < w.Weight {
			return w.Type
		}
		roll -= w.Weight
	}
	return table[len(table)-1].Type
}

// Spawner places new targets inside the spawn margins of the play area.
type Spawner struct {
	rng    *core.RNG
	rules  *Rules
	area   Area
	nextID uint64
}

func newSpawner(rng *core.RNG, rules *Rules, area Area) *Spawner {
	return &Spawner{rng: rng, rules: rules, area: area}
}

// Spawn creates a target of the given type. Drifting types, and every type
// while chaos is active, receive a random bounded velocity.
func (s *Spawner) Spawn(typ TargetType, chaos bool) Target {
	s.nextID++
	r := s.rules
	x := s.rng.Range(s.area.MinX+r.SpawnMarginX, s.area.MaxX-r.SpawnMarginX)
	y := s.rng.Range(r.SpawnMarginY, s.area.Floor()-r.SpawnMarginY)
	pos := core.V(x, y)
	t := Target{
		ID:      s.nextID,
		Type:    typ,
		Pos:     pos,
		PrevPos: pos,
		Radius:  r.TargetRadius,
	}
	if chaos || typ.Drifts() {
		t.Vel = s.driftVelocity()
	}
	return t
}

// SpawnNext picks a type from the table and spawns it.
func (s *Spawner) SpawnNext(combo int, extended, chaos bool) Target {
	return s.Spawn(s.rules.Spawn.Pick(s.rng, combo, extended), chaos)
}

func (s *Spawner) driftVelocity() core.Vec2 {
	angle := s.rng.Float64() * 2 * math.Pi
	speed := s.rng.Range(0.5, 1) * s.rules.DriftSpeed
	return core.V(math.Cos(angle)*speed, math.Sin(angle)*speed)
}
