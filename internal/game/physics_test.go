package game

import (
	"math"
	"testing"

	"tether/pkg/core"
)

func testIntegrator() (Integrator, *Settings, *Rules, *Area) {
	settings := DefaultSettings()
	rules := DefaultRules()
	area := NewArea(640, 480, 0)
	return Integrator{settings: &settings, rules: &rules, area: &area}, &settings, &rules, &area
}

func TestStretchMeasuredBeforeMove(t *testing.T) {
	in, _, _, _ := testIntegrator()
	a := Anchor{Pos: core.V(300, 100)}
	b := Ball{Pos: core.V(300, 200), Radius: 10, Mass: 1}

	stretch := in.Step(&a, &b, a.Pos, tetherState{capacity: 200})
	if stretch != 0.5 {
		t.Fatalf("expected stretch 0.5, got %v", stretch)
	}
	if b.Prev != core.V(300, 200) {
		t.Fatalf("previous ball position not captured: %+v", b.Prev)
	}
	if b.Pos.Y >= 200 {
		t.Fatalf("spring should pull the ball up toward the anchor, got y=%v", b.Pos.Y)
	}
}

func TestAnchorSmoothing(t *testing.T) {
	in, _, _, _ := testIntegrator()
	a := Anchor{Pos: core.V(100, 100)}
	b := Ball{Pos: core.V(100, 150), Radius: 10, Mass: 1}

	in.Step(&a, &b, core.V(200, 100), tetherState{capacity: 200})
	if math.Abs(a.Pos.X-135) > 1e-9 || a.Pos.Y != 100 {
		t.Fatalf("anchor should move 35%% toward input, got %+v", a.Pos)
	}
	if a.Prev != core.V(100, 100) {
		t.Fatalf("previous anchor position not captured: %+v", a.Prev)
	}
}

func TestZeroLengthTetherStaysFinite(t *testing.T) {
	in, _, _, _ := testIntegrator()
	a := Anchor{Pos: core.V(200, 200)}
	b := Ball{Pos: core.V(200, 200), Radius: 10, Mass: 1}

	for i := 0; i < 10; i++ {
		in.Step(&a, &b, a.Pos, tetherState{capacity: 200})
		if !b.Pos.IsFinite() || !b.Vel.IsFinite() || !core.IsFinite(b.Rotation) {
			t.Fatalf("tick %d produced non-finite ball state: %+v", i, b)
		}
	}
}

func TestBrokenTetherFreeFalls(t *testing.T) {
	in, settings, rules, _ := testIntegrator()
	a := Anchor{Pos: core.V(100, 100)}
	b := Ball{Pos: core.V(300, 100), Radius: 10, Mass: 1}

	stretch := in.Step(&a, &b, a.Pos, tetherState{capacity: 200, broken: true})
	if stretch != 0 {
		t.Fatalf("broken tether must report zero stretch, got %v", stretch)
	}
	if b.Vel.X != 0 {
		t.Fatalf("no horizontal force expected without the spring, got %v", b.Vel.X)
	}
	want := settings.Gravity * rules.Drag
	if math.Abs(b.Vel.Y-want) > 1e-12 {
		t.Fatalf("expected gravity-only velocity %v, got %v", want, b.Vel.Y)
	}
}

func TestGravityInvert(t *testing.T) {
	in, _, _, _ := testIntegrator()
	a := Anchor{Pos: core.V(100, 100)}
	b := Ball{Pos: core.V(300, 200), Radius: 10, Mass: 1}

	in.Step(&a, &b, a.Pos, tetherState{capacity: 200, broken: true, inverted: true})
	if b.Vel.Y >= 0 {
		t.Fatalf("inverted gravity should accelerate upward, got %v", b.Vel.Y)
	}
}

func TestContainBallReflectsAndDamps(t *testing.T) {
	area := NewArea(640, 480, 40)
	cases := []struct {
		name    string
		pos     core.Vec2
		vel     core.Vec2
		wantPos core.Vec2
		wantVel core.Vec2
	}{
		{"floor", core.V(300, 435), core.V(0, 5), core.V(300, 430), core.V(0, -3.5)},
		{"ceiling", core.V(300, 2), core.V(0, -4), core.V(300, 10), core.V(0, 2.8)},
		{"left", core.V(-3, 200), core.V(-2, 0), core.V(10, 200), core.V(1.4, 0)},
		{"right", core.V(650, 200), core.V(6, 0), core.V(630, 200), core.V(-4.2, 0)},
		{"inside", core.V(300, 200), core.V(3, -3), core.V(300, 200), core.V(3, -3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Ball{Pos: tc.pos, Vel: tc.vel, Radius: 10}
			containBall(&b, area, 0.7)
			if b.Pos != tc.wantPos {
				t.Fatalf("expected position %+v, got %+v", tc.wantPos, b.Pos)
			}
			if math.Abs(b.Vel.X-tc.wantVel.X) > 1e-12 || math.Abs(b.Vel.Y-tc.wantVel.Y) > 1e-12 {
				t.Fatalf("expected velocity %+v, got %+v", tc.wantVel, b.Vel)
			}
		})
	}
}

func TestWideAreaNarrowsPlayWidth(t *testing.T) {
	wide := NewArea(1280, 720, 60)
	if wide.MinX != 256 || wide.MaxX != 1024 {
		t.Fatalf("expected 20%% side walls, got [%v, %v]", wide.MinX, wide.MaxX)
	}
	if wide.Floor() != 660 {
		t.Fatalf("expected floor above the HUD reserve, got %v", wide.Floor())
	}
	narrow := NewArea(480, 800, 0)
	if narrow.Wide() || narrow.MinX != 0 || narrow.MaxX != 480 {
		t.Fatalf("narrow screens use the full width, got %+v", narrow)
	}
}

func TestBlendClampsAlpha(t *testing.T) {
	prev := Pose{Anchor: core.V(0, 0), Ball: core.V(10, 10)}
	cur := Pose{Anchor: core.V(10, 20), Ball: core.V(20, 30)}

	if got := Blend(prev, cur, 0); got != prev {
		t.Fatalf("alpha 0 should return prev, got %+v", got)
	}
	mid := Blend(prev, cur, 0.5)
	if mid.Anchor != core.V(5, 10) || mid.Ball != core.V(15, 20) {
		t.Fatalf("unexpected midpoint %+v", mid)
	}
	if got := Blend(prev, cur, math.NaN()); got != prev {
		t.Fatalf("NaN alpha should clamp to prev, got %+v", got)
	}
	hi := Blend(prev, cur, 3)
	if hi.Anchor.X >= 10 || hi.Anchor.X < 9.99 {
		t.Fatalf("alpha above 1 should clamp just below cur, got %+v", hi)
	}
}
