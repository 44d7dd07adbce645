package bubble

import (
	"testing"

	"github.com/tanema/gween/ease"
)

const frame = 1.0 / 60

// singleCircleBubble returns a bubble made of one circle of radius 100 at the
// origin, with idea radius 10 and idea mass 1.
func singleCircleBubble(t *testing.T) *ThoughtBubble {
	t.Helper()
	cfg := DefaultConfig().Bubble
	cfg.Circles = []CircleConfig{{Radius: 100}}
	cfg.IdeaRadius = 10
	cfg.IdeaMass = 1
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(&fixedCharacter{})
	return b
}

func TestThoughtBubbleInit(t *testing.T) {
	cfg := DefaultConfig().Bubble
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(&fixedCharacter{ground: Vec2{X: 640, Y: 600}})

	assertVec(t, "center", b.Center(), Vec2{X: 640, Y: 370})
	if b.Phase() != PhaseFollowing {
		t.Errorf("Phase = %v, want following", b.Phase())
	}
	if !b.Visible() {
		t.Error("bubble should start visible")
	}
	if len(b.Circles()) != len(cfg.Circles) {
		t.Fatalf("got %d circles, want %d", len(b.Circles()), len(cfg.Circles))
	}
	for i, c := range b.Circles() {
		if c.Radius != cfg.Circles[i].Radius || c.RestRadius != cfg.Circles[i].Radius {
			t.Errorf("circle %d radius %v rest %v, want %v", i, c.Radius, c.RestRadius, cfg.Circles[i].Radius)
		}
	}
	assertNear(t, "spring constant", b.SpringConstant(), cfg.SpringConstant)
}

// --- following ---

func TestThoughtBubbleFollowLeeway(t *testing.T) {
	cfg := DefaultConfig().Bubble
	hero := &fixedCharacter{ground: Vec2{X: 640, Y: 600}}
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(hero)

	// A far jump is seen through at most Leeway of horizontal pull.
	hero.ground.X = 1140
	b.Update(frame, GameStatePlaying)

	want := 640 + cfg.AnchorStiffness*cfg.Leeway*frame*frame/cfg.AnchorMass
	assertNear(t, "x", b.Center().X, want)
	assertNear(t, "y", b.Center().Y, 370)
}

func TestThoughtBubbleCeiling(t *testing.T) {
	cfg := DefaultConfig().Bubble
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(&fixedCharacter{ground: Vec2{X: 0, Y: 100}})

	b.Update(frame, GameStatePlaying)
	if b.Center().Y != cfg.CeilingY {
		t.Errorf("Y = %v, want clamped to ceiling %v", b.Center().Y, cfg.CeilingY)
	}
}

func TestThoughtBubbleSettlesUnderCharacter(t *testing.T) {
	cfg := DefaultConfig().Bubble
	hero := &fixedCharacter{ground: Vec2{X: 640, Y: 600}}
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(hero)

	hero.ground = Vec2{X: 700, Y: 650}
	for i := 0; i < 1200; i++ {
		b.Update(frame, GameStatePlaying)
	}
	if c := b.Center(); !approxEqual(c.X, 700, 1e-6) || !approxEqual(c.Y, 420, 1e-6) {
		t.Errorf("settled at %v, want (700,420)", c)
	}
}

// --- flight and hold ---

func TestThoughtBubbleFlightAndHold(t *testing.T) {
	cfg := DefaultConfig().Bubble
	view := fixedView{bounds: Rect{Width: 1280, Height: 720}}
	b := NewThoughtBubble(cfg, view, nil)
	b.Init(&fixedCharacter{ground: Vec2{X: 640, Y: 600}})

	var events []EventType
	b.emit = func(e Event) { events = append(events, e.Type) }

	// First flight frame latches the path without moving.
	if tr := b.Update(frame, GameStateBubbleFlight); tr != TransitionNone {
		t.Fatalf("latch frame transition = %v", tr)
	}
	if b.Phase() != PhaseFlyingToHold {
		t.Fatalf("Phase = %v, want flying", b.Phase())
	}
	assertVec(t, "latched", b.Center(), Vec2{X: 640, Y: 370})

	// Halfway: start (640,370), control (640,250), end (640,220).
	b.Update(1, GameStateBubbleFlight)
	assertVec(t, "halfway", b.Center(), Vec2{X: 640, Y: 272.5})
	assertVec(t, "circle 1 halfway", b.Circles()[1].Center, Vec2{X: -29, Y: 6})

	b.Update(1.5, GameStateBubbleFlight)
	if b.Phase() != PhaseHolding {
		t.Fatalf("Phase = %v, want holding", b.Phase())
	}
	assertVec(t, "hold point", b.Center(), Vec2{X: 640, Y: 220})
	for i, c := range b.Circles() {
		if c.Center != (Vec2{}) {
			t.Errorf("circle %d center = %v, want collapsed to origin", i, c.Center)
		}
	}

	if tr := b.Update(1, GameStateBubbleFlight); tr != TransitionNone {
		t.Errorf("early hold transition = %v", tr)
	}
	assertNear(t, "k after 1s", b.SpringConstant(), 175)

	if tr := b.Update(2.5, GameStateBubbleFlight); tr != TransitionExplode {
		t.Errorf("hold expiry transition = %v, want explode", tr)
	}
	assertNear(t, "k at expiry", b.SpringConstant(), 62.5)

	// Only once, even though the hold keeps ticking.
	for i := 0; i < 10; i++ {
		if tr := b.Update(0.1, GameStateBubbleFlight); tr != TransitionNone {
			t.Fatalf("frame %d after expiry transition = %v", i, tr)
		}
	}
	assertNear(t, "k after expiry", b.SpringConstant(), 17.5)
	for i := 0; i < 10; i++ {
		b.Update(1, GameStateBubbleFlight)
	}
	if b.SpringConstant() != 0 {
		t.Errorf("k = %v, want floored at 0", b.SpringConstant())
	}

	want := []EventType{EventFlightStarted, EventHoldStarted, EventExplodeRequested}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestThoughtBubbleFlightLatchesOnce(t *testing.T) {
	cfg := DefaultConfig().Bubble
	hero := &fixedCharacter{ground: Vec2{X: 640, Y: 600}}
	b := NewThoughtBubble(cfg, fixedView{bounds: Rect{Width: 1280, Height: 720}}, nil)
	b.Init(hero)

	b.Update(frame, GameStateBubbleFlight)
	// Moving the character mid-flight does not change the path.
	hero.ground = Vec2{X: 0, Y: 0}
	b.Update(1, GameStateBubbleFlight)
	assertVec(t, "halfway", b.Center(), Vec2{X: 640, Y: 272.5})
}

func TestThoughtBubbleFlightEase(t *testing.T) {
	cfg := DefaultConfig().Bubble
	cfg.FlightEase = ease.Linear
	b := NewThoughtBubble(cfg, fixedView{bounds: Rect{Width: 1280, Height: 720}}, nil)
	b.Init(&fixedCharacter{ground: Vec2{X: 640, Y: 600}})

	b.Update(frame, GameStateBubbleFlight)
	b.Update(1, GameStateBubbleFlight)
	if !approxEqual(b.Center().Y, 272.5, 1e-3) {
		t.Errorf("linear ease halfway Y = %v, want ~272.5", b.Center().Y)
	}
}

func TestThoughtBubbleFlightWithoutView(t *testing.T) {
	cfg := DefaultConfig().Bubble
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(&fixedCharacter{ground: Vec2{X: 300, Y: 600}})

	b.Update(frame, GameStateBubbleFlight)
	b.Update(cfg.FlightDuration+1, GameStateBubbleFlight)
	assertVec(t, "hold point", b.Center(), Vec2{X: 300, Y: cfg.FlightEndHeight})
}

func TestThoughtBubbleDormant(t *testing.T) {
	b := singleCircleBubble(t)
	before := b.Center()
	b.CollideIdea(Vec2{X: 95}, Vec2{X: 5})

	for _, state := range []GameState{GameStateExploding, GameStateEnding} {
		if tr := b.Update(frame, state); tr != TransitionNone {
			t.Errorf("%v transition = %v", state, tr)
		}
		if b.Phase() != PhaseDormant {
			t.Errorf("%v phase = %v, want dormant", state, b.Phase())
		}
	}
	if b.Center() != before {
		t.Errorf("dormant bubble moved: %v -> %v", before, b.Center())
	}
	if b.Circles()[0].Radius != 100 {
		t.Errorf("dormant radius = %v, want untouched 100", b.Circles()[0].Radius)
	}
}

// --- collision ---

func TestCollideIdeaInside(t *testing.T) {
	b := singleCircleBubble(t)
	pos, vel := Vec2{X: 30, Y: -20}, Vec2{X: 5, Y: 5}
	gotPos, gotVel, hit := b.CollideIdea(pos, vel)
	if hit || gotPos != pos || gotVel != vel {
		t.Errorf("inside: got %v %v %v, want unchanged, no hit", gotPos, gotVel, hit)
	}
}

func TestCollideIdeaExactlyOnBoundary(t *testing.T) {
	b := singleCircleBubble(t)
	pos, vel := Vec2{X: 90}, Vec2{X: 5}
	gotPos, gotVel, hit := b.CollideIdea(pos, vel)
	if hit || gotPos != pos || gotVel != vel {
		t.Errorf("boundary: got %v %v %v, want unchanged, no hit", gotPos, gotVel, hit)
	}
}

func TestCollideIdeaOutwardReflects(t *testing.T) {
	b := singleCircleBubble(t)
	pos, vel, hit := b.CollideIdea(Vec2{X: 95}, Vec2{X: 5, Y: 3})
	if !hit {
		t.Fatal("expected a hit")
	}
	assertVec(t, "pos", pos, Vec2{X: 90})
	assertVec(t, "vel", vel, Vec2{X: -5, Y: 3})

	// The bounce impulse |Δv|*m = 10 kicks the stretch spring outward.
	b.Update(frame, GameStatePlaying)
	assertNear(t, "radius", b.Circles()[0].Radius, 100+10*frame)
}

func TestCollideIdeaDiagonal(t *testing.T) {
	b := singleCircleBubble(t)
	in := Vec2{X: 1, Y: 2}
	pos, vel, hit := b.CollideIdea(Vec2{X: 70, Y: 70}, in)
	if !hit {
		t.Fatal("expected a hit")
	}
	assertNear(t, "distance", pos.Norm(), 90)
	assertNear(t, "speed", vel.Norm(), in.Norm())
	if vel.Dot(pos) >= 0 {
		t.Errorf("reflected velocity %v still heads outward", vel)
	}
}

func TestCollideIdeaInwardNotReflected(t *testing.T) {
	b := singleCircleBubble(t)
	pos, vel, hit := b.CollideIdea(Vec2{X: 95}, Vec2{X: -5, Y: 3})
	if !hit {
		t.Fatal("expected a hit")
	}
	assertVec(t, "pos", pos, Vec2{X: 90})
	assertVec(t, "vel", vel, Vec2{X: -5, Y: 3})

	b.Update(frame, GameStatePlaying)
	assertNear(t, "radius", b.Circles()[0].Radius, 100)
}

func TestCollideIdeaUnionOfCircles(t *testing.T) {
	cfg := DefaultConfig().Bubble
	cfg.Circles = []CircleConfig{{Radius: 100}, {X: 150, Radius: 100}}
	cfg.IdeaRadius = 10
	b := NewThoughtBubble(cfg, nil, nil)
	b.Init(&fixedCharacter{})

	// Outside the first circle but inside the second.
	if _, _, hit := b.CollideIdea(Vec2{X: 120}, Vec2{X: 1}); hit {
		t.Error("point inside the second circle should not collide")
	}

	// Outside both: pushed onto the nearer first circle.
	pos, _, hit := b.CollideIdea(Vec2{Y: 200}, Vec2{Y: 1})
	if !hit {
		t.Fatal("expected a hit")
	}
	assertVec(t, "pos", pos, Vec2{Y: 90})
}

// --- shrink and drawing ---

func TestThoughtBubbleShrinkIsContinuous(t *testing.T) {
	b := singleCircleBubble(t)
	b.Shrink(0.25)

	c := b.Circles()[0]
	assertNear(t, "rest", c.RestRadius, 75)
	assertNear(t, "radius right after shrink", c.Radius, 100)

	b.Update(frame, GameStatePlaying)
	if r := b.Circles()[0].Radius; r < 95 {
		t.Errorf("radius jumped to %v after one frame", r)
	}

	for i := 0; i < 900; i++ {
		b.Update(frame, GameStatePlaying)
	}
	if r := b.Circles()[0].Radius; !approxEqual(r, 75, 1e-3) {
		t.Errorf("settled radius = %v, want 75", r)
	}
}

func TestThoughtBubbleShrinkClamps(t *testing.T) {
	b := singleCircleBubble(t)
	b.Shrink(-1)
	assertNear(t, "rest after negative scale", b.Circles()[0].RestRadius, 100)

	b.Shrink(2)
	assertNear(t, "rest after oversized scale", b.Circles()[0].RestRadius, 0)
	for i := 0; i < 900; i++ {
		b.Update(frame, GameStatePlaying)
		if r := b.Circles()[0].Radius; r < 0 {
			t.Fatalf("negative radius %v", r)
		}
	}
}

func TestThoughtBubbleStopDrawing(t *testing.T) {
	rec := newRecordingRenderer()
	b := NewThoughtBubble(DefaultConfig().Bubble, nil, rec)
	b.Init(&fixedCharacter{})

	b.StopDrawing()
	if b.Visible() || rec.bubbleVisible || rec.bubbleCalls != 1 {
		t.Errorf("after StopDrawing: visible=%v renderer=%v calls=%d", b.Visible(), rec.bubbleVisible, rec.bubbleCalls)
	}

	// Physics keeps running.
	b.CollideIdea(Vec2{X: 200}, Vec2{X: 5})
	b.Update(frame, GameStatePlaying)
	if b.Phase() != PhaseFollowing {
		t.Errorf("Phase = %v, want following", b.Phase())
	}
}
