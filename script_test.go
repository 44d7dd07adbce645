package bubble

import (
	"testing"
)

func newScriptStage(t *testing.T) *Stage {
	t.Helper()
	cam := NewCamera(Rect{Width: 1280, Height: 720})
	cam.Position = Vec2{X: 640, Y: 360}
	s, err := NewStage(DefaultConfig(), &fixedCharacter{ground: Vec2{X: 640, Y: 600}}, cam, nil, newTestRand())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"bad json", `{"steps": [`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "dance"}]}`},
		{"unknown state", `{"steps": [{"action": "state", "state": "paused"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.json)); err == nil {
				t.Errorf("LoadScript(%s) succeeded, want error", tt.json)
			}
		})
	}
}

func TestScriptRunsStepsInOrder(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [
		{"action": "ideas", "count": 3},
		{"action": "state", "state": "bubble_flight"},
		{"action": "wait", "frames": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newScriptStage(t)
	s.SetScript(script)

	s.Update(frame)
	if s.Swarm().Len() != 3 {
		t.Errorf("after frame 1: %d ideas, want 3", s.Swarm().Len())
	}
	if s.State() != GameStatePlaying {
		t.Errorf("after frame 1: state = %v, want playing", s.State())
	}

	s.Update(frame)
	if s.State() != GameStateBubbleFlight {
		t.Errorf("after frame 2: state = %v, want bubble_flight", s.State())
	}

	s.Update(frame)
	if script.Done() {
		t.Error("script done while waiting")
	}
	for i := 0; i < 10; i++ {
		s.Update(frame)
	}
	if !script.Done() {
		t.Error("script not done after its wait")
	}
}

func TestScriptTargetsAndBubbleActions(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [
		{"action": "ideas", "count": 2},
		{"action": "shrink", "scale": 0.5},
		{"action": "state", "state": "exploding"},
		{"action": "targets", "targets": [{"id": "door", "x": 100, "y": 200}]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newScriptStage(t)
	s.SetScript(script)
	rest := s.Bubble().Circles()[0].RestRadius

	for i := 0; i < 4; i++ {
		s.Update(frame)
	}

	assertNear(t, "rest radius", s.Bubble().Circles()[0].RestRadius, rest/2)
	if s.Bubble().Visible() {
		t.Error("entering exploding should hide the bubble")
	}
	if !s.Swarm().TargetsAssigned() {
		t.Fatal("targets not assigned")
	}
	if id, ok := s.Swarm().Ideas()[0].Target(); !ok || id != "door" {
		t.Errorf("idea 0 target = %q, %v; want door", id, ok)
	}
	if !script.Done() {
		t.Error("script not done after its last step")
	}
}

func TestScriptStopDrawing(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [{"action": "stopDrawing"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newScriptStage(t)
	s.SetScript(script)
	s.Update(frame)
	if s.Bubble().Visible() {
		t.Error("stopDrawing step left the bubble visible")
	}
	if s.State() != GameStatePlaying {
		t.Errorf("stopDrawing changed state to %v", s.State())
	}
}
