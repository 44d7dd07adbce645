package bubble

import (
	"encoding/json"
	"fmt"
)

// scriptTarget is a target as written in a script.
type scriptTarget struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// scriptStep represents a single action in a scenario script.
type scriptStep struct {
	Action  string         `json:"action"`
	Frames  int            `json:"frames,omitempty"`
	State   string         `json:"state,omitempty"`
	Count   int            `json:"count,omitempty"`
	Scale   float64        `json:"scale,omitempty"`
	Targets []scriptTarget `json:"targets,omitempty"`

	state GameState
}

// scriptFile is the top-level JSON structure for a scenario script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences stage actions across frames, for automated scenarios and
// attract-mode demos. Attach to a Stage via SetScript.
//
// Actions: "wait" (frames), "state" (state name, see GameState.String),
// "ideas" (count), "targets" (targets with id, x, y in screen space),
// "shrink" (scale), "stopDrawing".
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON scenario script.
func LoadScript(jsonData []byte) (*Script, error) {
	var file scriptFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i := range file.Steps {
		st := &file.Steps[i]
		switch st.Action {
		case "wait", "ideas", "targets", "shrink", "stopDrawing":
		case "state":
			gs, ok := ParseGameState(st.State)
			if !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown state %q", i, st.State)
			}
			st.state = gs
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: file.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one frame. Called from Stage.Update.
func (r *Script) step(s *Stage) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "state":
		s.SetState(st.state)
	case "ideas":
		s.AddIdeas(st.Count)
	case "targets":
		targets := make([]Target, len(st.Targets))
		for i, t := range st.Targets {
			targets[i] = Target{Position: Vec2{X: t.X, Y: t.Y}, ID: TargetID(t.ID)}
		}
		s.SetTargets(targets)
	case "shrink":
		s.bubble.Shrink(st.Scale)
	case "stopDrawing":
		s.bubble.StopDrawing()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
