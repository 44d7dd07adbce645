package bubble

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Stage is the per-frame driver for one bubble and its ideas. It owns the
// game state the bubble reacts to, updates the camera, bubble, and swarm in
// that order, and applies the transitions the bubble asks for.
type Stage struct {
	cfg    Config
	camera *Camera
	bubble *ThoughtBubble
	swarm  *IdeaSwarm
	state  GameState
	sink   EventSink
	log    *zap.Logger
	debug  bool
	script *Script
	frame  uint64
}

// NewStage validates cfg and builds a bubble hanging above character with an
// empty swarm inside it. camera and renderer may be nil; rng seeds every
// random choice the swarm makes and may be nil for a random seed.
func NewStage(cfg Config, character Character, camera *Camera, renderer Renderer, rng *rand.Rand) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new stage: %w", err)
	}
	if camera == nil {
		camera = NewCamera(Rect{})
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}

	b := NewThoughtBubble(cfg.Bubble, camera, renderer)
	b.Init(character)

	s := &Stage{
		cfg:    cfg,
		camera: camera,
		bubble: b,
		swarm:  NewIdeaSwarm(cfg.Swarm, b, camera, renderer, rng),
	}
	b.emit = s.dispatch
	s.swarm.emit = s.dispatch
	s.SetLogger(zap.NewNop())
	return s, nil
}

// Update advances everything by dt seconds. The bubble always moves before
// the swarm so that ideas collide with this frame's circles.
func (s *Stage) Update(dt float64) {
	if s.script != nil {
		s.script.step(s)
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.camera.update(float32(dt))

	if s.debug {
		stats.cameraTime = time.Since(t0)
		t0 = time.Now()
	}

	if s.bubble.Update(dt, s.state) == TransitionExplode {
		s.SetState(GameStateExploding)
	}

	if s.debug {
		stats.bubbleTime = time.Since(t0)
		t0 = time.Now()
	}

	s.swarm.Update(dt)

	if s.debug {
		stats.swarmTime = time.Since(t0)
		stats.free, stats.flying, stats.arrived = s.swarm.counts()
		s.debugLog(stats)
	}
	s.frame++
}

// SetState moves the game to state. Entering GameStateExploding hides the
// bubble circles.
func (s *Stage) SetState(state GameState) {
	if state == s.state {
		return
	}
	s.log.Debug("state", zap.Stringer("from", s.state), zap.Stringer("to", state))
	s.state = state
	if state == GameStateExploding {
		s.bubble.StopDrawing()
	}
}

// State returns the current game state.
func (s *Stage) State() GameState {
	return s.state
}

// AddIdeas spawns n ideas inside the bubble.
func (s *Stage) AddIdeas(n int) {
	s.swarm.AddIdeas(n)
}

// SetTargets hands the swarm its targets. Call once, after the bubble and
// swarm are set up; later calls are ignored.
func (s *Stage) SetTargets(targets []Target) {
	s.swarm.SetTargets(targets)
}

// TargetWasHit reports whether the idea sent to id has arrived. Targets that
// never received an idea report true.
func (s *Stage) TargetWasHit(id TargetID) bool {
	return s.swarm.TargetWasHit(id)
}

// AllArrived reports whether targets are assigned and every idea has
// finished its track.
func (s *Stage) AllArrived() bool {
	if !s.swarm.TargetsAssigned() {
		return false
	}
	_, _, arrived := s.swarm.counts()
	return arrived == s.swarm.Len()
}

// Bubble returns the stage's bubble.
func (s *Stage) Bubble() *ThoughtBubble {
	return s.bubble
}

// Swarm returns the stage's idea swarm.
func (s *Stage) Swarm() *IdeaSwarm {
	return s.swarm
}

// Camera returns the stage's camera.
func (s *Stage) Camera() *Camera {
	return s.camera
}

// Config returns the configuration the stage was built with.
func (s *Stage) Config() Config {
	return s.cfg
}

// Frame returns the number of completed Update calls.
func (s *Stage) Frame() uint64 {
	return s.frame
}

// SetEventSink sets the optional event bridge.
func (s *Stage) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetLogger replaces the stage logger. The bubble and swarm log through
// named children of it. A nil logger disables logging.
func (s *Stage) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.log = logger
	s.bubble.log = logger.Named("bubble")
	s.swarm.log = logger.Named("swarm")
}

// SetDebugMode enables or disables per-frame timing stats, logged at debug
// level.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetScript attaches a scenario script. Its next step runs at the start of
// every Update until it is done.
func (s *Stage) SetScript(script *Script) {
	s.script = script
}

func (s *Stage) dispatch(e Event) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}
