package bubble

import (
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

// TargetID identifies a target across the hit-detection boundary.
type TargetID string

// Target is a screen-space destination for an idea.
type Target struct {
	// Position is in screen coordinates.
	Position Vec2
	ID       TargetID
	// Owner is the entity the target belongs to. Not read by the swarm.
	Owner any
}

// fullTurn is the range of spawn headings.
var fullTurn = Range{Min: 0, Max: 2 * math.Pi}

// Idea holds per-idea simulation state. Managed by IdeaSwarm.
type Idea struct {
	// Position and Velocity are in bubble-local 3D space.
	Position Vec3
	Velocity Vec3
	// Countdown is the time left before the idea leaves free flight. Only
	// meaningful once targets are assigned.
	Countdown float64
	Color     Color

	track    *FlightTrack[Vec3]
	visible  bool
	released bool
	targeted bool
	target   TargetID
}

// Visible reports whether the idea is still drawn.
func (i *Idea) Visible() bool {
	return i.visible
}

// Released reports whether the idea has started following its track.
func (i *Idea) Released() bool {
	return i.released
}

// Arrived reports whether the idea has finished its track.
func (i *Idea) Arrived() bool {
	return i.track != nil && i.track.Done()
}

// Target returns the target assigned to the idea, if any.
func (i *Idea) Target() (TargetID, bool) {
	return i.target, i.targeted
}

// IdeaSwarm simulates a pool of ideas bouncing inside a ThoughtBubble and,
// once targets are assigned, releases them one by one onto Bezier tracks.
type IdeaSwarm struct {
	cfg      SwarmConfig
	bubble   *ThoughtBubble
	view     Viewport
	renderer IdeaRenderer
	rng      *rand.Rand
	log      *zap.Logger
	emit     func(Event)
	proj     projection

	ideas           []Idea
	targetsAssigned bool
	targetIdea      map[TargetID]int
}

// NewIdeaSwarm creates an empty swarm living in b. view is used to map
// targets and escape points into bubble space. renderer may be nil. A nil
// rng is replaced by a randomly seeded source.
func NewIdeaSwarm(cfg SwarmConfig, b *ThoughtBubble, view Viewport, renderer IdeaRenderer, rng *rand.Rand) *IdeaSwarm {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &IdeaSwarm{
		cfg:      cfg,
		bubble:   b,
		view:     view,
		renderer: renderer,
		rng:      rng,
		log:      zap.NewNop(),
		proj:     projection{focal: cfg.Focal},
	}
}

// AddIdeas spawns n ideas at the spawn point, each heading off in a random
// lateral direction while drifting toward the viewer.
func (s *IdeaSwarm) AddIdeas(n int) {
	for range n {
		i := len(s.ideas)
		sin, cos := math.Sincos(fullTurn.Random(s.rng))
		idea := Idea{
			Position: s.cfg.SpawnPoint,
			Velocity: Vec3{X: cos * s.cfg.Speed, Y: sin * s.cfg.Speed, Z: s.cfg.DepthDrift},
			Color:    ColorWhite,
			visible:  true,
		}
		if len(s.cfg.Palette) > 0 {
			idea.Color = s.cfg.Palette[s.rng.IntN(len(s.cfg.Palette))]
		}
		s.ideas = append(s.ideas, idea)

		s.renderer.SetIdeaColor(i, idea.Color)
		s.renderer.SetIdeaVisible(i, true)
		s.render(i)
	}
}

// Update advances every idea by dt seconds. The bubble must already have
// been updated this frame.
func (s *IdeaSwarm) Update(dt float64) {
	if s.targetsAssigned {
		for i := range s.ideas {
			s.ideas[i].Countdown -= dt
		}
	}

	for i := range s.ideas {
		idea := &s.ideas[i]
		if s.targetsAssigned && idea.track != nil && idea.Countdown <= 0 {
			s.followTrack(i, dt)
			continue
		}
		s.bounce(idea, dt)
		s.render(i)
	}
}

func (s *IdeaSwarm) followTrack(i int, dt float64) {
	idea := &s.ideas[i]
	if idea.track.Done() {
		return
	}
	if !idea.released {
		idea.released = true
		s.emitIdea(EventIdeaReleased, i)
	}

	idea.Position = idea.track.Step(dt)
	s.render(i)

	if idea.track.Done() {
		idea.visible = false
		s.renderer.SetIdeaVisible(i, false)
		s.log.Debug("idea arrived", zap.Int("idea", i), zap.Bool("targeted", idea.targeted))
		s.emitIdea(EventIdeaArrived, i)
	}
}

// bounce moves a free idea and keeps it inside the bubble and depth range.
func (s *IdeaSwarm) bounce(idea *Idea, dt float64) {
	idea.Position = idea.Position.Add(idea.Velocity.Mul(dt))

	if s.bubble != nil {
		p2, _ := s.proj.project(idea.Position)
		v2 := Vec2{X: idea.Velocity.X, Y: idea.Velocity.Y}
		if pos, vel, hit := s.bubble.CollideIdea(p2, v2); hit {
			idea.Position = s.proj.unproject(pos, idea.Position.Z)
			idea.Velocity.X = vel.X
			idea.Velocity.Y = vel.Y
		}
	}

	if idea.Position.Z > s.cfg.NearZ {
		idea.Position.Z = s.cfg.NearZ
		idea.Velocity.Z = -idea.Velocity.Z
	} else if idea.Position.Z < s.cfg.FarZ {
		idea.Position.Z = s.cfg.FarZ
		idea.Velocity.Z = -idea.Velocity.Z
	}
}

// SetTargets builds every idea's escape track and release countdown. The
// first len(targets) ideas fly to their target in order, staggered by a
// shrinking gap; the rest fly to random points on screen at random times
// within the same window. Only the first call has any effect.
func (s *IdeaSwarm) SetTargets(targets []Target) {
	if s.targetsAssigned {
		s.log.Warn("targets already assigned; ignoring", zap.Int("targets", len(targets)))
		return
	}
	s.targetsAssigned = true
	s.targetIdea = make(map[TargetID]int, len(targets))

	delay, gap := 0.0, s.cfg.ReleaseGap
	targeted := min(len(targets), len(s.ideas))
	for i := range targeted {
		s.ideas[i].Countdown = delay
		delay += gap
		gap *= s.cfg.ReleaseGapDecay
	}
	window := delay

	for i := range s.ideas {
		idea := &s.ideas[i]
		var dest Vec2
		if i < targeted {
			t := targets[i]
			dest = s.toLocal(t.Position)
			idea.targeted = true
			idea.target = t.ID
			s.targetIdea[t.ID] = i
		} else {
			dest = s.randomEscape()
			idea.Countdown = s.rng.Float64() * window
		}
		idea.track = s.buildTrack(idea.Position, dest)
	}

	s.log.Debug("targets assigned",
		zap.Int("targets", len(targets)),
		zap.Int("ideas", len(s.ideas)),
		zap.Float64("window", window))
	if s.emit != nil {
		s.emit(Event{Type: EventTargetsAssigned, Idea: -1, Position: s.bubbleCenter()})
	}
}

// buildTrack creates the two-leg path: the shared retreat arc along the
// depth axis, then a lifted arc down to dest on the bubble plane.
func (s *IdeaSwarm) buildTrack(start Vec3, dest Vec2) *FlightTrack[Vec3] {
	track := NewFlightTrack(start)
	if err := track.AddSegment(s.cfg.RetreatControl, s.cfg.Retreat, s.cfg.RetreatDuration); err != nil {
		s.log.Warn("retreat leg rejected", zap.Error(err))
	}

	end := Vec3{X: dest.X, Y: dest.Y, Z: 0}
	control := Vec3{
		X: (s.cfg.Retreat.X + end.X) / 2,
		Y: math.Min(s.cfg.Retreat.Y, end.Y) - s.cfg.ArcLift,
		Z: s.cfg.Retreat.Z,
	}
	if err := track.AddSegment(control, end, s.cfg.LaunchDuration); err != nil {
		s.log.Warn("launch leg rejected", zap.Error(err))
	}
	return track
}

// toLocal converts a screen point to bubble-local plane coordinates.
func (s *IdeaSwarm) toLocal(screen Vec2) Vec2 {
	world := screen
	if s.view != nil {
		world = s.view.ScreenToWorld(screen)
	}
	return world.Sub(s.bubbleCenter())
}

// randomEscape picks a uniform point inside the camera's visible area and
// converts it to bubble-local plane coordinates.
func (s *IdeaSwarm) randomEscape() Vec2 {
	if s.view == nil {
		return Vec2{}
	}
	vb := s.view.VisibleBounds()
	world := Vec2{
		X: vb.X + s.rng.Float64()*vb.Width,
		Y: vb.Y + s.rng.Float64()*vb.Height,
	}
	return world.Sub(s.bubbleCenter())
}

// TargetWasHit reports whether the idea sent to id has finished its flight.
// A target that never received an idea cannot be waited on, so it counts
// as hit.
func (s *IdeaSwarm) TargetWasHit(id TargetID) bool {
	i, ok := s.targetIdea[id]
	if !ok {
		return true
	}
	return s.ideas[i].Arrived()
}

// TargetsAssigned reports whether SetTargets has been called.
func (s *IdeaSwarm) TargetsAssigned() bool {
	return s.targetsAssigned
}

// Len returns the number of ideas, visible or not.
func (s *IdeaSwarm) Len() int {
	return len(s.ideas)
}

// Ideas returns the idea pool. The returned slice MUST NOT be mutated.
func (s *IdeaSwarm) Ideas() []Idea {
	return s.ideas
}

// counts returns how many ideas are bouncing, on a track, and finished.
func (s *IdeaSwarm) counts() (free, flying, arrived int) {
	for i := range s.ideas {
		idea := &s.ideas[i]
		switch {
		case idea.Arrived():
			arrived++
		case idea.released:
			flying++
		default:
			free++
		}
	}
	return
}

// render pushes idea i's projected world position to the renderer.
func (s *IdeaSwarm) render(i int) {
	p2, w := s.proj.project(s.ideas[i].Position)
	s.renderer.SetIdeaPosition(i, s.bubbleCenter().Add(p2), 1/w)
}

func (s *IdeaSwarm) bubbleCenter() Vec2 {
	if s.bubble == nil {
		return Vec2{}
	}
	return s.bubble.Center()
}

func (s *IdeaSwarm) emitIdea(t EventType, i int) {
	if s.emit == nil {
		return
	}
	idea := &s.ideas[i]
	p2, _ := s.proj.project(idea.Position)
	s.emit(Event{
		Type:     t,
		Idea:     i,
		Target:   idea.target,
		Targeted: idea.targeted,
		Position: s.bubbleCenter().Add(p2),
	})
}
