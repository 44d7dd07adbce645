package bubble

import (
	"math"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// BubblePhase is the bubble's internal motion mode.
type BubblePhase uint8

const (
	PhaseFollowing    BubblePhase = iota // spring-follows the character
	PhaseFlyingToHold                    // scripted approach to the hold point
	PhaseHolding                         // softening before the explosion
	PhaseDormant                         // no physical update
)

var phaseNames = [...]string{"following", "flying_to_hold", "holding", "dormant"}

func (p BubblePhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Circle is one disc of the bubble silhouette. Center is relative to the
// bubble center.
type Circle struct {
	Center Vec2
	// Radius is the rendered radius: RestRadius plus the stretch spring's
	// current displacement.
	Radius float64
	// RestRadius only ever decreases.
	RestRadius float64
	Color      Color
}

// ThoughtBubble is a cluster of springy circles that hangs above a character,
// deflects ideas bouncing inside it, and flies to a hold point before it
// bursts.
type ThoughtBubble struct {
	cfg      BubbleConfig
	view     Viewport
	renderer BubbleRenderer
	log      *zap.Logger
	emit     func(Event)

	character Character
	anchor    *DampedPointMass
	position  Vec2
	circles   []Circle
	stretch   []*DampedPointMass
	phase     BubblePhase
	visible   bool

	// springConstant is shared by every stretch spring and decays while holding.
	springConstant float64

	flightStarted    bool
	flightStart      Vec2
	flightMid        Vec2
	flightEnd        Vec2
	startOffsets     []Vec2
	flightElapsed    float64
	holdTimer        float64
	explodeRequested bool
}

// NewThoughtBubble creates a bubble. view supplies the camera window used to
// place the hold point; renderer may be nil. Call Init before Update.
func NewThoughtBubble(cfg BubbleConfig, view Viewport, renderer BubbleRenderer) *ThoughtBubble {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &ThoughtBubble{
		cfg:      cfg,
		view:     view,
		renderer: renderer,
		log:      zap.NewNop(),
	}
}

// Init puts the bubble in its rest pose above character.
func (b *ThoughtBubble) Init(character Character) {
	b.character = character
	anchor := b.AnchorPoint()
	b.anchor = NewDampedPointMass(anchor, b.cfg.AnchorMass, b.cfg.AnchorDamping)
	b.position = anchor

	b.circles = make([]Circle, len(b.cfg.Circles))
	b.stretch = make([]*DampedPointMass, len(b.cfg.Circles))
	for i, cc := range b.cfg.Circles {
		b.circles[i] = Circle{
			Center:     Vec2{X: cc.X, Y: cc.Y},
			Radius:     cc.Radius,
			RestRadius: cc.Radius,
			Color:      cc.Color,
		}
		b.stretch[i] = NewDampedPointMass(Vec2{}, b.cfg.StretchMass, b.cfg.StretchDamping)
	}

	b.springConstant = b.cfg.SpringConstant
	b.phase = PhaseFollowing
	b.visible = true
	b.flightStarted = false
	b.explodeRequested = false
	b.flightElapsed = 0
	b.holdTimer = 0
}

// AnchorPoint returns the point the bubble hangs from: the character's
// ground position plus the configured offset.
func (b *ThoughtBubble) AnchorPoint() Vec2 {
	if b.character == nil {
		return b.cfg.AnchorOffset
	}
	return b.character.GroundPosition().Add(b.cfg.AnchorOffset)
}

// Update advances the bubble by dt seconds under the given game state and
// returns the transition the caller should apply, if any.
func (b *ThoughtBubble) Update(dt float64, state GameState) Transition {
	transition := TransitionNone

	switch state {
	case GameStateExploding, GameStateEnding:
		b.setPhase(PhaseDormant)
		return TransitionNone
	case GameStateBubbleFlight:
		switch {
		case !b.flightStarted:
			b.startFlight()
		case b.phase == PhaseHolding:
			transition = b.hold(dt)
		default:
			b.fly(dt)
		}
	default:
		b.setPhase(PhaseFollowing)
		b.follow(dt)
	}

	b.updateStretch(dt)
	return transition
}

func (b *ThoughtBubble) follow(dt float64) {
	if b.anchor == nil {
		return
	}
	target := b.AnchorPoint()
	target.X = clamp(target.X, b.position.X-b.cfg.Leeway, b.position.X+b.cfg.Leeway)

	b.anchor.ApplyForce(b.position.Sub(target).Mul(-b.cfg.AnchorStiffness))
	b.anchor.Update(dt)
	if b.anchor.Position.Y < b.cfg.CeilingY {
		b.anchor.Position.Y = b.cfg.CeilingY
	}
	b.position = b.anchor.Position
}

func (b *ThoughtBubble) startFlight() {
	b.flightStarted = true
	b.flightStart = b.position

	end := Vec2{X: b.position.X, Y: b.cfg.FlightEndHeight}
	if b.view != nil {
		vb := b.view.VisibleBounds()
		end = Vec2{X: vb.X + vb.Width/2, Y: vb.Y + b.cfg.FlightEndHeight}
	}
	b.flightEnd = end
	b.flightMid = lerpVec(b.flightStart, b.flightEnd, b.cfg.FlightMidpoint)

	b.startOffsets = make([]Vec2, len(b.circles))
	for i, c := range b.circles {
		b.startOffsets[i] = c.Center
	}
	b.flightElapsed = 0
	b.setPhase(PhaseFlyingToHold)

	b.log.Debug("flight started",
		zap.Float64("startX", b.flightStart.X), zap.Float64("startY", b.flightStart.Y),
		zap.Float64("endX", b.flightEnd.X), zap.Float64("endY", b.flightEnd.Y))
	b.emitEvent(EventFlightStarted)
}

func (b *ThoughtBubble) fly(dt float64) {
	b.flightElapsed += dt
	if b.flightElapsed > b.cfg.FlightDuration {
		b.position = b.flightEnd
		for i := range b.circles {
			b.circles[i].Center = Vec2{}
		}
		b.holdTimer = 0
		b.setPhase(PhaseHolding)
		b.emitEvent(EventHoldStarted)
		return
	}

	t := easeParam(b.cfg.FlightEase, b.flightElapsed, b.cfg.FlightDuration)
	b.position = quadBezier(b.flightStart, b.flightMid, b.flightEnd, t)
	for i := range b.circles {
		b.circles[i].Center = lerpVec(b.startOffsets[i], Vec2{}, t)
	}
}

func (b *ThoughtBubble) hold(dt float64) Transition {
	b.holdTimer += dt
	b.springConstant = math.Max(0, b.springConstant-b.cfg.SpringDecayRate*dt)

	if b.holdTimer > b.cfg.HoldDuration && !b.explodeRequested {
		b.explodeRequested = true
		b.log.Debug("explode requested", zap.Float64("hold", b.holdTimer))
		b.emitEvent(EventExplodeRequested)
		return TransitionExplode
	}
	return TransitionNone
}

func (b *ThoughtBubble) updateStretch(dt float64) {
	for i, s := range b.stretch {
		s.ApplyForce(Vec2{X: -b.springConstant * s.Position.X})
		s.Update(dt)
		b.circles[i].Radius = math.Max(0, b.circles[i].RestRadius+s.Position.X)
	}
}

// CollideIdea tests an idea at pos moving with vel, both in bubble-local 2D
// space, against the inside of the bubble. An idea within reach of any
// circle's interior is free and the inputs are returned unchanged. Otherwise
// it is pushed back onto the nearest circle's boundary, its velocity is
// reflected if it was heading outward, and that circle is kicked outward by
// the impulse of the bounce.
func (b *ThoughtBubble) CollideIdea(pos, vel Vec2) (Vec2, Vec2, bool) {
	nearest := -1
	best := math.Inf(1)
	for i, c := range b.circles {
		limit := c.Radius - b.cfg.IdeaRadius
		d := pos.Sub(c.Center).Norm()
		if d <= limit {
			return pos, vel, false
		}
		if gap := d - limit; gap < best {
			best = gap
			nearest = i
		}
	}
	if nearest < 0 {
		return pos, vel, false
	}

	c := b.circles[nearest]
	normal := pos.Sub(c.Center).Normalize()
	newVel := vel
	if along := vel.Dot(normal); along >= 0 {
		newVel = vel.Sub(normal.Mul(2 * along))
	}
	newPos := normal.Mul(c.Radius - b.cfg.IdeaRadius).Add(c.Center)

	impulse := newVel.Sub(vel).Mul(b.cfg.IdeaMass).Norm()
	b.stretch[nearest].ApplyImpulse(Vec2{X: impulse})

	return newPos, newVel, true
}

// Shrink permanently reduces every circle's rest radius by the fraction
// scale (clamped to [0, 1]). The stretch springs absorb the difference so
// the rendered radius does not jump; the circles then ease down to the new
// rest size.
func (b *ThoughtBubble) Shrink(scale float64) {
	scale = clamp01(scale)
	for i := range b.circles {
		c := &b.circles[i]
		delta := c.RestRadius * scale
		c.RestRadius -= delta
		b.stretch[i].Position.X += delta
	}
}

// StopDrawing hides the bubble circles. Physics is unaffected.
func (b *ThoughtBubble) StopDrawing() {
	b.visible = false
	b.renderer.SetBubbleVisible(false)
}

// Center returns the bubble's world-space center.
func (b *ThoughtBubble) Center() Vec2 {
	return b.position
}

// Circles returns the bubble circles. The returned slice MUST NOT be mutated.
func (b *ThoughtBubble) Circles() []Circle {
	return b.circles
}

// Phase returns the current motion mode.
func (b *ThoughtBubble) Phase() BubblePhase {
	return b.phase
}

// SpringConstant returns the current stiffness of the circle stretch springs.
func (b *ThoughtBubble) SpringConstant() float64 {
	return b.springConstant
}

// Visible reports whether the bubble circles are still drawn.
func (b *ThoughtBubble) Visible() bool {
	return b.visible
}

func (b *ThoughtBubble) setPhase(p BubblePhase) {
	if b.phase == p {
		return
	}
	b.log.Debug("phase", zap.Stringer("from", b.phase), zap.Stringer("to", p))
	b.phase = p
}

func (b *ThoughtBubble) emitEvent(t EventType) {
	if b.emit != nil {
		b.emit(Event{Type: t, Idea: -1, Position: b.position})
	}
}

// easeParam maps elapsed/duration through fn. A nil fn is linear and keeps
// full float64 precision.
func easeParam(fn ease.TweenFunc, elapsed, duration float64) float64 {
	if fn == nil {
		return elapsed / duration
	}
	return float64(fn(float32(elapsed), 0, 1, float32(duration)))
}
