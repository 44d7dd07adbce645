package bubble

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Positioner is anything with a world-space position a camera can follow.
type Positioner interface {
	Position() Vec2
}

// scrollAnim holds the active ScrollTo tweens, one per axis.
type scrollAnim struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

// Camera is the view into the world: where it looks, how far it is zoomed,
// and which part of the screen it fills. The bubble reads it to place its
// hold point and the swarm reads it to map screen-space targets into bubble
// space.
type Camera struct {
	// Position is the world-space point at the center of the viewport.
	Position Vec2
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// BoundsEnabled clamps Position so the visible area stays within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	follow       Positioner
	followOffset Vec2
	followLerp   float64

	scroll *scrollAnim

	view    [6]float64
	invView [6]float64
	dirty   bool
}

// NewCamera creates a camera looking at the origin through viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1,
		Viewport: viewport,
		dirty:    true,
	}
}

// Follow makes the camera track target plus offset. Each update moves the
// camera lerp of the way there; 1 snaps.
func (c *Camera) Follow(target Positioner, offset Vec2, lerp float64) {
	c.follow = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// ScrollTo animates the camera to a world position over duration seconds.
// While scrolling, the tween wins over Follow.
func (c *Camera) ScrollTo(to Vec2, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		x: gween.New(float32(c.Position.X), float32(to.X), duration, easeFn),
		y: gween.New(float32(c.Position.Y), float32(to.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// MarkDirty forces the view matrix to be rebuilt. Call it after writing
// Position, Zoom, Rotation, or Viewport directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// update advances follow, scroll, and bounds clamping. Called from Stage.Update.
func (c *Camera) update(dt float32) {
	prevPos, prevZoom, prevRot := c.Position, c.Zoom, c.Rotation

	if c.follow != nil {
		target := c.follow.Position().Add(c.followOffset)
		c.Position = lerpVec(c.Position, target, c.followLerp)
	}

	if s := c.scroll; s != nil {
		if !s.doneX {
			v, done := s.x.Update(dt)
			c.Position.X, s.doneX = float64(v), done
		}
		if !s.doneY {
			v, done := s.y.Update(dt)
			c.Position.Y, s.doneY = float64(v), done
		}
		if s.doneX && s.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}

	if c.Position != prevPos || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

// clampToBounds keeps the visible area inside Bounds, centering on an axis
// where Bounds is smaller than the view.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	c.Position.X = clampAxis(c.Position.X, c.Bounds.X+halfW, c.Bounds.X+c.Bounds.Width-halfW, c.Bounds.X+c.Bounds.Width/2)
	c.Position.Y = clampAxis(c.Position.Y, c.Bounds.Y+halfH, c.Bounds.Y+c.Bounds.Height-halfH, c.Bounds.Y+c.Bounds.Height/2)
}

func clampAxis(v, lo, hi, mid float64) float64 {
	if lo > hi {
		return mid
	}
	return clamp(v, lo, hi)
}

// viewMatrix returns the cached world→screen matrix, rebuilding it if dirty.
//
//	view = Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-Position)
func (c *Camera) viewMatrix() [6]float64 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false

	center := c.Viewport.Center()
	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom
	px, py := c.Position.X, c.Position.Y

	c.view = [6]float64{
		z * cos, z * sin,
		-z * sin, z * cos,
		center.X + z*(-cos*px+sin*py),
		center.Y + z*(-sin*px-cos*py),
	}
	c.invView = invertAffine(c.view)
	return c.view
}

// WorldToScreen converts a world-space point to screen space.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	return transformPoint(c.viewMatrix(), p)
}

// ScreenToWorld converts a screen-space point to world space.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	c.viewMatrix()
	return transformPoint(c.invView, p)
}

// VisibleBounds returns the world-space axis-aligned box around everything
// the camera can see.
func (c *Camera) VisibleBounds() Rect {
	c.viewMatrix()
	vp := c.Viewport
	return boundsOf(
		transformPoint(c.invView, Vec2{X: vp.X, Y: vp.Y}),
		transformPoint(c.invView, Vec2{X: vp.X + vp.Width, Y: vp.Y}),
		transformPoint(c.invView, Vec2{X: vp.X + vp.Width, Y: vp.Y + vp.Height}),
		transformPoint(c.invView, Vec2{X: vp.X, Y: vp.Y + vp.Height}),
	)
}
