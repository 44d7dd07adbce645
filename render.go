package bubble

// Character is the entity the bubble hangs from.
type Character interface {
	// GroundPosition returns the world-space point where the character
	// touches the ground.
	GroundPosition() Vec2
}

// Viewport is the camera view the bubble and swarm read to place flight
// destinations. *Camera implements it.
type Viewport interface {
	ScreenToWorld(p Vec2) Vec2
	VisibleBounds() Rect
}

// IdeaRenderer draws idea particles. Slots are indexed by idea order and are
// never reused. Calls are fire-and-forget.
type IdeaRenderer interface {
	// SetIdeaPosition places slot i at a world-space position with a
	// perspective scale (1 at the bubble plane, larger when nearer).
	SetIdeaPosition(i int, pos Vec2, scale float64)
	SetIdeaVisible(i int, visible bool)
	SetIdeaColor(i int, c Color)
}

// BubbleRenderer draws the bubble circles.
type BubbleRenderer interface {
	SetBubbleVisible(visible bool)
}

// Renderer is the full render collaborator.
type Renderer interface {
	IdeaRenderer
	BubbleRenderer
}

// NopRenderer discards every call. Useful for headless simulation.
type NopRenderer struct{}

func (NopRenderer) SetIdeaPosition(int, Vec2, float64) {}
func (NopRenderer) SetIdeaVisible(int, bool)           {}
func (NopRenderer) SetIdeaColor(int, Color)            {}
func (NopRenderer) SetBubbleVisible(bool)              {}
