package bubble

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanema/gween/ease"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("bubble: invalid config")

// CircleConfig places one bubble circle relative to the bubble center.
type CircleConfig struct {
	X      float64 `json:"x" mapstructure:"x"`
	Y      float64 `json:"y" mapstructure:"y"`
	Radius float64 `json:"radius" mapstructure:"radius"`
	Color  Color   `json:"color" mapstructure:"color"`
}

// BubbleConfig holds the art and tuning constants of a ThoughtBubble.
type BubbleConfig struct {
	// Circles is the silhouette of the bubble as a union of circles.
	Circles []CircleConfig `json:"circles" mapstructure:"circles"`

	// AnchorOffset is added to the character's ground position to get the
	// point the bubble hangs from.
	AnchorOffset    Vec2    `json:"anchorOffset" mapstructure:"anchorOffset"`
	AnchorMass      float64 `json:"anchorMass" mapstructure:"anchorMass"`
	AnchorDamping   float64 `json:"anchorDamping" mapstructure:"anchorDamping"`
	AnchorStiffness float64 `json:"anchorStiffness" mapstructure:"anchorStiffness"`
	// Leeway is how far, horizontally, the spring anchor may sit from the
	// bubble's current position.
	Leeway float64 `json:"leeway" mapstructure:"leeway"`
	// CeilingY is the smallest Y the bubble may reach while following.
	CeilingY float64 `json:"ceilingY" mapstructure:"ceilingY"`

	// SpringConstant is the initial stiffness of every circle stretch spring.
	SpringConstant float64 `json:"springConstant" mapstructure:"springConstant"`
	StretchMass    float64 `json:"stretchMass" mapstructure:"stretchMass"`
	StretchDamping float64 `json:"stretchDamping" mapstructure:"stretchDamping"`

	// FlightDuration is the length in seconds of the scripted approach.
	FlightDuration float64 `json:"flightDuration" mapstructure:"flightDuration"`
	// FlightEndHeight is the distance below the top of the camera's visible
	// bounds where the approach ends.
	FlightEndHeight float64 `json:"flightEndHeight" mapstructure:"flightEndHeight"`
	// FlightMidpoint places the approach's control point between start and end.
	FlightMidpoint float64 `json:"flightMidpoint" mapstructure:"flightMidpoint"`
	// FlightEase shapes the approach parameter. Nil means ease.Linear.
	FlightEase ease.TweenFunc `json:"-" mapstructure:"-"`

	// HoldDuration is how long the bubble holds before asking to explode.
	HoldDuration float64 `json:"holdDuration" mapstructure:"holdDuration"`
	// SpringDecayRate is subtracted from the spring constant per held second.
	SpringDecayRate float64 `json:"springDecayRate" mapstructure:"springDecayRate"`

	// IdeaRadius and IdeaMass describe the particles colliding with the bubble.
	IdeaRadius float64 `json:"ideaRadius" mapstructure:"ideaRadius"`
	IdeaMass   float64 `json:"ideaMass" mapstructure:"ideaMass"`
}

// SwarmConfig holds the tuning constants of an IdeaSwarm.
type SwarmConfig struct {
	// SpawnPoint is where new ideas appear, in bubble-local 3D space.
	SpawnPoint Vec3 `json:"spawnPoint" mapstructure:"spawnPoint"`
	// Speed is the lateral speed of a new idea.
	Speed float64 `json:"speed" mapstructure:"speed"`
	// DepthDrift is the constant Z velocity of a new idea.
	DepthDrift float64 `json:"depthDrift" mapstructure:"depthDrift"`
	// NearZ and FarZ bound free-flying ideas in depth.
	NearZ float64 `json:"nearZ" mapstructure:"nearZ"`
	FarZ  float64 `json:"farZ" mapstructure:"farZ"`
	// Focal is the eye distance of the perspective projection. It must be
	// greater than NearZ and every track depth.
	Focal float64 `json:"focal" mapstructure:"focal"`

	// RetreatControl and Retreat define the first leg shared by every track.
	RetreatControl  Vec3    `json:"retreatControl" mapstructure:"retreatControl"`
	Retreat         Vec3    `json:"retreat" mapstructure:"retreat"`
	RetreatDuration float64 `json:"retreatDuration" mapstructure:"retreatDuration"`
	// ArcLift raises the control point of the second leg above the straight line.
	ArcLift float64 `json:"arcLift" mapstructure:"arcLift"`
	// LaunchDuration is the length of the second leg.
	LaunchDuration float64 `json:"launchDuration" mapstructure:"launchDuration"`

	// ReleaseGap is the delay between the first two targeted releases.
	// Each following gap is multiplied by ReleaseGapDecay.
	ReleaseGap      float64 `json:"releaseGap" mapstructure:"releaseGap"`
	ReleaseGapDecay float64 `json:"releaseGapDecay" mapstructure:"releaseGapDecay"`

	// Palette lists the colors new ideas are drawn from.
	Palette []Color `json:"palette" mapstructure:"palette"`
}

// Config bundles the bubble and swarm settings.
type Config struct {
	Bubble BubbleConfig `json:"bubble" mapstructure:"bubble"`
	Swarm  SwarmConfig  `json:"swarm" mapstructure:"swarm"`
}

// DefaultConfig returns the stock bubble layout and tuning.
func DefaultConfig() Config {
	cloud := Color{R: 0.96, G: 0.97, B: 1, A: 0.92}
	return Config{
		Bubble: BubbleConfig{
			Circles: []CircleConfig{
				{X: 0, Y: 0, Radius: 62, Color: cloud},
				{X: -58, Y: 12, Radius: 44, Color: cloud},
				{X: 58, Y: 10, Radius: 46, Color: cloud},
				{X: -30, Y: -42, Radius: 46, Color: cloud},
				{X: 34, Y: -40, Radius: 42, Color: cloud},
				{X: 4, Y: 46, Radius: 40, Color: cloud},
			},
			AnchorOffset:    Vec2{X: 0, Y: -230},
			AnchorMass:      1,
			AnchorDamping:   10,
			AnchorStiffness: 60,
			Leeway:          40,
			CeilingY:        90,
			SpringConstant:  220,
			StretchMass:     1,
			StretchDamping:  6,
			FlightDuration:  2,
			FlightEndHeight: 220,
			FlightMidpoint:  0.8,
			HoldDuration:    3,
			SpringDecayRate: 45,
			IdeaRadius:      7,
			IdeaMass:        0.2,
		},
		Swarm: SwarmConfig{
			SpawnPoint:      Vec3{X: 0, Y: 0, Z: -80},
			Speed:           120,
			DepthDrift:      30,
			NearZ:           60,
			FarZ:            -100,
			Focal:           400,
			RetreatControl:  Vec3{X: 0, Y: 0, Z: 100},
			Retreat:         Vec3{X: 0, Y: -30, Z: 150},
			RetreatDuration: 0.6,
			ArcLift:         120,
			LaunchDuration:  1.2,
			ReleaseGap:      1,
			ReleaseGapDecay: 0.85,
			Palette: []Color{
				{R: 1, G: 0.42, B: 0.36, A: 1},
				{R: 1, G: 0.78, B: 0.25, A: 1},
				{R: 0.36, G: 0.82, B: 0.48, A: 1},
				{R: 0.33, G: 0.62, B: 1, A: 1},
				{R: 0.74, G: 0.46, B: 1, A: 1},
			},
		},
	}
}

// LoadConfig parses JSON over DefaultConfig and validates the result. Fields
// absent from the JSON keep their default values.
func LoadConfig(jsonData []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that would make the simulation
// ill-defined.
func (c Config) Validate() error {
	b := c.Bubble
	if len(b.Circles) == 0 {
		return fmt.Errorf("%w: bubble needs at least one circle", ErrInvalidConfig)
	}
	for i, cc := range b.Circles {
		if cc.Radius < 0 {
			return fmt.Errorf("%w: circle %d has negative radius %v", ErrInvalidConfig, i, cc.Radius)
		}
	}
	if b.AnchorMass <= 0 || b.StretchMass <= 0 {
		return fmt.Errorf("%w: masses must be positive", ErrInvalidConfig)
	}
	if b.AnchorDamping < 0 || b.StretchDamping < 0 {
		return fmt.Errorf("%w: damping must not be negative", ErrInvalidConfig)
	}
	if b.FlightDuration <= 0 {
		return fmt.Errorf("%w: flightDuration must be positive", ErrInvalidConfig)
	}
	if b.IdeaRadius < 0 || b.IdeaMass < 0 {
		return fmt.Errorf("%w: idea radius and mass must not be negative", ErrInvalidConfig)
	}

	s := c.Swarm
	if s.FarZ >= s.NearZ {
		return fmt.Errorf("%w: farZ %v must be below nearZ %v", ErrInvalidConfig, s.FarZ, s.NearZ)
	}
	if s.Focal <= s.NearZ || s.Focal <= s.Retreat.Z || s.Focal <= s.RetreatControl.Z {
		return fmt.Errorf("%w: focal %v must lie beyond every idea depth", ErrInvalidConfig, s.Focal)
	}
	if s.RetreatDuration <= 0 || s.LaunchDuration <= 0 {
		return fmt.Errorf("%w: track durations must be positive", ErrInvalidConfig)
	}
	if s.ReleaseGap < 0 || s.ReleaseGapDecay <= 0 || s.ReleaseGapDecay > 1 {
		return fmt.Errorf("%w: release gap %v decay %v", ErrInvalidConfig, s.ReleaseGap, s.ReleaseGapDecay)
	}
	return nil
}
