package bubble

import (
	"image/color"
	"math/rand/v2"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Vec2 is a 2D vector used for bubble positions, circle offsets, and
// projected idea coordinates. Screen-style axes: Y increases downward.
type Vec2 = r2.Point

// Vec3 is a 3D vector used for idea positions and velocities. Z increases
// toward the viewer.
type Vec3 = r3.Vector

// vector is the set of operations FlightTrack needs from a point type.
// Both Vec2 and Vec3 satisfy it.
type vector[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(float64) T
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default circle tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// GameState is the externally owned game phase the bubble reacts to.
type GameState uint8

const (
	GameStatePlaying      GameState = iota // bubble follows the character
	GameStateBubbleFlight                  // scripted approach and hold before the explosion
	GameStateExploding                     // bubble has burst; ideas are released
	GameStateEnding                        // session wind-down
)

var gameStateNames = [...]string{"playing", "bubble_flight", "exploding", "ending"}

// String returns the lower-case name used in scripts and logs.
func (s GameState) String() string {
	if int(s) < len(gameStateNames) {
		return gameStateNames[s]
	}
	return "unknown"
}

// ParseGameState maps a script name back to a GameState.
func ParseGameState(name string) (GameState, bool) {
	for i, n := range gameStateNames {
		if n == name {
			return GameState(i), true
		}
	}
	return 0, false
}

// Transition is the game-state change a component asks its driver to apply.
type Transition uint8

const (
	TransitionNone    Transition = iota // nothing to apply
	TransitionExplode                   // move the game to GameStateExploding
)

// lerpVec linearly interpolates between two points by t.
func lerpVec[T vector[T]](a, b T, t float64) T {
	return a.Add(b.Sub(a).Mul(t))
}

// quadBezier evaluates the quadratic Bezier start→control→end at t with
// nested lerps.
func quadBezier[T vector[T]](start, control, end T, t float64) T {
	a := lerpVec(start, control, t)
	b := lerpVec(control, end, t)
	return lerpVec(a, b, t)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
