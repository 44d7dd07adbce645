package bubble

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration is returned when a track segment has a non-positive duration.
var ErrInvalidDuration = errors.New("bubble: segment duration must be positive")

// segment is one quadratic Bezier leg of a FlightTrack.
type segment[T vector[T]] struct {
	control     T
	destination T
	duration    float64
}

// FlightTrack plays back a chain of quadratic Bezier segments over time.
// Each segment starts where the previous one ended. The type parameter is
// the point type: Vec2 for the bubble, Vec3 for ideas.
type FlightTrack[T vector[T]] struct {
	start    T
	segments []segment[T]
	index    int
	elapsed  float64
}

// NewFlightTrack creates an empty track starting at start.
func NewFlightTrack[T vector[T]](start T) *FlightTrack[T] {
	return &FlightTrack[T]{start: start}
}

// AddSegment appends a leg that bends toward control and ends at destination
// after duration seconds.
func (ft *FlightTrack[T]) AddSegment(control, destination T, duration float64) error {
	if !(duration > 0) || math.IsInf(duration, 1) {
		return fmt.Errorf("add segment %d (duration %v): %w", len(ft.segments), duration, ErrInvalidDuration)
	}
	ft.segments = append(ft.segments, segment[T]{
		control:     control,
		destination: destination,
		duration:    duration,
	})
	return nil
}

// Step advances the track by dt seconds and returns the new position. When a
// segment's time runs out the destination is returned exactly and leftover
// time is dropped. A finished track keeps returning its final destination.
func (ft *FlightTrack[T]) Step(dt float64) T {
	if ft.Done() {
		return ft.start
	}

	seg := &ft.segments[ft.index]
	ft.elapsed += dt
	if ft.elapsed > seg.duration {
		ft.elapsed = 0
		ft.index++
		ft.start = seg.destination
		return seg.destination
	}

	return quadBezier(ft.start, seg.control, seg.destination, ft.elapsed/seg.duration)
}

// Done reports whether every segment has been consumed.
func (ft *FlightTrack[T]) Done() bool {
	return ft.index == len(ft.segments)
}

// Len returns the number of segments.
func (ft *FlightTrack[T]) Len() int {
	return len(ft.segments)
}

// Destination returns the final destination of the track, or the start
// point if no segments were added.
func (ft *FlightTrack[T]) Destination() T {
	if len(ft.segments) == 0 {
		return ft.start
	}
	return ft.segments[len(ft.segments)-1].destination
}
