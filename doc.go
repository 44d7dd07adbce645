// Package bubble simulates a soft thought bubble that hangs above a player
// character and the swarm of ideas bouncing around inside it.
//
// The bubble is a union of circles. Each circle has its own stretch spring,
// so ideas that hit the inside of the bubble make it bulge for a moment.
// The bubble itself hangs from the character on a damped spring, and at the
// end of a round flies along a curve to a hold point, softens, and asks to
// explode. The ideas are then released one by one and fly along quadratic
// Bezier tracks to on-screen targets.
//
// # Quick start
//
// A [Stage] wires everything together and runs the per-frame update in the
// required order (camera, bubble, swarm):
//
//	cam := bubble.NewCamera(bubble.Rect{Width: 1280, Height: 720})
//	stage, err := bubble.NewStage(bubble.DefaultConfig(), hero, cam, renderer, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	stage.AddIdeas(8)
//
//	// each frame
//	stage.Update(1.0 / 60)
//
//	// when the round ends
//	stage.SetState(bubble.GameStateBubbleFlight)
//
//	// once the bubble has exploded
//	stage.SetTargets(targets)
//
// The lower-level pieces ([DampedPointMass], [FlightTrack], [ThoughtBubble],
// [IdeaSwarm], [Camera]) can be used on their own.
//
// # Coordinates
//
// World and screen space use Y-down axes. Bubble circles and ideas live in
// bubble-local space centered on [ThoughtBubble.Center]. Ideas are 3D; the
// bubble plane is z = 0 and positive Z points at the viewer. A pinhole
// projection maps ideas onto the bubble plane for collision and drawing.
//
// # Rendering
//
// The package draws nothing. Supply a [Renderer] to receive idea positions,
// colors, visibility, and bubble visibility; demos/thoughtbubble has an
// Ebitengine implementation.
//
// # Events
//
// Milestones (flight start, hold, explosion request, idea release and
// arrival) are sent to an optional [EventSink]. The ecs subpackage forwards
// them into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package bubble
