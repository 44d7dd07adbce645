// Package ecs provides ECS adapters for bubble's event stream.
//
// The primary adapter is [NewDonburiSink], which forwards bubble and swarm
// milestones (flight start, hold, explosion request, idea release and
// arrival) into a [Donburi] world as typed events. Subscribe to
// [BubbleEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
