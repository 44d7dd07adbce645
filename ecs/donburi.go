package ecs

import (
	"github.com/phanxgames/bubble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BubbleEventType is the Donburi event type for bubble events.
// Subscribe to this in your ECS systems to react to explosions and arrivals.
var BubbleEventType = events.NewEventType[bubble.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are queued on BubbleEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) bubble.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event bubble.Event) {
	BubbleEventType.Publish(s.world, event)
}
