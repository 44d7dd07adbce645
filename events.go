package bubble

// EventType identifies a bubble or swarm milestone.
type EventType uint8

const (
	EventFlightStarted    EventType = iota // bubble latched its approach path
	EventHoldStarted                       // bubble reached the hold point
	EventExplodeRequested                  // hold timer ran out
	EventTargetsAssigned                   // swarm built its tracks
	EventIdeaReleased                      // an idea left free flight for its track
	EventIdeaArrived                       // an idea finished its track and was hidden
)

var eventTypeNames = [...]string{
	"flight_started",
	"hold_started",
	"explode_requested",
	"targets_assigned",
	"idea_released",
	"idea_arrived",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event carries milestone data to an EventSink.
type Event struct {
	Type EventType
	// Idea is the idea slot for idea events, -1 otherwise.
	Idea int
	// Target is the assigned target id when Targeted is true.
	Target   TargetID
	Targeted bool
	// Position is the bubble center for bubble events and the idea's
	// world-space position for idea events.
	Position Vec2
}

// EventSink receives events from a Stage. Set one with Stage.SetEventSink to
// bridge into an ECS or game event bus.
type EventSink interface {
	EmitEvent(event Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event Event) {
	f(event)
}
