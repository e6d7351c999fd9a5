package sim

import "time"

// EventKind categorises gameplay notifications fired by the core.
type EventKind uint8

const (
	EventNodePlaced EventKind = iota
	EventNodeIsolated
	EventNodeReconnected
	EventNodeDestroyed
	EventNodeSabotaged
	EventMatchEnded
)

func (k EventKind) String() string {
	switch k {
	case EventNodePlaced:
		return "node_placed"
	case EventNodeIsolated:
		return "node_isolated"
	case EventNodeReconnected:
		return "node_reconnected"
	case EventNodeDestroyed:
		return "node_destroyed"
	case EventNodeSabotaged:
		return "node_sabotaged"
	case EventMatchEnded:
		return "match_ended"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget notification for the audio/UI layers. The core
// publishes regardless of whether anyone is listening.
type Event struct {
	Kind   EventKind
	Owner  Owner
	NodeID string
	X, Y   float64
	At     time.Time
	Detail string
}

// maxRetainedEvents bounds the ring of recent events kept for late readers.
const maxRetainedEvents = 256

// EventLog fans events out to subscribers synchronously and retains a bounded
// ring of recent events. Single-threaded like the rest of the core: callbacks
// run inline on the simulation tick and must be cheap.
type EventLog struct {
	recent []Event
	subs   []func(Event)
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Subscribe registers a callback invoked for every future event.
func (l *EventLog) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	l.subs = append(l.subs, fn)
}

// Publish records the event and notifies subscribers.
func (l *EventLog) Publish(e Event) {
	l.recent = append(l.recent, e)
	if len(l.recent) > maxRetainedEvents {
		l.recent = l.recent[len(l.recent)-maxRetainedEvents:]
	}
	for _, fn := range l.subs {
		fn(e)
	}
}

// Recent returns up to n most recent events, oldest first.
func (l *EventLog) Recent(n int) []Event {
	if n <= 0 || n > len(l.recent) {
		n = len(l.recent)
	}
	out := make([]Event, n)
	copy(out, l.recent[len(l.recent)-n:])
	return out
}
