package disposal

import "github.com/wippyai/disposable/errors"

// EventType identifies a disposal lifecycle event.
type EventType uint8

const (
	EventMade EventType = iota
	EventRetained
	EventReleased
	EventDisposed
	EventViolation
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventMade:
		return "made"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDisposed:
		return "disposed"
	case EventViolation:
		return "violation"
	default:
		return "unknown"
	}
}

// Event describes a state transition or a protocol violation.
type Event struct {
	Kind     errors.Kind // set for EventViolation
	TypeName string
	Addr     uintptr
	Count    uint
	Type     EventType
}

// Observer receives disposal lifecycle events.
type Observer interface {
	OnDisposalEvent(Event)
}
