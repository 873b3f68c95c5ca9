package session

// EventKind identifies a session event.
type EventKind int

const (
	// EventCorrect is emitted for a matching keystroke.
	EventCorrect EventKind = iota
	// EventIncorrect is emitted for a miss.
	EventIncorrect
	// EventSessionEnd is emitted once, when the result is produced.
	EventSessionEnd
)

func (k EventKind) String() string {
	switch k {
	case EventCorrect:
		return "correct"
	case EventIncorrect:
		return "incorrect"
	case EventSessionEnd:
		return "session_end"
	default:
		return "unknown"
	}
}

// Event is a discrete notification for side channels such as audio.
type Event struct {
	Kind      EventKind
	Frequency float64
}

// Listener receives session events. Notify is called from the session loop
// and must return without blocking.
type Listener interface {
	Notify(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Notify implements Listener.
func (f ListenerFunc) Notify(e Event) {
	f(e)
}

type noopListener struct{}

func (noopListener) Notify(Event) {}
