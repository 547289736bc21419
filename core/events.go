package core

// EventKind identifies what an input Event carries.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouseButton
	EventMouseMove
	EventScroll
	EventResize
)

// Action mirrors glfw.Action for keys and mouse buttons.
type Action int

const (
	ActionRelease Action = iota
	ActionPress
	ActionRepeat
)

// Modifier bits, matching glfw.ModifierKey.
const (
	ModShift   = 0x0001
	ModControl = 0x0002
	ModAlt     = 0x0004
)

// Event is one discrete input occurrence. The window queues events in the
// order glfw delivers them during PollEvents; consumers drain the queue once
// per frame.
type Event struct {
	Kind   EventKind
	Action Action
	Key    int
	Button int
	Mods   int

	// Cursor position for mouse events, or new size for EventResize.
	X, Y float64
	// Cursor delta for EventMouseMove, wheel offset for EventScroll.
	DX, DY float64
}

func (e Event) Shift() bool   { return e.Mods&ModShift != 0 }
func (e Event) Control() bool { return e.Mods&ModControl != 0 }
func (e Event) Alt() bool     { return e.Mods&ModAlt != 0 }

// EventQueue is an append-only buffer that is emptied by Drain.
type EventQueue struct {
	events []Event
}

func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns the queued events in delivery order and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

func (q *EventQueue) Len() int {
	return len(q.events)
}
