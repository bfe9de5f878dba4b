package cpu

// EventKind tells Step what input the host is delivering this cycle.
type EventKind uint8

const (
	NoEvent     EventKind = iota
	KeyPress              // a key is currently held
	KeyResolved           // answers a pending AwaitKey
)

// Event is the optional input passed to Step. The zero value means no input.
type Event struct {
	Kind EventKind
	Key  uint8 // 0x0-0xF
}

// Press reports key k as held during this cycle.
func Press(k uint8) Event {
	return Event{Kind: KeyPress, Key: k & 0xF}
}

// Resolve satisfies a pending key wait with key k.
func Resolve(k uint8) Event {
	return Event{Kind: KeyResolved, Key: k & 0xF}
}

func (ev Event) held() (uint8, bool) {
	if ev.Kind == NoEvent {
		return 0, false
	}
	return ev.Key, true
}

// OutcomeKind tells the host what to do after a Step.
type OutcomeKind uint8

const (
	Continue OutcomeKind = iota
	Redraw               // Frame holds a new picture to present
	AwaitKey             // the machine is blocked until a KeyResolved event
)

// Outcome is returned by Step. Frame is only set for Redraw.
type Outcome struct {
	Kind  OutcomeKind
	Frame Framebuffer
}
