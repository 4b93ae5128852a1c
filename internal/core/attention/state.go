package attention

// State is the derived lifecycle position of a Timebox.
type State string

const (
	StateCreated   State = "created"
	StateActive    State = "active"
	StatePaused    State = "paused"
	StateWaiting   State = "waiting"
	StateFinished  State = "finished"
	StateAbandoned State = "abandoned"
)

// Terminal reports whether no further event is accepted.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateAbandoned
}

// transition returns the state reached by applying kind in s.
// Created is never accepted here; it only opens a history.
func transition(s State, kind EventKind) (State, bool) {
	if s.Terminal() {
		return s, false
	}

	switch kind {
	case EventStarted:
		if s == StateCreated || s == StatePaused || s == StateWaiting {
			return StateActive, true
		}
	case EventPaused:
		if s == StateActive {
			return StatePaused, true
		}
	case EventWaitingFor:
		if s == StateActive {
			return StateWaiting, true
		}
	case EventAbandoned:
		return StateAbandoned, true
	case EventFinished:
		return StateFinished, true
	}
	return s, false
}
