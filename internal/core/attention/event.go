package attention

import (
	"fmt"
	"strings"
	"time"
)

// EventKind names an attention event.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventStarted    EventKind = "started"
	EventPaused     EventKind = "paused"
	EventWaitingFor EventKind = "waiting_for"
	EventAbandoned  EventKind = "abandoned"
	EventFinished   EventKind = "finished"
)

// ParseEventKind converts a user supplied event name. "waiting" and
// "waiting-for" are accepted for EventWaitingFor.
func ParseEventKind(s string) (EventKind, error) {
	switch k := strings.ToLower(strings.TrimSpace(s)); k {
	case "created", "started", "paused", "abandoned", "finished":
		return EventKind(k), nil
	case "start":
		return EventStarted, nil
	case "pause":
		return EventPaused, nil
	case "abandon":
		return EventAbandoned, nil
	case "finish", "done":
		return EventFinished, nil
	case "waiting_for", "waiting-for", "waiting", "wait":
		return EventWaitingFor, nil
	default:
		return "", fmt.Errorf("unknown attention event %q", s)
	}
}

// Event is a timestamped transition recorded against a Timebox.
type Event struct {
	Kind   EventKind `yaml:"kind" json:"kind"`
	At     time.Time `yaml:"at" json:"at"`
	Reason string    `yaml:"reason,omitempty" json:"reason,omitempty"`
}

func newEvent(kind EventKind, at time.Time) Event {
	return Event{Kind: kind, At: at.UTC()}
}

func Created(at time.Time) Event   { return newEvent(EventCreated, at) }
func Started(at time.Time) Event   { return newEvent(EventStarted, at) }
func Paused(at time.Time) Event    { return newEvent(EventPaused, at) }
func Abandoned(at time.Time) Event { return newEvent(EventAbandoned, at) }
func Finished(at time.Time) Event  { return newEvent(EventFinished, at) }

// WaitingFor records that work is blocked on reason.
func WaitingFor(at time.Time, reason string) Event {
	ev := newEvent(EventWaitingFor, at)
	ev.Reason = reason
	return ev
}

func (e Event) String() string {
	if e.Kind == EventWaitingFor && e.Reason != "" {
		return fmt.Sprintf("%s(%s) @ %s", e.Kind, e.Reason, e.At.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s @ %s", e.Kind, e.At.Format(time.RFC3339))
}

// closesInterval reports whether the event ends an active interval.
func (e Event) closesInterval() bool {
	switch e.Kind {
	case EventPaused, EventWaitingFor, EventFinished, EventAbandoned:
		return true
	}
	return false
}
