// Package attention tracks time spent on time-boxed goals. A Timebox keeps an
// append-only history of attention events; its state and accrued time are
// derived from that history.
package attention

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrInvalidTransition is returned when an event is not accepted in the
	// timebox's current state.
	ErrInvalidTransition = errors.New("invalid attention transition")
	// ErrInvalidHistory is returned when a recorded history cannot have been
	// produced by the state machine.
	ErrInvalidHistory = errors.New("invalid attention history")
)

// TransitionError describes a rejected event.
type TransitionError struct {
	From   State
	Event  EventKind
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("cannot apply %q to timebox in state %q", e.Event, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Timebox is a goal with tracked attention.
//
// Accrued is a cache of AccruedAt. It is exact for every state except Active,
// where the open interval keeps growing; call Refresh to bring it up to date.
type Timebox struct {
	Label   string     `yaml:"label" json:"label"`
	Done    *time.Time `yaml:"done" json:"done,omitempty"`
	History []Event    `yaml:"history" json:"history"`
	Accrued Timespan   `yaml:"accrued" json:"accrued"`
	Budget  Timespan   `yaml:"budget" json:"budget"`
}

// NewTimebox returns a timebox whose history opens with Created at now.
func NewTimebox(label string, budget Timespan, now time.Time) Timebox {
	return Timebox{
		Label:   label,
		History: []Event{Created(now)},
		Budget:  budget,
	}
}

// State replays the history and returns the current state. Histories that
// fail validation report the state reached before the first bad event.
func (tb Timebox) State() State {
	s, _ := replay(tb.History)
	return s
}

// Apply returns a copy of tb with ev appended. tb itself is never modified.
// Rejected events return a *TransitionError.
func Apply(tb Timebox, ev Event) (Timebox, error) {
	from := tb.State()
	reject := func(reason string) (Timebox, error) {
		return tb, &TransitionError{From: from, Event: ev.Kind, Reason: reason}
	}

	if from.Terminal() {
		return reject("timebox is closed")
	}
	if ev.Kind == EventCreated {
		return reject("created only opens a history")
	}
	if n := len(tb.History); n > 0 && ev.At.Before(tb.History[n-1].At) {
		return reject("event precedes the last recorded event")
	}
	if _, ok := transition(from, ev.Kind); !ok {
		return reject("")
	}

	ev.At = ev.At.UTC()

	out := tb
	out.History = append(slices.Clone(tb.History), ev)
	if ev.Kind == EventFinished {
		at := ev.At
		out.Done = &at
	}
	out.Accrued = max(tb.Accrued, AccruedAt(out.History, ev.At))
	return out, nil
}

// AccruedAt returns the accrued time of tb evaluated at now.
func (tb Timebox) AccruedAt(now time.Time) Timespan {
	return AccruedAt(tb.History, now)
}

// Refresh recomputes the cached Accrued field at now.
func (tb *Timebox) Refresh(now time.Time) {
	tb.Accrued = tb.AccruedAt(now)
}

// OverBudget reports whether accrued time at now exceeds a non-zero budget.
func (tb Timebox) OverBudget(now time.Time) bool {
	return tb.Budget > 0 && tb.AccruedAt(now) > tb.Budget
}

// Validate checks that the history could have been produced by Apply and
// that Done agrees with it.
func (tb Timebox) Validate() error {
	s, err := replay(tb.History)
	if err != nil {
		return err
	}

	switch {
	case s == StateFinished && tb.Done == nil:
		return fmt.Errorf("%w: finished without done timestamp", ErrInvalidHistory)
	case s == StateFinished && !tb.Done.Equal(tb.History[len(tb.History)-1].At):
		return fmt.Errorf("%w: done timestamp differs from finished event", ErrInvalidHistory)
	case s != StateFinished && tb.Done != nil:
		return fmt.Errorf("%w: done timestamp set in state %q", ErrInvalidHistory, s)
	}
	return nil
}

// AccruedAt sums the wall-clock time between each Started event and the
// event closing it. A trailing open interval counts up to now.
func AccruedAt(history []Event, now time.Time) Timespan {
	var (
		total   time.Duration
		start   time.Time
		running bool
	)

	for _, ev := range history {
		switch {
		case ev.Kind == EventStarted && !running:
			start, running = ev.At, true
		case running && ev.closesInterval():
			if d := ev.At.Sub(start); d > 0 {
				total += d
			}
			running = false
		}
	}

	if running {
		if d := now.Sub(start); d > 0 {
			total += d
		}
	}

	return NewTimespan(total)
}

func replay(history []Event) (State, error) {
	if len(history) == 0 {
		return StateCreated, fmt.Errorf("%w: empty history", ErrInvalidHistory)
	}
	if history[0].Kind != EventCreated {
		return StateCreated, fmt.Errorf("%w: history must open with %q", ErrInvalidHistory, EventCreated)
	}

	s := StateCreated
	for i, ev := range history[1:] {
		if ev.At.Before(history[i].At) {
			return s, fmt.Errorf("%w: event %d is out of order", ErrInvalidHistory, i+1)
		}
		next, ok := transition(s, ev.Kind)
		if !ok {
			return s, fmt.Errorf("%w: event %d (%s) not allowed in state %q", ErrInvalidHistory, i+1, ev.Kind, s)
		}
		s = next
	}
	return s, nil
}
