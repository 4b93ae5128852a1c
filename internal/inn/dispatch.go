package inn

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/inn/internal/core/attention"
	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/logging"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/core/pattern"
	"github.com/hay-kot/inn/internal/core/query"
)

// Cmd is a command understood by the Dispatcher. The set is closed.
type Cmd interface {
	cmdName() string
}

type (
	// Init creates a new context. The configured starter name yields the
	// welcome outline instead of an empty one.
	Init struct{ Name string }

	// List reports tracked context names in order.
	List struct{}

	// Search evaluates Query, scoped to Context when it is non-empty.
	Search struct {
		Context string
		Query   pattern.Query
	}

	// Switch moves the cursor to a tracked context.
	Switch struct{ Name string }

	// Last moves the cursor to the previous context, clamped at the first.
	Last struct{}

	// Next moves the cursor to the following context, clamped at the last.
	Next struct{}

	// Clear unsets the cursor.
	Clear struct{}

	// Load reads a context from the backing store.
	Load struct{ Name string }

	// Save writes a tracked context back to the backing store.
	Save struct{ Name string }

	// Mark applies Event to the timebox at Path in Context and saves it.
	Mark struct {
		Context string
		Path    outline.Path
		Event   attention.Event
	}

	// Add appends Items to the sublist at Parent (the root when empty) and
	// saves the context.
	Add struct {
		Context string
		Parent  outline.Path
		Items   []outline.Item
	}
)

func (Init) cmdName() string   { return "init" }
func (List) cmdName() string   { return "list" }
func (Search) cmdName() string { return "search" }
func (Switch) cmdName() string { return "switch" }
func (Last) cmdName() string   { return "last" }
func (Next) cmdName() string   { return "next" }
func (Clear) cmdName() string  { return "clear" }
func (Load) cmdName() string   { return "load" }
func (Save) cmdName() string   { return "save" }
func (Mark) cmdName() string   { return "mark" }
func (Add) cmdName() string    { return "add" }

// State is the dispatcher state: the context store and the cursor. An empty
// Cursor means no context is selected.
type State struct {
	Store  *contexts.Store
	Cursor string
}

// HasCursor reports whether a context is selected.
func (s State) HasCursor() bool { return s.Cursor != "" }

// Result is the outcome of a dispatched command. State is always the state
// to continue with; on error it equals the input state.
type Result struct {
	State   State
	Names   []string
	Matches []query.Match
	Context *outline.Context
}

// Dispatcher interprets commands against a State.
type Dispatcher struct {
	now         func() time.Time
	starterName string
	budget      attention.Timespan
	log         zerolog.Logger
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// StarterName is the context name that Init fills with starter content.
	StarterName string
	// Budget is the budget given to timeboxes created by starter content.
	Budget time.Duration
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts DispatcherOptions, log zerolog.Logger) *Dispatcher {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		now:         now,
		starterName: opts.StarterName,
		budget:      attention.NewTimespan(opts.Budget),
		log:         log,
	}
}

// Dispatch runs cmd against st. Commands run to completion one at a time;
// callers must not dispatch concurrently against the same store.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Cmd, st State) (Result, error) {
	ctx = logging.WithCommand(ctx, cmd.cmdName())
	d.log.Debug().Ctx(ctx).Str("cursor", st.Cursor).Msg("dispatch")

	res, err := d.dispatch(ctx, cmd, st)
	if err != nil {
		d.log.Debug().Ctx(ctx).Err(err).Msg("dispatch failed")
		return Result{State: st}, err
	}
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd Cmd, st State) (Result, error) {
	res := Result{State: st}

	switch cmd := cmd.(type) {
	case Init:
		c, err := d.init(cmd.Name, st.Store)
		if err != nil {
			return res, err
		}
		res.Context = c

	case List:
		res.Names = slices.Collect(st.Store.List())

	case Search:
		matches, err := query.Search(st.Store, cmd.Query, cmd.Context)
		if err != nil {
			return res, err
		}
		res.Matches = matches

	case Switch:
		if !st.Store.Contains(cmd.Name) {
			return res, fmt.Errorf("switch %q: %w", cmd.Name, contexts.ErrNotFound)
		}
		res.State.Cursor = cmd.Name

	case Last, Next:
		cursor, err := d.step(st, cmd)
		if err != nil {
			return res, err
		}
		res.State.Cursor = cursor

	case Clear:
		res.State.Cursor = ""

	case Load:
		c, err := st.Store.Load(cmd.Name)
		if err != nil {
			return res, err
		}
		res.Context = c

	case Save:
		if err := st.Store.SaveTracked(cmd.Name); err != nil {
			return res, err
		}
		res.Context, _ = st.Store.Get(cmd.Name)

	case Mark:
		ctx = logging.WithContextName(ctx, cmd.Context)
		c, err := d.mark(cmd, st.Store)
		if err != nil {
			return res, err
		}
		d.log.Debug().Ctx(ctx).Str("path", cmd.Path.String()).Str("event", string(cmd.Event.Kind)).Msg("timebox marked")
		res.Context = c

	case Add:
		ctx = logging.WithContextName(ctx, cmd.Context)
		c, err := d.add(cmd, st.Store)
		if err != nil {
			return res, err
		}
		d.log.Debug().Ctx(ctx).Int("items", len(cmd.Items)).Msg("items added")
		res.Context = c

	default:
		return res, fmt.Errorf("unknown command %T", cmd)
	}

	return res, nil
}

func (d *Dispatcher) init(name string, store *contexts.Store) (*outline.Context, error) {
	if d.starterName != "" && name == d.starterName {
		return store.CreateWith(name, outline.Starter(name, d.budget, d.now()))
	}
	return store.Create(name)
}

// step moves the cursor one position in name order. Without a cursor, Next
// selects the first context and Last the final one.
func (d *Dispatcher) step(st State, cmd Cmd) (string, error) {
	if !st.HasCursor() {
		names := st.Store.Names()
		if len(names) == 0 {
			return "", nil
		}
		if _, ok := cmd.(Next); ok {
			return names[0], nil
		}
		return names[len(names)-1], nil
	}

	prev, next, err := st.Store.Neighbors(st.Cursor)
	if err != nil {
		return st.Cursor, err
	}
	if _, ok := cmd.(Next); ok {
		return next, nil
	}
	return prev, nil
}

// tracked returns the context tracked under name, loading it if needed.
func tracked(store *contexts.Store, name string) (*outline.Context, error) {
	if c, ok := store.Get(name); ok {
		return c, nil
	}
	return store.Load(name)
}

// mark applies the event to a copy of the context and only replaces the
// tracked context once the copy has been saved.
func (d *Dispatcher) mark(cmd Mark, store *contexts.Store) (*outline.Context, error) {
	c, err := tracked(store, cmd.Context)
	if err != nil {
		return nil, err
	}

	next := c.Clone()
	it, err := next.Resolve(cmd.Path)
	if err != nil {
		return nil, err
	}
	if it.Kind != outline.KindTimebox || it.Timebox == nil {
		return nil, fmt.Errorf("%w: %s is a %s, not a timebox", outline.ErrInvalidAddress, cmd.Path, it.Kind)
	}

	tb, err := attention.Apply(*it.Timebox, cmd.Event)
	if err != nil {
		return nil, fmt.Errorf("mark %s %s: %w", cmd.Context, cmd.Path, err)
	}
	*it.Timebox = tb

	if err := store.Save(cmd.Context, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (d *Dispatcher) add(cmd Add, store *contexts.Store) (*outline.Context, error) {
	c, err := tracked(store, cmd.Context)
	if err != nil {
		return nil, err
	}

	next := c.Clone()
	for _, item := range cmd.Items {
		if err := next.AppendAt(cmd.Parent, item); err != nil {
			return nil, err
		}
	}

	if err := store.Save(cmd.Context, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
