// Package outline defines contexts: named, ordered, recursively nestable
// outlines of headings, notes, entries, goals, timeboxes and sublists.
package outline

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hay-kot/inn/internal/core/attention"
)

// MaxDepth is the deepest nesting level an item may sit at. Top-level items
// are at depth 0.
const MaxDepth = 256

var (
	// ErrInvalidAddress is returned when a path does not resolve to an item.
	ErrInvalidAddress = errors.New("invalid item address")
	// ErrTooDeep is returned when sublists nest beyond MaxDepth.
	ErrTooDeep = errors.New("sublists nested too deeply")
)

// Kind discriminates the variants of Item.
type Kind string

const (
	KindHeading Kind = "heading"
	KindNote    Kind = "note"
	KindEntry   Kind = "entry"
	KindGoal    Kind = "goal"
	KindTimebox Kind = "timebox"
	KindSublist Kind = "sublist"
)

// Goal is a toggleable checkbox without history.
type Goal struct {
	Label string `yaml:"label" json:"label"`
	Done  bool   `yaml:"done" json:"done"`
}

// Item is one entry of a Context. Exactly one payload matches Kind: Text for
// headings, notes and entries, and the pointer field named after the kind for
// the others.
type Item struct {
	Kind    Kind
	Text    string
	Goal    *Goal
	Timebox *attention.Timebox
	Sublist *Context
}

func Heading(text string) Item { return Item{Kind: KindHeading, Text: text} }
func Note(text string) Item    { return Item{Kind: KindNote, Text: text} }
func Entry(text string) Item   { return Item{Kind: KindEntry, Text: text} }

// NewGoal returns a goal item.
func NewGoal(label string, done bool) Item {
	return Item{Kind: KindGoal, Goal: &Goal{Label: label, Done: done}}
}

// NewTimebox returns a timebox item whose history opens at now.
func NewTimebox(label string, budget attention.Timespan, now time.Time) Item {
	tb := attention.NewTimebox(label, budget, now)
	return Item{Kind: KindTimebox, Timebox: &tb}
}

// NewSublist returns an item nesting c.
func NewSublist(c Context) Item {
	if c.Items == nil {
		c.Items = []Item{}
	}
	return Item{Kind: KindSublist, Sublist: &c}
}

// DisplayText returns the canonical display string of the item: the text of
// headings, notes and entries, the label of goals and timeboxes, and the
// name of a sublist.
func (it Item) DisplayText() string {
	switch it.Kind {
	case KindGoal:
		if it.Goal != nil {
			return it.Goal.Label
		}
	case KindTimebox:
		if it.Timebox != nil {
			return it.Timebox.Label
		}
	case KindSublist:
		if it.Sublist != nil {
			return it.Sublist.Name
		}
	default:
		return it.Text
	}
	return ""
}

func (it Item) validate() error {
	switch it.Kind {
	case KindHeading, KindNote, KindEntry:
		return nil
	case KindGoal:
		if it.Goal == nil {
			return errors.New("goal item without goal")
		}
	case KindTimebox:
		if it.Timebox == nil {
			return errors.New("timebox item without timebox")
		}
		return it.Timebox.Validate()
	case KindSublist:
		if it.Sublist == nil {
			return errors.New("sublist item without sublist")
		}
	default:
		return fmt.Errorf("unknown item kind %q", it.Kind)
	}
	return nil
}

// Context is a named outline.
type Context struct {
	Name  string `yaml:"name" json:"name"`
	Items []Item `yaml:"items" json:"items"`
}

// New returns an empty context.
func New(name string) Context {
	return Context{Name: name, Items: []Item{}}
}

// Append adds items to the end of the context, preserving order.
func (c *Context) Append(items ...Item) {
	c.Items = append(c.Items, items...)
}

// AppendAt appends item to the sublist addressed by parent. An empty parent
// appends to c itself. Appends that would nest an item beyond MaxDepth fail
// with ErrTooDeep.
func (c *Context) AppendAt(parent Path, item Item) error {
	deepest := len(parent)
	if item.Kind == KindSublist && item.Sublist != nil {
		deepest += item.Sublist.deepest() + 1
	}
	if deepest > MaxDepth {
		return fmt.Errorf("%w: depth %d exceeds %d", ErrTooDeep, deepest, MaxDepth)
	}

	if len(parent) == 0 {
		c.Append(item)
		return nil
	}

	it, err := c.Resolve(parent)
	if err != nil {
		return err
	}
	if it.Kind != KindSublist || it.Sublist == nil {
		return fmt.Errorf("%w: %s is a %s, not a sublist", ErrInvalidAddress, parent, it.Kind)
	}
	it.Sublist.Append(item)
	return nil
}

// Resolve returns a pointer to the item at path. Mutations through the
// pointer are visible in c.
func (c *Context) Resolve(path Path) (*Item, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidAddress)
	}

	items := c.Items
	for depth, idx := range path {
		if idx < 0 || idx >= len(items) {
			return nil, fmt.Errorf("%w: %s: index %d out of range at depth %d", ErrInvalidAddress, path, idx, depth)
		}
		it := &items[idx]
		if depth == len(path)-1 {
			return it, nil
		}
		if it.Kind != KindSublist || it.Sublist == nil {
			return nil, fmt.Errorf("%w: %s: %s is not a sublist", ErrInvalidAddress, path, path[:depth+1])
		}
		items = it.Sublist.Items
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, path)
}

// Walk visits every item depth-first in pre-order, descending into
// sublists after visiting the sublist item itself. Traversal uses an
// explicit stack so nesting depth is not limited by the goroutine stack.
// Returning false from fn stops the walk.
func (c *Context) Walk(fn func(path Path, it *Item) bool) {
	type frame struct {
		items  []Item
		next   int
		prefix Path
	}

	stack := []frame{{items: c.Items}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.items) {
			stack = stack[:len(stack)-1]
			continue
		}

		i := top.next
		top.next++
		it := &top.items[i]
		path := top.prefix.Child(i)

		if !fn(path, it) {
			return
		}
		if it.Kind == KindSublist && it.Sublist != nil {
			stack = append(stack, frame{items: it.Sublist.Items, prefix: path})
		}
	}
}

// TextEntry is one row of a flattened context.
type TextEntry struct {
	Path Path
	Text string
}

// Flatten returns the display text of every item in Walk order.
func (c *Context) Flatten() []TextEntry {
	var out []TextEntry
	c.Walk(func(path Path, it *Item) bool {
		out = append(out, TextEntry{Path: path, Text: it.DisplayText()})
		return true
	})
	return out
}

// Refresh recomputes the accrued cache of every timebox at now.
func (c *Context) Refresh(now time.Time) {
	c.Walk(func(_ Path, it *Item) bool {
		if it.Kind == KindTimebox && it.Timebox != nil {
			it.Timebox.Refresh(now)
		}
		return true
	})
}

// Validate checks every item's payload against its kind, including
// timebox histories, and that no item nests deeper than MaxDepth.
func (c *Context) Validate() error {
	var err error
	c.Walk(func(path Path, it *Item) bool {
		if path.Depth() > MaxDepth {
			err = fmt.Errorf("item at depth %d: %w (limit %d)", path.Depth(), ErrTooDeep, MaxDepth)
			return false
		}
		if verr := it.validate(); verr != nil {
			err = fmt.Errorf("item %s: %w", path, verr)
			return false
		}
		return true
	})
	return err
}

// deepest returns the greatest depth of any item in c, or -1 when c is empty.
func (c *Context) deepest() int {
	d := -1
	c.Walk(func(path Path, _ *Item) bool {
		d = max(d, path.Depth())
		return true
	})
	return d
}

// Clone returns a deep copy of c.
func (c Context) Clone() Context {
	out := Context{Name: c.Name, Items: slices.Clone(c.Items)}
	if out.Items == nil {
		out.Items = []Item{}
	}

	stack := []*Context{&out}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := range cur.Items {
			it := &cur.Items[i]
			switch {
			case it.Goal != nil:
				g := *it.Goal
				it.Goal = &g
			case it.Timebox != nil:
				tb := *it.Timebox
				tb.History = slices.Clone(tb.History)
				if tb.Done != nil {
					done := *tb.Done
					tb.Done = &done
				}
				it.Timebox = &tb
			case it.Sublist != nil:
				sub := Context{Name: it.Sublist.Name, Items: slices.Clone(it.Sublist.Items)}
				it.Sublist = &sub
				stack = append(stack, &sub)
			}
		}
	}
	return out
}
