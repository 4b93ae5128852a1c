package outline

import (
	"time"

	"github.com/hay-kot/inn/internal/core/attention"
)

// Starter returns the example content written when a user initialises the
// starter context.
func Starter(name string, budget attention.Timespan, now time.Time) Context {
	c := New(name)
	c.Append(
		Heading("Welcome to Your Starter Timeline"),
		Note("This is an example timeline that shows the kinds of items you can capture in them."),
		NewGoal("A TODO Item", false),
		NewGoal("A done TODO Item", true),
		NewGoal("A TODO Item", false),
	)

	tb := attention.NewTimebox("A Second TODO Item", budget, now)
	tb, _ = attention.Apply(tb, attention.Started(now))
	tb, _ = attention.Apply(tb, attention.Finished(now))
	c.Append(Item{Kind: KindTimebox, Timebox: &tb})

	c.Append(NewSublist(New("nested list")))
	return c
}
