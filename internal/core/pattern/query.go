package pattern

import "fmt"

// Target selects what a Query is evaluated against.
type Target string

const (
	// TargetNames matches against context names.
	TargetNames Target = "names"
	// TargetItems matches against the flattened text of context items.
	TargetItems Target = "items"
)

// Query is a Pattern scoped to a Target.
type Query struct {
	Target  Target
	Pattern Pattern
}

// ContextNames returns a query over context names.
func ContextNames(p Pattern) Query {
	return Query{Target: TargetNames, Pattern: p}
}

// ContextItems returns a query over context item text.
func ContextItems(p Pattern) Query {
	return Query{Target: TargetItems, Pattern: p}
}

func (q Query) String() string {
	return fmt.Sprintf("%s(%s)", q.Target, q.Pattern)
}
