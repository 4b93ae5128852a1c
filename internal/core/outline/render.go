package outline

import (
	"strings"
	"time"
)

// IndentUnit is the indentation added per nesting level when rendering.
const IndentUnit = "   "

// Render returns the Markdown-like text form of c with timebox accrual
// evaluated at now.
func Render(c *Context, now time.Time) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(c.Name)
	b.WriteString("\n\n")
	b.WriteString(RenderItems(c, now))
	return b.String()
}

// RenderItems renders the items of c without the title line.
func RenderItems(c *Context, now time.Time) string {
	var b strings.Builder
	c.Walk(func(path Path, it *Item) bool {
		b.WriteString(strings.Repeat(IndentUnit, path.Depth()))
		b.WriteString(renderLine(it, now))
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

func renderLine(it *Item, now time.Time) string {
	switch it.Kind {
	case KindHeading:
		return "## " + it.Text
	case KindNote:
		return "> " + it.Text
	case KindEntry:
		return "- " + it.Text
	case KindGoal:
		if it.Goal.Done {
			return "- [x] ~~" + it.Goal.Label + "~~"
		}
		return "- [ ] " + it.Goal.Label
	case KindTimebox:
		tb := it.Timebox
		line := "- [?] " + tb.Label + " (.." + tb.AccruedAt(now).String() + " <=" + tb.Budget.String() + ")"
		if tb.OverBudget(now) {
			line += " !over"
		}
		return line
	case KindSublist:
		return "- " + it.Sublist.Name
	default:
		return ""
	}
}
