package doctor

import (
	"context"
	"fmt"
	"slices"
)

// CursorCheck reports a persisted cursor that names a context with no
// document. With autofix the cursor is cleared.
type CursorCheck struct {
	cursor  string
	names   []string
	reset   func() error
	autofix bool
}

// NewCursorCheck creates a new cursor check. reset unsets the persisted cursor.
func NewCursorCheck(cursor string, names []string, reset func() error, autofix bool) *CursorCheck {
	return &CursorCheck{cursor: cursor, names: names, reset: reset, autofix: autofix}
}

func (c *CursorCheck) Name() string {
	return "Cursor"
}

func (c *CursorCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch {
	case c.cursor == "":
		result.Items = append(result.Items, CheckItem{
			Label:  "cursor",
			Status: StatusPass,
			Detail: "not set",
		})
	case slices.Contains(c.names, c.cursor):
		result.Items = append(result.Items, CheckItem{
			Label:  c.cursor,
			Status: StatusPass,
		})
	case c.autofix:
		if err := c.reset(); err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  c.cursor,
				Status: StatusFail,
				Detail: fmt.Sprintf("failed to clear: %v", err),
			})
			break
		}
		result.Items = append(result.Items, CheckItem{
			Label:  c.cursor,
			Status: StatusPass,
			Detail: "cleared dangling cursor",
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:   c.cursor,
			Status:  StatusWarn,
			Detail:  "cursor names a context with no document",
			Fixable: true,
		})
	}

	return result
}
