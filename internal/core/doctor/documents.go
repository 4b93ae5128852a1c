package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/outline"
)

// DocumentsCheck decodes every stored context document and reports timeboxes
// that are running over budget.
type DocumentsCheck struct {
	backend contexts.Backend
	now     func() time.Time
}

// NewDocumentsCheck creates a new documents check.
func NewDocumentsCheck(backend contexts.Backend, now func() time.Time) *DocumentsCheck {
	if now == nil {
		now = time.Now
	}
	return &DocumentsCheck{backend: backend, now: now}
}

func (c *DocumentsCheck) Name() string {
	return "Context Documents"
}

func (c *DocumentsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	names, err := c.backend.Names()
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "documents",
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot list: %v", err),
		})
		return result
	}

	if len(names) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "documents",
			Status: StatusPass,
			Detail: "none found",
		})
		return result
	}

	now := c.now()
	for _, name := range names {
		doc, err := c.backend.Read(name)
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  name,
				Status: StatusFail,
				Detail: err.Error(),
			})
			continue
		}

		over := overBudget(&doc, now)
		if len(over) > 0 {
			result.Items = append(result.Items, CheckItem{
				Label:  name,
				Status: StatusWarn,
				Detail: fmt.Sprintf("over budget: %v", over),
			})
			continue
		}

		result.Items = append(result.Items, CheckItem{
			Label:  name,
			Status: StatusPass,
			Detail: fmt.Sprintf("%d items", len(doc.Flatten())),
		})
	}

	return result
}

// overBudget returns the paths of open timeboxes whose accrued time exceeds
// their budget.
func overBudget(c *outline.Context, now time.Time) []string {
	var paths []string
	c.Walk(func(path outline.Path, it *outline.Item) bool {
		if it.Kind == outline.KindTimebox && it.Timebox != nil &&
			!it.Timebox.State().Terminal() && it.Timebox.OverBudget(now) {
			paths = append(paths, path.String())
		}
		return true
	})
	return paths
}
