// Package query evaluates pattern queries against tracked contexts.
package query

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/core/pattern"
)

// Source is the read side of a context store.
type Source interface {
	List() iter.Seq[string]
	Get(name string) (*outline.Context, bool)
}

// Match is one search hit. Path is empty for name matches.
type Match struct {
	Context string       `json:"context"`
	Path    outline.Path `json:"path"`
	Text    string       `json:"text"`
	Count   int          `json:"count"`
}

// Search evaluates q against src. When scope is non-empty only that context
// is considered and it must be tracked. Matches with a zero count are
// dropped. Results are ordered by descending count, then ascending context
// name, then ascending path.
func Search(src Source, q pattern.Query, scope string) ([]Match, error) {
	names, err := scoped(src, scope)
	if err != nil {
		return nil, err
	}

	var matches []Match
	switch q.Target {
	case pattern.TargetNames:
		for _, name := range names {
			if n := q.Pattern.Count(name); n > 0 {
				matches = append(matches, Match{Context: name, Path: outline.Path{}, Text: name, Count: n})
			}
		}
	case pattern.TargetItems:
		for _, name := range names {
			c, ok := src.Get(name)
			if !ok {
				continue
			}
			for _, entry := range c.Flatten() {
				if n := q.Pattern.Count(entry.Text); n > 0 {
					matches = append(matches, Match{Context: name, Path: entry.Path, Text: entry.Text, Count: n})
				}
			}
		}
	default:
		return nil, fmt.Errorf("unknown query target %q", q.Target)
	}

	slices.SortStableFunc(matches, compare)
	return matches, nil
}

func compare(a, b Match) int {
	if a.Count != b.Count {
		return b.Count - a.Count
	}
	if c := strings.Compare(a.Context, b.Context); c != 0 {
		return c
	}
	return a.Path.Compare(b.Path)
}

func scoped(src Source, scope string) ([]string, error) {
	if scope != "" {
		if _, ok := src.Get(scope); !ok {
			return nil, fmt.Errorf("search %q: %w", scope, contexts.ErrNotFound)
		}
		return []string{scope}, nil
	}
	return slices.Collect(src.List()), nil
}
