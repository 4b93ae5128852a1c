package outline

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Path locates an item through nested sublists as zero-based indices.
type Path []int

// ParsePath parses a dotted path such as "6.0". The empty string is the root.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}

	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q is not a dotted index path", ErrInvalidAddress, s)
		}
		p = append(p, n)
	}
	return p, nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Depth is the nesting level of the addressed item; top-level items are 0.
func (p Path) Depth() int { return len(p) - 1 }

// Compare orders paths lexicographically; a prefix sorts first.
func (p Path) Compare(other Path) int {
	return slices.Compare(p, other)
}

// Child returns a new path extending p with i.
func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}
