// Package pattern defines the match specifications used to search contexts:
// keywords, regular expressions and glob patterns, and the queries that scope
// them to context names or context items.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned when a pattern source cannot be compiled.
var ErrInvalidPattern = errors.New("invalid pattern")

// Kind identifies how a pattern source is interpreted.
type Kind string

const (
	KindKeyword Kind = "keyword"
	KindRegex   Kind = "regex"
	KindGlob    Kind = "glob"
)

// ParseKind converts a user supplied kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindKeyword, KindRegex, KindGlob:
		return k, nil
	case "":
		return KindKeyword, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidPattern, s)
	}
}

// Spec is an uncompiled pattern as supplied by a caller.
type Spec struct {
	Kind   Kind
	Source string
}

// Pattern is a compiled match specification. The zero value matches nothing;
// usable values are only produced by Compile and the kind constructors.
type Pattern struct {
	kind   Kind
	source string
	re     *regexp.Regexp
}

// Compile validates spec and returns a usable Pattern. On failure no Pattern
// is constructed and the error wraps ErrInvalidPattern.
func Compile(spec Spec) (Pattern, error) {
	if spec.Source == "" {
		return Pattern{}, fmt.Errorf("%w: empty source", ErrInvalidPattern)
	}

	switch spec.Kind {
	case KindKeyword, "":
		return Pattern{kind: KindKeyword, source: spec.Source}, nil
	case KindRegex:
		re, err := regexp.Compile(spec.Source)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: regex %q: %w", ErrInvalidPattern, spec.Source, err)
		}
		return Pattern{kind: KindRegex, source: spec.Source, re: re}, nil
	case KindGlob:
		if !doublestar.ValidatePattern(spec.Source) {
			return Pattern{}, fmt.Errorf("%w: glob %q", ErrInvalidPattern, spec.Source)
		}
		return Pattern{kind: KindGlob, source: spec.Source}, nil
	default:
		return Pattern{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidPattern, spec.Kind)
	}
}

// Keyword returns a case-sensitive substring pattern.
func Keyword(text string) (Pattern, error) {
	return Compile(Spec{Kind: KindKeyword, Source: text})
}

// Regex compiles a regular expression pattern.
func Regex(source string) (Pattern, error) {
	return Compile(Spec{Kind: KindRegex, Source: source})
}

// Glob compiles a doublestar glob pattern. A glob matches a whole text at
// most once.
func Glob(source string) (Pattern, error) {
	return Compile(Spec{Kind: KindGlob, Source: source})
}

// Kind returns the pattern kind.
func (p Pattern) Kind() Kind { return p.kind }

// Source returns the text the pattern was compiled from.
func (p Pattern) Source() string { return p.source }

// String renders the pattern as kind:source.
func (p Pattern) String() string {
	if p.kind == "" {
		return "<none>"
	}
	return string(p.kind) + ":" + p.source
}

// Count returns the number of non-overlapping matches of p in text.
func (p Pattern) Count(text string) int {
	switch p.kind {
	case KindKeyword:
		return strings.Count(text, p.source)
	case KindRegex:
		return len(p.re.FindAllStringIndex(text, -1))
	case KindGlob:
		ok, err := doublestar.Match(p.source, text)
		if err != nil || !ok {
			return 0
		}
		return 1
	default:
		return 0
	}
}
