// Package validate provides shared validation functions.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// ErrInvalidName is wrapped by every ContextName failure.
var ErrInvalidName = errors.New("invalid context name")

// maxNameLength keeps filenames derived from context names within common
// filesystem limits once a suffix is added.
const maxNameLength = 200

// ContextName validates a context name. Names become filenames, so they must
// be non-empty, must not contain path separators and must not start with a
// dot.
func ContextName(name string) error {
	if err := contextName(name); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidName, name, err)
	}
	return nil
}

func contextName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name is required")
	case name != strings.TrimSpace(name):
		return fmt.Errorf("name must not start or end with whitespace")
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("name must not start with a dot")
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name must not contain path separators")
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("name must not contain NUL")
	case len(name) > maxNameLength:
		return fmt.Errorf("name is longer than %d bytes", maxNameLength)
	}
	return nil
}

// ContextNameField returns a criterio validator for context names.
func ContextNameField(field, name string) error {
	return criterio.Run(field, name, ContextName)
}
