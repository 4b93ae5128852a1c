package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/hay-kot/inn/internal/core/styles"
	"github.com/hay-kot/inn/internal/core/validate"
)

// RenderStyles lists the glamour styles accepted by render.style.
var RenderStyles = []string{"ascii", "auto", "dark", "dracula", "light", "notty", "pink", "tokyo-night"}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if err := nonNegative(c.Timebox.DefaultBudget); err != nil {
		errs = errs.Append("timebox.default_budget", err)
	}
	if err := positive(c.Render.Width); err != nil {
		errs = errs.Append("render.width", err)
	}

	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		criterio.Run("extension", c.Extension, validExtension),
		validate.ContextNameField("starter_name", c.StarterName),
		criterio.Run("render.style", c.Render.Style, knownStyle),
		criterio.Run("render.theme", c.Render.Theme, knownTheme),
		errs.ToError(),
	)
}

// ValidateDeep performs Validate and then checks the file system: the config
// file must be a regular file and the data and documents directories must be
// directories or not exist yet. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("documents_dir", c.DocumentsPath(), isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Timebox.DefaultBudget == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Timebox",
			Item:     "timebox.default_budget",
			Message:  "new timeboxes have no budget and are never over budget",
		})
	}

	if c.Render.Width > 0 && c.Render.Width < 40 {
		warnings = append(warnings, ValidationWarning{
			Category: "Render",
			Item:     "render.width",
			Message:  fmt.Sprintf("width %d will wrap most outlines", c.Render.Width),
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func validExtension(ext string) error {
	switch {
	case ext == "":
		return errors.New("cannot be empty")
	case !strings.HasPrefix(ext, "."):
		return fmt.Errorf("%q must begin with a dot", ext)
	case ext == ".":
		return errors.New("must contain more than a dot")
	case strings.ContainsAny(ext, `/\`):
		return fmt.Errorf("%q must not contain a path separator", ext)
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must not be negative", d)
	}
	return nil
}

func positive(n int) error {
	if n <= 0 {
		return fmt.Errorf("%d must be positive", n)
	}
	return nil
}

func knownStyle(style string) error {
	if !slices.Contains(RenderStyles, style) {
		return fmt.Errorf("unknown style %q (want one of %s)", style, strings.Join(RenderStyles, ", "))
	}
	return nil
}

func knownTheme(theme string) error {
	if _, ok := styles.GetPalette(theme); !ok {
		return fmt.Errorf("unknown theme %q (want one of %s)", theme, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
