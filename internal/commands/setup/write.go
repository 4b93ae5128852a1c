package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/inn/internal/core/config"
)

const header = "# inn configuration, generated by 'inn setup'\n"

// Answers holds the values collected by the wizard.
type Answers struct {
	Extension    string
	DocumentsDir string
	Budget       string
	Style        string
	Theme        string
	Width        string
}

// DefaultAnswers seeds the prompts from cfg.
func DefaultAnswers(cfg config.Config) Answers {
	return Answers{
		Extension:    cfg.Extension,
		DocumentsDir: cfg.DocumentsDir,
		Budget:       cfg.Timebox.DefaultBudget.String(),
		Style:        cfg.Render.Style,
		Theme:        cfg.Render.Theme,
		Width:        fmt.Sprint(cfg.Render.Width),
	}
}

// GenerateConfig builds a validated config from the answers.
func GenerateConfig(a Answers, dataDir string) (config.Config, error) {
	cfg := config.DefaultConfig()

	budget, err := parseBudget(a.Budget)
	if err != nil {
		return cfg, err
	}
	width, err := parseWidth(a.Width)
	if err != nil {
		return cfg, err
	}

	cfg.Extension = a.Extension
	cfg.DocumentsDir = expandHome(a.DocumentsDir)
	cfg.Timebox.DefaultBudget = budget
	cfg.Render.Style = a.Style
	cfg.Render.Theme = a.Theme
	cfg.Render.Width = width
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WriteConfig encodes cfg as YAML at path, creating parent directories.
func WriteConfig(cfg config.Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString(header)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
