// Package setup implements the interactive wizard behind 'inn setup'.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/doctor"
	"github.com/hay-kot/inn/internal/core/styles"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
	Out        io.Writer
}

// Wizard walks the user through writing a config file.
type Wizard struct {
	opts WizardOptions

	// prompt collects answers; replaced in tests.
	prompt func(*Answers) error
}

// NewWizard creates a new setup wizard.
func NewWizard(opts WizardOptions) *Wizard {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Wizard{opts: opts, prompt: promptUser}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	out := w.opts.Out

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			_, _ = fmt.Fprintln(out, "Setup cancelled")
			return nil
		}
	}

	answers := DefaultAnswers(config.DefaultConfig())
	if !w.opts.Yes {
		if err := w.prompt(&answers); err != nil {
			return err
		}
	}

	cfg, err := GenerateConfig(answers, w.opts.DataDir)
	if err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		_, _ = fmt.Fprintln(out, styles.TextSuccessStyle.Render("✔")+" Backed up config to: "+backupPath)
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	_, _ = fmt.Fprintln(out, styles.TextSuccessStyle.Render("✔")+" Created config: "+w.opts.ConfigPath)

	result := doctor.NewConfigCheck(&cfg, w.opts.ConfigPath).Run(ctx)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.TextForegroundBoldStyle.Render(result.Name))
	for _, item := range result.Items {
		icon := styles.TextSuccessStyle.Render("✔")
		switch item.Status {
		case doctor.StatusWarn:
			icon = styles.TextWarningStyle.Render("●")
		case doctor.StatusFail:
			icon = styles.TextErrorStyle.Render("✘")
		}
		_, _ = fmt.Fprintf(out, "  %s %s %s\n", icon, item.Label, styles.TextMutedStyle.Render(item.Detail))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Run 'inn init %s' to create the example context.\n", cfg.StarterName)
	return nil
}

func promptUser(a *Answers) error {
	styleOpts := huh.NewOptions(config.RenderStyles...)
	themeOpts := huh.NewOptions(styles.ThemeNames()...)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Document extension").
				Description("Filename suffix of context documents").
				Value(&a.Extension),
			huh.NewInput().
				Title("Documents directory").
				Description("Leave empty to keep documents in the data directory").
				Value(&a.DocumentsDir),
			huh.NewInput().
				Title("Default timebox budget").
				Description("Go duration such as 25m or 1h; 0 means unlimited").
				Validate(func(s string) error {
					_, err := parseBudget(s)
					return err
				}).
				Value(&a.Budget),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Markdown style").
				Options(styleOpts...).
				Value(&a.Style),
			huh.NewSelect[string]().
				Title("Listing theme").
				Options(themeOpts...).
				Value(&a.Theme),
			huh.NewInput().
				Title("Render width").
				Validate(func(s string) error {
					_, err := parseWidth(s)
					return err
				}).
				Value(&a.Width),
		),
	)

	return form.Run()
}

func parseBudget(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("budget: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("budget must not be negative")
	}
	return d, nil
}

func parseWidth(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("width must be a positive number")
	}
	return n, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
