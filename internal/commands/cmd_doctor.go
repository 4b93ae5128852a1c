package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/core/doctor"
	"github.com/hay-kot/inn/internal/core/styles"
	"github.com/hay-kot/inn/internal/inn"
	"github.com/hay-kot/inn/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *inn.App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *inn.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your inn setup",
		UsageText:   "inn doctor [options]",
		Description: "Checks the configuration, decodes every context document and verifies the current-context cursor.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., clear a dangling cursor)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := cmd.app.Doctor.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(c.Root().Writer, results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputText(w io.Writer, results []doctor.Result) error {
	_, _ = fmt.Fprintln(w, styles.TextPrimaryBoldStyle.Render("inn doctor"))
	_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(strings.Repeat("─", 40)))

	for _, result := range results {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.TextForegroundBoldStyle.Render(result.Name))
		for _, item := range result.Items {
			writeCheckItem(w, item.Status, item.Label, item.Detail)
		}
	}

	passed, warned, failed := doctor.Summary(results)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", failed)),
	)

	if fixable := doctor.CountFixable(results); fixable > 0 && !cmd.autofix {
		_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(fmt.Sprintf("Run 'inn doctor --autofix' to fix %d issue(s)", fixable)))
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// writeCheckItem prints one status line with an icon and an optional detail.
func writeCheckItem(w io.Writer, status doctor.Status, label, detail string) {
	var icon string
	switch status {
	case doctor.StatusPass:
		icon = styles.TextSuccessStyle.Render("✔")
	case doctor.StatusWarn:
		icon = styles.TextWarningStyle.Render("●")
	case doctor.StatusFail:
		icon = styles.TextErrorStyle.Render("✘")
	}

	if detail != "" {
		detail = " " + styles.TextMutedStyle.Render(detail)
	}
	_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, label, detail)
}
