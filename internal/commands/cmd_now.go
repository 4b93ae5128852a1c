package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/inn"
)

type NowCmd struct {
	flags *Flags
	app   *inn.App

	// flags
	pretty bool
}

// NewNowCmd creates a new now command
func NewNowCmd(flags *Flags, app *inn.App) *NowCmd {
	return &NowCmd{flags: flags, app: app}
}

// Register adds the now command to the application
func (cmd *NowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "now",
		Usage:     "Render a context",
		UsageText: "inn now [--pretty] [NAME]",
		Description: `Loads NAME, or the current context when NAME is omitted, and prints it
as a Markdown outline. Accrued time of running timeboxes is computed at the
moment of rendering.

Use --pretty to render through glamour with the configured render.style.`,
		ShellComplete: ContextNameCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "pretty",
				Aliases:     []string{"p"},
				Usage:       "render styled Markdown",
				Destination: &cmd.pretty,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NowCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := cmd.app.Current(ctx, c.Args().First())
	if err != nil {
		return err
	}

	text := outline.Render(doc, cmd.app.Now())
	if cmd.pretty {
		text, err = renderPretty(text, cmd.app.Config.Render)
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprint(c.Root().Writer, text)
	return nil
}

// renderPretty renders Markdown with glamour.
func renderPretty(markdown string, rc config.RenderConfig) (string, error) {
	style := glamour.WithStylePath(rc.Style)
	if rc.Style == "auto" {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(rc.Width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
