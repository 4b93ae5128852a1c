package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/core/styles"
	"github.com/hay-kot/inn/internal/inn"
	"github.com/hay-kot/inn/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *inn.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *inn.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List all contexts",
		UsageText: "inn ls [--json]",
		Description: `Displays every stored context in name order with its item count and the
number of timeboxes still open. The current context is marked.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// contextInfo is the JSON output format for inn ls --json.
type contextInfo struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
	Items   int    `json:"items"`
	Open    int    `json:"open"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	res, err := cmd.app.Run(ctx, inn.List{})
	if err != nil {
		return fmt.Errorf("list contexts: %w", err)
	}

	if len(res.Names) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No contexts found. Run 'inn init NAME' to create one\n")
		}
		return nil
	}

	out := c.Root().Writer
	infos := make([]contextInfo, 0, len(res.Names))
	for _, name := range res.Names {
		infos = append(infos, cmd.buildContextInfo(name, res.State.Cursor))
	}

	// JSON output mode
	if cmd.jsonOutput {
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode context: %w", err)
			}
		}
		return nil
	}

	// Table output mode. Rows are aligned as plain text first so the
	// highlight escapes do not skew tabwriter's column widths.
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tNAME\tITEMS\tOPEN")
	for _, info := range infos {
		marker := " "
		if info.Current {
			marker = styles.Cursor
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", marker, info.Name, info.Items, info.Open)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = styles.TextMutedStyle.Render(line)
		case infos[i-1].Current:
			line = styles.TextPrimaryBoldStyle.Render(line)
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}

func (cmd *LsCmd) buildContextInfo(name, cursor string) contextInfo {
	info := contextInfo{Name: name, Current: name == cursor}

	doc, ok := cmd.app.Store.Get(name)
	if !ok {
		return info
	}

	doc.Walk(func(_ outline.Path, it *outline.Item) bool {
		info.Items++
		if it.Kind == outline.KindTimebox && it.Timebox != nil && !it.Timebox.State().Terminal() {
			info.Open++
		}
		return true
	})
	return info
}
