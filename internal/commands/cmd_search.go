package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/core/pattern"
	"github.com/hay-kot/inn/internal/core/styles"
	"github.com/hay-kot/inn/internal/inn"
	"github.com/hay-kot/inn/pkg/iojson"
)

type SearchCmd struct {
	flags *Flags
	app   *inn.App

	// flags
	regex      bool
	glob       bool
	names      bool
	scope      string
	jsonOutput bool
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags, app *inn.App) *SearchCmd {
	return &SearchCmd{flags: flags, app: app}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Usage:     "Search context names or item text",
		UsageText: "inn search [--regex | --glob] [--names] [--context NAME] [--json] PATTERN",
		Description: `Counts matches of PATTERN in the text of every item, or in context names
with --names. PATTERN is a case-sensitive keyword unless --regex or --glob is
given. Results are ordered by descending count, then context name, then item
path.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "regex", Aliases: []string{"r"}, Usage: "treat PATTERN as a regular expression", Destination: &cmd.regex},
			&cli.BoolFlag{Name: "glob", Usage: "treat PATTERN as a glob matched against the whole text", Destination: &cmd.glob},
			&cli.BoolFlag{Name: "names", Aliases: []string{"n"}, Usage: "match context names instead of items", Destination: &cmd.names},
			&cli.StringFlag{Name: "context", Usage: "only search this context", Destination: &cmd.scope},
			&cli.BoolFlag{Name: "json", Usage: "output as JSON lines", Destination: &cmd.jsonOutput},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	source, err := requireArg(c, "PATTERN")
	if err != nil {
		return err
	}

	q, err := cmd.query(source)
	if err != nil {
		return err
	}

	res, err := cmd.app.Run(ctx, inn.Search{Context: cmd.scope, Query: q})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, m := range res.Matches {
			if err := iojson.WriteLine(out, m); err != nil {
				return fmt.Errorf("encode match: %w", err)
			}
		}
		return nil
	}

	if len(res.Matches) == 0 {
		fmt.Fprintf(os.Stderr, "No matches for %s\n", q)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, m := range res.Matches {
		path := m.Path.String()
		if path == "" {
			path = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.Count, m.Context, path, m.Text)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, styles.TextMutedStyle.Render(fmt.Sprintf("%d match(es)", len(res.Matches))))
	return nil
}

func (cmd *SearchCmd) query(source string) (pattern.Query, error) {
	kind := pattern.KindKeyword
	switch {
	case cmd.regex && cmd.glob:
		return pattern.Query{}, errors.New("--regex and --glob are mutually exclusive")
	case cmd.regex:
		kind = pattern.KindRegex
	case cmd.glob:
		kind = pattern.KindGlob
	}

	p, err := pattern.Compile(pattern.Spec{Kind: kind, Source: source})
	if err != nil {
		return pattern.Query{}, err
	}

	if cmd.names {
		return pattern.ContextNames(p), nil
	}
	return pattern.ContextItems(p), nil
}
