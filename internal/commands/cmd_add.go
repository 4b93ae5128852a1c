package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/inn/internal/core/attention"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/inn"
	"github.com/hay-kot/inn/pkg/iojson"
)

// itemInput is the JSON form of an item accepted by `inn add -f`.
type itemInput struct {
	Kind   outline.Kind `json:"kind"`
	Text   string       `json:"text"`
	Done   bool         `json:"done,omitempty"`
	Budget string       `json:"budget,omitempty"` // timeboxes only; Go duration
}

type AddCmd struct {
	flags  *Flags
	app    *inn.App
	reader iojson.FileReader[[]itemInput]

	// flags
	headings  []string
	notes     []string
	entries   []string
	goals     []string
	timeboxes []string
	sublists  []string
	budget    time.Duration
	into      string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *inn.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Append items to a context",
		UsageText: "inn add NAME [--goal TEXT] [--timebox LABEL [--budget DUR]] [--into PATH] ...",
		Description: `Loads NAME, appends the given items and saves it.

Item flags may be repeated. Items are appended grouped by kind in the order
headings, notes, entries, goals, timeboxes, sublists. Use --into with a dotted
item path (e.g. 6 or 6.0) to append inside a nested sublist.

Without item flags, a goal is prompted for when stdin is a terminal;
otherwise a JSON array of {"kind", "text", "done", "budget"} objects is read
from --file or stdin.`,
		ShellComplete: ContextNameCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "heading", Usage: "append a heading", Destination: &cmd.headings},
			&cli.StringSliceFlag{Name: "note", Usage: "append a note", Destination: &cmd.notes},
			&cli.StringSliceFlag{Name: "entry", Usage: "append a free entry", Destination: &cmd.entries},
			&cli.StringSliceFlag{Name: "goal", Aliases: []string{"g"}, Usage: "append an open goal", Destination: &cmd.goals},
			&cli.StringSliceFlag{Name: "timebox", Aliases: []string{"t"}, Usage: "append a tracked timebox", Destination: &cmd.timeboxes},
			&cli.StringSliceFlag{Name: "sublist", Usage: "append an empty nested list", Destination: &cmd.sublists},
			&cli.DurationFlag{
				Name:        "budget",
				Usage:       "budget for timeboxes added by this call (defaults to timebox.default_budget)",
				Destination: &cmd.budget,
			},
			&cli.StringFlag{
				Name:        "into",
				Usage:       "dotted path of the sublist to append into",
				Destination: &cmd.into,
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	name, err := requireArg(c, "NAME")
	if err != nil {
		return err
	}

	parent, err := outline.ParsePath(cmd.into)
	if err != nil {
		return err
	}

	budget := cmd.app.Config.Timebox.DefaultBudget
	if c.IsSet("budget") {
		budget = cmd.budget
	}

	now := cmd.app.Now()
	items := cmd.flagItems(budget, now)
	if len(items) == 0 {
		items, err = cmd.inputItems(budget, now)
		if err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return errors.New("nothing to add")
	}

	res, err := cmd.app.Run(ctx, inn.Add{Context: name, Parent: parent, Items: items})
	if err != nil {
		return fmt.Errorf("add to %s: %w", name, err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "added %d item(s) to %s\n", len(items), res.Context.Name)
	return nil
}

func (cmd *AddCmd) flagItems(budget time.Duration, now time.Time) []outline.Item {
	var items []outline.Item
	for _, text := range cmd.headings {
		items = append(items, outline.Heading(text))
	}
	for _, text := range cmd.notes {
		items = append(items, outline.Note(text))
	}
	for _, text := range cmd.entries {
		items = append(items, outline.Entry(text))
	}
	for _, text := range cmd.goals {
		items = append(items, outline.NewGoal(text, false))
	}
	for _, label := range cmd.timeboxes {
		items = append(items, outline.NewTimebox(label, attention.NewTimespan(budget), now))
	}
	for _, name := range cmd.sublists {
		items = append(items, outline.NewSublist(outline.New(name)))
	}
	return items
}

// inputItems prompts for a goal on a terminal and otherwise decodes JSON.
func (cmd *AddCmd) inputItems(budget time.Duration, now time.Time) ([]outline.Item, error) {
	if !cmd.reader.Set() && term.IsTerminal(int(os.Stdin.Fd())) {
		var text string
		err := huh.NewInput().
			Title("Goal").
			Description("Text of the goal to append").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("goal cannot be empty")
				}
				return nil
			}).
			Value(&text).
			Run()
		if err != nil {
			return nil, err
		}
		return []outline.Item{outline.NewGoal(strings.TrimSpace(text), false)}, nil
	}

	inputs, err := cmd.reader.Read()
	if err != nil {
		return nil, err
	}
	return buildItems(inputs, budget, now)
}

func buildItems(inputs []itemInput, budget time.Duration, now time.Time) ([]outline.Item, error) {
	items := make([]outline.Item, 0, len(inputs))
	for i, in := range inputs {
		var it outline.Item
		switch in.Kind {
		case outline.KindHeading:
			it = outline.Heading(in.Text)
		case outline.KindNote:
			it = outline.Note(in.Text)
		case outline.KindEntry:
			it = outline.Entry(in.Text)
		case outline.KindGoal:
			it = outline.NewGoal(in.Text, in.Done)
		case outline.KindTimebox:
			b := budget
			if in.Budget != "" {
				d, err := time.ParseDuration(in.Budget)
				if err != nil {
					return nil, fmt.Errorf("item %d: budget: %w", i, err)
				}
				b = d
			}
			it = outline.NewTimebox(in.Text, attention.NewTimespan(b), now)
		case outline.KindSublist:
			it = outline.NewSublist(outline.New(in.Text))
		default:
			return nil, fmt.Errorf("item %d: unknown kind %q", i, in.Kind)
		}
		items = append(items, it)
	}
	return items, nil
}
