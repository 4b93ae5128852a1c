package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/core/attention"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/inn"
)

type MarkCmd struct {
	flags *Flags
	app   *inn.App

	// flags
	reason string
}

// NewMarkCmd creates a new mark command
func NewMarkCmd(flags *Flags, app *inn.App) *MarkCmd {
	return &MarkCmd{flags: flags, app: app}
}

// Register adds the mark command to the application
func (cmd *MarkCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "mark",
		Usage:     "Record an attention event on a timebox",
		UsageText: "inn mark NAME PATH EVENT [--reason TEXT]",
		Description: `Applies EVENT to the timebox at PATH in context NAME and saves the context.

PATH is the dotted zero-based item path, e.g. 5 or 6.0 for the first item of
the sublist at index 6. EVENT is one of: start, pause, wait, abandon, finish.
Finished and abandoned timeboxes accept no further events.`,
		ShellComplete: ContextNameCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "reason",
				Usage:       "what the timebox is waiting for (wait only)",
				Destination: &cmd.reason,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MarkCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return errors.New("usage: inn mark NAME PATH EVENT")
	}
	name, rawPath, rawEvent := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	path, err := outline.ParsePath(rawPath)
	if err != nil {
		return err
	}

	ev, err := cmd.event(rawEvent)
	if err != nil {
		return err
	}

	res, err := cmd.app.Run(ctx, inn.Mark{Context: name, Path: path, Event: ev})
	if err != nil {
		return err
	}

	it, err := res.Context.Resolve(path)
	if err != nil {
		return err
	}
	tb := it.Timebox
	_, _ = fmt.Fprintf(c.Root().Writer, "%s: %s (%s)\n", tb.Label, tb.State(), tb.AccruedAt(cmd.app.Now()))
	return nil
}

func (cmd *MarkCmd) event(raw string) (attention.Event, error) {
	kind, err := attention.ParseEventKind(raw)
	if err != nil {
		return attention.Event{}, err
	}

	now := cmd.app.Now()
	switch kind {
	case attention.EventStarted:
		return attention.Started(now), nil
	case attention.EventPaused:
		return attention.Paused(now), nil
	case attention.EventWaitingFor:
		return attention.WaitingFor(now, cmd.reason), nil
	case attention.EventAbandoned:
		return attention.Abandoned(now), nil
	case attention.EventFinished:
		return attention.Finished(now), nil
	default:
		return attention.Event{}, fmt.Errorf("%w: %s cannot be marked", attention.ErrInvalidTransition, kind)
	}
}
