package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/inn"
)

type InitCmd struct {
	flags *Flags
	app   *inn.App

	// flags
	switchTo bool
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags, app *inn.App) *InitCmd {
	return &InitCmd{flags: flags, app: app}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a new context",
		UsageText: "inn init [--switch] NAME",
		Description: `Creates an empty context document named NAME.

Fails if a document for NAME already exists; existing documents are never
overwritten. Initialising the configured starter name (default "starter")
writes an example outline instead of an empty one.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "switch",
				Aliases:     []string{"s"},
				Usage:       "select the new context as the current one",
				Destination: &cmd.switchTo,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	name, err := requireArg(c, "NAME")
	if err != nil {
		return err
	}

	res, err := cmd.app.Run(ctx, inn.Init{Name: name})
	if err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}

	if cmd.switchTo {
		if _, err := cmd.app.Run(ctx, inn.Switch{Name: name}); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "created %s (%d items)\n", res.Context.Name, len(res.Context.Items))
	return nil
}

// requireArg returns the first positional argument or a usage error naming it.
func requireArg(c *cli.Command, name string) (string, error) {
	if c.Args().Len() < 1 {
		return "", fmt.Errorf("missing %s argument; see 'inn %s --help'", name, c.Name)
	}
	return c.Args().First(), nil
}
