package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/inn/internal/inn"
)

type RmCmd struct {
	flags *Flags
	app   *inn.App

	// flags
	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *inn.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a context document",
		UsageText: "inn rm [--yes] NAME",
		Description: `Removes the document for NAME. Asks for confirmation unless --yes is
given. If NAME is the current context the cursor is cleared.`,
		ShellComplete: ContextNameCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "do not ask for confirmation",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	name, err := requireArg(c, "NAME")
	if err != nil {
		return err
	}

	if !cmd.yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to remove %s without confirmation; pass --yes", name)
		}

		var confirmed bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Remove context %q?", name)).
			Description("The document is deleted from disk and cannot be recovered.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(c.Root().Writer, "cancelled")
			return nil
		}
	}

	if err := cmd.app.Remove(ctx, name); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "removed %s\n", name)
	return nil
}
