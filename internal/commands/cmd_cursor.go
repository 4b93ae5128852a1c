package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/inn"
)

// CursorCmd registers the commands that move the current-context cursor.
type CursorCmd struct {
	flags *Flags
	app   *inn.App
}

// NewCursorCmd creates the switch, next, last and clear commands
func NewCursorCmd(flags *Flags, app *inn.App) *CursorCmd {
	return &CursorCmd{flags: flags, app: app}
}

// Register adds the cursor commands to the application
func (cmd *CursorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:          "switch",
			Aliases:       []string{"sw"},
			Usage:         "Select the current context",
			UsageText:     "inn switch NAME",
			ShellComplete: ContextNameCompleter(cmd.app),
			Action:        cmd.runSwitch,
		},
		&cli.Command{
			Name:        "next",
			Usage:       "Select the following context in name order",
			UsageText:   "inn next",
			Description: "Stops at the last context. Without a current context, selects the first.",
			Action:      cmd.step(inn.Next{}),
		},
		&cli.Command{
			Name:        "last",
			Aliases:     []string{"prev"},
			Usage:       "Select the preceding context in name order",
			UsageText:   "inn last",
			Description: "Stops at the first context. Without a current context, selects the final one.",
			Action:      cmd.step(inn.Last{}),
		},
		&cli.Command{
			Name:      "clear",
			Usage:     "Unset the current context",
			UsageText: "inn clear",
			Action:    cmd.step(inn.Clear{}),
		},
	)

	return app
}

func (cmd *CursorCmd) runSwitch(ctx context.Context, c *cli.Command) error {
	name, err := requireArg(c, "NAME")
	if err != nil {
		return err
	}
	return cmd.move(ctx, c, inn.Switch{Name: name})
}

func (cmd *CursorCmd) step(move inn.Cmd) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		return cmd.move(ctx, c, move)
	}
}

func (cmd *CursorCmd) move(ctx context.Context, c *cli.Command, move inn.Cmd) error {
	res, err := cmd.app.Run(ctx, move)
	if err != nil {
		return err
	}

	if !res.State.HasCursor() {
		_, _ = fmt.Fprintln(c.Root().Writer, "no current context")
		return nil
	}
	_, _ = fmt.Fprintln(c.Root().Writer, res.State.Cursor)
	return nil
}
