package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/commands/setup"
)

type SetupCmd struct {
	flags *Flags

	// flags
	yes   bool
	force bool
}

// NewSetupCmd creates a new setup command
func NewSetupCmd(flags *Flags) *SetupCmd {
	return &SetupCmd{flags: flags}
}

// Register adds the setup command to the application
func (cmd *SetupCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "setup",
		Usage:     "Write a config file interactively",
		UsageText: "inn setup [--yes] [--force]",
		Description: `Prompts for the document extension, documents directory, default timebox
budget and rendering options, then writes the config file and validates it.

An existing config is backed up to <config>.bak before it is replaced.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip prompts and write the defaults",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing config without asking",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SetupCmd) run(ctx context.Context, c *cli.Command) error {
	return setup.NewWizard(setup.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Out:        c.Root().Writer,
	}).Run(ctx)
}
