package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/core/config"
	"github.com/hay-kot/inn/internal/core/doctor"
	"github.com/hay-kot/inn/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// validationIssue is one field error in the JSON output of config validate.
type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "inn config validate [options]",
				Description: "Validates the configuration file, checking field values and the data and documents directories.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	issues := collectIssues(cfg.ValidateDeep(cmd.flags.ConfigPath))
	warnings := cfg.Warnings()

	var err error
	if cmd.format == "json" {
		err = iojson.WriteWith(c.Root().Writer, os.Stderr, struct {
			Valid    bool                       `json:"valid"`
			Errors   []validationIssue          `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(issues) == 0,
			Errors:   issues,
			Warnings: warnings,
		})
	} else {
		outputValidation(c.Root().Writer, issues, warnings)
	}
	if err != nil {
		return err
	}

	if len(issues) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func collectIssues(err error) []validationIssue {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationIssue{{Field: "config", Message: err.Error()}}
	}

	issues := make([]validationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}

func outputValidation(w io.Writer, issues []validationIssue, warnings []config.ValidationWarning) {
	for _, warn := range warnings {
		writeCheckItem(w, doctor.StatusWarn, warn.Item, warn.Message)
	}
	for _, issue := range issues {
		writeCheckItem(w, doctor.StatusFail, issue.Field, issue.Message)
	}

	if len(issues) == 0 {
		writeCheckItem(w, doctor.StatusPass, "Configuration is valid", "")
		return
	}
	_, _ = fmt.Fprintf(w, "%d error(s) found\n", len(issues))
}
