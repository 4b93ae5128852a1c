package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/inn/internal/inn"
)

// ContextNameCompleter returns a ShellCompleteFunc that suggests stored
// context names as positional completions. Set this as the ShellComplete
// field on any cli.Command that accepts a context name.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ContextNameCompleter(app *inn.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Store == nil {
			return
		}

		w := cmd.Root().Writer
		for name := range app.Store.List() {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}
