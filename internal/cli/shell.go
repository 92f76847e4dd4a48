package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "bp> "

func newShellCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive mode; the session lasts until logout or exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.inShell {
				return errors.New("already in the shell")
			}
			return RunShell(cmd.Context(), app)
		},
	}
}

// RunShell reads commands until exit, quit or end of input. Errors of single
// commands are printed and do not end the loop.
func RunShell(ctx context.Context, app *App) error {
	app.inShell = true
	defer func() { app.inShell = false }()

	fmt.Fprintln(app.Out, "Budget Planner - interactive mode")
	fmt.Fprintln(app.Out, Muted("Start with 'login' or 'signup'. Type 'help' for commands, 'exit' to quit."))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(app.Out, shellPrompt)
		line, err := app.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(app.Out)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if l := strings.ToLower(line); l == "exit" || l == "quit" {
			return nil
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintln(app.Err, Failure("Error: "+err.Error()))
			continue
		}
		root := NewRootCommand(app)
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			fmt.Fprintln(app.Err, Failure("Error: "+err.Error()))
		}
	}
}
