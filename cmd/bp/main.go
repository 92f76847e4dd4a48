package main

import (
	"context"
	"fmt"
	"os"

	"budgetplanner/internal/cli"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	app := cli.NewApp(cli.OpenPlanner)
	err := cli.NewRootCommand(app).ExecuteContext(context.Background())
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Failure("Error: "+err.Error()))
	}
	os.Exit(cli.ExitCode(err))
}
