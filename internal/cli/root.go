package cli

import (
	"os"

	"budgetplanner/internal/services"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath    string
	LoginEmail    string
	LoginPassword string
}

const annotationOffline = "offline"

// NewRootCommand creates the bp command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bp",
		Short:         "Budget Planner",
		Long:          "Track transactions and monthly budget goals for several users over a shared table store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Inside the shell the session belongs to login and logout.
			if opts.LoginEmail == "" && !app.inShell {
				opts.LoginEmail = os.Getenv("BP_LOGIN_EMAIL")
			}
			if opts.LoginPassword == "" && !app.inShell {
				opts.LoginPassword = os.Getenv("BP_LOGIN_PASSWORD")
			}
			if !needsPlanner(cmd) {
				return nil
			}
			p, err := app.ensurePlanner(cmd.Context(), opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.LoginEmail != "" {
				s, err := p.Login(cmd.Context(), opts.LoginEmail, opts.LoginPassword)
				if err != nil {
					return err
				}
				app.session = s
			}
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $BP_CONFIG or the XDG config dir)")
	cmd.PersistentFlags().StringVar(&opts.LoginEmail, "login-email", "", "act as this account (or $BP_LOGIN_EMAIL)")
	cmd.PersistentFlags().StringVar(&opts.LoginPassword, "login-password", "", "password for --login-email (or $BP_LOGIN_PASSWORD)")

	cmd.AddCommand(
		newSignupCommand(app),
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoAmICommand(app),
		newListUsersCommand(app),
		newSetRoleCommand(app),
		newChangePasswordCommand(app),
		newAddTxnCommand(app),
		newListTxnsCommand(app),
		newSetGoalCommand(app),
		newListGoalsCommand(app),
		newSumMonthCommand(app),
		newSummaryCommand(app),
		newBudgetStatusCommand(app),
		newConfigCommand(app, opts),
		newShellCommand(app),
	)
	return cmd
}

// needsPlanner is false for the root itself, help and config commands.
func needsPlanner(cmd *cobra.Command) bool {
	if !cmd.HasParent() || cmd.Name() == "help" {
		return false
	}
	for c := cmd; c.HasParent(); c = c.Parent() {
		if c.Annotations[annotationOffline] == "true" {
			return false
		}
	}
	return true
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 1 for caller mistakes and 2 for store or infrastructure failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case services.IsUserError(err):
		return 1
	default:
		return 2
	}
}
