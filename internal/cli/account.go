package cli

import (
	"fmt"
	"strconv"

	"budgetplanner/internal/services"
	"budgetplanner/internal/sheets"

	"github.com/spf13/cobra"
)

func newSignupCommand(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email, err = app.prompt("Email", email); err != nil {
				return err
			}
			if password, err = app.prompt("Password", password); err != nil {
				return err
			}
			u, err := app.planner.Signup(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Success("Signup successful: "+u.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email for the new account")
	cmd.Flags().StringVar(&password, "password", "", "password for the new account")
	return cmd
}

func newLoginCommand(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify credentials and act as that account",
		Long: `Verify credentials against the stored password hash.

Inside the shell the session lasts until logout. Outside it, pass
--login-email/--login-password (or BP_LOGIN_EMAIL/BP_LOGIN_PASSWORD) to
every command instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email, err = app.prompt("Email", email); err != nil {
				return err
			}
			if password, err = app.prompt("Password", password); err != nil {
				return err
			}
			s, err := app.planner.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			app.session = s
			fmt.Fprintln(app.Out, Success(fmt.Sprintf("Login successful: %s (%s)", s.Email, s.Role)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app.session = app.planner.Logout()
			fmt.Fprintln(app.Out, Muted("Logged out"))
			return nil
		},
	}
}

func newWhoAmICommand(app *App) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account, or another one for editors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app.planner.WhoAmI(cmd.Context(), app.session, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "user_id   : %s\n", u.ID)
			fmt.Fprintf(app.Out, "email     : %s\n", u.Email)
			fmt.Fprintf(app.Out, "role      : %s\n", u.Role)
			fmt.Fprintf(app.Out, "created_at: %s\n", sheets.FormatTimestamp(u.CreatedAt))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "email", "", "account to show (editors only)")
	return cmd
}

func newListUsersCommand(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List accounts (editors only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var n *int
			if cmd.Flags().Changed("limit") {
				n = &limit
			}
			users, err := app.planner.ListUsers(cmd.Context(), app.session, n)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(app.Out, Muted("No users."))
				return nil
			}
			t := Table{Headers: []string{"#", "email", "role", "created_at", "user_id"}, Right: []int{0}}
			for i, u := range users {
				t.Rows = append(t.Rows, []string{
					strconv.Itoa(i + 1), u.Email, u.Role.String(), sheets.FormatTimestamp(u.CreatedAt), u.ID,
				})
			}
			fmt.Fprint(app.Out, RenderTable(t))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", services.DefaultListLimit, "maximum number of users")
	return cmd
}

func newSetRoleCommand(app *App) *cobra.Command {
	var target, role string
	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Grant a role to an account (editors only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.planner.SetRole(cmd.Context(), app.session, target, role); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Success(fmt.Sprintf("Role of %s set to %s", target, role)))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "email", "", "account to update")
	cmd.Flags().StringVar(&role, "role", "", "user or editor")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newChangePasswordCommand(app *App) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if current, err = app.prompt("Current password", current); err != nil {
				return err
			}
			if next, err = app.prompt("New password", next); err != nil {
				return err
			}
			if err := app.planner.ChangePassword(cmd.Context(), app.session, current, next); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Success("Password changed"))
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}
