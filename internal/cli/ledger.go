package cli

import (
	"fmt"
	"strings"

	"budgetplanner/internal/core"
	"budgetplanner/internal/services"

	"github.com/spf13/cobra"
)

func newAddTxnCommand(app *App) *cobra.Command {
	var in services.TransactionInput
	cmd := &cobra.Command{
		Use:   "add-txn",
		Short: "Record a transaction",
		Long: `Record a transaction. Positive amounts are spending, negative amounts
are refunds or income. Categories: ` + strings.Join(core.AllowedCategories, ", ") + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := app.planner.AddTransaction(cmd.Context(), app.session, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Success("Transaction added: "+id))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account to record for (editors only)")
	cmd.Flags().StringVar(&in.Date, "date", "", "YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Category, "category", "", "transaction category")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "signed amount, not zero")
	cmd.Flags().StringVar(&in.Note, "note", "", "free text")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newListTxnsCommand(app *App) *cobra.Command {
	var (
		in    services.ListTransactionsInput
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list-txns",
		Short: "List the newest transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("limit") {
				in.Limit = &limit
			}
			txns, err := app.planner.ListTransactions(cmd.Context(), app.session, in)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Fprintln(app.Out, Muted("No transactions."))
				return nil
			}
			t := Table{Headers: []string{"date", "category", "amount", "note", "txn_id"}, Right: []int{2}}
			for _, tx := range txns {
				t.Rows = append(t.Rows, []string{
					tx.Date.String(), tx.Category, FormatMoney(tx.Amount), tx.Note, tx.ID,
				})
			}
			fmt.Fprint(app.Out, RenderTable(t))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account to list (editors only)")
	cmd.Flags().StringVar(&in.Date, "date", "", "only this day, YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", services.DefaultListLimit, "maximum number of transactions")
	return cmd
}

func newSetGoalCommand(app *App) *cobra.Command {
	var in services.GoalInput
	cmd := &cobra.Command{
		Use:   "set-goal",
		Short: "Create or replace a monthly budget goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := app.planner.SetGoal(cmd.Context(), app.session, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Success("Goal saved: "+id))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account to set the goal for (editors only)")
	cmd.Flags().StringVar(&in.Month, "month", "", "YYYY-MM")
	cmd.Flags().StringVar(&in.Category, "category", "", "goal category")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "positive monthly goal")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newListGoalsCommand(app *App) *cobra.Command {
	var email, month string
	cmd := &cobra.Command{
		Use:   "list-goals",
		Short: "List budget goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			goals, err := app.planner.ListGoals(cmd.Context(), app.session, email, month)
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Fprintln(app.Out, Muted("No goals."))
				return nil
			}
			t := Table{Headers: []string{"month", "category", "goal", "budget_id"}, Right: []int{2}}
			for _, g := range goals {
				t.Rows = append(t.Rows, []string{g.Month.String(), g.Category, FormatMoney(g.MonthlyGoal), g.ID})
			}
			fmt.Fprint(app.Out, RenderTable(t))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account to list (editors only)")
	cmd.Flags().StringVar(&month, "month", "", "only this month, YYYY-MM")
	return cmd
}
