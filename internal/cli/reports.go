package cli

import (
	"fmt"

	"budgetplanner/internal/core"
	"budgetplanner/internal/services"

	"github.com/spf13/cobra"
)

func newSumMonthCommand(app *App) *cobra.Command {
	var email, month string
	cmd := &cobra.Command{
		Use:   "sum-month",
		Short: "Net total of one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, err := app.planner.MonthlyTotal(cmd.Context(), app.session, email, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s total: %s\n", month, FormatMoney(total))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account to total (editors only)")
	cmd.Flags().StringVar(&month, "month", "", "YYYY-MM")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newSummaryCommand(app *App) *cobra.Command {
	var email, period string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := app.planner.SummarizeByCategory(cmd.Context(), app.session, email, period)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(app.Out, Muted("No transactions."))
				return nil
			}
			t := Table{Headers: []string{"category", "total"}, Right: []int{1}}
			totals := make([]core.Money, 0, len(rows))
			for _, r := range rows {
				t.Rows = append(t.Rows, []string{r.Category, FormatMoney(r.Total)})
				totals = append(totals, r.Total)
			}
			t.Rows = append(t.Rows, []string{"all", FormatMoney(core.Sum(totals...).Round2())})
			fmt.Fprint(app.Out, RenderTable(t))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account to summarize (editors only)")
	cmd.Flags().StringVar(&period, "period", "", "YYYY-MM or YYYY-MM-DD (default all time)")
	return cmd
}

func newBudgetStatusCommand(app *App) *cobra.Command {
	var email, month string
	cmd := &cobra.Command{
		Use:   "budget-status",
		Short: "Compare budget goals with actual spend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := app.planner.GoalsVsSpend(cmd.Context(), app.session, email, month)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(app.Out, Muted("No goals."))
				return nil
			}
			t := Table{Headers: []string{"month", "category", "goal", "spent", "left", "status"}, Right: []int{2, 3, 4}}
			for _, r := range rows {
				t.Rows = append(t.Rows, []string{
					r.Month.String(),
					r.Category,
					FormatMoney(r.Goal),
					FormatMoney(r.Spent),
					FormatMoney(r.Diff),
					FormatAlertLevel(services.AlertLevelFor(r.Goal, r.Spent)),
				})
			}
			fmt.Fprint(app.Out, RenderTable(t))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account to check (editors only)")
	cmd.Flags().StringVar(&month, "month", "", "only this month, YYYY-MM")
	return cmd
}
