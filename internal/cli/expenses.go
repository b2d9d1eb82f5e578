package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
	applog "financas/internal/log"
)

func newExpenseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Manage expenses",
	}
	cmd.AddCommand(
		newExpenseListCmd(opts),
		newExpenseAddCmd(opts),
		newExpenseStateCmd(opts, "pay", "Pay an expense from the principal account", "Despesa paga"),
		newExpenseStateCmd(opts, "revert", "Revert a paid expense, refunding the principal account", "Pagamento revertido"),
		newExpenseDeleteCmd(opts),
	)
	return cmd
}

func newExpenseListCmd(opts *rootOptions) *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			var (
				expenses []core.Expense
				err      error
			)
			if cmd.Flags().Changed("year") || cmd.Flags().Changed("month") {
				expenses, err = a.ledger.ExpensesByPeriod(cmd.Context(), year, month)
			} else {
				expenses, err = a.ledger.ListExpenses(cmd.Context())
			}
			if err != nil {
				return err
			}
			return emit(cmd, opts, expenses, func() string {
				md := format.ExpensesMarkdown(expenses)
				if year > 0 && month > 0 {
					md = fmt.Sprintf("## %s de %d\n\n%s", format.MonthName(month), year, md)
				}
				return md
			})
		}),
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only expenses of this year")
	cmd.Flags().IntVar(&month, "month", 0, "Only expenses of this month (1-12, needs --year)")
	return cmd
}

func newExpenseAddCmd(opts *rootOptions) *cobra.Command {
	var description, category, amount, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pending expense",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			value, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			d, err := parseDateFlag(date)
			if err != nil {
				return err
			}
			expense, err := a.ledger.AddExpense(cmd.Context(), core.ExpenseInput{
				Date:        d,
				Description: description,
				Category:    category,
				Amount:      value,
			})
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, expense, nil)
			}
			return done(cmd, opts, expense.ID, fmt.Sprintf("Despesa adicionada: %s %s (%s)",
				expense.Description, format.BRL(expense.Amount), expense.ID))
		}),
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&category, "category", "", "One of: "+strings.Join(core.ExpenseCategories, ", "))
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, e.g. 150,50")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

// newExpenseStateCmd builds pay and revert, which share their shape.
func newExpenseStateCmd(opts *rootOptions, use, short, message string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			var (
				expense core.Expense
				err     error
			)
			if use == "pay" {
				expense, err = a.ledger.PayExpense(cmd.Context(), args[0])
			} else {
				expense, err = a.ledger.RevertExpense(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, expense, nil)
			}
			return done(cmd, opts, expense.ID, fmt.Sprintf("%s: %s %s", message, expense.Description, format.BRL(expense.Amount)))
		}),
	}
}

func newExpenseDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an expense, refunding it first when paid",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.ledger.DeleteExpense(cmd.Context(), args[0]); err != nil {
				return err
			}
			return done(cmd, opts, args[0], "Despesa excluída")
		}),
	}
}
