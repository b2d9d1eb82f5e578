package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
	applog "financas/internal/log"
)

func newInvestmentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "investment",
		Aliases: []string{"investments"},
		Short:   "Record investment deposits and withdrawals",
	}
	cmd.AddCommand(newInvestmentListCmd(opts), newInvestmentAddCmd(opts), newInvestmentDeleteCmd(opts))
	return cmd
}

func newInvestmentListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List investments, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			investments, err := a.ledger.ListInvestments(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, opts, investments, func() string { return format.InvestmentsMarkdown(investments) })
		}),
	}
}

func newInvestmentAddCmd(opts *rootOptions) *cobra.Command {
	var kind, category, amount, description, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a deposit or withdrawal",
		Long:  "Record a deposit or withdrawal. Bank balances are not touched.",
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
			inv, err := a.ledger.AddInvestment(cmd.Context(), core.InvestmentInput{
				Date:        d,
				Description: description,
				Amount:      value,
				Type:        core.InvestmentType(kind),
				Category:    category,
			})
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, inv, nil)
			}
			return done(cmd, opts, inv.ID, fmt.Sprintf("Investimento registrado: %s %s (%s)",
				inv.Category, format.BRL(inv.Signed()), inv.ID))
		}),
	}
	cmd.Flags().StringVar(&kind, "type", "", "deposit or withdrawal")
	cmd.Flags().StringVar(&category, "category", "", "One of: "+strings.Join(core.InvestmentCategories, ", "))
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, e.g. 500,00")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	for _, f := range []string{"type", "category", "amount", "description"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newInvestmentDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an investment record",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.ledger.DeleteInvestment(cmd.Context(), args[0]); err != nil {
				return err
			}
			return done(cmd, opts, args[0], "Investimento excluído")
		}),
	}
}
