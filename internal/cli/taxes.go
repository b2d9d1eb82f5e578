package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
	applog "financas/internal/log"
)

func newTaxCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tax",
		Aliases: []string{"taxes"},
		Short:   "Manage taxes",
	}
	cmd.AddCommand(
		newTaxListCmd(opts),
		newTaxAddCmd(opts),
		newTaxStateCmd(opts, "pay", "Pay a tax from the principal account", "Imposto pago"),
		newTaxStateCmd(opts, "revert", "Revert a paid tax, refunding the principal account", "Pagamento revertido"),
		newTaxDeleteCmd(opts),
	)
	return cmd
}

func newTaxListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List taxes, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			taxes, err := a.ledger.ListTaxes(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, opts, taxes, func() string { return format.TaxesMarkdown(taxes) })
		}),
	}
}

func newTaxAddCmd(opts *rootOptions) *cobra.Command {
	var kind, amount, description, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pending tax",
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
			tax, err := a.ledger.AddTax(cmd.Context(), core.TaxInput{
				Type:        kind,
				Date:        d,
				Amount:      value,
				Description: description,
			})
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, tax, nil)
			}
			return done(cmd, opts, tax.ID, fmt.Sprintf("Imposto adicionado: %s %s (%s)",
				tax.Type, format.BRL(tax.Amount), tax.ID))
		}),
	}
	cmd.Flags().StringVar(&kind, "type", "", "One of: "+strings.Join(core.TaxTypes, ", "))
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, e.g. 70,60")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&date, "date", "", "Due date as YYYY-MM-DD (default today)")
	for _, f := range []string{"type", "amount", "description"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newTaxStateCmd(opts *rootOptions, use, short, message string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			var (
				tax core.Tax
				err error
			)
			if use == "pay" {
				tax, err = a.ledger.PayTax(cmd.Context(), args[0])
			} else {
				tax, err = a.ledger.RevertTax(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, tax, nil)
			}
			return done(cmd, opts, tax.ID, fmt.Sprintf("%s: %s %s", message, tax.Type, format.BRL(tax.Amount)))
		}),
	}
}

func newTaxDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tax, refunding it first when paid",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.ledger.DeleteTax(cmd.Context(), args[0]); err != nil {
				return err
			}
			return done(cmd, opts, args[0], "Imposto excluído")
		}),
	}
}
