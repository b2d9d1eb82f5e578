package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
	applog "financas/internal/log"
)

func newBankCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bank",
		Aliases: []string{"banks"},
		Short:   "Manage bank accounts",
	}
	cmd.AddCommand(newBankListCmd(opts), newBankAddCmd(opts), newBankDeleteCmd(opts))
	return cmd
}

func newBankListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bank accounts",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			banks, err := a.ledger.ListBanks(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, opts, banks, func() string { return format.BanksMarkdown(banks) })
		}),
	}
}

func newBankAddCmd(opts *rootOptions) *cobra.Command {
	var (
		name      string
		balance   string
		principal bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank account",
		Long: `Add a bank account with its opening balance. Marking it as principal
clears the flag on every other account.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			b, err := core.ParseSignedAmount(balance)
			if err != nil {
				return &core.ValidationError{Fields: []string{"balance"}}
			}
			bank, err := a.ledger.AddBank(cmd.Context(), core.BankInput{Name: name, Balance: &b, IsPrincipal: principal})
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, bank, nil)
			}
			return done(cmd, opts, bank.ID, fmt.Sprintf("Banco %q adicionado (%s)", bank.Name, bank.ID))
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Account name")
	cmd.Flags().StringVar(&balance, "balance", "0", "Opening balance, e.g. 1234,56")
	cmd.Flags().BoolVar(&principal, "principal", false, "Use this account for expense and tax payments")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newBankDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a bank account and its movements",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.ledger.DeleteBank(cmd.Context(), args[0]); err != nil {
				return err
			}
			return done(cmd, opts, args[0], "Banco excluído")
		}),
	}
}
