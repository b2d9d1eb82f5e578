package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
	applog "financas/internal/log"
)

func newMovementCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movement",
		Aliases: []string{"movements"},
		Short:   "Manage manual credits and debits on a bank account",
	}
	cmd.AddCommand(newMovementListCmd(opts), newMovementAddCmd(opts), newMovementDeleteCmd(opts))
	return cmd
}

func newMovementListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List movements, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			movements, err := a.ledger.ListMovements(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, opts, movements, func() string { return format.MovementsMarkdown(movements) })
		}),
	}
}

func newMovementAddCmd(opts *rootOptions) *cobra.Command {
	var bankID, kind, amount, description, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Credit or debit a bank account",
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
			movement, err := a.ledger.AddMovement(cmd.Context(), core.MovementInput{
				Date:        d,
				Description: description,
				Amount:      value,
				Type:        core.MovementType(kind),
				BankID:      bankID,
			})
			if err != nil {
				return err
			}
			if opts.json() {
				return emit(cmd, opts, movement, nil)
			}
			return done(cmd, opts, movement.ID, fmt.Sprintf("Movimentação registrada em %s: %s (%s)",
				movement.BankName, format.BRL(movement.Delta()), movement.ID))
		}),
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "Bank account ID")
	cmd.Flags().StringVar(&kind, "type", "", "credit or debit")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, e.g. 80,00")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	for _, f := range []string{"bank", "type", "amount", "description"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newMovementDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a movement, undoing its effect on the bank balance",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.ledger.DeleteMovement(cmd.Context(), args[0]); err != nil {
				return err
			}
			return done(cmd, opts, args[0], "Movimentação excluída")
		}),
	}
}
