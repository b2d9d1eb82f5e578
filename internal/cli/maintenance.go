package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	applog "financas/internal/log"
)

var errResetNotConfirmed = errors.New("refusing to erase every record without --yes")

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every bank, expense, movement, investment and tax",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if !yes {
				return errResetNotConfirmed
			}
			return nil
		},
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			a.ledger.ClearAllData(cmd.Context())
			return done(cmd, opts, "", "Todos os dados foram apagados")
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func newSelfTestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Add and delete throwaway records to check storage round trips",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			report := a.ledger.RunSelfTest(cmd.Context())
			if opts.json() {
				return emit(cmd, opts, report, nil)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exclusão de banco: %s\n", passFail(report.BankDeleted))
			fmt.Fprintf(out, "Exclusão de despesa: %s\n", passFail(report.ExpenseDeleted))
			if !report.BankDeleted || !report.ExpenseDeleted {
				return errors.New("self-test failed")
			}
			return nil
		}),
	}
}

func passFail(ok bool) string {
	if ok {
		return "OK"
	}
	return "FALHOU"
}
