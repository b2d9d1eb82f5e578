package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"financas/internal/core"
)

type rootOptions struct {
	configPath string
	output     string
	width      int
}

// NewRootCmd builds the financas command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "financas",
		Short: "Personal finance ledger",
		Long: `financas keeps bank accounts, expenses, manual movements, investments
and taxes in one ledger. Paying an expense or a tax debits the principal
account; reverting or deleting it credits the amount back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML config file (default $FINANCAS_CONFIG)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")
	cmd.PersistentFlags().IntVar(&opts.width, "width", 100, "Word wrap width for text output")

	cmd.AddCommand(
		newServeCmd(opts),
		newBankCmd(opts),
		newExpenseCmd(opts),
		newMovementCmd(opts),
		newInvestmentCmd(opts),
		newTaxCmd(opts),
		newOverviewCmd(opts),
		newSuggestCmd(opts),
		newExportCmd(opts),
		newResetCmd(opts),
		newSelfTestCmd(opts),
	)
	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	LoadEnvFile()

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Erro:", errorMessage(err))
		return 1
	}
	return 0
}

// errorMessage shows ledger failures in the user's words and everything
// else (flags, configuration) verbatim.
func errorMessage(err error) string {
	if core.Kind(err) == "internal" {
		return err.Error()
	}
	return core.UserMessage(err)
}
