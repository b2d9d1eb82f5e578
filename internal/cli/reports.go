package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
	applog "financas/internal/log"
)

func newOverviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show balances, pending amounts, spending by category and suggestions",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			ov, err := a.ledger.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, opts, ov, func() string { return format.OverviewMarkdown(ov) })
		}),
	}
}

func newSuggestCmd(opts *rootOptions) *cobra.Command {
	var available string
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a daily and weekly spend",
		Long: `Suggest a daily and weekly spend for the rest of the month. Without
--available the current available balance is used.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			var s core.Suggestions
			if available == "" {
				ov, err := a.ledger.Overview(cmd.Context())
				if err != nil {
					return err
				}
				s = ov.Suggestions
			} else {
				value, err := core.ParseSignedAmount(available)
				if err != nil {
					return &core.ValidationError{Fields: []string{"available"}}
				}
				s = a.ledger.ComputeSuggestions(value)
			}
			return emit(cmd, opts, s, func() string { return format.SuggestionsMarkdown(s) })
		}),
	}
	cmd.Flags().StringVar(&available, "available", "", "Available amount to plan with")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ledger data",
	}
	var file string
	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Write every collection as one JSON document",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentCLI, func(cmd *cobra.Command, a *app, _ []string) error {
			snap, err := a.ledger.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			if file != "" {
				a.logger.InfoContext(cmd.Context(), "Snapshot exported",
					applog.FieldOperation, applog.OpExport,
					"file", file)
			}
			return nil
		}),
	}
	jsonCmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")
	cmd.AddCommand(jsonCmd)
	return cmd
}
