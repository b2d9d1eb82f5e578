// Package sheets exports ledger snapshots to spreadsheet tabs.
package sheets

import "context"

// Ports for outbound adapters.
type (
	// TabWriter replaces the whole content of one tab, creating it when
	// missing.
	TabWriter interface {
		ReplaceTab(ctx context.Context, tab Tab) error
	}
)

// Tab is a named grid of cells. The first row is the header.
type Tab struct {
	Name string
	Rows [][]any
}
