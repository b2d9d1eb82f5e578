package sheets

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
)

// SnapshotSource is the read side the exporter needs from the ledger.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (core.Snapshot, error)
}

// Exporter rewrites spreadsheet tabs from fresh ledger snapshots.
type Exporter struct {
	source SnapshotSource
	writer TabWriter
	logger *applog.Logger
}

func NewExporter(source SnapshotSource, writer TabWriter, logger *applog.Logger) *Exporter {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Exporter{
		source: source,
		writer: writer,
		logger: logger.WithComponent(applog.ComponentSheets),
	}
}

// Export reads one snapshot and replaces the tabs of the given collections.
// Unknown collection names are ignored. It stops at the first failed tab.
func (e *Exporter) Export(ctx context.Context, collections ...string) error {
	start := time.Now()
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	tabs := TabsFor(snap, collections...)
	for _, tab := range tabs {
		if err := e.writer.ReplaceTab(ctx, tab); err != nil {
			return fmt.Errorf("write tab %s: %w", tab.Name, err)
		}
	}
	e.logger.InfoContext(ctx, "Snapshot exported",
		applog.FieldOperation, applog.OpExport,
		"tabs", len(tabs),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}
