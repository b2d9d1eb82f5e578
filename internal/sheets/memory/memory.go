// Package memory keeps exported tabs in memory, for local runs without a
// spreadsheet and for tests.
package memory

import (
	"context"
	"sort"
	"sync"

	ports "financas/internal/sheets"
)

// Ensure interface conformance
var _ ports.TabWriter = (*Writer)(nil)

type Writer struct {
	mu     sync.Mutex
	tabs   map[string][][]any
	writes int
}

func New() *Writer {
	return &Writer{tabs: make(map[string][][]any)}
}

// ReplaceTab stores a copy of the tab's rows.
func (w *Writer) ReplaceTab(_ context.Context, tab ports.Tab) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows := make([][]any, len(tab.Rows))
	for i, r := range tab.Rows {
		rows[i] = append([]any(nil), r...)
	}
	w.tabs[tab.Name] = rows
	w.writes++
	return nil
}

// Tab returns the rows last written to name.
func (w *Writer) Tab(name string) ([][]any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.tabs[name]
	return rows, ok
}

// Names lists the tabs written so far, sorted.
func (w *Writer) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.tabs))
	for n := range w.tabs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Writes counts ReplaceTab calls.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
