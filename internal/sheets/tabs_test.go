package sheets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"financas/internal/core"
	"financas/internal/sheets"
	"financas/internal/sheets/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleSnapshot() core.Snapshot {
	paid := core.NewDate(2025, 4, 21)
	return core.Snapshot{
		Banks: []core.Bank{
			{ID: "b1", Name: "Nubank", Balance: dec("849.50"), IsPrincipal: true},
			{ID: "b2", Name: "Caixa", Balance: dec("100")},
		},
		Expenses: []core.Expense{
			{ID: "e1", Date: core.NewDate(2025, 4, 10), Description: "Luz", Category: "Luz", Amount: dec("150.50"), IsPaid: true, PaidDate: &paid},
			{ID: "e2", Date: core.NewDate(2025, 4, 12), Description: "Mercado", Category: "Mercado", Amount: dec("200")},
		},
		Movements: []core.MovementView{
			{Movement: core.Movement{ID: "m1", Date: core.NewDate(2025, 4, 2), Description: "Pix", Amount: dec("30"), Type: core.Debit, BankID: "gone"}, BankName: core.BankNotFoundLabel},
		},
		Investments: []core.Investment{
			{ID: "i1", Date: core.NewDate(2025, 4, 3), Description: "Aporte", Amount: dec("500"), Type: core.Deposit, Category: "CDB"},
			{ID: "i2", Date: core.NewDate(2025, 4, 4), Description: "Resgate", Amount: dec("100"), Type: core.Withdrawal, Category: "CDB"},
		},
		Taxes: []core.Tax{
			{ID: "t1", Type: "DAS", Date: core.NewDate(2025, 4, 20), Description: "DAS abril", Amount: dec("70.60"), Status: core.TaxPending},
		},
	}
}

func TestTabsForSelectedCollections(t *testing.T) {
	tabs := sheets.TabsFor(sampleSnapshot(), core.KeyTaxes, core.KeyBanks)
	var names []string
	for _, tab := range tabs {
		names = append(names, tab.Name)
	}
	want := []string{sheets.TabBanks, sheets.TabTaxes, sheets.TabSummary}
	if len(names) != len(want) {
		t.Fatalf("tabs = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tabs = %v, want %v", names, want)
		}
	}

	if all := sheets.TabsFor(sampleSnapshot()); len(all) != len(core.Collections)+1 {
		t.Fatalf("expected every tab, got %d", len(all))
	}
}

func TestRowsCarrySignedNumbers(t *testing.T) {
	snap := sampleSnapshot()

	mov := sheets.MovementsTab(snap.Movements)
	if got := mov.Rows[1][4]; got != -30.0 {
		t.Errorf("debit movement value = %v, want -30", got)
	}
	if got := mov.Rows[1][5]; got != core.BankNotFoundLabel {
		t.Errorf("bank name = %v", got)
	}

	inv := sheets.InvestmentsTab(snap.Investments)
	if got := inv.Rows[2][5]; got != -100.0 {
		t.Errorf("withdrawal value = %v, want -100", got)
	}

	exp := sheets.ExpensesTab(snap.Expenses)
	if exp.Rows[1][5] != "Sim" || exp.Rows[1][6] != "2025-04-21" {
		t.Errorf("paid expense row = %v", exp.Rows[1])
	}
	if exp.Rows[2][5] != "Não" || exp.Rows[2][6] != "" {
		t.Errorf("pending expense row = %v", exp.Rows[2])
	}
}

func TestSummaryTab(t *testing.T) {
	tab := sheets.SummaryTab(sampleSnapshot())
	// 949.50 total minus 200 pending expense minus 70.60 pending tax.
	last := tab.Rows[len(tab.Rows)-1]
	if last[0] != "Disponível" || last[1] != 678.9 {
		t.Fatalf("available row = %v", last)
	}
}

type fakeSource struct {
	snap core.Snapshot
	err  error
}

func (f fakeSource) Snapshot(context.Context) (core.Snapshot, error) { return f.snap, f.err }

func TestExporterWritesTabs(t *testing.T) {
	w := memory.New()
	exp := sheets.NewExporter(fakeSource{snap: sampleSnapshot()}, w, nil)

	if err := exp.Export(context.Background(), core.KeyExpenses); err != nil {
		t.Fatalf("export: %v", err)
	}
	rows, ok := w.Tab(sheets.TabExpenses)
	if !ok || len(rows) != 3 {
		t.Fatalf("expenses tab = %v", rows)
	}
	if _, ok := w.Tab(sheets.TabBanks); ok {
		t.Error("banks tab should not be written for an expenses change")
	}
	if _, ok := w.Tab(sheets.TabSummary); !ok {
		t.Error("summary tab should always be written")
	}
}

func TestExporterSnapshotError(t *testing.T) {
	w := memory.New()
	exp := sheets.NewExporter(fakeSource{err: core.ErrStorage}, w, nil)

	err := exp.Export(context.Background())
	if !errors.Is(err, core.ErrStorage) {
		t.Fatalf("error = %v, want storage error", err)
	}
	if w.Writes() != 0 {
		t.Errorf("nothing should be written, got %d writes", w.Writes())
	}
}
