package sheets

import (
	"slices"

	"github.com/shopspring/decimal"

	"financas/internal/core"
	"financas/internal/format"
)

// Tab names, one per collection plus the summary.
const (
	TabBanks       = "Bancos"
	TabExpenses    = "Despesas"
	TabMovements   = "Movimentações"
	TabInvestments = "Investimentos"
	TabTaxes       = "Impostos"
	TabSummary     = "Resumo"
)

var tabForCollection = map[string]string{
	core.KeyBanks:       TabBanks,
	core.KeyExpenses:    TabExpenses,
	core.KeyMovements:   TabMovements,
	core.KeyInvestments: TabInvestments,
	core.KeyTaxes:       TabTaxes,
}

// TabsFor builds the tabs affected by a change to the given collections.
// No collections means every tab. The summary tab is always included.
func TabsFor(snap core.Snapshot, collections ...string) []Tab {
	if len(collections) == 0 {
		collections = core.Collections
	}
	var tabs []Tab
	for _, key := range core.Collections {
		if !slices.Contains(collections, key) {
			continue
		}
		switch key {
		case core.KeyBanks:
			tabs = append(tabs, BanksTab(snap.Banks))
		case core.KeyExpenses:
			tabs = append(tabs, ExpensesTab(snap.Expenses))
		case core.KeyMovements:
			tabs = append(tabs, MovementsTab(snap.Movements))
		case core.KeyInvestments:
			tabs = append(tabs, InvestmentsTab(snap.Investments))
		case core.KeyTaxes:
			tabs = append(tabs, TaxesTab(snap.Taxes))
		}
	}
	return append(tabs, SummaryTab(snap))
}

// TabName returns the tab a collection is exported to.
func TabName(collection string) (string, bool) {
	name, ok := tabForCollection[collection]
	return name, ok
}

func BanksTab(banks []core.Bank) Tab {
	rows := [][]any{{"ID", "Nome", "Saldo", "Principal"}}
	for _, b := range banks {
		rows = append(rows, []any{b.ID, b.Name, number(b.Balance), yesNo(b.IsPrincipal)})
	}
	return Tab{Name: TabBanks, Rows: rows}
}

func ExpensesTab(expenses []core.Expense) Tab {
	rows := [][]any{{"ID", "Data", "Descrição", "Categoria", "Valor", "Pago", "Data de pagamento"}}
	for _, e := range expenses {
		rows = append(rows, []any{
			e.ID, e.Date.String(), e.Description, e.Category,
			number(e.Amount), yesNo(e.IsPaid), paidDate(e.PaidDate),
		})
	}
	return Tab{Name: TabExpenses, Rows: rows}
}

func MovementsTab(movements []core.MovementView) Tab {
	rows := [][]any{{"ID", "Data", "Descrição", "Tipo", "Valor", "Banco"}}
	for _, m := range movements {
		rows = append(rows, []any{
			m.ID, m.Date.String(), m.Description, string(m.Type),
			number(m.Delta()), m.BankName,
		})
	}
	return Tab{Name: TabMovements, Rows: rows}
}

func InvestmentsTab(investments []core.Investment) Tab {
	rows := [][]any{{"ID", "Data", "Descrição", "Tipo", "Categoria", "Valor"}}
	for _, i := range investments {
		rows = append(rows, []any{
			i.ID, i.Date.String(), i.Description, string(i.Type),
			i.Category, number(i.Signed()),
		})
	}
	return Tab{Name: TabInvestments, Rows: rows}
}

func TaxesTab(taxes []core.Tax) Tab {
	rows := [][]any{{"ID", "Tipo", "Data", "Descrição", "Valor", "Status", "Data de pagamento"}}
	for _, t := range taxes {
		rows = append(rows, []any{
			t.ID, t.Type, t.Date.String(), t.Description,
			number(t.Amount), string(t.Status), paidDate(t.PaidDate),
		})
	}
	return Tab{Name: TabTaxes, Rows: rows}
}

// SummaryTab lists the dashboard totals computed from the snapshot.
func SummaryTab(snap core.Snapshot) Tab {
	s := core.Summarize(snap.Banks, snap.Expenses, snap.Taxes, snap.Investments)
	rows := [][]any{
		{"Indicador", "Valor", "Exibição"},
		summaryRow("Saldo total", s.TotalBalance),
		summaryRow("Conta principal", s.PrincipalBalance),
		summaryRow("Despesas pendentes", s.PendingExpenses),
		summaryRow("Impostos pendentes", s.PendingTaxes),
		summaryRow("Investimentos líquidos", s.NetInvestments),
		summaryRow("Disponível", s.Available),
	}
	return Tab{Name: TabSummary, Rows: rows}
}

func summaryRow(label string, d decimal.Decimal) []any {
	return []any{label, number(d), format.BRL(d)}
}

// number hands the API a plain number so the sheet keeps numeric cells.
func number(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func paidDate(d *core.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
