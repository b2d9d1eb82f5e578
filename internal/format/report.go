package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// Render turns Markdown into styled terminal output wrapped at width
// columns. A width of 0 keeps glamour's default.
func Render(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// OverviewMarkdown builds the dashboard report.
func OverviewMarkdown(ov core.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Resumo financeiro, %s\n\n", Date(ov.Date))

	s := ov.Summary
	b.WriteString("| | Valor |\n|---|---:|\n")
	row(&b, "Saldo total", BRL(s.TotalBalance))
	row(&b, "Conta principal", BRL(s.PrincipalBalance))
	row(&b, "Despesas pendentes", BRL(s.PendingExpenses))
	row(&b, "Impostos pendentes", BRL(s.PendingTaxes))
	row(&b, "Investimentos", BRL(s.NetInvestments))
	row(&b, "**Disponível**", "**"+BRL(s.Available)+"**")

	b.WriteString("\n## Sugestões\n\n")
	b.WriteString(SuggestionsMarkdown(ov.Suggestions))

	if len(ov.ByCategory) > 0 {
		b.WriteString("\n## Despesas por categoria\n\n| Categoria | Valor |\n|---|---:|\n")
		for _, c := range ov.ByCategory {
			row(&b, escape(c.Name), BRL(c.Amount))
		}
	}
	return b.String()
}

// SuggestionsMarkdown lists the spend suggestions.
func SuggestionsMarkdown(s core.Suggestions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Reserva de emergência: %s\n", BRL(s.EmergencyReserve))
	fmt.Fprintf(&b, "- Disponível para gastar: %s\n", BRL(s.Spendable))
	fmt.Fprintf(&b, "- Por dia: %s\n", BRL(s.Daily))
	fmt.Fprintf(&b, "- Por semana: %s\n", BRL(s.Weekly))
	fmt.Fprintf(&b, "- Dias restantes no mês: %d\n", s.RemainingDays)
	return b.String()
}

func BanksMarkdown(banks []core.Bank) string {
	var b strings.Builder
	b.WriteString("| ID | Banco | Saldo | Principal |\n|---|---|---:|:---:|\n")
	for _, bank := range banks {
		principal := ""
		if bank.IsPrincipal {
			principal = "✓"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", bank.ID, escape(bank.Name), BRL(bank.Balance), principal)
	}
	return b.String()
}

func ExpensesMarkdown(expenses []core.Expense) string {
	var b strings.Builder
	b.WriteString("| ID | Data | Descrição | Categoria | Valor | Pago em |\n|---|---|---|---|---:|---|\n")
	for _, e := range expenses {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			e.ID, Date(e.Date), escape(e.Description), escape(e.Category), BRL(e.Amount), PaidDate(e.PaidDate))
	}
	return b.String()
}

func MovementsMarkdown(movements []core.MovementView) string {
	var b strings.Builder
	b.WriteString("| ID | Data | Descrição | Banco | Valor |\n|---|---|---|---|---:|\n")
	for _, m := range movements {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			m.ID, Date(m.Date), escape(m.Description), escape(m.BankName), signed(m.Delta()))
	}
	return b.String()
}

func InvestmentsMarkdown(investments []core.Investment) string {
	var b strings.Builder
	b.WriteString("| ID | Data | Descrição | Categoria | Valor |\n|---|---|---|---|---:|\n")
	for _, i := range investments {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			i.ID, Date(i.Date), escape(i.Description), escape(i.Category), signed(i.Signed()))
	}
	return b.String()
}

func TaxesMarkdown(taxes []core.Tax) string {
	var b strings.Builder
	b.WriteString("| ID | Tipo | Data | Descrição | Valor | Situação |\n|---|---|---|---|---:|---|\n")
	for _, t := range taxes {
		status := "Pendente"
		if t.IsPaid() {
			status = "Pago em " + PaidDate(t.PaidDate)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			t.ID, escape(t.Type), Date(t.Date), escape(t.Description), BRL(t.Amount), status)
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + BRL(d)
	}
	return BRL(d)
}

// escape keeps user text from breaking a Markdown table row.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
