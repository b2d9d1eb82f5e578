// Package format holds stateless presentation helpers: Brazilian currency
// and date display, and Markdown reports rendered for the terminal.
package format

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// DisplayDateLayout is the pt-BR day/month/year layout.
const DisplayDateLayout = "02/01/2006"

// BRL formats d as Brazilian reais, e.g. R$1.234,56.
func BRL(d decimal.Decimal) string {
	return money.New(core.Cents(d), money.BRL).Display()
}

// Date formats d as DD/MM/YYYY, or "-" for the zero date.
func Date(d core.Date) string {
	if d.IsEmpty() {
		return "-"
	}
	return d.Format(DisplayDateLayout)
}

// PaidDate formats an optional paid date.
func PaidDate(d *core.Date) string {
	if d == nil {
		return "-"
	}
	return Date(*d)
}

// MonthName returns the pt-BR name of month 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}
