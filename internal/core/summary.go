package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ReserveRatio is the share of the available balance kept as emergency reserve.
var ReserveRatio = decimal.New(2, -1)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary holds the aggregate figures shown on the dashboard.
type Summary struct {
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	PrincipalBalance decimal.Decimal `json:"principalBalance"`
	PendingExpenses  decimal.Decimal `json:"pendingExpenses"`
	PendingTaxes     decimal.Decimal `json:"pendingTaxes"`
	NetInvestments   decimal.Decimal `json:"netInvestments"`
	Available        decimal.Decimal `json:"available"`
}

// Suggestions are the spend guidelines derived from the available balance.
type Suggestions struct {
	EmergencyReserve decimal.Decimal `json:"emergencyReserve"`
	Spendable        decimal.Decimal `json:"spendable"`
	Daily            decimal.Decimal `json:"dailySuggestion"`
	Weekly           decimal.Decimal `json:"weeklySuggestion"`
	RemainingDays    int             `json:"remainingDays"`
}

// Overview is the dashboard read model.
type Overview struct {
	Date        Date             `json:"date"`
	Summary     Summary          `json:"summary"`
	ByCategory  []CategoryAmount `json:"byCategory"`
	Suggestions Suggestions      `json:"suggestions"`
}

// Summarize computes the aggregate totals. Available is the total balance
// minus every pending expense and pending tax.
func Summarize(banks []Bank, expenses []Expense, taxes []Tax, investments []Investment) Summary {
	var s Summary
	for _, b := range banks {
		s.TotalBalance = s.TotalBalance.Add(b.Balance)
		if b.IsPrincipal {
			s.PrincipalBalance = b.Balance
		}
	}
	for _, e := range expenses {
		if !e.IsPaid {
			s.PendingExpenses = s.PendingExpenses.Add(e.Amount)
		}
	}
	for _, t := range taxes {
		if !t.IsPaid() {
			s.PendingTaxes = s.PendingTaxes.Add(t.Amount)
		}
	}
	for _, i := range investments {
		s.NetInvestments = s.NetInvestments.Add(i.Signed())
	}
	s.Available = s.TotalBalance.Sub(s.PendingExpenses).Sub(s.PendingTaxes)
	return s
}

// Suggest derives the spend suggestions for today. Money outputs never go
// below zero and at least one day (today) always remains.
func Suggest(available decimal.Decimal, today Date) Suggestions {
	remaining := today.DaysInMonth() - today.Day() + 1
	if remaining < 1 {
		remaining = 1
	}
	reserve := available.Mul(ReserveRatio)
	spendable := available.Sub(reserve)
	daily := spendable.Div(decimal.NewFromInt(int64(remaining)))
	weekly := daily.Mul(decimal.NewFromInt(7))
	return Suggestions{
		EmergencyReserve: floorZero(reserve),
		Spendable:        floorZero(spendable),
		Daily:            floorZero(daily),
		Weekly:           floorZero(weekly),
		RemainingDays:    remaining,
	}
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ExpensesByCategory totals expenses per category, largest first. Ties keep
// the category order of ExpenseCategories; unknown categories sort last.
func ExpensesByCategory(expenses []Expense) []CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range expenses {
		if _, ok := totals[e.Category]; !ok {
			order = append(order, e.Category)
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	rank := func(name string) int {
		for i, c := range ExpenseCategories {
			if c == name {
				return i
			}
		}
		return len(ExpenseCategories)
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return rank(out[i].Name) < rank(out[j].Name)
	})
	return out
}

// FilterExpensesByPeriod keeps expenses dated in year and, when month is in
// 1..12, in that month. Month 0 selects the whole year.
func FilterExpensesByPeriod(expenses []Expense, year, month int) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.Year() != year {
			continue
		}
		if month != 0 && e.Date.Month() != month {
			continue
		}
		out = append(out, e)
	}
	return out
}
