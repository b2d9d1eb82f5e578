package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"financas/internal/core"
)

// ComputeSuggestions derives the spend suggestions for the ledger's today.
func (l *Ledger) ComputeSuggestions(available decimal.Decimal) core.Suggestions {
	return core.Suggest(available, l.today())
}

// Overview loads the collections and returns the dashboard figures.
func (l *Ledger) Overview(ctx context.Context) (ov core.Overview, err error) {
	defer func(start time.Time) { l.observe("overview", start, err) }(time.Now())
	defer l.lock(ctx)()

	var (
		banks       []core.Bank
		expenses    []core.Expense
		taxes       []core.Tax
		investments []core.Investment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { banks, err = l.loadBanks(gctx); return err })
	g.Go(func() (err error) { expenses, err = l.loadExpenses(gctx); return err })
	g.Go(func() (err error) { taxes, err = l.loadTaxes(gctx); return err })
	g.Go(func() (err error) { investments, err = l.loadInvestments(gctx); return err })
	if err := g.Wait(); err != nil {
		return core.Overview{}, err
	}

	today := l.today()
	summary := core.Summarize(banks, expenses, taxes, investments)
	return core.Overview{
		Date:        today,
		Summary:     summary,
		ByCategory:  core.ExpensesByCategory(expenses),
		Suggestions: core.Suggest(summary.Available, today),
	}, nil
}

// Snapshot reads every collection, sorted for display, with movements
// annotated with bank names.
func (l *Ledger) Snapshot(ctx context.Context) (snap core.Snapshot, err error) {
	defer func(start time.Time) { l.observe("snapshot", start, err) }(time.Now())
	defer l.lock(ctx)()

	var movements []core.Movement
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Banks, err = l.loadBanks(gctx); return err })
	g.Go(func() (err error) { snap.Expenses, err = l.loadExpenses(gctx); return err })
	g.Go(func() (err error) { movements, err = l.loadMovements(gctx); return err })
	g.Go(func() (err error) { snap.Investments, err = l.loadInvestments(gctx); return err })
	g.Go(func() (err error) { snap.Taxes, err = l.loadTaxes(gctx); return err })
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}

	snap.Expenses = sortByDateDesc(snap.Expenses, expenseDate)
	snap.Movements = annotateMovements(movements, snap.Banks)
	snap.Investments = sortByDateDesc(snap.Investments, investmentDate)
	snap.Taxes = sortByDateDesc(snap.Taxes, taxDate)
	return snap, nil
}
