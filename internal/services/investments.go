package services

import (
	"context"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
)

// ListInvestments returns every investment, most recent first.
func (l *Ledger) ListInvestments(ctx context.Context) (investments []core.Investment, err error) {
	defer func(start time.Time) { l.observe("list_investments", start, err) }(time.Now())
	defer l.lock(ctx)()

	investments, err = l.loadInvestments(ctx)
	if err != nil {
		return nil, err
	}
	return sortByDateDesc(investments, investmentDate), nil
}

// AddInvestment records a deposit or withdrawal. Banks are not touched.
func (l *Ledger) AddInvestment(ctx context.Context, in core.InvestmentInput) (inv core.Investment, err error) {
	defer func(start time.Time) { l.observe("add_investment", start, err) }(time.Now())
	if err := prepare(&in); err != nil {
		return core.Investment{}, err
	}

	defer l.lock(ctx)()

	investments, err := l.loadInvestments(ctx)
	if err != nil {
		return core.Investment{}, err
	}
	inv = core.Investment{
		ID:          l.newID(),
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
	}
	investments = append(investments, inv)

	if err := l.persist(ctx, write{core.KeyInvestments, investments}); err != nil {
		return core.Investment{}, err
	}
	l.logger.InfoContext(ctx, "Investment added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldID, inv.ID,
		applog.FieldAmount, inv.Signed().String())
	return inv, nil
}

func (l *Ledger) DeleteInvestment(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_investment", start, err) }(time.Now())
	defer l.lock(ctx)()

	investments, err := l.loadInvestments(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(investments, func(i core.Investment) bool { return i.ID == id })
	if idx < 0 {
		return notFound("investment", id)
	}
	investments = append(investments[:idx], investments[idx+1:]...)

	if err := l.persist(ctx, write{core.KeyInvestments, investments}); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Investment deleted", applog.FieldOperation, applog.OpDelete, applog.FieldID, id)
	return nil
}

func investmentDate(i core.Investment) core.Date { return i.Date }
