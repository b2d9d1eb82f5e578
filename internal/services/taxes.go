package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
)

// ListTaxes returns every tax, most recent first.
func (l *Ledger) ListTaxes(ctx context.Context) (taxes []core.Tax, err error) {
	defer func(start time.Time) { l.observe("list_taxes", start, err) }(time.Now())
	defer l.lock(ctx)()

	taxes, err = l.loadTaxes(ctx)
	if err != nil {
		return nil, err
	}
	return sortByDateDesc(taxes, taxDate), nil
}

// AddTax records a new pending tax.
func (l *Ledger) AddTax(ctx context.Context, in core.TaxInput) (tax core.Tax, err error) {
	defer func(start time.Time) { l.observe("add_tax", start, err) }(time.Now())
	if err := prepare(&in); err != nil {
		return core.Tax{}, err
	}

	defer l.lock(ctx)()

	taxes, err := l.loadTaxes(ctx)
	if err != nil {
		return core.Tax{}, err
	}
	tax = core.Tax{
		ID:          l.newID(),
		Type:        in.Type,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      core.TaxPending,
	}
	taxes = append(taxes, tax)

	if err := l.persist(ctx, write{core.KeyTaxes, taxes}); err != nil {
		return core.Tax{}, err
	}
	l.logger.InfoContext(ctx, "Tax added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldID, tax.ID,
		applog.FieldAmount, tax.Amount.String())
	return tax, nil
}

// PayTax marks the tax paid today and debits the principal bank, with the
// same preconditions as PayExpense.
func (l *Ledger) PayTax(ctx context.Context, id string) (tax core.Tax, err error) {
	defer func(start time.Time) { l.observe("pay_tax", start, err) }(time.Now())
	defer l.lock(ctx)()

	taxes, err := l.loadTaxes(ctx)
	if err != nil {
		return core.Tax{}, err
	}
	idx := indexOf(taxes, func(t core.Tax) bool { return t.ID == id })
	if idx < 0 {
		return core.Tax{}, notFound("tax", id)
	}
	if taxes[idx].IsPaid() {
		return core.Tax{}, fmt.Errorf("tax %q: %w", id, core.ErrAlreadyPaid)
	}

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return core.Tax{}, err
	}
	p := principalIndex(banks)
	if p < 0 {
		return core.Tax{}, fmt.Errorf("pay tax %q: %w", id, core.ErrNoPrincipalAccount)
	}
	if banks[p].Balance.LessThan(taxes[idx].Amount) {
		return core.Tax{}, fmt.Errorf("pay tax %q: balance %s below %s: %w",
			id, banks[p].Balance, taxes[idx].Amount, core.ErrInsufficientFunds)
	}

	today := l.today()
	taxes[idx].Status = core.TaxPaid
	taxes[idx].PaidDate = &today
	banks[p].Balance = banks[p].Balance.Sub(taxes[idx].Amount)

	if err := l.persist(ctx, write{core.KeyTaxes, taxes}, write{core.KeyBanks, banks}); err != nil {
		return core.Tax{}, err
	}
	l.logger.InfoContext(ctx, "Tax paid",
		applog.FieldOperation, applog.OpPay,
		applog.FieldID, id,
		applog.FieldBankID, banks[p].ID,
		applog.FieldBalance, banks[p].Balance.String())
	return taxes[idx], nil
}

// RevertTax returns a paid tax to pending and credits the principal bank.
func (l *Ledger) RevertTax(ctx context.Context, id string) (tax core.Tax, err error) {
	defer func(start time.Time) { l.observe("revert_tax", start, err) }(time.Now())
	defer l.lock(ctx)()

	taxes, err := l.loadTaxes(ctx)
	if err != nil {
		return core.Tax{}, err
	}
	idx := indexOf(taxes, func(t core.Tax) bool { return t.ID == id })
	if idx < 0 {
		return core.Tax{}, notFound("tax", id)
	}
	if !taxes[idx].IsPaid() {
		return core.Tax{}, fmt.Errorf("tax %q: %w", id, core.ErrNotPaid)
	}

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return core.Tax{}, err
	}
	p, err := refundTaxAt(taxes, banks, idx)
	if err != nil {
		return core.Tax{}, err
	}

	if err := l.persist(ctx, write{core.KeyTaxes, taxes}, write{core.KeyBanks, banks}); err != nil {
		return core.Tax{}, err
	}
	l.logger.InfoContext(ctx, "Tax payment reverted",
		applog.FieldOperation, applog.OpRevert,
		applog.FieldID, id,
		applog.FieldBankID, banks[p].ID,
		applog.FieldBalance, banks[p].Balance.String())
	return taxes[idx], nil
}

func refundTaxAt(taxes []core.Tax, banks []core.Bank, idx int) (int, error) {
	p := principalIndex(banks)
	if p < 0 {
		return -1, fmt.Errorf("refund tax %q: %w", taxes[idx].ID, core.ErrNoPrincipalAccount)
	}
	taxes[idx].Status = core.TaxPending
	taxes[idx].PaidDate = nil
	banks[p].Balance = banks[p].Balance.Add(taxes[idx].Amount)
	return p, nil
}

// DeleteTax removes a tax. A paid tax is refunded to the principal bank
// first; without a principal bank the tax is kept and the call fails.
func (l *Ledger) DeleteTax(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_tax", start, err) }(time.Now())
	defer l.lock(ctx)()

	taxes, err := l.loadTaxes(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(taxes, func(t core.Tax) bool { return t.ID == id })
	if idx < 0 {
		return notFound("tax", id)
	}

	var writes []write
	wasPaid := taxes[idx].IsPaid()
	if wasPaid {
		banks, err := l.loadBanks(ctx)
		if err != nil {
			return err
		}
		if _, err := refundTaxAt(taxes, banks, idx); err != nil {
			return err
		}
		writes = append(writes, write{core.KeyBanks, banks})
	}
	taxes = append(taxes[:idx], taxes[idx+1:]...)
	writes = append(writes, write{core.KeyTaxes, taxes})

	if err := l.persist(ctx, writes...); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Tax deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldID, id,
		"refunded", wasPaid)
	return nil
}

func taxDate(t core.Tax) core.Date { return t.Date }
