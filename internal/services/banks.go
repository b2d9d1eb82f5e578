package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/core"
	applog "financas/internal/log"
)

// ListBanks returns every bank in stored order.
func (l *Ledger) ListBanks(ctx context.Context) (banks []core.Bank, err error) {
	defer func(start time.Time) { l.observe("list_banks", start, err) }(time.Now())
	defer l.lock(ctx)()

	return l.loadBanks(ctx)
}

// AddBank creates a bank. A new principal bank takes the flag from every
// other bank.
func (l *Ledger) AddBank(ctx context.Context, in core.BankInput) (bank core.Bank, err error) {
	defer func(start time.Time) { l.observe("add_bank", start, err) }(time.Now())
	if err := prepare(&in); err != nil {
		return core.Bank{}, err
	}

	defer l.lock(ctx)()

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return core.Bank{}, err
	}
	if in.IsPrincipal {
		for i := range banks {
			banks[i].IsPrincipal = false
		}
	}
	bank = core.Bank{
		ID:          l.newID(),
		Name:        in.Name,
		Balance:     *in.Balance,
		IsPrincipal: in.IsPrincipal,
	}
	banks = append(banks, bank)

	if err := l.persist(ctx, write{core.KeyBanks, banks}); err != nil {
		return core.Bank{}, err
	}
	l.logger.InfoContext(ctx, "Bank added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldID, bank.ID,
		applog.FieldBalance, bank.Balance.String(),
		"principal", bank.IsPrincipal)
	return bank, nil
}

// DeleteBank removes a bank and every movement that references it. Other
// banks' balances are left alone.
func (l *Ledger) DeleteBank(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_bank", start, err) }(time.Now())
	defer l.lock(ctx)()

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(banks, func(b core.Bank) bool { return b.ID == id })
	if idx < 0 {
		return notFound("bank", id)
	}
	movements, err := l.loadMovements(ctx)
	if err != nil {
		return err
	}

	banks = append(banks[:idx], banks[idx+1:]...)
	kept := movements[:0]
	for _, m := range movements {
		if m.BankID != id {
			kept = append(kept, m)
		}
	}
	removed := len(movements) - len(kept)

	writes := []write{{core.KeyBanks, banks}}
	if removed > 0 {
		writes = append(writes, write{core.KeyMovements, kept})
	}
	if err := l.persist(ctx, writes...); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Bank deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldID, id,
		"movements_removed", removed)
	return nil
}

// adjustBankBalance adds delta to the bank's balance in place. It reports
// false, changing nothing, when no bank has that id.
func adjustBankBalance(banks []core.Bank, id string, delta decimal.Decimal) bool {
	idx := indexOf(banks, func(b core.Bank) bool { return b.ID == id })
	if idx < 0 {
		return false
	}
	banks[idx].Balance = banks[idx].Balance.Add(delta)
	return true
}
