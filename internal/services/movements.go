package services

import (
	"context"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
)

// ListMovements returns every movement, most recent first, with the current
// name of its bank.
func (l *Ledger) ListMovements(ctx context.Context) (views []core.MovementView, err error) {
	defer func(start time.Time) { l.observe("list_movements", start, err) }(time.Now())
	defer l.lock(ctx)()

	movements, err := l.loadMovements(ctx)
	if err != nil {
		return nil, err
	}
	banks, err := l.loadBanks(ctx)
	if err != nil {
		return nil, err
	}
	return annotateMovements(movements, banks), nil
}

// annotateMovements joins movements to bank names. The result is sorted
// most recent first.
func annotateMovements(movements []core.Movement, banks []core.Bank) []core.MovementView {
	names := make(map[string]string, len(banks))
	for _, b := range banks {
		names[b.ID] = b.Name
	}
	views := make([]core.MovementView, 0, len(movements))
	for _, m := range sortByDateDesc(movements, movementDate) {
		name, ok := names[m.BankID]
		if !ok {
			name = core.BankNotFoundLabel
		}
		views = append(views, core.MovementView{Movement: m, BankName: name})
	}
	return views
}

// AddMovement records a credit or debit and applies it to the bank's balance
// in the same save.
func (l *Ledger) AddMovement(ctx context.Context, in core.MovementInput) (view core.MovementView, err error) {
	defer func(start time.Time) { l.observe("add_movement", start, err) }(time.Now())
	if err := prepare(&in); err != nil {
		return core.MovementView{}, err
	}

	defer l.lock(ctx)()

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return core.MovementView{}, err
	}
	bankIdx := indexOf(banks, func(b core.Bank) bool { return b.ID == in.BankID })
	if bankIdx < 0 {
		return core.MovementView{}, notFound("bank", in.BankID)
	}
	movements, err := l.loadMovements(ctx)
	if err != nil {
		return core.MovementView{}, err
	}

	m := core.Movement{
		ID:          l.newID(),
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		BankID:      in.BankID,
	}
	movements = append(movements, m)
	adjustBankBalance(banks, m.BankID, m.Delta())

	if err := l.persist(ctx, write{core.KeyMovements, movements}, write{core.KeyBanks, banks}); err != nil {
		return core.MovementView{}, err
	}
	l.logger.InfoContext(ctx, "Movement added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldID, m.ID,
		applog.FieldBankID, m.BankID,
		applog.FieldAmount, m.Delta().String(),
		applog.FieldBalance, banks[bankIdx].Balance.String())
	return core.MovementView{Movement: m, BankName: banks[bankIdx].Name}, nil
}

// DeleteMovement reverses the movement's effect on its bank, when the bank
// still exists, and removes the record.
func (l *Ledger) DeleteMovement(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_movement", start, err) }(time.Now())
	defer l.lock(ctx)()

	movements, err := l.loadMovements(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(movements, func(m core.Movement) bool { return m.ID == id })
	if idx < 0 {
		return notFound("movement", id)
	}
	banks, err := l.loadBanks(ctx)
	if err != nil {
		return err
	}

	m := movements[idx]
	var writes []write
	if adjustBankBalance(banks, m.BankID, m.Delta().Neg()) {
		writes = append(writes, write{core.KeyBanks, banks})
	}
	movements = append(movements[:idx], movements[idx+1:]...)
	writes = append(writes, write{core.KeyMovements, movements})

	if err := l.persist(ctx, writes...); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Movement deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldID, id,
		applog.FieldBankID, m.BankID,
		"bank_adjusted", len(writes) > 1)
	return nil
}

func movementDate(m core.Movement) core.Date { return m.Date }
