package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
)

// ListExpenses returns every expense, most recent first.
func (l *Ledger) ListExpenses(ctx context.Context) (expenses []core.Expense, err error) {
	defer func(start time.Time) { l.observe("list_expenses", start, err) }(time.Now())
	defer l.lock(ctx)()

	expenses, err = l.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return sortByDateDesc(expenses, expenseDate), nil
}

// ExpensesByPeriod lists the expenses of one month, or of the whole year
// when month is 0.
func (l *Ledger) ExpensesByPeriod(ctx context.Context, year, month int) (expenses []core.Expense, err error) {
	defer func(start time.Time) { l.observe("expenses_by_period", start, err) }(time.Now())
	if year < 1 {
		return nil, &core.ValidationError{Fields: []string{"year"}}
	}
	if month < 0 || month > 12 {
		return nil, &core.ValidationError{Fields: []string{"month"}}
	}

	defer l.lock(ctx)()

	expenses, err = l.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return sortByDateDesc(core.FilterExpensesByPeriod(expenses, year, month), expenseDate), nil
}

// AddExpense records a new, unpaid expense.
func (l *Ledger) AddExpense(ctx context.Context, in core.ExpenseInput) (expense core.Expense, err error) {
	defer func(start time.Time) { l.observe("add_expense", start, err) }(time.Now())
	if err := prepare(&in); err != nil {
		return core.Expense{}, err
	}

	defer l.lock(ctx)()

	expenses, err := l.loadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	expense = core.Expense{
		ID:          l.newID(),
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
	}
	expenses = append(expenses, expense)

	if err := l.persist(ctx, write{core.KeyExpenses, expenses}); err != nil {
		return core.Expense{}, err
	}
	l.logger.InfoContext(ctx, "Expense added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldID, expense.ID,
		applog.FieldAmount, expense.Amount.String())
	return expense, nil
}

// PayExpense marks the expense paid today and debits the principal bank.
// Nothing changes when the principal bank cannot cover the amount.
func (l *Ledger) PayExpense(ctx context.Context, id string) (expense core.Expense, err error) {
	defer func(start time.Time) { l.observe("pay_expense", start, err) }(time.Now())
	defer l.lock(ctx)()

	expenses, err := l.loadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	idx := indexOf(expenses, func(e core.Expense) bool { return e.ID == id })
	if idx < 0 {
		return core.Expense{}, notFound("expense", id)
	}
	if expenses[idx].IsPaid {
		return core.Expense{}, fmt.Errorf("expense %q: %w", id, core.ErrAlreadyPaid)
	}

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	p := principalIndex(banks)
	if p < 0 {
		return core.Expense{}, fmt.Errorf("pay expense %q: %w", id, core.ErrNoPrincipalAccount)
	}
	if banks[p].Balance.LessThan(expenses[idx].Amount) {
		return core.Expense{}, fmt.Errorf("pay expense %q: balance %s below %s: %w",
			id, banks[p].Balance, expenses[idx].Amount, core.ErrInsufficientFunds)
	}

	today := l.today()
	expenses[idx].IsPaid = true
	expenses[idx].PaidDate = &today
	banks[p].Balance = banks[p].Balance.Sub(expenses[idx].Amount)

	if err := l.persist(ctx, write{core.KeyExpenses, expenses}, write{core.KeyBanks, banks}); err != nil {
		return core.Expense{}, err
	}
	l.logger.InfoContext(ctx, "Expense paid",
		applog.FieldOperation, applog.OpPay,
		applog.FieldID, id,
		applog.FieldBankID, banks[p].ID,
		applog.FieldBalance, banks[p].Balance.String())
	return expenses[idx], nil
}

// RevertExpense undoes a payment and credits the principal bank back.
func (l *Ledger) RevertExpense(ctx context.Context, id string) (expense core.Expense, err error) {
	defer func(start time.Time) { l.observe("revert_expense", start, err) }(time.Now())
	defer l.lock(ctx)()

	expenses, err := l.loadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	idx := indexOf(expenses, func(e core.Expense) bool { return e.ID == id })
	if idx < 0 {
		return core.Expense{}, notFound("expense", id)
	}
	if !expenses[idx].IsPaid {
		return core.Expense{}, fmt.Errorf("expense %q: %w", id, core.ErrNotPaid)
	}

	banks, err := l.loadBanks(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	p, err := revertExpenseAt(expenses, banks, idx)
	if err != nil {
		return core.Expense{}, err
	}

	if err := l.persist(ctx, write{core.KeyExpenses, expenses}, write{core.KeyBanks, banks}); err != nil {
		return core.Expense{}, err
	}
	l.logger.InfoContext(ctx, "Expense payment reverted",
		applog.FieldOperation, applog.OpRevert,
		applog.FieldID, id,
		applog.FieldBankID, banks[p].ID,
		applog.FieldBalance, banks[p].Balance.String())
	return expenses[idx], nil
}

// revertExpenseAt clears the paid state of expenses[idx] and credits the
// principal bank, returning its index.
func revertExpenseAt(expenses []core.Expense, banks []core.Bank, idx int) (int, error) {
	p := principalIndex(banks)
	if p < 0 {
		return -1, fmt.Errorf("revert expense %q: %w", expenses[idx].ID, core.ErrNoPrincipalAccount)
	}
	expenses[idx].IsPaid = false
	expenses[idx].PaidDate = nil
	banks[p].Balance = banks[p].Balance.Add(expenses[idx].Amount)
	return p, nil
}

// DeleteExpense removes an expense. A paid expense is reverted first so the
// principal bank gets its money back. Banks are saved before the expense
// is removed.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_expense", start, err) }(time.Now())
	defer l.lock(ctx)()

	expenses, err := l.loadExpenses(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(expenses, func(e core.Expense) bool { return e.ID == id })
	if idx < 0 {
		return notFound("expense", id)
	}

	var writes []write
	wasPaid := expenses[idx].IsPaid
	if wasPaid {
		banks, err := l.loadBanks(ctx)
		if err != nil {
			return err
		}
		if _, err := revertExpenseAt(expenses, banks, idx); err != nil {
			return err
		}
		writes = append(writes, write{core.KeyBanks, banks})
	}
	expenses = append(expenses[:idx], expenses[idx+1:]...)
	writes = append(writes, write{core.KeyExpenses, expenses})

	if err := l.persist(ctx, writes...); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldID, id,
		"reverted", wasPaid)
	return nil
}

func expenseDate(e core.Expense) core.Date { return e.Date }
