package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"financas/internal/core"
	applog "financas/internal/log"
)

// ClearAllData removes every collection. Failures are logged, not returned.
func (l *Ledger) ClearAllData(ctx context.Context) {
	defer l.lock(ctx)()

	if err := l.store.RemoveMany(ctx, core.Collections...); err != nil {
		l.logger.ErrorContext(ctx, "Failed to clear data",
			applog.FieldOperation, applog.OpReset,
			applog.FieldError, err)
		return
	}
	l.logger.WarnContext(ctx, "All data cleared", applog.FieldOperation, applog.OpReset)
	l.queueNotify(core.Collections...)
}

// SelfTestReport tells whether each throwaway record was gone after its
// delete.
type SelfTestReport struct {
	BankDeleted    bool `json:"bankDeleted"`
	ExpenseDeleted bool `json:"expenseDeleted"`
}

const (
	selfTestBankName    = "Banco Teste"
	selfTestDescription = "Despesa Teste"
)

// RunSelfTest adds a throwaway bank and expense, deletes each and checks the
// listings no longer contain them. Errors are logged and leave the matching
// flag false.
func (l *Ledger) RunSelfTest(ctx context.Context) SelfTestReport {
	var report SelfTestReport
	logger := l.logger.With(applog.FieldOperation, applog.OpSelfTest)

	balance := decimal.NewFromInt(1000)
	bank, err := l.AddBank(ctx, core.BankInput{Name: selfTestBankName, Balance: &balance})
	if err != nil {
		logger.ErrorContext(ctx, "Self-test could not add bank", applog.FieldError, err)
	} else if err := l.DeleteBank(ctx, bank.ID); err != nil {
		logger.ErrorContext(ctx, "Self-test could not delete bank", applog.FieldError, err)
	} else if banks, err := l.ListBanks(ctx); err != nil {
		logger.ErrorContext(ctx, "Self-test could not list banks", applog.FieldError, err)
	} else {
		report.BankDeleted = !slices.ContainsFunc(banks, func(b core.Bank) bool { return b.ID == bank.ID })
	}

	expense, err := l.AddExpense(ctx, core.ExpenseInput{
		Date:        l.today(),
		Description: selfTestDescription,
		Category:    "Outros",
		Amount:      decimal.NewFromInt(100),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Self-test could not add expense", applog.FieldError, err)
	} else if err := l.DeleteExpense(ctx, expense.ID); err != nil {
		logger.ErrorContext(ctx, "Self-test could not delete expense", applog.FieldError, err)
	} else if expenses, err := l.ListExpenses(ctx); err != nil {
		logger.ErrorContext(ctx, "Self-test could not list expenses", applog.FieldError, err)
	} else {
		report.ExpenseDeleted = !slices.ContainsFunc(expenses, func(e core.Expense) bool { return e.ID == expense.ID })
	}

	logger.InfoContext(ctx, "Self-test finished",
		"bank_deleted", report.BankDeleted,
		"expense_deleted", report.ExpenseDeleted)
	return report
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping reports whether the backing store is reachable. Stores without a
// health check are always ready.
func (l *Ledger) Ping(ctx context.Context) error {
	if p, ok := l.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %w", core.ErrStorage, err)
		}
	}
	return nil
}
