package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	Credit MovementType = "credit"
	Debit  MovementType = "debit"

	Deposit    InvestmentType = "deposit"
	Withdrawal InvestmentType = "withdrawal"

	TaxPending TaxStatus = "pending"
	TaxPaid    TaxStatus = "paid"
)

// Collection keys used in the key-value store. Each key holds one JSON array.
const (
	KeyBanks       = "banks"
	KeyExpenses    = "expenses"
	KeyMovements   = "movements"
	KeyInvestments = "investments"
	KeyTaxes       = "taxes"
)

// BankNotFoundLabel is shown in place of a bank name when a movement
// references a bank that no longer exists.
const BankNotFoundLabel = "Banco não encontrado"

// Collections lists every collection key in a stable order.
var Collections = []string{KeyBanks, KeyExpenses, KeyMovements, KeyInvestments, KeyTaxes}

var (
	ExpenseCategories = []string{
		"Luz", "Água", "Internet", "Aluguel", "Mercado",
		"Presente", "Viagem", "C.Crédito", "Outros",
	}
	InvestmentCategories = []string{"CDI", "CDB", "Tesouro", "Consórcio"}
	TaxTypes             = []string{"DAS", "IR", "IPVA", "IPTU", "Outro"}
)

type (
	MovementType   string
	InvestmentType string
	TaxStatus      string

	Bank struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Balance     decimal.Decimal `json:"balance"`
		IsPrincipal bool            `json:"isPrincipal"`
	}

	Expense struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		IsPaid      bool            `json:"isPaid"`
		PaidDate    *Date           `json:"paidDate,omitempty"`
	}

	// Movement is a manual credit or debit against one bank. BankID is a
	// lookup key, not an ownership relation.
	Movement struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        MovementType    `json:"type"`
		BankID      string          `json:"bankId"`
	}

	// MovementView is the read model of a movement. BankName is resolved at
	// read time and never persisted.
	MovementView struct {
		Movement
		BankName string `json:"bankName"`
	}

	Investment struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        InvestmentType  `json:"type"`
		Category    string          `json:"category"`
	}

	Tax struct {
		ID          string          `json:"id"`
		Type        string          `json:"type"`
		Date        Date            `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Status      TaxStatus       `json:"status"`
		PaidDate    *Date           `json:"paidDate,omitempty"`
	}

	// Snapshot holds every collection as read in one pass.
	Snapshot struct {
		Banks       []Bank         `json:"banks"`
		Expenses    []Expense      `json:"expenses"`
		Movements   []MovementView `json:"movements"`
		Investments []Investment   `json:"investments"`
		Taxes       []Tax          `json:"taxes"`
	}
)

func (t MovementType) Valid() bool   { return t == Credit || t == Debit }
func (t InvestmentType) Valid() bool { return t == Deposit || t == Withdrawal }
func (s TaxStatus) Valid() bool      { return s == TaxPending || s == TaxPaid }

// Delta is the signed effect of the movement on its bank's balance.
func (m Movement) Delta() decimal.Decimal {
	if m.Type == Debit {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Signed returns the investment amount with withdrawals negated.
func (i Investment) Signed() decimal.Decimal {
	if i.Type == Withdrawal {
		return i.Amount.Neg()
	}
	return i.Amount
}

func (t Tax) IsPaid() bool { return t.Status == TaxPaid }

func IsExpenseCategory(s string) bool    { return slices.Contains(ExpenseCategories, s) }
func IsInvestmentCategory(s string) bool { return slices.Contains(InvestmentCategories, s) }
func IsTaxType(s string) bool            { return slices.Contains(TaxTypes, s) }

// RepairExpense restores the paidDate/isPaid invariant on a record read from
// storage. A paid expense without a paid date takes its own date.
func RepairExpense(e *Expense) bool {
	switch {
	case e.IsPaid && e.PaidDate == nil:
		d := e.Date
		e.PaidDate = &d
		return true
	case !e.IsPaid && e.PaidDate != nil:
		e.PaidDate = nil
		return true
	}
	return false
}

// RepairTax is the tax counterpart of RepairExpense; an unknown status
// becomes pending.
func RepairTax(t *Tax) bool {
	changed := false
	if !t.Status.Valid() {
		t.Status = TaxPending
		changed = true
	}
	switch {
	case t.IsPaid() && t.PaidDate == nil:
		d := t.Date
		t.PaidDate = &d
		changed = true
	case !t.IsPaid() && t.PaidDate != nil:
		t.PaidDate = nil
		changed = true
	}
	return changed
}
