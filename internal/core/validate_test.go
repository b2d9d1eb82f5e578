package core

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateInputs(t *testing.T) {
	day := NewDate(2025, 1, 10)
	zero := decimal.Zero

	cases := []struct {
		name   string
		in     any
		fields []string
	}{
		{"bank ok", &BankInput{Name: "Nubank", Balance: &zero}, nil},
		{"bank without name", &BankInput{Balance: &zero}, []string{"name"}},
		{"bank without balance", &BankInput{Name: "Inter"}, []string{"balance"}},
		{"expense ok", &ExpenseInput{Date: day, Description: "Feira", Category: "Mercado", Amount: dec("35.40")}, nil},
		{"expense zero amount", &ExpenseInput{Date: day, Description: "Feira", Category: "Mercado"}, []string{"amount"}},
		{"expense negative amount", &ExpenseInput{Date: day, Description: "Feira", Category: "Mercado", Amount: dec("-1")}, []string{"amount"}},
		{"expense tiny amount", &ExpenseInput{Date: day, Description: "Juros", Category: "Outros", Amount: dec("1e-400")}, nil},
		{"expense unknown category", &ExpenseInput{Date: day, Description: "Cinema", Category: "Lazer", Amount: dec("1")}, []string{"category"}},
		{"expense missing date", &ExpenseInput{Description: "Feira", Category: "Mercado", Amount: dec("1")}, []string{"date"}},
		{"movement ok", &MovementInput{Date: day, Description: "Pix", Amount: dec("10"), Type: Credit, BankID: "b1"}, nil},
		{"movement blank bank", &MovementInput{Date: day, Description: "Pix", Amount: dec("10"), Type: Debit}, []string{"bankId"}},
		{"movement bad type", &MovementInput{Date: day, Description: "Pix", Amount: dec("10"), Type: "transfer", BankID: "b1"}, []string{"type"}},
		{"investment ok", &InvestmentInput{Date: day, Description: "Aporte", Amount: dec("500"), Type: Deposit, Category: "CDB"}, nil},
		{"investment bad category", &InvestmentInput{Date: day, Description: "Aporte", Amount: dec("500"), Type: Deposit, Category: "Cripto"}, []string{"category"}},
		{"tax ok", &TaxInput{Type: "DAS", Date: day, Amount: dec("71.60"), Description: "DAS MEI"}, nil},
		{"tax blank", &TaxInput{}, []string{"type", "date", "amount", "description"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if tc.fields == nil {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if !slices.Equal(verr.Fields, tc.fields) {
				t.Fatalf("expected fields %v, got %v", tc.fields, verr.Fields)
			}
		})
	}
}

func TestNormalizeTrims(t *testing.T) {
	in := MovementInput{Description: "  Pix  ", BankID: " b1 ", Type: " Credit "}
	in.Normalize()
	if in.Description != "Pix" || in.BankID != "b1" || in.Type != Credit {
		t.Fatalf("unexpected normalized input %+v", in)
	}

	blank := ExpenseInput{Date: NewDate(2025, 1, 1), Description: "   ", Category: "Luz", Amount: dec("1")}
	blank.Normalize()
	if err := Validate(&blank); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank description should fail validation, got %v", err)
	}
}
