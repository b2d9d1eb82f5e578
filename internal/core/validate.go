package core

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Inputs accepted by the ledger's add operations. Fields are trimmed by
// Normalize before validation.
type (
	BankInput struct {
		Name        string           `json:"name" validate:"required,max=100"`
		Balance     *decimal.Decimal `json:"balance" validate:"required"`
		IsPrincipal bool             `json:"isPrincipal"`
	}

	ExpenseInput struct {
		Date        Date            `json:"date" validate:"required"`
		Description string          `json:"description" validate:"required,max=200"`
		Category    string          `json:"category" validate:"required,expense_category"`
		Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
	}

	MovementInput struct {
		Date        Date            `json:"date" validate:"required"`
		Description string          `json:"description" validate:"required,max=200"`
		Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
		Type        MovementType    `json:"type" validate:"required,movement_type"`
		BankID      string          `json:"bankId" validate:"required"`
	}

	InvestmentInput struct {
		Date        Date            `json:"date" validate:"required"`
		Description string          `json:"description" validate:"required,max=200"`
		Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
		Type        InvestmentType  `json:"type" validate:"required,investment_type"`
		Category    string          `json:"category" validate:"required,investment_category"`
	}

	TaxInput struct {
		Type        string          `json:"type" validate:"required,tax_type"`
		Date        Date            `json:"date" validate:"required"`
		Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
		Description string          `json:"description" validate:"required,max=200"`
	}
)

func (in *BankInput) Normalize() { in.Name = strings.TrimSpace(in.Name) }

func (in *ExpenseInput) Normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
}

func (in *MovementInput) Normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.BankID = strings.TrimSpace(in.BankID)
	in.Type = MovementType(strings.ToLower(strings.TrimSpace(string(in.Type))))
}

func (in *InvestmentInput) Normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Type = InvestmentType(strings.ToLower(strings.TrimSpace(string(in.Type))))
}

func (in *TaxInput) Normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.Type = strings.TrimSpace(in.Type)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		// Dates are validated through their string form.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			d, ok := field.Interface().(Date)
			if !ok || d.IsZero() {
				return nil
			}
			return d.String()
		}, Date{})

		mustRegister(v, "positive_decimal", func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && d.IsPositive()
		})
		mustRegister(v, "expense_category", func(fl validator.FieldLevel) bool {
			return IsExpenseCategory(fl.Field().String())
		})
		mustRegister(v, "investment_category", func(fl validator.FieldLevel) bool {
			return IsInvestmentCategory(fl.Field().String())
		})
		mustRegister(v, "tax_type", func(fl validator.FieldLevel) bool {
			return IsTaxType(fl.Field().String())
		})
		mustRegister(v, "movement_type", func(fl validator.FieldLevel) bool {
			return MovementType(fl.Field().String()).Valid()
		})
		mustRegister(v, "investment_type", func(fl validator.FieldLevel) bool {
			return InvestmentType(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

// Validate checks an input struct and reports every offending field as a
// *ValidationError.
func Validate(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &ValidationError{Fields: fields}
	}
	return &ValidationError{}
}
