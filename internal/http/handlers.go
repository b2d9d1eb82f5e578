package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
)

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.ledger.ListBanks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, banks)
}

func (s *Server) handleAddBank(w http.ResponseWriter, r *http.Request) {
	var in core.BankInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	bank, err := s.ledger.AddBank(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bank)
}

func (s *Server) handleDeleteBank(w http.ResponseWriter, r *http.Request) {
	s.respondDelete(w, r, s.ledger.DeleteBank(r.Context(), chi.URLParam(r, "id")))
}

// handleListExpenses lists every expense, or those of one period when year
// is given. Month is optional; 0 or absent selects the whole year.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("year") == "" {
		expenses, err := s.ledger.ListExpenses(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, expenses)
		return
	}

	year, month, err := parsePeriod(q.Get("year"), q.Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.ledger.ExpensesByPeriod(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var in core.ExpenseInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	expense, err := s.ledger.AddExpense(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handlePayExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.ledger.PayExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleRevertExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.ledger.RevertExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.respondDelete(w, r, s.ledger.DeleteExpense(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := s.ledger.ListMovements(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleAddMovement(w http.ResponseWriter, r *http.Request) {
	var in core.MovementInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	movement, err := s.ledger.AddMovement(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movement)
}

func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	s.respondDelete(w, r, s.ledger.DeleteMovement(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.ledger.ListInvestments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, investments)
}

func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var in core.InvestmentInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := s.ledger.AddInvestment(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	s.respondDelete(w, r, s.ledger.DeleteInvestment(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleListTaxes(w http.ResponseWriter, r *http.Request) {
	taxes, err := s.ledger.ListTaxes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taxes)
}

func (s *Server) handleAddTax(w http.ResponseWriter, r *http.Request) {
	var in core.TaxInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	tax, err := s.ledger.AddTax(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tax)
}

func (s *Server) handlePayTax(w http.ResponseWriter, r *http.Request) {
	tax, err := s.ledger.PayTax(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tax)
}

func (s *Server) handleRevertTax(w http.ResponseWriter, r *http.Request) {
	tax, err := s.ledger.RevertTax(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tax)
}

func (s *Server) handleDeleteTax(w http.ResponseWriter, r *http.Request) {
	s.respondDelete(w, r, s.ledger.DeleteTax(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.ledger.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// handleSuggestions computes suggestions for ?available=. Without it the
// current available balance from the overview is used.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("available")
	if raw == "" {
		ov, err := s.ledger.Overview(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ov.Suggestions)
		return
	}
	available, err := core.ParseSignedAmount(raw)
	if err != nil {
		writeError(w, r, &core.ValidationError{Fields: []string{"available"}})
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.ComputeSuggestions(available))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ledger.ClearAllData(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelfTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.RunSelfTest(r.Context()))
}

func (s *Server) respondDelete(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parsePeriod reads the year and optional month query values.
func parsePeriod(yearStr, monthStr string) (int, int, error) {
	var bad []string
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		bad = append(bad, "year")
	}
	month := 0
	if monthStr = strings.TrimSpace(monthStr); monthStr != "" {
		if month, err = strconv.Atoi(monthStr); err != nil {
			bad = append(bad, "month")
		}
	}
	if len(bad) > 0 {
		return 0, 0, &core.ValidationError{Fields: bad}
	}
	return year, month, nil
}
