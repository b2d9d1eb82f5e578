package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// setupEnv points the CLI at a fresh SQLite file so state survives between
// invocations within one test.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "financas.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("EXPORT_INTERVAL", "")
	t.Setenv("PORT", "")
	t.Setenv("FINANCAS_CONFIG", "")
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, code := run(t, args...)
	if code != 0 {
		t.Fatalf("%v exited %d: %s", args, code, errOut)
	}
	return out
}

func decodeInto(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
}

func TestExpensePayAndRevert(t *testing.T) {
	setupEnv(t)

	var bank core.Bank
	decodeInto(t, mustRun(t, "-o", "json", "bank", "add", "--name", "Nubank", "--balance", "1000", "--principal"), &bank)

	var expense core.Expense
	decodeInto(t, mustRun(t, "-o", "json", "expense", "add",
		"-d", "Conta de luz", "--category", "Luz", "-a", "150,50", "--date", "2025-04-10"), &expense)
	if !expense.Amount.Equal(decimal.RequireFromString("150.5")) || expense.IsPaid {
		t.Fatalf("expense = %+v", expense)
	}

	mustRun(t, "expense", "pay", expense.ID)

	var banks []core.Bank
	decodeInto(t, mustRun(t, "-o", "json", "bank", "list"), &banks)
	if len(banks) != 1 || !banks[0].Balance.Equal(decimal.RequireFromString("849.5")) {
		t.Fatalf("banks after pay = %+v", banks)
	}

	_, errOut, code := run(t, "expense", "pay", expense.ID)
	if code == 0 || !strings.Contains(errOut, "Registro já está pago") {
		t.Fatalf("second pay: code=%d stderr=%q", code, errOut)
	}

	mustRun(t, "expense", "revert", expense.ID)
	decodeInto(t, mustRun(t, "-o", "json", "bank", "list"), &banks)
	if !banks[0].Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance after revert = %s", banks[0].Balance)
	}

	var april []core.Expense
	decodeInto(t, mustRun(t, "-o", "json", "expense", "list", "--year", "2025", "--month", "4"), &april)
	if len(april) != 1 {
		t.Fatalf("april expenses = %+v", april)
	}
	decodeInto(t, mustRun(t, "-o", "json", "expense", "list", "--year", "2025", "--month", "5"), &april)
	if len(april) != 0 {
		t.Fatalf("may expenses = %+v", april)
	}
}

func TestErrorsUseUserMessages(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid amount", []string{"expense", "add", "-d", "x", "--category", "Luz", "-a", "abc"}, "Dados inválidos: amount"},
		{"invalid category", []string{"expense", "add", "-d", "x", "--category", "Cinema", "-a", "10"}, "Dados inválidos: category"},
		{"invalid date", []string{"tax", "add", "--type", "DAS", "-d", "x", "-a", "10", "--date", "31/12/2025"}, "Dados inválidos: date"},
		{"unknown expense", []string{"expense", "pay", "missing"}, "Registro não encontrado"},
		{"unknown bank for movement", []string{"movement", "add", "--bank", "nope", "--type", "credit", "-a", "5", "-d", "Pix"}, "Registro não encontrado"},
		{"reset without confirmation", []string{"reset"}, "--yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := run(t, tt.args...)
			if code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Fatalf("stderr = %q, want containing %q", errOut, tt.want)
			}
		})
	}
}

func TestPayTaxWithoutPrincipal(t *testing.T) {
	setupEnv(t)

	var tax core.Tax
	decodeInto(t, mustRun(t, "-o", "json", "tax", "add", "--type", "DAS", "-a", "70,60", "-d", "DAS abril"), &tax)
	if tax.Status != core.TaxPending {
		t.Fatalf("tax = %+v", tax)
	}

	_, errOut, code := run(t, "tax", "pay", tax.ID)
	if code != 1 || !strings.Contains(errOut, "Nenhuma conta principal definida") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestSuggestWithAvailable(t *testing.T) {
	setupEnv(t)

	var s core.Suggestions
	decodeInto(t, mustRun(t, "-o", "json", "suggest", "--available", "1000"), &s)
	if !s.EmergencyReserve.Equal(decimal.NewFromInt(200)) || !s.Spendable.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("suggestions = %+v", s)
	}
	if s.RemainingDays < 1 {
		t.Fatalf("remaining days = %d", s.RemainingDays)
	}
}

func TestExportJSONAndReset(t *testing.T) {
	setupEnv(t)

	mustRun(t, "bank", "add", "--name", "Caixa", "--balance", "50")
	mustRun(t, "investment", "add", "--type", "deposit", "--category", "CDB", "-a", "100", "-d", "Aporte")

	var snap core.Snapshot
	decodeInto(t, mustRun(t, "export", "json"), &snap)
	if len(snap.Banks) != 1 || len(snap.Investments) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	mustRun(t, "reset", "--yes")
	decodeInto(t, mustRun(t, "export", "json"), &snap)
	if len(snap.Banks) != 0 || len(snap.Investments) != 0 {
		t.Fatalf("snapshot after reset = %+v", snap)
	}
}

func TestTextOutputRendersTables(t *testing.T) {
	setupEnv(t)

	mustRun(t, "bank", "add", "--name", "Itaú", "--balance", "1234,56", "--principal")
	out := mustRun(t, "--width", "120", "bank", "list")
	if !strings.Contains(out, "Itaú") || !strings.Contains(out, "1.234,56") {
		t.Fatalf("bank list output = %q", out)
	}

	out = mustRun(t, "overview")
	if !strings.Contains(out, "1.234,56") {
		t.Fatalf("overview output = %q", out)
	}
}

func TestSelfTest(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "selftest")
	if strings.Count(out, "OK") != 2 {
		t.Fatalf("selftest output = %q", out)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "postgres")

	_, errOut, code := run(t, "bank", "list")
	if code != 1 || !strings.Contains(errOut, "invalid data backend") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}
