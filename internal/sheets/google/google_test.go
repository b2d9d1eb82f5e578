package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gsheet "google.golang.org/api/sheets/v4"

	ports "financas/internal/sheets"
)

func TestNewClient_MissingSpreadsheetID(t *testing.T) {
	_, err := NewClient(context.Background(), Config{ServiceAccountJSON: "{}"}, nil)
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewClient_MissingCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{SpreadsheetID: "sheet"}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestCredentials(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr string
	}{
		{"inline wins", Config{ServiceAccountJSON: ` {"from":"inline"} `, ServiceAccountFile: file}, `{"from":"inline"}`, ""},
		{"file", Config{ServiceAccountFile: file}, `{"from":"file"}`, ""},
		{"unreadable file", Config{ServiceAccountFile: filepath.Join(dir, "missing.json")}, "", "read service account file"},
		{"nothing", Config{}, "", "missing service account credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := credentials(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("credentials = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReplaceTab_ServiceNotInitialized(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	err := c.ReplaceTab(context.Background(), ports.Tab{Name: "Bancos"})
	if err == nil || err.Error() != "sheets service not initialized" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuoteSheetName(t *testing.T) {
	tests := map[string]string{
		"Bancos":        "'Bancos'",
		"Movimentações": "'Movimentações'",
		"Conta d'Ana":   "'Conta d''Ana'",
	}
	for in, want := range tests {
		if got := quoteSheetName(in); got != want {
			t.Errorf("quoteSheetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasSheet(t *testing.T) {
	ss := &gsheet.Spreadsheet{Sheets: []*gsheet.Sheet{
		{Properties: &gsheet.SheetProperties{Title: "Bancos"}},
		{Properties: nil},
	}}
	if !hasSheet(ss, "Bancos") {
		t.Error("expected Bancos to be found")
	}
	if hasSheet(ss, "Impostos") {
		t.Error("Impostos should not be found")
	}
	if hasSheet(nil, "Bancos") {
		t.Error("nil spreadsheet has no sheets")
	}
}
