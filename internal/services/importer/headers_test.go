package importer

import (
	"reflect"
	"testing"

	"github.com/findosh/folio/internal/models"
)

func TestMapHeaders_Canonical(t *testing.T) {
	header := []string{"Account", "Account Type", "Asset Name", "Symbol", "Units", "Price",
		"Total Value", "Currency", "Asset Type", "Last Updated", "Additional Parameters"}

	m := MapHeaders(header, DefaultAliases())

	if len(m.Missing) != 0 {
		t.Errorf("Expected no missing columns, got %v", m.Missing)
	}
	for i, col := range models.CSVColumns() {
		if m.Index[col] != i {
			t.Errorf("Column %s: expected index %d, got %d", col, i, m.Index[col])
		}
	}
}

func TestMapHeaders_Aliases(t *testing.T) {
	tests := []struct {
		header string
		want   models.Column
	}{
		{"ticker", models.ColumnSymbol},
		{" SYMBOL ", models.ColumnSymbol},
		{"Quantity", models.ColumnUnits},
		{"shares", models.ColumnUnits},
		{"Value", models.ColumnTotalValue},
		{"TOTAL", models.ColumnTotalValue},
		{"date", models.ColumnLastUpdated},
		{"Updated", models.ColumnLastUpdated},
		{"account name", models.ColumnAccount},
	}

	aliases := DefaultAliases()
	for _, tt := range tests {
		got, ok := aliases.Resolve(tt.header)
		if !ok || got != tt.want {
			t.Errorf("Resolve(%q): expected %s, got %s (ok=%v)", tt.header, tt.want, got, ok)
		}
	}
}

func TestMapHeaders_FirstOccurrenceWins(t *testing.T) {
	m := MapHeaders([]string{"Ticker", "Symbol", "Account", "Name", "Shares", "Quantity", "Currency"}, DefaultAliases())

	if m.Index[models.ColumnSymbol] != 0 {
		t.Errorf("Expected Symbol at 0, got %d", m.Index[models.ColumnSymbol])
	}
	if m.Index[models.ColumnUnits] != 4 {
		t.Errorf("Expected Units at 4, got %d", m.Index[models.ColumnUnits])
	}
}

func TestMapHeaders_Missing(t *testing.T) {
	m := MapHeaders([]string{"Symbol", "Notes", "Units"}, DefaultAliases())

	want := []models.Column{models.ColumnAccount, models.ColumnAssetName, models.ColumnCurrency}
	if !reflect.DeepEqual(m.Missing, want) {
		t.Errorf("Expected missing %v, got %v", want, m.Missing)
	}
}

func TestMapHeaders_IdempotentAndOrderIndependent(t *testing.T) {
	aliases := DefaultAliases()
	header := []string{"Currency", "Units", "Symbol", "Asset Name", "Account", "Extra"}

	first := MapHeaders(header, aliases)
	second := MapHeaders(header, aliases)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Mapping twice differs: %+v vs %+v", first, second)
	}

	reversed := []string{"Extra", "Account", "Asset Name", "Symbol", "Units", "Currency"}
	other := MapHeaders(reversed, aliases)

	if len(first.Missing) != 0 || len(other.Missing) != 0 {
		t.Fatalf("Expected no missing columns, got %v / %v", first.Missing, other.Missing)
	}
	for col, idx := range first.Index {
		if reversed[other.Index[col]] != header[idx] {
			t.Errorf("Column %s resolves to different headers: %q vs %q", col, header[idx], reversed[other.Index[col]])
		}
	}
}

func TestHeaderMapping_Field(t *testing.T) {
	m := MapHeaders([]string{"Account", "Symbol"}, DefaultAliases())
	fields := []string{"  My ISA  "}

	if got := m.Field(fields, models.ColumnAccount); got != "My ISA" {
		t.Errorf("Expected trimmed value, got %q", got)
	}
	if got := m.Field(fields, models.ColumnSymbol); got != "" {
		t.Errorf("Expected empty for overflowing index, got %q", got)
	}
	if got := m.Field(fields, models.ColumnPrice); got != "" {
		t.Errorf("Expected empty for unmapped column, got %q", got)
	}
}

func TestNewAliasTable_Custom(t *testing.T) {
	aliases := NewAliasTable(map[string]models.Column{" isin ": models.ColumnSymbol})
	if col, ok := aliases.Resolve("ISIN"); !ok || col != models.ColumnSymbol {
		t.Errorf("Expected ISIN to resolve to Symbol, got %s", col)
	}
	if _, ok := aliases.Resolve("Ticker"); ok {
		t.Error("Expected custom table not to include defaults")
	}
}
