package importer

import (
	"testing"
	"time"

	"github.com/findosh/folio/internal/models"
	"github.com/shopspring/decimal"
)

func row(account, symbol string) models.CSVRow {
	return models.CSVRow{
		AccountName: account,
		AccountType: "ISA",
		AssetName:   symbol + " Fund",
		Symbol:      symbol,
		Units:       decimal.NewFromInt(10),
		Price:       decimal.NewFromInt(5),
		TotalValue:  decimal.NewFromInt(50),
		Currency:    "GBP",
		AssetType:   "ETF",
		LastUpdated: "2025-06-01T12:00:00Z",
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(&models.SequenceGenerator{Prefix: "id"}, models.FixedClock(testNow))
}

func TestBuildPortfolio_GroupsByAccountInFirstSeenOrder(t *testing.T) {
	rows := []models.CSVRow{
		row("ISA", "A"),
		row("GIA", "B"),
		row("ISA", "C"),
		row("isa", "D"),
	}

	result := newTestBuilder().BuildPortfolio(rows)
	p := result.Portfolio

	if result.AccountCount != 3 || result.PositionCount != 4 {
		t.Fatalf("Expected 3 accounts and 4 positions, got %d and %d", result.AccountCount, result.PositionCount)
	}
	wantNames := []string{"ISA", "GIA", "isa"}
	for i, name := range wantNames {
		if p.Accounts[i].Name != name {
			t.Errorf("Account %d: expected %s, got %s", i, name, p.Accounts[i].Name)
		}
	}
	if len(p.Accounts[0].Positions) != 2 || p.Accounts[0].Positions[1].Symbol != "C" {
		t.Errorf("Expected ISA to hold A then C, got %+v", p.Accounts[0].Positions)
	}
	if p.ID != "" {
		t.Errorf("Expected built portfolio to have no ID, got %s", p.ID)
	}
	if !p.CreatedAt.Equal(testNow) || !p.UpdatedAt.Equal(testNow) {
		t.Error("Expected portfolio timestamps to be now")
	}
}

func TestBuildPortfolio_UniqueIDs(t *testing.T) {
	result := newTestBuilder().BuildPortfolio([]models.CSVRow{row("ISA", "A"), row("ISA", "B"), row("GIA", "C")})

	seen := make(map[string]bool)
	for _, a := range result.Portfolio.Accounts {
		if seen[a.ID] {
			t.Errorf("Duplicate ID %s", a.ID)
		}
		seen[a.ID] = true
		for _, p := range a.Positions {
			if seen[p.ID] {
				t.Errorf("Duplicate ID %s", p.ID)
			}
			seen[p.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Errorf("Expected 5 distinct IDs, got %d", len(seen))
	}
}

func TestBuildPortfolio_PositionFields(t *testing.T) {
	r := row("ISA", "VWRL.L")
	r.AccountType = "lisa"
	result := newTestBuilder().BuildPortfolio([]models.CSVRow{r})

	account := result.Portfolio.Accounts[0]
	if account.Type != models.AccountTypeLISA {
		t.Errorf("Expected LISA, got %s", account.Type)
	}
	pos := account.Positions[0]
	if pos.Name != "VWRL.L Fund" || pos.AssetType != models.AssetTypeETF || pos.Currency != "GBP" {
		t.Errorf("Unexpected position %+v", pos)
	}
	if pos.PriceOverride == nil || !pos.PriceOverride.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected price override 5, got %v", pos.PriceOverride)
	}
	if want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC); !pos.UpdatedAt.Equal(want) {
		t.Errorf("Expected updated at %v, got %v", want, pos.UpdatedAt)
	}
}

func TestBuildPortfolio_PriceOverrideOnlyWhenPositive(t *testing.T) {
	tests := []struct {
		price string
		want  bool
	}{
		{"0", false},
		{"-1", false},
		{"0.01", true},
	}

	for _, tt := range tests {
		r := row("ISA", "X")
		r.Price = decimal.RequireFromString(tt.price)
		pos := newTestBuilder().BuildPortfolio([]models.CSVRow{r}).Portfolio.Accounts[0].Positions[0]
		if got := pos.PriceOverride != nil; got != tt.want {
			t.Errorf("Price %s: expected override=%v, got %v", tt.price, tt.want, got)
		}
	}
}

func TestBuildPortfolio_UnknownTypes(t *testing.T) {
	r := row("Misc", "ZZZ")
	r.AccountType = "PENSION"
	r.AssetType = "WIDGET"

	pos := newTestBuilder().BuildPortfolio([]models.CSVRow{r}).Portfolio.Accounts[0]
	if pos.Type != models.AccountTypeOther {
		t.Errorf("Expected OTHER, got %s", pos.Type)
	}
	if pos.Positions[0].AssetType != models.AssetTypeUnknown {
		t.Errorf("Expected UNKNOWN, got %s", pos.Positions[0].AssetType)
	}
}

func TestBuildPortfolio_SideRecords(t *testing.T) {
	mortgage := row("Home", "HOUSE")
	mortgage.AssetType = "MORTGAGE"
	mortgage.AdditionalParams = `{"equity":"75000","totalPropertyValue":300000,"postcode":"SW1A 1AA"}`

	debt := row("Cards", "AMEX")
	debt.AssetType = "CREDIT_CARD"
	debt.AdditionalParams = `{"apr":22.9,"currentBalance":1200,"monthlyRepayment":100,"repaymentDayOfMonth":15}`

	broken := row("Cards", "VISA")
	broken.AssetType = "CREDIT_CARD"
	broken.AdditionalParams = `{not json`

	result := newTestBuilder().BuildPortfolio([]models.CSVRow{mortgage, debt, broken})
	accounts := result.Portfolio.Accounts

	m := accounts[0].Positions[0].Mortgage()
	if m == nil {
		t.Fatal("Expected mortgage data")
	}
	if m.Equity != 75000 || m.TotalPropertyValue != 300000 || m.Postcode != "SW1A 1AA" {
		t.Errorf("Unexpected mortgage data %+v", m)
	}

	d := accounts[1].Positions[0].Debt()
	if d == nil || d.APR != 22.9 || d.RepaymentDayOfMonth != 15 {
		t.Errorf("Unexpected debt data %+v", d)
	}

	if accounts[1].Positions[1].Side() != nil {
		t.Error("Expected malformed params to leave the position without a side record")
	}
	if result.PositionCount != 3 {
		t.Errorf("Expected malformed params not to drop the position, got %d", result.PositionCount)
	}
}

func TestBuildPortfolio_Empty(t *testing.T) {
	result := newTestBuilder().BuildPortfolio(nil)

	if result.AccountCount != 0 || result.PositionCount != 0 {
		t.Errorf("Expected empty portfolio, got %d/%d", result.AccountCount, result.PositionCount)
	}
	if result.Messages[0] != "No valid rows to import" {
		t.Errorf("Unexpected message %q", result.Messages[0])
	}
}

func TestImportSummary(t *testing.T) {
	tests := []struct {
		accounts, positions int
		want                string
	}{
		{0, 0, "No valid rows to import"},
		{1, 1, "Imported 1 account with 1 position"},
		{1, 3, "Imported 1 account with 3 positions"},
		{2, 5, "Imported 2 accounts with 5 positions"},
	}

	for _, tt := range tests {
		if got := ImportSummary(tt.accounts, tt.positions); got != tt.want {
			t.Errorf("ImportSummary(%d, %d) = %q, want %q", tt.accounts, tt.positions, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-02T03:04:05Z", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02T03:04:05.5+01:00", time.Date(2025, 1, 2, 2, 4, 5, 5e8, time.UTC)},
		{"2025-01-02 03:04:05", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"yesterday", testNow},
		{"", testNow},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.in, testNow); !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
