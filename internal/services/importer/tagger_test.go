package importer

import (
	"testing"

	"github.com/findosh/folio/internal/models"
)

func TestNewTagger(t *testing.T) {
	tagger := NewTagger()

	if len(tagger.known) == 0 {
		t.Error("Expected ticker database to be populated")
	}
}

func TestTagger_Suggest_KnownTicker(t *testing.T) {
	tagger := NewTagger()

	tests := []struct {
		ticker string
		want   models.AssetType
	}{
		{"AAPL", models.AssetTypeEquity},
		{"aapl", models.AssetTypeEquity},
		{"VUSA.L", models.AssetTypeETF},
		{"VFIAX", models.AssetTypeMutualFund},
		{"SPAXX", models.AssetTypeCash},
		{"BTC-USD", models.AssetTypeCrypto},
		{"^FTSE", models.AssetTypeIndex},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			if got := tagger.Suggest(tt.ticker, ""); got != tt.want {
				t.Errorf("Suggest(%s) = %s, want %s", tt.ticker, got, tt.want)
			}
		})
	}
}

func TestTagger_Suggest_Heuristics(t *testing.T) {
	tagger := NewTagger()

	tests := []struct {
		name   string
		symbol string
		asset  string
		want   models.AssetType
	}{
		{"money market", "XXXX", "XYZ Money Market Fund", models.AssetTypeCash},
		{"crypto pair", "DOGE-GBP", "", models.AssetTypeCrypto},
		{"crypto by name", "XBT", "Bitcoin", models.AssetTypeCrypto},
		{"etf by name", "IUKD.L", "iShares UK Dividend", models.AssetTypeETF},
		{"fund by name", "GB00B3X7QG63", "Vanguard LifeStrategy 80% Equity Fund Accumulation", models.AssetTypeMutualFund},
		{"index", "^N225", "", models.AssetTypeIndex},
		{"currency", "GBPUSD=X", "", models.AssetTypeCurrency},
		{"future", "CL=F", "", models.AssetTypeFuture},
		{"mortgage", "HOME", "Nationwide Mortgage", models.AssetTypeMortgage},
		{"credit card", "CARD", "Barclaycard Visa", models.AssetTypeCreditCard},
		{"student loan", "SLC", "Student Loan Plan 2", models.AssetTypeStudentLoan},
		{"unclassifiable", "ZZZ", "Something", models.AssetTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagger.Suggest(tt.symbol, tt.asset); got != tt.want {
				t.Errorf("Suggest(%s, %s) = %s, want %s", tt.symbol, tt.asset, got, tt.want)
			}
		})
	}
}

func TestTagger_SuggestRows(t *testing.T) {
	rows := []models.CSVRow{
		{Symbol: "AAPL", AssetType: "UNKNOWN"},
		{Symbol: "MSFT", AssetType: "EQUITY"},
		{Symbol: "ZZZ", AssetName: "Mystery", AssetType: "UNKNOWN"},
		{Symbol: "VWRL.L", AssetType: "WIDGET"},
	}

	got := NewTagger().SuggestRows(rows)

	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %+v", got)
	}
	if got[0].Row != 1 || got[0].AssetType != models.AssetTypeEquity {
		t.Errorf("Unexpected first suggestion %+v", got[0])
	}
	if got[1].Row != 4 || got[1].AssetType != models.AssetTypeETF {
		t.Errorf("Unexpected second suggestion %+v", got[1])
	}
}

func TestService_PreviewSuggestions(t *testing.T) {
	text := "Account,Asset Name,Symbol,Units,Currency\nISA,Apple,AAPL,1,USD"

	preview := newTestService().Preview(&models.Portfolio{}, text)

	if len(preview.Suggestions) != 1 || preview.Suggestions[0].AssetType != models.AssetTypeEquity {
		t.Errorf("Expected AAPL to be suggested as EQUITY, got %+v", preview.Suggestions)
	}
}
