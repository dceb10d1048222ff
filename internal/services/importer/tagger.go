package importer

import (
	"strings"

	"github.com/findosh/folio/internal/models"
)

// Suggestion proposes an asset type for a row imported as UNKNOWN
type Suggestion struct {
	Row       int              `json:"row"`
	Symbol    string           `json:"symbol"`
	AssetType models.AssetType `json:"asset_type"`
}

// Tagger guesses asset types from symbols and names
type Tagger struct {
	known map[string]models.AssetType
}

// NewTagger creates a tagger with built-in classifications
func NewTagger() *Tagger {
	t := &Tagger{known: make(map[string]models.AssetType)}
	t.loadBuiltinData()
	return t
}

// Suggest returns the most likely asset type, or UNKNOWN when nothing matches
func (t *Tagger) Suggest(symbol, name string) models.AssetType {
	ticker := strings.ToUpper(strings.TrimSpace(symbol))
	if at, ok := t.known[ticker]; ok {
		return at
	}
	return t.applyHeuristics(ticker, strings.ToLower(name))
}

// SuggestRows proposes types for every UNKNOWN row it can classify. Row
// numbers are positions within rows, starting at 1.
func (t *Tagger) SuggestRows(rows []models.CSVRow) []Suggestion {
	var out []Suggestion
	for i, r := range rows {
		if models.ParseAssetType(r.AssetType) != models.AssetTypeUnknown {
			continue
		}
		if at := t.Suggest(r.Symbol, r.AssetName); at != models.AssetTypeUnknown {
			out = append(out, Suggestion{Row: i + 1, Symbol: r.Symbol, AssetType: at})
		}
	}
	return out
}

func (t *Tagger) applyHeuristics(ticker, name string) models.AssetType {
	switch {
	case containsAny(name, "money market", "cash", "sweep", "settlement", "deposit"):
		return models.AssetTypeCash
	case t.isCrypto(ticker, name):
		return models.AssetTypeCrypto
	case containsAny(name, " etf", "ishares", "spdr", "vanguard ftse", "exchange traded"):
		return models.AssetTypeETF
	case containsAny(name, "fund", "accumulation", "oeic", "unit trust"):
		return models.AssetTypeMutualFund
	case strings.HasPrefix(ticker, "^"):
		return models.AssetTypeIndex
	case strings.HasSuffix(ticker, "=X"):
		return models.AssetTypeCurrency
	case strings.HasSuffix(ticker, "=F"):
		return models.AssetTypeFuture
	case containsAny(name, "mortgage"):
		return models.AssetTypeMortgage
	case containsAny(name, "credit card", "amex", "visa", "mastercard"):
		return models.AssetTypeCreditCard
	case containsAny(name, "student loan"):
		return models.AssetTypeStudentLoan
	case containsAny(name, "car finance", "auto loan"):
		return models.AssetTypeAutoLoan
	}
	return models.AssetTypeUnknown
}

func (t *Tagger) isCrypto(ticker, name string) bool {
	if containsAny(name, "bitcoin", "ethereum", "solana", "crypto") {
		return true
	}
	base, quote, ok := strings.Cut(ticker, "-")
	return ok && base != "" && (quote == "USD" || quote == "GBP" || quote == "EUR")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// loadBuiltinData populates the ticker database with known classifications
func (t *Tagger) loadBuiltinData() {
	equities := []string{"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "BRK.B", "JPM", "V", "JNJ", "SHEL.L", "AZN.L", "HSBA.L", "ULVR.L", "BP.L"}
	etfs := []string{"SPY", "VOO", "VTI", "QQQ", "IVV", "VEA", "VWO", "BND", "AGG", "VUSA.L", "VWRL.L", "VWRP.L", "ISF.L", "CSP1.L", "SWDA.L"}
	funds := []string{"VFIAX", "FXAIX", "VTSAX"}
	cash := []string{"SPAXX", "FDRXX", "VMFXX", "SWVXX"}
	crypto := []string{"BTC", "ETH", "SOL", "BTC-USD", "ETH-USD", "BTC-GBP", "ETH-GBP"}
	indices := []string{"^GSPC", "^FTSE", "^DJI", "^IXIC"}

	for _, group := range []struct {
		tickers []string
		at      models.AssetType
	}{
		{equities, models.AssetTypeEquity},
		{etfs, models.AssetTypeETF},
		{funds, models.AssetTypeMutualFund},
		{cash, models.AssetTypeCash},
		{crypto, models.AssetTypeCrypto},
		{indices, models.AssetTypeIndex},
	} {
		for _, ticker := range group.tickers {
			t.known[ticker] = group.at
		}
	}
}
