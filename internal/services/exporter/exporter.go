// Package exporter renders portfolios as portfolio CSV text.
package exporter

import (
	"strings"
	"time"

	"github.com/findosh/folio/internal/csvtext"
	"github.com/findosh/folio/internal/models"
	"github.com/shopspring/decimal"
)

// Valuation is a resolved price and total value in the position's currency
type Valuation struct {
	Price      decimal.Decimal
	TotalValue decimal.Decimal
}

// PriceLookup resolves live valuations. ok is false when no price is known.
type PriceLookup interface {
	Valuation(p *models.Position) (v Valuation, ok bool)
}

// PriceLookupFunc adapts a function to PriceLookup
type PriceLookupFunc func(p *models.Position) (Valuation, bool)

// Valuation calls f(p)
func (f PriceLookupFunc) Valuation(p *models.Position) (Valuation, bool) {
	return f(p)
}

// Row is one position ready for export
type Row struct {
	Position    *models.Position
	AccountName string
	AccountType models.AccountType
	Price       decimal.Decimal
	TotalValue  decimal.Decimal
}

// BuildExportData flattens portfolio into rows in account then position
// order. Prices come from lookup, then the position's override, then zero.
// A nil lookup means no live prices.
func BuildExportData(portfolio *models.Portfolio, lookup PriceLookup) []Row {
	if portfolio == nil {
		return nil
	}
	rows := make([]Row, 0, portfolio.PositionCount())
	for _, account := range portfolio.Accounts {
		for _, pos := range account.Positions {
			rows = append(rows, newRow(account, pos, lookup))
		}
	}
	return rows
}

func newRow(account *models.Account, pos *models.Position, lookup PriceLookup) Row {
	r := Row{Position: pos, AccountName: account.Name, AccountType: account.Type}
	if lookup != nil {
		if v, ok := lookup.Valuation(pos); ok {
			r.Price = v.Price
			r.TotalValue = v.TotalValue
			return r
		}
	}
	if pos.PriceOverride != nil {
		r.Price = *pos.PriceOverride
	}
	r.TotalValue = pos.Units.Mul(r.Price)
	return r
}

// ExportCSV renders the canonical header followed by one line per row.
// Lines end with CRLF. No rows still yields the header line.
func ExportCSV(rows []Row) string {
	var b strings.Builder
	b.WriteString(header())
	for _, r := range rows {
		b.WriteString("\r\n")
		b.WriteString(csvtext.JoinFields(fields(r)))
	}
	return b.String()
}

// Export is BuildExportData followed by ExportCSV
func Export(portfolio *models.Portfolio, lookup PriceLookup) string {
	rows := BuildExportData(portfolio, lookup)
	log.WithField("rows", len(rows)).Debug("exporting portfolio CSV")
	return ExportCSV(rows)
}

func fields(r Row) []string {
	p := r.Position
	updated := ""
	if !p.UpdatedAt.IsZero() {
		updated = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.AccountName,
		string(r.AccountType),
		p.DisplayName(),
		p.Symbol,
		p.Units.StringFixed(4),
		r.Price.StringFixed(2),
		r.TotalValue.StringFixed(2),
		p.Currency,
		string(p.AssetType),
		updated,
		models.EncodeAdditionalParams(p),
	}
}

func header() string {
	cols := models.CSVColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return csvtext.JoinFields(names)
}

// ExportFilename is the suggested file name for an export made at now
func ExportFilename(now time.Time) string {
	return "portfolio-export-" + now.Format("2006-01-02") + ".csv"
}

// Template returns a CSV users can fill in, with one example row per kind of
// position the importer understands.
func Template() string {
	return header() + "\r\n" +
		`My ISA,ISA,Vanguard FTSE All-World,VWRL.L,10.0000,100.00,1000.00,GBP,ETF,,` + "\r\n" +
		`Savings,SAVINGS,Easy Access Saver,CASH-GBP,1.0000,5000.00,5000.00,GBP,CASH,,` + "\r\n" +
		`Home,PROPERTY,Family Home,HOME,1.0000,350000.00,350000.00,GBP,MORTGAGE,,"{""equity"":100000,""postcode"":""SW1A 1AA"",""totalPropertyValue"":350000,""valuationDate"":""2025-01-01""}"` + "\r\n" +
		`Cards,DEBT,Credit Card,CARD,1.0000,0.00,0.00,GBP,CREDIT_CARD,,"{""apr"":22.9,""currentBalance"":1200,""enteredAt"":""2025-01-01T00:00:00Z"",""monthlyRepayment"":150,""repaymentDayOfMonth"":15}"`
}
