package main

import (
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/findosh/folio/internal/models"
	"github.com/shopspring/decimal"
)

// currencyTotal is the summed value of rows in one currency
type currencyTotal struct {
	Currency string
	Amount   decimal.Decimal
}

// Display formats the amount with the currency's symbol and minor units.
// Unknown currency codes fall back to "<amount> <code>".
func (c currencyTotal) Display() string {
	cur := money.GetCurrency(c.Currency)
	if cur == nil {
		return c.Amount.StringFixed(2) + " " + c.Currency
	}
	minor := c.Amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), c.Currency).Display()
}

// totalsByCurrency sums the Total Value column per currency, sorted by code
func totalsByCurrency(rows []models.CSVRow) []currencyTotal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rows {
		sums[r.Currency] = sums[r.Currency].Add(r.TotalValue)
	}

	out := make([]currencyTotal, 0, len(sums))
	for code, amount := range sums {
		out = append(out, currencyTotal{Currency: code, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}
