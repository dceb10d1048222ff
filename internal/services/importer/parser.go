// Package importer turns portfolio CSV text into validated rows, builds
// portfolios from them and merges the result into existing portfolios.
package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/findosh/folio/internal/csvtext"
	"github.com/findosh/folio/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var (
	ErrEmptyFile      = errors.New("CSV file is empty")
	ErrNoDataRows     = errors.New("CSV file must contain a header row and at least one data row")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoData         = errors.New("no valid rows to import")
)

// ValidationError describes one problem found while parsing. Row is the
// 1-based data row number; file-level problems use Row 0.
type ValidationError struct {
	Row     int           `json:"row"`
	Column  models.Column `json:"column,omitempty"`
	Message string        `json:"message"`
	Value   string        `json:"value,omitempty"`

	err error
}

func (e ValidationError) Error() string {
	if e.Row == 0 {
		return e.Message
	}
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Column, e.Message)
}

// Unwrap returns the sentinel behind a file-level error
func (e ValidationError) Unwrap() error {
	return e.err
}

// SkippedRow is a structurally valid row left out of the import
type SkippedRow struct {
	Row    int    `json:"row"`
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// ParseResult holds the outcome of parsing one CSV file
type ParseResult struct {
	Rows         []models.CSVRow   `json:"rows"`
	Errors       []ValidationError `json:"errors"`
	Skipped      []SkippedRow      `json:"skipped"`
	TotalRawRows int               `json:"total_raw_rows"`
}

// FileError returns the file-level error that stopped parsing, or nil
func (r *ParseResult) FileError() error {
	for _, e := range r.Errors {
		if e.Row == 0 {
			return e
		}
	}
	return nil
}

// Parser validates portfolio CSV text
type Parser struct {
	aliases AliasTable
	clock   models.Clock
}

// NewParser creates a parser resolving headers through aliases. The clock
// supplies the Last Updated default.
func NewParser(aliases AliasTable, clock models.Clock) *Parser {
	return &Parser{aliases: aliases, clock: clock}
}

// ParseCSV validates every data row of text. Bad rows never abort the batch:
// they are collected in Errors and parsing moves on.
func (p *Parser) ParseCSV(text string) *ParseResult {
	result := &ParseResult{}

	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		result.fileError(ErrEmptyFile, ErrEmptyFile.Error())
		return result
	}

	lines := nonBlank(csvtext.SplitLogicalLines(text))
	if len(lines) < 2 {
		result.fileError(ErrNoDataRows, ErrNoDataRows.Error())
		return result
	}

	mapping := MapHeaders(csvtext.SplitFields(lines[0]), p.aliases)
	if len(mapping.Missing) > 0 {
		names := make([]string, len(mapping.Missing))
		for i, c := range mapping.Missing {
			names[i] = string(c)
		}
		result.fileError(ErrMissingColumns, fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(names, ", ")))
		return result
	}

	now := p.clock.Now()
	for _, line := range lines[1:] {
		result.TotalRawRows++
		p.parseRow(result, result.TotalRawRows, csvtext.SplitFields(line), mapping, now)
	}

	log.WithFields(logrus.Fields{
		"rows":    len(result.Rows),
		"errors":  len(result.Errors),
		"skipped": len(result.Skipped),
		"raw":     result.TotalRawRows,
	}).Info("parsed portfolio CSV")

	return result
}

func (p *Parser) parseRow(result *ParseResult, rowNum int, fields []string, m HeaderMapping, now time.Time) {
	var errs []ValidationError
	fail := func(col models.Column, msg, value string) {
		errs = append(errs, ValidationError{Row: rowNum, Column: col, Message: msg, Value: value})
	}

	account := m.Field(fields, models.ColumnAccount)
	assetName := m.Field(fields, models.ColumnAssetName)
	symbol := m.Field(fields, models.ColumnSymbol)
	currency := m.Field(fields, models.ColumnCurrency)
	unitsRaw := m.Field(fields, models.ColumnUnits)

	if account == "" {
		fail(models.ColumnAccount, "account name is required", "")
	}
	if assetName == "" {
		fail(models.ColumnAssetName, "asset name is required", "")
	}
	if symbol == "" {
		fail(models.ColumnSymbol, "symbol is required", "")
	}
	if currency == "" {
		fail(models.ColumnCurrency, "currency is required", "")
	}

	units, err := decimal.NewFromString(unitsRaw)
	switch {
	case unitsRaw == "":
		fail(models.ColumnUnits, "units is required", "")
	case err != nil:
		fail(models.ColumnUnits, "units must be a number", unitsRaw)
	case units.IsNegative():
		fail(models.ColumnUnits, "units cannot be negative", unitsRaw)
	}

	if len(errs) > 0 {
		p.reject(result, errs)
		return
	}

	price := decimal.Zero
	if raw := m.Field(fields, models.ColumnPrice); raw != "" {
		if price, err = decimal.NewFromString(raw); err != nil {
			fail(models.ColumnPrice, "price must be a number", raw)
		}
	}

	var totalValue decimal.Decimal
	if raw := m.Field(fields, models.ColumnTotalValue); raw != "" {
		if totalValue, err = decimal.NewFromString(raw); err != nil {
			fail(models.ColumnTotalValue, "total value must be a number", raw)
		}
	} else {
		totalValue = units.Mul(price)
	}

	if len(errs) > 0 {
		p.reject(result, errs)
		return
	}

	row := models.CSVRow{
		AccountName:      account,
		AccountType:      orDefault(m.Field(fields, models.ColumnAccountType), string(models.AccountTypeOther)),
		AssetName:        assetName,
		Symbol:           symbol,
		Units:            units,
		Price:            price,
		TotalValue:       totalValue,
		Currency:         strings.ToUpper(currency),
		AssetType:        strings.ToUpper(orDefault(m.Field(fields, models.ColumnAssetType), string(models.AssetTypeUnknown))),
		LastUpdated:      orDefault(m.Field(fields, models.ColumnLastUpdated), now.Format(time.RFC3339)),
		AdditionalParams: m.Field(fields, models.ColumnAdditionalParams),
	}

	if models.ParseAssetType(row.AssetType).IsSpecialized() && row.AdditionalParams == "" {
		skip := SkippedRow{
			Row:    rowNum,
			Symbol: symbol,
			Reason: fmt.Sprintf("%s position %q has no additional parameters", row.AssetType, symbol),
		}
		log.WithField("row", rowNum).Debug(skip.Reason)
		result.Skipped = append(result.Skipped, skip)
		return
	}

	result.Rows = append(result.Rows, row)
}

func (p *Parser) reject(result *ParseResult, errs []ValidationError) {
	for _, e := range errs {
		log.WithFields(logrus.Fields{"row": e.Row, "column": e.Column}).Debug(e.Message)
	}
	result.Errors = append(result.Errors, errs...)
}

func (r *ParseResult) fileError(sentinel error, msg string) {
	r.Errors = append(r.Errors, ValidationError{Message: msg, err: sentinel})
}

func nonBlank(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
