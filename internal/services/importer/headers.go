package importer

import (
	"strings"

	"github.com/findosh/folio/internal/models"
)

// AliasTable maps normalized physical header text to canonical columns.
// It is immutable once built and safe to share between parsers.
type AliasTable struct {
	aliases map[string]models.Column
}

// NewAliasTable builds a table from alias → column pairs. Keys are
// normalized (trimmed, upper-cased) on the way in.
func NewAliasTable(aliases map[string]models.Column) AliasTable {
	t := AliasTable{aliases: make(map[string]models.Column, len(aliases))}
	for alias, col := range aliases {
		t.aliases[normalizeHeader(alias)] = col
	}
	return t
}

// DefaultAliases returns the alias table used for portfolio imports. Every
// canonical column name is an alias of itself.
func DefaultAliases() AliasTable {
	aliases := map[string]models.Column{
		"ACCOUNT NAME":          models.ColumnAccount,
		"ACCOUNTTYPE":           models.ColumnAccountType,
		"NAME":                  models.ColumnAssetName,
		"ASSET":                 models.ColumnAssetName,
		"DESCRIPTION":           models.ColumnAssetName,
		"SECURITY":              models.ColumnAssetName,
		"TICKER":                models.ColumnSymbol,
		"QUANTITY":              models.ColumnUnits,
		"SHARES":                models.ColumnUnits,
		"QTY":                   models.ColumnUnits,
		"CURRENT PRICE":         models.ColumnPrice,
		"UNIT PRICE":            models.ColumnPrice,
		"VALUE":                 models.ColumnTotalValue,
		"TOTAL":                 models.ColumnTotalValue,
		"MARKET VALUE":          models.ColumnTotalValue,
		"CCY":                   models.ColumnCurrency,
		"ASSETTYPE":             models.ColumnAssetType,
		"TYPE":                  models.ColumnAssetType,
		"DATE":                  models.ColumnLastUpdated,
		"UPDATED":               models.ColumnLastUpdated,
		"LAST UPDATE":           models.ColumnLastUpdated,
		"ADDITIONAL PARAMS":     models.ColumnAdditionalParams,
		"PARAMETERS":            models.ColumnAdditionalParams,
		"ADDITIONAL PARAMETERS": models.ColumnAdditionalParams,
	}
	for _, col := range models.CSVColumns() {
		aliases[string(col)] = col
	}
	return NewAliasTable(aliases)
}

// Resolve returns the canonical column for a physical header
func (t AliasTable) Resolve(header string) (models.Column, bool) {
	col, ok := t.aliases[normalizeHeader(header)]
	return col, ok
}

// HeaderMapping is the result of resolving a header row
type HeaderMapping struct {
	// Index maps each resolved canonical column to its physical index
	Index map[models.Column]int
	// Missing lists unresolved essential columns in canonical order
	Missing []models.Column
}

// MapHeaders resolves each physical header through aliases. When two physical
// columns resolve to the same canonical column, the leftmost wins.
// Unrecognized headers are ignored.
func MapHeaders(header []string, aliases AliasTable) HeaderMapping {
	m := HeaderMapping{Index: make(map[models.Column]int)}
	for i, h := range header {
		col, ok := aliases.Resolve(h)
		if !ok {
			continue
		}
		if _, seen := m.Index[col]; seen {
			continue
		}
		m.Index[col] = i
	}

	for _, col := range models.EssentialColumns() {
		if _, ok := m.Index[col]; !ok {
			m.Missing = append(m.Missing, col)
		}
	}
	return m
}

// Field returns the trimmed value of col in fields, or "" when the column is
// unmapped or the row is too short.
func (m HeaderMapping) Field(fields []string, col models.Column) string {
	idx, ok := m.Index[col]
	if !ok || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}
