package models

import "github.com/shopspring/decimal"

// Column is one of the canonical portfolio CSV columns
type Column string

const (
	ColumnAccount          Column = "Account"
	ColumnAccountType      Column = "Account Type"
	ColumnAssetName        Column = "Asset Name"
	ColumnSymbol           Column = "Symbol"
	ColumnUnits            Column = "Units"
	ColumnPrice            Column = "Price"
	ColumnTotalValue       Column = "Total Value"
	ColumnCurrency         Column = "Currency"
	ColumnAssetType        Column = "Asset Type"
	ColumnLastUpdated      Column = "Last Updated"
	ColumnAdditionalParams Column = "Additional Parameters"
)

// CSVColumns returns the canonical columns in wire order
func CSVColumns() []Column {
	return []Column{
		ColumnAccount,
		ColumnAccountType,
		ColumnAssetName,
		ColumnSymbol,
		ColumnUnits,
		ColumnPrice,
		ColumnTotalValue,
		ColumnCurrency,
		ColumnAssetType,
		ColumnLastUpdated,
		ColumnAdditionalParams,
	}
}

// EssentialColumns returns the columns an import header must provide
func EssentialColumns() []Column {
	return []Column{
		ColumnAccount,
		ColumnAssetName,
		ColumnSymbol,
		ColumnUnits,
		ColumnCurrency,
	}
}

// CSVRow is one validated import line. It is transient and never persisted.
type CSVRow struct {
	AccountName      string          `json:"account_name"`
	AccountType      string          `json:"account_type"`
	AssetName        string          `json:"asset_name"`
	Symbol           string          `json:"symbol"`
	Units            decimal.Decimal `json:"units"`
	Price            decimal.Decimal `json:"price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	Currency         string          `json:"currency"`
	AssetType        string          `json:"asset_type"`
	LastUpdated      string          `json:"last_updated"`
	AdditionalParams string          `json:"additional_params,omitempty"`
}
