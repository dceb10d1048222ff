package importer

import (
	"strings"

	"github.com/findosh/folio/internal/models"
)

// Duplicate reports an imported symbol already held in the matching account
type Duplicate struct {
	Symbol        string `json:"symbol"`
	AccountName   string `json:"account_name"`
	ExistingCount int    `json:"existing_count"`
}

// FindDuplicates compares imported positions with the existing account they
// would merge into (same matching rule as MergePortfolios). Symbols compare
// case-insensitively. One entry is reported per imported position that
// collides, keeping the imported symbol's casing.
func FindDuplicates(existing, imported *models.Portfolio) []Duplicate {
	var dups []Duplicate
	for _, account := range imported.Accounts {
		match := existing.FindAccount(account.Name, account.Type)
		if match == nil {
			continue
		}
		counts := symbolCounts(match)
		for _, pos := range account.Positions {
			if n := counts[strings.ToUpper(pos.Symbol)]; n > 0 {
				dups = append(dups, Duplicate{
					Symbol:        pos.Symbol,
					AccountName:   match.Name,
					ExistingCount: n,
				})
			}
		}
	}
	return dups
}

// SkipDuplicates removes from imported every position FindDuplicates would
// report and returns how many were removed. Accounts left empty are dropped.
func SkipDuplicates(existing, imported *models.Portfolio) int {
	removed := 0
	accounts := imported.Accounts[:0]
	for _, account := range imported.Accounts {
		if match := existing.FindAccount(account.Name, account.Type); match != nil {
			counts := symbolCounts(match)
			kept := account.Positions[:0]
			for _, pos := range account.Positions {
				if counts[strings.ToUpper(pos.Symbol)] > 0 {
					removed++
					continue
				}
				kept = append(kept, pos)
			}
			account.Positions = kept
		}
		if len(account.Positions) > 0 {
			accounts = append(accounts, account)
		}
	}
	imported.Accounts = accounts
	return removed
}

func symbolCounts(account *models.Account) map[string]int {
	counts := make(map[string]int, len(account.Positions))
	for _, p := range account.Positions {
		counts[strings.ToUpper(p.Symbol)]++
	}
	return counts
}
