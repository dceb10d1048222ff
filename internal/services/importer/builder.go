package importer

import (
	"fmt"
	"time"

	"github.com/findosh/folio/internal/models"
	"github.com/sirupsen/logrus"
)

// BuildResult is a freshly built portfolio plus a summary of what was created
type BuildResult struct {
	Portfolio     *models.Portfolio `json:"portfolio"`
	AccountCount  int               `json:"account_count"`
	PositionCount int               `json:"position_count"`
	Messages      []string          `json:"messages"`
}

// Builder materializes accounts and positions from validated rows
type Builder struct {
	ids   models.IDGenerator
	clock models.Clock
}

// NewBuilder creates a builder
func NewBuilder(ids models.IDGenerator, clock models.Clock) *Builder {
	return &Builder{ids: ids, clock: clock}
}

// BuildPortfolio groups rows by exact account name in first-seen order and
// creates one account per group with a position per row.
func (b *Builder) BuildPortfolio(rows []models.CSVRow) *BuildResult {
	now := b.clock.Now()
	portfolio := &models.Portfolio{
		Accounts:  []*models.Account{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	byName := make(map[string]*models.Account)
	for _, row := range rows {
		account, ok := byName[row.AccountName]
		if !ok {
			account = &models.Account{
				ID:        b.ids.NewID(),
				Name:      row.AccountName,
				Type:      models.ParseAccountType(row.AccountType),
				CreatedAt: now,
				Positions: []*models.Position{},
			}
			byName[row.AccountName] = account
			portfolio.Accounts = append(portfolio.Accounts, account)
		}
		account.Positions = append(account.Positions, b.newPosition(row, now))
	}

	result := &BuildResult{
		Portfolio:     portfolio,
		AccountCount:  portfolio.AccountCount(),
		PositionCount: portfolio.PositionCount(),
	}
	result.Messages = []string{ImportSummary(result.AccountCount, result.PositionCount)}

	log.WithFields(logrus.Fields{
		"accounts":  result.AccountCount,
		"positions": result.PositionCount,
	}).Info("built portfolio from CSV rows")

	return result
}

func (b *Builder) newPosition(row models.CSVRow, now time.Time) *models.Position {
	pos := &models.Position{
		ID:        b.ids.NewID(),
		Symbol:    row.Symbol,
		Name:      row.AssetName,
		Units:     row.Units,
		Currency:  row.Currency,
		AssetType: models.ParseAssetType(row.AssetType),
		UpdatedAt: parseTimestamp(row.LastUpdated, now),
	}

	// Only a positive price becomes an override: market-traded instruments
	// go back to the live feed after import.
	if row.Price.IsPositive() {
		price := row.Price
		pos.PriceOverride = &price
	}

	if side := models.DecodeAdditionalParams(row.AdditionalParams, pos.AssetType); side != nil {
		// Decoding is keyed by the same asset type, so the family always matches.
		_ = pos.SetSide(side)
	}
	return pos
}

// ImportSummary renders a pluralized summary sentence
func ImportSummary(accounts, positions int) string {
	if positions == 0 {
		return "No valid rows to import"
	}
	return fmt.Sprintf("Imported %d %s with %d %s",
		accounts, plural(accounts, "account", "accounts"),
		positions, plural(positions, "position", "positions"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp reads the Last Updated column. Unreadable values fall back to def.
func parseTimestamp(s string, def time.Time) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return def
}
