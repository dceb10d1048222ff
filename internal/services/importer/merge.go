package importer

import (
	"github.com/findosh/folio/internal/models"
	"github.com/sirupsen/logrus"
)

// Merger splices imported portfolios into existing ones
type Merger struct {
	ids   models.IDGenerator
	clock models.Clock
}

// NewMerger creates a merger
func NewMerger(ids models.IDGenerator, clock models.Clock) *Merger {
	return &Merger{ids: ids, clock: clock}
}

// MergePortfolios moves every account of imported into existing and returns
// existing. An imported account whose name matches an existing one
// case-insensitively, with the same type, has its positions appended to that
// account. Any other account is added with a new ID and the merge time as its
// creation time. No per-position de-duplication happens here; see
// FindDuplicates and SkipDuplicates.
//
// existing is modified in place; callers must serialize merges into the same
// portfolio. imported must not be used afterwards.
func (m *Merger) MergePortfolios(existing, imported *models.Portfolio) *models.Portfolio {
	now := m.clock.Now()
	appended, created := 0, 0

	for _, account := range imported.Accounts {
		if match := existing.FindAccount(account.Name, account.Type); match != nil {
			match.Positions = append(match.Positions, account.Positions...)
			appended++
			continue
		}
		account.ID = m.ids.NewID()
		account.CreatedAt = now
		existing.Accounts = append(existing.Accounts, account)
		created++
	}
	existing.UpdatedAt = now

	log.WithFields(logrus.Fields{
		"portfolio":        existing.ID,
		"accounts_merged":  appended,
		"accounts_created": created,
	}).Info("merged imported portfolio")

	return existing
}
