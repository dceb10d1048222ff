package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/findosh/folio/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioRepository stores portfolios together with their accounts and
// positions. A position's side record is kept as its Additional Parameters
// JSON so the database and CSV share one encoding.
type PortfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Create inserts a new portfolio with everything it holds
func (r *PortfolioRepository) Create(p *models.Portfolio) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO portfolios (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.UserID.String(), p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	if err := writeAccounts(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// Save replaces the stored accounts and positions of an existing portfolio
// in one transaction.
func (r *PortfolioRepository) Save(p *models.Portfolio) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE portfolios SET name = ?, updated_at = ? WHERE id = ?`, p.Name, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := clearHoldings(tx, p.ID); err != nil {
		return err
	}
	if err := writeAccounts(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func writeAccounts(tx *sql.Tx, p *models.Portfolio) error {
	accStmt, err := tx.Prepare(`
		INSERT INTO accounts (id, portfolio_id, sort_order, name, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer accStmt.Close()

	posStmt, err := tx.Prepare(`
		INSERT INTO positions (
			id, account_id, sort_order, symbol, name, custom_name, units,
			currency, asset_type, price_override, additional_params, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer posStmt.Close()

	for i, a := range p.Accounts {
		if _, err := accStmt.Exec(a.ID, p.ID, i, a.Name, string(a.Type), a.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert account %s: %w", a.ID, err)
		}
		for j, pos := range a.Positions {
			var override sql.NullString
			if pos.PriceOverride != nil {
				override = sql.NullString{String: pos.PriceOverride.String(), Valid: true}
			}
			_, err := posStmt.Exec(
				pos.ID,
				a.ID,
				j,
				pos.Symbol,
				pos.Name,
				pos.CustomName,
				pos.Units.String(),
				pos.Currency,
				string(pos.AssetType),
				override,
				models.EncodeAdditionalParams(pos),
				pos.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert position %s: %w", pos.ID, err)
			}
		}
	}
	return nil
}

// GetByID retrieves a portfolio with its accounts and positions
func (r *PortfolioRepository) GetByID(id string) (*models.Portfolio, error) {
	var p models.Portfolio
	var userID string

	err := r.db.QueryRow(`
		SELECT id, user_id, name, created_at, updated_at
		FROM portfolios WHERE id = ?
	`, id).Scan(&p.ID, &userID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan portfolio: %w", err)
	}
	if p.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	if err := r.loadAccounts(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID retrieves all portfolios for a user, newest first
func (r *PortfolioRepository) GetByUserID(userID uuid.UUID) ([]*models.Portfolio, error) {
	ids, err := r.queryIDs(`SELECT id FROM portfolios WHERE user_id = ? ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, err
	}

	portfolios := make([]*models.Portfolio, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, nil
}

// ListIDs returns the identifier of every stored portfolio
func (r *PortfolioRepository) ListIDs() ([]string, error) {
	return r.queryIDs(`SELECT id FROM portfolios ORDER BY created_at`)
}

// Delete removes a portfolio and all its holdings in one transaction
func (r *PortfolioRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearHoldings(tx, id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM portfolios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// clearHoldings removes the positions then accounts of a portfolio
func clearHoldings(tx *sql.Tx, portfolioID string) error {
	if _, err := tx.Exec(`
		DELETE FROM positions WHERE account_id IN (SELECT id FROM accounts WHERE portfolio_id = ?)
	`, portfolioID); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM accounts WHERE portfolio_id = ?`, portfolioID); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	return nil
}

func (r *PortfolioRepository) queryIDs(query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PortfolioRepository) loadAccounts(p *models.Portfolio) error {
	rows, err := r.db.Query(`
		SELECT id, name, type, created_at
		FROM accounts WHERE portfolio_id = ? ORDER BY sort_order
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	p.Accounts = []*models.Account{}
	byID := make(map[string]*models.Account)
	for rows.Next() {
		a := &models.Account{Positions: []*models.Position{}}
		var accountType string
		if err := rows.Scan(&a.ID, &a.Name, &accountType, &a.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan account: %w", err)
		}
		a.Type = models.ParseAccountType(accountType)
		p.Accounts = append(p.Accounts, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return r.loadPositions(p.ID, byID)
}

func (r *PortfolioRepository) loadPositions(portfolioID string, accounts map[string]*models.Account) error {
	rows, err := r.db.Query(`
		SELECT p.id, p.account_id, p.symbol, p.name, p.custom_name, p.units, p.currency,
			p.asset_type, p.price_override, p.additional_params, p.updated_at
		FROM positions p
		JOIN accounts a ON a.id = p.account_id
		WHERE a.portfolio_id = ?
		ORDER BY a.sort_order, p.sort_order
	`, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos models.Position
		var accountID, units, assetType, params string
		var override sql.NullString

		err := rows.Scan(
			&pos.ID,
			&accountID,
			&pos.Symbol,
			&pos.Name,
			&pos.CustomName,
			&units,
			&pos.Currency,
			&assetType,
			&override,
			&params,
			&pos.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan position: %w", err)
		}

		if pos.Units, err = decimal.NewFromString(units); err != nil {
			return fmt.Errorf("position %s: bad units %q: %w", pos.ID, units, err)
		}
		if override.Valid {
			price, err := decimal.NewFromString(override.String)
			if err != nil {
				return fmt.Errorf("position %s: bad price override %q: %w", pos.ID, override.String, err)
			}
			pos.PriceOverride = &price
		}
		pos.AssetType = models.ParseAssetType(assetType)
		if side := models.DecodeAdditionalParams(params, pos.AssetType); side != nil {
			_ = pos.SetSide(side)
		}

		if a, ok := accounts[accountID]; ok {
			a.Positions = append(a.Positions, &pos)
		}
	}
	return rows.Err()
}
