// Package models defines core domain types
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio is an ordered list of accounts owned by a user
type Portfolio struct {
	ID        string     `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Accounts  []*Account `json:"accounts"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewPortfolio creates an empty portfolio
func NewPortfolio(ids IDGenerator, clock Clock, userID uuid.UUID, name string) *Portfolio {
	now := clock.Now()
	return &Portfolio{
		ID:        ids.NewID(),
		UserID:    userID,
		Name:      name,
		Accounts:  []*Account{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AccountCount returns the number of accounts
func (p *Portfolio) AccountCount() int {
	return len(p.Accounts)
}

// PositionCount returns the number of positions across all accounts
func (p *Portfolio) PositionCount() int {
	n := 0
	for _, a := range p.Accounts {
		n += len(a.Positions)
	}
	return n
}

// FindAccount returns the first account whose name matches case-insensitively
// and whose type matches exactly, or nil.
func (p *Portfolio) FindAccount(name string, accountType AccountType) *Account {
	for _, a := range p.Accounts {
		if a.Matches(name, accountType) {
			return a
		}
	}
	return nil
}

// Account groups positions held with one provider
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	Positions []*Position `json:"positions"`
}

// Matches reports whether the account has the given name (case-insensitive) and type
func (a *Account) Matches(name string, accountType AccountType) bool {
	return a.Type == accountType && strings.EqualFold(a.Name, name)
}

// Position is a single holding in an account
type Position struct {
	ID            string           `json:"id"`
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	CustomName    string           `json:"custom_name,omitempty"`
	Units         decimal.Decimal  `json:"units"`
	Currency      string           `json:"currency"`
	AssetType     AssetType        `json:"asset_type"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`

	side SideRecord
}

// DisplayName returns the user's override name when set, else the base name
func (p *Position) DisplayName() string {
	if p.CustomName != "" {
		return p.CustomName
	}
	return p.Name
}

// Side returns the attached side record, or nil
func (p *Position) Side() SideRecord {
	return p.side
}

// SetSide attaches r to the position. A nil r clears it.
func (p *Position) SetSide(r SideRecord) error {
	if r != nil && !r.Accepts(p.AssetType) {
		return ErrSideRecordMismatch
	}
	p.side = r
	return nil
}

// Mortgage returns the mortgage side record, or nil
func (p *Position) Mortgage() *MortgageData {
	m, _ := p.side.(*MortgageData)
	return m
}

// Debt returns the debt side record, or nil
func (p *Position) Debt() *DebtData {
	d, _ := p.side.(*DebtData)
	return d
}

// positionJSON is the serialized form of Position with the side record split
// into one optional key per family.
type positionJSON struct {
	positionFields
	Mortgage *MortgageData `json:"mortgage,omitempty"`
	Debt     *DebtData     `json:"debt,omitempty"`
}

type positionFields Position

// MarshalJSON implements json.Marshaler
func (p *Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{
		positionFields: positionFields(*p),
		Mortgage:       p.Mortgage(),
		Debt:           p.Debt(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Position) UnmarshalJSON(data []byte) error {
	var v positionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Position(v.positionFields)
	switch {
	case v.Mortgage != nil:
		return p.SetSide(v.Mortgage)
	case v.Debt != nil:
		return p.SetSide(v.Debt)
	}
	return nil
}
