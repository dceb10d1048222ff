package models

import "errors"

// ErrSideRecordMismatch is returned when a side record does not belong to the
// asset type family of its position.
var ErrSideRecordMismatch = errors.New("side record does not match asset type")

// SideRecord is the extra data carried by mortgage-family and debt-family
// positions. It is implemented only by *MortgageData and *DebtData.
type SideRecord interface {
	// Accepts reports whether the record may be attached to a position of type t
	Accepts(t AssetType) bool
	sideRecord()
}

// MortgageData describes a property and, optionally, the mortgage secured on it.
// Fields are declared in wire order.
type MortgageData struct {
	Equity                 float64  `json:"equity"`
	MortgageRate           *float64 `json:"mortgageRate,omitempty"`
	MortgageStartDate      *string  `json:"mortgageStartDate,omitempty"`
	MortgageTerm           *int     `json:"mortgageTerm,omitempty"` // years
	MyEquityShare          *float64 `json:"myEquityShare,omitempty"`
	Postcode               string   `json:"postcode"`
	SharedOwnershipPercent *float64 `json:"sharedOwnershipPercent,omitempty"`
	TotalPropertyValue     float64  `json:"totalPropertyValue"`
	ValuationDate          string   `json:"valuationDate"`
}

func (*MortgageData) sideRecord() {}

// Accepts reports whether t is MORTGAGE or OWNED_PROPERTY
func (*MortgageData) Accepts(t AssetType) bool { return t.IsMortgageFamily() }

// HasRepayment reports whether rate, term and start date are all present.
// Partial repayment data counts as absent.
func (m *MortgageData) HasRepayment() bool {
	return m.MortgageRate != nil && m.MortgageTerm != nil && m.MortgageStartDate != nil
}

// IsSharedOwnership reports whether shared-ownership fields are set
func (m *MortgageData) IsSharedOwnership() bool {
	return m.SharedOwnershipPercent != nil
}

// DebtData describes a credit card, loan or other borrowing.
// Fields are declared in wire order.
type DebtData struct {
	APR                 float64 `json:"apr"`
	Archived            *bool   `json:"archived,omitempty"`
	CurrentBalance      float64 `json:"currentBalance"`
	EnteredAt           string  `json:"enteredAt"`
	LoanEndDate         *string `json:"loanEndDate,omitempty"`
	LoanStartDate       *string `json:"loanStartDate,omitempty"`
	MonthlyRepayment    float64 `json:"monthlyRepayment"`
	PaidOff             *bool   `json:"paidOff,omitempty"`
	RepaymentDayOfMonth int     `json:"repaymentDayOfMonth"`
	TotalTermMonths     *int    `json:"totalTermMonths,omitempty"`
}

func (*DebtData) sideRecord() {}

// Accepts reports whether t belongs to the debt family
func (*DebtData) Accepts(t AssetType) bool { return t.IsDebtFamily() }

// IsPaidOff reports whether the debt has been flagged as paid off
func (d *DebtData) IsPaidOff() bool {
	return d.PaidOff != nil && *d.PaidOff
}
