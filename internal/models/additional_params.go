package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// EncodeAdditionalParams renders the position's side record as the JSON object
// stored in the "Additional Parameters" CSV column. Absent optional keys are
// omitted. A position without a side record encodes to "".
func EncodeAdditionalParams(p *Position) string {
	if p == nil || p.side == nil {
		return ""
	}
	data, err := json.Marshal(p.side)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeAdditionalParams parses raw for a position of type t.
//
// Decoding never fails: empty or malformed JSON, a non-object payload, or a
// type outside the specialized set all yield nil. Numeric fields accept a JSON
// number or a numeric string. Missing required fields default to zero values.
func DecodeAdditionalParams(raw string, t AssetType) SideRecord {
	raw = strings.TrimSpace(raw)
	if raw == "" || !t.IsSpecialized() {
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return nil
	}
	fields := looseObject(obj)

	if t.IsMortgageFamily() {
		return &MortgageData{
			Equity:                 fields.num("equity"),
			MortgageRate:           fields.optFloat("mortgageRate"),
			MortgageStartDate:      fields.optString("mortgageStartDate"),
			MortgageTerm:           fields.optInt("mortgageTerm"),
			MyEquityShare:          fields.optFloat("myEquityShare"),
			Postcode:               fields.text("postcode"),
			SharedOwnershipPercent: fields.optFloat("sharedOwnershipPercent"),
			TotalPropertyValue:     fields.num("totalPropertyValue"),
			ValuationDate:          fields.text("valuationDate"),
		}
	}

	return &DebtData{
		APR:                 fields.num("apr"),
		Archived:            fields.optBool("archived"),
		CurrentBalance:      fields.num("currentBalance"),
		EnteredAt:           fields.text("enteredAt"),
		LoanEndDate:         fields.optString("loanEndDate"),
		LoanStartDate:       fields.optString("loanStartDate"),
		MonthlyRepayment:    fields.num("monthlyRepayment"),
		PaidOff:             fields.optBool("paidOff"),
		RepaymentDayOfMonth: fields.integer("repaymentDayOfMonth"),
		TotalTermMonths:     fields.optInt("totalTermMonths"),
	}
}

// looseObject reads values out of a decoded JSON object, coercing where it
// can and treating anything else as absent.
type looseObject map[string]any

func (o looseObject) optFloat(key string) *float64 {
	switch v := o[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return nil
}

func (o looseObject) num(key string) float64 {
	if f := o.optFloat(key); f != nil {
		return *f
	}
	return 0
}

func (o looseObject) optInt(key string) *int {
	f := o.optFloat(key)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func (o looseObject) integer(key string) int {
	if n := o.optInt(key); n != nil {
		return *n
	}
	return 0
}

func (o looseObject) optString(key string) *string {
	if s, ok := o[key].(string); ok {
		return &s
	}
	return nil
}

func (o looseObject) text(key string) string {
	if s := o.optString(key); s != nil {
		return *s
	}
	return ""
}

func (o looseObject) optBool(key string) *bool {
	switch v := o[key].(type) {
	case bool:
		return &v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &b
	}
	return nil
}
