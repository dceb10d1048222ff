package models

import "strings"

// AccountType classifies an account
type AccountType string

const (
	AccountTypeISA       AccountType = "ISA"
	AccountTypeLISA      AccountType = "LISA"
	AccountTypeSIPP      AccountType = "SIPP"
	AccountTypeGIA       AccountType = "GIA"
	AccountTypeBrokerage AccountType = "BROKERAGE"
	AccountType401K      AccountType = "401K"
	AccountTypeCrypto    AccountType = "CRYPTO"
	AccountTypeCurrent   AccountType = "CURRENT"
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeProperty  AccountType = "PROPERTY"
	AccountTypeDebt      AccountType = "DEBT"
	AccountTypeOther     AccountType = "OTHER"
)

// AllAccountTypes returns all valid account types for iteration
func AllAccountTypes() []AccountType {
	return []AccountType{
		AccountTypeISA,
		AccountTypeLISA,
		AccountTypeSIPP,
		AccountTypeGIA,
		AccountTypeBrokerage,
		AccountType401K,
		AccountTypeCrypto,
		AccountTypeCurrent,
		AccountTypeSavings,
		AccountTypeProperty,
		AccountTypeDebt,
		AccountTypeOther,
	}
}

// ParseAccountType resolves s case-insensitively. Unknown values map to OTHER.
func ParseAccountType(s string) AccountType {
	want := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range AllAccountTypes() {
		if t == want {
			return t
		}
	}
	return AccountTypeOther
}

// DisplayName returns human-readable name for the account type
func (a AccountType) DisplayName() string {
	switch a {
	case AccountTypeISA:
		return "Stocks & Shares ISA"
	case AccountTypeLISA:
		return "Lifetime ISA"
	case AccountTypeSIPP:
		return "SIPP / Pension"
	case AccountTypeGIA:
		return "General Investment Account"
	case AccountTypeBrokerage:
		return "Brokerage"
	case AccountType401K:
		return "401(k)"
	case AccountTypeCrypto:
		return "Crypto"
	case AccountTypeCurrent:
		return "Current Account"
	case AccountTypeSavings:
		return "Savings Account"
	case AccountTypeProperty:
		return "Property"
	case AccountTypeDebt:
		return "Debt"
	case AccountTypeOther:
		return "Other"
	default:
		return string(a)
	}
}

// AssetType classifies a position
type AssetType string

const (
	AssetTypeEquity         AssetType = "EQUITY"
	AssetTypeETF            AssetType = "ETF"
	AssetTypeMutualFund     AssetType = "MUTUALFUND"
	AssetTypeIndex          AssetType = "INDEX"
	AssetTypeCurrency       AssetType = "CURRENCY"
	AssetTypeCrypto         AssetType = "CRYPTOCURRENCY"
	AssetTypeOption         AssetType = "OPTION"
	AssetTypeFuture         AssetType = "FUTURE"
	AssetTypeCash           AssetType = "CASH"
	AssetTypeMortgage       AssetType = "MORTGAGE"
	AssetTypeOwnedProperty  AssetType = "OWNED_PROPERTY"
	AssetTypeCreditCard     AssetType = "CREDIT_CARD"
	AssetTypeLoan           AssetType = "LOAN"
	AssetTypeStudentLoan    AssetType = "STUDENT_LOAN"
	AssetTypeAutoLoan       AssetType = "AUTO_LOAN"
	AssetTypeBuyNowPayLater AssetType = "BNPL"
	AssetTypeUnknown        AssetType = "UNKNOWN"
)

// AllAssetTypes returns all valid asset types for iteration
func AllAssetTypes() []AssetType {
	return []AssetType{
		AssetTypeEquity,
		AssetTypeETF,
		AssetTypeMutualFund,
		AssetTypeIndex,
		AssetTypeCurrency,
		AssetTypeCrypto,
		AssetTypeOption,
		AssetTypeFuture,
		AssetTypeCash,
		AssetTypeMortgage,
		AssetTypeOwnedProperty,
		AssetTypeCreditCard,
		AssetTypeLoan,
		AssetTypeStudentLoan,
		AssetTypeAutoLoan,
		AssetTypeBuyNowPayLater,
		AssetTypeUnknown,
	}
}

// ParseAssetType resolves s case-insensitively. Unknown values map to UNKNOWN.
func ParseAssetType(s string) AssetType {
	want := AssetType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range AllAssetTypes() {
		if t == want {
			return t
		}
	}
	return AssetTypeUnknown
}

// IsMortgageFamily reports whether positions of this type carry MortgageData
func (a AssetType) IsMortgageFamily() bool {
	return a == AssetTypeMortgage || a == AssetTypeOwnedProperty
}

// IsDebtFamily reports whether positions of this type carry DebtData
func (a AssetType) IsDebtFamily() bool {
	switch a {
	case AssetTypeCreditCard, AssetTypeLoan, AssetTypeStudentLoan, AssetTypeAutoLoan, AssetTypeBuyNowPayLater:
		return true
	}
	return false
}

// IsSpecialized reports whether the type needs additional parameters to be imported
func (a AssetType) IsSpecialized() bool {
	return a.IsMortgageFamily() || a.IsDebtFamily()
}

// IsMarketTraded reports whether a live price feed normally exists for the type
func (a AssetType) IsMarketTraded() bool {
	switch a {
	case AssetTypeEquity, AssetTypeETF, AssetTypeMutualFund, AssetTypeIndex,
		AssetTypeCurrency, AssetTypeCrypto, AssetTypeOption, AssetTypeFuture:
		return true
	}
	return false
}
