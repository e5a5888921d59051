package model

import "github.com/shopspring/decimal"

// FieldKind is the logical column a token was classified into.
type FieldKind int

const (
	FieldUnrecognized FieldKind = iota
	FieldDate
	FieldDescription
	FieldWithdrawal
	FieldDeposit
	FieldBalance
)

func (k FieldKind) String() string {
	switch k {
	case FieldDate:
		return "date"
	case FieldDescription:
		return "description"
	case FieldWithdrawal:
		return "withdrawal"
	case FieldDeposit:
		return "deposit"
	case FieldBalance:
		return "balance"
	default:
		return "unrecognized"
	}
}

// IsAmount reports whether the kind is one of the three amount columns.
func (k FieldKind) IsAmount() bool {
	return k == FieldWithdrawal || k == FieldDeposit || k == FieldBalance
}

// FieldValue is a classified token.
type FieldValue struct {
	Kind   FieldKind
	Text   string          // raw token text; normalized DD/MM/YYYY for dates
	Amount decimal.Decimal // set for amount kinds
	X      float64

	// AmountShaped marks a Description token that matched the amount grammar
	// but sits left of the withdrawal column.
	AmountShaped bool
}
