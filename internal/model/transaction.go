package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one logical statement transaction.
type TransactionRecord struct {
	Date        string // DD/MM/YYYY
	Description string
	Withdrawal  decimal.NullDecimal
	Deposit     decimal.NullDecimal
	Balance     decimal.NullDecimal
	Page        int
}

// Field returns the amount stored under kind. Non-amount kinds return an
// invalid NullDecimal.
func (r *TransactionRecord) Field(kind FieldKind) decimal.NullDecimal {
	switch kind {
	case FieldWithdrawal:
		return r.Withdrawal
	case FieldDeposit:
		return r.Deposit
	case FieldBalance:
		return r.Balance
	default:
		return decimal.NullDecimal{}
	}
}

// SetField stores amount under kind if that field is still unset. It reports
// whether the value was stored.
func (r *TransactionRecord) SetField(kind FieldKind, amount decimal.Decimal) bool {
	var dst *decimal.NullDecimal
	switch kind {
	case FieldWithdrawal:
		dst = &r.Withdrawal
	case FieldDeposit:
		dst = &r.Deposit
	case FieldBalance:
		dst = &r.Balance
	default:
		return false
	}
	if dst.Valid {
		return false
	}
	*dst = decimal.NullDecimal{Decimal: amount, Valid: true}
	return true
}

// recordJSON is the wire form. Amounts are emitted as JSON numbers with two
// fractional digits, or null.
type recordJSON struct {
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Withdrawal  *json.Number `json:"withdrawal"`
	Deposit     *json.Number `json:"deposit"`
	Balance     *json.Number `json:"balance"`
	Page        int          `json:"page"`
}

func amountToJSON(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.StringFixed(2))
	return &n
}

func amountFromJSON(n *json.Number) (decimal.NullDecimal, error) {
	if n == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// MarshalJSON implements json.Marshaler.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Date:        r.Date,
		Description: r.Description,
		Withdrawal:  amountToJSON(r.Withdrawal),
		Deposit:     amountToJSON(r.Deposit),
		Balance:     amountToJSON(r.Balance),
		Page:        r.Page,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	withdrawal, err := amountFromJSON(w.Withdrawal)
	if err != nil {
		return fmt.Errorf("parsing withdrawal: %w", err)
	}
	deposit, err := amountFromJSON(w.Deposit)
	if err != nil {
		return fmt.Errorf("parsing deposit: %w", err)
	}
	balance, err := amountFromJSON(w.Balance)
	if err != nil {
		return fmt.Errorf("parsing balance: %w", err)
	}
	*r = TransactionRecord{
		Date:        w.Date,
		Description: w.Description,
		Withdrawal:  withdrawal,
		Deposit:     deposit,
		Balance:     balance,
		Page:        w.Page,
	}
	return nil
}
