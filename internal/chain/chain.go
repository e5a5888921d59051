// Package chain checks the running-balance arithmetic of parsed statements.
package chain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtparse/internal/model"
)

// DefaultTolerance is the allowed drift between computed and printed balances.
var DefaultTolerance = decimal.New(1, -2)

// Mismatch describes one record whose balance does not follow from its predecessor.
type Mismatch struct {
	Index    int
	Date     string
	Expected decimal.NullDecimal
	Actual   decimal.NullDecimal
	Reason   string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("record %d [%s]: %s", m.Index, m.Date, m.Reason)
}

// Validate walks records in order and checks
// balance[i] == balance[i-1] - withdrawal[i] + deposit[i] within tolerance.
// A non-positive tolerance uses DefaultTolerance.
func Validate(records []model.TransactionRecord, tolerance decimal.Decimal) []Mismatch {
	if !tolerance.IsPositive() {
		tolerance = DefaultTolerance
	}

	var errs []Mismatch
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]

		if !cur.Balance.Valid {
			errs = append(errs, Mismatch{Index: i, Date: cur.Date, Reason: "record has no balance"})
			continue
		}
		if !prev.Balance.Valid {
			errs = append(errs, Mismatch{
				Index:  i,
				Date:   cur.Date,
				Actual: cur.Balance,
				Reason: "previous record has no balance",
			})
			continue
		}

		expected := prev.Balance.Decimal.
			Sub(amountOf(cur.Withdrawal)).
			Add(amountOf(cur.Deposit))
		if expected.Sub(cur.Balance.Decimal).Abs().GreaterThan(tolerance) {
			errs = append(errs, Mismatch{
				Index:    i,
				Date:     cur.Date,
				Expected: decimal.NewNullDecimal(expected),
				Actual:   cur.Balance,
				Reason: fmt.Sprintf("expected balance %s, got %s",
					expected.StringFixed(2), cur.Balance.Decimal.StringFixed(2)),
			})
		}
	}
	return errs
}

// Summary aggregates a record sequence.
type Summary struct {
	Records     int
	Opening     decimal.NullDecimal
	Closing     decimal.NullDecimal
	Withdrawals decimal.Decimal
	Deposits    decimal.Decimal
}

// Summarize totals withdrawals and deposits and picks the first and last
// printed balances.
func Summarize(records []model.TransactionRecord) Summary {
	s := Summary{Records: len(records)}
	for _, r := range records {
		s.Withdrawals = s.Withdrawals.Add(amountOf(r.Withdrawal))
		s.Deposits = s.Deposits.Add(amountOf(r.Deposit))
		if r.Balance.Valid {
			if !s.Opening.Valid {
				s.Opening = r.Balance
			}
			s.Closing = r.Balance
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d records, opening %s, closing %s, withdrawals %s, deposits %s",
		s.Records, fixed(s.Opening), fixed(s.Closing),
		s.Withdrawals.StringFixed(2), s.Deposits.StringFixed(2))
}

func amountOf(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

func fixed(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.StringFixed(2)
}
