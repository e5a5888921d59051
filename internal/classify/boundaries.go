package classify

import (
	"errors"
	"fmt"
)

// ErrInvalidBoundaries is returned when column thresholds overlap or are out of order.
var ErrInvalidBoundaries = errors.New("invalid column boundaries")

// Boundaries are the calibrated horizontal thresholds of one document
// template. A token at exactly a threshold belongs to the column on its right.
type Boundaries struct {
	DateMax       float64 `yaml:"date_max" json:"date_max"`
	DescMin       float64 `yaml:"desc_min" json:"desc_min"`
	WithdrawalMin float64 `yaml:"withdrawal_min" json:"withdrawal_min"`
	DepositMin    float64 `yaml:"deposit_min" json:"deposit_min"`
	BalanceMin    float64 `yaml:"balance_min" json:"balance_min"`
}

// DBSBoundaries are calibrated for DBS/POSB consolidated statements.
func DBSBoundaries() Boundaries {
	return Boundaries{
		DateMax:       55,
		DescMin:       103,
		WithdrawalMin: 364,
		DepositMin:    440,
		BalanceMin:    503,
	}
}

// Validate checks date_max <= desc_min <= withdrawal_min < deposit_min < balance_min.
func (b Boundaries) Validate() error {
	switch {
	case b.DateMax > b.DescMin:
		return fmt.Errorf("%w: date_max %.2f > desc_min %.2f", ErrInvalidBoundaries, b.DateMax, b.DescMin)
	case b.DescMin > b.WithdrawalMin:
		return fmt.Errorf("%w: desc_min %.2f > withdrawal_min %.2f", ErrInvalidBoundaries, b.DescMin, b.WithdrawalMin)
	case b.WithdrawalMin >= b.DepositMin:
		return fmt.Errorf("%w: withdrawal_min %.2f >= deposit_min %.2f", ErrInvalidBoundaries, b.WithdrawalMin, b.DepositMin)
	case b.DepositMin >= b.BalanceMin:
		return fmt.Errorf("%w: deposit_min %.2f >= balance_min %.2f", ErrInvalidBoundaries, b.DepositMin, b.BalanceMin)
	}
	return nil
}
