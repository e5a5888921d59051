package statement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtparse/internal/model"
)

// Policy is the flat per-warning confidence penalty schedule.
// Confidence is 1 minus the sum of penalties, floored at 0.
type Policy struct {
	EmptyPage         float64 `yaml:"empty_page"`
	PageFault         float64 `yaml:"page_fault"`
	FieldConflict     float64 `yaml:"field_conflict"`
	DualAmount        float64 `yaml:"dual_amount"`
	DescriptionAmount float64 `yaml:"description_amount"`
	MissingBalance    float64 `yaml:"missing_balance"`
	LowText           float64 `yaml:"low_text"`
	MissingHeader     float64 `yaml:"missing_header"`
}

// DefaultPolicy returns the default penalty schedule.
func DefaultPolicy() Policy {
	return Policy{
		EmptyPage:         0.05,
		PageFault:         0.25,
		FieldConflict:     0.02,
		DualAmount:        0.02,
		DescriptionAmount: 0.01,
		MissingBalance:    0.02,
		LowText:           0.30,
		MissingHeader:     0.15,
	}
}

// Validate rejects negative penalties, which would break monotonicity.
func (p Policy) Validate() error {
	for cat, v := range p.penalties() {
		if v < 0 {
			return fmt.Errorf("penalty for %s is negative: %v", cat, v)
		}
	}
	return nil
}

func (p Policy) penalties() map[model.WarningCategory]float64 {
	return map[model.WarningCategory]float64{
		model.WarnEmptyPage:         p.EmptyPage,
		model.WarnPageFault:         p.PageFault,
		model.WarnFieldConflict:     p.FieldConflict,
		model.WarnDualAmount:        p.DualAmount,
		model.WarnDescriptionAmount: p.DescriptionAmount,
		model.WarnMissingBalance:    p.MissingBalance,
		model.WarnLowText:           p.LowText,
		model.WarnMissingHeader:     p.MissingHeader,
	}
}

// Penalty returns the decrement for one warning of cat. Unknown categories cost nothing.
func (p Policy) Penalty(cat model.WarningCategory) float64 {
	return p.penalties()[cat]
}

// Confidence scores a warning list, rounded to 4 places.
func (p Policy) Confidence(warnings []model.Warning) float64 {
	table := p.penalties()
	score := decimal.NewFromInt(1)
	for _, w := range warnings {
		score = score.Sub(decimal.NewFromFloat(table[w.Category]))
	}
	if score.IsNegative() {
		return 0
	}
	return score.Round(4).InexactFloat64()
}
