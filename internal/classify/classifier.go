// Package classify assigns row tokens to logical statement columns using
// value shape and horizontal position.
package classify

import (
	"strings"

	"github.com/cleared-dev/stmtparse/internal/layout"
	"github.com/cleared-dev/stmtparse/internal/model"
)

// Row is a classified row. Fields excludes the leading date token, if any.
type Row struct {
	Date   string // normalized DD/MM/YYYY; empty when the row does not start with a date
	Fields []model.FieldValue
	Text   string // joined raw text of the whole row
}

// StartsWithDate reports whether the row's first token was a date.
func (r Row) StartsWithDate() bool { return r.Date != "" }

// HasAmounts reports whether any field landed in an amount column.
func (r Row) HasAmounts() bool {
	for _, f := range r.Fields {
		if f.Kind.IsAmount() {
			return true
		}
	}
	return false
}

// Classifier classifies rows against one template's boundaries.
type Classifier struct {
	bounds Boundaries
}

// New returns a Classifier. It fails if the boundaries are out of order.
func New(b Boundaries) (*Classifier, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{bounds: b}, nil
}

// Boundaries returns the thresholds in use.
func (c *Classifier) Boundaries() Boundaries { return c.bounds }

// Column returns the amount column for an amount token at x. Tokens left of
// the withdrawal column are descriptions.
func (c *Classifier) Column(x float64) model.FieldKind {
	switch {
	case x >= c.bounds.BalanceMin:
		return model.FieldBalance
	case x >= c.bounds.DepositMin:
		return model.FieldDeposit
	case x >= c.bounds.WithdrawalMin:
		return model.FieldWithdrawal
	default:
		return model.FieldDescription
	}
}

// Classify classifies every token of row.
func (c *Classifier) Classify(row layout.Row) Row {
	out := Row{Text: row.Text()}
	tokens := row.Tokens
	if len(tokens) == 0 {
		return out
	}

	if d, ok := ParseDate(tokens[0].Text); ok {
		out.Date = d
		tokens = tokens[1:]
	}

	out.Fields = make([]model.FieldValue, 0, len(tokens))
	for _, t := range tokens {
		out.Fields = append(out.Fields, c.classifyToken(t))
	}
	return out
}

func (c *Classifier) classifyToken(t model.Token) model.FieldValue {
	fv := model.FieldValue{Text: t.Text, X: t.X0}
	if strings.TrimSpace(t.Text) == "" {
		fv.Kind = model.FieldUnrecognized
		return fv
	}

	amount, ok := ParseAmount(t.Text)
	if !ok {
		fv.Kind = model.FieldDescription
		return fv
	}

	fv.Kind = c.Column(t.X0)
	if fv.Kind == model.FieldDescription {
		fv.AmountShaped = true
		return fv
	}
	fv.Amount = amount
	return fv
}
