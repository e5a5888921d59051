// Package assemble stitches classified rows into transaction records.
//
// Each page runs its own two-state machine. Idle has no open record;
// Building has one. A date-starting row finalizes the open record (if any)
// and opens a new one. Any other row while Building is a continuation row:
// its amounts fill fields that are still unset, and when it carries no
// amounts its text extends the description. Rows seen while Idle that do not
// start with a date are ignored. The open record is finalized at end of page.
package assemble

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/stmtparse/internal/classify"
	"github.com/cleared-dev/stmtparse/internal/model"
)

// Options control the table region of a page.
type Options struct {
	// StartMarkers are phrases on the row just above the transaction table.
	StartMarkers []string
	// EndMarkers are phrases on the first row after the transaction table.
	EndMarkers []string
}

// PageResult is the outcome of assembling one page.
type PageResult struct {
	Page     int
	Records  []model.TransactionRecord
	Warnings []model.Warning
}

// Assembler turns a page of classified rows into records. It holds no
// per-page state and is safe for concurrent use.
type Assembler struct {
	opts Options
}

// New returns an Assembler.
func New(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// AssemblePage runs the state machine over one page's rows.
func (a *Assembler) AssemblePage(page int, rows []classify.Row) PageResult {
	m := &machine{res: PageResult{Page: page}}

	start := a.tableStart(rows)
	if start < 0 {
		return m.res
	}

	for _, r := range rows[start:] {
		if containsAny(r.Text, a.opts.EndMarkers) {
			break
		}
		m.feed(r)
	}
	m.finalize()
	return m.res
}

// tableStart returns the index of the first table row, or -1. The table
// begins after a start-marker row or at the first date-starting row,
// whichever comes first.
func (a *Assembler) tableStart(rows []classify.Row) int {
	for i, r := range rows {
		if containsAny(r.Text, a.opts.StartMarkers) {
			return i + 1
		}
		if r.StartsWithDate() {
			return i
		}
	}
	return -1
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

type machine struct {
	open *model.TransactionRecord // nil while Idle
	desc []string
	res  PageResult
}

func (m *machine) feed(r classify.Row) {
	switch {
	case r.StartsWithDate():
		m.finalize()
		m.begin(r)
	case m.open != nil:
		m.continuation(r)
	}
}

func (m *machine) begin(r classify.Row) {
	m.open = &model.TransactionRecord{Date: r.Date, Page: m.res.Page}
	m.desc = nil
	for _, f := range r.Fields {
		switch {
		case f.Kind.IsAmount():
			m.merge(f)
		case f.Kind == model.FieldDescription:
			m.noteAmountShaped(f)
			m.desc = append(m.desc, f.Text)
		}
	}
}

// continuation merges a non-date row. Only tokens in an amount column count
// as amounts; an amount-shaped token in the description zone stays text.
func (m *machine) continuation(r classify.Row) {
	if r.HasAmounts() {
		for _, f := range r.Fields {
			if f.Kind.IsAmount() {
				m.merge(f)
			}
		}
		return
	}
	for _, f := range r.Fields {
		if f.Kind == model.FieldDescription {
			m.noteAmountShaped(f)
			m.desc = append(m.desc, f.Text)
		}
	}
}

// merge applies first-wins: an already captured field is never overwritten.
func (m *machine) merge(f model.FieldValue) {
	if m.open.SetField(f.Kind, f.Amount) {
		return
	}
	kept := m.open.Field(f.Kind)
	m.warn(model.WarnFieldConflict, "record %s: %s %s discarded, already %s",
		m.open.Date, f.Kind, f.Amount.StringFixed(2), kept.Decimal.StringFixed(2))
}

func (m *machine) noteAmountShaped(f model.FieldValue) {
	if !f.AmountShaped {
		return
	}
	m.warn(model.WarnDescriptionAmount, "amount-shaped token %q at x=%.2f left of withdrawal column kept as description",
		f.Text, f.X)
}

func (m *machine) finalize() {
	if m.open == nil {
		return
	}
	rec := *m.open
	rec.Description = strings.Join(m.desc, " ")

	if rec.Withdrawal.Valid && rec.Deposit.Valid {
		m.warn(model.WarnDualAmount, "record %s (%s): both withdrawal %s and deposit %s populated",
			rec.Date, brief(rec.Description), rec.Withdrawal.Decimal.StringFixed(2), rec.Deposit.Decimal.StringFixed(2))
	}
	if !rec.Balance.Valid {
		m.warn(model.WarnMissingBalance, "record %s (%s): no balance captured", rec.Date, brief(rec.Description))
	}

	m.res.Records = append(m.res.Records, rec)
	m.open = nil
	m.desc = nil
}

func (m *machine) warn(cat model.WarningCategory, format string, args ...any) {
	m.res.Warnings = append(m.res.Warnings, model.Warning{
		Category: cat,
		Page:     m.res.Page,
		Message:  fmt.Sprintf(format, args...),
	})
}

func brief(s string) string {
	const limit = 40
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
