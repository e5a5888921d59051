package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtparse/internal/model"
)

const (
	SheetTransactions = "Transactions"
	SheetSummary      = "Summary"
)

// WriteXLSX writes a workbook with a Transactions sheet and a Summary sheet
// holding success, confidence, abort reason and warnings.
func WriteXLSX(w io.Writer, res model.ParseResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("adding summary sheet: %w", err)
	}

	header := strings.Split(Header, ",")
	if err := setRow(f, SheetTransactions, 1, toCells(header)); err != nil {
		return err
	}

	for i, rec := range res.Transactions {
		row := []interface{}{
			rec.Date,
			rec.Description,
			number(rec.Withdrawal),
			number(rec.Deposit),
			number(rec.Balance),
			rec.Page,
		}
		if err := setRow(f, SheetTransactions, i+2, row); err != nil {
			return err
		}
	}
	if err := formatSheet(f, SheetTransactions, len(header)); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"success", res.Success},
		{"confidence", res.Confidence},
		{"transactions", len(res.Transactions)},
		{"abort_reason", res.AbortReason},
	}
	for _, msg := range res.Warnings {
		summary = append(summary, []interface{}{"warning", msg})
	}
	for i, row := range summary {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// formatSheet bolds the header row of sheet and sets column widths.
func formatSheet(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 12},
		{"B", "B", 48},
		{"C", "E", 14},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("setting %s width of %s:%s: %w", sheet, w.from, w.to, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// number returns a float cell value, or nil for an empty cell.
func number(v decimal.NullDecimal) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Decimal.Round(2).InexactFloat64()
}
