// Package export writes parse results as JSON, CSV or XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtparse/internal/model"
)

// Header is the CSV header for transaction exports.
const Header = "date,description,withdrawal,deposit,balance,page"

const (
	numFields = 6
	colDate   = 0
	colDesc   = 1
	colWdr    = 2
	colDep    = 3
	colBal    = 4
	colPage   = 5
)

// Writer encodes a result to w.
type Writer func(w io.Writer, res model.ParseResult) error

var writers = map[string]Writer{
	"json": WriteJSON,
	"csv":  WriteCSV,
	"xlsx": WriteXLSX,
}

// Formats lists the supported export formats.
func Formats() []string {
	out := make([]string, 0, len(writers))
	for k := range writers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// For returns the writer for format.
func For(format string) (Writer, error) {
	w, ok := writers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return w, nil
}

// WriteJSON writes the result envelope, indented, with a trailing newline.
func WriteJSON(w io.Writer, res model.ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

// ReadJSON decodes a result previously written by WriteJSON.
func ReadJSON(r io.Reader) (model.ParseResult, error) {
	var res model.ParseResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return model.ParseResult{}, fmt.Errorf("decoding result: %w", err)
	}
	return res, nil
}

// WriteCSV writes the transactions (including header). Result metadata is
// not part of the CSV form.
func WriteCSV(w io.Writer, res model.ParseResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range res.Transactions {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a record to a CSV row. Missing amounts are empty cells.
func MarshalRecord(rec model.TransactionRecord) []string {
	row := make([]string, numFields)
	row[colDate] = rec.Date
	row[colDesc] = rec.Description
	row[colWdr] = fixed(rec.Withdrawal)
	row[colDep] = fixed(rec.Deposit)
	row[colBal] = fixed(rec.Balance)
	row[colPage] = strconv.Itoa(rec.Page)
	return row
}

// ReadCSV reads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]model.TransactionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var out []model.TransactionRecord
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// UnmarshalRecord converts a CSV row to a record.
func UnmarshalRecord(row []string) (model.TransactionRecord, error) {
	if len(row) != numFields {
		return model.TransactionRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}
	rec := model.TransactionRecord{Date: row[colDate], Description: row[colDesc]}

	var err error
	if rec.Withdrawal, err = parseAmount(row[colWdr]); err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing withdrawal %q: %w", row[colWdr], err)
	}
	if rec.Deposit, err = parseAmount(row[colDep]); err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing deposit %q: %w", row[colDep], err)
	}
	if rec.Balance, err = parseAmount(row[colBal]); err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing balance %q: %w", row[colBal], err)
	}
	if rec.Page, err = strconv.Atoi(row[colPage]); err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing page %q: %w", row[colPage], err)
	}
	return rec, nil
}

func parseAmount(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func fixed(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}
