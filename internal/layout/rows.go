// Package layout regroups positioned tokens into visual rows.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/cleared-dev/stmtparse/internal/model"
)

// DefaultTolerance is the vertical distance, in position units, within which
// tokens share a row.
const DefaultTolerance = 3.0

// Row is a set of tokens sharing a quantized vertical position, ordered left
// to right.
type Row struct {
	Key    float64 // quantized y
	Tokens []model.Token
}

// Text joins the row's token texts with single spaces.
func (r Row) Text() string {
	parts := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Quantize rounds y to the nearest multiple of tolerance.
//
// Two tokens on one printed line can still land in different rows when their
// y values straddle a rounding boundary; tolerance is the tuning knob for that.
func Quantize(y, tolerance float64) float64 {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return math.Round(y/tolerance) * tolerance
}

// GroupRows clusters one page's tokens into rows, top of page first. Within
// a row tokens are ordered by ascending x0; ties keep source order.
func GroupRows(tokens []model.Token, tolerance float64) []Row {
	if len(tokens) == 0 {
		return nil
	}

	buckets := make(map[float64][]model.Token)
	var keys []float64
	for _, t := range tokens {
		k := Quantize(t.Y0, tolerance)
		if _, seen := buckets[k]; !seen {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], t)
	}
	sort.Float64s(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		toks := buckets[k]
		sort.SliceStable(toks, func(i, j int) bool { return toks[i].X0 < toks[j].X0 })
		rows = append(rows, Row{Key: k, Tokens: toks})
	}
	return rows
}
