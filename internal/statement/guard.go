package statement

import (
	"errors"
	"strings"

	"github.com/cleared-dev/stmtparse/internal/model"
)

var (
	// ErrEmptyDocument is returned by the guard for a document with no pages.
	ErrEmptyDocument = errors.New("empty document")
	// ErrRejected is a generic guard rejection.
	ErrRejected = errors.New("document rejected")
)

// GuardReport carries soft findings from a guard that accepted the document.
type GuardReport struct {
	Warnings []model.Warning
}

// Guard inspects a document before any page processing. A non-nil error
// aborts the parse.
type Guard interface {
	Inspect(doc model.Document) (GuardReport, error)
}

// GuardFunc adapts a function to Guard.
type GuardFunc func(doc model.Document) (GuardReport, error)

// Inspect calls f(doc).
func (f GuardFunc) Inspect(doc model.Document) (GuardReport, error) { return f(doc) }

// TextLayerGuard checks that the document has pages and that the first page
// carries a usable text layer.
type TextLayerGuard struct {
	MinTextChars    int      `yaml:"min_text_chars"`
	ExpectedHeaders []string `yaml:"expected_headers"`
}

// DefaultGuard returns the guard settings for DBS/POSB statements.
func DefaultGuard() TextLayerGuard {
	return TextLayerGuard{
		MinTextChars:    50,
		ExpectedHeaders: []string{"Transaction Details", "Account Summary"},
	}
}

// Inspect implements Guard.
func (g TextLayerGuard) Inspect(doc model.Document) (GuardReport, error) {
	var report GuardReport
	if len(doc.Pages) == 0 {
		return report, ErrEmptyDocument
	}

	text := strings.TrimSpace(doc.Pages[0].Text())
	if len(text) < g.MinTextChars {
		report.Warnings = append(report.Warnings, model.Warning{
			Category: model.WarnLowText,
			Message:  "insufficient text content - possible OCR needed",
		})
	}

	if len(g.ExpectedHeaders) > 0 && !containsAny(text, g.ExpectedHeaders) {
		report.Warnings = append(report.Warnings, model.Warning{
			Category: model.WarnMissingHeader,
			Message:  "expected headers not found",
		})
	}
	return report, nil
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
