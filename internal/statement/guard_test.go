package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtparse/internal/model"
)

func textPage(words ...string) model.Page {
	var toks []model.Token
	for i, w := range words {
		toks = append(toks, model.Token{Text: w, X0: float64(40 + 60*i), Y0: 100, Page: 1})
	}
	return model.Page{Number: 1, Tokens: toks}
}

func TestTextLayerGuard_Accepts(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		textPage("DBS", "Bank", "Consolidated", "Statement", "Account", "Summary", "for", "January", "2022"),
	}}
	report, err := DefaultGuard().Inspect(doc)
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
}

func TestTextLayerGuard_EmptyDocument(t *testing.T) {
	_, err := DefaultGuard().Inspect(model.Document{})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestTextLayerGuard_LowTextAndMissingHeaders(t *testing.T) {
	report, err := DefaultGuard().Inspect(model.Document{Pages: []model.Page{textPage("scan")}})
	require.NoError(t, err)
	require.Len(t, report.Warnings, 2)
	assert.Equal(t, model.WarnLowText, report.Warnings[0].Category)
	assert.Equal(t, model.WarnMissingHeader, report.Warnings[1].Category)
	assert.Equal(t, 0, report.Warnings[0].Page)
}

func TestTextLayerGuard_NoHeadersConfigured(t *testing.T) {
	g := TextLayerGuard{MinTextChars: 1}
	report, err := g.Inspect(model.Document{Pages: []model.Page{textPage("anything")}})
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
}

func TestPolicy_Confidence(t *testing.T) {
	p := DefaultPolicy()
	w := func(c model.WarningCategory) model.Warning { return model.Warning{Category: c} }

	assert.InDelta(t, 1.0, p.Confidence(nil), 1e-9)
	assert.InDelta(t, 0.95, p.Confidence([]model.Warning{w(model.WarnEmptyPage)}), 1e-9)
	assert.InDelta(t, 0.93, p.Confidence([]model.Warning{w(model.WarnEmptyPage), w(model.WarnDualAmount)}), 1e-9)
	assert.InDelta(t, 1.0, p.Confidence([]model.Warning{w("unknown")}), 1e-9)

	many := make([]model.Warning, 10)
	for i := range many {
		many[i] = w(model.WarnPageFault)
	}
	assert.Equal(t, 0.0, p.Confidence(many))
}

func TestPolicy_Monotonic(t *testing.T) {
	p := DefaultPolicy()
	cats := []model.WarningCategory{
		model.WarnEmptyPage, model.WarnFieldConflict, model.WarnLowText, model.WarnDescriptionAmount,
		model.WarnMissingBalance, model.WarnMissingHeader, model.WarnDualAmount, model.WarnPageFault,
	}
	var ws []model.Warning
	prev := p.Confidence(ws)
	for i := 0; i < 20; i++ {
		ws = append(ws, model.Warning{Category: cats[i%len(cats)]})
		next := p.Confidence(ws)
		assert.LessOrEqual(t, next, prev)
		assert.GreaterOrEqual(t, next, 0.0)
		prev = next
	}
}

func TestPolicy_Validate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
	p := DefaultPolicy()
	p.LowText = -0.1
	assert.Error(t, p.Validate())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "aborted: document rejected: empty document",
		Describe(model.ParseResult{AbortReason: "document rejected: empty document"}))
	assert.Equal(t, "0 transactions, confidence 95.00%, 1 warnings",
		Describe(model.ParseResult{Success: true, Confidence: 0.95, Warnings: []string{"x"}}))
}
