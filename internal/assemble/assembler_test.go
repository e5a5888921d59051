package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtparse/internal/classify"
	"github.com/cleared-dev/stmtparse/internal/layout"
	"github.com/cleared-dev/stmtparse/internal/model"
)

const (
	xDate       = 40
	xDesc       = 110
	xWithdrawal = 390
	xDeposit    = 460
	xBalance    = 520
)

type cell struct {
	text string
	x    float64
}

// rows classifies each line of cells with the DBS boundaries.
func rows(t *testing.T, lines ...[]cell) []classify.Row {
	t.Helper()
	c, err := classify.New(classify.DBSBoundaries())
	require.NoError(t, err)

	out := make([]classify.Row, 0, len(lines))
	for i, line := range lines {
		var r layout.Row
		for _, cl := range line {
			y := float64(100 + 12*i)
			r.Tokens = append(r.Tokens, model.Token{Text: cl.text, X0: cl.x, X1: cl.x + 20, Y0: y, Y1: y + 8, Page: 2})
		}
		out = append(out, c.Classify(r))
	}
	return out
}

func line(cells ...cell) []cell { return cells }

func categories(ws []model.Warning) []model.WarningCategory {
	var out []model.WarningCategory
	for _, w := range ws {
		out = append(out, w.Category)
	}
	return out
}

func TestAssemble_ContinuationMerge(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(2, rows(t,
		line(cell{"01/01/2022", xDate}, cell{"Debit", xDesc}, cell{"Card", xDesc + 30}, cell{"Transaction", xDesc + 55}),
		line(cell{"20.00", xWithdrawal}),
		line(cell{"7-ELEVEN", xDesc}),
		line(cell{"7,980.00", xBalance}),
	))

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "01/01/2022", rec.Date)
	assert.Equal(t, "Debit Card Transaction 7-ELEVEN", rec.Description)
	require.True(t, rec.Withdrawal.Valid)
	assert.Equal(t, "20.00", rec.Withdrawal.Decimal.StringFixed(2))
	assert.False(t, rec.Deposit.Valid)
	require.True(t, rec.Balance.Valid)
	assert.Equal(t, "7980.00", rec.Balance.Decimal.StringFixed(2))
	assert.Equal(t, 2, rec.Page)
	assert.Empty(t, res.Warnings)
}

func TestAssemble_FirstWins_HeaderThenContinuation(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(1, rows(t,
		line(cell{"01/01/2022", xDate}, cell{"ATM", xDesc}, cell{"20.00", xWithdrawal}, cell{"7,980.00", xBalance}),
		line(cell{"99.00", xWithdrawal}),
	))

	require.Len(t, res.Records, 1)
	assert.Equal(t, "20.00", res.Records[0].Withdrawal.Decimal.StringFixed(2))
	assert.Equal(t, []model.WarningCategory{model.WarnFieldConflict}, categories(res.Warnings))
}

func TestAssemble_FirstWins_ContinuationThenContinuation(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(1, rows(t,
		line(cell{"01/01/2022", xDate}, cell{"ATM", xDesc}),
		line(cell{"20.00", xWithdrawal}),
		line(cell{"99.00", xWithdrawal}, cell{"7,980.00", xBalance}),
	))

	require.Len(t, res.Records, 1)
	assert.Equal(t, "20.00", res.Records[0].Withdrawal.Decimal.StringFixed(2))
	assert.Equal(t, "7980.00", res.Records[0].Balance.Decimal.StringFixed(2))
	assert.Equal(t, []model.WarningCategory{model.WarnFieldConflict}, categories(res.Warnings))
}

func TestAssemble_ContinuationWithAmountsDropsText(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(1, rows(t,
		line(cell{"02/01/2022", xDate}, cell{"PAYNOW", xDesc}),
		line(cell{"TOTAL", xDesc}, cell{"125.00", xDeposit}, cell{"8,093.40", xBalance}),
	))

	require.Len(t, res.Records, 1)
	assert.Equal(t, "PAYNOW", res.Records[0].Description)
	assert.Equal(t, "125.00", res.Records[0].Deposit.Decimal.StringFixed(2))
}

func TestAssemble_DescriptionZoneAmountKeepsContinuationText(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(1, rows(t,
		line(cell{"03/01/2022", xDate}, cell{"FAST", xDesc}, cell{"8,000.00", xBalance}),
		line(cell{"REF", xDesc}, cell{"123.45", xDesc + 40}),
	))

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "FAST REF 123.45", rec.Description)
	assert.False(t, rec.Withdrawal.Valid)
	assert.False(t, rec.Deposit.Valid)
	assert.Equal(t, "8000.00", rec.Balance.Decimal.StringFixed(2))
	assert.Equal(t, []model.WarningCategory{model.WarnDescriptionAmount}, categories(res.Warnings))
}

func TestAssemble_DateRowFinalizesPrevious(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(3, rows(t,
		line(cell{"01/01/2022", xDate}, cell{"FIRST", xDesc}, cell{"5.00", xWithdrawal}, cell{"100.00", xBalance}),
		line(cell{"02/01/2022", xDate}, cell{"SECOND", xDesc}, cell{"10.00", xDeposit}, cell{"110.00", xBalance}),
		line(cell{"more", xDesc}, cell{"text", xDesc + 30}),
	))

	require.Len(t, res.Records, 2)
	assert.Equal(t, "FIRST", res.Records[0].Description)
	assert.Equal(t, "SECOND more text", res.Records[1].Description)
	assert.Equal(t, 3, res.Records[1].Page)
}

func TestAssemble_IdleRowsIgnored(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(1, rows(t,
		line(cell{"Account", xDesc}, cell{"Summary", xDesc + 50}),
		line(cell{"8,000.00", xBalance}),
	))
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Warnings)
}

func TestAssemble_StartAndEndMarkers(t *testing.T) {
	a := New(Options{
		StartMarkers: []string{"CURRENCY:"},
		EndMarkers:   []string{"Balance Carried Forward"},
	})
	res := a.AssemblePage(2, rows(t,
		line(cell{"Transaction", xDesc}, cell{"Details", xDesc + 60}),
		line(cell{"CURRENCY:", xDate}, cell{"SINGAPORE", xDesc}, cell{"DOLLAR", xDesc + 60}),
		line(cell{"01/01/2022", xDate}, cell{"ATM", xDesc}, cell{"20.00", xWithdrawal}, cell{"7,980.00", xBalance}),
		line(cell{"Balance", xDesc}, cell{"Carried", xDesc + 40}, cell{"Forward", xDesc + 80}, cell{"7,980.00", xBalance}),
		line(cell{"02/01/2022", xDate}, cell{"IGNORED", xDesc}, cell{"1.00", xWithdrawal}, cell{"7,979.00", xBalance}),
	))

	require.Len(t, res.Records, 1)
	assert.Equal(t, "ATM", res.Records[0].Description)
	assert.Empty(t, res.Warnings)
}

func TestAssemble_NoTableStart(t *testing.T) {
	a := New(Options{StartMarkers: []string{"CURRENCY:"}})
	res := a.AssemblePage(5, rows(t,
		line(cell{"Important", xDesc}, cell{"notices", xDesc + 60}),
	))
	assert.Empty(t, res.Records)
	assert.Equal(t, 5, res.Page)
}

func TestAssemble_AnomalyWarnings(t *testing.T) {
	a := New(Options{})
	res := a.AssemblePage(2, rows(t,
		line(cell{"01/01/2022", xDate}, cell{"INCOMING", xDesc}, cell{"PAYNOW", xDesc + 50}),
		line(cell{"4.40", xWithdrawal}, cell{"20.00", xDeposit}, cell{"7,975.60", xBalance}),
		line(cell{"03/01/2022", xDate}, cell{"REF", xDesc}, cell{"123.45", xDesc + 30}),
	))

	require.Len(t, res.Records, 2)
	assert.Equal(t, "REF 123.45", res.Records[1].Description)
	assert.Equal(t, []model.WarningCategory{
		model.WarnDualAmount,
		model.WarnDescriptionAmount,
		model.WarnMissingBalance,
	}, categories(res.Warnings))
	for _, w := range res.Warnings {
		assert.Equal(t, 2, w.Page)
	}
	assert.Contains(t, res.Warnings[0].Message, "both withdrawal 4.40 and deposit 20.00")
}

func TestAssemble_EmptyPage(t *testing.T) {
	res := New(Options{}).AssemblePage(1, nil)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Warnings)
}
