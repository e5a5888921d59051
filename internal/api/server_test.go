package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtparse/internal/assemble"
	"github.com/cleared-dev/stmtparse/internal/classify"
	"github.com/cleared-dev/stmtparse/internal/model"
	"github.com/cleared-dev/stmtparse/internal/statement"
)

func newTestServer(t *testing.T, guard statement.Guard, maxBody int64) *Server {
	t.Helper()
	p, err := statement.NewParser(statement.Options{
		Boundaries: classify.DBSBoundaries(),
		Assemble: assemble.Options{
			StartMarkers: []string{"CURRENCY:"},
			EndMarkers:   []string{"Balance Carried Forward", "Messages For", "Page"},
		},
		Guard:   guard,
		Policy:  statement.DefaultPolicy(),
		Workers: 2,
	})
	require.NoError(t, err)
	return NewServer(p, nil, nil, maxBody)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestParse_TokenDocument(t *testing.T) {
	body := `[
	  {"text":"01/01/2022","x0":40,"y0":100,"x1":90,"y1":108,"page":1},
	  {"text":"ATM","x0":110,"y0":100,"x1":125,"y1":108,"page":1},
	  {"text":"50.00","x0":400,"y0":100,"x1":430,"y1":108,"page":1},
	  {"text":"950.00","x0":520,"y0":100,"x1":560,"y1":108,"page":1},
	  {"text":"Withdrawal","x0":110,"y0":112,"x1":160,"y1":120,"page":1}
	]`
	srv := newTestServer(t, nil, 0)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/parse?name=jan.json", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res model.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "ATM Withdrawal", res.Transactions[0].Description)
	assert.Equal(t, "50.00", res.Transactions[0].Withdrawal.Decimal.StringFixed(2))
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
}

func TestParse_Reference(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "reference_tokens.json"))
	require.NoError(t, err)

	srv := newTestServer(t, statement.DefaultGuard(), 0)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewReader(data)))

	require.Equal(t, http.StatusOK, rec.Code)
	var res model.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Transactions, 117)
	assert.InDelta(t, 0.86, res.Confidence, 1e-9)
}

func TestParse_Rejected(t *testing.T) {
	srv := newTestServer(t, statement.DefaultGuard(), 0)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(`[]`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "document rejected: empty document", body["abort_reason"])
	assert.Equal(t, []any{}, body["data"])
}

func TestParse_BadBody(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(`{"oops"`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid document")
}

func TestParse_HugePageNumberRejected(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	rec := httptest.NewRecorder()
	body := `[{"text":"x","x0":1,"y0":1,"x1":2,"y1":2,"page":3000000}]`
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "page number exceeds limit")
}

func TestParse_TooLarge(t *testing.T) {
	srv := newTestServer(t, nil, 16)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(strings.Repeat(" ", 64)+"[]")))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestParse_PDFContentType(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("not a pdf"))
	req.Header.Set("Content-Type", "application/pdf")
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParse_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/parse", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
