package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/cleared-dev/stmtparse/internal/statement"
)

// handleParse accepts a token JSON array (default) or a PDF
// (Content-Type: application/pdf) and responds with the ParseResult.
// Aborted parses are still reported in the body, with status 422.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	format := "json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err == nil && mt == "application/pdf" {
			format = "pdf"
		}
	}
	src := s.sources.Get(format)
	if src == nil {
		jsonError(w, fmt.Sprintf("unsupported input format %q", format), http.StatusUnsupportedMediaType)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.maxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "request." + format
	}
	doc, err := src.Read(bytes.NewReader(data), name)
	if err != nil {
		jsonError(w, "invalid document: "+err.Error(), http.StatusBadRequest)
		return
	}

	res := s.parser.Parse(r.Context(), doc)
	s.log.Debug("parsed", zap.String("document", name), zap.String("summary", statement.Describe(res)))

	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
