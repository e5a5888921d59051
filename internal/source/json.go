package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/stmtparse/internal/model"
)

// JSONSource reads a flat token dump:
//
//	[{"text":"01/01/2022","x0":40,"y0":100,"x1":90,"y1":108,"page":1}, ...]
//
// MaxPages caps the highest accepted page number (0 uses model.DefaultMaxPages).
type JSONSource struct {
	MaxPages int
}

// Format returns the source name.
func (s *JSONSource) Format() string { return "json" }

// Read decodes the token array and buckets it into pages.
func (s *JSONSource) Read(r io.Reader, name string) (model.Document, error) {
	tokens, err := DecodeTokens(r)
	if err != nil {
		return model.Document{}, err
	}
	pages, err := model.PagesFromTokens(tokens, s.MaxPages)
	if err != nil {
		return model.Document{}, err
	}
	return model.Document{Name: name, Pages: pages}, nil
}

// DecodeTokens reads a JSON token array.
func DecodeTokens(r io.Reader) ([]model.Token, error) {
	var tokens []model.Token
	if err := json.NewDecoder(r).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decoding tokens: %w", err)
	}
	return tokens, nil
}
