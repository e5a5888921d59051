package model

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxPages bounds the page numbers PagesFromTokens will materialize.
const DefaultMaxPages = 10000

// ErrTooManyPages is returned when a token's page number exceeds the limit.
var ErrTooManyPages = errors.New("page number exceeds limit")

// Token is one positioned, already-decoded unit of text. Coordinates are
// top-down: y grows toward the bottom of the page.
type Token struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Page int     `json:"page"`
}

// Page holds the tokens of one page in source order. Number is 1-based.
type Page struct {
	Number int
	Tokens []Token
}

// Text joins the page's token texts with single spaces.
func (p Page) Text() string {
	parts := make([]string, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// Document is the full token input for one parse, pages in document order.
type Document struct {
	Name  string
	Pages []Page
}

// PagesFromTokens buckets a flat token list by Token.Page. Pages 1..max are
// always materialized so that pages without tokens still exist. Tokens with
// a page number below 1 land on page 1. A page number above maxPages is
// rejected before any page is allocated; maxPages <= 0 uses DefaultMaxPages.
func PagesFromTokens(tokens []Token, maxPages int) ([]Page, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	maxPage := 1
	for _, t := range tokens {
		if t.Page > maxPages {
			return nil, fmt.Errorf("%w: token %q on page %d, limit %d", ErrTooManyPages, t.Text, t.Page, maxPages)
		}
		if t.Page > maxPage {
			maxPage = t.Page
		}
	}
	pages := make([]Page, maxPage)
	for i := range pages {
		pages[i].Number = i + 1
	}
	for _, t := range tokens {
		idx := t.Page - 1
		if idx < 0 {
			idx = 0
		}
		pages[idx].Tokens = append(pages[idx].Tokens, t)
	}
	return pages, nil
}
