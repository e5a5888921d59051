package source

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/cleared-dev/stmtparse/internal/model"
)

const (
	defaultPageHeight = 792.0
	// wordGapFactor is the glyph gap, as a fraction of font size, that still
	// joins two glyphs into one word.
	wordGapFactor = 0.25
	baselineSlack = 0.5
)

// PDFSource extracts word tokens from a PDF's text layer.
type PDFSource struct{}

// Format returns the source name.
func (s *PDFSource) Format() string { return "pdf" }

// Read parses the PDF held in r.
func (s *PDFSource) Read(r io.Reader, name string) (model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Document{}, fmt.Errorf("reading pdf: %w", err)
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.Document{}, fmt.Errorf("opening pdf: %w", err)
	}

	doc := model.Document{Name: name}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		p := model.Page{Number: i}
		if !page.V.IsNull() {
			glyphs, err := pageGlyphs(page)
			if err != nil {
				return model.Document{}, fmt.Errorf("page %d: %w", i, err)
			}
			p.Tokens = MergeGlyphs(glyphs, pageHeight(page), i)
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc, nil
}

// pageGlyphs reads the page content; the library panics on malformed streams.
func pageGlyphs(page pdflib.Page) (texts []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// pageHeight reads the MediaBox, walking up the page tree for inherited boxes.
func pageHeight(page pdflib.Page) float64 {
	v := page.V
	for i := 0; i < 16 && !v.IsNull(); i++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

// MergeGlyphs joins per-glyph text runs sharing a baseline into word tokens
// and flips coordinates to top-down using pageHeight.
func MergeGlyphs(glyphs []pdflib.Text, pageHeight float64, page int) []model.Token {
	sorted := make([]pdflib.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		tokens []model.Token
		word   strings.Builder
		cur    pdflib.Text
		x1     float64
		open   bool
	)
	flush := func() {
		if !open {
			return
		}
		size := cur.FontSize
		if size <= 0 {
			size = 1
		}
		tokens = append(tokens, model.Token{
			Text: word.String(),
			X0:   cur.X,
			X1:   x1,
			Y0:   pageHeight - cur.Y - size,
			Y1:   pageHeight - cur.Y,
			Page: page,
		})
		word.Reset()
		open = false
	}

	for _, g := range sorted {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		if open {
			size := cur.FontSize
			if size <= 0 {
				size = 1
			}
			gap := g.X - x1
			sameLine := abs(g.Y-cur.Y) <= baselineSlack
			if !sameLine || gap > wordGapFactor*size || gap < -size {
				flush()
			}
		}
		if !open {
			cur = g
			open = true
		}
		word.WriteString(g.S)
		x1 = g.X + g.W
	}
	flush()
	return tokens
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
