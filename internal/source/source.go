// Package source turns input files into positioned-token documents.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/stmtparse/internal/model"
)

// ErrUnsupportedFormat is returned when no source handles a file.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Source reads one input document into pages of tokens. Coordinates in the
// returned document are top-down.
type Source interface {
	Read(r io.Reader, name string) (model.Document, error)
	Format() string
}

// Registry holds sources keyed by format name.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Panics on duplicate format.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.sources[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.sources[key] = s
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.sources[strings.ToLower(format)]
}

// ForFile picks a source by file extension.
func (r *Registry) ForFile(name string) (Source, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if s := r.Get(ext); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// Open reads the file at path with the source matching its extension.
func (r *Registry) Open(path string) (model.Document, error) {
	s, err := r.ForFile(path)
	if err != nil {
		return model.Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := s.Read(f, filepath.Base(path))
	if err != nil {
		return model.Document{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PDFSource{})
	r.Register(&JSONSource{})
	return r
}
