// Package api exposes the statement parser over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cleared-dev/stmtparse/internal/source"
	"github.com/cleared-dev/stmtparse/internal/statement"
)

// DefaultMaxBodyBytes bounds request bodies on /v1/parse.
const DefaultMaxBodyBytes int64 = 32 << 20

// Server is the HTTP API server.
type Server struct {
	router       chi.Router
	parser       *statement.Parser
	sources      *source.Registry
	log          *zap.Logger
	maxBodyBytes int64
}

// NewServer creates and configures the HTTP server. A nil logger discards
// output; maxBodyBytes <= 0 uses DefaultMaxBodyBytes.
func NewServer(parser *statement.Parser, sources *source.Registry, log *zap.Logger, maxBodyBytes int64) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if sources == nil {
		sources = source.DefaultRegistry()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		parser:       parser,
		sources:      sources,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
