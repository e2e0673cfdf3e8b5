// Package service is the single public entry point of the extraction core:
// raw PDF bytes in, ExtractionResult out. It wires the profiler, the
// institution registry and the router together; callers hold no other
// handle into the pipeline.
package service

import (
	"github.com/rs/zerolog"

	"github.com/fiscalpanel/extractito/internal/models"
	"github.com/fiscalpanel/extractito/internal/parser"
	"github.com/fiscalpanel/extractito/internal/profiler"
	"github.com/fiscalpanel/extractito/internal/router"
)

// Service runs the statement extraction pipeline. It carries no per-call
// state: one Service may serve many goroutines.
type Service struct {
	router *router.Router
	log    zerolog.Logger
}

// New builds a service over the default institution registry.
func New(log zerolog.Logger) *Service {
	return NewWithRegistry(parser.Default(log), log)
}

// NewWithRegistry builds a service with a caller-supplied registry; tests
// and hosts with custom parsers use this.
func NewWithRegistry(registry parser.Registry, log zerolog.Logger) *Service {
	return &Service{
		router: router.New(registry, log),
		log:    log,
	}
}

// Extract profiles the document and routes it to the best parser. The only
// error it can return is profiler.ErrMalformedDocument; every other anomaly
// is reported inside the result as warnings and a reduced confidence score.
func (s *Service) Extract(data []byte, fileName string) (models.ExtractionResult, error) {
	profile, err := profiler.Profile(data, fileName)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	result := s.router.Route(data, profile)

	s.log.Info().
		Str("file", fileName).
		Str("hash", profile.FileHash).
		Str("institution", profile.Institution).
		Int("transactions", len(result.Transactions)).
		Int("confidence", result.Confidence).
		Strs("trace", result.ParserTrace).
		Msg("extraction finished")

	return result, nil
}
