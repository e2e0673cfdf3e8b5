// Package router selects and executes structural parsers for a profiled
// document. Applicability scores are heuristic estimates, not guarantees: a
// higher-scoring parser can still blow up on a format outlier, so the router
// ranks candidates, isolates failures, and falls over to the next best guess
// instead of aborting.
package router

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/fiscalpanel/extractito/internal/institution"
	"github.com/fiscalpanel/extractito/internal/models"
	"github.com/fiscalpanel/extractito/internal/parser"
	"github.com/fiscalpanel/extractito/internal/validator"
)

// Router routes a document to the registered parsers of its institution.
type Router struct {
	registry  parser.Registry
	validator *validator.Validator
	log       zerolog.Logger
}

// New builds a router over the given registry.
func New(registry parser.Registry, log zerolog.Logger) *Router {
	return &Router{
		registry:  registry,
		validator: validator.New(),
		log:       log,
	}
}

type candidate struct {
	score  float64
	parser parser.StructuralParser
}

// Route resolves the institution, ranks that institution's parsers by
// self-reported applicability, and returns the first successful extraction.
// It never returns an error: every anomaly is reported through warnings and
// the confidence score.
func (r *Router) Route(data []byte, profile *models.DocumentProfile) models.ExtractionResult {
	var trace []string
	var warnings []models.WarningItem

	code, found := institution.Detect(profile)
	if !found {
		return models.ExtractionResult{
			Profile:      profile,
			Transactions: []models.Transaction{},
			Warnings: []models.WarningItem{{
				Code:     models.WarnInstitutionNotDetected,
				Severity: models.SeverityCritical,
				Message:  "could not detect the issuing institution from the document",
			}},
			ParserTrace: []string{"INSTITUTION_DETECTION_FAILED"},
		}
	}
	profile.Institution = code
	trace = append(trace, "INSTITUTION:"+code)

	registered := r.registry[code]
	if len(registered) == 0 {
		return models.ExtractionResult{
			Profile:      profile,
			Transactions: []models.Transaction{},
			Warnings: []models.WarningItem{{
				Code:     models.WarnNoParserForInstitution,
				Severity: models.SeverityCritical,
				Message:  fmt.Sprintf("no parser registered for institution %q", code),
			}},
			ParserTrace: trace,
		}
	}

	candidates := make([]candidate, 0, len(registered))
	for _, p := range registered {
		candidates = append(candidates, candidate{score: p.Detect(profile), parser: p})
	}
	// Stable: registration order breaks score ties.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	for _, c := range candidates {
		if c.score <= 0 {
			continue
		}
		trace = append(trace, "TRY:"+c.parser.Name())

		outcome, err := r.run(c.parser, data, profile)
		if err != nil {
			r.log.Warn().Err(err).Str("parser", c.parser.Name()).Msg("parser failed, trying next candidate")
			warnings = append(warnings, models.WarningItem{
				Code:     models.WarnParserFailed,
				Severity: models.SeverityHigh,
				Message:  fmt.Sprintf("%s: %v", c.parser.Name(), err),
			})
			trace = append(trace, "FAIL:"+c.parser.Name())
			continue
		}

		balanceScore := 100
		if profile.DocumentType != models.BalanceSummary {
			var balanceWarnings []models.WarningItem
			balanceWarnings, balanceScore = r.validator.Check(outcome.txns)
			outcome.warnings = append(outcome.warnings, balanceWarnings...)
		}

		confidence := int(math.Round((c.score*100 + float64(balanceScore)) / 2))

		return models.ExtractionResult{
			Profile:      profile,
			Transactions: outcome.txns,
			Meta:         &outcome.meta,
			Warnings:     append(warnings, outcome.warnings...),
			Confidence:   confidence,
			ParserTrace:  trace,
		}
	}

	// Every candidate failed or scored zero.
	if len(warnings) == 0 {
		// No candidate even ran: scanned document or nothing applicable.
		warnings = append(warnings, models.WarningItem{
			Code:     models.WarnNoTransactions,
			Severity: models.SeverityCritical,
			Message:  "no applicable parser for this document",
		})
	}
	return models.ExtractionResult{
		Profile:      profile,
		Transactions: []models.Transaction{},
		Warnings:     warnings,
		ParserTrace:  trace,
	}
}

type outcome struct {
	txns     []models.Transaction
	meta     models.StatementMeta
	warnings []models.WarningItem
}

// run executes one parser's full extract/normalize/meta/validate sequence
// with panic isolation: one parser's bug must never block the fallback.
func (r *Router) run(p parser.StructuralParser, data []byte, profile *models.DocumentProfile) (out *outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("parser panicked: %v", rec)
		}
	}()

	raw, err := p.Extract(data, profile)
	if err != nil {
		return nil, err
	}

	txns := p.Normalize(raw, profile)
	if txns == nil {
		txns = []models.Transaction{}
	}
	meta := p.ExtractMeta(raw, profile)
	local := p.Validate(txns, meta)

	return &outcome{txns: txns, meta: meta, warnings: local}, nil
}
