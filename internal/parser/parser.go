// Package parser defines the structural parser contract and its variants.
//
// A StructuralParser turns PDF bytes into normalized transactions for one
// family of statement layouts. Every variant implements the full contract;
// the router picks among registered variants by their self-reported
// applicability score. Parsers carry no mutable state between calls and are
// safe to share across goroutines.
package parser

import "github.com/fiscalpanel/extractito/internal/models"

// Line is one text line of a page, tagged with its page number for
// provenance.
type Line struct {
	Text string
	Page int
}

// RawDocument is the intermediate structural representation parsers produce
// before normalization: the per-page text plus the flattened line records.
type RawDocument struct {
	Pages []string
	Lines []Line
}

// StructuralParser is the contract every parser variant satisfies.
type StructuralParser interface {
	// Name identifies the parser in traces and warnings.
	Name() string

	// Detect returns the parser's self-assessed applicability in [0,1].
	// It must return 0 for scanned profiles or structurally incompatible
	// documents.
	Detect(profile *models.DocumentProfile) float64

	// Extract produces the intermediate representation. It errors only for
	// truly unreadable input, never for recoverable anomalies.
	Extract(data []byte, profile *models.DocumentProfile) (*RawDocument, error)

	// Normalize converts the intermediate representation into transactions.
	// Lines without a leading date continue the previous description.
	Normalize(raw *RawDocument, profile *models.DocumentProfile) []models.Transaction

	// ExtractMeta is best-effort document metadata extraction. It degrades
	// to partially-empty metadata rather than failing.
	ExtractMeta(raw *RawDocument, profile *models.DocumentProfile) models.StatementMeta

	// Validate runs parser-local sanity checks and reports warnings.
	Validate(txns []models.Transaction, meta models.StatementMeta) []models.WarningItem
}
