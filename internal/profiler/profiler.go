// Package profiler inspects raw document bytes and builds the
// DocumentProfile that drives institution detection and parser selection.
package profiler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/fiscalpanel/extractito/internal/extractor"
	"github.com/fiscalpanel/extractito/internal/models"
)

// ErrMalformedDocument is returned when the byte stream cannot be opened as
// a PDF. It is the only error the pipeline ever raises to its caller.
var ErrMalformedDocument = errors.New("malformed document: not a readable PDF")

// samplePages bounds how many pages are text-extracted for hinting. Two is
// enough for headers, institution names and column layouts, and keeps
// profiling fast on long statements.
const samplePages = 2

// Keyword sets are es-AR terms; the corpus of statements this pipeline sees
// is Argentine. Matched on the lowercased sample.
var (
	balanceKeywords = []string{"saldo"}
	accountKeywords = []string{"cbu", "cuenta"}
	periodKeywords  = []string{"periodo", "período"}
	summaryKeywords = []string{"resumen"}

	balanceMatcher = ahocorasick.NewStringMatcher(balanceKeywords)
	accountMatcher = ahocorasick.NewStringMatcher(accountKeywords)
	periodMatcher  = ahocorasick.NewStringMatcher(periodKeywords)
	summaryMatcher = ahocorasick.NewStringMatcher(summaryKeywords)
)

func matches(m *ahocorasick.Matcher, text string) bool {
	return len(m.MatchThreadSafe([]byte(text))) > 0
}

// Profile builds the document profile for the given PDF bytes. The file name
// is carried for diagnostics only and is never parsed for meaning.
func Profile(data []byte, fileName string) (*models.DocumentProfile, error) {
	_, pageCount, err := extractor.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	pages, err := extractor.Pages(data, samplePages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	sample := strings.TrimSpace(strings.Join(pages, "\n"))

	hash := sha256.Sum256(data)

	profile := &models.DocumentProfile{
		FileName:          fileName,
		FileHash:          hex.EncodeToString(hash[:]),
		PageCount:         pageCount,
		IsTextExtractable: sample != "",
		IsScanned:         sample == "",
		SampleText:        sample,
		DocumentType:      models.UnknownDocument,
	}

	lower := strings.ToLower(sample)
	profile.HasBalanceKeyword = matches(balanceMatcher, lower)
	profile.HasAccountKeyword = matches(accountMatcher, lower)
	profile.HasPeriodKeyword = matches(periodMatcher, lower)
	profile.DocumentType = classify(lower, profile)

	return profile, nil
}

// classify decides whether the document is a pure balance summary or a
// movement listing. A summary must announce itself ("resumen") and carry
// both a balance and a period keyword; anything else with text is treated
// as a movement list so that line parsers get a chance at it.
func classify(lower string, p *models.DocumentProfile) models.DocumentType {
	if !p.IsTextExtractable {
		return models.UnknownDocument
	}
	if matches(summaryMatcher, lower) && p.HasBalanceKeyword && p.HasPeriodKeyword {
		return models.BalanceSummary
	}
	return models.MovementList
}
