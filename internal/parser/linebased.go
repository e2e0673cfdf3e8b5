package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fiscalpanel/extractito/internal/extractor"
	"github.com/fiscalpanel/extractito/internal/models"
)

// LineBased is the generic line-oriented parser. It assumes nothing about
// the issuing institution: a line that starts with a date token and carries
// at least one money token opens a transaction, and date-less lines extend
// the previous description. It is registered as the fallback behind every
// institution-specific parser.
type LineBased struct {
	log zerolog.Logger
}

// NewLineBased builds the generic parser. The logger only reports token
// ambiguities; pass zerolog.Nop() to silence it.
func NewLineBased(log zerolog.Logger) *LineBased {
	return &LineBased{log: log}
}

func (p *LineBased) Name() string { return "LINE_BASED" }

// Detect scores applicability by date-token density in the profile sample:
// a statement listing movements shows several dates within two pages.
func (p *LineBased) Detect(profile *models.DocumentProfile) float64 {
	if profile.IsScanned || profile.SampleText == "" {
		return 0
	}
	hits := len(DateTokens(profile.SampleText))
	score := float64(hits) / 3.0
	if score > 1 {
		score = 1
	}
	return score
}

// Extract walks every text line of every page and tags it with its page
// number.
func (p *LineBased) Extract(data []byte, profile *models.DocumentProfile) (*RawDocument, error) {
	pages, err := extractor.Pages(data, 0)
	if err != nil {
		return nil, fmt.Errorf("line-based extract: %w", err)
	}

	raw := &RawDocument{Pages: pages}
	for idx, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			clean := strings.TrimSpace(line)
			if clean != "" {
				raw.Lines = append(raw.Lines, Line{Text: clean, Page: idx + 1})
			}
		}
	}
	return raw, nil
}

// Normalize runs the buffered line scan: a transaction is not finalized
// until the next transaction-start line or the end of the document, so
// multi-line descriptions accumulate onto the open transaction.
func (p *LineBased) Normalize(raw *RawDocument, profile *models.DocumentProfile) []models.Transaction {
	var txns []models.Transaction
	var current *models.Transaction

	for _, line := range raw.Lines {
		date := LeadingDate(line.Text)
		amounts := MoneyTokens(line.Text)

		if date == "" || len(amounts) == 0 {
			// Any line that does not open a transaction extends the
			// previous description, dated or not.
			if current != nil {
				current.Description = collapseSpaces(current.Description + " " + line.Text)
			}
			continue
		}

		when, ok := ParseDate(date)
		if !ok {
			continue
		}

		if current != nil {
			current.CategoryHint = CategoryHint(current.Description)
			txns = append(txns, *current)
		}

		current = &models.Transaction{
			Date:        when,
			Description: StripTokens(line.Text),
			SourcePage:  line.Page,
			SourceRaw:   line.Text,
		}

		switch {
		case len(amounts) == 1:
			// A single money token is the running balance; the movement
			// amount stays unset for the balance validator to infer.
			if bal, ok := ParseAmount(amounts[0]); ok {
				current.Balance = models.Float(bal)
			}
		default:
			if len(amounts) > 2 {
				// Reference numbers can look like amounts. Take the last
				// two tokens as amount/balance candidates and say so
				// instead of guessing silently.
				p.log.Warn().
					Int("page", line.Page).
					Str("line", line.Text).
					Int("moneyTokens", len(amounts)).
					Msg("ambiguous money tokens, using last two as amount/balance")
			}
			if amt, ok := ParseAmount(amounts[len(amounts)-2]); ok {
				current.Amount = amt
			}
			if bal, ok := ParseAmount(amounts[len(amounts)-1]); ok {
				current.Balance = models.Float(bal)
			}
		}
	}

	if current != nil {
		current.CategoryHint = CategoryHint(current.Description)
		txns = append(txns, *current)
	}
	return txns
}

var (
	periodPattern  = regexp.MustCompile(`(?i)per[ií]odo\s*:?\s*(\d{2}/\d{2}/\d{2,4})\s*al\s*(\d{2}/\d{2}/\d{2,4})`)
	openingPattern = regexp.MustCompile(`(?i)saldo\s+(?:inicial|anterior)\s*:?\s*(-?\$?\s?[\d.,]+)`)
	closingPattern = regexp.MustCompile(`(?i)saldo\s+(?:final|al cierre)\s*:?\s*(-?\$?\s?[\d.,]+)`)
)

// ExtractMeta pulls whatever labeled facts the text offers: statement
// period and opening/closing balances. Everything else stays empty.
func (p *LineBased) ExtractMeta(raw *RawDocument, profile *models.DocumentProfile) models.StatementMeta {
	text := strings.Join(raw.Pages, "\n")
	meta := models.StatementMeta{}

	if m := periodPattern.FindStringSubmatch(text); m != nil {
		if start, ok := ParseDate(m[1]); ok {
			meta.PeriodStart = &start
		}
		if end, ok := ParseDate(m[2]); ok {
			meta.PeriodEnd = &end
		}
	}
	if m := openingPattern.FindStringSubmatch(text); m != nil {
		if v, ok := ParseAmount(m[1]); ok {
			meta.OpeningBalance = models.Float(v)
		}
	}
	if m := closingPattern.FindStringSubmatch(text); m != nil {
		if v, ok := ParseAmount(m[1]); ok {
			meta.ClosingBalance = models.Float(v)
		}
	}
	return meta
}

// Validate flags empty extractions and rows without a running balance.
func (p *LineBased) Validate(txns []models.Transaction, meta models.StatementMeta) []models.WarningItem {
	var warnings []models.WarningItem

	if len(txns) == 0 {
		return append(warnings, models.WarningItem{
			Code:     models.WarnNoTransactions,
			Severity: models.SeverityCritical,
			Message:  "no transactions detected",
		})
	}

	missing := 0
	for _, t := range txns {
		if t.Balance == nil {
			missing++
		}
	}
	if missing > 0 {
		warnings = append(warnings, models.WarningItem{
			Code:     models.WarnMissingBalance,
			Severity: models.SeverityMed,
			Message:  fmt.Sprintf("%d of %d transactions have no running balance", missing, len(txns)),
		})
	}
	return warnings
}
