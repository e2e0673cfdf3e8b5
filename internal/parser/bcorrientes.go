package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fiscalpanel/extractito/internal/extractor"
	"github.com/fiscalpanel/extractito/internal/institution"
	"github.com/fiscalpanel/extractito/internal/models"
)

// ResumenBCorrientes parses the account-summary layout of Banco de
// Corrientes.
//
// The layout is:
//
//	FECHA  CONCEPTO  DEBITO/CREDITO  SALDO
//
// with dates as DD/MM/YY and es-AR amounts ("1.234,56"). Two quirks drive
// the implementation:
//
//   - supplementary tables ("TRANSFERENCIAS MEP", "DEBITOS AUTOMATICOS")
//     are appended after the main ledger and repeat movements, so each
//     page's text is truncated at the first section marker before scanning;
//   - the debit/credit column is frequently mis-tokenized, so each amount is
//     computed as the running-balance delta instead of trusting the raw
//     token. The ledger is then self-consistent by construction.
type ResumenBCorrientes struct {
	// Tolerance bounds the closing-balance check in Validate. The default
	// matches the balance validator's.
	Tolerance float64
}

// NewResumenBCorrientes builds the parser with the default tolerance.
func NewResumenBCorrientes() *ResumenBCorrientes {
	return &ResumenBCorrientes{Tolerance: 0.02}
}

func (p *ResumenBCorrientes) Name() string { return "RESUMEN_BCORRIENTES" }

// sectionBoundary marks the start of trailing informational tables that must
// not be scanned as ledger movements.
var sectionBoundary = regexp.MustCompile(`(?i)TRANSFERENCIAS MEP|DEBITOS AUTOMATICOS`)

var (
	bcPeriodPattern  = regexp.MustCompile(`(?i)periodo\s*:\s*(\d{2}/\d{2}/\d{2})\s*al\s*(\d{2}/\d{2}/\d{2})`)
	bcOpeningPattern = regexp.MustCompile(`(?i)SALDO INICIAL\s*(-?[\d.,]+)`)
	bcClosingPattern = regexp.MustCompile(`(?i)SALDO FINAL\s*(-?[\d.,]+)`)
)

// Detect returns full confidence when the institution's name appears in the
// sample; this parser never competes for other institutions' documents.
func (p *ResumenBCorrientes) Detect(profile *models.DocumentProfile) float64 {
	if profile.IsScanned {
		return 0
	}
	text := strings.ToLower(profile.SampleText)
	if strings.Contains(text, "banco de corrientes") ||
		strings.Contains(text, "banco de la pcia de corrientes") {
		return 1.0
	}
	return 0
}

func (p *ResumenBCorrientes) Extract(data []byte, profile *models.DocumentProfile) (*RawDocument, error) {
	pages, err := extractor.Pages(data, 0)
	if err != nil {
		return nil, fmt.Errorf("bcorrientes extract: %w", err)
	}
	return &RawDocument{Pages: pages}, nil
}

// Normalize scans page by page, threading the running balance through
// scanPage so the cross-page carry is explicit in the signature.
func (p *ResumenBCorrientes) Normalize(raw *RawDocument, profile *models.DocumentProfile) []models.Transaction {
	meta := p.ExtractMeta(raw, profile)

	var txns []models.Transaction
	running := meta.OpeningBalance
	for idx, page := range raw.Pages {
		var pageTxns []models.Transaction
		pageTxns, running = p.scanPage(page, idx+1, running)
		txns = append(txns, pageTxns...)
	}
	return txns
}

// scanPage extracts the movement rows of one page. running is the balance
// carried in from the previous row (possibly on a previous page); the
// returned value is the carry for the next page.
func (p *ResumenBCorrientes) scanPage(pageText string, pageNum int, running *float64) ([]models.Transaction, *float64) {
	// Cut the page at the first trailing-section marker so supplementary
	// tables are not double-counted as movements.
	if loc := sectionBoundary.FindStringIndex(pageText); loc != nil {
		pageText = pageText[:loc[0]]
	}

	var txns []models.Transaction
	for _, rawLine := range strings.Split(pageText, "\n") {
		line := strings.TrimSpace(rawLine)

		date := LeadingDate(line)
		if date == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "saldo inicial") || strings.Contains(lower, "saldo final") {
			continue
		}

		when, ok := ParseDate(date)
		if !ok {
			continue
		}

		amounts := MoneyTokens(line)
		if len(amounts) == 0 {
			continue
		}
		rowBalance, ok := ParseAmount(amounts[len(amounts)-1])
		if !ok {
			continue
		}

		var amount float64
		switch {
		case running != nil:
			amount = round2(rowBalance - *running)
		case len(amounts) >= 2:
			amount, _ = ParseAmount(amounts[len(amounts)-2])
		}

		// Rows that neither move the balance nor show a movement column
		// are internal metadata, not ledger entries.
		if amount == 0 && len(amounts) < 2 {
			continue
		}

		desc := StripTokens(line)
		typeHint := "DEBIT"
		if amount > 0 {
			typeHint = "CREDIT"
		}

		txns = append(txns, models.Transaction{
			Date:         when,
			Description:  desc,
			Amount:       amount,
			Balance:      models.Float(rowBalance),
			Currency:     "ARS",
			TypeHint:     typeHint,
			CategoryHint: CategoryHint(desc),
			SourcePage:   pageNum,
			SourceRaw:    line,
		})
		running = models.Float(rowBalance)
	}
	return txns, running
}

func (p *ResumenBCorrientes) ExtractMeta(raw *RawDocument, profile *models.DocumentProfile) models.StatementMeta {
	text := strings.Join(raw.Pages, "\n")
	meta := models.StatementMeta{
		InstitutionName: institution.Name(institution.BancoCorrientes),
		AccountType:     "Caja de Ahorro",
		Currency:        "ARS",
	}

	if m := bcPeriodPattern.FindStringSubmatch(text); m != nil {
		if start, ok := ParseDate(m[1]); ok {
			meta.PeriodStart = &start
		}
		if end, ok := ParseDate(m[2]); ok {
			meta.PeriodEnd = &end
		}
	}
	if m := bcOpeningPattern.FindStringSubmatch(text); m != nil {
		if v, ok := ParseAmount(m[1]); ok {
			meta.OpeningBalance = models.Float(v)
		}
	}
	if m := bcClosingPattern.FindStringSubmatch(text); m != nil {
		if v, ok := ParseAmount(m[1]); ok {
			meta.ClosingBalance = models.Float(v)
		}
	}
	return meta
}

// Validate checks the ledger against the statement's own closing balance.
func (p *ResumenBCorrientes) Validate(txns []models.Transaction, meta models.StatementMeta) []models.WarningItem {
	var warnings []models.WarningItem

	if len(txns) == 0 {
		return append(warnings, models.WarningItem{
			Code:     models.WarnNoTransactions,
			Severity: models.SeverityCritical,
			Message:  "no transactions detected",
		})
	}

	last := txns[len(txns)-1]
	if meta.ClosingBalance != nil && last.Balance != nil {
		diff := *last.Balance - *meta.ClosingBalance
		if diff < 0 {
			diff = -diff
		}
		if diff > p.Tolerance {
			warnings = append(warnings, models.WarningItem{
				Code:     models.WarnBalanceMismatch,
				Severity: models.SeverityHigh,
				Message: fmt.Sprintf("last ledger balance %.2f does not match closing balance %.2f",
					*last.Balance, *meta.ClosingBalance),
				Pages: []int{last.SourcePage},
				Evidence: map[string]any{
					"expected": *meta.ClosingBalance,
					"actual":   *last.Balance,
				},
			})
		}
	}
	return warnings
}
