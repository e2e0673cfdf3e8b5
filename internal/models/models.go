// Package models defines the data contracts shared by every stage of the
// statement extraction pipeline: the document profile built by the profiler,
// the normalized transaction and statement metadata produced by parsers, the
// warning taxonomy, and the final ExtractionResult handed back to callers.
package models

import "time"

// DocumentType classifies the overall shape of a statement PDF.
type DocumentType string

const (
	// MovementList is a statement listing individual transactions.
	MovementList DocumentType = "MOVEMENT_LIST"
	// BalanceSummary reports only aggregate opening/closing balances.
	BalanceSummary DocumentType = "BALANCE_SUMMARY"
	// UnknownDocument is anything the profiler could not classify.
	UnknownDocument DocumentType = "UNKNOWN"
)

// DocumentProfile captures the identity and structural shape of an input
// document. It is created once per extraction call and is immutable after
// profiling, except Institution which detection sets exactly once.
type DocumentProfile struct {
	FileName  string `json:"fileName"`
	FileHash  string `json:"fileHash"` // sha256 of the full byte stream
	PageCount int    `json:"pageCount"`

	IsTextExtractable bool `json:"isTextExtractable"`
	IsScanned         bool `json:"isScanned"`

	SampleText   string       `json:"-"` // first pages only, for hinting
	DocumentType DocumentType `json:"documentType"`

	HasBalanceKeyword bool `json:"hasBalanceKeyword"`
	HasAccountKeyword bool `json:"hasAccountKeyword"`
	HasPeriodKeyword  bool `json:"hasPeriodKeyword"`

	// Institution is the resolved institution code, empty until detection runs.
	Institution string `json:"institution,omitempty"`
}

// Transaction is one normalized ledger movement.
//
// Amount is signed. A zero Amount together with a known Balance means the
// parser could not read the movement amount and left it for the balance
// validator to infer from the running-balance delta.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Balance     *float64  `json:"balance,omitempty"` // running balance after the movement
	Currency    string    `json:"currency,omitempty"`

	TypeHint     string `json:"typeHint,omitempty"` // DEBIT or CREDIT
	CategoryHint string `json:"categoryHint,omitempty"`

	SourcePage int    `json:"sourcePage,omitempty"`
	SourceRaw  string `json:"sourceRaw,omitempty"`
}

// StatementMeta holds document-level facts. Every field is optional: a given
// institution's layout may omit any of them.
type StatementMeta struct {
	InstitutionName string `json:"institutionName,omitempty"`
	AccountType     string `json:"accountType,omitempty"`
	Currency        string `json:"currency,omitempty"`

	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`

	OpeningBalance *float64 `json:"openingBalance,omitempty"`
	ClosingBalance *float64 `json:"closingBalance,omitempty"`
}

// Severity grades how much a warning should worry the caller.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMed      Severity = "MED"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// WarningCode identifies a class of extraction anomaly.
type WarningCode string

const (
	WarnInstitutionNotDetected WarningCode = "INSTITUTION_NOT_DETECTED"
	WarnNoParserForInstitution WarningCode = "NO_PARSER_FOR_INSTITUTION"
	WarnParserFailed           WarningCode = "PARSER_FAILED"
	WarnNoTransactions         WarningCode = "NO_TRANSACTIONS"
	WarnMissingBalance         WarningCode = "MISSING_BALANCE"
	WarnBalanceMismatch        WarningCode = "BALANCE_MISMATCH"
)

// WarningItem is an informational artifact attached to a result. Warnings
// never abort the pipeline.
type WarningItem struct {
	Code     WarningCode    `json:"code"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Pages    []int          `json:"pages,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// ExtractionResult is the terminal aggregate returned to callers. The core
// keeps no reference to it after returning.
type ExtractionResult struct {
	Profile *DocumentProfile `json:"profile"`

	Transactions []Transaction  `json:"transactions"`
	Meta         *StatementMeta `json:"meta,omitempty"`

	Warnings   []WarningItem `json:"warnings"`
	Confidence int           `json:"confidence"` // 0..100

	// ParserTrace is the ordered audit log of attempted parsers and outcomes.
	ParserTrace []string `json:"parserTrace"`
}

// Float is a convenience for building optional monetary fields.
func Float(v float64) *float64 { return &v }
