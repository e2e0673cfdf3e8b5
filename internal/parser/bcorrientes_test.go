package parser

import (
	"testing"

	"github.com/fiscalpanel/extractito/internal/models"
)

const bcSamplePage = `BANCO DE CORRIENTES
RESUMEN DE CUENTA - CAJA DE AHORRO
Periodo: 01/01/24 al 31/01/24
SALDO INICIAL 1.000,00
02/01/24 TRANSFERENCIA RECIBIDA CBU 250,00 1.250,00
05/01/24 IMPUESTO LEY 25413 1.248,00
SALDO FINAL 1.248,00
TRANSFERENCIAS MEP
10/01/24 MEP ENVIADO 99,00 1.149,00`

func TestResumenBCorrientes_Detect(t *testing.T) {
	p := NewResumenBCorrientes()

	tests := []struct {
		name     string
		profile  models.DocumentProfile
		expected float64
	}{
		{
			name:     "institution header present",
			profile:  models.DocumentProfile{SampleText: bcSamplePage},
			expected: 1.0,
		},
		{
			name:     "alternate header",
			profile:  models.DocumentProfile{SampleText: "BANCO DE LA PCIA DE CORRIENTES"},
			expected: 1.0,
		},
		{
			name:     "other institution",
			profile:  models.DocumentProfile{SampleText: "BANCO DE LA NACION ARGENTINA"},
			expected: 0,
		},
		{
			name:     "scanned",
			profile:  models.DocumentProfile{IsScanned: true, SampleText: bcSamplePage},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Detect(&tt.profile); got != tt.expected {
				t.Errorf("Detect: got %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestResumenBCorrientes_Normalize(t *testing.T) {
	p := NewResumenBCorrientes()
	raw := &RawDocument{Pages: []string{bcSamplePage}}

	txns := p.Normalize(raw, &models.DocumentProfile{})
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions (MEP section excluded), got %d", len(txns))
	}

	first := txns[0]
	if first.Amount != 250.00 {
		t.Errorf("first amount: got %f, want 250.00", first.Amount)
	}
	if first.TypeHint != "CREDIT" {
		t.Errorf("first type: got %q, want CREDIT", first.TypeHint)
	}
	if first.Currency != "ARS" {
		t.Errorf("first currency: got %q, want ARS", first.Currency)
	}

	// The movement column is untrusted; the amount comes from the balance
	// delta even when the row shows only the running balance.
	second := txns[1]
	if second.Amount != -2.00 {
		t.Errorf("second amount: got %f, want -2.00", second.Amount)
	}
	if second.TypeHint != "DEBIT" {
		t.Errorf("second type: got %q, want DEBIT", second.TypeHint)
	}
	if second.Balance == nil || *second.Balance != 1248.00 {
		t.Errorf("second balance: got %v, want 1248.00", second.Balance)
	}
	if second.CategoryHint != CategoryTax {
		t.Errorf("second category: got %q, want %q", second.CategoryHint, CategoryTax)
	}
}

func TestResumenBCorrientes_BalanceCarryAcrossPages(t *testing.T) {
	p := NewResumenBCorrientes()
	raw := &RawDocument{Pages: []string{
		"BANCO DE CORRIENTES\nSALDO INICIAL 1.000,00\n02/01/24 TRANSFERENCIA RECIBIDA 1.250,00",
		"03/01/24 COMISION MANTENIMIENTO 1.100,00",
	}}

	txns := p.Normalize(raw, &models.DocumentProfile{})
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[0].Amount != 250.00 {
		t.Errorf("page 1 amount: got %f, want 250.00", txns[0].Amount)
	}
	if txns[1].Amount != -150.00 {
		t.Errorf("page 2 amount: got %f, want -150.00 (carried balance)", txns[1].Amount)
	}
	if txns[1].SourcePage != 2 {
		t.Errorf("page 2 source page: got %d, want 2", txns[1].SourcePage)
	}
}

func TestResumenBCorrientes_ExtractMeta(t *testing.T) {
	p := NewResumenBCorrientes()
	raw := &RawDocument{Pages: []string{bcSamplePage}}

	meta := p.ExtractMeta(raw, &models.DocumentProfile{})

	if meta.InstitutionName != "Banco de Corrientes" {
		t.Errorf("institution: got %q", meta.InstitutionName)
	}
	if meta.Currency != "ARS" {
		t.Errorf("currency: got %q", meta.Currency)
	}
	if meta.OpeningBalance == nil || *meta.OpeningBalance != 1000.00 {
		t.Errorf("opening balance: got %v, want 1000.00", meta.OpeningBalance)
	}
	if meta.ClosingBalance == nil || *meta.ClosingBalance != 1248.00 {
		t.Errorf("closing balance: got %v, want 1248.00", meta.ClosingBalance)
	}
	if meta.PeriodStart == nil || meta.PeriodStart.Format("02/01/06") != "01/01/24" {
		t.Errorf("period start: got %v", meta.PeriodStart)
	}
}

func TestResumenBCorrientes_Validate(t *testing.T) {
	p := NewResumenBCorrientes()

	warnings := p.Validate(nil, models.StatementMeta{})
	if len(warnings) != 1 || warnings[0].Code != models.WarnNoTransactions {
		t.Fatalf("empty input: got %+v, want NO_TRANSACTIONS", warnings)
	}

	txns := []models.Transaction{{Balance: models.Float(1250.00), SourcePage: 3}}
	meta := models.StatementMeta{ClosingBalance: models.Float(1300.00)}

	warnings = p.Validate(txns, meta)
	if len(warnings) != 1 || warnings[0].Code != models.WarnBalanceMismatch {
		t.Fatalf("mismatch: got %+v, want BALANCE_MISMATCH", warnings)
	}
	if warnings[0].Evidence["expected"] != 1300.00 || warnings[0].Evidence["actual"] != 1250.00 {
		t.Errorf("evidence: got %+v", warnings[0].Evidence)
	}
	if len(warnings[0].Pages) != 1 || warnings[0].Pages[0] != 3 {
		t.Errorf("pages: got %v, want [3]", warnings[0].Pages)
	}

	// Within tolerance is clean.
	meta.ClosingBalance = models.Float(1250.01)
	if w := p.Validate(txns, meta); len(w) != 0 {
		t.Errorf("within tolerance: got %+v, want none", w)
	}
}
