package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalpanel/extractito/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestCheck_ConsistentSequence(t *testing.T) {
	v := New()
	txns := []models.Transaction{
		{Date: day(1), Description: "SALDO ANTERIOR", Balance: models.Float(1000.00)},
		{Date: day(2), Description: "TRANSFERENCIA RECIBIDA", Amount: 250.00, Balance: models.Float(1250.00)},
	}

	warnings, score := v.Check(txns)

	assert.Empty(t, warnings)
	assert.Equal(t, 100, score)
}

func TestCheck_Mismatch(t *testing.T) {
	v := New()
	txns := []models.Transaction{
		{Date: day(1), Description: "SALDO ANTERIOR", Balance: models.Float(1000.00)},
		{Date: day(2), Description: "TRANSFERENCIA RECIBIDA", Amount: 250.00, Balance: models.Float(1300.00), SourcePage: 2},
	}

	warnings, score := v.Check(txns)

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, models.WarnBalanceMismatch, w.Code)
	assert.Equal(t, models.SeverityHigh, w.Severity)
	assert.Equal(t, 1250.00, w.Evidence["expected"])
	assert.Equal(t, 1300.00, w.Evidence["actual"])
	assert.Equal(t, 1000.00, w.Evidence["prevBalance"])
	assert.Equal(t, []int{2}, w.Pages)
	assert.Equal(t, 0, score)
}

func TestCheck_SignInference(t *testing.T) {
	v := New()
	// The parser read a magnitude-only debit column; the falling balance
	// fixes the sign.
	txns := []models.Transaction{
		{Date: day(1), Amount: 500.00, Balance: models.Float(1000.00)},
		{Date: day(2), Amount: 100.00, Balance: models.Float(900.00)},
	}

	warnings, score := v.Check(txns)

	assert.Empty(t, warnings)
	assert.Equal(t, 100, score)
	assert.Equal(t, -100.00, txns[1].Amount, "sign corrected in place")
}

func TestCheck_InfersUnsetAmount(t *testing.T) {
	v := New()
	// A single-money-token line gives a balance but no amount; the delta
	// is the only source for it.
	txns := []models.Transaction{
		{Date: day(1), Description: "SALDO ANTERIOR", Balance: models.Float(1000.00)},
		{Date: day(2), Description: "PAGO SERVICIOS", Amount: 0, Balance: models.Float(1250.00)},
		{Date: day(3), Description: "DEBITO AUTOMATICO", Amount: 0, Balance: models.Float(1100.00)},
	}

	warnings, score := v.Check(txns)

	assert.Empty(t, warnings)
	assert.Equal(t, 100, score)
	assert.Equal(t, 250.00, txns[1].Amount, "inferred from rising balance")
	assert.Equal(t, -150.00, txns[2].Amount, "inferred from falling balance")
}

func TestCheck_MagnitudeNeverChanged(t *testing.T) {
	v := New()
	// Delta -400 disagrees with the stated amount 100 in size; that is a
	// mismatch to report, not a number to rewrite.
	txns := []models.Transaction{
		{Date: day(1), Amount: 500.00, Balance: models.Float(1000.00)},
		{Date: day(2), Amount: 100.00, Balance: models.Float(600.00)},
	}

	warnings, score := v.Check(txns)

	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarnBalanceMismatch, warnings[0].Code)
	assert.Equal(t, 100.00, txns[1].Amount, "magnitude untouched")
	assert.Equal(t, 0, score)
}

func TestCheck_ChronologicalOrder(t *testing.T) {
	v := New()
	// Source order is shuffled; validation must follow dates.
	txns := []models.Transaction{
		{Date: day(3), Amount: 50.00, Balance: models.Float(1300.00)},
		{Date: day(1), Amount: 0, Balance: models.Float(1000.00), Description: "SALDO ANTERIOR"},
		{Date: day(2), Amount: 250.00, Balance: models.Float(1250.00)},
	}

	warnings, score := v.Check(txns)

	assert.Empty(t, warnings)
	assert.Equal(t, 100, score)
}

func TestCheck_SkipsRowsWithoutBalance(t *testing.T) {
	v := New()
	txns := []models.Transaction{
		{Date: day(1), Amount: 250.00, Balance: models.Float(1250.00)},
		{Date: day(2), Amount: 50.00},
		{Date: day(3), Amount: 100.00, Balance: models.Float(700.00)},
	}

	warnings, score := v.Check(txns)

	// Neither a (1,2) nor a (2,3) pair is comparable; no verdict possible.
	assert.Empty(t, warnings)
	assert.Equal(t, 100, score)
}

func TestCheck_ShortSequences(t *testing.T) {
	v := New()

	warnings, score := v.Check(nil)
	assert.Nil(t, warnings)
	assert.Equal(t, 100, score)

	warnings, score = v.Check([]models.Transaction{{Date: day(1), Amount: 10}})
	assert.Nil(t, warnings)
	assert.Equal(t, 100, score)
}

func TestCheck_MixedScore(t *testing.T) {
	v := New()
	txns := []models.Transaction{
		{Date: day(1), Amount: 0, Balance: models.Float(1000.00), Description: "SALDO ANTERIOR"},
		{Date: day(2), Amount: 100.00, Balance: models.Float(1100.00)},
		{Date: day(3), Amount: 100.00, Balance: models.Float(1600.00)},
	}

	warnings, score := v.Check(txns)

	require.Len(t, warnings, 1)
	assert.Equal(t, 50, score)
}

func TestCheck_Deterministic(t *testing.T) {
	v := New()
	build := func() []models.Transaction {
		return []models.Transaction{
			{Date: day(2), Amount: 250.00, Balance: models.Float(1300.00)},
			{Date: day(1), Balance: models.Float(1000.00), Description: "SALDO ANTERIOR"},
		}
	}

	w1, s1 := v.Check(build())
	w2, s2 := v.Check(build())

	assert.Equal(t, w1, w2)
	assert.Equal(t, s1, s2)
}
