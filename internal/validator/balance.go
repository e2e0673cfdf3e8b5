// Package validator cross-checks a transaction sequence against its running
// balances. It is the one component that treats arithmetic truth as the
// source of correctness, regardless of which parser produced the data.
package validator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fiscalpanel/extractito/internal/models"
)

// DefaultTolerance is the maximum absolute difference, in currency units,
// between an expected and an observed balance before a pair is counted as a
// mismatch. Empirical; tune per institution rather than assuming it
// generalizes.
const DefaultTolerance = 0.02

// Validator checks balance consistency over a transaction sequence.
type Validator struct {
	Tolerance float64
}

// New returns a validator with the default tolerance.
func New() *Validator {
	return &Validator{Tolerance: DefaultTolerance}
}

// Check validates the sequence and returns warnings plus a consistency
// score in [0,100]. Transactions are visited in chronological order with
// same-day source order preserved. An unset amount (zero with a known
// balance) is inferred in place from the running-balance delta; where a
// stated amount's sign is unreliable, Check corrects it the same way, but
// a stated magnitude is never silently changed, only a sign.
func (v *Validator) Check(txns []models.Transaction) ([]models.WarningItem, int) {
	if len(txns) < 2 {
		return nil, 100
	}

	// Stable sort over indices so same-day ordering from the source
	// document survives, and so corrections write back into the caller's
	// slice.
	order := make([]int, len(txns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return txns[order[a]].Date.Before(txns[order[b]].Date)
	})

	var warnings []models.WarningItem
	ok, fail := 0, 0

	// An opening-balance pseudo-row at the head of the sequence only ever
	// anchors the first comparison; it is never validated as a movement
	// itself.
	start := detectOpeningRow(txns, order) + 1
	if start < 1 {
		start = 1
	}

	for i := start; i < len(order); i++ {
		prev := &txns[order[i-1]]
		curr := &txns[order[i]]

		if prev.Balance == nil || curr.Balance == nil {
			continue
		}

		// An unset amount (zero with a known balance) takes the delta
		// outright. For a stated amount the delta only corrects the sign
		// when the magnitudes agree; a delta that disagrees in size is a
		// mismatch, not a fix.
		delta := round2(*curr.Balance - *prev.Balance)
		if curr.Amount == 0 || math.Abs(math.Abs(delta)-math.Abs(curr.Amount)) < v.Tolerance {
			curr.Amount = delta
		}

		expected := round2(*prev.Balance + curr.Amount)
		if math.Abs(expected-*curr.Balance) < v.Tolerance {
			ok++
			continue
		}
		fail++
		warnings = append(warnings, models.WarningItem{
			Code:     models.WarnBalanceMismatch,
			Severity: models.SeverityHigh,
			Message: fmt.Sprintf("inconsistent balance on %s: expected %.2f, got %.2f",
				curr.Date.Format("02/01/2006"), expected, *curr.Balance),
			Pages: pagesOf(curr),
			Evidence: map[string]any{
				"prevBalance": *prev.Balance,
				"amount":      curr.Amount,
				"expected":    expected,
				"actual":      *curr.Balance,
			},
		})
	}

	total := ok + fail
	if total == 0 {
		return warnings, 100
	}
	return warnings, int(math.Round(float64(ok) / float64(total) * 100))
}

// detectOpeningRow returns the index, in sorted order, of the
// opening-balance pseudo-row some layouts emit as their first line
// ("SALDO ANTERIOR ..."), or -1 when the sequence starts with a real
// movement.
func detectOpeningRow(txns []models.Transaction, order []int) int {
	desc := strings.ToLower(txns[order[0]].Description)
	if strings.Contains(desc, "saldo") || strings.Contains(desc, "balance") {
		return 0
	}
	return -1
}

func pagesOf(t *models.Transaction) []int {
	if t.SourcePage == 0 {
		return nil
	}
	return []int{t.SourcePage}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
