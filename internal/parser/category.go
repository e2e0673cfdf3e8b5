package parser

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Category hints tag transactions with a coarse bookkeeping class from
// description keywords. Exact substring matching runs first; a fuzzy pass
// with edit distance 1 absorbs the single-character noise PDF text
// extraction introduces ("comision" read as "comlsion").

// Known category hints.
const (
	CategoryTax      = "IMPUESTO"
	CategoryFee      = "COMISION"
	CategoryTransfer = "TRANSFERENCIA"
	CategoryCard     = "TARJETA"
)

var categoryKeywords = []struct {
	hint  string
	words []string
}{
	{CategoryTax, []string{"impuesto", "iva", "percepcion", "sircreb", "ley 25413"}},
	{CategoryFee, []string{"comision", "mantenimiento", "cargo", "sellado"}},
	{CategoryTransfer, []string{"transferencia", "transf", "credito inmediato"}},
	{CategoryCard, []string{"tarjeta", "compra debito", "extraccion", "cajero"}},
}

// CategoryHint classifies a transaction description, returning "" when no
// keyword matches.
func CategoryHint(description string) string {
	lower := strings.ToLower(description)

	for _, group := range categoryKeywords {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.hint
			}
		}
	}

	// Fuzzy pass over individual words. Short keywords are excluded: one
	// edit on a five-letter word matches too much.
	tokens := strings.Fields(lower)
	for _, group := range categoryKeywords {
		for _, word := range group.words {
			if len(word) <= 5 || strings.Contains(word, " ") {
				continue
			}
			for _, tok := range tokens {
				if fuzzy.LevenshteinDistance(tok, word) <= 1 {
					return group.hint
				}
			}
		}
	}
	return ""
}
