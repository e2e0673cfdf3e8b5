// Package institution resolves which financial institution issued a document
// from textual fragments in its profile sample.
//
// Supporting a new institution is a single append to the fragment table; no
// logic changes.
package institution

import (
	"strings"

	"github.com/fiscalpanel/extractito/internal/models"
)

// Known institution codes.
const (
	BancoCorrientes = "bcorrientes"
	BancoNacion     = "bnacion"
)

type fragment struct {
	needle string // lowercased text fragment
	code   string
}

// fragments maps statement text fragments to institution codes. Order
// matters only for documents mentioning several institutions; the first
// match wins.
var fragments = []fragment{
	{"banco de corrientes", BancoCorrientes},
	{"banco de la pcia de corrientes", BancoCorrientes},
	{"banco de la nacion argentina", BancoNacion},
	{"banco de la nación argentina", BancoNacion},
}

// Detect returns the institution code for the profile, or false when no
// fragment matches. It is a pure function of the sample text.
func Detect(profile *models.DocumentProfile) (string, bool) {
	text := strings.ToLower(profile.SampleText)
	for _, f := range fragments {
		if strings.Contains(text, f.needle) {
			return f.code, true
		}
	}
	return "", false
}

// Name returns the display name for an institution code, or the code itself
// when none is registered.
func Name(code string) string {
	switch code {
	case BancoCorrientes:
		return "Banco de Corrientes"
	case BancoNacion:
		return "Banco de la Nación Argentina"
	}
	return code
}
