package parser

import (
	"github.com/rs/zerolog"

	"github.com/fiscalpanel/extractito/internal/institution"
)

// Registry maps an institution code to its ordered parser candidates. The
// host application builds one at process start; order is the tie-break when
// two candidates report the same applicability score.
type Registry map[string][]StructuralParser

// Default returns the registry of currently supported institutions. Adding
// an institution means appending an entry here plus a fragment in the
// institution package; router and validator logic never change.
func Default(log zerolog.Logger) Registry {
	return Registry{
		institution.BancoCorrientes: {
			NewResumenBCorrientes(),
			NewLineBased(log),
		},
	}
}

// Register appends parsers for an institution, preserving order.
func (r Registry) Register(code string, parsers ...StructuralParser) {
	r[code] = append(r[code], parsers...)
}
