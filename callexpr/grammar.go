package callexpr

import (
	"bytes"
	_ "embed"

	"golang.org/x/exp/ebnf"
)

// GrammarStart is the start production of GrammarSource.
const GrammarStart = "Call"

// GrammarSource is the reference grammar of the call-expression language
// in the notation of the Go specification. The parser is hand written;
// the grammar documents what it accepts.
//
//go:embed grammar.ebnf
var GrammarSource []byte

// Grammar parses GrammarSource and verifies that every production is
// defined and reachable from GrammarStart.
func Grammar() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("grammar.ebnf", bytes.NewReader(GrammarSource))
	if err != nil {
		return nil, err
	}
	if err := ebnf.Verify(g, GrammarStart); err != nil {
		return nil, err
	}
	return g, nil
}
