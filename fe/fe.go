// Package fe contains the complete ictiobus frontend for the S-ONNX
// model-description language: lexer, SLR(1) parser, and the
// syntax-directed translation scheme that produces a syntax.AST.
package fe

import (
	"fmt"
	"sync"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/parse"
	"github.com/dekarrin/ictiobus/trans"

	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

var (
	sonnxParser     parse.Parser
	sonnxParserOnce sync.Once
)

// FrontendOptions describes debug flags and other optional
// functionality for the compiler frontend. Frontend accepts a value of
// it but does not apply any of its fields.
type FrontendOptions struct {
	// LexerEager is whether the Lexer should immediately read all input
	// the first time it is called.
	LexerEager bool

	// LexerTrace is whether to add tracing functionality to the lexer.
	LexerTrace bool

	// ParserTrace is whether to add tracing functionality to the parser.
	ParserTrace bool

	// SDTSTrace is whether to add tracing functionality to the
	// translation scheme.
	SDTSTrace bool
}

// Parser returns the S-ONNX parser. The parse table is generated from
// Grammar() on first call and reused afterwards; generation failing
// would mean the grammar itself is broken, so that panics.
func Parser() parse.Parser {
	sonnxParserOnce.Do(func() {
		p, _, err := ictiobus.NewSLRParser(Grammar(), true)
		if err != nil {
			panic(fmt.Sprintf("S-ONNX grammar is not SLR(1): %v", err))
		}
		sonnxParser = p
	})

	return sonnxParser
}

// Frontend returns the complete compiler frontend for S-ONNX model
// source. Pass syntax.HooksTable as hooks for normal operation; tests
// may substitute their own table. opts is not applied: the returned
// frontend always uses the lazy lexer and registers no trace listeners.
func Frontend(hooks trans.HookMap, opts *FrontendOptions) ictiobus.Frontend[syntax.AST] {
	sdts := SDTS()
	sdts.SetHooks(hooks)

	front := ictiobus.Frontend[syntax.AST]{
		Lexer:       Lexer(true),
		Parser:      Parser(),
		SDTS:        sdts,
		IRAttribute: "ast",
		Language:    "S-ONNX",
		Version:     "1.0",
	}

	return front
}
