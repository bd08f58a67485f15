// Package sonnx contains a compiler front-end for the S-ONNX textual
// model-description language. It lexes and parses model source into an
// AST, resolves names and links the data-flow graph in a symbol table,
// orders the graph topologically while checking for cycles, marks
// optimization candidates, and emits a three-address text IR.
package sonnx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Trichiurus-lepturus/sonnx/fe"
	"github.com/Trichiurus-lepturus/sonnx/ir"
	"github.com/Trichiurus-lepturus/sonnx/sem"
	"github.com/Trichiurus-lepturus/sonnx/sym"
	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

// CycleErrorMessage is the diagnostic produced when the producer→
// consumer relation of a model is not acyclic.
const CycleErrorMessage = "Cycle detected in computation graph"

// FrontendError is a fatal lexical or syntactic failure from the
// ictiobus frontend. Compilation cannot proceed past one.
type FrontendError struct {
	// Lexical is true when the failure happened during lexical
	// analysis, false when it happened during parsing.
	Lexical bool

	// Err is the underlying error from the frontend; for syntax errors
	// it carries source line and column context.
	Err error
}

func (e *FrontendError) Error() string {
	return e.Err.Error()
}

// Unwrap gives the frontend error being wrapped.
func (e *FrontendError) Unwrap() error {
	return e.Err
}

// Result is the outcome of compiling one model source. When Errors is
// non-empty, emission was suppressed and Program and IR are zero.
type Result struct {
	// AST is the syntax tree the frontend produced.
	AST syntax.AST

	// Table is the populated symbol table, including the DAG adjacency
	// and topological order when analysis got that far.
	Table *sym.Table

	// Errors are the collected semantic and graph diagnostics.
	Errors []error

	// Program is the linearized IR and IR its text rendering. Both are
	// only set when Errors is empty.
	Program ir.Program
	IR      string
}

// Ok reports whether compilation succeeded and IR was emitted.
func (res Result) Ok() bool {
	return len(res.Errors) == 0
}

// Compile compiles S-ONNX model source read from r. A returned error is
// fatal (lexical, syntactic, or a missing model root) and of type
// *FrontendError for lexer/parser failures; recoverable semantic and
// graph diagnostics are collected in the Result instead so that a
// single run reports as many as possible.
func Compile(r io.Reader) (Result, error) {
	front := fe.Frontend(syntax.HooksTable, nil)

	// the non-lazy lexer scans the whole input up front, so lexical
	// errors surface here rather than as error tokens mid-parse
	tokens, err := fe.Lexer(false).Lex(r)
	if err != nil {
		return Result{}, &FrontendError{Lexical: true, Err: err}
	}

	tree, err := front.Parser.Parse(tokens)
	if err != nil {
		return Result{}, &FrontendError{Err: err}
	}

	attrVals, _, err := front.SDTS.Evaluate(tree, front.IRAttribute)
	if err != nil {
		return Result{}, &FrontendError{Err: err}
	}
	if len(attrVals) != 1 {
		return Result{}, fmt.Errorf("translation produced %d values for attribute %q, expected 1", len(attrVals), front.IRAttribute)
	}
	ast, ok := attrVals[0].(syntax.AST)
	if !ok {
		return Result{}, fmt.Errorf("translation produced a %T, expected an AST", attrVals[0])
	}

	return Analyze(ast)
}

// CompileString is the same as Compile but accepts the source as a
// string; it is provided for convenience.
func CompileString(s string) (Result, error) {
	return Compile(strings.NewReader(s))
}

// CompileFile compiles the model source in the file at path.
func CompileFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("could not open model source: %w", err)
	}
	defer f.Close()

	return Compile(f)
}

// Analyze runs semantic analysis, the graph analyses, and emission over
// an already-built AST. It is the entry point for callers that obtained
// an AST some way other than the bundled frontend.
func Analyze(ast syntax.AST) (Result, error) {
	res := Result{AST: ast}

	analyzer := sem.New()
	if err := analyzer.Analyze(ast); err != nil {
		return res, err
	}
	res.Table = analyzer.Table()
	res.Errors = analyzer.Errors()

	if len(res.Errors) > 0 {
		return res, nil
	}

	st := res.Table
	st.BuildDAG()
	st.TopoSort()
	if st.HasCycle {
		res.Errors = append(res.Errors, fmt.Errorf(CycleErrorMessage))
		return res, nil
	}

	st.DetectConstantFolding()
	st.DetectDeadCode()
	st.DetectCommonSubexpr()

	p, err := ir.Build(st)
	if err != nil {
		res.Errors = append(res.Errors, err)
		return res, nil
	}
	res.Program = p
	res.IR = p.Text()

	return res, nil
}
