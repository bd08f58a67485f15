// Package sem implements semantic analysis of parsed S-ONNX models. It
// resolves every tensor and node name to a symbol-table entry, links
// operator nodes to their producer and consumer tensors, and verifies
// declaration, definition, reference, and type consistency.
//
// Analysis is two-pass: the first pass registers node symbols and their
// pending name references; the second pass processes initializers,
// model inputs, model outputs, and then revisits every node to resolve
// references and create placeholder tensors for forward references.
// Errors are collected rather than aborting so that a single run
// reports as many problems as possible.
package sem

import (
	"fmt"

	"github.com/Trichiurus-lepturus/sonnx/sym"
	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

// Analyzer performs semantic analysis of one model AST. The zero value
// is not usable; create analyzers with New. An Analyzer is single-use:
// Analyze may be called once.
type Analyzer struct {
	st   *sym.Table
	errs []error
}

// New returns an Analyzer with a fresh symbol table.
func New() *Analyzer {
	return &Analyzer{st: sym.NewTable()}
}

// Table returns the symbol table populated by Analyze.
func (a *Analyzer) Table() *sym.Table { return a.st }

// Errors returns the semantic errors collected by Analyze, in the order
// they were found.
func (a *Analyzer) Errors() []error { return a.errs }

// Analyze runs both analysis passes over the AST. The returned error is
// non-nil only for fatal problems (no usable model root); the
// recoverable diagnostics are collected and available from Errors.
// After a run with no collected errors the symbol table satisfies all
// structural invariants except acyclicity, which the graph analyses on
// the table check separately.
func (a *Analyzer) Analyze(ast syntax.AST) error {
	model, ok := ast.Root.(syntax.ModelNode)
	if !ok {
		return fmt.Errorf("source has no MODEL root")
	}

	graph, ok := model.Graph.(syntax.GraphNode)
	if !ok {
		return fmt.Errorf("model has no GRAPH")
	}

	a.declarationPass(graph)
	a.definitionPass(graph)
	return nil
}

func (a *Analyzer) errorf(format string, args ...interface{}) {
	a.errs = append(a.errs, fmt.Errorf(format, args...))
}

// declarationPass registers a node symbol for every operator node and
// records its referenced input and output tensor names as pending
// references. Tensor symbols are deliberately not created yet: the
// definition pass needs to know whether a name already exists before
// deciding to create it.
func (a *Analyzer) declarationPass(graph syntax.GraphNode) {
	nodeList, ok := graph.Nodes.(syntax.NodeListNode)
	if !ok {
		return
	}

	for _, child := range nodeList.Nodes {
		op, ok := child.(syntax.OpNode)
		if !ok {
			// parser error recovery marker, nothing to declare
			continue
		}

		name, ok := syntax.StringValue(op.Name)
		if !ok {
			continue
		}
		opType, ok := syntax.StringValue(op.OpType)
		if !ok {
			continue
		}

		if !a.st.InsertNode(name, opType, op) {
			a.errorf("Duplicate node: '%s'", name)
			continue
		}

		ns := a.st.Node(name)
		ns.PendingInputs = specNames(op.Inputs)
		ns.PendingOutputs = specNames(op.Outputs)
		ns.AttrSig = attrSignature(op.Attrs)
	}
}

// definitionPass processes initializers, model inputs, and model
// outputs, then revisits every node symbol to resolve its pending
// references, link edges, and create placeholders for forward
// references. It finishes with the type-consistency and completeness
// checks.
func (a *Analyzer) definitionPass(graph syntax.GraphNode) {
	a.defineInitializers(graph)
	a.defineModelInputs(graph)
	a.defineModelOutputs(graph)
	a.linkNodes()
	a.checkTypeConsistency()
	a.checkCompleteness()
}

func (a *Analyzer) defineInitializers(graph syntax.GraphNode) {
	initList, ok := graph.Initializers.(syntax.InitializerListNode)
	if !ok {
		return
	}

	for _, child := range initList.Tensors {
		it, ok := child.(syntax.InitTensorNode)
		if !ok {
			continue
		}

		name, ok := syntax.StringValue(it.Name)
		if !ok {
			continue
		}

		if !a.st.InsertTensor(name, syntax.TypeValue(it.Elem), it) {
			a.errorf("Duplicate initializer: '%s'", name)
			continue
		}

		ts := a.st.Tensor(name)
		ts.IsInitializer = true
		if dims, ok := it.Dims.(syntax.DimsArrayNode); ok {
			ts.Shape = dims.Spec()
		}
		if raw, ok := it.Raw.(syntax.BytesLiteralNode); ok {
			ts.RawHex = raw.Hex()
		}
	}
}

func (a *Analyzer) defineModelInputs(graph syntax.GraphNode) {
	inputList, ok := graph.Inputs.(syntax.InputListNode)
	if !ok {
		return
	}

	for _, child := range inputList.Tensors {
		io, ok := child.(syntax.IOTensorNode)
		if !ok {
			continue
		}

		name, ok := syntax.StringValue(io.Name)
		if !ok {
			continue
		}

		if existing := a.st.Tensor(name); existing != nil {
			if existing.IsModelInput {
				a.errorf("Duplicate model input: '%s'", name)
				continue
			}
			if !existing.IsInitializer {
				// outputs have not been processed and nodes not yet
				// linked, so anything else here is an internal breach
				a.errorf("Duplicate model input: '%s'", name)
				continue
			}

			// initializer shadowing an input: the only legal dual role
			existing.IsModelInput = true
			continue
		}

		if !a.st.InsertTensor(name, syntax.TypeValue(io.Elem), io) {
			a.errorf("Tensor name conflict: '%s'", name)
			continue
		}

		ts := a.st.Tensor(name)
		ts.IsModelInput = true
		if shape, ok := io.Shape.(syntax.ShapeNode); ok {
			ts.Shape = shape.Spec()
		}
	}
}

func (a *Analyzer) defineModelOutputs(graph syntax.GraphNode) {
	outputList, ok := graph.Outputs.(syntax.OutputListNode)
	if !ok {
		return
	}

	for _, child := range outputList.Tensors {
		io, ok := child.(syntax.IOTensorNode)
		if !ok {
			continue
		}

		name, ok := syntax.StringValue(io.Name)
		if !ok {
			continue
		}

		if existing := a.st.Tensor(name); existing != nil {
			if existing.IsModelOutput {
				a.errorf("Duplicate model output: '%s'", name)
				continue
			}
			if existing.IsModelInput {
				a.errorf("Model output '%s' may not also be a model input", name)
				continue
			}
			if existing.IsInitializer {
				a.errorf("Model output '%s' may not also be an initializer", name)
				continue
			}

			existing.IsModelOutput = true
			continue
		}

		if !a.st.InsertTensor(name, syntax.TypeValue(io.Elem), io) {
			a.errorf("Tensor name conflict: '%s'", name)
			continue
		}

		ts := a.st.Tensor(name)
		ts.IsModelOutput = true
		if shape, ok := io.Shape.(syntax.ShapeNode); ok {
			ts.Shape = shape.Spec()
		}
	}
}

// linkNodes is the second visit of the node list. Output references of
// every node are linked before any input references so that an input
// may forward-reference a tensor produced by a node declared later;
// pending inputs then resolve against the completed tensor namespace.
func (a *Analyzer) linkNodes() {
	for _, ns := range a.st.Nodes() {
		a.linkOutputs(ns)
	}
	for _, ns := range a.st.Nodes() {
		a.linkInputs(ns)
	}
}

// linkOutputs claims every pending output of ns: an existing tensor may
// be claimed only if nothing produces it yet and it carries no input or
// initializer role; an unknown name becomes a placeholder.
func (a *Analyzer) linkOutputs(ns *sym.NodeSymbol) {
	op, _ := ns.Decl().(syntax.OpNode)
	outDecls := richDecls(op.Outputs)

	for _, name := range ns.PendingOutputs {
		if name == "" {
			a.errorf("Node '%s' has empty output name", ns.Name)
			continue
		}
		if containsName(ns.PendingInputs, name) {
			a.errorf("Node '%s' uses '%s' as both input and output", ns.Name, name)
			continue
		}

		ts := a.st.Tensor(name)
		if ts != nil {
			if ts.Producer != nil {
				a.errorf("Output tensor '%s' conflict: already produced by node '%s'", name, ts.Producer.Name)
				continue
			}
			if ts.IsModelInput {
				a.errorf("Node '%s' output '%s' conflicts with model input declaration", ns.Name, name)
				continue
			}
			if ts.IsInitializer {
				a.errorf("Node '%s' output '%s' conflicts with initializer definition", ns.Name, name)
				continue
			}
		} else {
			if !a.st.InsertTensor(name, syntax.TypeUndefined, ns.Decl()) {
				a.errorf("Tensor name conflict: '%s'", name)
				continue
			}
			ts = a.st.Tensor(name)
		}

		if decl, ok := outDecls[name]; ok {
			applyRichDecl(ts, decl)
		}
		a.st.AddOutput(ns, ts)
	}
}

// linkInputs resolves every pending input of ns against the tensor
// namespace. Empty names denote an absent optional input and are
// skipped silently.
func (a *Analyzer) linkInputs(ns *sym.NodeSymbol) {
	op, _ := ns.Decl().(syntax.OpNode)
	inDecls := richDecls(op.Inputs)

	for _, name := range ns.PendingInputs {
		if name == "" {
			// optional input absent
			continue
		}

		ts := a.st.Tensor(name)
		if ts == nil {
			a.errorf("Node '%s' references undefined input: %s", ns.Name, name)
			continue
		}

		if decl, ok := inDecls[name]; ok {
			applyRichDecl(ts, decl)
		}
		a.st.AddInput(ns, ts)
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// checkTypeConsistency verifies that the non-placeholder input and
// output tensors of every node agree on one element type, then lets
// remaining placeholders inherit the node's inferred type.
func (a *Analyzer) checkTypeConsistency() {
	for _, ns := range a.st.Nodes() {
		inferred := syntax.TypeUndefined

		mismatch := false
		for _, ts := range ns.Inputs {
			if ts.Elem == syntax.TypeUndefined {
				continue
			}
			if inferred == syntax.TypeUndefined {
				inferred = ts.Elem
			} else if ts.Elem != inferred {
				a.errorf("Type mismatch in node '%s' (op_type: '%s'): input tensor '%s' has type %s, expected %s",
					ns.Name, ns.OpType, ts.Name, ts.Elem, inferred)
				mismatch = true
				break
			}
		}
		if !mismatch {
			for _, ts := range ns.Outputs {
				if ts.Elem == syntax.TypeUndefined {
					continue
				}
				if inferred == syntax.TypeUndefined {
					inferred = ts.Elem
				} else if ts.Elem != inferred {
					a.errorf("Type mismatch in node '%s' (op_type: '%s'): output tensor '%s' has type %s, expected %s",
						ns.Name, ns.OpType, ts.Name, ts.Elem, inferred)
					break
				}
			}
		}

		if inferred == syntax.TypeUndefined {
			continue
		}
		for _, ts := range ns.Outputs {
			if ts.Elem == syntax.TypeUndefined {
				ts.Elem = inferred
			}
		}
		for _, ts := range ns.Inputs {
			if ts.Elem == syntax.TypeUndefined {
				ts.Elem = inferred
			}
		}
	}
}

// checkCompleteness reports placeholder tensors that never gained a
// producer and model outputs that nothing produces.
func (a *Analyzer) checkCompleteness() {
	for _, ts := range a.st.Tensors() {
		if ts.Elem == syntax.TypeUndefined && ts.Producer == nil {
			a.errorf("Tensor '%s' is referenced but never defined", ts.Name)
			continue
		}
		if ts.IsModelOutput && ts.Producer == nil && !ts.IsModelInput && !ts.IsInitializer {
			a.errorf("Model output '%s' is never produced", ts.Name)
		}
	}
}

type richDecl struct {
	elem  syntax.ElemType
	shape string
}

// applyRichDecl folds the type and shape of a rich (typed) specifier
// entry into a tensor symbol, without ever overwriting information that
// is already present.
func applyRichDecl(ts *sym.TensorSymbol, decl richDecl) {
	if ts.Elem == syntax.TypeUndefined {
		ts.Elem = decl.elem
	}
	if ts.Shape == "" {
		ts.Shape = decl.shape
	}
}

// specNames extracts the referenced tensor names of an input or output
// specifier in order, from either the plain-array or the rich form.
// Empty strings are preserved; the linking step decides their meaning.
func specNames(spec syntax.ASTNode) []string {
	var names []string

	appendIO := func(tensors []syntax.ASTNode) {
		for _, child := range tensors {
			io, ok := child.(syntax.IOTensorNode)
			if !ok {
				continue
			}
			if name, ok := syntax.StringValue(io.Name); ok {
				names = append(names, name)
			}
		}
	}

	switch s := spec.(type) {
	case syntax.InputArrNode:
		for _, el := range s.Elements {
			if name, ok := syntax.StringValue(el); ok {
				names = append(names, name)
			}
		}
	case syntax.OutputArrNode:
		for _, el := range s.Elements {
			if name, ok := syntax.StringValue(el); ok {
				names = append(names, name)
			}
		}
	case syntax.InputListNode:
		appendIO(s.Tensors)
	case syntax.OutputListNode:
		appendIO(s.Tensors)
	}

	return names
}

// richDecls maps tensor names to the type and shape information of a
// rich specifier. Plain-array specifiers yield an empty map.
func richDecls(spec syntax.ASTNode) map[string]richDecl {
	decls := make(map[string]richDecl)

	collect := func(tensors []syntax.ASTNode) {
		for _, child := range tensors {
			io, ok := child.(syntax.IOTensorNode)
			if !ok {
				continue
			}
			name, ok := syntax.StringValue(io.Name)
			if !ok {
				continue
			}

			d := richDecl{elem: syntax.TypeValue(io.Elem)}
			if shape, ok := io.Shape.(syntax.ShapeNode); ok {
				d.shape = shape.Spec()
			}
			decls[name] = d
		}
	}

	switch s := spec.(type) {
	case syntax.InputListNode:
		collect(s.Tensors)
	case syntax.OutputListNode:
		collect(s.Tensors)
	}

	return decls
}

// attrSignature renders an operator node's attribute list in the form
// used in emitted op lines: name=value pairs joined by ", ". It is
// empty for nodes with no attribute list.
func attrSignature(attrs syntax.ASTNode) string {
	attrList, ok := attrs.(syntax.AttrListNode)
	if !ok {
		return ""
	}

	sig := ""
	for _, child := range attrList.Attrs {
		attr, ok := child.(syntax.AttrNode)
		if !ok {
			continue
		}
		name, ok := syntax.StringValue(attr.Name)
		if !ok {
			continue
		}

		if sig != "" {
			sig += ", "
		}
		sig += name + "=" + attrValueString(attr.Value)
	}

	return sig
}

func attrValueString(v syntax.ASTNode) string {
	switch val := v.(type) {
	case syntax.U32LiteralNode:
		return fmt.Sprintf("%d", val.Value)
	case syntax.U64LiteralNode:
		return fmt.Sprintf("%d", val.Value)
	case syntax.StrLiteralNode:
		return fmt.Sprintf("%q", val.Value)
	case syntax.BytesLiteralNode:
		return "0x" + val.Hex()
	case syntax.TypeLiteralNode:
		return val.Value.String()
	default:
		return "?"
	}
}
