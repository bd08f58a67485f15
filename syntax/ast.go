package syntax

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/lex"
	"github.com/dekarrin/rosed"
)

// AST is the root of a parsed S-ONNX model. The zero value is an empty
// tree; trees produced by the frontend always hold a ModelNode (or an
// ErrorNode if the parser recovered past an unusable construct).
type AST struct {
	Root ASTNode
}

// String returns a prettified representation of the entire AST suitable
// for use in line-by-line comparisons of tree structure. Two ASTs are
// considered semantically identical if they produce identical String()
// output.
func (ast AST) String() string {
	if ast.Root == nil {
		return "AST"
	}

	const rootStart = " R: "
	return "AST\n" + rootStart + spaceIndentNewlines(ast.Root.String(), len(rootStart))
}

// Equal returns whether ast is structurally equal to another AST. Token
// provenance is not considered.
func (ast AST) Equal(o any) bool {
	other, ok := equalTarget[AST](o)
	if !ok {
		return false
	}

	if ast.Root == nil || other.Root == nil {
		return ast.Root == nil && other.Root == nil
	}
	return ast.Root.Equal(other.Root)
}

// NodeType identifies the variant of an ASTNode. The set of variants is
// closed; passes dispatch on it with type switches.
type NodeType int

const (
	ASTModel NodeType = iota
	ASTGraph
	ASTNodeList
	ASTInputList
	ASTOutputList
	ASTInitializerList
	ASTOpNode
	ASTInputArr
	ASTOutputArr
	ASTAttrList
	ASTAttr
	ASTIOTensor
	ASTInitTensor
	ASTShape
	ASTDim
	ASTDimsArray
	ASTOpset
	ASTU32Literal
	ASTU64Literal
	ASTStrLiteral
	ASTBytesLiteral
	ASTTypeLiteral
	ASTError
)

// ASTNode is one node of an S-ONNX AST.
type ASTNode interface {

	// Type returns the variant of the node. It determines which
	// concrete type the node may be asserted to.
	Type() NodeType

	// Source is the first token from source text lexed as part of this
	// node. It may be nil on programmatically constructed trees.
	Source() lex.Token

	// String returns a prettified representation of the node suitable
	// for use in line-by-line comparisons of tree structure.
	String() string

	// Equal returns whether a node is structurally equal to another.
	// Nodes do not consider the result of Source() in their equality.
	Equal(o any) bool
}

// equalTarget retrieves o as a value of type T, also accepting a
// non-nil *T the way every Equal implementation in this package does.
func equalTarget[T any](o any) (T, bool) {
	if v, ok := o.(T); ok {
		return v, true
	}
	if p, ok := o.(*T); ok && p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

func childEqual(a, b ASTNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func childrenEqual(a, b []ASTNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !childEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func childString(n ASTNode) string {
	if n == nil {
		return "(none)"
	}
	return n.String()
}

func listString(label string, children []ASTNode) string {
	const itemStart = " - "

	s := "[" + label
	if len(children) == 0 {
		return s + "]"
	}

	s += "\n"
	for i := range children {
		s += itemStart + spaceIndentNewlines(childString(children[i]), len(itemStart)) + "\n"
	}
	s += "]"
	return s
}

// U32LiteralNode is a 32-bit integer literal.
type U32LiteralNode struct {
	Value uint32

	src lex.Token
}

func (n U32LiteralNode) Type() NodeType    { return ASTU32Literal }
func (n U32LiteralNode) Source() lex.Token { return n.src }

func (n U32LiteralNode) String() string {
	return fmt.Sprintf("[U32_LITERAL %d]", n.Value)
}

// Does not consider Source.
func (n U32LiteralNode) Equal(o any) bool {
	other, ok := equalTarget[U32LiteralNode](o)
	return ok && n.Value == other.Value
}

// U64LiteralNode is a 64-bit integer literal, produced by an L/l suffix
// or by magnitude overflow of the 32-bit form.
type U64LiteralNode struct {
	Value uint64

	src lex.Token
}

func (n U64LiteralNode) Type() NodeType    { return ASTU64Literal }
func (n U64LiteralNode) Source() lex.Token { return n.src }

func (n U64LiteralNode) String() string {
	return fmt.Sprintf("[U64_LITERAL %d]", n.Value)
}

// Does not consider Source.
func (n U64LiteralNode) Equal(o any) bool {
	other, ok := equalTarget[U64LiteralNode](o)
	return ok && n.Value == other.Value
}

// StrLiteralNode is a string literal with its escapes already
// interpreted and quotes stripped.
type StrLiteralNode struct {
	Value string

	src lex.Token
}

func (n StrLiteralNode) Type() NodeType    { return ASTStrLiteral }
func (n StrLiteralNode) Source() lex.Token { return n.src }

func (n StrLiteralNode) String() string {
	if len(n.Value) > 60 {
		const textStart = "    "
		wrapped := rosed.Edit(n.Value).Wrap(60).String()
		return "[STR_LITERAL\n" + textStart + spaceIndentNewlines(wrapped, len(textStart)) + "\n]"
	}
	return fmt.Sprintf("[STR_LITERAL %q]", n.Value)
}

// Does not consider Source.
func (n StrLiteralNode) Equal(o any) bool {
	other, ok := equalTarget[StrLiteralNode](o)
	return ok && n.Value == other.Value
}

// BytesLiteralNode is a raw-data byte payload.
type BytesLiteralNode struct {
	Value []byte

	src lex.Token
}

func (n BytesLiteralNode) Type() NodeType    { return ASTBytesLiteral }
func (n BytesLiteralNode) Source() lex.Token { return n.src }

// Hex returns the payload as lowercase hex digits with no prefix.
func (n BytesLiteralNode) Hex() string {
	return hex.EncodeToString(n.Value)
}

func (n BytesLiteralNode) String() string {
	return "[BYTES_LITERAL 0x" + n.Hex() + "]"
}

// Does not consider Source.
func (n BytesLiteralNode) Equal(o any) bool {
	other, ok := equalTarget[BytesLiteralNode](o)
	if !ok {
		return false
	}
	if len(n.Value) != len(other.Value) {
		return false
	}
	for i := range n.Value {
		if n.Value[i] != other.Value[i] {
			return false
		}
	}
	return true
}

// TypeLiteralNode is an element-type name used as a value.
type TypeLiteralNode struct {
	Value ElemType

	src lex.Token
}

func (n TypeLiteralNode) Type() NodeType    { return ASTTypeLiteral }
func (n TypeLiteralNode) Source() lex.Token { return n.src }

func (n TypeLiteralNode) String() string {
	return fmt.Sprintf("[TYPE_ENUM %s]", n.Value)
}

// Does not consider Source.
func (n TypeLiteralNode) Equal(o any) bool {
	other, ok := equalTarget[TypeLiteralNode](o)
	return ok && n.Value == other.Value
}

// ErrorNode stands in for any child the parser recovered past. All
// passes must tolerate it wherever a node may appear.
type ErrorNode struct {
	src lex.Token
}

func (n ErrorNode) Type() NodeType    { return ASTError }
func (n ErrorNode) Source() lex.Token { return n.src }
func (n ErrorNode) String() string    { return "[ERROR]" }

// Does not consider Source.
func (n ErrorNode) Equal(o any) bool {
	_, ok := equalTarget[ErrorNode](o)
	return ok
}

// ModelNode is the root construct of a model source file. Its metadata
// children are literal nodes; Graph and Opset hold the corresponding
// block nodes.
type ModelNode struct {
	IRVersion       ASTNode
	ProducerName    ASTNode
	ProducerVersion ASTNode
	Domain          ASTNode
	ModelVersion    ASTNode
	DocString       ASTNode
	Graph           ASTNode
	Opset           ASTNode

	src lex.Token
}

func (n ModelNode) Type() NodeType    { return ASTModel }
func (n ModelNode) Source() lex.Token { return n.src }

func (n ModelNode) String() string {
	parts := []struct {
		tag   string
		child ASTNode
	}{
		{" IR: ", n.IRVersion},
		{" PN: ", n.ProducerName},
		{" PV: ", n.ProducerVersion},
		{" DM: ", n.Domain},
		{" MV: ", n.ModelVersion},
		{" DS: ", n.DocString},
		{" G:  ", n.Graph},
		{" OP: ", n.Opset},
	}

	s := "[MODEL\n"
	for _, p := range parts {
		s += p.tag + spaceIndentNewlines(childString(p.child), len(p.tag)) + "\n"
	}
	s += "]"
	return s
}

// Does not consider Source.
func (n ModelNode) Equal(o any) bool {
	other, ok := equalTarget[ModelNode](o)
	if !ok {
		return false
	}

	return childEqual(n.IRVersion, other.IRVersion) &&
		childEqual(n.ProducerName, other.ProducerName) &&
		childEqual(n.ProducerVersion, other.ProducerVersion) &&
		childEqual(n.Domain, other.Domain) &&
		childEqual(n.ModelVersion, other.ModelVersion) &&
		childEqual(n.DocString, other.DocString) &&
		childEqual(n.Graph, other.Graph) &&
		childEqual(n.Opset, other.Opset)
}

// GraphNode is a model's computation graph: a name plus the node,
// input, output, and (optional, may be nil) initializer list blocks.
type GraphNode struct {
	Name         ASTNode
	Nodes        ASTNode
	Inputs       ASTNode
	Outputs      ASTNode
	Initializers ASTNode

	src lex.Token
}

func (n GraphNode) Type() NodeType    { return ASTGraph }
func (n GraphNode) Source() lex.Token { return n.src }

func (n GraphNode) String() string {
	parts := []struct {
		tag   string
		child ASTNode
	}{
		{" N:  ", n.Name},
		{" ND: ", n.Nodes},
		{" IN: ", n.Inputs},
		{" OU: ", n.Outputs},
	}

	s := "[GRAPH\n"
	for _, p := range parts {
		s += p.tag + spaceIndentNewlines(childString(p.child), len(p.tag)) + "\n"
	}
	if n.Initializers != nil {
		const tag = " IT: "
		s += tag + spaceIndentNewlines(n.Initializers.String(), len(tag)) + "\n"
	}
	s += "]"
	return s
}

// Does not consider Source.
func (n GraphNode) Equal(o any) bool {
	other, ok := equalTarget[GraphNode](o)
	if !ok {
		return false
	}

	return childEqual(n.Name, other.Name) &&
		childEqual(n.Nodes, other.Nodes) &&
		childEqual(n.Inputs, other.Inputs) &&
		childEqual(n.Outputs, other.Outputs) &&
		childEqual(n.Initializers, other.Initializers)
}

// NodeListNode holds a graph's operator nodes in source order.
type NodeListNode struct {
	Nodes []ASTNode

	src lex.Token
}

func (n NodeListNode) Type() NodeType    { return ASTNodeList }
func (n NodeListNode) Source() lex.Token { return n.src }
func (n NodeListNode) String() string    { return listString("NODE_LIST", n.Nodes) }

// Does not consider Source.
func (n NodeListNode) Equal(o any) bool {
	other, ok := equalTarget[NodeListNode](o)
	return ok && childrenEqual(n.Nodes, other.Nodes)
}

// InputListNode holds typed tensor declarations. It appears both as a
// graph's input list and as the rich input specifier of an operator
// node.
type InputListNode struct {
	Tensors []ASTNode

	src lex.Token
}

func (n InputListNode) Type() NodeType    { return ASTInputList }
func (n InputListNode) Source() lex.Token { return n.src }
func (n InputListNode) String() string    { return listString("INPUT_LIST", n.Tensors) }

// Does not consider Source.
func (n InputListNode) Equal(o any) bool {
	other, ok := equalTarget[InputListNode](o)
	return ok && childrenEqual(n.Tensors, other.Tensors)
}

// OutputListNode is the output-side counterpart of InputListNode.
type OutputListNode struct {
	Tensors []ASTNode

	src lex.Token
}

func (n OutputListNode) Type() NodeType    { return ASTOutputList }
func (n OutputListNode) Source() lex.Token { return n.src }
func (n OutputListNode) String() string    { return listString("OUTPUT_LIST", n.Tensors) }

// Does not consider Source.
func (n OutputListNode) Equal(o any) bool {
	other, ok := equalTarget[OutputListNode](o)
	return ok && childrenEqual(n.Tensors, other.Tensors)
}

// InitializerListNode holds a graph's constant tensor definitions.
type InitializerListNode struct {
	Tensors []ASTNode

	src lex.Token
}

func (n InitializerListNode) Type() NodeType    { return ASTInitializerList }
func (n InitializerListNode) Source() lex.Token { return n.src }
func (n InitializerListNode) String() string    { return listString("INITIALIZER_LIST", n.Tensors) }

// Does not consider Source.
func (n InitializerListNode) Equal(o any) bool {
	other, ok := equalTarget[InitializerListNode](o)
	return ok && childrenEqual(n.Tensors, other.Tensors)
}

// OpNode is a single operator instance: its operator type, unique node
// name, input and output specifiers, and optional attribute list (nil
// when absent). The input and output specifiers are each either an
// arr node (plain name references) or a list node (typed declarations).
type OpNode struct {
	OpType  ASTNode
	Name    ASTNode
	Inputs  ASTNode
	Outputs ASTNode
	Attrs   ASTNode

	src lex.Token
}

func (n OpNode) Type() NodeType    { return ASTOpNode }
func (n OpNode) Source() lex.Token { return n.src }

func (n OpNode) String() string {
	parts := []struct {
		tag   string
		child ASTNode
	}{
		{" OP: ", n.OpType},
		{" N:  ", n.Name},
		{" IN: ", n.Inputs},
		{" OU: ", n.Outputs},
	}

	s := "[NODE\n"
	for _, p := range parts {
		s += p.tag + spaceIndentNewlines(childString(p.child), len(p.tag)) + "\n"
	}
	if n.Attrs != nil {
		const tag = " AT: "
		s += tag + spaceIndentNewlines(n.Attrs.String(), len(tag)) + "\n"
	}
	s += "]"
	return s
}

// Does not consider Source.
func (n OpNode) Equal(o any) bool {
	other, ok := equalTarget[OpNode](o)
	if !ok {
		return false
	}

	return childEqual(n.OpType, other.OpType) &&
		childEqual(n.Name, other.Name) &&
		childEqual(n.Inputs, other.Inputs) &&
		childEqual(n.Outputs, other.Outputs) &&
		childEqual(n.Attrs, other.Attrs)
}

// InputArrNode is the plain-array form of an input specifier: a list of
// tensor-name string literals (use-sites, not declarations).
type InputArrNode struct {
	Elements []ASTNode

	src lex.Token
}

func (n InputArrNode) Type() NodeType    { return ASTInputArr }
func (n InputArrNode) Source() lex.Token { return n.src }
func (n InputArrNode) String() string    { return listString("INPUT_ARR", n.Elements) }

// Does not consider Source.
func (n InputArrNode) Equal(o any) bool {
	other, ok := equalTarget[InputArrNode](o)
	return ok && childrenEqual(n.Elements, other.Elements)
}

// OutputArrNode is the plain-array form of an output specifier.
type OutputArrNode struct {
	Elements []ASTNode

	src lex.Token
}

func (n OutputArrNode) Type() NodeType    { return ASTOutputArr }
func (n OutputArrNode) Source() lex.Token { return n.src }
func (n OutputArrNode) String() string    { return listString("OUTPUT_ARR", n.Elements) }

// Does not consider Source.
func (n OutputArrNode) Equal(o any) bool {
	other, ok := equalTarget[OutputArrNode](o)
	return ok && childrenEqual(n.Elements, other.Elements)
}

// AttrListNode holds an operator node's attributes.
type AttrListNode struct {
	Attrs []ASTNode

	src lex.Token
}

func (n AttrListNode) Type() NodeType    { return ASTAttrList }
func (n AttrListNode) Source() lex.Token { return n.src }
func (n AttrListNode) String() string    { return listString("ATTRIBUTE_LIST", n.Attrs) }

// Does not consider Source.
func (n AttrListNode) Equal(o any) bool {
	other, ok := equalTarget[AttrListNode](o)
	return ok && childrenEqual(n.Attrs, other.Attrs)
}

// AttrNode is one name/value attribute pair. Values are always literal
// nodes; attributes cannot reference tensors.
type AttrNode struct {
	Name  ASTNode
	Value ASTNode

	src lex.Token
}

func (n AttrNode) Type() NodeType    { return ASTAttr }
func (n AttrNode) Source() lex.Token { return n.src }

func (n AttrNode) String() string {
	const (
		nameStart  = " N: "
		valueStart = " V: "
	)

	s := "[ATTRIBUTE\n"
	s += nameStart + spaceIndentNewlines(childString(n.Name), len(nameStart)) + "\n"
	s += valueStart + spaceIndentNewlines(childString(n.Value), len(valueStart)) + "\n"
	s += "]"
	return s
}

// Does not consider Source.
func (n AttrNode) Equal(o any) bool {
	other, ok := equalTarget[AttrNode](o)
	if !ok {
		return false
	}
	return childEqual(n.Name, other.Name) && childEqual(n.Value, other.Value)
}

// IOTensorNode is a typed tensor declaration: a name, an element type,
// and a shape whose dimensions may be symbolic.
type IOTensorNode struct {
	Name  ASTNode
	Elem  ASTNode
	Shape ASTNode

	src lex.Token
}

func (n IOTensorNode) Type() NodeType    { return ASTIOTensor }
func (n IOTensorNode) Source() lex.Token { return n.src }

func (n IOTensorNode) String() string {
	parts := []struct {
		tag   string
		child ASTNode
	}{
		{" N: ", n.Name},
		{" T: ", n.Elem},
		{" S: ", n.Shape},
	}

	s := "[IO_TENSOR\n"
	for _, p := range parts {
		s += p.tag + spaceIndentNewlines(childString(p.child), len(p.tag)) + "\n"
	}
	s += "]"
	return s
}

// Does not consider Source.
func (n IOTensorNode) Equal(o any) bool {
	other, ok := equalTarget[IOTensorNode](o)
	if !ok {
		return false
	}
	return childEqual(n.Name, other.Name) &&
		childEqual(n.Elem, other.Elem) &&
		childEqual(n.Shape, other.Shape)
}

// InitTensorNode is a constant tensor definition: a name, an element
// type, an integer-only dims array, and a raw-data byte payload.
type InitTensorNode struct {
	Name ASTNode
	Elem ASTNode
	Dims ASTNode
	Raw  ASTNode

	src lex.Token
}

func (n InitTensorNode) Type() NodeType    { return ASTInitTensor }
func (n InitTensorNode) Source() lex.Token { return n.src }

func (n InitTensorNode) String() string {
	parts := []struct {
		tag   string
		child ASTNode
	}{
		{" N: ", n.Name},
		{" T: ", n.Elem},
		{" D: ", n.Dims},
		{" R: ", n.Raw},
	}

	s := "[INIT_TENSOR\n"
	for _, p := range parts {
		s += p.tag + spaceIndentNewlines(childString(p.child), len(p.tag)) + "\n"
	}
	s += "]"
	return s
}

// Does not consider Source.
func (n InitTensorNode) Equal(o any) bool {
	other, ok := equalTarget[InitTensorNode](o)
	if !ok {
		return false
	}
	return childEqual(n.Name, other.Name) &&
		childEqual(n.Elem, other.Elem) &&
		childEqual(n.Dims, other.Dims) &&
		childEqual(n.Raw, other.Raw)
}

// ShapeNode is an ordered sequence of dimension entries.
type ShapeNode struct {
	Dims []ASTNode

	src lex.Token
}

func (n ShapeNode) Type() NodeType    { return ASTShape }
func (n ShapeNode) Source() lex.Token { return n.src }
func (n ShapeNode) String() string    { return listString("SHAPE", n.Dims) }

// Spec renders the shape in the bracketed form used by the IR, with
// symbolic dimensions quoted: [1, "batch"].
func (n ShapeNode) Spec() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i := range n.Dims {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(dimSpec(n.Dims[i]))
	}
	sb.WriteRune(']')
	return sb.String()
}

func dimSpec(n ASTNode) string {
	d, ok := n.(DimNode)
	if !ok {
		return "?"
	}

	switch v := d.Value.(type) {
	case U32LiteralNode:
		return fmt.Sprintf("%d", v.Value)
	case U64LiteralNode:
		return fmt.Sprintf("%d", v.Value)
	case StrLiteralNode:
		return fmt.Sprintf("%q", v.Value)
	default:
		return "?"
	}
}

// Does not consider Source.
func (n ShapeNode) Equal(o any) bool {
	other, ok := equalTarget[ShapeNode](o)
	return ok && childrenEqual(n.Dims, other.Dims)
}

// DimNode is one dimension entry: an integer literal for a concrete
// dimension or a string literal for a symbolic parameter.
type DimNode struct {
	Value ASTNode

	src lex.Token
}

func (n DimNode) Type() NodeType    { return ASTDim }
func (n DimNode) Source() lex.Token { return n.src }

func (n DimNode) String() string {
	const valueStart = " V: "
	return "[DIM\n" + valueStart + spaceIndentNewlines(childString(n.Value), len(valueStart)) + "\n]"
}

// Does not consider Source.
func (n DimNode) Equal(o any) bool {
	other, ok := equalTarget[DimNode](o)
	return ok && childEqual(n.Value, other.Value)
}

// DimsArrayNode is the integer-only dimension list of an initializer.
type DimsArrayNode struct {
	Dims []ASTNode

	src lex.Token
}

func (n DimsArrayNode) Type() NodeType    { return ASTDimsArray }
func (n DimsArrayNode) Source() lex.Token { return n.src }
func (n DimsArrayNode) String() string    { return listString("DIMS", n.Dims) }

// Spec renders the dims in the bracketed form used by the IR: [3, 3].
func (n DimsArrayNode) Spec() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i := range n.Dims {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch v := n.Dims[i].(type) {
		case U32LiteralNode:
			fmt.Fprintf(&sb, "%d", v.Value)
		case U64LiteralNode:
			fmt.Fprintf(&sb, "%d", v.Value)
		default:
			sb.WriteRune('?')
		}
	}
	sb.WriteRune(']')
	return sb.String()
}

// Does not consider Source.
func (n DimsArrayNode) Equal(o any) bool {
	other, ok := equalTarget[DimsArrayNode](o)
	return ok && childrenEqual(n.Dims, other.Dims)
}

// OpsetNode is the operator-set import of a model: a domain and a
// version number.
type OpsetNode struct {
	Domain  ASTNode
	Version ASTNode

	src lex.Token
}

func (n OpsetNode) Type() NodeType    { return ASTOpset }
func (n OpsetNode) Source() lex.Token { return n.src }

func (n OpsetNode) String() string {
	const (
		domainStart  = " D: "
		versionStart = " V: "
	)

	s := "[OPSET\n"
	s += domainStart + spaceIndentNewlines(childString(n.Domain), len(domainStart)) + "\n"
	s += versionStart + spaceIndentNewlines(childString(n.Version), len(versionStart)) + "\n"
	s += "]"
	return s
}

// Does not consider Source.
func (n OpsetNode) Equal(o any) bool {
	other, ok := equalTarget[OpsetNode](o)
	if !ok {
		return false
	}
	return childEqual(n.Domain, other.Domain) && childEqual(n.Version, other.Version)
}

// StringValue extracts the value of a string-literal node. ok is false
// for any other variant, including ErrorNode.
func StringValue(n ASTNode) (string, bool) {
	s, ok := n.(StrLiteralNode)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// TypeValue extracts the element type of a type-literal node, or
// TypeUndefined for any other variant.
func TypeValue(n ASTNode) ElemType {
	t, ok := n.(TypeLiteralNode)
	if !ok {
		return TypeUndefined
	}
	return t.Value
}
