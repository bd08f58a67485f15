// Package sym provides the symbol table produced by semantic analysis
// of an S-ONNX model: operator-node symbols, tensor symbols, and the
// computed data-flow DAG over them.
//
// Node and tensor names occupy disjoint namespaces backed by a single
// shared map, so no name can ever refer to both roles. Symbols hold
// non-owning pointers to each other; the table outlives all of its
// entries and tears them down together.
package sym

import (
	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

// Symbol is an entry of the table: either a *NodeSymbol or a
// *TensorSymbol.
type Symbol interface {
	// SymName returns the name the symbol is keyed under.
	SymName() string

	// Decl returns the AST node the symbol was created from, for use in
	// diagnostics. A placeholder tensor carries the AST node of the
	// operator that produces it. May be nil on tables built without an
	// AST.
	Decl() syntax.ASTNode
}

// NodeSymbol is the symbol-table entry for one operator node.
type NodeSymbol struct {
	Name   string
	OpType string

	// Inputs and Outputs are the linked tensor symbols, in specifier
	// order. They are populated by Table.AddInput/AddOutput during the
	// second semantic pass.
	Inputs  []*TensorSymbol
	Outputs []*TensorSymbol

	// PendingInputs and PendingOutputs hold the referenced tensor names
	// recorded by the declaration pass, before linking resolves them.
	PendingInputs  []string
	PendingOutputs []string

	// AttrSig is the rendered attribute signature of the node, empty
	// when the node has no attributes.
	AttrSig string

	// Analysis marks. The graph analyzer only ever sets these; it never
	// rewrites the graph.
	FoldCandidate bool
	Dead          bool
	CSECandidate  bool
	CSESignature  string

	decl syntax.ASTNode
}

func (n *NodeSymbol) SymName() string      { return n.Name }
func (n *NodeSymbol) Decl() syntax.ASTNode { return n.decl }

// TensorSymbol is the symbol-table entry for one tensor. A tensor with
// element type TypeUndefined is a placeholder created from a forward
// reference; analysis reports an error for any tensor still of that
// type at the end that has no producer.
type TensorSymbol struct {
	Name string
	Elem syntax.ElemType

	// Producer is the unique node whose output specifier defines this
	// tensor, or nil for model inputs and initializers.
	Producer *NodeSymbol

	// Users are the nodes that read this tensor, in linking order.
	Users []*NodeSymbol

	// Role flags. They are monotonic: once set they are never cleared.
	IsInitializer bool
	IsModelInput  bool
	IsModelOutput bool

	// Shape is the rendered shape of the tensor's declaration, and
	// RawHex the lowercase hex of an initializer's payload.
	Shape  string
	RawHex string

	Dead bool

	decl syntax.ASTNode
}

func (t *TensorSymbol) SymName() string      { return t.Name }
func (t *TensorSymbol) Decl() syntax.ASTNode { return t.decl }

// Table is the name-indexed store of node and tensor symbols plus the
// DAG computed over them.
type Table struct {
	symbols map[string]Symbol

	nodeOrder   []*NodeSymbol
	tensorOrder []*TensorSymbol

	// Forward holds producer→consumer adjacency, Reverse its mirror.
	Forward map[*NodeSymbol][]*NodeSymbol
	Reverse map[*NodeSymbol][]*NodeSymbol

	// Order is the topological order of node symbols. It is empty when
	// HasCycle is true.
	Order    []*NodeSymbol
	HasCycle bool

	// CSEGroups maps operation signatures shared by more than one node
	// to the nodes carrying them.
	CSEGroups map[string][]*NodeSymbol
}

// NewTable returns an empty symbol table ready for use.
func NewTable() *Table {
	return &Table{
		symbols: make(map[string]Symbol),
	}
}

// InsertNode creates a node symbol. It returns false without modifying
// the table if the name is already present in either namespace.
func (st *Table) InsertNode(name, opType string, decl syntax.ASTNode) bool {
	if _, ok := st.symbols[name]; ok {
		return false
	}

	n := &NodeSymbol{Name: name, OpType: opType, decl: decl}
	st.symbols[name] = n
	st.nodeOrder = append(st.nodeOrder, n)
	return true
}

// InsertTensor creates a tensor symbol. It returns false without
// modifying the table if the name is already present in either
// namespace.
func (st *Table) InsertTensor(name string, elem syntax.ElemType, decl syntax.ASTNode) bool {
	if _, ok := st.symbols[name]; ok {
		return false
	}

	t := &TensorSymbol{Name: name, Elem: elem, decl: decl}
	st.symbols[name] = t
	st.tensorOrder = append(st.tensorOrder, t)
	return true
}

// Node returns the node symbol with the given name, or nil if the name
// is unbound or bound to a tensor.
func (st *Table) Node(name string) *NodeSymbol {
	n, _ := st.symbols[name].(*NodeSymbol)
	return n
}

// Tensor returns the tensor symbol with the given name, or nil if the
// name is unbound or bound to a node.
func (st *Table) Tensor(name string) *TensorSymbol {
	t, _ := st.symbols[name].(*TensorSymbol)
	return t
}

// Nodes returns all node symbols in insertion order. The returned slice
// is shared; callers must not modify it.
func (st *Table) Nodes() []*NodeSymbol { return st.nodeOrder }

// Tensors returns all tensor symbols in insertion order. The returned
// slice is shared; callers must not modify it.
func (st *Table) Tensors() []*TensorSymbol { return st.tensorOrder }

// AddInput links tensor as the next input of node and records node as a
// user of tensor. Both symbols must already be in the table.
func (st *Table) AddInput(node *NodeSymbol, tensor *TensorSymbol) {
	node.Inputs = append(node.Inputs, tensor)
	tensor.Users = append(tensor.Users, node)
}

// AddOutput links tensor as the next output of node and sets node as
// its producer. The caller has already checked that the tensor has no
// producer.
func (st *Table) AddOutput(node *NodeSymbol, tensor *TensorSymbol) {
	node.Outputs = append(node.Outputs, tensor)
	tensor.Producer = node
}
