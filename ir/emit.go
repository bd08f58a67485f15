// Package ir linearizes a validated, topologically ordered symbol table
// into the three-address text IR, and provides a binary encoding of the
// result for compiled artifacts.
package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/Trichiurus-lepturus/sonnx/sym"
)

// Program is the linearized form of a compiled model. Statements appear
// in emission order: inputs, initializers, ops in topological order,
// then model outputs.
type Program struct {
	Inputs       []InputStmt
	Initializers []InitStmt
	Ops          []OpStmt
	Outputs      []OutputStmt
}

// InputStmt declares a model input tensor.
type InputStmt struct {
	TVar  string
	Name  string
	Type  string
	Shape string
}

// InitStmt declares a constant initializer tensor.
type InitStmt struct {
	TVar   string
	Name   string
	Type   string
	Shape  string
	RawHex string
}

// OpStmt is one three-address computation: a single synthetic target
// assigned from one operator application.
type OpStmt struct {
	TVar     string
	OpType   string
	Operands []string
	Attrs    string
}

// OutputStmt binds a model output name to the synthetic tensor that
// carries its value.
type OutputStmt struct {
	Name string
	TVar string
}

// emitter assigns each tensor, on first emission, a short synthetic
// name T1, T2, ... and remembers the mapping.
type emitter struct {
	counter int
	names   map[string]string
}

func (e *emitter) tvar(name string) string {
	if tv, ok := e.names[name]; ok {
		return tv
	}

	e.counter++
	tv := fmt.Sprintf("T%d", e.counter)
	e.names[name] = tv
	return tv
}

// Build linearizes the table into a Program. The table must have been
// fully analyzed: symbols linked, no semantic errors, and a cycle-free
// topological order computed.
func Build(st *sym.Table) (Program, error) {
	if st.HasCycle {
		return Program{}, fmt.Errorf("cannot emit: computation graph has a cycle")
	}

	e := &emitter{names: make(map[string]string)}
	var p Program

	// model inputs first; tensors that are also initializers appear
	// below as Initializer statements instead, exactly once
	for _, ts := range st.Tensors() {
		if !ts.IsModelInput || ts.IsInitializer {
			continue
		}
		p.Inputs = append(p.Inputs, InputStmt{
			TVar:  e.tvar(ts.Name),
			Name:  ts.Name,
			Type:  ts.Elem.String(),
			Shape: shapeOrEmpty(ts.Shape),
		})
	}

	for _, ts := range st.Tensors() {
		if !ts.IsInitializer {
			continue
		}
		p.Initializers = append(p.Initializers, InitStmt{
			TVar:   e.tvar(ts.Name),
			Name:   ts.Name,
			Type:   ts.Elem.String(),
			Shape:  shapeOrEmpty(ts.Shape),
			RawHex: ts.RawHex,
		})
	}

	for _, ns := range st.Order {
		operands := make([]string, len(ns.Inputs))
		for i, in := range ns.Inputs {
			operands[i] = e.tvar(in.Name)
		}

		for _, out := range ns.Outputs {
			p.Ops = append(p.Ops, OpStmt{
				TVar:     e.tvar(out.Name),
				OpType:   ns.OpType,
				Operands: operands,
				Attrs:    ns.AttrSig,
			})
		}
	}

	for _, ts := range st.Tensors() {
		if !ts.IsModelOutput {
			continue
		}
		p.Outputs = append(p.Outputs, OutputStmt{
			Name: ts.Name,
			TVar: e.tvar(ts.Name),
		})
	}

	return p, nil
}

func shapeOrEmpty(s string) string {
	if s == "" {
		return "[]"
	}
	return s
}

// Text renders the program as the line-oriented IR, one LF-terminated
// statement per line.
func (p Program) Text() string {
	var sb strings.Builder

	for _, in := range p.Inputs {
		fmt.Fprintf(&sb, "%s = Input(%q, %s, %s)\n", in.TVar, in.Name, in.Type, in.Shape)
	}
	for _, init := range p.Initializers {
		fmt.Fprintf(&sb, "%s = Initializer(%q, %s, %s, raw_data=0x%s)\n",
			init.TVar, init.Name, init.Type, init.Shape, init.RawHex)
	}
	for _, op := range p.Ops {
		args := strings.Join(op.Operands, ", ")
		if op.Attrs != "" {
			if args != "" {
				args += ", "
			}
			args += op.Attrs
		}
		fmt.Fprintf(&sb, "%s = %s(%s)\n", op.TVar, op.OpType, args)
	}
	for _, out := range p.Outputs {
		fmt.Fprintf(&sb, "Output(%q, %s)\n", out.Name, out.TVar)
	}

	return sb.String()
}

// Emit builds the program for st and writes its text form to w.
func Emit(st *sym.Table, w io.Writer) error {
	p, err := Build(st)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, p.Text()); err != nil {
		return fmt.Errorf("could not write IR: %w", err)
	}
	return nil
}
