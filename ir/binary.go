package ir

// Binary encoding of compiled programs, for writing IR artifacts to
// disk without reparsing. The format is a rezi stream: a magic string,
// a format version int, then each statement section preceded by its
// count.

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

const (
	binMagic   = "SIR"
	binVersion = 1
)

// MarshalBinary converts p into a rezi-encoded byte slice.
func (p Program) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncString(binMagic)...)
	enc = append(enc, rezi.EncInt(binVersion)...)

	enc = append(enc, rezi.EncInt(len(p.Inputs))...)
	for _, in := range p.Inputs {
		enc = append(enc, rezi.EncString(in.TVar)...)
		enc = append(enc, rezi.EncString(in.Name)...)
		enc = append(enc, rezi.EncString(in.Type)...)
		enc = append(enc, rezi.EncString(in.Shape)...)
	}

	enc = append(enc, rezi.EncInt(len(p.Initializers))...)
	for _, init := range p.Initializers {
		enc = append(enc, rezi.EncString(init.TVar)...)
		enc = append(enc, rezi.EncString(init.Name)...)
		enc = append(enc, rezi.EncString(init.Type)...)
		enc = append(enc, rezi.EncString(init.Shape)...)
		enc = append(enc, rezi.EncString(init.RawHex)...)
	}

	enc = append(enc, rezi.EncInt(len(p.Ops))...)
	for _, op := range p.Ops {
		enc = append(enc, rezi.EncString(op.TVar)...)
		enc = append(enc, rezi.EncString(op.OpType)...)
		enc = append(enc, rezi.EncInt(len(op.Operands))...)
		for _, operand := range op.Operands {
			enc = append(enc, rezi.EncString(operand)...)
		}
		enc = append(enc, rezi.EncString(op.Attrs)...)
	}

	enc = append(enc, rezi.EncInt(len(p.Outputs))...)
	for _, out := range p.Outputs {
		enc = append(enc, rezi.EncString(out.Name)...)
		enc = append(enc, rezi.EncString(out.TVar)...)
	}

	return enc, nil
}

// UnmarshalBinary decodes a rezi-encoded program produced by
// MarshalBinary, replacing p's contents.
func (p *Program) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	dec := func(dest *string) bool {
		if err != nil {
			return false
		}
		var s string
		s, n, err = rezi.DecString(data)
		if err != nil {
			return false
		}
		data = data[n:]
		*dest = s
		return true
	}
	decInt := func(dest *int) bool {
		if err != nil {
			return false
		}
		var i int
		i, n, err = rezi.DecInt(data)
		if err != nil {
			return false
		}
		data = data[n:]
		*dest = i
		return true
	}

	var magic string
	if !dec(&magic) {
		return fmt.Errorf("decoding magic: %w", err)
	}
	if magic != binMagic {
		return fmt.Errorf("not a compiled S-ONNX program")
	}

	var version int
	if !decInt(&version) {
		return fmt.Errorf("decoding format version: %w", err)
	}
	if version != binVersion {
		return fmt.Errorf("unsupported program format version: %d", version)
	}

	*p = Program{}

	var count int
	if !decInt(&count) {
		return fmt.Errorf("decoding input count: %w", err)
	}
	for i := 0; i < count; i++ {
		var in InputStmt
		if !dec(&in.TVar) || !dec(&in.Name) || !dec(&in.Type) || !dec(&in.Shape) {
			return fmt.Errorf("decoding input %d: %w", i, err)
		}
		p.Inputs = append(p.Inputs, in)
	}

	if !decInt(&count) {
		return fmt.Errorf("decoding initializer count: %w", err)
	}
	for i := 0; i < count; i++ {
		var init InitStmt
		if !dec(&init.TVar) || !dec(&init.Name) || !dec(&init.Type) || !dec(&init.Shape) || !dec(&init.RawHex) {
			return fmt.Errorf("decoding initializer %d: %w", i, err)
		}
		p.Initializers = append(p.Initializers, init)
	}

	if !decInt(&count) {
		return fmt.Errorf("decoding op count: %w", err)
	}
	for i := 0; i < count; i++ {
		var op OpStmt
		if !dec(&op.TVar) || !dec(&op.OpType) {
			return fmt.Errorf("decoding op %d: %w", i, err)
		}
		var operandCount int
		if !decInt(&operandCount) {
			return fmt.Errorf("decoding op %d operand count: %w", i, err)
		}
		for j := 0; j < operandCount; j++ {
			var operand string
			if !dec(&operand) {
				return fmt.Errorf("decoding op %d operand %d: %w", i, j, err)
			}
			op.Operands = append(op.Operands, operand)
		}
		if !dec(&op.Attrs) {
			return fmt.Errorf("decoding op %d attrs: %w", i, err)
		}
		p.Ops = append(p.Ops, op)
	}

	if !decInt(&count) {
		return fmt.Errorf("decoding output count: %w", err)
	}
	for i := 0; i < count; i++ {
		var out OutputStmt
		if !dec(&out.Name) || !dec(&out.TVar) {
			return fmt.Errorf("decoding output %d: %w", i, err)
		}
		p.Outputs = append(p.Outputs, out)
	}

	return nil
}
