package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Trichiurus-lepturus/sonnx/sym"
	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

func buildReluPipeline() *sym.Table {
	st := sym.NewTable()

	st.InsertTensor("x", syntax.TypeFloat, nil)
	st.Tensor("x").IsModelInput = true
	st.Tensor("x").Shape = "[1, 3]"
	st.InsertTensor("y", syntax.TypeFloat, nil)
	st.Tensor("y").IsModelOutput = true

	st.InsertNode("relu1", "Relu", nil)
	st.AddInput(st.Node("relu1"), st.Tensor("x"))
	st.AddOutput(st.Node("relu1"), st.Tensor("y"))

	st.BuildDAG()
	st.TopoSort()
	return st
}

func Test_Emit_minimalLinearPipeline(t *testing.T) {
	assert := assert.New(t)

	st := buildReluPipeline()

	p, err := Build(st)
	if !assert.NoError(err) {
		return
	}

	expect := "T1 = Input(\"x\", FLOAT, [1, 3])\n" +
		"T2 = Relu(T1)\n" +
		"Output(\"y\", T2)\n"
	assert.Equal(expect, p.Text())
}

func Test_Emit_initializerPath(t *testing.T) {
	assert := assert.New(t)

	st := sym.NewTable()

	st.InsertTensor("w", syntax.TypeFloat, nil)
	st.Tensor("w").IsInitializer = true
	st.Tensor("w").Shape = "[3, 3]"
	st.Tensor("w").RawHex = "deadbeef"
	st.InsertTensor("x", syntax.TypeFloat, nil)
	st.Tensor("x").IsModelInput = true
	st.Tensor("x").Shape = "[3]"
	st.InsertTensor("y", syntax.TypeFloat, nil)
	st.Tensor("y").IsModelOutput = true

	st.InsertNode("mm1", "MatMul", nil)
	st.AddInput(st.Node("mm1"), st.Tensor("x"))
	st.AddInput(st.Node("mm1"), st.Tensor("w"))
	st.AddOutput(st.Node("mm1"), st.Tensor("y"))

	st.BuildDAG()
	st.TopoSort()
	st.DetectConstantFolding()

	p, err := Build(st)
	if !assert.NoError(err) {
		return
	}

	expect := "T1 = Input(\"x\", FLOAT, [3])\n" +
		"T2 = Initializer(\"w\", FLOAT, [3, 3], raw_data=0xdeadbeef)\n" +
		"T3 = MatMul(T1, T2)\n" +
		"Output(\"y\", T3)\n"
	assert.Equal(expect, p.Text())

	// a lone constant input is not enough for folding
	assert.False(st.Node("mm1").FoldCandidate)
}

func Test_Emit_dualRoleTensorAppearsOnceAsInitializer(t *testing.T) {
	assert := assert.New(t)

	st := sym.NewTable()

	st.InsertTensor("w", syntax.TypeFloat, nil)
	st.Tensor("w").IsInitializer = true
	st.Tensor("w").IsModelInput = true
	st.Tensor("w").Shape = "[2]"
	st.Tensor("w").RawHex = "0102"
	st.InsertTensor("y", syntax.TypeFloat, nil)
	st.Tensor("y").IsModelOutput = true

	st.InsertNode("id1", "Identity", nil)
	st.AddInput(st.Node("id1"), st.Tensor("w"))
	st.AddOutput(st.Node("id1"), st.Tensor("y"))

	st.BuildDAG()
	st.TopoSort()

	p, err := Build(st)
	if !assert.NoError(err) {
		return
	}

	assert.Empty(p.Inputs)
	if assert.Len(p.Initializers, 1) {
		assert.Equal("w", p.Initializers[0].Name)
	}

	expect := "T1 = Initializer(\"w\", FLOAT, [2], raw_data=0x0102)\n" +
		"T2 = Identity(T1)\n" +
		"Output(\"y\", T2)\n"
	assert.Equal(expect, p.Text())
}

func Test_Emit_attributesAndNoTrailingComma(t *testing.T) {
	assert := assert.New(t)

	st := buildReluPipeline()
	st.Node("relu1").AttrSig = `alpha=1, mode="fast"`

	p, err := Build(st)
	if !assert.NoError(err) {
		return
	}

	expect := "T1 = Input(\"x\", FLOAT, [1, 3])\n" +
		"T2 = Relu(T1, alpha=1, mode=\"fast\")\n" +
		"Output(\"y\", T2)\n"
	assert.Equal(expect, p.Text())
}

func Test_Emit_isIdempotent(t *testing.T) {
	assert := assert.New(t)

	st := buildReluPipeline()

	p1, err := Build(st)
	if !assert.NoError(err) {
		return
	}
	p2, err := Build(st)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(p1.Text(), p2.Text())
}

func Test_Emit_refusesCyclicTable(t *testing.T) {
	assert := assert.New(t)

	st := buildReluPipeline()
	st.HasCycle = true
	st.Order = nil

	_, err := Build(st)
	assert.Error(err)
}

func Test_Program_binaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	st := buildReluPipeline()
	st.Node("relu1").AttrSig = "alpha=1"

	p, err := Build(st)
	if !assert.NoError(err) {
		return
	}

	data, err := p.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Program
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}

	assert.Equal(p, decoded)
	assert.Equal(p.Text(), decoded.Text())
}

func Test_Program_rejectsForeignData(t *testing.T) {
	assert := assert.New(t)

	var decoded Program
	assert.Error(decoded.UnmarshalBinary([]byte{0x00, 0x01, 0x02}))
}
