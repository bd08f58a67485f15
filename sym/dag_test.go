package sym

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

// buildLinear constructs x -> n1 -> t1 -> n2 -> y with x as model
// input and y as model output.
func buildLinear() *Table {
	st := NewTable()

	st.InsertTensor("x", syntax.TypeFloat, nil)
	st.Tensor("x").IsModelInput = true
	st.InsertTensor("t1", syntax.TypeFloat, nil)
	st.InsertTensor("y", syntax.TypeFloat, nil)
	st.Tensor("y").IsModelOutput = true

	st.InsertNode("n1", "Relu", nil)
	st.InsertNode("n2", "Sigmoid", nil)

	st.AddInput(st.Node("n1"), st.Tensor("x"))
	st.AddOutput(st.Node("n1"), st.Tensor("t1"))
	st.AddInput(st.Node("n2"), st.Tensor("t1"))
	st.AddOutput(st.Node("n2"), st.Tensor("y"))

	return st
}

func Test_Table_namespacesAreDisjoint(t *testing.T) {
	assert := assert.New(t)

	st := NewTable()

	assert.True(st.InsertNode("a", "Relu", nil))
	assert.False(st.InsertTensor("a", syntax.TypeFloat, nil))
	assert.True(st.InsertTensor("b", syntax.TypeFloat, nil))
	assert.False(st.InsertNode("b", "Relu", nil))

	assert.Nil(st.Tensor("a"))
	assert.NotNil(st.Node("a"))
	assert.Nil(st.Node("b"))
	assert.NotNil(st.Tensor("b"))
}

func Test_TopoSort_linear(t *testing.T) {
	assert := assert.New(t)

	st := buildLinear()
	st.BuildDAG()
	st.TopoSort()

	assert.False(st.HasCycle)
	if assert.Len(st.Order, 2) {
		assert.Equal("n1", st.Order[0].Name)
		assert.Equal("n2", st.Order[1].Name)
	}
}

func Test_TopoSort_producersPrecedeConsumers(t *testing.T) {
	assert := assert.New(t)

	// diamond: src feeds both left and right, both feed join
	st := NewTable()
	st.InsertTensor("x", syntax.TypeFloat, nil)
	st.Tensor("x").IsModelInput = true
	for _, name := range []string{"a", "b", "c", "y"} {
		st.InsertTensor(name, syntax.TypeFloat, nil)
	}
	st.Tensor("y").IsModelOutput = true

	st.InsertNode("join", "Add", nil)
	st.InsertNode("src", "Relu", nil)
	st.InsertNode("left", "Exp", nil)
	st.InsertNode("right", "Log", nil)

	st.AddInput(st.Node("src"), st.Tensor("x"))
	st.AddOutput(st.Node("src"), st.Tensor("a"))
	st.AddInput(st.Node("left"), st.Tensor("a"))
	st.AddOutput(st.Node("left"), st.Tensor("b"))
	st.AddInput(st.Node("right"), st.Tensor("a"))
	st.AddOutput(st.Node("right"), st.Tensor("c"))
	st.AddInput(st.Node("join"), st.Tensor("b"))
	st.AddInput(st.Node("join"), st.Tensor("c"))
	st.AddOutput(st.Node("join"), st.Tensor("y"))

	st.BuildDAG()
	st.TopoSort()

	assert.False(st.HasCycle)
	assert.Len(st.Order, 4)

	pos := map[string]int{}
	for i, ns := range st.Order {
		pos[ns.Name] = i
	}
	assert.Less(pos["src"], pos["left"])
	assert.Less(pos["src"], pos["right"])
	assert.Less(pos["left"], pos["join"])
	assert.Less(pos["right"], pos["join"])
}

func Test_TopoSort_cycle(t *testing.T) {
	assert := assert.New(t)

	st := NewTable()
	st.InsertTensor("a", syntax.TypeFloat, nil)
	st.InsertTensor("b", syntax.TypeFloat, nil)
	st.Tensor("a").IsModelOutput = true

	st.InsertNode("A", "f", nil)
	st.InsertNode("B", "g", nil)

	st.AddInput(st.Node("A"), st.Tensor("b"))
	st.AddOutput(st.Node("A"), st.Tensor("a"))
	st.AddInput(st.Node("B"), st.Tensor("a"))
	st.AddOutput(st.Node("B"), st.Tensor("b"))

	st.BuildDAG()
	st.TopoSort()

	assert.True(st.HasCycle)
	assert.Empty(st.Order)
}

func Test_DetectConstantFolding(t *testing.T) {
	assert := assert.New(t)

	st := NewTable()
	st.InsertTensor("w1", syntax.TypeFloat, nil)
	st.Tensor("w1").IsInitializer = true
	st.InsertTensor("w2", syntax.TypeFloat, nil)
	st.Tensor("w2").IsInitializer = true
	st.InsertTensor("x", syntax.TypeFloat, nil)
	st.Tensor("x").IsModelInput = true
	st.InsertTensor("t", syntax.TypeFloat, nil)
	st.InsertTensor("y", syntax.TypeFloat, nil)
	st.Tensor("y").IsModelOutput = true

	st.InsertNode("constAdd", "Add", nil)
	st.InsertNode("mixed", "Mul", nil)

	st.AddInput(st.Node("constAdd"), st.Tensor("w1"))
	st.AddInput(st.Node("constAdd"), st.Tensor("w2"))
	st.AddOutput(st.Node("constAdd"), st.Tensor("t"))
	st.AddInput(st.Node("mixed"), st.Tensor("t"))
	st.AddInput(st.Node("mixed"), st.Tensor("x"))
	st.AddOutput(st.Node("mixed"), st.Tensor("y"))

	st.BuildDAG()
	st.TopoSort()
	st.DetectConstantFolding()

	assert.True(st.Node("constAdd").FoldCandidate)
	assert.False(st.Node("mixed").FoldCandidate)
}

func Test_DetectDeadCode(t *testing.T) {
	assert := assert.New(t)

	st := buildLinear()

	// orphan branch reading x but feeding nothing
	st.InsertTensor("junk", syntax.TypeFloat, nil)
	st.InsertNode("orphan", "Exp", nil)
	st.AddInput(st.Node("orphan"), st.Tensor("x"))
	st.AddOutput(st.Node("orphan"), st.Tensor("junk"))

	st.BuildDAG()
	st.TopoSort()
	st.DetectDeadCode()

	assert.False(st.Node("n1").Dead)
	assert.False(st.Node("n2").Dead)
	assert.True(st.Node("orphan").Dead)
	assert.True(st.Tensor("junk").Dead)
	assert.False(st.Tensor("x").Dead)
	assert.False(st.Tensor("y").Dead)
}

func Test_DetectCommonSubexpr(t *testing.T) {
	assert := assert.New(t)

	st := buildLinear()

	// twin of n1: same op type over the same input
	st.InsertTensor("t2", syntax.TypeFloat, nil)
	st.InsertNode("n1twin", "Relu", nil)
	st.AddInput(st.Node("n1twin"), st.Tensor("x"))
	st.AddOutput(st.Node("n1twin"), st.Tensor("t2"))

	st.BuildDAG()
	st.TopoSort()
	st.DetectCommonSubexpr()

	assert.True(st.Node("n1").CSECandidate)
	assert.True(st.Node("n1twin").CSECandidate)
	assert.False(st.Node("n2").CSECandidate)
	assert.Equal(st.Node("n1").CSESignature, st.Node("n1twin").CSESignature)
	assert.Len(st.CSEGroups, 1)
}
