package sem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Trichiurus-lepturus/sonnx/syntax"
)

func mkModel(graph syntax.GraphNode) syntax.AST {
	return syntax.AST{Root: syntax.ModelNode{
		IRVersion:       syntax.U32LiteralNode{Value: 7},
		ProducerName:    syntax.StrLiteralNode{Value: "sonnx-test"},
		ProducerVersion: syntax.StrLiteralNode{Value: "0.1"},
		Domain:          syntax.StrLiteralNode{Value: "ai.test"},
		ModelVersion:    syntax.U32LiteralNode{Value: 1},
		DocString:       syntax.StrLiteralNode{Value: ""},
		Graph:           graph,
		Opset: syntax.OpsetNode{
			Domain:  syntax.StrLiteralNode{Value: ""},
			Version: syntax.U32LiteralNode{Value: 13},
		},
	}}
}

func mkGraph(nodes, ins, outs, inits []syntax.ASTNode) syntax.GraphNode {
	g := syntax.GraphNode{
		Name:    syntax.StrLiteralNode{Value: "net"},
		Nodes:   syntax.NodeListNode{Nodes: nodes},
		Inputs:  syntax.InputListNode{Tensors: ins},
		Outputs: syntax.OutputListNode{Tensors: outs},
	}
	if inits != nil {
		g.Initializers = syntax.InitializerListNode{Tensors: inits}
	}
	return g
}

func mkIO(name string, et syntax.ElemType, dims ...interface{}) syntax.ASTNode {
	shape := syntax.ShapeNode{}
	for _, d := range dims {
		switch v := d.(type) {
		case int:
			shape.Dims = append(shape.Dims, syntax.DimNode{Value: syntax.U32LiteralNode{Value: uint32(v)}})
		case string:
			shape.Dims = append(shape.Dims, syntax.DimNode{Value: syntax.StrLiteralNode{Value: v}})
		}
	}

	return syntax.IOTensorNode{
		Name:  syntax.StrLiteralNode{Value: name},
		Elem:  syntax.TypeLiteralNode{Value: et},
		Shape: shape,
	}
}

func mkInit(name string, et syntax.ElemType, dims []int, raw []byte) syntax.ASTNode {
	dimsArr := syntax.DimsArrayNode{}
	for _, d := range dims {
		dimsArr.Dims = append(dimsArr.Dims, syntax.U32LiteralNode{Value: uint32(d)})
	}

	return syntax.InitTensorNode{
		Name: syntax.StrLiteralNode{Value: name},
		Elem: syntax.TypeLiteralNode{Value: et},
		Dims: dimsArr,
		Raw:  syntax.BytesLiteralNode{Value: raw},
	}
}

func mkNode(opType, name string, ins, outs []string) syntax.ASTNode {
	inElems := make([]syntax.ASTNode, len(ins))
	for i, in := range ins {
		inElems[i] = syntax.StrLiteralNode{Value: in}
	}
	outElems := make([]syntax.ASTNode, len(outs))
	for i, out := range outs {
		outElems[i] = syntax.StrLiteralNode{Value: out}
	}

	return syntax.OpNode{
		OpType:  syntax.StrLiteralNode{Value: opType},
		Name:    syntax.StrLiteralNode{Value: name},
		Inputs:  syntax.InputArrNode{Elements: inElems},
		Outputs: syntax.OutputArrNode{Elements: outElems},
	}
}

func errStrings(errs []error) []string {
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func Test_Analyze_minimalLinearPipeline(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Relu", "relu1", []string{"x"}, []string{"y"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 1, 3)},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 1, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(errStrings(a.Errors()))

	st := a.Table()

	x := st.Tensor("x")
	if assert.NotNil(x) {
		assert.True(x.IsModelInput)
		assert.Nil(x.Producer)
		assert.Equal("[1, 3]", x.Shape)
		assert.Len(x.Users, 1)
	}

	y := st.Tensor("y")
	if assert.NotNil(y) {
		assert.True(y.IsModelOutput)
		assert.NotNil(y.Producer)
		assert.Equal("relu1", y.Producer.Name)
		assert.Equal(syntax.TypeFloat, y.Elem)
	}

	relu := st.Node("relu1")
	if assert.NotNil(relu) {
		assert.Len(relu.Inputs, 1)
		assert.Len(relu.Outputs, 1)
	}
}

func Test_Analyze_placeholderInheritsInferredType(t *testing.T) {
	assert := assert.New(t)

	// y is only ever mentioned as relu1's output and as a use in
	// sink1's input; its type must come from inference
	ast := mkModel(mkGraph(
		[]syntax.ASTNode{
			mkNode("Relu", "relu1", []string{"x"}, []string{"y"}),
			mkNode("Identity", "sink1", []string{"y"}, []string{"z"}),
		},
		[]syntax.ASTNode{mkIO("x", syntax.TypeInt, 2)},
		[]syntax.ASTNode{mkIO("z", syntax.TypeInt, 2)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(errStrings(a.Errors()))

	y := a.Table().Tensor("y")
	if assert.NotNil(y) {
		assert.Equal(syntax.TypeInt, y.Elem)
	}
}

func Test_Analyze_duplicateInitializer(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("MatMul", "mm1", []string{"x", "w"}, []string{"y"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{
			mkInit("w", syntax.TypeFloat, []int{3, 3}, []byte{0xde, 0xad}),
			mkInit("w", syntax.TypeFloat, []int{3, 3}, []byte{0xbe, 0xef}),
		},
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Duplicate initializer: 'w'")
}

func Test_Analyze_duplicateNode(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{
			mkNode("Relu", "n1", []string{"x"}, []string{"y"}),
			mkNode("Relu", "n1", []string{"x"}, []string{"z"}),
		},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Duplicate node: 'n1'")
}

func Test_Analyze_undefinedReference(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Relu", "relu1", []string{"ghost"}, []string{"y"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Node 'relu1' references undefined input: ghost")
}

func Test_Analyze_producerConflict(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{
			mkNode("Relu", "n1", []string{"x"}, []string{"y"}),
			mkNode("Sigmoid", "n2", []string{"x"}, []string{"y"}),
		},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Output tensor 'y' conflict: already produced by node 'n1'")
}

func Test_Analyze_typeMismatch(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Add", "add1", []string{"a", "b"}, []string{"c"})},
		[]syntax.ASTNode{
			mkIO("a", syntax.TypeInt, 3),
			mkIO("b", syntax.TypeFloat, 3),
		},
		[]syntax.ASTNode{mkIO("c", syntax.TypeInt, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()),
		"Type mismatch in node 'add1' (op_type: 'Add'): input tensor 'b' has type FLOAT, expected INT")
}

func Test_Analyze_initializerShadowingInputIsLegal(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("MatMul", "mm1", []string{"x", "w"}, []string{"y"})},
		[]syntax.ASTNode{
			mkIO("x", syntax.TypeFloat, 3),
			mkIO("w", syntax.TypeFloat, 3, 3),
		},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkInit("w", syntax.TypeFloat, []int{3, 3}, []byte{0xde, 0xad, 0xbe, 0xef})},
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(errStrings(a.Errors()))

	w := a.Table().Tensor("w")
	if assert.NotNil(w) {
		assert.True(w.IsInitializer)
		assert.True(w.IsModelInput)
		assert.Nil(w.Producer)
		assert.Equal("deadbeef", w.RawHex)
	}
}

func Test_Analyze_passThroughOutputDisallowed(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Relu", "relu1", []string{"x"}, []string{"y"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{
			mkIO("y", syntax.TypeFloat, 3),
			mkIO("x", syntax.TypeFloat, 3),
		},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Model output 'x' may not also be a model input")
}

func Test_Analyze_nodeOutputConflictsWithInitializer(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Relu", "relu1", []string{"x"}, []string{"w"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("w", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkInit("w", syntax.TypeFloat, []int{3}, []byte{0x01})},
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	found := false
	for _, msg := range errStrings(a.Errors()) {
		if msg == "Model output 'w' may not also be an initializer" ||
			msg == "Node 'relu1' output 'w' conflicts with initializer definition" {
			found = true
		}
	}
	assert.True(found, "expected a dual-role violation for 'w', got: %v", errStrings(a.Errors()))
}

func Test_Analyze_emptyInputSkippedEmptyOutputError(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Pad", "pad1", []string{"x", ""}, []string{""})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("x2", syntax.TypeFloat, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	msgs := errStrings(a.Errors())
	assert.Contains(msgs, "Node 'pad1' has empty output name")
	assert.NotContains(msgs, "Node 'pad1' references undefined input: ")

	pad := a.Table().Node("pad1")
	if assert.NotNil(pad) {
		// the absent optional input is skipped silently
		assert.Len(pad.Inputs, 1)
	}
}

func Test_Analyze_sameNameAsInputAndOutput(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Relu", "loopy", []string{"x"}, []string{"x"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Node 'loopy' uses 'x' as both input and output")
}

func Test_Analyze_modelOutputNeverProduced(t *testing.T) {
	assert := assert.New(t)

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{mkNode("Relu", "relu1", []string{"x"}, []string{"y"})},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 3)},
		[]syntax.ASTNode{
			mkIO("y", syntax.TypeFloat, 3),
			mkIO("lost", syntax.TypeFloat, 3),
		},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(errStrings(a.Errors()), "Model output 'lost' is never produced")
}

func Test_Analyze_noModelRootIsFatal(t *testing.T) {
	assert := assert.New(t)

	a := New()
	err := a.Analyze(syntax.AST{Root: syntax.ErrorNode{}})

	assert.Error(err)
}

func Test_Analyze_richOutputDeclarationTypesTensor(t *testing.T) {
	assert := assert.New(t)

	node := syntax.OpNode{
		OpType: syntax.StrLiteralNode{Value: "Relu"},
		Name:   syntax.StrLiteralNode{Value: "relu1"},
		Inputs: syntax.InputArrNode{Elements: []syntax.ASTNode{
			syntax.StrLiteralNode{Value: "x"},
		}},
		Outputs: syntax.OutputListNode{Tensors: []syntax.ASTNode{
			mkIO("y", syntax.TypeFloat, 1, 3),
		}},
	}

	ast := mkModel(mkGraph(
		[]syntax.ASTNode{node},
		[]syntax.ASTNode{mkIO("x", syntax.TypeFloat, 1, 3)},
		[]syntax.ASTNode{mkIO("y", syntax.TypeFloat, 1, 3)},
		nil,
	))

	a := New()
	err := a.Analyze(ast)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(errStrings(a.Errors()))

	y := a.Table().Tensor("y")
	if assert.NotNil(y) {
		assert.Equal(syntax.TypeFloat, y.Elem)
		assert.Equal("[1, 3]", y.Shape)
	}
}
