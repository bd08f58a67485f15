package syntax

import (
	"github.com/dekarrin/ictiobus/trans"
)

// HooksTable is the mapping of SDTS hook names used by the frontend to
// their implementations. Hook functions receive already-evaluated child
// attributes and assemble AST nodes bottom-up.
var HooksTable = trans.HookMap{
	"ast":         hookAST,
	"identity":    func(info trans.SetterInfo, args []interface{}) (interface{}, error) { return args[0], nil },
	"model":       hookModel,
	"graph":       hookGraph,
	"graph_inits": hookGraphInits,
	"node":        hookNode,
	"node_attrs":  hookNodeAttrs,
	"node_list": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return NodeListNode{Nodes: kids, src: info.FirstToken}
	}),
	"input_list": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return InputListNode{Tensors: kids, src: info.FirstToken}
	}),
	"output_list": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return OutputListNode{Tensors: kids, src: info.FirstToken}
	}),
	"initializer_list": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return InitializerListNode{Tensors: kids, src: info.FirstToken}
	}),
	"attr_list": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return AttrListNode{Attrs: kids, src: info.FirstToken}
	}),
	"input_arr": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return InputArrNode{Elements: kids, src: info.FirstToken}
	}),
	"output_arr": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return OutputArrNode{Elements: kids, src: info.FirstToken}
	}),
	"shape": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return ShapeNode{Dims: kids, src: info.FirstToken}
	}),
	"dims_array": makeHookListWrap(func(kids []ASTNode, info trans.SetterInfo) ASTNode {
		return DimsArrayNode{Dims: kids, src: info.FirstToken}
	}),
	"io_tensor":       hookIOTensor,
	"init_tensor":     hookInitTensor,
	"attribute":       hookAttribute,
	"opset":           hookOpset,
	"dim_int":         hookDimInt,
	"dim_str":         hookDimStr,
	"lit_int":         hookLitInt,
	"lit_str":         hookLitStr,
	"lit_bytes":       hookLitBytes,
	"lit_type":        hookLitType,
	"list_start":      hookListStart,
	"list_append":     hookListAppend,
	"str_list_start":  hookStrListStart,
	"str_list_append": hookStrListAppend,
	"int_list_start":  hookIntListStart,
	"int_list_append": hookIntListAppend,
	"empty_list":      func(info trans.SetterInfo, args []interface{}) (interface{}, error) { return []ASTNode{}, nil },
}

// argNode retrieves args[idx] as an ASTNode. Anything that is not an
// AST node (including a missing argument) degrades to an ErrorNode so
// later passes see a marker rather than a crash.
func argNode(args []interface{}, idx int) ASTNode {
	if idx >= len(args) {
		return ErrorNode{}
	}
	n, ok := args[idx].(ASTNode)
	if !ok {
		return ErrorNode{}
	}
	return n
}

func argList(args []interface{}, idx int) []ASTNode {
	if idx >= len(args) {
		return nil
	}
	list, ok := args[idx].([]ASTNode)
	if !ok {
		return nil
	}
	return list
}

func hookAST(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return AST{Root: argNode(args, 0)}, nil
}

func hookModel(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return ModelNode{
		IRVersion:       argNode(args, 0),
		ProducerName:    argNode(args, 1),
		ProducerVersion: argNode(args, 2),
		Domain:          argNode(args, 3),
		ModelVersion:    argNode(args, 4),
		DocString:       argNode(args, 5),
		Graph:           argNode(args, 6),
		Opset:           argNode(args, 7),
		src:             info.FirstToken,
	}, nil
}

func hookGraph(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return GraphNode{
		Name:    argNode(args, 0),
		Nodes:   argNode(args, 1),
		Inputs:  argNode(args, 2),
		Outputs: argNode(args, 3),
		src:     info.FirstToken,
	}, nil
}

func hookGraphInits(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return GraphNode{
		Name:         argNode(args, 0),
		Nodes:        argNode(args, 1),
		Inputs:       argNode(args, 2),
		Outputs:      argNode(args, 3),
		Initializers: argNode(args, 4),
		src:          info.FirstToken,
	}, nil
}

func hookNode(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return OpNode{
		OpType:  argNode(args, 0),
		Name:    argNode(args, 1),
		Inputs:  argNode(args, 2),
		Outputs: argNode(args, 3),
		src:     info.FirstToken,
	}, nil
}

func hookNodeAttrs(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return OpNode{
		OpType:  argNode(args, 0),
		Name:    argNode(args, 1),
		Inputs:  argNode(args, 2),
		Outputs: argNode(args, 3),
		Attrs:   argNode(args, 4),
		src:     info.FirstToken,
	}, nil
}

func makeHookListWrap(wrap func([]ASTNode, trans.SetterInfo) ASTNode) trans.Hook {
	return func(info trans.SetterInfo, args []interface{}) (interface{}, error) {
		return wrap(argList(args, 0), info), nil
	}
}

func hookIOTensor(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return IOTensorNode{
		Name:  argNode(args, 0),
		Elem:  argNode(args, 1),
		Shape: argNode(args, 2),
		src:   info.FirstToken,
	}, nil
}

func hookInitTensor(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return InitTensorNode{
		Name: argNode(args, 0),
		Elem: argNode(args, 1),
		Dims: argNode(args, 2),
		Raw:  argNode(args, 3),
		src:  info.FirstToken,
	}, nil
}

func hookAttribute(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return AttrNode{
		Name:  argNode(args, 0),
		Value: argNode(args, 1),
		src:   info.FirstToken,
	}, nil
}

func hookOpset(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return OpsetNode{
		Domain:  argNode(args, 0),
		Version: argNode(args, 1),
		src:     info.FirstToken,
	}, nil
}

func hookDimInt(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lit, err := hookLitInt(info, args)
	if err != nil {
		return nil, err
	}
	return DimNode{Value: lit.(ASTNode), src: info.FirstToken}, nil
}

func hookDimStr(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lit, err := hookLitStr(info, args)
	if err != nil {
		return nil, err
	}
	return DimNode{Value: lit.(ASTNode), src: info.FirstToken}, nil
}

func hookLitInt(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lexeme := args[0].(string)

	lit, err := ParseIntegerLiteral(lexeme)
	if err != nil {
		return nil, err
	}

	if lit.Is64 {
		return U64LiteralNode{Value: lit.U64, src: info.FirstToken}, nil
	}
	return U32LiteralNode{Value: lit.U32, src: info.FirstToken}, nil
}

func hookLitStr(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lexeme := args[0].(string)
	return StrLiteralNode{Value: UnquoteString(lexeme), src: info.FirstToken}, nil
}

func hookLitBytes(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lexeme := args[0].(string)

	data, err := ParseBytesLiteral(lexeme)
	if err != nil {
		return nil, err
	}
	return BytesLiteralNode{Value: data, src: info.FirstToken}, nil
}

func hookLitType(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lexeme := args[0].(string)

	et, ok := ParseElemType(lexeme)
	if !ok {
		return ErrorNode{src: info.FirstToken}, nil
	}
	return TypeLiteralNode{Value: et, src: info.FirstToken}, nil
}

func hookListStart(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	return []ASTNode{argNode(args, 0)}, nil
}

func hookListAppend(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	list := argList(args, 0)
	return append(list, argNode(args, 1)), nil
}

func hookStrListStart(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lexeme := args[0].(string)
	return []ASTNode{StrLiteralNode{Value: UnquoteString(lexeme), src: info.FirstToken}}, nil
}

func hookStrListAppend(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	list := argList(args, 0)
	lexeme := args[1].(string)
	return append(list, StrLiteralNode{Value: UnquoteString(lexeme), src: info.FirstToken}), nil
}

func hookIntListStart(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	lit, err := hookLitInt(info, args)
	if err != nil {
		return nil, err
	}
	return []ASTNode{lit.(ASTNode)}, nil
}

func hookIntListAppend(info trans.SetterInfo, args []interface{}) (interface{}, error) {
	list := argList(args, 0)
	lit, err := hookLitInt(info, args[1:])
	if err != nil {
		return nil, err
	}
	return append(list, lit.(ASTNode)), nil
}
