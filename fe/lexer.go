package fe

import (
	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/lex"

	"github.com/Trichiurus-lepturus/sonnx/fe/fetoken"
)

// Lexer returns the ictiobus Lexer for S-ONNX model source.
func Lexer(lazy bool) lex.Lexer {
	var lx lex.Lexer
	if lazy {
		lx = ictiobus.NewLazyLexer()
	} else {
		lx = ictiobus.NewLexer()
	}

	// default state, shared by all
	lx.RegisterClass(fetoken.TCModel, "")
	lx.RegisterClass(fetoken.TCIrVersion, "")
	lx.RegisterClass(fetoken.TCProducerName, "")
	lx.RegisterClass(fetoken.TCProducerVersion, "")
	lx.RegisterClass(fetoken.TCDomain, "")
	lx.RegisterClass(fetoken.TCModelVersion, "")
	lx.RegisterClass(fetoken.TCDocString, "")
	lx.RegisterClass(fetoken.TCGraph, "")
	lx.RegisterClass(fetoken.TCName, "")
	lx.RegisterClass(fetoken.TCNodeList, "")
	lx.RegisterClass(fetoken.TCNode, "")
	lx.RegisterClass(fetoken.TCOpType, "")
	lx.RegisterClass(fetoken.TCInputArr, "")
	lx.RegisterClass(fetoken.TCOutputArr, "")
	lx.RegisterClass(fetoken.TCInputList, "")
	lx.RegisterClass(fetoken.TCOutputList, "")
	lx.RegisterClass(fetoken.TCInitializerList, "")
	lx.RegisterClass(fetoken.TCIOTensor, "")
	lx.RegisterClass(fetoken.TCInitTensor, "")
	lx.RegisterClass(fetoken.TCElemType, "")
	lx.RegisterClass(fetoken.TCShape, "")
	lx.RegisterClass(fetoken.TCDims, "")
	lx.RegisterClass(fetoken.TCRawData, "")
	lx.RegisterClass(fetoken.TCAttributeList, "")
	lx.RegisterClass(fetoken.TCAttribute, "")
	lx.RegisterClass(fetoken.TCValue, "")
	lx.RegisterClass(fetoken.TCOpset, "")
	lx.RegisterClass(fetoken.TCVersion, "")
	lx.RegisterClass(fetoken.TCTypeInt, "")
	lx.RegisterClass(fetoken.TCTypeFloat, "")
	lx.RegisterClass(fetoken.TCTypeString, "")
	lx.RegisterClass(fetoken.TCTypeBool, "")
	lx.RegisterClass(fetoken.TCLBrace, "")
	lx.RegisterClass(fetoken.TCRBrace, "")
	lx.RegisterClass(fetoken.TCLBracket, "")
	lx.RegisterClass(fetoken.TCRBracket, "")
	lx.RegisterClass(fetoken.TCColon, "")
	lx.RegisterClass(fetoken.TCComma, "")
	lx.RegisterClass(fetoken.TCInt, "")
	lx.RegisterClass(fetoken.TCStr, "")
	lx.RegisterClass(fetoken.TCBytes, "")

	// literal patterns come first: a bytes literal would otherwise have
	// its digit prefix claimed by the integer pattern
	lx.AddPattern(`"(?:\\.|[^"\\])*"`, lex.LexAs(fetoken.TCStr.ID()), "", 0)
	lx.AddPattern(`[0-9A-Fa-f]*#`, lex.LexAs(fetoken.TCBytes.ID()), "", 0)
	lx.AddPattern(`\d+[Ll]?`, lex.LexAs(fetoken.TCInt.ID()), "", 0)

	// keywords, longest first so prefixed pairs (MODEL/MODEL_VERSION,
	// NODE/NODE_LIST, ATTRIBUTE/ATTRIBUTE_LIST) resolve to the longer
	lx.AddPattern(`INITIALIZER_LIST`, lex.LexAs(fetoken.TCInitializerList.ID()), "", 0)
	lx.AddPattern(`PRODUCER_VERSION`, lex.LexAs(fetoken.TCProducerVersion.ID()), "", 0)
	lx.AddPattern(`ATTRIBUTE_LIST`, lex.LexAs(fetoken.TCAttributeList.ID()), "", 0)
	lx.AddPattern(`PRODUCER_NAME`, lex.LexAs(fetoken.TCProducerName.ID()), "", 0)
	lx.AddPattern(`MODEL_VERSION`, lex.LexAs(fetoken.TCModelVersion.ID()), "", 0)
	lx.AddPattern(`OUTPUT_LIST`, lex.LexAs(fetoken.TCOutputList.ID()), "", 0)
	lx.AddPattern(`INIT_TENSOR`, lex.LexAs(fetoken.TCInitTensor.ID()), "", 0)
	lx.AddPattern(`OUTPUT_ARR`, lex.LexAs(fetoken.TCOutputArr.ID()), "", 0)
	lx.AddPattern(`INPUT_LIST`, lex.LexAs(fetoken.TCInputList.ID()), "", 0)
	lx.AddPattern(`DOC_STRING`, lex.LexAs(fetoken.TCDocString.ID()), "", 0)
	lx.AddPattern(`IR_VERSION`, lex.LexAs(fetoken.TCIrVersion.ID()), "", 0)
	lx.AddPattern(`INPUT_ARR`, lex.LexAs(fetoken.TCInputArr.ID()), "", 0)
	lx.AddPattern(`IO_TENSOR`, lex.LexAs(fetoken.TCIOTensor.ID()), "", 0)
	lx.AddPattern(`ELEM_TYPE`, lex.LexAs(fetoken.TCElemType.ID()), "", 0)
	lx.AddPattern(`ATTRIBUTE`, lex.LexAs(fetoken.TCAttribute.ID()), "", 0)
	lx.AddPattern(`NODE_LIST`, lex.LexAs(fetoken.TCNodeList.ID()), "", 0)
	lx.AddPattern(`RAW_DATA`, lex.LexAs(fetoken.TCRawData.ID()), "", 0)
	lx.AddPattern(`OP_TYPE`, lex.LexAs(fetoken.TCOpType.ID()), "", 0)
	lx.AddPattern(`VERSION`, lex.LexAs(fetoken.TCVersion.ID()), "", 0)
	lx.AddPattern(`STRING`, lex.LexAs(fetoken.TCTypeString.ID()), "", 0)
	lx.AddPattern(`DOMAIN`, lex.LexAs(fetoken.TCDomain.ID()), "", 0)
	lx.AddPattern(`MODEL`, lex.LexAs(fetoken.TCModel.ID()), "", 0)
	lx.AddPattern(`GRAPH`, lex.LexAs(fetoken.TCGraph.ID()), "", 0)
	lx.AddPattern(`OPSET`, lex.LexAs(fetoken.TCOpset.ID()), "", 0)
	lx.AddPattern(`SHAPE`, lex.LexAs(fetoken.TCShape.ID()), "", 0)
	lx.AddPattern(`VALUE`, lex.LexAs(fetoken.TCValue.ID()), "", 0)
	lx.AddPattern(`FLOAT`, lex.LexAs(fetoken.TCTypeFloat.ID()), "", 0)
	lx.AddPattern(`DIMS`, lex.LexAs(fetoken.TCDims.ID()), "", 0)
	lx.AddPattern(`NODE`, lex.LexAs(fetoken.TCNode.ID()), "", 0)
	lx.AddPattern(`NAME`, lex.LexAs(fetoken.TCName.ID()), "", 0)
	lx.AddPattern(`BOOL`, lex.LexAs(fetoken.TCTypeBool.ID()), "", 0)
	lx.AddPattern(`INT`, lex.LexAs(fetoken.TCTypeInt.ID()), "", 0)

	lx.AddPattern(`\{`, lex.LexAs(fetoken.TCLBrace.ID()), "", 0)
	lx.AddPattern(`\}`, lex.LexAs(fetoken.TCRBrace.ID()), "", 0)
	lx.AddPattern(`\[`, lex.LexAs(fetoken.TCLBracket.ID()), "", 0)
	lx.AddPattern(`\]`, lex.LexAs(fetoken.TCRBracket.ID()), "", 0)
	lx.AddPattern(`:`, lex.LexAs(fetoken.TCColon.ID()), "", 0)
	lx.AddPattern(`,`, lex.LexAs(fetoken.TCComma.ID()), "", 0)

	lx.AddPattern(`//[^\n]*`, lex.Discard(), "", 0)
	lx.AddPattern(`\s+`, lex.Discard(), "", 0)

	return lx
}
