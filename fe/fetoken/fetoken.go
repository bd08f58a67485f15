// Package fetoken contains the token classes lexed from S-ONNX model
// source. The class IDs double as the terminal names used by the
// grammar in package fe.
package fetoken

import "github.com/dekarrin/ictiobus/lex"

var (
	TCModel           = lex.NewTokenClass("model", "keyword \"MODEL\"")
	TCIrVersion       = lex.NewTokenClass("ir_version", "keyword \"IR_VERSION\"")
	TCProducerName    = lex.NewTokenClass("producer_name", "keyword \"PRODUCER_NAME\"")
	TCProducerVersion = lex.NewTokenClass("producer_version", "keyword \"PRODUCER_VERSION\"")
	TCDomain          = lex.NewTokenClass("domain", "keyword \"DOMAIN\"")
	TCModelVersion    = lex.NewTokenClass("model_version", "keyword \"MODEL_VERSION\"")
	TCDocString       = lex.NewTokenClass("doc_string", "keyword \"DOC_STRING\"")
	TCGraph           = lex.NewTokenClass("graph", "keyword \"GRAPH\"")
	TCName            = lex.NewTokenClass("name", "keyword \"NAME\"")
	TCNodeList        = lex.NewTokenClass("node_list", "keyword \"NODE_LIST\"")
	TCNode            = lex.NewTokenClass("node", "keyword \"NODE\"")
	TCOpType          = lex.NewTokenClass("op_type", "keyword \"OP_TYPE\"")
	TCInputArr        = lex.NewTokenClass("input_arr", "keyword \"INPUT_ARR\"")
	TCOutputArr       = lex.NewTokenClass("output_arr", "keyword \"OUTPUT_ARR\"")
	TCInputList       = lex.NewTokenClass("input_list", "keyword \"INPUT_LIST\"")
	TCOutputList      = lex.NewTokenClass("output_list", "keyword \"OUTPUT_LIST\"")
	TCInitializerList = lex.NewTokenClass("initializer_list", "keyword \"INITIALIZER_LIST\"")
	TCIOTensor        = lex.NewTokenClass("io_tensor", "keyword \"IO_TENSOR\"")
	TCInitTensor      = lex.NewTokenClass("init_tensor", "keyword \"INIT_TENSOR\"")
	TCElemType        = lex.NewTokenClass("elem_type", "keyword \"ELEM_TYPE\"")
	TCShape           = lex.NewTokenClass("shape", "keyword \"SHAPE\"")
	TCDims            = lex.NewTokenClass("dims", "keyword \"DIMS\"")
	TCRawData         = lex.NewTokenClass("raw_data", "keyword \"RAW_DATA\"")
	TCAttributeList   = lex.NewTokenClass("attribute_list", "keyword \"ATTRIBUTE_LIST\"")
	TCAttribute       = lex.NewTokenClass("attribute", "keyword \"ATTRIBUTE\"")
	TCValue           = lex.NewTokenClass("value", "keyword \"VALUE\"")
	TCOpset           = lex.NewTokenClass("opset", "keyword \"OPSET\"")
	TCVersion         = lex.NewTokenClass("version", "keyword \"VERSION\"")

	TCTypeInt    = lex.NewTokenClass("tint", "type name \"INT\"")
	TCTypeFloat  = lex.NewTokenClass("tfloat", "type name \"FLOAT\"")
	TCTypeString = lex.NewTokenClass("tstring", "type name \"STRING\"")
	TCTypeBool   = lex.NewTokenClass("tbool", "type name \"BOOL\"")

	TCLBrace   = lex.NewTokenClass("lb", "'{'")
	TCRBrace   = lex.NewTokenClass("rb", "'}'")
	TCLBracket = lex.NewTokenClass("lbk", "'['")
	TCRBracket = lex.NewTokenClass("rbk", "']'")
	TCColon    = lex.NewTokenClass("colon", "':'")
	TCComma    = lex.NewTokenClass("comma", "','")

	TCInt   = lex.NewTokenClass("int", "integer literal")
	TCStr   = lex.NewTokenClass("str", "string literal")
	TCBytes = lex.NewTokenClass("bytes", "bytes literal")
)
