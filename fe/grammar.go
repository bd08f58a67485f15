package fe

import (
	"github.com/dekarrin/ictiobus/grammar"

	"github.com/Trichiurus-lepturus/sonnx/fe/fetoken"
)

// Grammar returns the grammar accepted by the S-ONNX parser. Block
// field order is fixed; optional constructs (initializer list,
// attribute list, empty shapes and arrays) get their own productions.
func Grammar() grammar.CFG {
	g := grammar.CFG{Start: "SONNX"}

	g.AddTerm(fetoken.TCModel.ID(), fetoken.TCModel)
	g.AddTerm(fetoken.TCIrVersion.ID(), fetoken.TCIrVersion)
	g.AddTerm(fetoken.TCProducerName.ID(), fetoken.TCProducerName)
	g.AddTerm(fetoken.TCProducerVersion.ID(), fetoken.TCProducerVersion)
	g.AddTerm(fetoken.TCDomain.ID(), fetoken.TCDomain)
	g.AddTerm(fetoken.TCModelVersion.ID(), fetoken.TCModelVersion)
	g.AddTerm(fetoken.TCDocString.ID(), fetoken.TCDocString)
	g.AddTerm(fetoken.TCGraph.ID(), fetoken.TCGraph)
	g.AddTerm(fetoken.TCName.ID(), fetoken.TCName)
	g.AddTerm(fetoken.TCNodeList.ID(), fetoken.TCNodeList)
	g.AddTerm(fetoken.TCNode.ID(), fetoken.TCNode)
	g.AddTerm(fetoken.TCOpType.ID(), fetoken.TCOpType)
	g.AddTerm(fetoken.TCInputArr.ID(), fetoken.TCInputArr)
	g.AddTerm(fetoken.TCOutputArr.ID(), fetoken.TCOutputArr)
	g.AddTerm(fetoken.TCInputList.ID(), fetoken.TCInputList)
	g.AddTerm(fetoken.TCOutputList.ID(), fetoken.TCOutputList)
	g.AddTerm(fetoken.TCInitializerList.ID(), fetoken.TCInitializerList)
	g.AddTerm(fetoken.TCIOTensor.ID(), fetoken.TCIOTensor)
	g.AddTerm(fetoken.TCInitTensor.ID(), fetoken.TCInitTensor)
	g.AddTerm(fetoken.TCElemType.ID(), fetoken.TCElemType)
	g.AddTerm(fetoken.TCShape.ID(), fetoken.TCShape)
	g.AddTerm(fetoken.TCDims.ID(), fetoken.TCDims)
	g.AddTerm(fetoken.TCRawData.ID(), fetoken.TCRawData)
	g.AddTerm(fetoken.TCAttributeList.ID(), fetoken.TCAttributeList)
	g.AddTerm(fetoken.TCAttribute.ID(), fetoken.TCAttribute)
	g.AddTerm(fetoken.TCValue.ID(), fetoken.TCValue)
	g.AddTerm(fetoken.TCOpset.ID(), fetoken.TCOpset)
	g.AddTerm(fetoken.TCVersion.ID(), fetoken.TCVersion)
	g.AddTerm(fetoken.TCTypeInt.ID(), fetoken.TCTypeInt)
	g.AddTerm(fetoken.TCTypeFloat.ID(), fetoken.TCTypeFloat)
	g.AddTerm(fetoken.TCTypeString.ID(), fetoken.TCTypeString)
	g.AddTerm(fetoken.TCTypeBool.ID(), fetoken.TCTypeBool)
	g.AddTerm(fetoken.TCLBrace.ID(), fetoken.TCLBrace)
	g.AddTerm(fetoken.TCRBrace.ID(), fetoken.TCRBrace)
	g.AddTerm(fetoken.TCLBracket.ID(), fetoken.TCLBracket)
	g.AddTerm(fetoken.TCRBracket.ID(), fetoken.TCRBracket)
	g.AddTerm(fetoken.TCColon.ID(), fetoken.TCColon)
	g.AddTerm(fetoken.TCComma.ID(), fetoken.TCComma)
	g.AddTerm(fetoken.TCInt.ID(), fetoken.TCInt)
	g.AddTerm(fetoken.TCStr.ID(), fetoken.TCStr)
	g.AddTerm(fetoken.TCBytes.ID(), fetoken.TCBytes)

	g.AddRule("SONNX", []string{"MODEL"})

	g.AddRule("MODEL", []string{"model", "lb", "IRVER", "PRODNAME", "PRODVER", "DOMAINF", "MODELVER", "DOCSTR", "GRAPH", "OPSET", "rb"})

	g.AddRule("IRVER", []string{"ir_version", "colon", "int"})
	g.AddRule("PRODNAME", []string{"producer_name", "colon", "str"})
	g.AddRule("PRODVER", []string{"producer_version", "colon", "str"})
	g.AddRule("DOMAINF", []string{"domain", "colon", "str"})
	g.AddRule("MODELVER", []string{"model_version", "colon", "int"})
	g.AddRule("DOCSTR", []string{"doc_string", "colon", "str"})

	g.AddRule("GRAPH", []string{"graph", "lb", "NAMEF", "NODELIST", "INPUTS", "OUTPUTS", "rb"})
	g.AddRule("GRAPH", []string{"graph", "lb", "NAMEF", "NODELIST", "INPUTS", "OUTPUTS", "INITS", "rb"})

	g.AddRule("NAMEF", []string{"name", "colon", "str"})

	g.AddRule("NODELIST", []string{"node_list", "lb", "NODES", "rb"})
	g.AddRule("NODES", []string{"NODES", "NODE"})
	g.AddRule("NODES", []string{"NODE"})

	g.AddRule("NODE", []string{"node", "lb", "OPTYPE", "NAMEF", "INSPEC", "OUTSPEC", "rb"})
	g.AddRule("NODE", []string{"node", "lb", "OPTYPE", "NAMEF", "INSPEC", "OUTSPEC", "ATTRLIST", "rb"})

	g.AddRule("OPTYPE", []string{"op_type", "colon", "str"})

	g.AddRule("INSPEC", []string{"input_arr", "colon", "STRARR"})
	g.AddRule("INSPEC", []string{"INPUTS"})
	g.AddRule("OUTSPEC", []string{"output_arr", "colon", "STRARR"})
	g.AddRule("OUTSPEC", []string{"OUTPUTS"})

	g.AddRule("INPUTS", []string{"input_list", "lb", "IOTENSORS", "rb"})
	g.AddRule("OUTPUTS", []string{"output_list", "lb", "IOTENSORS", "rb"})

	g.AddRule("IOTENSORS", []string{"IOTENSORS", "IOTENSOR"})
	g.AddRule("IOTENSORS", []string{"IOTENSOR"})

	g.AddRule("IOTENSOR", []string{"io_tensor", "lb", "NAMEF", "ELEMTYPE", "SHAPEF", "rb"})

	g.AddRule("ELEMTYPE", []string{"elem_type", "colon", "TYPE"})
	g.AddRule("TYPE", []string{"tint"})
	g.AddRule("TYPE", []string{"tfloat"})
	g.AddRule("TYPE", []string{"tstring"})
	g.AddRule("TYPE", []string{"tbool"})

	g.AddRule("SHAPEF", []string{"shape", "colon", "lbk", "DIMS", "rbk"})
	g.AddRule("SHAPEF", []string{"shape", "colon", "lbk", "rbk"})
	g.AddRule("DIMS", []string{"DIMS", "comma", "DIM"})
	g.AddRule("DIMS", []string{"DIM"})
	g.AddRule("DIM", []string{"int"})
	g.AddRule("DIM", []string{"str"})

	g.AddRule("STRARR", []string{"lbk", "STRS", "rbk"})
	g.AddRule("STRARR", []string{"lbk", "rbk"})
	g.AddRule("STRS", []string{"STRS", "comma", "str"})
	g.AddRule("STRS", []string{"str"})

	g.AddRule("INITS", []string{"initializer_list", "lb", "INITTENSORS", "rb"})
	g.AddRule("INITTENSORS", []string{"INITTENSORS", "INITTENSOR"})
	g.AddRule("INITTENSORS", []string{"INITTENSOR"})

	g.AddRule("INITTENSOR", []string{"init_tensor", "lb", "NAMEF", "ELEMTYPE", "DIMSF", "RAWDATA", "rb"})
	g.AddRule("DIMSF", []string{"dims", "colon", "lbk", "INTDIMS", "rbk"})
	g.AddRule("INTDIMS", []string{"INTDIMS", "comma", "int"})
	g.AddRule("INTDIMS", []string{"int"})
	g.AddRule("RAWDATA", []string{"raw_data", "colon", "bytes"})

	g.AddRule("ATTRLIST", []string{"attribute_list", "lb", "ATTRS", "rb"})
	g.AddRule("ATTRS", []string{"ATTRS", "ATTR"})
	g.AddRule("ATTRS", []string{"ATTR"})
	g.AddRule("ATTR", []string{"attribute", "lb", "NAMEF", "VALUEF", "rb"})
	g.AddRule("VALUEF", []string{"value", "colon", "ATTRVAL"})
	g.AddRule("ATTRVAL", []string{"int"})
	g.AddRule("ATTRVAL", []string{"str"})
	g.AddRule("ATTRVAL", []string{"bytes"})
	g.AddRule("ATTRVAL", []string{"TYPE"})

	g.AddRule("OPSET", []string{"opset", "lb", "DOMAINF", "VERSIONF", "rb"})
	g.AddRule("VERSIONF", []string{"version", "colon", "int"})

	return g
}
