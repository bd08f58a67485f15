package fe

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/trans"
)

// SDTS returns the syntax-directed translation scheme that assembles a
// syntax.AST from an S-ONNX parse tree. Single AST nodes travel in the
// "node" attribute, node slices in "nodes", and the finished tree in
// "ast" on the root.
func SDTS() trans.SDTS {
	sdts := ictiobus.NewSDTS()

	bind(sdts, "SONNX", []string{"MODEL"}, "ast", "ast",
		sym(0, "node"),
	)

	bind(sdts, "MODEL", []string{"model", "lb", "IRVER", "PRODNAME", "PRODVER", "DOMAINF", "MODELVER", "DOCSTR", "GRAPH", "OPSET", "rb"}, "node", "model",
		sym(2, "node"), sym(3, "node"), sym(4, "node"), sym(5, "node"),
		sym(6, "node"), sym(7, "node"), sym(8, "node"), sym(9, "node"),
	)

	bind(sdts, "IRVER", []string{"ir_version", "colon", "int"}, "node", "lit_int", sym(2, "$text"))
	bind(sdts, "PRODNAME", []string{"producer_name", "colon", "str"}, "node", "lit_str", sym(2, "$text"))
	bind(sdts, "PRODVER", []string{"producer_version", "colon", "str"}, "node", "lit_str", sym(2, "$text"))
	bind(sdts, "DOMAINF", []string{"domain", "colon", "str"}, "node", "lit_str", sym(2, "$text"))
	bind(sdts, "MODELVER", []string{"model_version", "colon", "int"}, "node", "lit_int", sym(2, "$text"))
	bind(sdts, "DOCSTR", []string{"doc_string", "colon", "str"}, "node", "lit_str", sym(2, "$text"))

	bind(sdts, "GRAPH", []string{"graph", "lb", "NAMEF", "NODELIST", "INPUTS", "OUTPUTS", "rb"}, "node", "graph",
		sym(2, "node"), sym(3, "node"), sym(4, "node"), sym(5, "node"),
	)
	bind(sdts, "GRAPH", []string{"graph", "lb", "NAMEF", "NODELIST", "INPUTS", "OUTPUTS", "INITS", "rb"}, "node", "graph_inits",
		sym(2, "node"), sym(3, "node"), sym(4, "node"), sym(5, "node"), sym(6, "node"),
	)

	bind(sdts, "NAMEF", []string{"name", "colon", "str"}, "node", "lit_str", sym(2, "$text"))

	bind(sdts, "NODELIST", []string{"node_list", "lb", "NODES", "rb"}, "node", "node_list", sym(2, "nodes"))
	bind(sdts, "NODES", []string{"NODES", "NODE"}, "nodes", "list_append", sym(0, "nodes"), sym(1, "node"))
	bind(sdts, "NODES", []string{"NODE"}, "nodes", "list_start", sym(0, "node"))

	bind(sdts, "NODE", []string{"node", "lb", "OPTYPE", "NAMEF", "INSPEC", "OUTSPEC", "rb"}, "node", "node",
		sym(2, "node"), sym(3, "node"), sym(4, "node"), sym(5, "node"),
	)
	bind(sdts, "NODE", []string{"node", "lb", "OPTYPE", "NAMEF", "INSPEC", "OUTSPEC", "ATTRLIST", "rb"}, "node", "node_attrs",
		sym(2, "node"), sym(3, "node"), sym(4, "node"), sym(5, "node"), sym(6, "node"),
	)

	bind(sdts, "OPTYPE", []string{"op_type", "colon", "str"}, "node", "lit_str", sym(2, "$text"))

	bind(sdts, "INSPEC", []string{"input_arr", "colon", "STRARR"}, "node", "input_arr", sym(2, "nodes"))
	bind(sdts, "INSPEC", []string{"INPUTS"}, "node", "identity", sym(0, "node"))
	bind(sdts, "OUTSPEC", []string{"output_arr", "colon", "STRARR"}, "node", "output_arr", sym(2, "nodes"))
	bind(sdts, "OUTSPEC", []string{"OUTPUTS"}, "node", "identity", sym(0, "node"))

	bind(sdts, "INPUTS", []string{"input_list", "lb", "IOTENSORS", "rb"}, "node", "input_list", sym(2, "nodes"))
	bind(sdts, "OUTPUTS", []string{"output_list", "lb", "IOTENSORS", "rb"}, "node", "output_list", sym(2, "nodes"))

	bind(sdts, "IOTENSORS", []string{"IOTENSORS", "IOTENSOR"}, "nodes", "list_append", sym(0, "nodes"), sym(1, "node"))
	bind(sdts, "IOTENSORS", []string{"IOTENSOR"}, "nodes", "list_start", sym(0, "node"))

	bind(sdts, "IOTENSOR", []string{"io_tensor", "lb", "NAMEF", "ELEMTYPE", "SHAPEF", "rb"}, "node", "io_tensor",
		sym(2, "node"), sym(3, "node"), sym(4, "node"),
	)

	bind(sdts, "ELEMTYPE", []string{"elem_type", "colon", "TYPE"}, "node", "identity", sym(2, "node"))
	bind(sdts, "TYPE", []string{"tint"}, "node", "lit_type", sym(0, "$text"))
	bind(sdts, "TYPE", []string{"tfloat"}, "node", "lit_type", sym(0, "$text"))
	bind(sdts, "TYPE", []string{"tstring"}, "node", "lit_type", sym(0, "$text"))
	bind(sdts, "TYPE", []string{"tbool"}, "node", "lit_type", sym(0, "$text"))

	bind(sdts, "SHAPEF", []string{"shape", "colon", "lbk", "DIMS", "rbk"}, "node", "shape", sym(3, "nodes"))
	bind(sdts, "SHAPEF", []string{"shape", "colon", "lbk", "rbk"}, "node", "shape")
	bind(sdts, "DIMS", []string{"DIMS", "comma", "DIM"}, "nodes", "list_append", sym(0, "nodes"), sym(2, "node"))
	bind(sdts, "DIMS", []string{"DIM"}, "nodes", "list_start", sym(0, "node"))
	bind(sdts, "DIM", []string{"int"}, "node", "dim_int", sym(0, "$text"))
	bind(sdts, "DIM", []string{"str"}, "node", "dim_str", sym(0, "$text"))

	bind(sdts, "STRARR", []string{"lbk", "STRS", "rbk"}, "nodes", "identity", sym(1, "nodes"))
	bind(sdts, "STRARR", []string{"lbk", "rbk"}, "nodes", "empty_list")
	bind(sdts, "STRS", []string{"STRS", "comma", "str"}, "nodes", "str_list_append", sym(0, "nodes"), sym(2, "$text"))
	bind(sdts, "STRS", []string{"str"}, "nodes", "str_list_start", sym(0, "$text"))

	bind(sdts, "INITS", []string{"initializer_list", "lb", "INITTENSORS", "rb"}, "node", "initializer_list", sym(2, "nodes"))
	bind(sdts, "INITTENSORS", []string{"INITTENSORS", "INITTENSOR"}, "nodes", "list_append", sym(0, "nodes"), sym(1, "node"))
	bind(sdts, "INITTENSORS", []string{"INITTENSOR"}, "nodes", "list_start", sym(0, "node"))

	bind(sdts, "INITTENSOR", []string{"init_tensor", "lb", "NAMEF", "ELEMTYPE", "DIMSF", "RAWDATA", "rb"}, "node", "init_tensor",
		sym(2, "node"), sym(3, "node"), sym(4, "node"), sym(5, "node"),
	)
	bind(sdts, "DIMSF", []string{"dims", "colon", "lbk", "INTDIMS", "rbk"}, "node", "dims_array", sym(3, "nodes"))
	bind(sdts, "INTDIMS", []string{"INTDIMS", "comma", "int"}, "nodes", "int_list_append", sym(0, "nodes"), sym(2, "$text"))
	bind(sdts, "INTDIMS", []string{"int"}, "nodes", "int_list_start", sym(0, "$text"))
	bind(sdts, "RAWDATA", []string{"raw_data", "colon", "bytes"}, "node", "lit_bytes", sym(2, "$text"))

	bind(sdts, "ATTRLIST", []string{"attribute_list", "lb", "ATTRS", "rb"}, "node", "attr_list", sym(2, "nodes"))
	bind(sdts, "ATTRS", []string{"ATTRS", "ATTR"}, "nodes", "list_append", sym(0, "nodes"), sym(1, "node"))
	bind(sdts, "ATTRS", []string{"ATTR"}, "nodes", "list_start", sym(0, "node"))
	bind(sdts, "ATTR", []string{"attribute", "lb", "NAMEF", "VALUEF", "rb"}, "node", "attribute",
		sym(2, "node"), sym(3, "node"),
	)
	bind(sdts, "VALUEF", []string{"value", "colon", "ATTRVAL"}, "node", "identity", sym(2, "node"))
	bind(sdts, "ATTRVAL", []string{"int"}, "node", "lit_int", sym(0, "$text"))
	bind(sdts, "ATTRVAL", []string{"str"}, "node", "lit_str", sym(0, "$text"))
	bind(sdts, "ATTRVAL", []string{"bytes"}, "node", "lit_bytes", sym(0, "$text"))
	bind(sdts, "ATTRVAL", []string{"TYPE"}, "node", "identity", sym(0, "node"))

	bind(sdts, "OPSET", []string{"opset", "lb", "DOMAINF", "VERSIONF", "rb"}, "node", "opset",
		sym(2, "node"), sym(3, "node"),
	)
	bind(sdts, "VERSIONF", []string{"version", "colon", "int"}, "node", "lit_int", sym(2, "$text"))

	return sdts
}

// sym references an attribute on the production symbol at index i.
func sym(i int, attr string) trans.AttrRef {
	return trans.AttrRef{
		Rel:  trans.NodeRelation{Type: trans.RelSymbol, Index: i},
		Name: attr,
	}
}

func bind(sdts trans.SDTS, head string, prod []string, attr string, hook string, withArgs ...trans.AttrRef) {
	err := sdts.Bind(head, prod, attr, hook, withArgs)
	if err != nil {
		prodStr := strings.Join(prod, " ")
		panic(fmt.Sprintf("binding %s -> [%s]: %s", head, prodStr, err.Error()))
	}
}
