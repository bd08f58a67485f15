// Package syntax provides abstract syntax tree representations of
// S-ONNX model source and the semantic hooks that build them from parse
// trees. The AST produced here is the input to semantic analysis; it is
// immutable once constructed and is only ever borrowed by later passes.
package syntax

import "strings"

func spaceIndentNewlines(str string, amount int) string {
	if strings.Contains(str, "\n") {
		// need to pad every newline
		pad := " "
		for len(pad) < amount {
			pad += " "
		}
		str = strings.ReplaceAll(str, "\n", "\n"+pad)
	}
	return str
}
