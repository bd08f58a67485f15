package syntax

// ElemType is the scalar element type of a tensor. TypeUndefined is the
// placeholder used for tensor symbols created from a forward reference
// before their defining occurrence has been processed.
type ElemType int

const (
	TypeUndefined ElemType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
)

func (et ElemType) String() string {
	switch et {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	case TypeBool:
		return "BOOL"
	default:
		return "UNDEFINED"
	}
}

// ParseElemType returns the ElemType named by s. Anything that is not
// one of the four concrete type names comes back as TypeUndefined with
// ok set to false.
func ParseElemType(s string) (ElemType, bool) {
	switch s {
	case "INT":
		return TypeInt, true
	case "FLOAT":
		return TypeFloat, true
	case "STRING":
		return TypeString, true
	case "BOOL":
		return TypeBool, true
	default:
		return TypeUndefined, false
	}
}
