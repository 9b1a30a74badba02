package sem

// Type is the static type of a teslang value.
type Type int

// Enumeration of types.  TypeUnknown is given to erroneous expressions: any
// check involving it passes silently so one mistake is only reported once.
const (
	TypeUnknown Type = iota
	TypeNumeric
	TypeArray
	TypeNone
)

var typeNames = [...]string{
	TypeUnknown: "unknown",
	TypeNumeric: "numeric",
	TypeArray:   "array",
	TypeNone:    "none",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}

	return typeNames[t]
}

// Equals returns whether two types match.  Unknown types match everything.
func (t Type) Equals(other Type) bool {
	return t == TypeUnknown || other == TypeUnknown || t == other
}

// IsNumeric returns whether a value of type t can be used as a number.
func (t Type) IsNumeric() bool {
	return t.Equals(TypeNumeric)
}
