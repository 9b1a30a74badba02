package sem

import (
	"fmt"

	"teslang/report"
)

// GlobalFunc is the pseudo-function name of code outside of any function.
const GlobalFunc = ""

// Scope is the tag identifying where a symbol is declared: the function it
// belongs to and the block depth within that function.  Depth 0 is the
// function's signature; its body starts at depth 1.
type Scope struct {
	Func  string
	Depth int
}

func (s Scope) String() string {
	return fmt.Sprintf("%s-%d", s.Func, s.Depth)
}

// Enumeration of symbol kinds.
const (
	SymVariable = iota
	SymFunction
)

// Param is a single function parameter.
type Param struct {
	Name string
	Type Type
}

// Symbol is a single declaration in the symbol table.
type Symbol struct {
	Kind  int
	Name  string
	Scope Scope

	// Type is the type of a variable.
	Type Type

	// ReturnType and Params describe a function's signature.
	ReturnType Type
	Params     []Param

	// Register is the virtual register holding a variable.
	Register string

	// DefPosition is where the symbol was declared.  It is nil for natives.
	DefPosition *report.TextPosition

	// Native indicates that the function is implemented by the VM.
	Native bool

	// Used indicates whether a variable has been read since its declaration.
	Used bool
}

// NewVariable creates a new variable symbol.
func NewVariable(name string, scope Scope, typ Type, reg string, pos *report.TextPosition) *Symbol {
	return &Symbol{
		Kind:        SymVariable,
		Name:        name,
		Scope:       scope,
		Type:        typ,
		Register:    reg,
		DefPosition: pos,
	}
}

// NewFunction creates a new function symbol.  Functions are always declared at
// depth 0 of their own scope.
func NewFunction(name string, params []Param, rtType Type, pos *report.TextPosition) *Symbol {
	return &Symbol{
		Kind:        SymFunction,
		Name:        name,
		Scope:       Scope{Func: name},
		ReturnType:  rtType,
		Params:      params,
		DefPosition: pos,
	}
}

// Signature renders a function's signature: eg. `f(a: numeric) -> none`.
func (s *Symbol) Signature() string {
	sig := s.Name + "("
	for i, param := range s.Params {
		if i > 0 {
			sig += ", "
		}

		sig += param.Name + ": " + param.Type.String()
	}

	return sig + ") -> " + s.ReturnType.String()
}
