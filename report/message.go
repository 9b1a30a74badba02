package report

import "fmt"

// Enumeration of compile message kinds.
const (
	KindLexical = iota
	KindSyntax
	KindSemantic
	KindUsage
)

var kindNames = map[int]string{
	KindLexical:  "lexical",
	KindSyntax:   "syntax",
	KindSemantic: "semantic",
	KindUsage:    "usage",
}

// CompileMessage is a single error or warning produced while compiling a
// source file.
type CompileMessage struct {
	// Kind is one of the enumerated message kinds.
	Kind int

	Message string

	// Position may be nil if the message has no source location.
	Position *TextPosition

	IsError bool
}

// String renders the message as a single line: eg.
// `syntax error: expected `;` but got "x" at 3:5`.
func (cm *CompileMessage) String() string {
	label := "warning"
	if cm.IsError {
		label = "error"
	}

	if cm.Position == nil {
		return fmt.Sprintf("%s %s: %s", kindNames[cm.Kind], label, cm.Message)
	}

	return fmt.Sprintf("%s %s: %s at %s", kindNames[cm.Kind], label, cm.Message, cm.Position)
}
