package syntax

import (
	"fmt"

	"teslang/report"
)

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  For identifiers, numbers and strings this
	// is the payload (a string token's value has its quotes trimmed off); for
	// every other kind it is the lexeme itself.
	Value string

	// The text position over which the token exists.
	Position *report.TextPosition
}

// Enumeration of token kinds.
const (
	TOK_FC = iota
	TOK_IF
	TOK_NOTIF
	TOK_LOOP
	TOK_FOR
	TOK_RETURN
	TOK_LET

	TOK_ARRAY
	TOK_NUMERIC
	TOK_NONE

	TOK_TRUE
	TOK_FALSE

	TOK_AND
	TOK_OR
	TOK_NOT

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_ASSIGN
	TOK_ARROW
	TOK_REVARROW
	TOK_QUESTION

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_LBRACE
	TOK_RBRACE
	TOK_COMMA
	TOK_COLON
	TOK_SEMI

	TOK_IDENT
	TOK_NUMBER
	TOK_STRING

	TOK_EOF
)

// tokenNames names every token kind.  Fixed tokens are named by their lexeme.
var tokenNames = [TOK_EOF + 1]string{
	TOK_FC:       "fc",
	TOK_IF:       "if",
	TOK_NOTIF:    "notif",
	TOK_LOOP:     "loop",
	TOK_FOR:      "for",
	TOK_RETURN:   "return",
	TOK_LET:      "let",
	TOK_ARRAY:    "array",
	TOK_NUMERIC:  "numeric",
	TOK_NONE:     "none",
	TOK_TRUE:     "true",
	TOK_FALSE:    "false",
	TOK_AND:      "and",
	TOK_OR:       "or",
	TOK_NOT:      "not",
	TOK_PLUS:     "+",
	TOK_MINUS:    "-",
	TOK_STAR:     "*",
	TOK_DIV:      "/",
	TOK_MOD:      "%",
	TOK_EQ:       "==",
	TOK_NEQ:      "!=",
	TOK_LT:       "<",
	TOK_GT:       ">",
	TOK_LTEQ:     "<=",
	TOK_GTEQ:     ">=",
	TOK_ASSIGN:   "=",
	TOK_ARROW:    "->",
	TOK_REVARROW: "<-",
	TOK_QUESTION: "?",
	TOK_LPAREN:   "(",
	TOK_RPAREN:   ")",
	TOK_LBRACKET: "[",
	TOK_RBRACKET: "]",
	TOK_LBRACE:   "{",
	TOK_RBRACE:   "}",
	TOK_COMMA:    ",",
	TOK_COLON:    ":",
	TOK_SEMI:     ";",
	TOK_IDENT:    "identifier",
	TOK_NUMBER:   "number",
	TOK_STRING:   "string",
	TOK_EOF:      "end of input",
}

// KindName returns the display name of a token kind.
func KindName(kind int) string {
	if kind < 0 || kind > TOK_EOF {
		return fmt.Sprintf("<token kind %d>", kind)
	}

	return tokenNames[kind]
}

// describe renders the token the way error messages quote it: identifiers in
// double quotes, end of input in words, everything else in backticks.
func (t *Token) describe() string {
	switch t.Kind {
	case TOK_IDENT:
		return fmt.Sprintf("\"%s\"", t.Value)
	case TOK_STRING:
		return fmt.Sprintf("'%s'", t.Value)
	case TOK_EOF:
		return tokenNames[TOK_EOF]
	default:
		return "`" + t.Value + "`"
	}
}

// String renders the token for token dumps: eg. `IDENT(count) 3:5`.
func (t *Token) String() string {
	switch t.Kind {
	case TOK_IDENT:
		return fmt.Sprintf("IDENT(%s) %s", t.Value, t.Position)
	case TOK_NUMBER:
		return fmt.Sprintf("NUMBER(%s) %s", t.Value, t.Position)
	case TOK_STRING:
		return fmt.Sprintf("STRING(%s) %s", t.Value, t.Position)
	default:
		return fmt.Sprintf("%s %s", tokenNames[t.Kind], t.Position)
	}
}
