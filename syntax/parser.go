package syntax

import (
	"fmt"

	"teslang/ir"
	"teslang/report"
	"teslang/sem"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse as well as any
// semantic actions they perform during parsing.

// Parser is the parser for a teslang source file.  It performs syntax
// analysis, symbol resolution, type checking and code emission in a single
// pass: it never builds a syntax tree.  The parser is a recursive descent
// parser: all parsing functions begin with the parser positioned on the first
// token of their production and consume all of its tokens, leaving the parser
// on the next token.  Parsers are created once per file.
type Parser struct {
	lexer *Lexer
	table *sem.SymbolTable
	emit  ir.Emitter
	rep   *report.Reporter

	// tok is the current token the parser is positioned on.
	tok *Token

	ctx *parseContext

	// warnUnused enables warnings for variables that are never read.
	warnUnused bool

	// eofRejected is set once a syntax error has been reported on the end of
	// input so that unclosed constructs only produce one error.
	eofRejected bool
}

// parseContext is the mutable state of the function currently being parsed.
type parseContext struct {
	funcName string
	depth    int

	// decls holds the variables declared at each open depth so that they can
	// be removed from the symbol table when their block closes.  decls[1]
	// holds the function's parameters.
	decls [][]*sem.Symbol
}

// NewParser creates a new parser pulling tokens from `lexer`, declaring
// symbols in `table` and emitting code to `emit`.
func NewParser(lexer *Lexer, table *sem.SymbolTable, emit ir.Emitter, rep *report.Reporter) *Parser {
	return &Parser{
		lexer: lexer,
		table: table,
		emit:  emit,
		rep:   rep,
		ctx:   &parseContext{funcName: sem.GlobalFunc, decls: [][]*sem.Symbol{nil}},
	}
}

// SetWarnUnused enables or disables unused variable warnings.
func (p *Parser) SetWarnUnused(warn bool) {
	p.warnUnused = warn
}

// syncSignal is the panic value used to unwind the parser to the nearest
// recovery point after a syntax error.
type syncSignal struct{}

// abortSignal is the panic value used to stop parsing after a lexical error.
type abortSignal struct{}

// Parse parses the whole file.  It returns false only if a lexical error
// stopped parsing: syntax and semantic errors are reported and parsing
// continues past them.
func (p *Parser) Parse() (ok bool) {
	defer func() {
		if x := recover(); x != nil {
			if _, isAbort := x.(abortSignal); !isAbort {
				panic(x)
			}

			ok = false
		}
	}()

	p.next()
	p.parseFile()
	return true
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.abort(err)
	}

	p.tok = tok
}

// peek returns the token after the current token without moving the parser.
func (p *Parser) peek() *Token {
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.abort(err)
	}

	p.lexer.PushBack(tok)
	return tok
}

// abort reports an error from the lexer and stops parsing.
func (p *Parser) abort(err error) {
	if lce, ok := err.(*report.LocalCompileError); ok {
		p.rep.ReportLocalError(report.KindLexical, lce)
	} else {
		p.rep.ReportCompileError(report.KindLexical, nil, "failed to read source: %s", err)
	}

	panic(abortSignal{})
}

// got returns true if the parser is on a token of a given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// gotOneOf returns if the parser's current token kind is one of given kinds.
func (p *Parser) gotOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// assert checks if the parser is on a token of a given kind and rejects it if
// not.
func (p *Parser) assert(kind int) {
	if !p.got(kind) {
		p.rejectExpected(expectedName(kind))
	}
}

// expect asserts that the parser is on a token of a given kind, moves past it
// and returns it.
func (p *Parser) expect(kind int) *Token {
	p.assert(kind)

	tok := p.tok
	p.next()
	return tok
}

// -----------------------------------------------------------------------------

// rejectExpected reports a syntax error on the current token and unwinds to the
// nearest recovery point.
func (p *Parser) rejectExpected(expected string) {
	if p.got(TOK_EOF) {
		if p.eofRejected {
			panic(syncSignal{})
		}

		p.eofRejected = true
	}

	p.rep.ReportCompileError(
		report.KindSyntax,
		p.tok.Position,
		"expected %s but got %s",
		expected,
		p.tok.describe(),
	)

	panic(syncSignal{})
}

// errorOn reports a semantic error on a given token.
func (p *Parser) errorOn(tok *Token, msg string, a ...interface{}) {
	p.rep.ReportCompileError(report.KindSemantic, tok.Position, msg, a...)
}

// errorAt reports a semantic error at a given position.
func (p *Parser) errorAt(pos *report.TextPosition, msg string, a ...interface{}) {
	p.rep.ReportCompileError(report.KindSemantic, pos, msg, a...)
}

// expectedName returns how a token kind is named in syntax errors.
func expectedName(kind int) string {
	switch kind {
	case TOK_IDENT, TOK_NUMBER, TOK_STRING, TOK_EOF:
		return KindName(kind)
	default:
		return "`" + KindName(kind) + "`"
	}
}

// -----------------------------------------------------------------------------

// recoverStmt is deferred by every statement.  It catches a syntax error
// raised while parsing the statement, restores the scope state the statement
// started with and discards tokens up to and including the next `;`.
func (p *Parser) recoverStmt(depth, declCount int) {
	x := recover()
	if x == nil {
		return
	}

	if _, ok := x.(syncSignal); !ok {
		panic(x)
	}

	p.restoreScope(depth, declCount)

	for !p.got(TOK_SEMI) && !p.got(TOK_EOF) {
		p.next()
	}

	if p.got(TOK_SEMI) {
		p.next()
	}
}

// recoverDef is deferred by every function definition.  It catches a syntax
// error in the definition's header, closes the function and discards tokens up
// to the next `fc`.
func (p *Parser) recoverDef() {
	x := recover()
	if x == nil {
		return
	}

	if _, ok := x.(syncSignal); !ok {
		panic(x)
	}

	p.restoreScope(0, 0)
	p.ctx.funcName = sem.GlobalFunc

	p.skipToDef()
}

// skipToDef discards tokens until the next `fc` or the end of input.
func (p *Parser) skipToDef() {
	for !p.got(TOK_FC) && !p.got(TOK_EOF) {
		p.next()
	}
}

// -----------------------------------------------------------------------------

// scope returns the scope tag of the current position.
func (p *Parser) scope() sem.Scope {
	return sem.Scope{Func: p.ctx.funcName, Depth: p.ctx.depth}
}

// pushScope opens a new block.
func (p *Parser) pushScope() {
	p.ctx.depth++
	p.ctx.decls = append(p.ctx.decls, nil)
}

// popScope closes the innermost block, removing the variables declared in it
// and warning about the ones that were never read.
func (p *Parser) popScope() {
	decls := p.ctx.decls[p.ctx.depth]
	p.ctx.decls = p.ctx.decls[:p.ctx.depth]
	p.ctx.depth--

	for _, sym := range decls {
		if p.warnUnused && !sym.Used {
			p.rep.ReportCompileWarning(
				report.KindSemantic,
				sym.DefPosition,
				"variable `%s` is declared but never used",
				sym.Name,
			)
		}

		p.table.Remove(sym.Name, sym.Scope)
	}
}

// restoreScope discards every block opened beyond `depth` and every variable
// declared at `depth` after the first `declCount`.  No warnings are produced
// for the discarded variables.
func (p *Parser) restoreScope(depth, declCount int) {
	for p.ctx.depth > depth {
		for _, sym := range p.ctx.decls[p.ctx.depth] {
			p.table.Remove(sym.Name, sym.Scope)
		}

		p.ctx.decls = p.ctx.decls[:p.ctx.depth]
		p.ctx.depth--
	}

	decls := p.ctx.decls[depth]
	if declCount < len(decls) {
		for _, sym := range decls[declCount:] {
			p.table.Remove(sym.Name, sym.Scope)
		}

		p.ctx.decls[depth] = decls[:declCount]
	}
}

// declareVariable declares a variable in the current scope and records it so
// that it is removed when the scope closes.  The variable is given a register
// regardless of whether the declaration succeeds.
func (p *Parser) declareVariable(nameTok *Token, typ sem.Type, warnIfUnused bool) *sem.Symbol {
	sym := sem.NewVariable(nameTok.Value, p.scope(), typ, p.emit.NewName(nameTok.Value), nameTok.Position)
	sym.Used = !warnIfUnused

	if p.table.Insert(nameTok.Value, sym) {
		p.ctx.decls[p.ctx.depth] = append(p.ctx.decls[p.ctx.depth], sym)
	}

	return sym
}

// -----------------------------------------------------------------------------

// checkType reports a mismatch between an expected and actual type.
func (p *Parser) checkType(pos *report.TextPosition, expected, actual sem.Type, format string, a ...interface{}) bool {
	if expected.Equals(actual) {
		return true
	}

	p.errorAt(pos, "%s: expected %s but got %s", fmt.Sprintf(format, a...), expected, actual)
	return false
}
