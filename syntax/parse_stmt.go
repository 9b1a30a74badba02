package syntax

import (
	"teslang/ir"
	"teslang/sem"
)

// stmt = block | vardecl | if | loop | for | return | expr ';'
//
// A syntax error inside the statement is recovered from here: the statement's
// declarations are discarded and parsing resumes after the next `;`.
func (p *Parser) parseStmt() {
	defer p.recoverStmt(p.ctx.depth, len(p.ctx.decls[p.ctx.depth]))

	switch p.tok.Kind {
	case TOK_LBRACE:
		p.parseBlock()
	case TOK_LET:
		p.parseVarDecl()
	case TOK_IF:
		p.parseIf()
	case TOK_LOOP:
		p.parseLoop()
	case TOK_FOR:
		p.parseFor()
	case TOK_RETURN:
		p.parseReturn()
	default:
		p.parseExpr()
		p.expect(TOK_SEMI)
	}
}

// block = '{' {stmt} '}'
func (p *Parser) parseBlock() {
	p.expect(TOK_LBRACE)
	p.pushScope()

	for !p.gotOneOf(TOK_RBRACE, TOK_EOF) {
		p.parseStmt()
	}

	p.popScope()
	p.expect(TOK_RBRACE)
}

// parseBody parses the body of a control flow statement in its own scope.
func (p *Parser) parseBody() {
	p.pushScope()
	p.parseStmt()
	p.popScope()
}

// vardecl = 'let' IDENT ':' type ['=' expr] ';'
//
// The variable is declared after its initializer so the initializer sees any
// outer variable of the same name.  Variables without an initializer are set to
// zero.
func (p *Parser) parseVarDecl() {
	p.expect(TOK_LET)
	nameTok := p.expect(TOK_IDENT)
	p.expect(TOK_COLON)

	typ := p.parseType()
	if typ == sem.TypeNone {
		p.errorOn(nameTok, "variable `%s` cannot be declared none", nameTok.Value)
		typ = sem.TypeUnknown
	}

	var initReg string
	if p.got(TOK_ASSIGN) {
		p.next()

		exprPos := p.tok.Position
		var initType sem.Type
		initReg, initType = p.parseExpr()

		p.checkType(exprPos, typ, initType, "cannot initialize `%s`", nameTok.Value)
	}

	p.expect(TOK_SEMI)

	sym := p.declareVariable(nameTok, typ, true)
	if initReg == "" {
		p.emit.EmitAssignment(sym.Register, "0")
	} else {
		p.emit.EmitAssignment(sym.Register, initReg)
	}
}

// if = 'if' expr ':' stmt ['notif' ':' stmt]
func (p *Parser) parseIf() {
	p.expect(TOK_IF)
	cond := p.parseCondition()
	p.expect(TOK_COLON)

	elseLabel := p.emit.NewLabel()
	p.emit.EmitBranchIfFalse(cond, elseLabel)

	p.parseBody()

	if p.got(TOK_NOTIF) {
		p.next()
		p.expect(TOK_COLON)

		endLabel := p.emit.NewLabel()
		p.emit.EmitJump(endLabel)
		p.emit.SetLabel(elseLabel)

		p.parseBody()

		p.emit.SetLabel(endLabel)
	} else {
		p.emit.SetLabel(elseLabel)
	}
}

// loop = 'loop' expr ':' stmt
func (p *Parser) parseLoop() {
	p.expect(TOK_LOOP)

	topLabel := p.emit.NewLabel()
	p.emit.SetLabel(topLabel)

	cond := p.parseCondition()
	p.expect(TOK_COLON)

	endLabel := p.emit.NewLabel()
	p.emit.EmitBranchIfFalse(cond, endLabel)

	p.parseBody()

	p.emit.EmitJump(topLabel)
	p.emit.SetLabel(endLabel)
}

// for = 'for' IDENT ',' IDENT '<-' expr ':' stmt
//
// The item and index variables are declared at the body's depth.  The loop
// counts the index from zero up to the length stored in the array's slot 0,
// loading each element into the item variable before running the body.
func (p *Parser) parseFor() {
	p.expect(TOK_FOR)
	itemTok := p.expect(TOK_IDENT)
	p.expect(TOK_COMMA)
	indexTok := p.expect(TOK_IDENT)
	p.expect(TOK_REVARROW)

	exprPos := p.tok.Position
	base, typ := p.parseExpr()
	p.checkType(exprPos, sem.TypeArray, typ, "cannot iterate over value")

	p.expect(TOK_COLON)

	p.pushScope()

	item := p.declareVariable(itemTok, sem.TypeNumeric, false)
	index := p.declareVariable(indexTok, sem.TypeNumeric, false)

	p.emit.EmitAssignment(index.Register, "0")
	length := p.emit.LoadAt(base)

	topLabel := p.emit.NewLabel()
	p.emit.SetLabel(topLabel)

	inBounds := p.emit.NewTemp()
	p.emit.EmitOp(inBounds, index.Register, length, ir.BinLT)

	endLabel := p.emit.NewLabel()
	p.emit.EmitBranchIfFalse(inBounds, endLabel)

	addr := p.emit.ComputeElementAddress(base, index.Register)
	p.emit.EmitAssignment(item.Register, p.emit.LoadAt(addr))

	p.parseStmt()

	one := p.emit.NewConstant(1)
	p.emit.EmitOp(index.Register, index.Register, one, ir.BinAdd)
	p.emit.EmitJump(topLabel)
	p.emit.SetLabel(endLabel)

	p.popScope()
}

// return = 'return' [expr] ';'
func (p *Parser) parseReturn() {
	retTok := p.expect(TOK_RETURN)

	fn := p.table.Resolve("", p.scope(), sem.LookupEnclosingFunction, retTok.Position)

	if p.got(TOK_SEMI) {
		p.next()

		if fn != nil && fn.ReturnType != sem.TypeNone {
			p.errorOn(retTok, "function `%s` must return a value of type %s", fn.Name, fn.ReturnType)
		}

		p.emit.EmitReturn()
		return
	}

	exprPos := p.tok.Position
	val, typ := p.parseExpr()
	p.expect(TOK_SEMI)

	if fn != nil {
		p.checkType(exprPos, fn.ReturnType, typ, "invalid return value for `%s`", fn.Name)
	}

	p.emitMove("r0", val)
	p.emit.EmitReturn()
}

// parseCondition parses an expression used as a condition.
func (p *Parser) parseCondition() string {
	pos := p.tok.Position
	cond, typ := p.parseExpr()
	p.checkType(pos, sem.TypeNumeric, typ, "invalid condition")
	return cond
}
