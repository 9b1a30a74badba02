package syntax

import (
	"strconv"

	"teslang/ir"
	"teslang/sem"
)

// All expression parsing functions return the register holding the value of
// the expression along with its type.  Erroneous expressions have the unknown
// type.  Expressions of type none have no register.

// expr = or_expr ['?' expr ':' expr]
func (p *Parser) parseExpr() (string, sem.Type) {
	condPos := p.tok.Position
	cond, condType := p.parseOrExpr()

	if !p.got(TOK_QUESTION) {
		return cond, condType
	}

	p.next()
	p.checkType(condPos, sem.TypeNumeric, condType, "invalid condition")

	res := p.emit.NewTemp()
	elseLabel := p.emit.NewLabel()
	endLabel := p.emit.NewLabel()

	p.emit.EmitBranchIfFalse(cond, elseLabel)

	thenPos := p.tok.Position
	thenVal, thenType := p.parseExpr()
	p.emitMove(res, thenVal)
	p.emit.EmitJump(endLabel)

	p.expect(TOK_COLON)

	p.emit.SetLabel(elseLabel)
	elseVal, elseType := p.parseExpr()
	p.emitMove(res, elseVal)
	p.emit.SetLabel(endLabel)

	if !thenType.Equals(elseType) {
		p.errorAt(thenPos, "branches of conditional expression have different types: %s and %s", thenType, elseType)
		return res, sem.TypeUnknown
	}

	if thenType == sem.TypeUnknown {
		return res, elseType
	}

	return res, thenType
}

// or_expr = and_expr {'or' and_expr}
func (p *Parser) parseOrExpr() (string, sem.Type) {
	return p.parseLogical(TOK_OR, p.parseAndExpr)
}

// and_expr = eq_expr {'and' eq_expr}
func (p *Parser) parseAndExpr() (string, sem.Type) {
	return p.parseLogical(TOK_AND, p.parseEqExpr)
}

// parseLogical parses a chain of short-circuiting operators.  The result
// register starts with the short-circuit value (0 for `and`, 1 for `or`) and
// is only overwritten if the right operand is evaluated.
func (p *Parser) parseLogical(kind int, operand func() (string, sem.Type)) (string, sem.Type) {
	lhs, lhsType := operand()

	for p.got(kind) {
		opTok := p.tok
		p.next()

		var res string
		endLabel := p.emit.NewLabel()
		if kind == TOK_AND {
			res = p.emit.NewConstant(0)
			p.emit.EmitBranchIfFalse(lhs, endLabel)
		} else {
			res = p.emit.NewConstant(1)
			p.emit.EmitBranchIfTrue(lhs, endLabel)
		}

		rhs, rhsType := operand()
		p.checkOperands(opTok, lhsType, rhsType)

		zero := p.emit.NewConstant(0)
		p.emit.EmitOp(res, rhs, zero, ir.BinNE)
		p.emit.SetLabel(endLabel)

		lhs, lhsType = res, sem.TypeNumeric
	}

	return lhs, lhsType
}

var (
	eqOps = map[int]ir.BinaryOp{
		TOK_EQ:  ir.BinEQ,
		TOK_NEQ: ir.BinNE,
	}

	relOps = map[int]ir.BinaryOp{
		TOK_LT:   ir.BinLT,
		TOK_LTEQ: ir.BinLE,
		TOK_GT:   ir.BinGT,
		TOK_GTEQ: ir.BinGE,
	}

	addOps = map[int]ir.BinaryOp{
		TOK_PLUS:  ir.BinAdd,
		TOK_MINUS: ir.BinSub,
	}

	mulOps = map[int]ir.BinaryOp{
		TOK_STAR: ir.BinMul,
		TOK_DIV:  ir.BinDiv,
		TOK_MOD:  ir.BinMod,
	}
)

// eq_expr = rel_expr {('==' | '!=') rel_expr}
func (p *Parser) parseEqExpr() (string, sem.Type) {
	return p.parseBinary(eqOps, p.parseRelExpr)
}

// rel_expr = add_expr {('<' | '<=' | '>' | '>=') add_expr}
func (p *Parser) parseRelExpr() (string, sem.Type) {
	return p.parseBinary(relOps, p.parseAddExpr)
}

// add_expr = mul_expr {('+' | '-') mul_expr}
func (p *Parser) parseAddExpr() (string, sem.Type) {
	return p.parseBinary(addOps, p.parseMulExpr)
}

// mul_expr = unary {('*' | '/' | '%') unary}
func (p *Parser) parseMulExpr() (string, sem.Type) {
	return p.parseBinary(mulOps, p.parseUnary)
}

// parseBinary parses a left-associative chain of the given operators.  Each
// operation is computed into a fresh register.
func (p *Parser) parseBinary(ops map[int]ir.BinaryOp, operand func() (string, sem.Type)) (string, sem.Type) {
	lhs, lhsType := operand()

	for {
		op, ok := ops[p.tok.Kind]
		if !ok {
			return lhs, lhsType
		}

		opTok := p.tok
		p.next()

		rhs, rhsType := operand()
		p.checkOperands(opTok, lhsType, rhsType)

		dst := p.emit.NewTemp()
		p.emit.EmitOp(dst, lhs, rhs, op)

		lhs, lhsType = dst, sem.TypeNumeric
	}
}

// checkOperands checks that both operands of a binary operator are numeric.
func (p *Parser) checkOperands(opTok *Token, lhsType, rhsType sem.Type) {
	if !lhsType.IsNumeric() || !rhsType.IsNumeric() {
		p.errorOn(opTok, "operator `%s` expects numeric operands but got %s and %s", opTok.Value, lhsType, rhsType)
	}
}

// unary = ('not' | '+' | '-') unary | primary
func (p *Parser) parseUnary() (string, sem.Type) {
	if !p.gotOneOf(TOK_NOT, TOK_PLUS, TOK_MINUS) {
		return p.parsePrimary()
	}

	opTok := p.tok
	p.next()

	operand, typ := p.parseUnary()
	if !typ.IsNumeric() {
		p.errorOn(opTok, "operator `%s` expects a numeric operand but got %s", opTok.Value, typ)
	}

	switch opTok.Kind {
	case TOK_NOT:
		zero := p.emit.NewConstant(0)
		dst := p.emit.NewTemp()
		p.emit.EmitOp(dst, operand, zero, ir.BinEQ)
		return dst, sem.TypeNumeric
	case TOK_MINUS:
		zero := p.emit.NewConstant(0)
		dst := p.emit.NewTemp()
		p.emit.EmitOp(dst, zero, operand, ir.BinSub)
		return dst, sem.TypeNumeric
	default:
		return operand, sem.TypeNumeric
	}
}

// primary = NUMBER | STRING | 'true' | 'false' | '(' expr ')'
//         | '[' [expr {',' expr}] ']'
//         | IDENT | IDENT '[' expr ']' ['=' expr] | IDENT '=' expr
//         | IDENT '(' [expr {',' expr}] ')'
func (p *Parser) parsePrimary() (string, sem.Type) {
	switch p.tok.Kind {
	case TOK_NUMBER:
		numTok := p.tok
		p.next()

		n, err := strconv.ParseInt(numTok.Value, 10, 64)
		if err != nil {
			p.errorOn(numTok, "numeric literal `%s` is out of range", numTok.Value)
			return p.emit.NewTemp(), sem.TypeUnknown
		}

		return p.emit.NewConstant(n), sem.TypeNumeric
	case TOK_STRING:
		strTok := p.tok
		p.next()

		var elems []string
		for _, c := range strTok.Value {
			elems = append(elems, p.emit.NewConstant(int64(c)))
		}

		return p.emitArray(elems), sem.TypeArray
	case TOK_TRUE:
		p.next()
		return p.emit.NewConstant(1), sem.TypeNumeric
	case TOK_FALSE:
		p.next()
		return p.emit.NewConstant(0), sem.TypeNumeric
	case TOK_LPAREN:
		p.next()
		val, typ := p.parseExpr()
		p.expect(TOK_RPAREN)
		return val, typ
	case TOK_LBRACKET:
		return p.parseArrayLit()
	case TOK_IDENT:
		return p.parseIdentExpr()
	}

	p.rejectExpected("an expression")
	return "", sem.TypeUnknown
}

// array_lit = '[' [expr {',' expr}] ']'
func (p *Parser) parseArrayLit() (string, sem.Type) {
	p.expect(TOK_LBRACKET)

	var elems []string
	if !p.got(TOK_RBRACKET) {
		for {
			elemPos := p.tok.Position
			elem, typ := p.parseExpr()
			p.checkType(elemPos, sem.TypeNumeric, typ, "invalid array element")
			elems = append(elems, elem)

			if p.got(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}
	}

	p.expect(TOK_RBRACKET)
	return p.emitArray(elems), sem.TypeArray
}

// emitArray allocates an array holding the values in `elems`.
func (p *Parser) emitArray(elems []string) string {
	length := p.emit.NewConstant(int64(len(elems)))
	base := p.emit.AllocateArray(length)
	p.emit.StoreAt(base, length)

	for i, elem := range elems {
		index := p.emit.NewConstant(int64(i))
		p.emit.StoreAt(p.emit.ComputeElementAddress(base, index), elem)
	}

	return base
}

// -----------------------------------------------------------------------------

// parseIdentExpr peeks past an identifier to decide whether it starts a call,
// an index, an assignment or is a plain variable reference.
func (p *Parser) parseIdentExpr() (string, sem.Type) {
	switch p.peek().Kind {
	case TOK_LPAREN:
		return p.parseCall()
	case TOK_LBRACKET:
		return p.parseIndex()
	case TOK_ASSIGN:
		return p.parseAssign()
	}

	nameTok := p.expect(TOK_IDENT)

	sym := p.table.Resolve(nameTok.Value, p.scope(), sem.LookupVariable, nameTok.Position)
	if sym == nil {
		return p.emit.NewTemp(), sem.TypeUnknown
	}

	sym.Used = true
	return sym.Register, sym.Type
}

// IDENT '=' expr
func (p *Parser) parseAssign() (string, sem.Type) {
	nameTok := p.expect(TOK_IDENT)
	sym := p.table.Resolve(nameTok.Value, p.scope(), sem.LookupVariable, nameTok.Position)

	p.expect(TOK_ASSIGN)

	valPos := p.tok.Position
	val, typ := p.parseExpr()

	if sym == nil {
		return val, sem.TypeUnknown
	}

	p.checkType(valPos, sym.Type, typ, "cannot assign to `%s`", nameTok.Value)
	p.emitMove(sym.Register, val)
	return sym.Register, sym.Type
}

// IDENT '[' expr ']' ['=' expr]
func (p *Parser) parseIndex() (string, sem.Type) {
	nameTok := p.expect(TOK_IDENT)
	sym := p.table.Resolve(nameTok.Value, p.scope(), sem.LookupVariable, nameTok.Position)

	var base string
	if sym == nil {
		base = p.emit.NewTemp()
	} else {
		sym.Used = true
		base = sym.Register
		p.checkType(nameTok.Position, sem.TypeArray, sym.Type, "cannot index `%s`", nameTok.Value)
	}

	p.expect(TOK_LBRACKET)
	indexPos := p.tok.Position
	index, indexType := p.parseExpr()
	p.checkType(indexPos, sem.TypeNumeric, indexType, "invalid index into `%s`", nameTok.Value)
	p.expect(TOK_RBRACKET)

	addr := p.emit.ComputeElementAddress(base, index)

	if p.got(TOK_ASSIGN) {
		p.next()

		valPos := p.tok.Position
		val, typ := p.parseExpr()
		p.checkType(valPos, sem.TypeNumeric, typ, "cannot store into `%s`", nameTok.Value)

		p.emit.StoreAt(addr, val)
		return val, sem.TypeNumeric
	}

	return p.emit.LoadAt(addr), sem.TypeNumeric
}

// argument is an evaluated call argument.
type argument struct {
	reg string
	typ sem.Type
	tok *Token
}

// IDENT '(' [expr {',' expr}] ')'
//
// Arguments are checked against the callee's parameters: first their count and
// then the type of each.
func (p *Parser) parseCall() (string, sem.Type) {
	nameTok := p.expect(TOK_IDENT)
	fn := p.table.Resolve(nameTok.Value, p.scope(), sem.LookupFunction, nameTok.Position)

	p.expect(TOK_LPAREN)

	var args []argument
	if !p.got(TOK_RPAREN) {
		for {
			argTok := p.tok
			reg, typ := p.parseExpr()
			args = append(args, argument{reg: reg, typ: typ, tok: argTok})

			if p.got(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}
	}

	p.expect(TOK_RPAREN)

	if fn == nil {
		return p.emit.NewTemp(), sem.TypeUnknown
	}

	if len(args) != len(fn.Params) {
		p.errorOn(
			nameTok,
			"function `%s` expects %d %s but got %d",
			fn.Name,
			len(fn.Params),
			pluralize("argument", len(fn.Params)),
			len(args),
		)
		return p.emit.NewTemp(), fn.ReturnType
	}

	argRegs := make([]string, len(args))
	for i, arg := range args {
		p.checkType(arg.tok.Position, fn.Params[i].Type, arg.typ, "argument %d of `%s`", i+1, fn.Name)
		argRegs[i] = arg.reg
	}

	return p.emit.EmitCall(fn.Name, argRegs), fn.ReturnType
}

// -----------------------------------------------------------------------------

// emitMove copies src into dst.  Values of type none have no register and are
// not copied.
func (p *Parser) emitMove(dst, src string) {
	if src != "" {
		p.emit.EmitAssignment(dst, src)
	}
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
