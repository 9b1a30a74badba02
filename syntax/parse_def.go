package syntax

import (
	"teslang/ir"
	"teslang/sem"
)

// file = {funcdef} EOF
func (p *Parser) parseFile() {
	for !p.got(TOK_EOF) {
		if p.got(TOK_FC) {
			p.parseFuncDef()
			continue
		}

		func() {
			defer p.recoverDef()
			p.rejectExpected(expectedName(TOK_FC))
		}()
	}
}

// funcdef = 'fc' IDENT '(' [param {',' param}] ')' '->' type ':' body
//
// The function is declared before its body is parsed so that it may call
// itself.  Its parameters are declared at depth 1 of its scope, the same depth
// as its body statement, and occupy the registers r1 through rn.  A function
// that is redefined or named after a VM call target is still checked but its
// code is discarded.
func (p *Parser) parseFuncDef() {
	defer p.recoverDef()

	p.expect(TOK_FC)
	nameTok := p.expect(TOK_IDENT)

	reserved := ir.IsNativeTarget(nameTok.Value)
	if reserved {
		p.errorOn(nameTok, "function name `%s` is reserved by the virtual machine", nameTok.Value)
	}

	if reserved || p.table.Lookup(nameTok.Value, sem.Scope{}, sem.LookupFunction) != nil {
		emit := p.emit
		p.emit = ir.NewBuilder()
		defer func() { p.emit = emit }()
	}

	p.ctx.funcName = nameTok.Value
	p.emit.EmitFunctionPrologue(nameTok.Value)

	p.expect(TOK_LPAREN)

	var paramToks []*Token
	var params []sem.Param
	if !p.got(TOK_RPAREN) {
		for {
			paramTok, param := p.parseParam()
			paramToks = append(paramToks, paramTok)
			params = append(params, param)

			if p.got(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}
	}

	p.expect(TOK_RPAREN)
	p.expect(TOK_ARROW)
	rtType := p.parseType()
	p.expect(TOK_COLON)

	fn := sem.NewFunction(nameTok.Value, params, rtType, nameTok.Position)
	if p.table.Insert(nameTok.Value, fn) && reserved {
		// a reserved function is only visible inside its own body
		defer p.table.Remove(fn.Name, fn.Scope)
	}

	p.pushScope()

	for i, paramTok := range paramToks {
		p.declareVariable(paramTok, params[i].Type, false)
	}

	p.parseStmt()
	p.popScope()

	// implicit return at the end of every function
	p.emit.EmitReturn()

	p.restoreScope(0, 0)
	p.ctx.funcName = sem.GlobalFunc
}

// param = IDENT ':' type
func (p *Parser) parseParam() (*Token, sem.Param) {
	nameTok := p.expect(TOK_IDENT)
	p.expect(TOK_COLON)

	typ := p.parseType()
	if typ == sem.TypeNone {
		p.errorOn(nameTok, "parameter `%s` cannot be of type none", nameTok.Value)
		typ = sem.TypeUnknown
	}

	return nameTok, sem.Param{Name: nameTok.Value, Type: typ}
}

// type = 'numeric' | 'array' | 'none'
func (p *Parser) parseType() sem.Type {
	var typ sem.Type
	switch p.tok.Kind {
	case TOK_NUMERIC:
		typ = sem.TypeNumeric
	case TOK_ARRAY:
		typ = sem.TypeArray
	case TOK_NONE:
		typ = sem.TypeNone
	default:
		p.rejectExpected("a type")
	}

	p.next()
	return typ
}
