package syntax

import (
	"io"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"teslang/ir"
	"teslang/report"
	"teslang/sem"
)

type parseResult struct {
	ok    bool
	lines []string
	rep   *report.Reporter
}

func parseWith(src string, emit ir.Emitter, warnUnused bool) (bool, *report.Reporter) {
	rep := report.NewReporter(report.LogLevelSilent, io.Discard)
	table := sem.NewSymbolTable(rep)
	table.RegisterNatives()

	p := NewParser(NewLexer(strings.NewReader(src)), table, emit, rep)
	p.SetWarnUnused(warnUnused)
	return p.Parse(), rep
}

func parseSource(t *testing.T, src string) *parseResult {
	t.Helper()

	b := ir.NewBuilder()
	ok, rep := parseWith(src, b, false)

	var lines []string
	for _, instr := range b.Instructions() {
		lines = append(lines, instr.String())
	}

	return &parseResult{ok: ok, lines: lines, rep: rep}
}

// parseClean parses a source file that must not produce any errors.
func parseClean(t *testing.T, src string) []string {
	t.Helper()

	res := parseSource(t, src)
	be.True(t, res.ok)
	be.Equal(t, res.rep.Errors(), []string(nil))
	return res.lines
}

func containsLine(lines []string, line string) bool {
	for _, l := range lines {
		if l == line {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

func TestParseFunction(t *testing.T) {
	lines := parseClean(t, "fc add(a: numeric, b: numeric) -> numeric: return a + b;")
	be.Equal(t, lines, []string{
		"proc add",
		"add r3, r1, r2",
		"mov r0, r3",
		"ret",
		"ret",
	})
}

func TestParseVarDeclAndCall(t *testing.T) {
	lines := parseClean(t, `
fc main() -> none: {
    let x: numeric = 2;
    let y: numeric;
    print(x * 3);
}
`)
	be.Equal(t, lines, []string{
		"proc main",
		"mov r1, 2",
		"mov r2, r1",
		"mov r3, 0",
		"mov r4, 3",
		"mul r5, r2, r4",
		"call iput, r5",
		"ret",
	})
}

func TestParsePrecedence(t *testing.T) {
	lines := parseClean(t, "fc f(a: numeric, b: numeric, c: numeric) -> numeric: return a + b * c % 2 - -a;")
	be.Equal(t, lines, []string{
		"proc f",
		"mul r4, r2, r3",
		"mov r5, 2",
		"mod r6, r4, r5",
		"add r7, r1, r6",
		"mov r8, 0",
		"sub r9, r8, r1",
		"sub r10, r7, r9",
		"mov r0, r10",
		"ret",
		"ret",
	})
}

func TestParseNotEqualAndNot(t *testing.T) {
	lines := parseClean(t, "fc f(a: numeric) -> numeric: return not (a != 1);")
	be.Equal(t, lines, []string{
		"proc f",
		"mov r2, 1",
		"cmp= r3, r1, r2",
		"mov r4, 0",
		"cmp= r3, r3, r4",
		"mov r5, 0",
		"cmp= r6, r3, r5",
		"mov r0, r6",
		"ret",
		"ret",
	})
}

func TestParseShortCircuit(t *testing.T) {
	lines := parseClean(t, "fc f(a: numeric, b: numeric) -> numeric: return a and b;")
	be.Equal(t, lines, []string{
		"proc f",
		"mov r3, 0",
		"jz r1, Label0",
		"mov r4, 0",
		"cmp= r3, r2, r4",
		"mov r5, 0",
		"cmp= r3, r3, r5",
		"Label0:",
		"mov r0, r3",
		"ret",
		"ret",
	})

	lines = parseClean(t, "fc g(a: numeric, b: numeric) -> numeric: return a or b;")
	be.Equal(t, lines[1], "mov r3, 1")
	be.Equal(t, lines[2], "jnz r1, Label0")
}

func TestParseTernary(t *testing.T) {
	lines := parseClean(t, "fc f(a: numeric) -> numeric: return a ? 1 : 2;")
	be.Equal(t, lines, []string{
		"proc f",
		"jz r1, Label0",
		"mov r3, 1",
		"mov r2, r3",
		"jmp Label1",
		"Label0:",
		"mov r4, 2",
		"mov r2, r4",
		"Label1:",
		"mov r0, r2",
		"ret",
		"ret",
	})
}

func TestParseLoop(t *testing.T) {
	lines := parseClean(t, "fc main() -> none: { let n: numeric = 3; loop n > 0: n = n - 1; }")
	be.Equal(t, lines, []string{
		"proc main",
		"mov r1, 3",
		"mov r2, r1",
		"Label0:",
		"mov r3, 0",
		"cmp> r4, r2, r3",
		"jz r4, Label1",
		"mov r5, 1",
		"sub r6, r2, r5",
		"mov r2, r6",
		"jmp Label0",
		"Label1:",
		"ret",
	})
}

func TestParseFor(t *testing.T) {
	lines := parseClean(t, "fc show(a: array) -> none: for x, i <- a: print(x);")
	be.Equal(t, lines, []string{
		"proc show",
		"mov r3, 0",
		"ld r4, r1",
		"Label0:",
		"cmp< r5, r3, r4",
		"jz r5, Label1",
		"mov r6, 1",
		"add r7, r3, r6",
		"mov r8, 8",
		"mul r9, r7, r8",
		"add r10, r1, r9",
		"ld r11, r10",
		"mov r2, r11",
		"call iput, r2",
		"mov r12, 1",
		"add r3, r3, r12",
		"jmp Label0",
		"Label1:",
		"ret",
	})
}

func TestParseArrays(t *testing.T) {
	lines := parseClean(t, `
fc main() -> none: {
    let a: array = [1, 2, 3];
    print(len(a));
    print(a[0]);
    a[1] = 7;
}
`)

	// elements are evaluated first, then the array is allocated with its
	// length in slot 0
	be.Equal(t, lines[1:9], []string{
		"mov r1, 1",
		"mov r2, 2",
		"mov r3, 3",
		"mov r4, 3",
		"mov r5, 8",
		"mul r6, r4, r5",
		"add r6, r6, r5",
		"call mem, r7, r6",
	})
	be.Equal(t, lines[9], "st r4, r7")
	be.True(t, containsLine(lines, "st r1, r13"))
	be.True(t, containsLine(lines, "mov r26, r7"))

	// len(a) loads slot 0 and a[0] loads base + (0+1)*8
	be.True(t, containsLine(lines, "ld r27, r26"))
	be.True(t, containsLine(lines, "call iput, r27"))
	be.True(t, containsLine(lines, "add r33, r26, r32"))
	be.True(t, containsLine(lines, "ld r34, r33"))
	be.True(t, containsLine(lines, "call iput, r34"))

	be.Equal(t, lines[len(lines)-2], "st r41, r40")
}

func TestParseStringLiteral(t *testing.T) {
	lines := parseClean(t, "fc main() -> none: { let s: array = 'hi'; print(s[1]); }")
	be.Equal(t, lines[1], "mov r1, 104")
	be.Equal(t, lines[2], "mov r2, 105")
	be.Equal(t, lines[3], "mov r3, 2")
}

func TestParseBooleans(t *testing.T) {
	lines := parseClean(t, "fc main() -> none: { print(true); print(false); }")
	be.Equal(t, lines, []string{
		"proc main",
		"mov r1, 1",
		"call iput, r1",
		"mov r2, 0",
		"call iput, r2",
		"ret",
	})
}

func TestParseNatives(t *testing.T) {
	lines := parseClean(t, "fc main() -> none: { let n: numeric = input(); let a: array = Array(n); exit(); }")
	be.True(t, containsLine(lines, "call iget, r1"))
	be.True(t, containsLine(lines, "mov r2, r1"))
	be.True(t, containsLine(lines, "st r2, r5"))
	be.Equal(t, lines[len(lines)-2:], []string{"ret", "ret"})
}

func TestParseRecursion(t *testing.T) {
	lines := parseClean(t, "fc fact(n: numeric) -> numeric: return n < 2 ? 1 : n * fact(n - 1);")
	be.True(t, containsLine(lines, "call fact, r8, r7"))
}

func TestParseIdempotent(t *testing.T) {
	src := `
fc sum(a: array) -> numeric: {
    let total: numeric = 0;
    for x, i <- a: total = total + x;
    return total;
}

fc main() -> none: {
    let a: array = [1, 2, 3];
    if sum(a) > 5 and len(a) == 3: print(sum(a)); notif: print(0);
}
`
	first := parseClean(t, src)
	second := parseClean(t, src)
	be.Equal(t, first, second)
}

func TestParamNamedLikeFunction(t *testing.T) {
	lines := parseClean(t, "fc f(f: numeric) -> numeric: { return f; }")
	be.Equal(t, lines, []string{
		"proc f",
		"mov r0, r1",
		"ret",
		"ret",
	})
}

func TestParamShadowedInBody(t *testing.T) {
	res := parseSource(t, "fc f(a: numeric) -> none: { let a: array = [1]; print(len(a)); }")
	be.Equal(t, res.rep.Errors(), []string(nil))

	res = parseSource(t, "fc g(a: numeric) -> none: let a: numeric = 1;")
	be.Equal(t, res.rep.Errors(), []string{"semantic error: symbol `a` already declared in scope g-1 at 1:31"})
}

func TestReservedFunctionNames(t *testing.T) {
	res := parseSource(t, "fc mem(n: numeric) -> numeric: return n + 1;\nfc main() -> none: print(mem(4));")
	be.Equal(t, res.rep.Errors(), []string{
		"semantic error: function name `mem` is reserved by the virtual machine at 1:4",
		"semantic error: undeclared function `mem` at 2:26",
	})
	be.True(t, !containsLine(res.lines, "proc mem"))

	for _, name := range []string{"iput", "iget", "ret"} {
		res := parseSource(t, "fc "+name+"() -> none: return;")
		be.Equal(t, res.rep.ErrorCount(), 1)
		be.Equal(t, res.lines, []string(nil))
	}
}

func TestRedefinitionNotEmitted(t *testing.T) {
	res := parseSource(t, "fc f() -> none: print(1);\nfc f() -> none: print(2);")
	be.Equal(t, res.rep.Errors(), []string{"semantic error: symbol `f` already declared in scope f-0 at 2:4"})
	be.Equal(t, res.lines, []string{"proc f", "mov r1, 1", "call iput, r1", "ret"})
}

// -----------------------------------------------------------------------------

func TestShadowing(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    let x: numeric = 1;
    {
        let x: array = [1];
        let y: numeric = len(x);
        {
            print(y);
        }
    }
    {
        print(y);
    }
    print(x);
}
`)
	be.True(t, res.ok)
	be.Equal(t, res.rep.Errors(), []string{"semantic error: undeclared variable `y` at 12:15"})
}

func TestSiblingFunctionsIsolated(t *testing.T) {
	res := parseSource(t, `
fc f(a: numeric) -> none: print(a);
fc g() -> none: print(a);
`)
	be.Equal(t, res.rep.Errors(), []string{"semantic error: undeclared variable `a` at 3:23"})
}

func TestAssignmentTypes(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    let a: array = [1];
    let n: numeric = 0;
    n = 5;
    n = a;
}
`)
	be.Equal(t, res.rep.Errors(), []string{"semantic error: cannot assign to `n`: expected numeric but got array at 6:9"})
}

func TestDeclarationTypes(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    let a: numeric = [1];
    let b: none;
    let c: numeric;
    let c: numeric;
}
`)
	be.Equal(t, res.rep.Errors(), []string{
		"semantic error: cannot initialize `a`: expected numeric but got array at 3:22",
		"semantic error: variable `b` cannot be declared none at 4:9",
		"semantic error: symbol `c` already declared in scope main-2 at 6:9",
	})
}

func TestCallChecks(t *testing.T) {
	cases := []struct {
		call string
		want string
	}{
		{"f(1, 2)", "semantic error: function `f` expects 1 argument but got 2 at 3:20"},
		{"f([1])", "semantic error: argument 1 of `f`: expected numeric but got array at 3:22"},
		{"f()", "semantic error: function `f` expects 1 argument but got 0 at 3:20"},
		{"g(1)", "semantic error: undeclared function `g` at 3:20"},
		{"len(1)", "semantic error: argument 1 of `len`: expected array but got numeric at 3:24"},
	}

	for _, c := range cases {
		t.Run(c.call, func(t *testing.T) {
			res := parseSource(t, "fc f(a: numeric) -> numeric: return a;\n\nfc main() -> none: "+c.call+";")
			be.Equal(t, res.rep.Errors(), []string{c.want})
		})
	}
}

func TestForwardCall(t *testing.T) {
	res := parseSource(t, "fc main() -> none: later();\nfc later() -> none: return;")
	be.Equal(t, res.rep.Errors(), []string{"semantic error: undeclared function `later` at 1:20"})
}

func TestReturnTypes(t *testing.T) {
	res := parseSource(t, `
fc f() -> numeric: return [1];
fc g() -> numeric: return;
fc h() -> none: return 1;
fc k() -> array: return [1];
`)
	be.Equal(t, res.rep.Errors(), []string{
		"semantic error: invalid return value for `f`: expected numeric but got array at 2:27",
		"semantic error: function `g` must return a value of type numeric at 3:20",
		"semantic error: invalid return value for `h`: expected none but got numeric at 4:24",
	})
}

func TestOperandTypes(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    let a: array = [1];
    let n: numeric = a + 1;
    if a: print(1);
    print(-a);
    print(a[a]);
    print(n[0]);
}
`)
	be.Equal(t, res.rep.Errors(), []string{
		"semantic error: operator `+` expects numeric operands but got array and numeric at 4:24",
		"semantic error: invalid condition: expected numeric but got array at 5:8",
		"semantic error: operator `-` expects a numeric operand but got array at 6:11",
		"semantic error: invalid index into `a`: expected numeric but got array at 7:13",
		"semantic error: cannot index `n`: expected array but got numeric at 8:11",
	})
}

func TestUnknownSuppressesCascade(t *testing.T) {
	res := parseSource(t, "fc main() -> none: { let n: numeric = missing + 1 * missing; print(n); }")
	be.Equal(t, res.rep.ErrorCount(), 2)
	for _, err := range res.rep.Errors() {
		be.True(t, strings.Contains(err, "undeclared variable `missing`"))
	}
}

func TestForTypes(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    for x, i <- 5: print(x + i);
    print(x);
}
`)
	be.Equal(t, res.rep.Errors(), []string{
		"semantic error: cannot iterate over value: expected array but got numeric at 3:17",
		"semantic error: undeclared variable `x` at 4:11",
	})
}

// -----------------------------------------------------------------------------

func TestRecoverMissingSemicolon(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    let a: numeric = 1
    print(2);
    print(3);
}
`)
	be.True(t, res.ok)
	be.Equal(t, res.rep.Errors(), []string{"syntax error: expected `;` but got \"print\" at 4:5"})
	be.True(t, containsLine(res.lines, "call iput, r2"))
}

func TestRecoveryKeepsChecking(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    print(1 +);
    let b: array = 5;
}

fc other() -> none: print([1]);
`)
	be.Equal(t, res.rep.Errors(), []string{
		"syntax error: expected an expression but got `)` at 3:14",
		"semantic error: cannot initialize `b`: expected array but got numeric at 4:20",
		"semantic error: argument 1 of `print`: expected numeric but got array at 7:27",
	})
}

func TestRecoveryAcrossBlockEnd(t *testing.T) {
	res := parseSource(t, `
fc main() -> none: {
    { let x: numeric = 1; print(x) }
    print(x);
}
`)
	// discarding up to the next `;` swallows the inner block's `}` along with
	// the statement after it
	be.Equal(t, res.rep.Errors(), []string{
		"syntax error: expected `;` but got `}` at 3:36",
		"syntax error: expected `}` but got end of input at 6:1",
	})
}

func TestRecoverStmtRestoresScope(t *testing.T) {
	rep := report.NewReporter(report.LogLevelSilent, io.Discard)
	table := sem.NewSymbolTable(rep)
	p := NewParser(NewLexer(strings.NewReader("a b ; c")), table, ir.NewBuilder(), rep)

	p.next()
	p.ctx.funcName = "main"
	p.pushScope()

	func() {
		defer p.recoverStmt(p.ctx.depth, len(p.ctx.decls[p.ctx.depth]))

		p.pushScope()
		p.declareVariable(&Token{Kind: TOK_IDENT, Value: "x", Position: report.NewPosition(1, 1, 1)}, sem.TypeNumeric, true)
		p.rejectExpected("`;`")
	}()

	be.Equal(t, p.ctx.depth, 1)
	be.Equal(t, len(p.ctx.decls), 2)
	be.True(t, table.Lookup("x", sem.Scope{Func: "main", Depth: 2}, sem.LookupVariable) == nil)
	be.Equal(t, p.tok.Value, "c")
	be.Equal(t, rep.Errors(), []string{"syntax error: expected `;` but got \"a\" at 1:1"})
}

func TestRecoverTopLevel(t *testing.T) {
	res := parseSource(t, "let x: numeric = 1;\nfc main() -> none: print(1);")
	be.True(t, res.ok)
	be.Equal(t, res.rep.Errors(), []string{"syntax error: expected `fc` but got `let` at 1:1"})
	be.Equal(t, res.lines, []string{"proc main", "mov r1, 1", "call iput, r1", "ret"})
}

func TestRecoverBadHeader(t *testing.T) {
	res := parseSource(t, "fc broken(a numeric) -> none: print(a);\nfc main() -> none: print(1);")
	be.Equal(t, res.rep.Errors(), []string{"syntax error: expected `:` but got `numeric` at 1:13"})
	be.True(t, containsLine(res.lines, "proc main"))
}

func TestUnclosedBlockReportsOnce(t *testing.T) {
	res := parseSource(t, "fc main() -> none: { print(1);")
	be.Equal(t, res.rep.Errors(), []string{"syntax error: expected `}` but got end of input at 1:31"})

	res = parseSource(t, "fc main() -> none: { print(1")
	be.Equal(t, res.rep.ErrorCount(), 1)
}

func TestLexicalErrorAborts(t *testing.T) {
	res := parseSource(t, "fc main() -> none: print($);\nfc other() -> none: print(undefined);")
	be.True(t, !res.ok)
	be.Equal(t, res.rep.Errors(), []string{"lexical error: unrecognized character `$` at 1:26"})
}

func TestUnusedWarnings(t *testing.T) {
	_, rep := parseWith("fc main() -> none: { let x: numeric = 1; let y: numeric = 2; print(y); }", ir.NewBuilder(), true)
	be.Equal(t, rep.Errors(), []string(nil))
	be.Equal(t, rep.Warnings(), []string{"semantic warning: variable `x` is declared but never used at 1:26"})

	_, rep = parseWith("fc main() -> none: { let x: numeric = 1; }", ir.NewBuilder(), false)
	be.Equal(t, rep.Warnings(), []string(nil))
}
