package ir

import (
	"testing"

	"github.com/nalgeon/be"
)

func render(instrs []Instruction) []string {
	lines := make([]string, len(instrs))
	for i, instr := range instrs {
		lines[i] = instr.String()
	}

	return lines
}

func TestRegistersResetPerFunction(t *testing.T) {
	b := NewBuilder()

	b.EmitFunctionPrologue("f")
	be.Equal(t, b.NewTemp(), "r1")
	be.Equal(t, b.NewName("x"), "r2")

	b.EmitFunctionPrologue("g")
	be.Equal(t, b.NewTemp(), "r1")
}

func TestLabelsAreGlobal(t *testing.T) {
	b := NewBuilder()

	b.EmitFunctionPrologue("f")
	be.Equal(t, b.NewLabel(), "Label0")
	b.EmitFunctionPrologue("g")
	be.Equal(t, b.NewLabel(), "Label1")
}

func TestNewConstant(t *testing.T) {
	b := NewBuilder()
	b.EmitFunctionPrologue("f")

	reg := b.NewConstant(42)
	be.Equal(t, reg, "r1")
	be.Equal(t, render(b.Instructions()), []string{"proc f", "mov r1, 42"})
}

func TestEmitOp(t *testing.T) {
	cases := []struct {
		op   BinaryOp
		want string
	}{
		{BinAdd, "add r3, r1, r2"},
		{BinSub, "sub r3, r1, r2"},
		{BinMul, "mul r3, r1, r2"},
		{BinDiv, "div r3, r1, r2"},
		{BinMod, "mod r3, r1, r2"},
		{BinLT, "cmp< r3, r1, r2"},
		{BinLE, "cmp<= r3, r1, r2"},
		{BinGT, "cmp> r3, r1, r2"},
		{BinGE, "cmp>= r3, r1, r2"},
		{BinEQ, "cmp= r3, r1, r2"},
	}

	for _, c := range cases {
		t.Run(c.op.String(), func(t *testing.T) {
			b := NewBuilder()
			b.EmitOp("r3", "r1", "r2", c.op)
			be.Equal(t, render(b.Instructions()), []string{c.want})
		})
	}
}

func TestEmitNotEqual(t *testing.T) {
	b := NewBuilder()
	b.EmitFunctionPrologue("f")
	lhs, rhs, dst := b.NewTemp(), b.NewTemp(), b.NewTemp()
	b.EmitOp(dst, lhs, rhs, BinNE)

	be.Equal(t, render(b.Instructions()), []string{
		"proc f",
		"cmp= r3, r1, r2",
		"mov r4, 0",
		"cmp= r3, r3, r4",
	})
}

func TestControlFlow(t *testing.T) {
	b := NewBuilder()
	label := b.NewLabel()
	b.EmitBranchIfFalse("r1", label)
	b.EmitBranchIfTrue("r2", label)
	b.EmitJump(label)
	b.SetLabel(label)
	b.EmitReturn()

	be.Equal(t, render(b.Instructions()), []string{
		"jz r1, Label0",
		"jnz r2, Label0",
		"jmp Label0",
		"Label0:",
		"ret",
	})
}

func TestArrayHelpers(t *testing.T) {
	b := NewBuilder()
	b.EmitFunctionPrologue("f")

	length := b.NewConstant(3)
	base := b.AllocateArray(length)
	b.StoreAt(base, length)

	index := b.NewConstant(0)
	addr := b.ComputeElementAddress(base, index)
	val := b.LoadAt(addr)

	be.Equal(t, base, "r4")
	be.Equal(t, addr, "r10")
	be.Equal(t, val, "r11")
	be.Equal(t, render(b.Instructions()), []string{
		"proc f",
		"mov r1, 3",
		"mov r2, 8",
		"mul r3, r1, r2",
		"add r3, r3, r2",
		"call mem, r4, r3",
		"st r1, r4",
		"mov r5, 0",
		"mov r6, 1",
		"add r7, r5, r6",
		"mov r8, 8",
		"mul r9, r7, r8",
		"add r10, r4, r9",
		"ld r11, r10",
	})
}

func TestEmitCallUser(t *testing.T) {
	b := NewBuilder()
	b.EmitFunctionPrologue("main")

	res := b.EmitCall("add", []string{"r5", "r6"})
	be.Equal(t, res, "r1")
	be.Equal(t, render(b.Instructions())[1], "call add, r1, r5, r6")
}

func TestEmitCallNatives(t *testing.T) {
	b := NewBuilder()
	b.EmitFunctionPrologue("main")

	be.Equal(t, b.EmitCall("print", []string{"r7"}), "")
	be.Equal(t, b.EmitCall("input", nil), "r1")
	be.Equal(t, b.EmitCall("len", []string{"r5"}), "r2")
	be.Equal(t, b.EmitCall("exit", nil), "")

	be.Equal(t, render(b.Instructions()), []string{
		"proc main",
		"call iput, r7",
		"call iget, r1",
		"ld r2, r5",
		"ret",
	})
}

func TestEmitCallArray(t *testing.T) {
	b := NewBuilder()
	b.EmitFunctionPrologue("main")

	base := b.EmitCall("Array", []string{"r9"})
	be.Equal(t, base, "r3")

	lines := render(b.Instructions())
	be.Equal(t, lines[len(lines)-2], "call mem, r3, r2")
	be.Equal(t, lines[len(lines)-1], "st r9, r3")
}

func TestParseMnemonic(t *testing.T) {
	for op := OpMov; op < OpLabel; op++ {
		parsed, ok := ParseMnemonic(op.Mnemonic())
		be.True(t, ok)
		be.Equal(t, parsed, op)
	}

	_, ok := ParseMnemonic("label")
	be.True(t, !ok)
}

func TestIsRegister(t *testing.T) {
	be.True(t, IsRegister("r0"))
	be.True(t, IsRegister("r12"))
	be.True(t, !IsRegister("r"))
	be.True(t, !IsRegister("12"))
	be.True(t, !IsRegister("Label1"))
	be.True(t, !IsRegister("rx"))
}

func TestIsNativeTarget(t *testing.T) {
	for _, name := range []string{"iput", "iget", "mem", "len", "ret"} {
		be.True(t, IsNativeTarget(name))
	}

	be.True(t, !IsNativeTarget("print"))
	be.True(t, !IsNativeTarget("Array"))
	be.True(t, !IsNativeTarget("main"))
}
