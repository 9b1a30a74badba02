package generate

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	tir "teslang/ir"
)

// operandCounts gives the exact number of operands of each opcode.  Calls
// take a variable number of operands and are checked separately.
var operandCounts = map[tir.Opcode]int{
	tir.OpMov:   2,
	tir.OpAdd:   3,
	tir.OpSub:   3,
	tir.OpMul:   3,
	tir.OpDiv:   3,
	tir.OpMod:   3,
	tir.OpCmpLT: 3,
	tir.OpCmpLE: 3,
	tir.OpCmpGT: 3,
	tir.OpCmpGE: 3,
	tir.OpCmpEQ: 3,
	tir.OpJmp:   1,
	tir.OpJnz:   2,
	tir.OpJz:    2,
	tir.OpRet:   0,
	tir.OpLd:    2,
	tir.OpSt:    2,
	tir.OpLabel: 1,
}

var predicates = map[tir.Opcode]enum.IPred{
	tir.OpCmpLT: enum.IPredSLT,
	tir.OpCmpLE: enum.IPredSLE,
	tir.OpCmpGT: enum.IPredSGT,
	tir.OpCmpGE: enum.IPredSGE,
	tir.OpCmpEQ: enum.IPredEQ,
}

// genInstr generates a single instruction into the current block.
func (g *Generator) genInstr(instr tir.Instruction) error {
	if count, ok := operandCounts[instr.Op]; ok && len(instr.Operands) != count {
		return fmt.Errorf("malformed instruction `%s`", instr)
	}

	if instr.Op == tir.OpLabel {
		target := g.labels[instr.Operands[0]]
		if g.block != nil && g.block.Term == nil {
			g.block.NewBr(target)
		}

		g.block = target
		return nil
	}

	// code following a terminator is unreachable but still needs a block
	if g.block == nil {
		g.block = g.enclosingFunc.NewBlock("")
	}

	switch instr.Op {
	case tir.OpMov:
		val, err := g.value(instr.Operands[1])
		if err != nil {
			return err
		}

		return g.store(instr.Operands[0], val)
	case tir.OpAdd, tir.OpSub, tir.OpMul, tir.OpDiv, tir.OpMod:
		return g.genArith(instr)
	case tir.OpCmpLT, tir.OpCmpLE, tir.OpCmpGT, tir.OpCmpGE, tir.OpCmpEQ:
		vals, err := g.values(instr.Operands[1:])
		if err != nil {
			return err
		}

		cmp := g.block.NewICmp(predicates[instr.Op], vals[0], vals[1])
		return g.store(instr.Operands[0], g.block.NewZExt(cmp, types.I64))
	case tir.OpJmp:
		target, err := g.label(instr.Operands[0])
		if err != nil {
			return err
		}

		g.block.NewBr(target)
		g.block = nil
	case tir.OpJnz, tir.OpJz:
		return g.genBranch(instr)
	case tir.OpCall:
		return g.genCall(instr)
	case tir.OpRet:
		g.genReturn()
	case tir.OpLd:
		ptr, err := g.addressOf(instr.Operands[1])
		if err != nil {
			return err
		}

		return g.store(instr.Operands[0], g.block.NewLoad(types.I64, ptr))
	case tir.OpSt:
		val, err := g.value(instr.Operands[0])
		if err != nil {
			return err
		}

		ptr, err := g.addressOf(instr.Operands[1])
		if err != nil {
			return err
		}

		g.block.NewStore(val, ptr)
	default:
		return fmt.Errorf("unexpected instruction `%s`", instr)
	}

	return nil
}

// genArith generates an arithmetic instruction.  Division and modulus are
// signed.
func (g *Generator) genArith(instr tir.Instruction) error {
	vals, err := g.values(instr.Operands[1:])
	if err != nil {
		return err
	}

	var result value.Value
	switch instr.Op {
	case tir.OpAdd:
		result = g.block.NewAdd(vals[0], vals[1])
	case tir.OpSub:
		result = g.block.NewSub(vals[0], vals[1])
	case tir.OpMul:
		result = g.block.NewMul(vals[0], vals[1])
	case tir.OpDiv:
		result = g.block.NewSDiv(vals[0], vals[1])
	case tir.OpMod:
		result = g.block.NewSRem(vals[0], vals[1])
	}

	return g.store(instr.Operands[0], result)
}

// genBranch generates a conditional jump.  Execution continues in a new block
// when the jump is not taken.
func (g *Generator) genBranch(instr tir.Instruction) error {
	cond, err := g.value(instr.Operands[0])
	if err != nil {
		return err
	}

	target, err := g.label(instr.Operands[1])
	if err != nil {
		return err
	}

	isTrue := g.block.NewICmp(enum.IPredNE, cond, constant.NewInt(types.I64, 0))
	next := g.enclosingFunc.NewBlock("")

	if instr.Op == tir.OpJnz {
		g.block.NewCondBr(isTrue, target, next)
	} else {
		g.block.NewCondBr(isTrue, next, target)
	}

	g.block = next
	return nil
}

// genCall generates a call to a function of the module or to a native.
// Functions of the module take precedence over natives of the same name.
func (g *Generator) genCall(instr tir.Instruction) error {
	if len(instr.Operands) == 0 {
		return fmt.Errorf("malformed instruction `%s`", instr)
	}

	target, operands := instr.Operands[0], instr.Operands[1:]
	if callee, ok := g.funcs[target]; ok {
		if len(operands) != len(callee.Params)+1 {
			return fmt.Errorf("malformed instruction `%s`", instr)
		}

		args, err := g.values(operands[1:])
		if err != nil {
			return err
		}

		return g.store(operands[0], g.block.NewCall(callee, args...))
	}

	switch target {
	case tir.NativePrint:
		if len(operands) != 1 {
			return fmt.Errorf("malformed instruction `%s`", instr)
		}

		val, err := g.value(operands[0])
		if err != nil {
			return err
		}

		g.block.NewCall(g.runtimePrint, val)
		return nil
	case tir.NativeInput:
		if len(operands) != 1 {
			return fmt.Errorf("malformed instruction `%s`", instr)
		}

		return g.store(operands[0], g.block.NewCall(g.runtimeInput))
	case tir.NativeAlloc:
		if len(operands) != 2 {
			return fmt.Errorf("malformed instruction `%s`", instr)
		}

		size, err := g.value(operands[1])
		if err != nil {
			return err
		}

		return g.store(operands[0], g.block.NewCall(g.runtimeAlloc, size))
	}

	return fmt.Errorf("call to undefined function `%s`", target)
}
