package generate

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	tir "teslang/ir"
)

// Names of the runtime functions natives are lowered to.
const (
	RuntimePrint = "teslang_print"
	RuntimeInput = "teslang_input"
	RuntimeAlloc = "teslang_alloc"
)

// Generator is responsible for converting a bytecode instruction list into an
// LLVM module.  Every virtual register becomes a stack slot of its function and
// every label a basic block.
type Generator struct {
	mod *ir.Module

	// sigs maps each function name to its parameter count.
	sigs map[string]int

	funcs map[string]*ir.Func

	runtimePrint, runtimeInput, runtimeAlloc *ir.Func

	// The state of the function being generated.
	enclosingFunc *ir.Func
	block         *ir.Block
	regs          map[string]*ir.InstAlloca
	labels        map[string]*ir.Block
}

// Generate converts `instrs` into an LLVM module.  `sigs` must give the
// parameter count of every function in `instrs`.  Malformed instruction lists
// produce an error.
func Generate(instrs []tir.Instruction, sigs map[string]int) (*ir.Module, error) {
	g := &Generator{
		mod:   ir.NewModule(),
		sigs:  sigs,
		funcs: make(map[string]*ir.Func),
	}

	g.declareRuntime()

	bodies, err := splitFuncs(instrs)
	if err != nil {
		return nil, err
	}

	for _, body := range bodies {
		if err := g.declareFunc(body[0].Operands[0]); err != nil {
			return nil, err
		}
	}

	for _, body := range bodies {
		if err := g.genFunc(body); err != nil {
			return nil, fmt.Errorf("in function `%s`: %w", body[0].Operands[0], err)
		}
	}

	return g.mod, nil
}

// splitFuncs splits an instruction list into the instructions of each
// function.  The first instruction of every function is its `proc`.
func splitFuncs(instrs []tir.Instruction) ([][]tir.Instruction, error) {
	var bodies [][]tir.Instruction
	for i, instr := range instrs {
		if instr.Op == tir.OpProc {
			if len(instr.Operands) != 1 {
				return nil, fmt.Errorf("malformed instruction `%s`", instr)
			}

			bodies = append(bodies, []tir.Instruction{instr})
		} else if len(bodies) == 0 {
			return nil, fmt.Errorf("instruction %d `%s` is outside of any function", i, instr)
		} else {
			bodies[len(bodies)-1] = append(bodies[len(bodies)-1], instr)
		}
	}

	return bodies, nil
}

// declareRuntime declares the external functions natives call.
func (g *Generator) declareRuntime() {
	g.runtimePrint = g.mod.NewFunc(RuntimePrint, types.Void, ir.NewParam("value", types.I64))
	g.runtimeInput = g.mod.NewFunc(RuntimeInput, types.I64)
	g.runtimeAlloc = g.mod.NewFunc(RuntimeAlloc, types.I64, ir.NewParam("size", types.I64))
}

// declareFunc declares a function so that it can be called before its body is
// generated.
func (g *Generator) declareFunc(name string) error {
	if _, ok := g.funcs[name]; ok {
		return fmt.Errorf("function `%s` is defined multiple times", name)
	}

	paramCount, ok := g.sigs[name]
	if !ok {
		return fmt.Errorf("missing signature for function `%s`", name)
	}

	params := make([]*ir.Param, paramCount)
	for i := range params {
		params[i] = ir.NewParam("p"+strconv.Itoa(i+1), types.I64)
	}

	g.funcs[name] = g.mod.NewFunc(name, types.I64, params...)
	return nil
}

// -----------------------------------------------------------------------------

// genFunc generates the body of a single function.
func (g *Generator) genFunc(body []tir.Instruction) error {
	g.enclosingFunc = g.funcs[body[0].Operands[0]]
	g.regs = make(map[string]*ir.InstAlloca)
	g.labels = make(map[string]*ir.Block)

	g.block = g.enclosingFunc.NewBlock("entry")
	g.allocRegisters(body)

	// r0 is the return slot and parameters are passed in r1 through rn
	g.block.NewStore(constant.NewInt(types.I64, 0), g.regs["r0"])
	for i, param := range g.enclosingFunc.Params {
		g.block.NewStore(param, g.regs["r"+strconv.Itoa(i+1)])
	}

	for _, instr := range body[1:] {
		if instr.IsLabel() {
			if len(instr.Operands) != 1 {
				return fmt.Errorf("malformed label")
			}

			name := instr.Operands[0]
			if _, ok := g.labels[name]; ok {
				return fmt.Errorf("label `%s` is defined multiple times", name)
			}

			g.labels[name] = g.enclosingFunc.NewBlock(name)
		}
	}

	for _, instr := range body[1:] {
		if err := g.genInstr(instr); err != nil {
			return err
		}
	}

	if g.block != nil && g.block.Term == nil {
		g.genReturn()
	}

	return nil
}

// allocRegisters creates the stack slot of every register used in the
// function in the entry block.
func (g *Generator) allocRegisters(body []tir.Instruction) {
	regNums := map[int]struct{}{0: {}}
	for i := range g.enclosingFunc.Params {
		regNums[i+1] = struct{}{}
	}

	for _, instr := range body[1:] {
		for _, operand := range instr.Operands {
			if tir.IsRegister(operand) {
				n, _ := strconv.Atoi(operand[1:])
				regNums[n] = struct{}{}
			}
		}
	}

	sorted := make([]int, 0, len(regNums))
	for n := range regNums {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	for _, n := range sorted {
		name := "r" + strconv.Itoa(n)
		slot := g.block.NewAlloca(types.I64)
		slot.SetName(name)
		g.regs[name] = slot
	}
}

// -----------------------------------------------------------------------------

// value returns the value of an operand: the contents of a register or an
// integer constant.
func (g *Generator) value(operand string) (value.Value, error) {
	if tir.IsRegister(operand) {
		return g.block.NewLoad(types.I64, g.regs[operand]), nil
	}

	n, err := strconv.ParseInt(operand, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid operand `%s`", operand)
	}

	return constant.NewInt(types.I64, n), nil
}

// values returns the values of several operands.
func (g *Generator) values(operands []string) ([]value.Value, error) {
	vals := make([]value.Value, len(operands))
	for i, operand := range operands {
		val, err := g.value(operand)
		if err != nil {
			return nil, err
		}

		vals[i] = val
	}

	return vals, nil
}

// store stores a value into a register.
func (g *Generator) store(reg string, val value.Value) error {
	slot, ok := g.regs[reg]
	if !ok {
		return fmt.Errorf("`%s` is not a register", reg)
	}

	g.block.NewStore(val, slot)
	return nil
}

// label returns the block of a label defined in the current function.
func (g *Generator) label(name string) (*ir.Block, error) {
	if block, ok := g.labels[name]; ok {
		return block, nil
	}

	return nil, fmt.Errorf("undefined label `%s`", name)
}

// genReturn returns the contents of r0 and ends the current block.
func (g *Generator) genReturn() {
	g.block.NewRet(g.block.NewLoad(types.I64, g.regs["r0"]))
	g.block = nil
}

// addressOf converts an address held in an operand into a pointer.
func (g *Generator) addressOf(operand string) (value.Value, error) {
	addr, err := g.value(operand)
	if err != nil {
		return nil, err
	}

	return g.block.NewIntToPtr(addr, types.NewPointer(types.I64)), nil
}
