package ir

import "fmt"

// Opcode is the operation performed by an instruction.
type Opcode int

// Enumeration of opcodes.
const (
	OpMov Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
	OpCmpEQ
	OpJmp
	OpJnz
	OpJz
	OpCall
	OpProc
	OpRet
	OpLd
	OpSt

	// OpLabel marks the position of a label.  Its only operand is the label.
	OpLabel
)

var mnemonics = [OpLabel + 1]string{
	OpMov:   "mov",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpMod:   "mod",
	OpCmpLT: "cmp<",
	OpCmpLE: "cmp<=",
	OpCmpGT: "cmp>",
	OpCmpGE: "cmp>=",
	OpCmpEQ: "cmp=",
	OpJmp:   "jmp",
	OpJnz:   "jnz",
	OpJz:    "jz",
	OpCall:  "call",
	OpProc:  "proc",
	OpRet:   "ret",
	OpLd:    "ld",
	OpSt:    "st",
	OpLabel: "label",
}

// Mnemonic returns the bytecode mnemonic of the opcode.
func (op Opcode) Mnemonic() string {
	if op < 0 || op > OpLabel {
		panic(fmt.Sprintf("invalid opcode: %d", int(op)))
	}

	return mnemonics[op]
}

// ParseMnemonic converts a bytecode mnemonic back into its opcode.
func ParseMnemonic(mnemonic string) (Opcode, bool) {
	for op, m := range mnemonics {
		if m == mnemonic && Opcode(op) != OpLabel {
			return Opcode(op), true
		}
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// BinaryOp is an arithmetic or relational operator.
type BinaryOp int

// Enumeration of binary operators.
const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinLT
	BinLE
	BinGT
	BinGE
	BinEQ
	BinNE
)

// binaryOpcodes maps each binary operator to its opcode.  `!=` has no opcode of
// its own: it is lowered as a negated `cmp=`.
var binaryOpcodes = [BinNE + 1]Opcode{
	BinAdd: OpAdd,
	BinSub: OpSub,
	BinMul: OpMul,
	BinDiv: OpDiv,
	BinMod: OpMod,
	BinLT:  OpCmpLT,
	BinLE:  OpCmpLE,
	BinGT:  OpCmpGT,
	BinGE:  OpCmpGE,
	BinEQ:  OpCmpEQ,
	BinNE:  OpCmpEQ,
}

var binaryOpSymbols = [BinNE + 1]string{
	BinAdd: "+",
	BinSub: "-",
	BinMul: "*",
	BinDiv: "/",
	BinMod: "%",
	BinLT:  "<",
	BinLE:  "<=",
	BinGT:  ">",
	BinGE:  ">=",
	BinEQ:  "==",
	BinNE:  "!=",
}

func (op BinaryOp) String() string {
	if op < 0 || op > BinNE {
		return fmt.Sprintf("<binary op %d>", int(op))
	}

	return binaryOpSymbols[op]
}
