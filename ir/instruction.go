package ir

import "strings"

// Instruction is a single three-address instruction.
type Instruction struct {
	Op       Opcode
	Operands []string
}

// IsLabel returns whether the instruction is a label marker.
func (instr Instruction) IsLabel() bool {
	return instr.Op == OpLabel
}

// String renders the instruction in bytecode text form without indentation:
// eg. `add r3, r1, r2` or `Label4:`.
func (instr Instruction) String() string {
	if instr.Op == OpLabel {
		return instr.Operands[0] + ":"
	}

	if len(instr.Operands) == 0 {
		return instr.Op.Mnemonic()
	}

	return instr.Op.Mnemonic() + " " + strings.Join(instr.Operands, ", ")
}

// IsRegister returns whether an operand names a virtual register.
func IsRegister(operand string) bool {
	if len(operand) < 2 || operand[0] != 'r' {
		return false
	}

	for _, c := range operand[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
