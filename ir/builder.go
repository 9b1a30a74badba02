package ir

import "strconv"

var _ Emitter = (*Builder)(nil)

// Builder is the standard Emitter: it builds the instruction list of a whole
// program.
type Builder struct {
	instrs []Instruction

	// regCounter is reset by every function prologue.  labelCounter is never
	// reset.
	regCounter   int
	labelCounter int
}

// NewBuilder creates a new empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Instructions returns the instructions built so far.
func (b *Builder) Instructions() []Instruction {
	return b.instrs
}

func (b *Builder) emit(op Opcode, operands ...string) {
	b.instrs = append(b.instrs, Instruction{Op: op, Operands: operands})
}

// -----------------------------------------------------------------------------

func (b *Builder) NewTemp() string {
	reg := "r" + strconv.Itoa(b.regCounter)
	b.regCounter++
	return reg
}

func (b *Builder) NewConstant(n int64) string {
	reg := b.NewTemp()
	b.emit(OpMov, reg, strconv.FormatInt(n, 10))
	return reg
}

// NewName allocates a variable's register.  Registers are not named so the
// identifier is unused.
func (b *Builder) NewName(ident string) string {
	return b.NewTemp()
}

func (b *Builder) EmitAssignment(dst, src string) {
	b.emit(OpMov, dst, src)
}

func (b *Builder) EmitOp(dst, lhs, rhs string, op BinaryOp) {
	b.emit(binaryOpcodes[op], dst, lhs, rhs)

	if op == BinNE {
		zero := b.NewConstant(0)
		b.emit(OpCmpEQ, dst, dst, zero)
	}
}

// -----------------------------------------------------------------------------

func (b *Builder) NewLabel() string {
	label := "Label" + strconv.Itoa(b.labelCounter)
	b.labelCounter++
	return label
}

func (b *Builder) SetLabel(label string) {
	b.emit(OpLabel, label)
}

func (b *Builder) EmitJump(label string) {
	b.emit(OpJmp, label)
}

func (b *Builder) EmitBranchIfTrue(cond, label string) {
	b.emit(OpJnz, cond, label)
}

func (b *Builder) EmitBranchIfFalse(cond, label string) {
	b.emit(OpJz, cond, label)
}

// -----------------------------------------------------------------------------

// EmitCall lowers natives to their VM operations and everything else to a
// `call` of the function's `proc` label.
func (b *Builder) EmitCall(name string, args []string) string {
	if target, ok := NativeTarget(name); ok {
		switch target {
		case NativePrint:
			b.emit(OpCall, append([]string{NativePrint}, args...)...)
			return ""
		case NativeInput:
			res := b.NewTemp()
			b.emit(OpCall, NativeInput, res)
			return res
		case NativeAlloc:
			base := b.AllocateArray(args[0])
			b.StoreAt(base, args[0])
			return base
		case NativeLen:
			// the length lives in slot 0
			return b.LoadAt(args[0])
		case NativeExit:
			b.EmitReturn()
			return ""
		}
	}

	res := b.NewTemp()
	b.emit(OpCall, append([]string{name, res}, args...)...)
	return res
}

func (b *Builder) EmitFunctionPrologue(name string) {
	b.emit(OpProc, name)

	b.regCounter = 0
	b.NewTemp() // r0: return slot
}

func (b *Builder) EmitReturn() {
	b.emit(OpRet)
}

// -----------------------------------------------------------------------------

// AllocateArray requests `length*8 + 8` bytes from the VM: one slot for the
// length and one for each element.
func (b *Builder) AllocateArray(length string) string {
	elemSize := b.NewConstant(ElementSize)
	size := b.NewTemp()
	b.emit(OpMul, size, length, elemSize)
	b.emit(OpAdd, size, size, elemSize)

	base := b.NewTemp()
	b.emit(OpCall, NativeAlloc, base, size)
	return base
}

// ComputeElementAddress computes `base + (index+1)*8`.
func (b *Builder) ComputeElementAddress(base, index string) string {
	one := b.NewConstant(1)
	slot := b.NewTemp()
	b.emit(OpAdd, slot, index, one)

	elemSize := b.NewConstant(ElementSize)
	offset := b.NewTemp()
	b.emit(OpMul, offset, slot, elemSize)

	addr := b.NewTemp()
	b.emit(OpAdd, addr, base, offset)
	return addr
}

func (b *Builder) StoreAt(addr, val string) {
	b.emit(OpSt, val, addr)
}

func (b *Builder) LoadAt(addr string) string {
	dst := b.NewTemp()
	b.emit(OpLd, dst, addr)
	return dst
}
