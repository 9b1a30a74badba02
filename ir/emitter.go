package ir

// Emitter is the interface through which the parser emits code.  Every method
// appends to the instruction stream; the returned strings are the registers or
// labels that were allocated.
type Emitter interface {
	// NewTemp allocates a fresh register.
	NewTemp() string

	// NewConstant allocates a fresh register and loads n into it.
	NewConstant(n int64) string

	// NewName allocates the register holding a named variable.
	NewName(ident string) string

	EmitAssignment(dst, src string)
	EmitOp(dst, lhs, rhs string, op BinaryOp)

	// NewLabel allocates a fresh label and SetLabel marks its position.
	NewLabel() string
	SetLabel(label string)

	EmitJump(label string)
	EmitBranchIfTrue(cond, label string)
	EmitBranchIfFalse(cond, label string)

	// EmitCall calls a function and returns the register holding its result.
	// Calls to natives which produce no value return an empty string.
	EmitCall(name string, args []string) string

	// EmitFunctionPrologue starts a new function.  Registers are reset and r0
	// is reserved as the return slot.
	EmitFunctionPrologue(name string)
	EmitReturn()

	// AllocateArray allocates an array of the given length and returns its base
	// register.  The length slot is not initialized.
	AllocateArray(length string) string
	ComputeElementAddress(base, index string) string
	StoreAt(addr, val string)
	LoadAt(addr string) string
}
