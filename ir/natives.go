package ir

// Native call targets understood by the virtual machine.
const (
	NativePrint = "iput"
	NativeInput = "iget"
	NativeAlloc = "mem"
	NativeLen   = "len"
	NativeExit  = "ret"
)

// nativeTargets maps each native function to its VM call target.
var nativeTargets = map[string]string{
	"print": NativePrint,
	"Array": NativeAlloc,
	"len":   NativeLen,
	"input": NativeInput,
	"exit":  NativeExit,
}

// NativeTarget returns the VM call target of a native function.
func NativeTarget(name string) (string, bool) {
	target, ok := nativeTargets[name]
	return target, ok
}

// IsNativeTarget returns whether `name` is a call target reserved by the VM.
func IsNativeTarget(name string) bool {
	for _, target := range nativeTargets {
		if target == name {
			return true
		}
	}

	return false
}

// ElementSize is the size in bytes of one array slot.
const ElementSize = 8
