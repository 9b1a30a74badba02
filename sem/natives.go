package sem

// natives are the functions provided by the virtual machine.
var natives = []*Symbol{
	{Name: "print", Params: []Param{{"value", TypeNumeric}}, ReturnType: TypeNone},
	{Name: "len", Params: []Param{{"array", TypeArray}}, ReturnType: TypeNumeric},
	{Name: "input", ReturnType: TypeNumeric},
	{Name: "exit", ReturnType: TypeNone},
	{Name: "Array", Params: []Param{{"length", TypeNumeric}}, ReturnType: TypeArray},
}

// RegisterNatives declares every native function in the table.
func (st *SymbolTable) RegisterNatives() {
	for _, native := range natives {
		sym := NewFunction(native.Name, native.Params, native.ReturnType, nil)
		sym.Native = true
		st.Insert(native.Name, sym)
	}
}
