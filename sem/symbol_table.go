package sem

import (
	"sort"

	"teslang/report"
)

// LookupKind selects how a name is resolved.
type LookupKind int

// Enumeration of lookup kinds.
const (
	// LookupVariable finds the lexically nearest variable visible from the
	// requesting scope.
	LookupVariable LookupKind = iota

	// LookupFunction finds a function by its exact signature scope.
	LookupFunction

	// LookupEnclosingFunction finds the signature of the function owning the
	// requesting scope.  The name is ignored.
	LookupEnclosingFunction
)

// SymbolTable maps names to every declaration of that name that is currently
// live.  Declarations of one name are distinguished by their scope tags.
type SymbolTable struct {
	entries map[string][]*Symbol
	rep     *report.Reporter
}

// NewSymbolTable creates a new empty symbol table reporting to rep.
func NewSymbolTable(rep *report.Reporter) *SymbolTable {
	return &SymbolTable{
		entries: make(map[string][]*Symbol),
		rep:     rep,
	}
}

// Insert declares a symbol.  If a symbol of the same name already exists with
// the identical scope tag, an error is reported, the existing symbol is kept
// and false is returned.
func (st *SymbolTable) Insert(name string, sym *Symbol) bool {
	for _, existing := range st.entries[name] {
		if existing.Scope == sym.Scope {
			st.rep.ReportCompileError(
				report.KindSemantic,
				sym.DefPosition,
				"symbol `%s` already declared in scope %s",
				name,
				sym.Scope,
			)
			return false
		}
	}

	st.entries[name] = append(st.entries[name], sym)
	return true
}

// Lookup finds the symbol named `name` visible from `scope`.  It returns nil if
// no such symbol exists.
func (st *SymbolTable) Lookup(name string, scope Scope, kind LookupKind) *Symbol {
	switch kind {
	case LookupFunction:
		target := Scope{Func: name}
		for _, sym := range st.entries[name] {
			if sym.Kind == SymFunction && sym.Scope == target {
				return sym
			}
		}
	case LookupEnclosingFunction:
		var candidates []*Symbol
		for _, syms := range st.entries {
			for _, sym := range syms {
				if sym.Kind == SymFunction && sym.Scope.Func == scope.Func {
					candidates = append(candidates, sym)
				}
			}
		}

		if len(candidates) > 0 {
			sort.SliceStable(candidates, func(i, j int) bool {
				return candidates[i].Scope.Depth > candidates[j].Scope.Depth
			})

			return candidates[0]
		}
	case LookupVariable:
		var nearest *Symbol
		for _, sym := range st.entries[name] {
			if sym.Kind != SymVariable || sym.Scope.Func != scope.Func || sym.Scope.Depth > scope.Depth {
				continue
			}

			if nearest == nil || sym.Scope.Depth > nearest.Scope.Depth {
				nearest = sym
			}
		}

		return nearest
	}

	return nil
}

// Resolve performs a lookup and reports an error at `pos` if nothing is found.
func (st *SymbolTable) Resolve(name string, scope Scope, kind LookupKind, pos *report.TextPosition) *Symbol {
	if sym := st.Lookup(name, scope, kind); sym != nil {
		return sym
	}

	switch kind {
	case LookupFunction:
		st.rep.ReportCompileError(report.KindSemantic, pos, "undeclared function `%s`", name)
	case LookupEnclosingFunction:
		st.rep.ReportCompileError(report.KindSemantic, pos, "`return` outside of a function")
	default:
		st.rep.ReportCompileError(report.KindSemantic, pos, "undeclared variable `%s`", name)
	}

	return nil
}

// Remove deletes the symbol named `name` with the exact scope tag `scope`.  It
// returns whether a symbol was removed.
func (st *SymbolTable) Remove(name string, scope Scope) bool {
	syms := st.entries[name]
	for i, sym := range syms {
		if sym.Scope == scope {
			syms = append(syms[:i], syms[i+1:]...)

			if len(syms) == 0 {
				delete(st.entries, name)
			} else {
				st.entries[name] = syms
			}

			return true
		}
	}

	return false
}

// Functions returns every user-defined function in the table ordered by name.
func (st *SymbolTable) Functions() []*Symbol {
	var funcs []*Symbol
	for _, syms := range st.entries {
		for _, sym := range syms {
			if sym.Kind == SymFunction && !sym.Native {
				funcs = append(funcs, sym)
			}
		}
	}

	sort.Slice(funcs, func(i, j int) bool {
		return funcs[i].Name < funcs[j].Name
	})

	return funcs
}
