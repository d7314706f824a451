package inst

// Tables is the read-only view of the module's instantiation tables that
// the matching engine resolves indirections through. The tables themselves
// are owned by the symbol tables (see insttable); the engine never writes
// to them.
//
// Callers must not mutate the underlying tables while a check is in
// flight. Under that contract the engine is safe to call concurrently from
// independent compilation workers.
type Tables interface {
	// LookupInstName resolves a DefinedInst name to its definition.
	LookupInstName(name string) (Inst, bool)
	// LookupAliasKey resolves an Alias key to the inst it stands for.
	LookupAliasKey(key AliasKey) (Inst, bool)
}

// Expand chases DefinedInst and Alias indirections until it reaches a
// structural form. A name or key with no table entry means an earlier pass
// handed us an inst it never defined, which is a compiler bug.
//
// There is deliberately no cycle guard here: a named definition whose
// immediate target is another indirection back to itself would loop. In
// practice recursive definitions nest the recursive reference inside a
// Bound argument rather than at the top level, and the recursive callers
// (the match relations and property checkers) carry their own visited
// sets. A guard here would silently change which definitions are accepted.
func Expand(t Tables, i Inst) Inst {
	for {
		switch v := i.(type) {
		case DefinedInst:
			def, ok := t.LookupInstName(v.Name)
			if !ok {
				Unexpected("Expand", "undefined inst "+v.Name)
			}
			i = def
		case Alias:
			def, ok := t.LookupAliasKey(v.Key)
			if !ok {
				Unexpected("Expand", "dangling alias key "+string(v.Key))
			}
			i = def
		default:
			return i
		}
	}
}
