package instmatch

import "github.com/emacstheviking/mercury/internal/inst"

// The property checkers share one traversal: resolve indirections under a
// per-call visited set, error out on placeholders, and hand every
// structural variant to a per-property verdict function. Self-referential
// named definitions are common (every recursive data skeleton has one), so
// revisiting a name or key is treated as the property holding, mirroring
// the coinductive reading used by the match relations.

// propFn gives the verdict for a structural (non-indirection) descriptor.
// recurse re-enters the walk for functor argument descriptors with the
// visited set threaded through.
type propFn func(i inst.Inst, recurse func(inst.Inst) bool) bool

// propVisited guards indirection recursion. Threaded by value: extending
// it copies, so sibling branches never observe each other's visits.
type propVisited struct {
	names map[string]bool
	keys  map[inst.AliasKey]bool
}

func (v propVisited) withName(name string) propVisited {
	names := make(map[string]bool, len(v.names)+1)
	for k := range v.names {
		names[k] = true
	}
	names[name] = true
	return propVisited{names: names, keys: v.keys}
}

func (v propVisited) withKey(key inst.AliasKey) propVisited {
	keys := make(map[inst.AliasKey]bool, len(v.keys)+1)
	for k := range v.keys {
		keys[k] = true
	}
	keys[key] = true
	return propVisited{names: v.names, keys: keys}
}

func checkInstProp(i inst.Inst, fn propFn, seen propVisited, t inst.Tables) bool {
	switch v := i.(type) {
	case inst.DefinedInst:
		if seen.names[v.Name] {
			return true
		}
		def, ok := t.LookupInstName(v.Name)
		if !ok {
			inst.Unexpected("checkInstProp", "undefined inst "+v.Name)
		}
		return checkInstProp(def, fn, seen.withName(v.Name), t)
	case inst.Alias:
		if seen.keys[v.Key] {
			return true
		}
		def, ok := t.LookupAliasKey(v.Key)
		if !ok {
			inst.Unexpected("checkInstProp", "dangling alias key "+string(v.Key))
		}
		return checkInstProp(def, fn, seen.withKey(v.Key), t)
	case inst.InstVar:
		inst.Unexpected("checkInstProp", "unresolved inst placeholder")
		return false
	default:
		return fn(i, func(arg inst.Inst) bool {
			return checkInstProp(arg, fn, seen, t)
		})
	}
}

func functorArgsAll(l []inst.BoundFunctor, recurse func(inst.Inst) bool) bool {
	for _, f := range l {
		for _, arg := range f.ArgInsts {
			if !recurse(arg) {
				return false
			}
		}
	}
	return true
}

// IsGround reports whether i describes a value with no free sub-components.
func IsGround(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, groundProp, propVisited{}, t)
}

func groundProp(i inst.Inst, recurse func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.NotReached, inst.Ground:
		return true
	case inst.Bound:
		return functorArgsAll(v.Functors, recurse)
	default:
		return false
	}
}

// IsGroundOrAny is IsGround relaxed to accept constraint-style Any insts.
func IsGroundOrAny(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, groundOrAnyProp, propVisited{}, t)
}

func groundOrAnyProp(i inst.Inst, recurse func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.NotReached, inst.Ground, inst.Any:
		return true
	case inst.Bound:
		return functorArgsAll(v.Functors, recurse)
	default:
		return false
	}
}

// IsUnique reports whether every reachable part of the value is the sole
// reference to it. Free counts as unique: an unbound variable has no
// references at all.
func IsUnique(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, uniqueProp, propVisited{}, t)
}

func uniqueProp(i inst.Inst, recurse func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.NotReached, inst.Free:
		return true
	case inst.Any:
		return v.Uniq == inst.Unique
	case inst.Ground:
		return v.Uniq == inst.Unique
	case inst.Bound:
		return v.Uniq == inst.Unique && functorArgsAll(v.Functors, recurse)
	default:
		return false
	}
}

// IsMostlyUnique reports whether every reachable part is at least
// mostly-unique (unique modulo trailing/backtracking).
func IsMostlyUnique(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, mostlyUniqueProp, propVisited{}, t)
}

func mostlyUniqueProp(i inst.Inst, recurse func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.NotReached, inst.Free:
		return true
	case inst.Any:
		return v.Uniq >= inst.MostlyUnique
	case inst.Ground:
		return v.Uniq >= inst.MostlyUnique
	case inst.Bound:
		return v.Uniq >= inst.MostlyUnique && functorArgsAll(v.Functors, recurse)
	default:
		return false
	}
}

// IsNotPartlyUnique reports that no reachable part of the value is unique
// or mostly-unique, i.e. nothing in it grants destructive-update rights.
func IsNotPartlyUnique(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, notPartlyUniqueProp, propVisited{}, t)
}

func notPartlyUniqueProp(i inst.Inst, recurse func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.NotReached, inst.Free:
		return true
	case inst.Any:
		return v.Uniq <= inst.Shared
	case inst.Ground:
		return v.Uniq <= inst.Shared
	case inst.Bound:
		return v.Uniq <= inst.Shared && functorArgsAll(v.Functors, recurse)
	default:
		return false
	}
}

// IsNotFullyUnique reports that no reachable part is fully unique;
// mostly-unique parts are allowed.
func IsNotFullyUnique(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, notFullyUniqueProp, propVisited{}, t)
}

func notFullyUniqueProp(i inst.Inst, recurse func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.NotReached, inst.Free:
		return true
	case inst.Any:
		return v.Uniq <= inst.MostlyUnique
	case inst.Ground:
		return v.Uniq <= inst.MostlyUnique
	case inst.Bound:
		return v.Uniq <= inst.MostlyUnique && functorArgsAll(v.Functors, recurse)
	default:
		return false
	}
}

// IsFree reports whether i describes a completely unbound value.
func IsFree(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, freeProp, propVisited{}, t)
}

func freeProp(i inst.Inst, _ func(inst.Inst) bool) bool {
	_, ok := i.(inst.Free)
	return ok
}

// IsBound reports whether i describes anything other than an unbound
// value. NotReached counts as bound (vacuously: the point is never
// executed).
func IsBound(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, boundProp, propVisited{}, t)
}

func boundProp(i inst.Inst, _ func(inst.Inst) bool) bool {
	_, ok := i.(inst.Free)
	return !ok
}

// IsClobbered reports whether the value's top-level uniqueness says it has
// already been destructively updated (clobbered or mostly-clobbered).
func IsClobbered(i inst.Inst, t inst.Tables) bool {
	return checkInstProp(i, clobberedProp, propVisited{}, t)
}

func clobberedProp(i inst.Inst, _ func(inst.Inst) bool) bool {
	switch v := i.(type) {
	case inst.Any:
		return v.Uniq <= inst.MostlyClobbered
	case inst.Ground:
		return v.Uniq <= inst.MostlyClobbered
	case inst.Bound:
		return v.Uniq <= inst.MostlyClobbered
	default:
		return false
	}
}

// BoundInstFunctors returns the functor list when i resolves to a Bound
// descriptor, and reports whether it did. Other structural forms (Ground
// included: its constructor set is the whole type, not a list) return
// false.
func BoundInstFunctors(i inst.Inst, t inst.Tables) ([]inst.BoundFunctor, bool) {
	seen := propVisited{}
	for {
		switch v := i.(type) {
		case inst.DefinedInst:
			if seen.names[v.Name] {
				return nil, false
			}
			def, ok := t.LookupInstName(v.Name)
			if !ok {
				inst.Unexpected("BoundInstFunctors", "undefined inst "+v.Name)
			}
			seen = seen.withName(v.Name)
			i = def
		case inst.Alias:
			if seen.keys[v.Key] {
				return nil, false
			}
			def, ok := t.LookupAliasKey(v.Key)
			if !ok {
				inst.Unexpected("BoundInstFunctors", "dangling alias key "+string(v.Key))
			}
			seen = seen.withKey(v.Key)
			i = def
		case inst.InstVar:
			inst.Unexpected("BoundInstFunctors", "unresolved inst placeholder")
		case inst.Bound:
			return v.Functors, true
		default:
			return nil, false
		}
	}
}
