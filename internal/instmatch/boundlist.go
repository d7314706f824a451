package instmatch

import "github.com/emacstheviking/mercury/internal/inst"

// boundListMatches compares an actual functor list against a required one
// by a simultaneous walk, both lists being sorted by constructor id with no
// duplicates. A constructor present in the required list but absent from
// the actual one is implicitly NotReached (the value can never be built
// with it) and is trivially satisfied; running out of actual functors
// therefore succeeds unconditionally.
//
// Precondition, enforced by the passes that build Bound insts and not
// re-checked here: the actual list's constructor set is a subset of the
// required list's, and both lists are sorted without duplicates. Violating
// this yields a wrong answer, not an error.
func boundListMatches(l1, l2 []inst.BoundFunctor, rel relation, seen expansions, t inst.Tables) bool {
	for len(l1) > 0 {
		if len(l2) == 0 {
			return false
		}
		x, y := l1[0], l2[0]
		switch {
		case x.ConsID.Compare(y.ConsID) == 0:
			if !instListMatches(x.ArgInsts, y.ArgInsts, rel, seen, t) {
				return false
			}
			l1 = l1[1:]
			l2 = l2[1:]
		case x.ConsID.Compare(y.ConsID) > 0:
			// y cannot occur in l1 (sortedness): implicitly NotReached.
			l2 = l2[1:]
		default:
			// x sorts before every remaining required constructor, so it
			// can never be found in l2. Under the subset precondition this
			// case is unreachable.
			return false
		}
	}
	return true
}

func boundListIsGround(l []inst.BoundFunctor, t inst.Tables) bool {
	return boundListHas(l, t, IsGround)
}

func boundListIsUnique(l []inst.BoundFunctor, t inst.Tables) bool {
	return boundListHas(l, t, IsUnique)
}

func boundListIsMostlyUnique(l []inst.BoundFunctor, t inst.Tables) bool {
	return boundListHas(l, t, IsMostlyUnique)
}

// boundListMatchesUniq checks that a fully bound value is consistent with
// the uniqueness a required ground inst claims: a unique requirement needs
// every argument unique, a mostly-unique requirement needs mostly-unique
// arguments, and anything weaker constrains nothing.
func boundListMatchesUniq(l []inst.BoundFunctor, req inst.Uniqueness, t inst.Tables) bool {
	switch req {
	case inst.Unique:
		return boundListIsUnique(l, t)
	case inst.MostlyUnique:
		return boundListIsMostlyUnique(l, t)
	}
	return true
}

func boundListHas(l []inst.BoundFunctor, t inst.Tables, prop func(inst.Inst, inst.Tables) bool) bool {
	for _, f := range l {
		for _, arg := range f.ArgInsts {
			if !prop(arg, t) {
				return false
			}
		}
	}
	return true
}
