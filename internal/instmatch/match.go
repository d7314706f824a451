// Package instmatch decides compatibility of instantiation descriptors.
//
// It implements the three relations used by the rest of the compiler:
//
//   - MatchesInitial: call-site checking. "A carries at least as much
//     information as B, and where they agree, A is at least as
//     instantiated."
//   - MatchesFinal: exit checking. Like MatchesInitial but binding must be
//     identical where both sides specify one.
//   - MatchesBinding: negation safety. "The concrete shape of A is provably
//     identical to B's", ignoring uniqueness.
//
// Named descriptor definitions may be recursive or mutually recursive, so
// every relation threads an expansion set of already-visited descriptor
// pairs: revisiting a pair is treated as success (assume-then-verify). The
// sets live for a single top-level call and never escape, so results depend
// only on the arguments and the relations are safe for concurrent use as
// long as the tables are not mutated mid-check.
package instmatch

import (
	"reflect"

	"github.com/emacstheviking/mercury/internal/inst"
)

// instPair is one visited (actual, required) pair in an expansion set.
type instPair struct {
	a, b inst.Inst
}

// expansions is the per-call recursion guard. It is threaded by value
// through the recursion; appending in one branch never leaks a pair into a
// sibling branch.
type expansions []instPair

func (e expansions) contains(a, b inst.Inst) bool {
	for _, p := range e {
		if reflect.DeepEqual(p.a, a) && reflect.DeepEqual(p.b, b) {
			return true
		}
	}
	return false
}

// MatchesInitial reports whether an actual argument with inst a may be
// passed where initial inst b is required.
func MatchesInitial(a, b inst.Inst, t inst.Tables) bool {
	ok := matchesInitial(a, b, nil, t)
	trace("matches_initial", a, b, ok)
	return ok
}

func matchesInitial(a, b inst.Inst, seen expansions, t inst.Tables) bool {
	if seen.contains(a, b) {
		return true
	}
	seen = append(seen, instPair{a, b})
	return matchesInitial3(inst.Expand(t, a), inst.Expand(t, b), seen, t)
}

func matchesInitial3(a, b inst.Inst, seen expansions, t inst.Tables) bool {
	if _, ok := a.(inst.InstVar); ok {
		inst.Unexpected("matchesInitial", "unresolved inst placeholder")
	}
	if _, ok := b.(inst.InstVar); ok {
		inst.Unexpected("matchesInitial", "unresolved inst placeholder")
	}

	switch a := a.(type) {
	case inst.NotReached:
		return true

	case inst.Free:
		_, ok := b.(inst.Free)
		return ok

	case inst.Any:
		if b, ok := b.(inst.Any); ok {
			return a.Uniq.MatchesInitial(b.Uniq)
		}
		return false

	case inst.Bound:
		switch b := b.(type) {
		case inst.Free:
			return true
		case inst.Bound:
			return a.Uniq.MatchesInitial(b.Uniq) &&
				boundListMatches(a.Functors, b.Functors, matchesInitial, seen, t)
		case inst.Ground:
			if b.Pred != nil {
				return false
			}
			return a.Uniq.MatchesInitial(b.Uniq) &&
				boundListIsGround(a.Functors, t) &&
				boundListMatchesUniq(a.Functors, b.Uniq, t)
		case inst.AbstractInst:
			// An abstract inst gives no structure to compare against, so a
			// bound value satisfies it only when fully ground, and only at
			// the uniqueness level the bound descriptor claims.
			switch a.Uniq {
			case inst.Unique:
				return boundListIsGround(a.Functors, t) &&
					boundListIsUnique(a.Functors, t)
			case inst.MostlyUnique:
				return boundListIsGround(a.Functors, t) &&
					boundListIsMostlyUnique(a.Functors, t)
			}
			return false
		}
		return false

	case inst.Ground:
		switch b := b.(type) {
		case inst.Free:
			return true
		case inst.Bound:
			// Incomplete: this should succeed when b's functor list covers
			// every constructor of the type and every argument is ground,
			// but no coverage check was ever implemented. Conservative
			// failure here is load-bearing for downstream passes; do not
			// "fix" without auditing them.
			return false
		case inst.Ground:
			return maybePredMatches(a.Pred, b.Pred, seen, t) &&
				a.Uniq.MatchesInitial(b.Uniq)
		case inst.AbstractInst:
			inst.Unexpected("matchesInitial", "ground vs abstract inst is not yet supported")
		}
		return false

	case inst.AbstractInst:
		switch b := b.(type) {
		case inst.Free:
			return true
		case inst.AbstractInst:
			return a.Name == b.Name &&
				instListMatches(a.Args, b.Args, matchesInitial, seen, t)
		}
		return false
	}
	return false
}

// MatchesFinal reports whether inst a satisfies the required final inst b
// at a procedure exit: a carries at least as much information, and where
// both sides specify a binding it is the same binding.
func MatchesFinal(a, b inst.Inst, t inst.Tables) bool {
	ok := matchesFinal(a, b, nil, t)
	trace("matches_final", a, b, ok)
	return ok
}

func matchesFinal(a, b inst.Inst, seen expansions, t inst.Tables) bool {
	// Literal equality short-circuits before any expansion; this is what
	// keeps identical recursive definitions from being unfolded at all.
	if reflect.DeepEqual(a, b) {
		return true
	}
	if seen.contains(a, b) {
		return true
	}
	seen = append(seen, instPair{a, b})
	return matchesFinal3(inst.Expand(t, a), inst.Expand(t, b), seen, t)
}

func matchesFinal3(a, b inst.Inst, seen expansions, t inst.Tables) bool {
	if _, ok := a.(inst.InstVar); ok {
		inst.Unexpected("matchesFinal", "unresolved inst placeholder")
	}
	if _, ok := b.(inst.InstVar); ok {
		inst.Unexpected("matchesFinal", "unresolved inst placeholder")
	}

	switch a := a.(type) {
	case inst.NotReached:
		return true

	case inst.Free:
		// Unlike matches_initial, Bound does not satisfy a required Free:
		// a final inst of free demands the variable was left untouched.
		_, ok := b.(inst.Free)
		return ok

	case inst.Any:
		if b, ok := b.(inst.Any); ok {
			return a.Uniq.MatchesFinal(b.Uniq)
		}
		return false

	case inst.Bound:
		switch b := b.(type) {
		case inst.Bound:
			return a.Uniq.MatchesFinal(b.Uniq) &&
				boundListMatches(a.Functors, b.Functors, matchesFinal, seen, t)
		case inst.Ground:
			if b.Pred != nil {
				return false
			}
			return a.Uniq.MatchesFinal(b.Uniq) &&
				boundListIsGround(a.Functors, t) &&
				boundListMatchesUniq(a.Functors, b.Uniq, t)
		}
		return false

	case inst.Ground:
		switch b := b.(type) {
		case inst.Bound:
			// Same documented incompleteness as matches_initial: a full
			// type-coverage check on b's functor list was never
			// implemented, so this conservatively fails.
			return false
		case inst.Ground:
			return maybePredMatches(a.Pred, b.Pred, seen, t) &&
				a.Uniq.MatchesFinal(b.Uniq)
		case inst.AbstractInst:
			inst.Unexpected("matchesFinal", "ground vs abstract inst is not yet supported")
		}
		return false

	case inst.AbstractInst:
		if b, ok := b.(inst.AbstractInst); ok {
			return a.Name == b.Name &&
				instListMatches(a.Args, b.Args, matchesFinal, seen, t)
		}
		return false
	}
	return false
}

// MatchesBinding reports whether the concrete shape described by a is
// provably identical to the shape described by b, ignoring uniqueness.
// Negation analysis uses it to prove a variable was not bound inside a
// negated goal: if its inst before and after the negation matches-binding,
// the goal did not touch it.
func MatchesBinding(a, b inst.Inst, t inst.Tables) bool {
	ok := matchesBinding(a, b, nil, t)
	trace("matches_binding", a, b, ok)
	return ok
}

func matchesBinding(a, b inst.Inst, seen expansions, t inst.Tables) bool {
	if seen.contains(a, b) {
		return true
	}
	seen = append(seen, instPair{a, b})
	return matchesBinding3(inst.Expand(t, a), inst.Expand(t, b), seen, t)
}

func matchesBinding3(a, b inst.Inst, seen expansions, t inst.Tables) bool {
	if _, ok := a.(inst.InstVar); ok {
		inst.Unexpected("matchesBinding", "unresolved inst placeholder")
	}
	if _, ok := b.(inst.InstVar); ok {
		inst.Unexpected("matchesBinding", "unresolved inst placeholder")
	}

	// Any is deliberately absent from this dispatch: it stands for a
	// potential binding that may or may not have been realized, so it never
	// matches-binding anything, itself included.
	switch a := a.(type) {
	case inst.NotReached:
		return true

	case inst.Free:
		_, ok := b.(inst.Free)
		return ok

	case inst.Bound:
		switch b := b.(type) {
		case inst.Bound:
			return boundListMatches(a.Functors, b.Functors, matchesBinding, seen, t)
		case inst.Ground:
			return boundListIsGround(a.Functors, t)
		}
		return false

	case inst.Ground:
		switch b := b.(type) {
		case inst.Bound:
			// Incomplete in the same way as the other two relations: there
			// is no check that b's functor list covers the whole type.
			return boundListIsGround(b.Functors, t)
		case inst.Ground:
			return maybePredMatches(a.Pred, b.Pred, seen, t)
		case inst.AbstractInst:
			inst.Unexpected("matchesBinding", "ground vs abstract inst is not yet supported")
		}
		return false

	case inst.AbstractInst:
		if b, ok := b.(inst.AbstractInst); ok {
			return a.Name == b.Name &&
				instListMatches(a.Args, b.Args, matchesBinding, seen, t)
		}
		return false
	}
	return false
}

// relation is one of matchesInitial/matchesFinal/matchesBinding, passed to
// the list matchers so they compare argument insts under the caller's
// relation.
type relation func(a, b inst.Inst, seen expansions, t inst.Tables) bool

func instListMatches(as, bs []inst.Inst, rel relation, seen expansions, t inst.Tables) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !rel(as[i], bs[i], seen, t) {
			return false
		}
	}
	return true
}
