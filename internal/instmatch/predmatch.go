package instmatch

import "github.com/emacstheviking/mercury/internal/inst"

// PredMatches reports whether a higher-order value with calling convention
// p1 may be used wherever convention p2 is required. Both must describe
// the same kind (predicate or function) with the same determinism, and each
// argument mode must be compatible: the required initial inst must
// matches-final the candidate's initial inst (arguments are accepted
// contravariantly), while the candidate's final inst must matches-final the
// required final inst (results are produced covariantly).
func PredMatches(p1, p2 *inst.PredInstInfo, t inst.Tables) bool {
	// A missing convention is handled by maybePredMatches at the ground
	// dispatch sites; reaching here with nil means an earlier pass lost one.
	if p1 == nil || p2 == nil {
		inst.Unexpected("PredMatches", "nil pred inst info")
	}
	return predMatches(p1, p2, nil, t)
}

// predMatches threads the caller's expansion set so recursive higher-order
// descriptors (a closure whose argument modes mention the closure's own
// defined inst) stay cycle-safe.
func predMatches(p1, p2 *inst.PredInstInfo, seen expansions, t inst.Tables) bool {
	if p1.IsFunction != p2.IsFunction {
		return false
	}
	if p1.Detism != p2.Detism {
		return false
	}
	if len(p1.ArgModes) != len(p2.ArgModes) {
		return false
	}
	for i := range p1.ArgModes {
		if !matchesFinal(p2.ArgModes[i].Initial, p1.ArgModes[i].Initial, seen, t) {
			return false
		}
		if !matchesFinal(p1.ArgModes[i].Final, p2.ArgModes[i].Final, seen, t) {
			return false
		}
	}
	return true
}

// maybePredMatches compares the optional higher-order payloads of two
// ground insts. A required inst with no payload accepts anything; a
// required payload accepts only a candidate that has one and matches it.
func maybePredMatches(p1, p2 *inst.PredInstInfo, seen expansions, t inst.Tables) bool {
	if p2 == nil {
		return true
	}
	if p1 == nil {
		return false
	}
	return predMatches(p1, p2, seen, t)
}
