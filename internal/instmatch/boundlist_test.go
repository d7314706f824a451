package instmatch

import (
	"testing"

	"github.com/emacstheviking/mercury/internal/inst"
	"github.com/emacstheviking/mercury/internal/insttable"
)

func TestBoundListVacuousActual(t *testing.T) {
	// An empty actual functor list means the value can never be
	// constructed at all, so any required list is trivially satisfied.
	tables := insttable.NewTables()
	empty := boundOf(inst.Shared)
	required := boundOf(inst.Shared, functor("f"), functor("g", groundShared()))

	if !MatchesInitial(empty, required, tables) {
		t.Errorf("bound([]) should matches_initial any required list")
	}
	if !MatchesFinal(empty, required, tables) {
		t.Errorf("bound([]) should matches_final any required list")
	}
}

func TestBoundListSubsetActual(t *testing.T) {
	// bound([f]) against bound([f, g]): g is implicitly not_reached in the
	// actual value and is skipped by the merge.
	tables := insttable.NewTables()
	actual := boundOf(inst.Shared, functor("f"))
	required := boundOf(inst.Shared, functor("f"), functor("g", groundShared()))

	if !MatchesInitial(actual, required, tables) {
		t.Errorf("bound([f]) should matches_initial bound([f, g])")
	}
}

func TestBoundListArgumentMismatch(t *testing.T) {
	tables := insttable.NewTables()
	actual := boundOf(inst.Shared, functor("f", inst.Free{}))
	required := boundOf(inst.Shared, functor("f", groundShared()))

	if MatchesInitial(actual, required, tables) {
		t.Errorf("free argument should not satisfy a ground argument")
	}
}

func TestBoundListSkipsInterleavedConstructors(t *testing.T) {
	tables := insttable.NewTables()
	actual := boundOf(inst.Shared, functor("b"), functor("d"))
	required := boundOf(inst.Shared,
		functor("a"), functor("b"), functor("c"), functor("d"), functor("e"))

	if !MatchesInitial(actual, required, tables) {
		t.Errorf("merge should skip required constructors absent from the actual list")
	}
}

func TestBoundListPreconditionViolation(t *testing.T) {
	// The merge requires the actual constructor set to be a subset of the
	// required one. A violation is not detected as an error; the relation
	// just answers false. This pins down the documented boundary.
	tables := insttable.NewTables()
	actual := boundOf(inst.Shared, functor("a"))
	required := boundOf(inst.Shared, functor("b"))

	if MatchesInitial(actual, required, tables) {
		t.Errorf("constructor outside the required set should not match")
	}
}
