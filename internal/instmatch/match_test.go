package instmatch

import (
	"testing"

	"github.com/emacstheviking/mercury/internal/inst"
	"github.com/emacstheviking/mercury/internal/insttable"
)

func groundShared() inst.Inst { return inst.Ground{Uniq: inst.Shared} }
func groundUnique() inst.Inst { return inst.Ground{Uniq: inst.Unique} }

func boundOf(u inst.Uniqueness, functors ...inst.BoundFunctor) inst.Inst {
	return inst.Bound{Uniq: u, Functors: functors}
}

func functor(name string, args ...inst.Inst) inst.BoundFunctor {
	return inst.BoundFunctor{
		ConsID:   inst.ConsID{Name: name, Arity: len(args)},
		ArgInsts: args,
	}
}

// loopTables defines the canonical self-referential skeleton:
// loop == bound(unique, [f, cons(loop)]).
func loopTables(t *testing.T) *insttable.Tables {
	t.Helper()
	tables := insttable.NewTables()
	err := tables.Insts.Define("loop", boundOf(inst.Unique,
		functor("cons", inst.DefinedInst{Name: "loop"}),
		functor("f"),
	))
	if err != nil {
		t.Fatal(err)
	}
	return tables
}

func TestNotReachedMatchesEverything(t *testing.T) {
	tables := insttable.NewTables()
	targets := []inst.Inst{
		inst.Free{},
		inst.Any{Uniq: inst.Shared},
		boundOf(inst.Shared, functor("f")),
		groundUnique(),
		inst.AbstractInst{Name: "opaque"},
		inst.NotReached{},
	}
	for _, b := range targets {
		if !MatchesInitial(inst.NotReached{}, b, tables) {
			t.Errorf("not_reached should matches_initial %s", b)
		}
		if !MatchesFinal(inst.NotReached{}, b, tables) {
			t.Errorf("not_reached should matches_final %s", b)
		}
		if !MatchesBinding(inst.NotReached{}, b, tables) {
			t.Errorf("not_reached should matches_binding %s", b)
		}
	}

	// Only not_reached matches_final not_reached.
	if MatchesFinal(groundShared(), inst.NotReached{}, tables) {
		t.Errorf("ground should not matches_final not_reached")
	}
	if !MatchesFinal(inst.NotReached{}, inst.NotReached{}, tables) {
		t.Errorf("not_reached should matches_final itself")
	}
}

func TestMatchesInitialDispatch(t *testing.T) {
	tables := insttable.NewTables()
	tests := []struct {
		name string
		a, b inst.Inst
		want bool
	}{
		{"free vs free", inst.Free{}, inst.Free{}, true},
		{"free vs ground", inst.Free{}, groundShared(), false},
		{"bound vs free", boundOf(inst.Shared, functor("f")), inst.Free{}, true},
		{"ground vs free", groundShared(), inst.Free{}, true},
		{"abstract vs free", inst.AbstractInst{Name: "opaque"}, inst.Free{}, true},
		{"any vs any uniq ok", inst.Any{Uniq: inst.Unique}, inst.Any{Uniq: inst.Shared}, true},
		{"any vs any uniq too weak", inst.Any{Uniq: inst.Shared}, inst.Any{Uniq: inst.Unique}, false},
		{"any vs ground", inst.Any{Uniq: inst.Unique}, groundShared(), false},
		{
			"fully ground bound satisfies ground",
			boundOf(inst.Unique, functor("f", groundUnique())),
			groundShared(),
			true,
		},
		{
			"bound with free arg does not satisfy ground",
			boundOf(inst.Unique, functor("f", inst.Free{})),
			groundShared(),
			false,
		},
		{
			"shared bound fails unique ground requirement",
			boundOf(inst.Shared, functor("f")),
			groundUnique(),
			false,
		},
		{
			"unique bound with shared args fails unique ground requirement",
			boundOf(inst.Unique, functor("f", groundShared())),
			groundUnique(),
			false,
		},
		{"clobbered vs unique", inst.Ground{Uniq: inst.Clobbered}, groundUnique(), false},
		{"unique vs clobbered", groundUnique(), inst.Ground{Uniq: inst.Clobbered}, true},
		{
			// Documented incompleteness: needs a type-coverage check on b's
			// functor list that was never implemented upstream.
			"ground vs bound always fails",
			groundShared(),
			boundOf(inst.Shared, functor("f", groundShared())),
			false,
		},
		{
			"unique bound satisfies abstract",
			boundOf(inst.Unique, functor("f", groundUnique())),
			inst.AbstractInst{Name: "opaque"},
			true,
		},
		{
			"shared bound does not satisfy abstract",
			boundOf(inst.Shared, functor("f")),
			inst.AbstractInst{Name: "opaque"},
			false,
		},
		{
			"abstract vs same abstract",
			inst.AbstractInst{Name: "opaque", Args: []inst.Inst{groundUnique()}},
			inst.AbstractInst{Name: "opaque", Args: []inst.Inst{groundShared()}},
			true,
		},
		{
			"abstract vs different abstract",
			inst.AbstractInst{Name: "opaque"},
			inst.AbstractInst{Name: "other"},
			false,
		},
	}
	for _, tt := range tests {
		if got := MatchesInitial(tt.a, tt.b, tables); got != tt.want {
			t.Errorf("%s: matches_initial(%s, %s) = %v, want %v",
				tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatchesFinalDispatch(t *testing.T) {
	tables := insttable.NewTables()
	tests := []struct {
		name string
		a, b inst.Inst
		want bool
	}{
		{"free vs free", inst.Free{}, inst.Free{}, true},
		// matches_initial lets a bound value satisfy free; matches_final
		// demands the variable really was left unbound.
		{"bound vs free", boundOf(inst.Shared, functor("f")), inst.Free{}, false},
		{"ground vs free", groundShared(), inst.Free{}, false},
		{"any vs any", inst.Any{Uniq: inst.Unique}, inst.Any{Uniq: inst.Shared}, true},
		{
			"ground bound satisfies ground",
			boundOf(inst.Shared, functor("f", groundShared())),
			groundShared(),
			true,
		},
		{"ground vs bound always fails", groundShared(), boundOf(inst.Shared, functor("f")), false},
		{"ground uniq", groundUnique(), groundShared(), true},
		{"ground uniq too weak", groundShared(), groundUnique(), false},
	}
	for _, tt := range tests {
		if got := MatchesFinal(tt.a, tt.b, tables); got != tt.want {
			t.Errorf("%s: matches_final(%s, %s) = %v, want %v",
				tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatchesFinalEqualityShortCircuit(t *testing.T) {
	// Identical insts succeed before any table lookup happens: a defined
	// inst matched against itself never needs a definition at all.
	tables := insttable.NewTables()
	a := inst.DefinedInst{Name: "never_defined"}
	if !MatchesFinal(a, a, tables) {
		t.Errorf("identical defined insts should matches_final without expansion")
	}
}

func TestMatchesBindingDispatch(t *testing.T) {
	tables := insttable.NewTables()
	tests := []struct {
		name string
		a, b inst.Inst
		want bool
	}{
		{"free vs free", inst.Free{}, inst.Free{}, true},
		{"free vs ground", inst.Free{}, groundShared(), false},
		// Uniqueness is ignored entirely.
		{"clobbered vs unique ground", inst.Ground{Uniq: inst.Clobbered}, groundUnique(), true},
		{
			"bound vs ground checks groundedness",
			boundOf(inst.Shared, functor("f", groundShared())),
			groundUnique(),
			true,
		},
		{
			"ground vs ground bound list",
			groundShared(),
			boundOf(inst.Unique, functor("f", groundShared())),
			true,
		},
		{
			"ground vs bound with free arg",
			groundShared(),
			boundOf(inst.Unique, functor("f", inst.Free{})),
			false,
		},
		{
			"bound vs bound ignores uniqueness",
			boundOf(inst.Clobbered, functor("f")),
			boundOf(inst.Unique, functor("f")),
			true,
		},
	}
	for _, tt := range tests {
		if got := MatchesBinding(tt.a, tt.b, tables); got != tt.want {
			t.Errorf("%s: matches_binding(%s, %s) = %v, want %v",
				tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAnyNeverMatchesBinding(t *testing.T) {
	// Any stands for a potential binding that may or may not have been
	// realized, so it is absent from the binding dispatch: it does not even
	// match itself. Easy to assume reflexivity here; it does not hold.
	tables := insttable.NewTables()
	a := inst.Any{Uniq: inst.Unique}
	if MatchesBinding(a, a, tables) {
		t.Errorf("any(unique) must not matches_binding itself")
	}
	if MatchesBinding(a, groundUnique(), tables) {
		t.Errorf("any(unique) must not matches_binding ground")
	}
	if MatchesBinding(groundUnique(), a, tables) {
		t.Errorf("ground must not matches_binding any(unique)")
	}
}

func TestRecursiveDefinitionsTerminate(t *testing.T) {
	tables := loopTables(t)
	loop := inst.DefinedInst{Name: "loop"}

	if !MatchesInitial(loop, loop, tables) {
		t.Errorf("loop should matches_initial itself")
	}
	if !MatchesFinal(loop, loop, tables) {
		t.Errorf("loop should matches_final itself")
	}
	if !MatchesBinding(loop, loop, tables) {
		t.Errorf("loop should matches_binding itself")
	}

	// The same graph against a structurally distinct but compatible
	// requirement exercises the expansion set rather than the equality
	// short-circuit.
	wider := boundOf(inst.Shared,
		functor("cons", loop),
		functor("f"),
		functor("g"),
	)
	if !MatchesInitial(loop, wider, tables) {
		t.Errorf("loop should matches_initial a superset requirement")
	}
}

func TestHigherOrderGroundMatching(t *testing.T) {
	tables := insttable.NewTables()
	pred := &inst.PredInstInfo{
		ArgModes: []inst.ArgMode{{Initial: inst.Free{}, Final: groundShared()}},
		Detism:   inst.DetismDet,
	}
	withPred := inst.Ground{Uniq: inst.Shared, Pred: pred}

	// A required ground with no calling convention accepts a closure.
	if !MatchesInitial(withPred, groundShared(), tables) {
		t.Errorf("closure should satisfy plain ground")
	}
	// The reverse demands a convention the candidate does not carry.
	if MatchesInitial(groundShared(), withPred, tables) {
		t.Errorf("plain ground should not satisfy a required calling convention")
	}
	if !MatchesInitial(withPred, withPred, tables) {
		t.Errorf("identical conventions should match")
	}
}

func TestInstVarIsInternalError(t *testing.T) {
	tables := insttable.NewTables()
	rels := []struct {
		name string
		call func(a, b inst.Inst) bool
	}{
		{"matches_initial", func(a, b inst.Inst) bool { return MatchesInitial(a, b, tables) }},
		{"matches_final", func(a, b inst.Inst) bool { return MatchesFinal(a, b, tables) }},
		{"matches_binding", func(a, b inst.Inst) bool { return MatchesBinding(a, b, tables) }},
	}
	for _, rel := range rels {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("%s: inst placeholder should panic", rel.name)
					return
				}
				if _, ok := r.(*inst.InternalError); !ok {
					t.Errorf("%s: panic value is %T, want *InternalError", rel.name, r)
				}
			}()
			rel.call(inst.InstVar{ID: 1}, groundShared())
		}()
	}
}

func TestGroundVsAbstractIsInternalError(t *testing.T) {
	tables := insttable.NewTables()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("ground vs abstract inst should panic")
		}
	}()
	MatchesInitial(groundShared(), inst.AbstractInst{Name: "opaque"}, tables)
}
