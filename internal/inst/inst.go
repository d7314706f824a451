package inst

import (
	"fmt"
	"strings"

	"github.com/emacstheviking/mercury/internal/config"
)

// Inst describes how bound, and how exclusively owned, a value is at a
// particular program point. The set of variants is closed: every variant
// lives in this package and implements the unexported marker method, so
// dispatch over an Inst can (and should) be an exhaustive type switch.
//
// Insts are built by the earlier type and mode inference passes and are
// never mutated by the matching engine.
type Inst interface {
	String() string
	isInst()
}

// Free describes a completely unbound value. TypeName is the name of the
// value's type when type inference has recorded one, or empty.
type Free struct {
	TypeName string
}

// Any describes a value that may be partially constrained, as produced by
// constraint-style instantiation. Only the uniqueness is known.
type Any struct {
	Uniq Uniqueness
}

// Bound describes a value known to be built with one of a fixed set of
// constructors. Functors is sorted by constructor id with no duplicates;
// the sorted-merge matcher relies on this and does not re-check it.
type Bound struct {
	Uniq     Uniqueness
	Functors []BoundFunctor
}

// Ground describes a value whose shape is fully known, with no free
// sub-components. Pred, when non-nil, records the calling convention of a
// higher-order value.
type Ground struct {
	Uniq Uniqueness
	Pred *PredInstInfo
}

// NotReached describes a program point that is provably never executed.
type NotReached struct{}

// AbstractInst is an opaque named instantiation with no concrete backing
// definition, only comparable to itself by name and arguments.
type AbstractInst struct {
	Name string
	Args []Inst
}

// DefinedInst is an indirection to a named definition in the inst table.
type DefinedInst struct {
	Name string
}

// Alias is an indirection to an entry in the alias key table, used for
// tracking unique values through destructive update.
type Alias struct {
	Key AliasKey
}

// InstVar is an uninstantiated placeholder. All placeholders must be
// resolved before the matching engine runs; encountering one during
// matching is a compiler bug, not a user error.
type InstVar struct {
	ID int
}

// AliasKey is an opaque handle into the alias table. Keys are minted by
// mode analysis (see insttable.AliasTable) and carry no structure.
type AliasKey string

// BoundFunctor pairs a constructor with the instantiation of each of its
// arguments.
type BoundFunctor struct {
	ConsID   ConsID
	ArgInsts []Inst
}

// ConsID identifies a constructor by name and arity.
type ConsID struct {
	Name  string
	Arity int
}

// Compare orders constructor ids by name and then arity. Bound functor
// lists are kept sorted in this order.
func (c ConsID) Compare(o ConsID) int {
	if c.Name != o.Name {
		if c.Name < o.Name {
			return -1
		}
		return 1
	}
	switch {
	case c.Arity < o.Arity:
		return -1
	case c.Arity > o.Arity:
		return 1
	}
	return 0
}

func (c ConsID) String() string {
	return fmt.Sprintf("%s/%d", c.Name, c.Arity)
}

func (Free) isInst()         {}
func (Any) isInst()          {}
func (Bound) isInst()        {}
func (Ground) isInst()       {}
func (NotReached) isInst()   {}
func (AbstractInst) isInst() {}
func (DefinedInst) isInst()  {}
func (Alias) isInst()        {}
func (InstVar) isInst()      {}

func (i Free) String() string {
	if i.TypeName != "" {
		return fmt.Sprintf("free(%s)", i.TypeName)
	}
	return "free"
}

func (i Any) String() string {
	return fmt.Sprintf("any(%s)", i.Uniq)
}

func (i Bound) String() string {
	parts := make([]string, len(i.Functors))
	for n, f := range i.Functors {
		parts[n] = f.String()
	}
	return fmt.Sprintf("bound(%s, [%s])", i.Uniq, strings.Join(parts, ", "))
}

func (f BoundFunctor) String() string {
	if len(f.ArgInsts) == 0 {
		return f.ConsID.Name
	}
	args := make([]string, len(f.ArgInsts))
	for n, a := range f.ArgInsts {
		args[n] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.ConsID.Name, strings.Join(args, ", "))
}

func (i Ground) String() string {
	if i.Pred != nil {
		return fmt.Sprintf("ground(%s, %s)", i.Uniq, i.Pred)
	}
	return fmt.Sprintf("ground(%s)", i.Uniq)
}

func (NotReached) String() string {
	return "not_reached"
}

func (i AbstractInst) String() string {
	if len(i.Args) == 0 {
		return i.Name
	}
	args := make([]string, len(i.Args))
	for n, a := range i.Args {
		args[n] = a.String()
	}
	return fmt.Sprintf("%s(%s)", i.Name, strings.Join(args, ", "))
}

func (i DefinedInst) String() string {
	return i.Name
}

func (i Alias) String() string {
	// Alias keys are minted identifiers (see insttable); normalize them in
	// test mode so table-driven expectations stay deterministic.
	if config.IsTestMode {
		return "alias(?)"
	}
	return fmt.Sprintf("alias(%s)", string(i.Key))
}

func (i InstVar) String() string {
	if config.IsTestMode {
		return "inst_?"
	}
	return fmt.Sprintf("inst_%d", i.ID)
}
