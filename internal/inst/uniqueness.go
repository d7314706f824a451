package inst

// Uniqueness says how exclusively a value is owned, and therefore whether
// destructive update or compile-time garbage collection is permitted on it.
// The values form a total order from "already destroyed" up to "sole
// reference".
type Uniqueness int

const (
	Clobbered Uniqueness = iota
	MostlyClobbered
	Shared
	MostlyUnique
	Unique
)

var uniquenessNames = [...]string{
	Clobbered:       "clobbered",
	MostlyClobbered: "mostly_clobbered",
	Shared:          "shared",
	MostlyUnique:    "mostly_unique",
	Unique:          "unique",
}

func (u Uniqueness) String() string {
	if u < Clobbered || u > Unique {
		return "unknown_uniqueness"
	}
	return uniquenessNames[u]
}

// MatchesInitial reports whether a value with uniqueness u may be passed
// where uniqueness req is required at a call site: u must sit at least as
// high in the order.
func (u Uniqueness) MatchesInitial(req Uniqueness) bool {
	return u >= req
}

// MatchesFinal is the same test as MatchesInitial kept under its own name:
// the two call sites (call-site checking vs exit checking) express
// different intents and are documented separately.
func (u Uniqueness) MatchesFinal(req Uniqueness) bool {
	return u >= req
}
