package config

// IsTestMode indicates the compiler is running under its own test harness.
// This is set once at startup. When set, String output for generated
// identifiers (inst placeholders, minted alias keys) is normalized so
// table-driven expectations stay deterministic.
var IsTestMode = false

// Well-known defined-inst names. The bootstrap inst table registers these;
// user modules may not shadow them.
const (
	GroundInstName = "ground"
	FreeInstName   = "free"
	DeadInstName   = "dead"
)
