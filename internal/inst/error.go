package inst

import "fmt"

// InternalError reports an invariant violation inside the instantiation
// engine: a placeholder that should have been resolved by an earlier pass,
// or a descriptor combination the engine explicitly does not support.
// These abort compilation; they are never user-facing mode errors, which
// are reported by the relations simply returning false.
type InternalError struct {
	Where string
	Msg   string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error: %s: %s", e.Where, e.Msg)
}

// Unexpected panics with an InternalError. The mode-checking driver
// recovers at its pass boundary and turns the panic into an
// internal-compiler-error diagnostic.
func Unexpected(where, msg string) {
	panic(&InternalError{Where: where, Msg: msg})
}
