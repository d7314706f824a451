package inst

import (
	"fmt"
	"strings"
)

// Determinism classifies how many solutions a call can produce and whether
// it can fail. Closure compatibility compares these tags exactly.
type Determinism int

const (
	DetismDet Determinism = iota
	DetismSemidet
	DetismMulti
	DetismNondet
	DetismCCMulti
	DetismCCNondet
	DetismErroneous
	DetismFailure
)

var determinismNames = [...]string{
	DetismDet:       "det",
	DetismSemidet:   "semidet",
	DetismMulti:     "multi",
	DetismNondet:    "nondet",
	DetismCCMulti:   "cc_multi",
	DetismCCNondet:  "cc_nondet",
	DetismErroneous: "erroneous",
	DetismFailure:   "failure",
}

func (d Determinism) String() string {
	if d < DetismDet || d > DetismFailure {
		return "unknown_detism"
	}
	return determinismNames[d]
}

// ArgMode is one argument's mode: the instantiation it must have on entry
// and the instantiation it will have on exit.
type ArgMode struct {
	Initial Inst
	Final   Inst
}

func (m ArgMode) String() string {
	return fmt.Sprintf("%s >> %s", m.Initial, m.Final)
}

// PredInstInfo records the calling convention of a higher-order value: a
// predicate or function marker, the mode of each argument, and the
// determinism of calling it.
type PredInstInfo struct {
	IsFunction bool
	ArgModes   []ArgMode
	Detism     Determinism
}

func (p *PredInstInfo) String() string {
	kind := "pred"
	if p.IsFunction {
		kind = "func"
	}
	modes := make([]string, len(p.ArgModes))
	for i, m := range p.ArgModes {
		modes[i] = m.String()
	}
	return fmt.Sprintf("%s(%s) is %s", kind, strings.Join(modes, ", "), p.Detism)
}
