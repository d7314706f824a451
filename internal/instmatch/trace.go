package instmatch

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/emacstheviking/mercury/internal/inst"
)

// Tracer logs the outcome of each top-level relation call, for debugging
// mode errors in the passes that drive this engine. Matching itself does no
// I/O; nothing is written unless a tracer has been installed.
type Tracer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewTracer writes traces to w, with ANSI color when w is a terminal.
func NewTracer(w io.Writer) *Tracer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Tracer{w: w, color: color}
}

var (
	tracerMu sync.RWMutex
	tracer   *Tracer
)

// SetTracer installs t as the engine-wide tracer; nil disables tracing.
// Intended to be set once at compiler startup from a debug flag.
func SetTracer(t *Tracer) {
	tracerMu.Lock()
	tracer = t
	tracerMu.Unlock()
}

func trace(relName string, a, b inst.Inst, ok bool) {
	tracerMu.RLock()
	t := tracer
	tracerMu.RUnlock()
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	verdict := "no"
	if ok {
		verdict = "yes"
	}
	if t.color {
		code := "31" // red
		if ok {
			code = "32" // green
		}
		verdict = fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, verdict)
	}
	fmt.Fprintf(t.w, "%s(%s, %s): %s\n", relName, a, b, verdict)
}
