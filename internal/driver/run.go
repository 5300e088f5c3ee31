package driver

import (
	"io"
	"os"

	"github.com/otterlang/otterc/internal/exec"
	"github.com/otterlang/otterc/internal/exec/taskrt"
	"github.com/otterlang/otterc/internal/runtimeabi"
)

// entryFunc is the top-level function every OtterLang program defines
// as its execution entry point, the same role `func main()` plays in a
// linked Go binary.
const entryFunc = "main"

// Run executes entryFile's program directly via internal/exec, the
// reference-interpreter path a `run` CLI subcommand (and this driver's
// own tests) use instead of linking emitted IR. stdout/stderr/stdin
// wire the program's std.io intrinsics; serial selects spec 5's Serial
// task model (every `spawn` runs its body eagerly inline) instead of
// the concurrent, errgroup-backed internal/exec/taskrt.Pool.
func Run(entryFile, stdlibPath string, stdout, stderr io.Writer, stdin io.Reader, serial bool) (result any, diags Diagnostics, runErr error) {
	mod, diags := LinkedModule(entryFile, stdlibPath)
	if diags != nil {
		return nil, diags, nil
	}

	var pool runtimeabi.TaskPool
	if !serial {
		pool = taskrt.New()
	}
	rt := runtimeabi.New(stdout, stderr, stdin, pool)

	m := exec.New(mod, rt)
	result, runErr = m.Run(entryFunc, nil)
	return result, nil, runErr
}

// RunStdio is Run wired to the process's own stdio streams, the shape
// cmd/otterc's `run` subcommand calls directly.
func RunStdio(entryFile, stdlibPath string, serial bool) (any, Diagnostics, error) {
	return Run(entryFile, stdlibPath, os.Stdout, os.Stderr, os.Stdin, serial)
}
