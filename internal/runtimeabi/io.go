package runtimeabi

import (
	"bufio"
	"fmt"
	"strings"
)

// OtterStdIoPrint writes msg to stdout, normalizing any invalid UTF-8
// bytes to U+FFFD first (spec 6.3), the way the teacher's
// builtinPrint writes each argument's String() straight to i.output
// (internal/interp/builtins_io.go) — generalized here to a single
// pre-formatted message, since stringification of each Otter value
// happens in the emitter/stdlib layer before this call.
func (r *Runtime) OtterStdIoPrint(msg string) {
	if r.stdout == nil {
		return
	}
	fmt.Fprint(r.stdout, OtterNormalizeText(msg))
}

// OtterStdIoPrintln is OtterStdIoPrint plus a trailing newline.
func (r *Runtime) OtterStdIoPrintln(msg string) {
	if r.stdout == nil {
		return
	}
	fmt.Fprintln(r.stdout, OtterNormalizeText(msg))
}

// OtterStdIoEprintln is OtterStdIoPrintln to stderr.
func (r *Runtime) OtterStdIoEprintln(msg string) {
	if r.stderr == nil {
		return
	}
	fmt.Fprintln(r.stderr, OtterNormalizeText(msg))
}

// OtterStdIoReadLine reads one line from stdin, stripping a trailing
// "\r?\n"; ok is false on EOF (spec 6.3's NULL-on-EOF, translated to
// Go's ordinary two-result idiom instead of a nullable string).
func (r *Runtime) OtterStdIoReadLine() (line string, ok bool) {
	if r.stdin == nil {
		return "", false
	}
	reader, isReader := r.stdin.(*bufio.Reader)
	if !isReader {
		reader = bufio.NewReader(r.stdin)
		r.stdin = reader
	}
	s, err := reader.ReadString('\n')
	if err != nil && s == "" {
		return "", false
	}
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, true
}
