// Package errorsx formats compiler diagnostics with source context,
// line/column information, and a caret pointing to the error location.
package errorsx

import (
	"fmt"
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// MaxDiagnostics caps how many errors a single stage accumulates before
// it gives up and reports a truncation notice, so a badly malformed file
// can't produce unbounded diagnostic output.
const MaxDiagnostics = 100

// Severity distinguishes a hard error (compilation cannot proceed) from a
// warning (compilation proceeds, but the condition is worth flagging).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single problem found at some stage of compilation
// (lexing, parsing, resolution, analysis), with enough context to render
// a caret-pointed excerpt.
type Diagnostic struct {
	Severity Severity
	Message  string
	Source   string
	File     string
	Pos      token.Position
}

// New constructs an error-severity Diagnostic.
func New(pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Pos: pos, Message: message, Source: source, File: file}
}

// NewWarning constructs a warning-severity Diagnostic.
func NewWarning(pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with a source excerpt and caret. If
// color is true, ANSI escapes highlight the caret and message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	label := "Error"
	if d.Severity == SeverityWarning {
		label = "Warning"
	}
	if d.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", label, d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", label, d.Pos.Line, d.Pos.Column)
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d diagnostic(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Collector accumulates diagnostics for a single compilation stage,
// truncating at MaxDiagnostics so a pathological input can't produce an
// unbounded error list.
type Collector struct {
	source    string
	file      string
	diags     []*Diagnostic
	truncated bool
}

// NewCollector creates a Collector for the given source/file, used to
// populate each Diagnostic's source-excerpt context.
func NewCollector(source, file string) *Collector {
	return &Collector{source: source, file: file}
}

// Add appends an error-severity diagnostic, unless the cap has been reached.
func (c *Collector) Add(pos token.Position, format string, args ...any) {
	c.add(SeverityError, pos, format, args...)
}

// AddWarning appends a warning-severity diagnostic.
func (c *Collector) AddWarning(pos token.Position, format string, args ...any) {
	c.add(SeverityWarning, pos, format, args...)
}

func (c *Collector) add(sev Severity, pos token.Position, format string, args ...any) {
	if len(c.diags) >= MaxDiagnostics {
		c.truncated = true
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	c.diags = append(c.diags, &Diagnostic{Severity: sev, Pos: pos, Message: msg, Source: c.source, File: c.file})
}

// Diagnostics returns every diagnostic accumulated so far, plus a final
// truncation notice if the cap was hit.
func (c *Collector) Diagnostics() []*Diagnostic {
	if !c.truncated {
		return c.diags
	}
	notice := &Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf("too many diagnostics (stopped after %d); fix the above and recompile", MaxDiagnostics),
		File:     c.file,
	}
	return append(append([]*Diagnostic{}, c.diags...), notice)
}

// Merge folds diagnostics produced by another stage (e.g. a per-module
// parser run by the resolver) into this collector, respecting the cap.
func (c *Collector) Merge(diags []*Diagnostic) {
	for _, d := range diags {
		if len(c.diags) >= MaxDiagnostics {
			c.truncated = true
			return
		}
		c.diags = append(c.diags, d)
	}
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return c.truncated
}
