package errorsx

import (
	"strings"
	"testing"

	"github.com/otterlang/otterc/internal/token"
)

func TestFormatIncludesCaret(t *testing.T) {
	d := New(token.Position{Line: 2, Column: 5}, "unexpected token", "let x =\nlet y = )\n", "test.ot")
	out := d.Format(false)
	if !strings.Contains(out, "test.ot:2:5") {
		t.Errorf("missing position header: %s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret: %s", out)
	}
	if !strings.Contains(out, "unexpected token") {
		t.Errorf("missing message: %s", out)
	}
}

func TestCollectorTruncatesAtCap(t *testing.T) {
	c := NewCollector("", "test.ot")
	for i := 0; i < MaxDiagnostics+10; i++ {
		c.Add(token.Position{Line: i + 1, Column: 1}, "error %d", i)
	}
	diags := c.Diagnostics()
	if len(diags) != MaxDiagnostics+1 {
		t.Fatalf("got %d diagnostics, want %d (cap + notice)", len(diags), MaxDiagnostics+1)
	}
	if !strings.Contains(diags[len(diags)-1].Message, "too many diagnostics") {
		t.Errorf("expected truncation notice, got %q", diags[len(diags)-1].Message)
	}
}

func TestCollectorHasErrorsIgnoresWarnings(t *testing.T) {
	c := NewCollector("", "test.ot")
	c.AddWarning(token.Position{Line: 1, Column: 1}, "unused variable")
	if c.HasErrors() {
		t.Error("a warning-only collector should not report HasErrors")
	}
	c.Add(token.Position{Line: 1, Column: 1}, "real error")
	if !c.HasErrors() {
		t.Error("expected HasErrors after adding an error")
	}
}
