package driver

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunReturnsResult(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "def main() -> Int:\n    return 6 * 7\n")

	var stdout, stderr bytes.Buffer
	result, diags, err := Run(entry, "", &stdout, &stderr, strings.NewReader(""), true)
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if result != int64(42) {
		t.Errorf("expected 42, got %v (%T)", result, result)
	}
}

func TestRunWritesToStdout(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "def main():\n    println(\"hello otter\")\n")

	var stdout, stderr bytes.Buffer
	_, diags, err := Run(entry, "", &stdout, &stderr, strings.NewReader(""), true)
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if !strings.Contains(stdout.String(), "hello otter") {
		t.Errorf("expected stdout to contain the printed line, got %q", stdout.String())
	}
}

func TestRunPropagatesUncaughtRaise(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot",
		"def main():\n    raise \"boom\"\n")

	var stdout, stderr bytes.Buffer
	_, diags, err := Run(entry, "", &stdout, &stderr, strings.NewReader(""), true)
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if err == nil {
		t.Fatal("expected an error for an uncaught raise")
	}
}

func TestRunSerialVsTaskRuntimeBothCompile(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "def main() -> Int:\n    return 1\n")

	for _, serial := range []bool{true, false} {
		var stdout, stderr bytes.Buffer
		_, diags, err := Run(entry, "", &stdout, &stderr, strings.NewReader(""), serial)
		if diags != nil {
			t.Fatalf("serial=%v: unexpected diagnostics: %v", serial, diags)
		}
		if err != nil {
			t.Fatalf("serial=%v: unexpected run error: %v", serial, err)
		}
	}
}
