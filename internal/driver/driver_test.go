package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLinkedModuleSingleFile(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "def main() -> Int:\n    return 41 + 1\n")

	mod, diags := LinkedModule(entry, "")
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if mod == nil {
		t.Fatal("expected a linked module")
	}
	found := false
	for _, fn := range mod.Funcs {
		if fn.Name == "main" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a main function in the linked module, got %+v", mod.Funcs)
	}
}

func TestLinkedModuleAcrossWorkspaceModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.ot", "pub def double(n: Int) -> Int:\n    return n * 2\n")
	entry := writeFile(t, dir, "main.ot", "use helper\n\ndef main() -> Int:\n    return helper.double(21)\n")

	mod, diags := LinkedModule(entry, "")
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	names := map[string]bool{}
	for _, fn := range mod.Funcs {
		names[fn.Name] = true
	}
	if !names["main"] || !names["double"] {
		t.Errorf("expected main and double in the linked module, got %+v", names)
	}
}

func TestLinkedModulePullsInCorePrelude(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "def main():\n    println(\"hi\")\n")

	mod, diags := LinkedModule(entry, "")
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	found := false
	for _, fn := range mod.Funcs {
		if fn.Name == "println" {
			found = true
		}
	}
	if !found {
		t.Error("expected the core prelude's println to be linked in even without an explicit use core")
	}
}

func TestLinkedModuleDeduplicatesSharedDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.ot", "pub def one() -> Int:\n    return 1\n")
	writeFile(t, dir, "left.ot", "use base\n\npub def left_val() -> Int:\n    return base.one()\n")
	writeFile(t, dir, "right.ot", "use base\n\npub def right_val() -> Int:\n    return base.one()\n")
	entry := writeFile(t, dir, "main.ot",
		"use left\nuse right\n\ndef main() -> Int:\n    return left.left_val() + right.right_val()\n")

	mod, diags := LinkedModule(entry, "")
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	count := 0
	for _, fn := range mod.Funcs {
		if fn.Name == "one" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected base.one to appear exactly once in the merged module, got %d", count)
	}
}

func TestLinkedModuleReportsMissingImport(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "use nowhere\n\ndef main():\n    return\n")

	_, diags := LinkedModule(entry, "")
	if diags == nil {
		t.Fatal("expected diagnostics for a missing module")
	}
	if !strings.Contains(diags.Error(), "nowhere") {
		t.Errorf("expected the diagnostic to mention the missing module, got %q", diags.Error())
	}
}

func TestCompileEmitsIR(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ot", "def main() -> Int:\n    return 7\n")

	ir, diags := Compile(entry, "", 0)
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(ir, "main") {
		t.Errorf("expected the emitted IR to reference main, got:\n%s", ir)
	}
}
