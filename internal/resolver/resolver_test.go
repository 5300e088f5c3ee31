package resolver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/otterlang/otterc/internal/errorsx"
)

// memoryLoader serves module sources from an in-memory map keyed by dotted
// path, standing in for the workspace/stdlib filesystem loaders the driver
// wires in production.
type memoryLoader map[string]string

func (m memoryLoader) Load(path []string) (string, string, error) {
	key := strings.Join(path, ".")
	src, ok := m[key]
	if !ok {
		return "", "", fmt.Errorf("no such module: %s", key)
	}
	return src, key + ".ot", nil
}

func TestResolveSimpleChain(t *testing.T) {
	loader := memoryLoader{
		"main": "use helper\n\nlet x = helper.double(2)\n",
		"helper": "pub def double(n: Int) -> Int:\n    return n * 2\n",
	}
	errs := errorsx.NewCollector("", "main.ot")
	r := New(loader, errs)
	g, err := r.Resolve([]string{"main"})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	if len(g.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(g.Modules))
	}
	if g.Order[len(g.Order)-1] != "main" {
		t.Errorf("expected main to resolve last (importees first), got order %v", g.Order)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	loader := memoryLoader{
		"a": "use b\n",
		"b": "use a\n",
	}
	errs := errorsx.NewCollector("", "a.ot")
	r := New(loader, errs)
	_, err := r.Resolve([]string{"a"})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if !errs.HasErrors() {
		t.Fatal("expected a cycle diagnostic")
	}
	found := false
	for _, d := range errs.Diagnostics() {
		if strings.Contains(d.Message, "import cycle") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an import cycle diagnostic, got %v", errs.Diagnostics())
	}
}

func TestResolveReexportsTransitively(t *testing.T) {
	loader := memoryLoader{
		"main": "use shapes\n\nlet x = shapes.area\n",
		"shapes": "pub use geometry\n",
		"geometry": "pub def area(r: Int) -> Int:\n    return r * r\n",
	}
	errs := errorsx.NewCollector("", "main.ot")
	r := New(loader, errs)
	g, err := r.Resolve([]string{"main"})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shapes := g.Modules["shapes"]
	if shapes == nil {
		t.Fatal("expected shapes module in graph")
	}
	if _, ok := shapes.Public["area"]; !ok {
		t.Errorf("expected shapes to re-export geometry.area, got %+v", shapes.Public)
	}
}

func TestResolveReexportWithAlias(t *testing.T) {
	loader := memoryLoader{
		"main":     "pub use geometry.area as sq\n",
		"geometry": "pub def area(r: Int) -> Int:\n    return r * r\n",
	}
	errs := errorsx.NewCollector("", "main.ot")
	r := New(loader, errs)
	g, err := r.Resolve([]string{"main"})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	main := g.Modules["main"]
	if _, ok := main.Public["sq"]; !ok {
		t.Errorf("expected main to export aliased name 'sq', got %+v", main.Public)
	}
}

func TestResolveMissingModule(t *testing.T) {
	loader := memoryLoader{
		"main": "use nowhere\n",
	}
	errs := errorsx.NewCollector("", "main.ot")
	r := New(loader, errs)
	if _, err := r.Resolve([]string{"main"}); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if !errs.HasErrors() {
		t.Fatal("expected a diagnostic for the missing module")
	}
}
