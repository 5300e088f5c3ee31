// Package resolver builds the module graph: given a root source file, it
// discovers every module transitively reachable through `use`/`pub use`
// declarations, parses each one exactly once, detects import cycles, and
// resolves re-export chains into each module's public namespace.
package resolver

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/errorsx"
	"github.com/otterlang/otterc/internal/lexer"
	"github.com/otterlang/otterc/internal/parser"
	"github.com/otterlang/otterc/internal/token"
)

// StdlibModules lists the bundled standard library module paths, resolved
// ahead of the user's workspace when a `use` declaration's first path
// segment names one of them.
var StdlibModules = map[string]bool{
	"core": true, "math": true, "io": true, "time": true,
	"json": true, "task": true, "runtime": true,
}

// SourceLoader locates and reads the source for a dotted module path. The
// driver wires one implementation for the user's workspace (reading
// *.ot files relative to a root directory) and one for the bundled
// standard library (reading from an embedded filesystem).
type SourceLoader interface {
	// Load returns the source text and a display file name for path, or
	// an error if no module exists at that path.
	Load(path []string) (source, file string, err error)
}

// Symbol is a single name a module makes available to importers, either
// because it declares it directly or because it re-exports it from
// another module via `pub use`.
type Symbol struct {
	Name string
	Decl ast.Statement // the declaring FunctionDecl/StructDecl/EnumDecl; nil for a re-export not yet resolved
	From []string      // the module path that originally declared Decl, for re-export chains
}

// Module is one node of the resolved module graph.
type Module struct {
	Path   []string
	File   string
	AST    *ast.Module
	Public map[string]*Symbol
}

func pathKey(path []string) string { return strings.Join(path, ".") }

// Graph is the fully resolved module graph: every module reachable from
// the root, keyed by dotted path, plus a topological build order
// (importees before importers) the rest of the pipeline can process in.
type Graph struct {
	mu      sync.Mutex
	Modules map[string]*Module
	Order   []string
}

func newGraph() *Graph {
	return &Graph{Modules: make(map[string]*Module)}
}

func (g *Graph) get(key string) (*Module, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.Modules[key]
	return m, ok
}

func (g *Graph) put(key string, m *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Modules[key] = m
}

// color tracks a node's DFS state for cycle detection: white (unvisited),
// gray (on the current path), black (fully resolved).
type color int

const (
	white color = iota
	gray
	black
)

// Resolver drives module discovery. It is not itself safe to reuse across
// unrelated compilations, but parseOnce's singleflight group tolerates
// concurrent re-entrant calls for the same path within one resolve.
type Resolver struct {
	loader SourceLoader
	errs   *errorsx.Collector
	graph  *Graph
	group  singleflight.Group
	colors map[string]color
}

// New constructs a Resolver that loads source via loader and reports
// diagnostics (lexer/parser errors from every module it parses, plus its
// own cycle/missing-import errors) into errs.
func New(loader SourceLoader, errs *errorsx.Collector) *Resolver {
	return &Resolver{loader: loader, errs: errs, graph: newGraph(), colors: make(map[string]color)}
}

// Resolve parses rootPath and the transitive closure of everything it
// `use`s, returning the completed Graph. The root itself is included as
// a node. Every resolution problem, a missing root module included, is
// recorded in the Resolver's Collector and should be checked via
// HasErrors after Resolve returns; the returned error is always nil.
func (r *Resolver) Resolve(rootPath []string) (*Graph, error) {
	var stack []string
	if _, err := r.visit(rootPath, stack); err != nil {
		return nil, err
	}
	return r.graph, nil
}

func (r *Resolver) visit(path []string, stack []string) (*Module, error) {
	key := pathKey(path)

	switch r.colors[key] {
	case gray:
		cycle := append(append([]string{}, minimalCycle(stack, key)...), key)
		r.errs.Add(token.Position{}, "import cycle: %s", strings.Join(cycle, " -> "))
		return nil, nil
	case black:
		m, _ := r.graph.get(key)
		return m, nil
	}

	r.colors[key] = gray
	mod, err := r.parseOnce(key, path)
	if err != nil {
		r.colors[key] = black
		r.errs.Add(token.Position{}, "cannot resolve module %q: %s", key, err)
		return nil, nil
	}

	childStack := append(append([]string{}, stack...), key)
	for _, u := range mod.AST.Uses {
		modPath, trailing := r.splitUsePath(u.Path)
		child, cerr := r.visit(modPath, childStack)
		if cerr != nil {
			return nil, cerr
		}
		if child != nil && u.Public {
			r.applyReexport(mod, child, u, trailing)
		}
	}

	r.colors[key] = black
	r.graph.mu.Lock()
	r.graph.Order = append(r.graph.Order, key)
	r.graph.mu.Unlock()
	return mod, nil
}

// splitUsePath separates a use declaration's dotted path into the module
// path proper and a trailing symbol name, for the `use M.n` / `pub use
// M.n as k` forms where the last segment names something declared inside
// the module rather than a further path component. It tries the full
// path first, then progressively shorter prefixes, accepting the longest
// prefix the loader actually resolves. A bare `use M` / `use M.a.b`
// import-whole-module form simply finds the full path resolves and
// returns no trailing name.
func (r *Resolver) splitUsePath(full []string) (modPath []string, trailing []string) {
	for i := len(full); i >= 1; i-- {
		prefix := full[:i]
		if _, _, err := r.loader.Load(prefix); err == nil {
			return prefix, full[i:]
		}
	}
	// Nothing resolved; fall back to treating the whole path as the
	// module path so the caller reports a clear "cannot resolve" error.
	return full, nil
}

// minimalCycle trims stack back to the first occurrence of key, so a
// reported cycle reads as the shortest loop rather than the whole
// resolution path that led into it.
func minimalCycle(stack []string, key string) []string {
	for i, k := range stack {
		if k == key {
			return append([]string{}, stack[i:]...)
		}
	}
	return stack
}

// parseOnce lexes and parses the module at path, memoized by path so a
// module imported from several places is only ever parsed once, even if
// resolution of unrelated subtrees happens concurrently (the batch
// compiler itself resolves single-threaded).
func (r *Resolver) parseOnce(key string, path []string) (*Module, error) {
	v, err, _ := r.group.Do(key, func() (any, error) {
		if m, ok := r.graph.get(key); ok {
			return m, nil
		}
		src, file, err := r.loader.Load(path)
		if err != nil {
			return nil, err
		}
		l := lexer.New(file, src)
		p := parser.New(l, file, src)
		astMod := p.ParseModule()
		r.errs.Merge(p.Errors())

		mod := &Module{Path: path, File: file, AST: astMod, Public: collectPublicSymbols(astMod)}
		r.graph.put(key, mod)
		return mod, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Module), nil
}

// collectPublicSymbols scans a module's top-level declarations for `pub`
// items, returning the initial public namespace before any re-export
// aliasing (applyReexport) extends it.
func collectPublicSymbols(mod *ast.Module) map[string]*Symbol {
	out := make(map[string]*Symbol)
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			if decl.Public {
				out[decl.Name.Value] = &Symbol{Name: decl.Name.Value, Decl: decl}
			}
		case *ast.StructDecl:
			if decl.Public {
				out[decl.Name.Value] = &Symbol{Name: decl.Name.Value, Decl: decl}
			}
		case *ast.EnumDecl:
			if decl.Public {
				out[decl.Name.Value] = &Symbol{Name: decl.Name.Value, Decl: decl}
			}
		}
	}
	return out
}

// applyReexport implements `pub use M`, `pub use M.{n1, n2}`, and
// `pub use M.n as k`: it copies symbols from child's public namespace into
// parent's, following the spec's "re-export chains resolve transitively"
// rule (child's own public namespace may itself already contain symbols
// it re-exported from further down the graph, since visit() processes
// children before their parent folds this in).
//
// trailing is the leftover suffix splitUsePath peeled off u.Path that
// turned out to name a symbol inside child rather than a further module
// path segment (the `M.n` part of `use M.n as k`); it is merged with
// u.Names, which covers the brace form (`use M.{n1, n2}`).
func (r *Resolver) applyReexport(parent, child *Module, u *ast.UseDecl, trailing []string) {
	names := u.Names
	if len(names) == 0 && len(trailing) > 0 {
		names = trailing
	}

	if len(names) == 0 {
		for name, sym := range child.Public {
			parent.Public[aliasOrSelf(u, names, name)] = sym
		}
		return
	}
	for _, name := range names {
		sym, ok := child.Public[name]
		if !ok {
			r.errs.Add(u.Pos(), "module %q has no public name %q", pathKey(child.Path), name)
			continue
		}
		parent.Public[aliasOrSelf(u, names, name)] = sym
	}
}

// aliasOrSelf decides the name a re-exported symbol is published under:
// an alias only applies when exactly one name is being re-exported, since
// `as k` on a multi-name import would collide all of them onto one key.
func aliasOrSelf(u *ast.UseDecl, names []string, name string) string {
	if u.Alias != "" && len(names) <= 1 {
		return u.Alias
	}
	return name
}

// FormatGraph renders the resolved module order for diagnostics/tooling
// (e.g. a `--emit-ir` dry run listing build order), one path per line.
func FormatGraph(g *Graph) string {
	var sb strings.Builder
	for _, key := range g.Order {
		fmt.Fprintf(&sb, "%s\n", key)
	}
	return sb.String()
}
