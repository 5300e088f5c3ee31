// Package stdlib bundles OtterLang's standard library sources (core,
// math, io, time, task, runtime) into the compiler binary, and backs
// the json module's non-Otter implementation (internal/stdlib/json).
package stdlib

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed otter/*.ot
var sources embed.FS

// Loader implements internal/resolver.SourceLoader for the bundled
// standard library: a dotted path like {"math"} reads otter/math.ot
// from the embedded filesystem. Root, if non-empty, is checked first —
// config.StdlibPath lets a build substitute an on-disk copy of the
// stdlib (for local iteration on bundled modules) ahead of the
// binary's embedded one.
type Loader struct {
	Root string
}

func (l Loader) Load(path []string) (source, file string, err error) {
	name := strings.Join(path, ".") + ".ot"
	if l.Root != "" {
		p := filepath.Join(l.Root, name)
		if data, rerr := os.ReadFile(p); rerr == nil {
			return string(data), p, nil
		}
	}
	rel := "otter/" + name
	data, rerr := sources.ReadFile(rel)
	if rerr != nil {
		return "", "", rerr
	}
	return string(data), rel, nil
}
