package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/otterlang/otterc/internal/resolver"
	"github.com/otterlang/otterc/internal/stdlib"
)

// entryPath is the synthetic module path the root source file resolves
// under; the entry file need not follow the dotted-path naming
// convention every other module (workspace or bundled standard
// library) does, so it gets its own reserved key instead of being
// derived from a file name.
var entryPath = []string{"__main__"}

// workspaceLoader implements resolver.SourceLoader for a single
// compilation: the entry file itself, every other workspace module
// reached by `use` (read as `<root>/<path segments>.ot`), and the
// bundled standard library (delegated to stdlib.Loader, selected by
// resolver.StdlibModules the same way the resolver's own doc comment
// describes).
type workspaceLoader struct {
	root      string
	entryFile string
	stdlib    stdlib.Loader
}

func (w workspaceLoader) Load(path []string) (source, file string, err error) {
	if len(path) == len(entryPath) && path[0] == entryPath[0] {
		data, rerr := os.ReadFile(w.entryFile)
		if rerr != nil {
			return "", w.entryFile, rerr
		}
		return string(data), w.entryFile, nil
	}
	if resolver.StdlibModules[path[0]] {
		return w.stdlib.Load(path)
	}
	rel := strings.Join(path, string(filepath.Separator)) + ".ot"
	file = filepath.Join(w.root, rel)
	data, rerr := os.ReadFile(file)
	if rerr != nil {
		return "", file, rerr
	}
	return string(data), file, nil
}
