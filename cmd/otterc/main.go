// Command otterc is OtterLang's compiler driver: a thin cobra CLI over
// internal/driver's Compile/Run entry points, mirroring
// cmd/dwscript's own role as a thin wrapper over the teacher's lexer/
// parser/semantic/interp packages.
package main

import (
	"fmt"
	"os"

	"github.com/otterlang/otterc/cmd/otterc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
