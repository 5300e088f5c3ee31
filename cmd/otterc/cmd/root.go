package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	stdlibPath string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "otterc",
	Short: "OtterLang compiler",
	Long: `otterc compiles and runs OtterLang programs: a statically typed,
indentation-sensitive, Python-flavored language whose core compiles
source through tokens, an AST, a resolved module graph, and a typed
core IR, into a textual LLVM-style module against a fixed runtime ABI.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&stdlibPath, "stdlib-path", "", "on-disk standard library override (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "otter.yaml", "project manifest path")
}
