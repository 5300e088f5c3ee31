package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otterlang/otterc/internal/config"
	"github.com/otterlang/otterc/internal/driver"
	"github.com/spf13/cobra"
)

var outputFile string

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile an OtterLang program to textual IR",
	Long: `Compile an OtterLang program's module graph to a single textual,
LLVM-style IR module, ready for a downstream backend to assemble and
link.

Examples:
  otterc build main.ot
  otterc build main.ot -o main.ll`,
	Args: cobra.ExactArgs(1),
	RunE: buildProgram,
}

var emitIRCmd = &cobra.Command{
	Use:   "emit-ir <file>",
	Short: "Emit an OtterLang program's IR to stdout",
	Long:  `Like build, but always writes the emitted IR to stdout rather than a file — useful for inspecting a single module's output while iterating.`,
	Args:  cobra.ExactArgs(1),
	RunE:  emitIR,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(emitIRCmd)
	buildCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.ll)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	if stdlibPath != "" {
		cfg.StdlibPath = stdlibPath
	}
	return cfg, nil
}

func buildProgram(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ir, diags := driver.Compile(args[0], cfg.StdlibPath, cfg.OptLevel)
	if diags != nil {
		fmt.Fprint(os.Stderr, diags.Error())
		return fmt.Errorf("compilation failed")
	}

	out := outputFile
	if out == "" {
		ext := filepath.Ext(args[0])
		out = strings.TrimSuffix(args[0], ext) + ".ll"
	}
	if err := os.WriteFile(out, []byte(ir), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}
	fmt.Printf("Compiled %s -> %s\n", args[0], out)
	return nil
}

func emitIR(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ir, diags := driver.Compile(args[0], cfg.StdlibPath, cfg.OptLevel)
	if diags != nil {
		fmt.Fprint(os.Stderr, diags.Error())
		return fmt.Errorf("compilation failed")
	}
	fmt.Println(ir)
	return nil
}
