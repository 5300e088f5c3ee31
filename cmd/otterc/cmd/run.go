package cmd

import (
	"fmt"
	"os"

	"github.com/otterlang/otterc/internal/driver"
	"github.com/spf13/cobra"
)

var runSerial bool

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run an OtterLang program",
	Long: `Execute an OtterLang program directly, via the reference tree-walking
evaluator, rather than emitting and linking IR.

Examples:
  otterc run main.ot
  otterc run --serial main.ot`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runSerial, "serial", false, "run spawned tasks inline instead of on a worker pool")
}

func runProgram(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, diags, runErr := driver.RunStdio(args[0], cfg.StdlibPath, runSerial)
	if diags != nil {
		fmt.Fprint(os.Stderr, diags.Error())
		return fmt.Errorf("compilation failed")
	}
	if runErr != nil {
		return runErr
	}
	return nil
}
