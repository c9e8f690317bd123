package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cscript/internal/config"
	"cscript/internal/diag"
	"cscript/internal/directive"
	"cscript/internal/lowering"
	"cscript/internal/prelude"
	"cscript/internal/source"
)

var lowerCmd = &cobra.Command{
	Use:   "lower <file.csc>",
	Short: "Print the composed C for a translation unit",
	Long:  "Lower a .csc file and print the prelude plus the lowered C to stdout\nwithout invoking the C toolchain.",
	Args:  cobra.ExactArgs(1),
	RunE:  lowerExecution,
}

func lowerExecution(cmd *cobra.Command, args []string) error {
	path := args[0]
	if ext := filepath.Ext(path); ext != ".csc" {
		return fmt.Errorf("expected a .csc file, got %q", path)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	fset := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	fileID, err := fset.Load(path)
	if err != nil {
		return err
	}

	cfg := config.Default()
	residual := directive.Extract(fset.Get(fileID), &cfg, reporter)
	low := lowering.Lower(fileID, residual, lowering.Options{Softline: cfg.Softline}, reporter)

	printDiagnostics(cmd, bag, fset)
	if bag.HasErrors() {
		return errors.New("lowering failed")
	}

	fmt.Fprint(os.Stdout, prelude.Compose(cfg))
	fmt.Fprintln(os.Stdout)
	_, err = os.Stdout.Write(low.Text)
	return err
}
