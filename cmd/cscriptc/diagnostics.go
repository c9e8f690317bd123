package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cscript/internal/diag"
	"cscript/internal/diagfmt"
	"cscript/internal/source"
)

// printDiagnostics выводит пакет диагностик в stderr в формате, выбранном
// персистентными флагами --diag-format и --color.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fset *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	bag.Dedup()

	format, _ := cmd.Root().PersistentFlags().GetString("diag-format")
	colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
	max, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	switch format {
	case "json":
		err := diagfmt.JSON(os.Stderr, bag, fset, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              max,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode diagnostics: %v\n", err)
		}
	default:
		diagfmt.Pretty(os.Stderr, bag, fset, diagfmt.PrettyOpts{
			Color:     useColor(colorMode, os.Stderr),
			ShowNotes: true,
			Context:   true,
		})
	}
}

// useColor решает вопрос о цвете по правилу auto|on|off.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
