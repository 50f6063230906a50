package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and OCR engine status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "label-ocr %s\n", Version)
		fmt.Fprintf(w, "  Go:         %s\n", runtime.Version())
		fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)

		info := newEngine(cfgManager.Get()).Info()
		if info.Available {
			fmt.Fprintf(w, "  Tesseract:  %s (%s)\n", info.Version, info.Language)
		} else {
			fmt.Fprintf(w, "  Tesseract:  unavailable: %s\n", info.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
