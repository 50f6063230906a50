package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var extractSave bool

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract label fields from already recognized text",
	Long: `Extract manufacturing date, batch number, net weight and MRP from text.

The text is taken from the arguments, joined by spaces, or from stdin when no
arguments are given. Nothing is saved unless --save is set.

Examples:
  label-ocr extract "MFD 12/05/24 Batch A1B2C3D 250g MRP: 45.00"
  tesseract label.png - | label-ocr extract --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}

		p, _ := newPipeline(false)

		if !extractSave {
			return output(cmd, p.ExtractText(text))
		}

		res := p.ScanText(text)
		if err := output(cmd, res); err != nil {
			return err
		}
		return persistFailed(res)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "append the extracted record to the ledger")

	rootCmd.AddCommand(extractCmd)
}
